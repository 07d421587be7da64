package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dungeon-manager/sdk"
)

// startActiveSession drives a 3-player party (2 party members + 1 DM) all
// the way to Active, returning the session id.
func startActiveSession(t *testing.T, r *testRig) string {
	t.Helper()
	_, sessionID := enterFullParty(t, r, 3, "alice", "bob", "carol")
	s := mustLoadSession(r.host, sessionID)
	r.as(r.runner)
	AcceptDM(r.host, sessionID, s.DMEpoch, s.DM, r.now)
	return sessionID
}

// actEveryPartyMember submits a no-op action for each living party member in
// scheduler order, leaving current_actor on the DM.
func actEveryPartyMember(t *testing.T, r *testRig, sessionID string) {
	t.Helper()
	partySize := len(mustLoadSession(r.host, sessionID).Party)
	for i := 0; i < partySize; i++ {
		s := mustLoadSession(r.host, sessionID)
		require.NotEqual(t, s.DM, s.CurrentActor, "party members should still be acting")
		r.as(r.runner)
		SubmitAction(r.host, sessionID, s.TurnNumber, "I act", s.CurrentActor, r.now)
	}
	s := mustLoadSession(r.host, sessionID)
	require.Equal(t, s.DM, s.CurrentActor, "every party member has acted; DM is next")
}

func TestSubmitAction_OnlyCurrentActor(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	s := mustLoadSession(r.host, sessionID)
	other := otherPartyMember(s, s.CurrentActor)

	r.as(r.runner)
	defer expectAbortCode(t, CodeNotYourTurn)()
	SubmitAction(r.host, sessionID, s.TurnNumber, "I attack", other, r.now)
}

func TestFullTurn_PartyActsThenDMRespondsAndAdvances(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	actEveryPartyMember(t, r, sessionID)

	s := mustLoadSession(r.host, sessionID)
	turn := s.TurnNumber

	r.as(r.runner)
	SubmitDMResponse(r.host, r.deps(), sessionID, turn, "the room is quiet", nil, s.DM, r.now)

	s = mustLoadSession(r.host, sessionID)
	require.EqualValues(t, turn+1, s.TurnNumber)
	require.Equal(t, s.Party[0], s.CurrentActor)
	require.EqualValues(t, 0, s.ActedThisTurn)
}

func TestSubmitDMResponse_RejectsBeforeAnyAction(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)

	// Every party member times out without acting, so the DM becomes the
	// current actor while no action has been submitted this turn.
	partySize := len(mustLoadSession(r.host, sessionID).Party)
	for i := 0; i < partySize; i++ {
		r.advance(TurnTimeout + 1)
		TimeoutAdvance(r.host, r.deps(), r.ctx(), sessionID, r.now)
	}
	s := mustLoadSession(r.host, sessionID)
	require.Equal(t, s.DM, s.CurrentActor)

	r.as(r.runner)
	defer expectAbortCode(t, CodeNoActionYet)()
	SubmitDMResponse(r.host, r.deps(), sessionID, s.TurnNumber, "too soon", nil, s.DM, r.now)
}

func TestSubmitDMResponse_RewardGoldDispatch(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	actEveryPartyMember(t, r, sessionID)

	s := mustLoadSession(r.host, sessionID)
	target := s.Party[0]
	actions := []DMAction{{Kind: ActionRewardGold, Target: target, Value: 20}}

	r.as(r.runner)
	SubmitDMResponse(r.host, r.deps(), sessionID, s.TurnNumber, "you find gold", actions, s.DM, r.now)

	require.EqualValues(t, 20, getPlayerGold(r.host, sessionID, target))
	s = mustLoadSession(r.host, sessionID)
	require.EqualValues(t, 20, s.GoldPool)
}

func TestSubmitDMResponse_RewardGoldOverCapAborts(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	actEveryPartyMember(t, r, sessionID)

	s := mustLoadSession(r.host, sessionID)
	actions := []DMAction{{Kind: ActionRewardGold, Target: s.Party[0], Value: MaxGoldPerAction + 1}}

	r.as(r.runner)
	defer expectAbortCode(t, CodeGoldCapExceeded)()
	SubmitDMResponse(r.host, r.deps(), sessionID, s.TurnNumber, "too generous", actions, s.DM, r.now)
}

func TestFlee_MintsKeptGoldAndReleasesBond(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	actEveryPartyMember(t, r, sessionID)

	s := mustLoadSession(r.host, sessionID)
	target := s.Party[0]
	actions := []DMAction{{Kind: ActionRewardGold, Target: target, Value: 40}}
	r.as(r.runner)
	SubmitDMResponse(r.host, r.deps(), sessionID, s.TurnNumber, "gold found", actions, s.DM, r.now)

	r.as(r.runner)
	Flee(r.host, r.deps(), r.ctx(), sessionID, target, r.now)

	require.False(t, getPlayerAlive(r.host, sessionID, target))
	wantKept := uint64(40) - uint64(40)*FleeRoyaltyBps/10_000
	require.Equal(t, wantKept, r.minter.Balances[target])
	require.Equal(t, EntryBond, getWithdrawable(r.host, target))
}

func TestFlee_LastSurvivorFailsSession(t *testing.T) {
	r := newTestRig()
	_, sessionID := enterFullParty(t, r, 2, "alice", "bob")
	s := mustLoadSession(r.host, sessionID)
	r.as(r.runner)
	AcceptDM(r.host, sessionID, s.DMEpoch, s.DM, r.now)

	s = mustLoadSession(r.host, sessionID)
	onlyPartyMember := s.Party[0]

	r.as(r.runner)
	Flee(r.host, r.deps(), r.ctx(), sessionID, onlyPartyMember, r.now)

	s = mustLoadSession(r.host, sessionID)
	require.Equal(t, StateFailed, s.State)
}

func TestTimeoutAdvance_DelinquentPartyMemberSkipped(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	s := mustLoadSession(r.host, sessionID)
	delinquent := s.CurrentActor

	r.advance(TurnTimeout + 1)
	TimeoutAdvance(r.host, r.deps(), r.ctx(), sessionID, r.now)

	s = mustLoadSession(r.host, sessionID)
	require.NotEqual(t, delinquent, s.CurrentActor)
	require.Equal(t, StateActive, s.State)
}

func TestTimeoutAdvance_DelinquentDMFailsSession(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	actEveryPartyMember(t, r, sessionID) // current_actor is now the DM

	r.advance(TurnTimeout + 1)
	TimeoutAdvance(r.host, r.deps(), r.ctx(), sessionID, r.now)

	s := mustLoadSession(r.host, sessionID)
	require.Equal(t, StateFailed, s.State)
}

func TestTimeoutSession_ReleasesAllBondsWhenIdle(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	s := mustLoadSession(r.host, sessionID)

	r.advance(SessionTimeout + 1)
	TimeoutSession(r.host, sessionID, r.now)

	s = mustLoadSession(r.host, sessionID)
	require.Equal(t, StateTimedOut, s.State)
	for _, p := range s.AllPlayers {
		require.Equal(t, EntryBond, getWithdrawable(r.host, p))
	}
}

func otherPartyMember(s *Session, not sdk.Address) sdk.Address {
	for _, p := range s.Party {
		if p != not {
			return p
		}
	}
	return s.DM
}
