package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dungeon-manager/sdk"
)

// Scenario S1 — happy path, party of two.
func TestScenario_HappyPathPartyOfTwo(t *testing.T) {
	r := newTestRig()
	r.registerAgents("A", "B")
	dungeonID := r.StakeDungeon("landlord", "D0", 5, 2)
	r.as(r.owner)
	StartEpoch(r.host, r.now)

	r.grantTicket("A", 1)
	r.grantTicket("B", 1)

	r.as("A")
	sessionID := EnterDungeon(r.host, r.tickets, r.ctx(), dungeonID, sdk.AssetHive, r.now)
	require.Equal(t, StateWaiting, mustLoadSession(r.host, sessionID).State)

	r.as("B")
	EnterDungeon(r.host, r.tickets, r.ctx(), dungeonID, sdk.AssetHive, r.now)

	s := mustLoadSession(r.host, sessionID)
	require.Equal(t, StateWaitingDM, s.State)
	require.Contains(t, []sdk.Address{"A", "B"}, s.DM)
	dm := s.DM
	nonDM := otherPartyMember(s, "")

	r.as(r.runner)
	AcceptDM(r.host, sessionID, s.DMEpoch, dm, r.now)
	s = mustLoadSession(r.host, sessionID)
	require.Equal(t, StateActive, s.State)
	require.EqualValues(t, 1, s.TurnNumber)
	require.Equal(t, nonDM, s.CurrentActor)

	SubmitAction(r.host, sessionID, 1, "attack", nonDM, r.now)
	SubmitDMResponse(r.host, r.deps(), sessionID, 1, "hit!",
		[]DMAction{
			{Kind: ActionRewardGold, Target: nonDM, Value: 100},
			{Kind: ActionComplete, Narrative: "done"},
		}, dm, r.now)

	require.EqualValues(t, 80, r.minter.Balances[nonDM])
	require.EqualValues(t, 15, r.minter.Balances[dm])
	d := mustLoadDungeon(r.host, dungeonID)
	require.EqualValues(t, 5, getPendingRoyalty(r.host, d.Owner))
	require.Equal(t, EntryBond, getWithdrawable(r.host, dm))
	require.Equal(t, EntryBond, getWithdrawable(r.host, nonDM))
}

// Scenario S2 — DM timeout and reroll with a three-player party.
func TestScenario_DMTimeoutAndReroll(t *testing.T) {
	r := newTestRig()
	_, sessionID := enterFullParty(t, r, 3, "A", "B", "C")
	s := mustLoadSession(r.host, sessionID)
	oldDM, oldEpoch := s.DM, s.DMEpoch

	r.advance(DMAcceptTimeout + 1)
	RerollDM(r.host, sessionID, r.now)

	s = mustLoadSession(r.host, sessionID)
	require.Equal(t, StateWaitingDM, s.State)
	require.NotEqual(t, oldDM, s.DM)
	require.EqualValues(t, oldEpoch+1, s.DMEpoch)
	require.NotContains(t, s.AllPlayers, oldDM)

	d := mustLoadDungeon(r.host, s.DungeonID)
	require.EqualValues(t, EntryBond, d.NativeLootPool)

	r.as(r.runner)
	defer expectAbortCode(t, CodeStaleEpoch)()
	AcceptDM(r.host, sessionID, oldEpoch, s.DM, r.now)
}

// Scenario S3 — reroll collapses to cancellation with only one player left.
func TestScenario_RerollToCancellation(t *testing.T) {
	r := newTestRig()
	_, sessionID := enterFullParty(t, r, 2, "A", "B")

	r.advance(DMAcceptTimeout + 1)
	RerollDM(r.host, sessionID, r.now)

	s := mustLoadSession(r.host, sessionID)
	require.Equal(t, StateCancelled, s.State)
	require.Len(t, s.AllPlayers, 1)
	require.Equal(t, EntryBond, getWithdrawable(r.host, s.AllPlayers[0]))
}

// Scenario S4 — session inactivity sweep, no fault, no forfeiture.
func TestScenario_SessionInactivityTimeout(t *testing.T) {
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

// Scenario S5 — DM abandons mid-game: forfeiture, not release.
func TestScenario_DMAbandonsMidGame(t *testing.T) {
	r := newTestRig()
	sessionID := startActiveSession(t, r)
	s := mustLoadSession(r.host, sessionID)
	setPlayerGold(r.host, sessionID, s.Party[0], 30)

	actEveryPartyMember(t, r, sessionID) // current_actor is now the DM, who never responds

	r.advance(TurnTimeout + 1)
	TimeoutAdvance(r.host, r.deps(), r.ctx(), sessionID, r.now)

	s = mustLoadSession(r.host, sessionID)
	require.Equal(t, StateFailed, s.State)
	d := mustLoadDungeon(r.host, s.DungeonID)
	require.EqualValues(t, 30, d.GoldLootPool)
	require.EqualValues(t, uint64(len(s.AllPlayers))*EntryBond, d.NativeLootPool)
	for _, p := range s.AllPlayers {
		require.Equal(t, uint64(0), getWithdrawable(r.host, p))
	}
}

// Scenario S6 — global gold cap enforcement. Difficulty 5 against the
// default max_gold_per_session (500) clamps max_gold to min(500,500)=500.
func TestScenario_GoldCapEnforcement(t *testing.T) {
	r := newTestRig()
	dungeonID := r.StakeDungeon("landlord", "D-hard", 5, 2)
	r.as(r.owner)
	StartEpoch(r.host, r.now)
	r.registerAgents("A", "B")
	r.grantTicket("A", 1)
	r.grantTicket("B", 1)

	r.as("A")
	sessionID := EnterDungeon(r.host, r.tickets, r.ctx(), dungeonID, sdk.AssetHive, r.now)
	r.as("B")
	EnterDungeon(r.host, r.tickets, r.ctx(), dungeonID, sdk.AssetHive, r.now)

	s := mustLoadSession(r.host, sessionID)
	require.EqualValues(t, 500, s.MaxGold)
	r.as(r.runner)
	AcceptDM(r.host, sessionID, s.DMEpoch, s.DM, r.now)
	s = mustLoadSession(r.host, sessionID)
	target := s.Party[0]

	for i := 0; i < 5; i++ {
		dispatchDMAction(r.host, r.deps(), s, DMAction{Kind: ActionRewardGold, Target: target, Value: 100}, r.now)
	}
	require.EqualValues(t, 500, s.GoldPool)

	defer expectAbortCode(t, CodeGoldCapExceeded)()
	dispatchDMAction(r.host, r.deps(), s, DMAction{Kind: ActionRewardGold, Target: target, Value: 1}, r.now)
}
