package engine

import (
	"github.com/google/uuid"
	"lukechampine.com/blake3"

	"dungeon-manager/sdk"
)

// Component 6 — Session State Machine, entry and DM-selection half
//. Grounded on the teacher's g_create.go/g_join.go pair:
// the first entrant allocates a fresh record, later entrants join it until
// full, and fullness triggers a state transition — generalized from a
// 2-player 1v1 board to an N-player dungeon party plus a DM draw.

func newSessionID() string { return uuid.NewString() }

// findOrCreateSession returns the dungeon's current Waiting session if one
// exists with room for another entrant, or allocates a fresh one.
func findOrCreateSession(host sdk.Host, d *Dungeon, epochID uint64, maxGold uint64) *Session {
	if d.CurrentSessionID != "" {
		s, ok := loadSession(host, d.CurrentSessionID)
		if ok && s.State == StateWaiting && uint64(len(s.AllPlayers)) < d.Traits.PartySize {
			return s
		}
	}
	s := &Session{
		ID:        newSessionID(),
		DungeonID: d.ID,
		State:     StateWaiting,
		MaxGold:   maxGold,
		EpochID:   epochID,
	}
	d.CurrentSessionID = s.ID
	incActiveSessionCount(host)
	return s
}

// EnterDungeon is the sole way a registered agent joins a party. It
// charges one ticket and one native-value bond, appends the caller to
// all_players, and — once the party is full — fires DM selection
// immediately, in the same operation.
func EnterDungeon(host sdk.Host, tickets TicketRegistry, ctx OpContext, dungeonID uint64, asset sdk.Asset, now uint64) string {
	requireNotPaused(host)
	caller := senderAddress(host)
	requireRegisteredAgent(host, caller)
	e := requireEpochActive(host)

	d := mustLoadDungeon(host, dungeonID)
	RequirePrecondition(host, d.Active, CodeDungeonNotActive, "")

	requireFundedBond(host, asset)
	mustBurnTicket(host, tickets, ctx, caller)

	maxGold := sessionMaxGold(d, getMaxGoldPerSession(host))
	s := findOrCreateSession(host, &d, e.Index, maxGold)

	RequirePrecondition(host, s.indexOf(caller) == -1, CodeAlreadyInParty, "")

	holdBond(host, s.ID, caller, asset)
	s.AllPlayers = append(s.AllPlayers, caller)
	setPlayerAlive(host, s.ID, caller, true)
	s.LastActivityTs = now

	emitPlayerEntered(host, s.ID, caller)

	if uint64(len(s.AllPlayers)) == d.Traits.PartySize {
		selectDM(host, s, now)
	}

	saveDungeon(host, d)
	saveSession(host, s)
	return s.ID
}

// selectDM draws the DM deterministically from the environment's
// randomness and the session's own entrants. The seed is
// adversary-influenceable; that tradeoff is accepted since whoever could
// bias the seed is already a party to the session being seeded.
func selectDM(host sdk.Host, s *Session, now uint64) {
	env := host.GetEnv()
	h := blake3.New(32, nil)
	h.Write([]byte(env.ChainRandomness))
	h.Write([]byte(env.PriorBlockHash))
	h.Write([]byte(s.ID))
	for _, p := range s.AllPlayers {
		h.Write([]byte(p))
	}
	seed := h.Sum(nil)
	idx := int(seedToUint64(seed) % uint64(len(s.AllPlayers)))

	dm := s.AllPlayers[idx]
	party := make([]sdk.Address, 0, len(s.AllPlayers)-1)
	for i, p := range s.AllPlayers {
		if i != idx {
			party = append(party, p)
		}
	}

	s.DM = dm
	s.Party = party
	s.DMEpoch++
	s.DMAcceptDeadline = now + DMAcceptTimeout
	s.State = StateWaitingDM

	emitDmSelected(host, s.ID, dm, s.DMEpoch)
}

func seedToUint64(digest []byte) uint64 {
	var v uint64
	for i := 0; i < 8 && i < len(digest); i++ {
		v = v<<8 | uint64(digest[i])
	}
	return v
}

// AcceptDM is runner-relayed: the delegated DM account confirms the role,
// starting gameplay with the first party member acting first each turn.
func AcceptDM(host sdk.Host, sessionID string, claimedDMEpoch uint64, dm sdk.Address, now uint64) {
	requireRunner(host)
	s := mustLoadSession(host, sessionID)
	RequirePrecondition(host, s.State == StateWaitingDM, CodeSessionNotWaiting, "")
	RequirePrecondition(host, dm == s.DM, CodeNotDM, "")
	RequirePrecondition(host, claimedDMEpoch == s.DMEpoch, CodeStaleEpoch, "")
	RequirePrecondition(host, now <= s.DMAcceptDeadline, CodeDeadlineNotPassed, "accept deadline already passed")

	s.State = StateActive
	s.TurnNumber = 1
	s.CurrentActor = s.Party[0]
	s.TurnDeadline = now + TurnTimeout
	s.LastActivityTs = now

	saveSession(host, s)
	emitDmAccepted(host, sessionID, dm)
	emitGameStarted(host, sessionID, s.DungeonID, dm, s.Party)
	emitTurnAdvanced(host, sessionID, s.TurnNumber, s.CurrentActor)
}

// RerollDM handles a DM who never accepted: their bond is forfeited, they
// are dropped from all_players, and selection runs again over whoever
// remains. With fewer than two entrants left there is no one to run the
// dungeon, so the session is cancelled and the rest get their bonds back.
func RerollDM(host sdk.Host, sessionID string, now uint64) {
	s := mustLoadSession(host, sessionID)
	RequirePrecondition(host, s.State == StateWaitingDM, CodeSessionNotWaiting, "")
	RequirePrecondition(host, now > s.DMAcceptDeadline, CodeDeadlineNotPassed, "")

	d := mustLoadDungeon(host, s.DungeonID)
	delinquent := s.DM
	oldDMEpoch := s.DMEpoch

	forfeitBond(host, sessionID, delinquent, &d)
	s.AllPlayers = removeAddress(s.AllPlayers, delinquent)
	s.DM = ""
	s.Party = nil

	if len(s.AllPlayers) >= 2 {
		selectDM(host, s, now)
		emitDmRerolled(host, sessionID, delinquent, s.DMEpoch)
	} else {
		s.State = StateCancelled
		d.CurrentSessionID = ""
		decActiveSessionCount(host)
		for _, p := range s.AllPlayers {
			releaseBond(host, sessionID, p)
		}
		emitDmRerolled(host, sessionID, delinquent, oldDMEpoch)
		emitSessionCancelled(host, sessionID)
	}

	saveDungeon(host, d)
	saveSession(host, s)
}

func removeAddress(addrs []sdk.Address, target sdk.Address) []sdk.Address {
	out := addrs[:0]
	for _, a := range addrs {
		if a != target {
			out = append(out, a)
		}
	}
	return out
}

// ---------- per-session player side tables ----------

func getPlayerAlive(host sdk.Host, sessionID string, p sdk.Address) bool {
	v := host.StateGetObject(keyPlayerAlive(sessionID, p))
	return v != nil && *v == "1"
}

func setPlayerAlive(host sdk.Host, sessionID string, p sdk.Address, alive bool) {
	if alive {
		host.StateSetObject(keyPlayerAlive(sessionID, p), "1")
	} else {
		host.StateSetObject(keyPlayerAlive(sessionID, p), "0")
	}
}

func getPlayerGold(host sdk.Host, sessionID string, p sdk.Address) uint64 {
	v := host.StateGetObject(keyPlayerGold(sessionID, p))
	if v == nil {
		return 0
	}
	return parseU64(*v)
}

func setPlayerGold(host sdk.Host, sessionID string, p sdk.Address, amount uint64) {
	host.StateSetObject(keyPlayerGold(sessionID, p), U64s(amount))
}
