package engine

import "dungeon-manager/sdk"

// Component 6 — turn scheduler and the two runner-relayed gameplay calls
// (submit_action, submit_dm_response). Grounded on the teacher's
// g_move.go turn-alternation (`g.Turn = otherPlayer(g.Turn)`), generalized
// from strict two-player alternation to a bitmap scan over an ordered
// party plus a single DM.

func getActionSubmitted(host sdk.Host, sessionID string, turn uint64) bool {
	v := host.StateGetObject(keyActionSubmitted(sessionID, turn))
	return v != nil && *v == "1"
}

func setActionSubmitted(host sdk.Host, sessionID string, turn uint64) {
	host.StateSetObject(keyActionSubmitted(sessionID, turn), "1")
}

// advanceToNextActor is the core turn-scheduler transition: after the
// DM acts, the next turn opens with the first living, not-yet-acted party
// member; after a party member acts, the scan wraps from one past their
// position *within the party* (acted_this_turn is indexed by all_players
// position, but the wrap order follows party order). When every living
// member has acted this turn, the DM is next.
func advanceToNextActor(host sdk.Host, s *Session, actedWasDM bool, justActed sdk.Address, now uint64) {
	next := sdk.Address("")
	if actedWasDM || len(s.Party) == 0 {
		next = firstUnactedLivingParty(host, s, 0)
	} else {
		partyIdx := partyIndexOf(s, justActed)
		start := partyIdx + 1
		if partyIdx == -1 || start >= len(s.Party) {
			start = 0
		}
		next = firstUnactedLivingPartyWrapped(host, s, start)
	}
	if next == "" {
		next = s.DM
	}
	s.CurrentActor = next
	s.TurnDeadline = now + TurnTimeout
	s.LastActivityTs = now
	emitTurnAdvanced(host, s.ID, s.TurnNumber, next)
}

func partyIndexOf(s *Session, addr sdk.Address) int {
	for i, p := range s.Party {
		if p == addr {
			return i
		}
	}
	return -1
}

func firstUnactedLivingParty(host sdk.Host, s *Session, from int) sdk.Address {
	for i := from; i < len(s.Party); i++ {
		p := s.Party[i]
		idx := s.indexOf(p)
		if getPlayerAlive(host, s.ID, p) && !s.bitSet(idx) {
			return p
		}
	}
	return ""
}

func firstUnactedLivingPartyWrapped(host sdk.Host, s *Session, start int) sdk.Address {
	n := len(s.Party)
	for i := 0; i < n; i++ {
		p := s.Party[(start+i)%n]
		idx := s.indexOf(p)
		if getPlayerAlive(host, s.ID, p) && !s.bitSet(idx) {
			return p
		}
	}
	return ""
}

// SubmitAction is runner-relayed. Only the current actor (a living party
// member) may submit, and only on the session's current turn.
func SubmitAction(host sdk.Host, sessionID string, turnIndex uint64, text string, player sdk.Address, now uint64) {
	requireNotPaused(host)
	requireRunner(host)
	requireResource(host, len(text) <= MaxActionLength, CodeActionTooLong, "")

	s := mustLoadSession(host, sessionID)
	RequirePrecondition(host, s.State == StateActive, CodeSessionNotActive, "")
	requirePermission(host, player == s.CurrentActor, CodeNotYourTurn, "")
	RequirePrecondition(host, getPlayerAlive(host, sessionID, player), CodePlayerNotAlive, "")
	RequirePrecondition(host, turnIndex == s.TurnNumber, CodeWrongTurn, "")

	setActionSubmitted(host, sessionID, turnIndex)
	idx := s.indexOf(player)
	s.setBit(idx)
	s.LastActivityTs = now

	emitActionSubmitted(host, sessionID, player, turnIndex, text)
	advanceToNextActor(host, s, false, player, now)
	saveSession(host, s)
}

// SubmitDMResponse is runner-relayed. It requires at least one player
// action already landed this turn, dispatches every action in order,
// then opens the next turn if the session is still Active afterward.
func SubmitDMResponse(host sdk.Host, deps ActionDeps, sessionID string, turnIndex uint64, narrative string, actions []DMAction, dm sdk.Address, now uint64) {
	requireNotPaused(host)
	requireRunner(host)
	requireResource(host, len(narrative) <= MaxNarrativeLength, CodeNarrativeTooLong, "")

	s := mustLoadSession(host, sessionID)
	RequirePrecondition(host, s.State == StateActive, CodeSessionNotActive, "")
	requirePermission(host, dm == s.DM && dm == s.CurrentActor, CodeNotDM, "")
	RequirePrecondition(host, turnIndex == s.TurnNumber, CodeWrongTurn, "")
	RequirePrecondition(host, getActionSubmitted(host, sessionID, turnIndex), CodeNoActionYet, "")

	s.LastActivityTs = now
	emitDMResponse(host, sessionID, turnIndex, narrative)

	for _, act := range actions {
		dispatchDMAction(host, deps, s, act, now)
	}

	if s.State == StateActive {
		s.TurnNumber++
		s.clearBits()
		advanceToNextActor(host, s, true, s.DM, now)
	}
	saveSession(host, s)
}

// Flee lets a living party member bail out early: their pending
// session-gold is minted immediately (minus the standard royalty booked
// to the dungeon owner), and their bond returns to the withdrawable queue.
// If that leaves no living party members, the session fails outright.
func Flee(host sdk.Host, deps ActionDeps, ctx OpContext, sessionID string, agent sdk.Address, now uint64) {
	requireRunner(host)
	s := mustLoadSession(host, sessionID)
	RequirePrecondition(host, s.State == StateActive, CodeSessionNotActive, "")
	RequirePrecondition(host, s.indexOf(agent) != -1 && agent != s.DM, CodeNotYourTurn, "agent not in party")
	RequirePrecondition(host, getPlayerAlive(host, sessionID, agent), CodePlayerNotAlive, "")

	gold := getPlayerGold(host, sessionID, agent)
	royalty := gold * FleeRoyaltyBps / 10_000
	kept := gold - royalty

	setPlayerAlive(host, sessionID, agent, false)
	setPlayerGold(host, sessionID, agent, 0)
	releaseBond(host, sessionID, agent)

	d := mustLoadDungeon(host, s.DungeonID)
	addPendingRoyalty(host, d.Owner, royalty)
	mustMint(host, deps.Minter, ctx, agent, kept)

	emitPlayerFled(host, sessionID, agent, kept, royalty)
	emitGoldAwarded(host, sessionID, agent, kept)

	if !anyPartyAlive(host, s) {
		failSession(host, deps, ctx, s, "all party members fled or died")
	}
	saveSession(host, s)
}

func anyPartyAlive(host sdk.Host, s *Session) bool {
	for _, p := range s.Party {
		if getPlayerAlive(host, s.ID, p) {
			return true
		}
	}
	return false
}
