package engine

import "dungeon-manager/sdk"

// Component 6 — deadline-driven sweeps. Callable by anyone once the
// relevant wall-clock deadline has passed, since no in-flight
// cancellation exists under the serialized execution model. Grounded on
// the teacher's g_timeout.go claim-on-stale-game pattern, generalized
// from a single forfeit-to-opponent rule to per-actor-kind branching
// (a delinquent DM fails the session; a delinquent party member is
// simply skipped).

// TimeoutAdvance handles a delinquent current_actor once now > turn_deadline.
// A delinquent DM fails the session outright; a delinquent party member is
// treated as having skipped their action and the scheduler simply moves on.
func TimeoutAdvance(host sdk.Host, deps ActionDeps, ctx OpContext, sessionID string, now uint64) {
	s := mustLoadSession(host, sessionID)
	RequirePrecondition(host, s.State == StateActive, CodeSessionNotActive, "")
	RequirePrecondition(host, now > s.TurnDeadline, CodeDeadlineNotPassed, "")

	delinquent := s.CurrentActor
	emitTurnTimeout(host, sessionID, s.TurnNumber, delinquent)

	if delinquent == s.DM {
		failSession(host, deps, ctx, s, "DM abandoned")
		saveSession(host, s)
		return
	}

	s.setBit(s.indexOf(delinquent))
	advanceToNextActor(host, s, false, delinquent, now)
	saveSession(host, s)
}

// TimeoutSession sweeps a session that has gone idle for 4h while it was
// WaitingDM or Active. No one is at fault, so every held bond simply
// returns to the withdrawable queue rather than being forfeited.
func TimeoutSession(host sdk.Host, sessionID string, now uint64) {
	s := mustLoadSession(host, sessionID)
	RequirePrecondition(host, s.State == StateWaitingDM || s.State == StateActive, CodeSessionNotActive, "")
	RequirePrecondition(host, now > s.LastActivityTs+SessionTimeout, CodeNotTimedOut, "")

	d := mustLoadDungeon(host, s.DungeonID)

	for _, p := range s.AllPlayers {
		releaseBond(host, s.ID, p)
		bumpGamesPlayed(host, p)
	}
	s.State = StateTimedOut
	d.CurrentSessionID = ""
	decActiveSessionCount(host)
	saveDungeon(host, d)
	saveSession(host, s)

	emitSessionTimedOut(host, sessionID)
}
