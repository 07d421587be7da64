package engine

import "dungeon-manager/sdk"

// Component 4.4 — DM-action dispatch. Grounded on the teacher's swap2
// move-kind switch (contract/g_swap.go's tagged-op handling), generalized
// from two move tags to the seven-member DMAction closed sum type.

// ActionDeps bundles the external collaborators a DM action dispatch may
// need to call out to, kept separate from OpContext so tests can swap in
// mocks per call site.
type ActionDeps struct {
	Minter Minter
}

func dispatchDMAction(host sdk.Host, deps ActionDeps, s *Session, act DMAction, now uint64) {
	switch act.Kind {
	case ActionNarrate:
		// no state effect; the narrative already went out with DMResponse.

	case ActionRewardGold:
		requireResource(host, act.Value <= MaxGoldPerAction, CodeGoldCapExceeded, "")
		requireResource(host, s.GoldPool+act.Value <= s.MaxGold, CodeGoldCapExceeded, "")
		RequirePrecondition(host, getPlayerAlive(host, s.ID, act.Target), CodePlayerNotAlive, "")
		setPlayerGold(host, s.ID, act.Target, getPlayerGold(host, s.ID, act.Target)+act.Value)
		s.GoldPool += act.Value
		emitGoldAwarded(host, s.ID, act.Target, act.Value)

	case ActionRewardXP:
		requireResource(host, act.Value <= MaxXPPerAction, CodeXPCapExceeded, "")
		RequirePrecondition(host, getPlayerAlive(host, s.ID, act.Target), CodePlayerNotAlive, "")
		a := loadAgent(host, act.Target)
		a.Address = act.Target
		a.XP += act.Value
		saveAgent(host, a)
		emitXPAwarded(host, s.ID, act.Target, act.Value)

	case ActionDamage:
		// narrative-only; strike tracking happens off-chain.

	case ActionKillPlayer:
		RequirePrecondition(host, getPlayerAlive(host, s.ID, act.Target), CodePlayerNotAlive, "")
		RequirePrecondition(host, act.Target != s.DM, CodeNotDM, "cannot kill the DM")
		killPlayer(host, s, act.Target)
		if !anyPartyAlive(host, s) {
			failSession(host, deps, OpContext{Host: host, Now: now}, s, "the entire party has fallen")
		}

	case ActionComplete:
		if s.State == StateActive || s.State == StateWaitingDM {
			completeSession(host, completionDeps{minter: deps.Minter}, OpContext{Host: host, Now: now}, s)
		}

	case ActionFail:
		if s.State == StateActive || s.State == StateWaitingDM {
			failSession(host, deps, OpContext{Host: host, Now: now}, s, "the dungeon master ended the run")
		}

	default:
		abort(host, KindEnvironment, CodeUnknownActionKind, "")
	}
}

// killPlayer marks a party member dead and sweeps their pending
// session-gold into the dungeon's gold loot pool. It does not fail the
// session; the KILL_PLAYER dispatch above does that when no party member
// is left alive.
func killPlayer(host sdk.Host, s *Session, target sdk.Address) {
	setPlayerAlive(host, s.ID, target, false)
	gold := getPlayerGold(host, s.ID, target)
	if gold > 0 {
		setPlayerGold(host, s.ID, target, 0)
		d := mustLoadDungeon(host, s.DungeonID)
		d.GoldLootPool += gold
		saveDungeon(host, d)
		emitLootPoolUpdated(host, d.ID, d.GoldLootPool)
	}
	emitPlayerDied(host, s.ID, target, gold)
}
