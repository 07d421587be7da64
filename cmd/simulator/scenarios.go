package main

import (
	"fmt"

	"dungeon-manager/engine"
	"dungeon-manager/sdk"
)

// Each scenario below runs one of the six end-to-end dungeon-session
// walkthroughs against the engine package through an in-memory sdk.Mock,
// the same way engine/scenarios_test.go does as a Go test — here as a
// standalone, narratable run any operator can execute locally without a
// WASM runtime.

func assertf(cond bool, format string, args ...any) error {
	if !cond {
		return fmt.Errorf(format, args...)
	}
	return nil
}

// runS1 — happy path, party of two: both entrants fund a session, a DM is
// drawn, the non-DM player acts, the DM awards gold and completes the run,
// and the dm-fee/royalty/player split lands on the documented percentages.
func runS1(cfg *Config) error {
	var outcome error
	err := runProtected(func() {
		r := newSimRig(cfg.StartTimestamp, cfg.ChainRandomness)
		dungeonID := r.stakeDungeon("landlord", "asset-cave", 5, 2)
		r.as(r.owner)
		engine.StartEpoch(r.host, r.now)

		sessionID := r.enterFullParty(dungeonID, "alice", "bob")
		sv, _ := engine.ViewSession(r.host, sessionID)
		if outcome = assertf(sv.State == engine.StateWaitingDM, "expected WaitingDM, got %s", sv.State); outcome != nil {
			return
		}
		dm := sv.DM
		nonDM := sv.Party[0]

		r.as(r.runner)
		engine.AcceptDM(r.host, sessionID, sv.DMEpoch, dm, r.now)
		engine.SubmitAction(r.host, sessionID, 1, "attack the slime", nonDM, r.now)
		engine.SubmitDMResponse(r.host, r.deps(), sessionID, 1, "it hits!", []engine.DMAction{
			{Kind: engine.ActionRewardGold, Target: nonDM, Value: 100},
			{Kind: engine.ActionComplete},
		}, dm, r.now)

		nonDMBalance := r.minter.Balances[nonDM]
		dmBalance := r.minter.Balances[dm]
		royalty := engine.ViewPendingRoyalty(r.host, "landlord")

		if outcome = assertf(nonDMBalance == 80, "expected player balance 80, got %d", nonDMBalance); outcome != nil {
			return
		}
		if outcome = assertf(dmBalance == 15, "expected dm balance 15, got %d", dmBalance); outcome != nil {
			return
		}
		if outcome = assertf(royalty == 5, "expected royalty 5, got %d", royalty); outcome != nil {
			return
		}
		for _, p := range []sdk.Address{dm, nonDM} {
			if outcome = assertf(engine.ViewWithdrawable(r.host, p) == engine.EntryBond,
				"expected %s bond withdrawable, got %d", p, engine.ViewWithdrawable(r.host, p)); outcome != nil {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return outcome
}

// runS2 — DM timeout then reroll in a party of three: the delinquent DM's
// bond is forfeited, a new DM is drawn from the remaining two, dm_epoch
// advances, and accepting with the stale epoch now fails.
func runS2(cfg *Config) error {
	var outcome error
	err := runProtected(func() {
		r := newSimRig(cfg.StartTimestamp, cfg.ChainRandomness)
		dungeonID := r.stakeDungeon("landlord", "asset-crypt", 3, 3)
		r.as(r.owner)
		engine.StartEpoch(r.host, r.now)

		sessionID := r.enterFullParty(dungeonID, "alice", "bob", "carol")
		sv, _ := engine.ViewSession(r.host, sessionID)
		staleEpoch := sv.DMEpoch

		r.advance(engine.DMAcceptTimeout + 1)
		engine.RerollDM(r.host, sessionID, r.now)

		sv, _ = engine.ViewSession(r.host, sessionID)
		if outcome = assertf(sv.State == engine.StateWaitingDM, "expected WaitingDM after reroll, got %s", sv.State); outcome != nil {
			return
		}
		if outcome = assertf(sv.DMEpoch == staleEpoch+1, "expected dm_epoch %d, got %d", staleEpoch+1, sv.DMEpoch); outcome != nil {
			return
		}
		d, _ := engine.ViewDungeon(r.host, dungeonID)
		if outcome = assertf(d.NativeLootPool == engine.EntryBond, "expected forfeited bond in loot pool, got %d", d.NativeLootPool); outcome != nil {
			return
		}

		r.as(r.runner)
		func() {
			defer func() {
				msg, ok := sdk.RecoverAbort(recover())
				if !ok || !containsSubstr(msg, engine.CodeStaleEpoch) {
					outcome = fmt.Errorf("expected StaleEpoch abort accepting with old dm_epoch, got %q (recovered=%v)", msg, ok)
				}
			}()
			engine.AcceptDM(r.host, sessionID, staleEpoch, sv.DM, r.now)
		}()
	})
	if err != nil {
		return err
	}
	return outcome
}

// runS3 — a two-player session rerolls down to a single remaining player
// and cancels outright, releasing that player's bond.
func runS3(cfg *Config) error {
	var outcome error
	err := runProtected(func() {
		r := newSimRig(cfg.StartTimestamp, cfg.ChainRandomness)
		dungeonID := r.stakeDungeon("landlord", "asset-tomb", 2, 2)
		r.as(r.owner)
		engine.StartEpoch(r.host, r.now)

		sessionID := r.enterFullParty(dungeonID, "alice", "bob")
		r.advance(engine.DMAcceptTimeout + 1)
		engine.RerollDM(r.host, sessionID, r.now)

		sv, _ := engine.ViewSession(r.host, sessionID)
		if outcome = assertf(sv.State == engine.StateCancelled, "expected Cancelled, got %s", sv.State); outcome != nil {
			return
		}
		survivor := sv.AllPlayers[0]
		if outcome = assertf(engine.ViewWithdrawable(r.host, survivor) == engine.EntryBond,
			"expected survivor bond released, got %d", engine.ViewWithdrawable(r.host, survivor)); outcome != nil {
			return
		}
	})
	if err != nil {
		return err
	}
	return outcome
}

// runS4 — an Active session goes idle for 4h+1s; anyone can sweep it to
// TimedOut and every still-held bond returns to the withdrawable queue
// with no forfeiture.
func runS4(cfg *Config) error {
	var outcome error
	err := runProtected(func() {
		r := newSimRig(cfg.StartTimestamp, cfg.ChainRandomness)
		dungeonID := r.stakeDungeon("landlord", "asset-well", 4, 3)
		r.as(r.owner)
		engine.StartEpoch(r.host, r.now)

		sessionID := r.enterFullParty(dungeonID, "alice", "bob", "carol")
		sv, _ := engine.ViewSession(r.host, sessionID)
		r.as(r.runner)
		engine.AcceptDM(r.host, sessionID, sv.DMEpoch, sv.DM, r.now)

		r.advance(engine.SessionTimeout + 1)
		engine.TimeoutSession(r.host, sessionID, r.now)

		sv, _ = engine.ViewSession(r.host, sessionID)
		if outcome = assertf(sv.State == engine.StateTimedOut, "expected TimedOut, got %s", sv.State); outcome != nil {
			return
		}
		for _, p := range sv.AllPlayers {
			if outcome = assertf(engine.ViewWithdrawable(r.host, p) == engine.EntryBond,
				"expected %s bond released without forfeiture, got %d", p, engine.ViewWithdrawable(r.host, p)); outcome != nil {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return outcome
}

// runS5 — mid-game the DM abandons: a party member acts, the DM never
// responds within the turn timeout, and timeout_advance fails the session
// outright, forfeiting every bond and sweeping accrued gold to the loot
// pool.
func runS5(cfg *Config) error {
	var outcome error
	err := runProtected(func() {
		r := newSimRig(cfg.StartTimestamp, cfg.ChainRandomness)
		dungeonID := r.stakeDungeon("landlord", "asset-spire", 6, 2)
		r.as(r.owner)
		engine.StartEpoch(r.host, r.now)

		sessionID := r.enterFullParty(dungeonID, "alice", "bob")
		sv, _ := engine.ViewSession(r.host, sessionID)
		r.as(r.runner)
		engine.AcceptDM(r.host, sessionID, sv.DMEpoch, sv.DM, r.now)

		sv, _ = engine.ViewSession(r.host, sessionID)
		engine.SubmitAction(r.host, sessionID, sv.TurnNumber, "search the room", sv.Party[0], r.now)

		r.advance(engine.TurnTimeout + 1)
		engine.TimeoutAdvance(r.host, r.deps(), r.ctx(), sessionID, r.now)

		sv, _ = engine.ViewSession(r.host, sessionID)
		if outcome = assertf(sv.State == engine.StateFailed, "expected Failed after DM abandonment, got %s", sv.State); outcome != nil {
			return
		}
		d, _ := engine.ViewDungeon(r.host, dungeonID)
		if outcome = assertf(d.NativeLootPool == 2*engine.EntryBond, "expected both bonds forfeited, got %d", d.NativeLootPool); outcome != nil {
			return
		}
	})
	if err != nil {
		return err
	}
	return outcome
}

// runS6 — gold-cap enforcement: with the default 500 cap and difficulty 5
// (min(500,500)=500), five REWARD_GOLD(100) actions exactly fill the pool
// and a sixth of any size overflows it.
func runS6(cfg *Config) error {
	var outcome error
	err := runProtected(func() {
		r := newSimRig(cfg.StartTimestamp, cfg.ChainRandomness)
		dungeonID := r.stakeDungeon("landlord", "asset-vault", 5, 2)
		r.as(r.owner)
		engine.StartEpoch(r.host, r.now)

		sessionID := r.enterFullParty(dungeonID, "alice", "bob")
		sv, _ := engine.ViewSession(r.host, sessionID)
		r.as(r.runner)
		engine.AcceptDM(r.host, sessionID, sv.DMEpoch, sv.DM, r.now)

		sv, _ = engine.ViewSession(r.host, sessionID)
		target := sv.Party[0]
		for i := 0; i < 5; i++ {
			sv, _ = engine.ViewSession(r.host, sessionID)
			engine.SubmitAction(r.host, sessionID, sv.TurnNumber, "grind", target, r.now)
			engine.SubmitDMResponse(r.host, r.deps(), sessionID, sv.TurnNumber, "gold!", []engine.DMAction{
				{Kind: engine.ActionRewardGold, Target: target, Value: 100},
			}, sv.DM, r.now)
		}

		sv, _ = engine.ViewSession(r.host, sessionID)
		if outcome = assertf(sv.GoldPool == 500, "expected gold_pool 500, got %d", sv.GoldPool); outcome != nil {
			return
		}

		func() {
			defer func() {
				msg, ok := sdk.RecoverAbort(recover())
				if !ok || !containsSubstr(msg, engine.CodeGoldCapExceeded) {
					outcome = fmt.Errorf("expected GoldCapExceeded abort, got %q (recovered=%v)", msg, ok)
				}
			}()
			sv, _ = engine.ViewSession(r.host, sessionID)
			engine.SubmitAction(r.host, sessionID, sv.TurnNumber, "grind once more", target, r.now)
			engine.SubmitDMResponse(r.host, r.deps(), sessionID, sv.TurnNumber, "overflow", []engine.DMAction{
				{Kind: engine.ActionRewardGold, Target: target, Value: 1},
			}, sv.DM, r.now)
		}()
	})
	if err != nil {
		return err
	}
	return outcome
}

func containsSubstr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
