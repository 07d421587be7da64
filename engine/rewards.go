package engine

import "dungeon-manager/sdk"

// Component 7 — Reward Accounting. Grounded on the
// teacher's payout math in contract/g_swap.go (pot split on a game's
// resolution), generalized from a flat winner-take-pot split into a
// DM-fee / royalty / pro-rata players split, plus the separate failure and
// loot-pool-draw paths.

type completionDeps struct {
	minter Minter
}

func getPendingRoyalty(host sdk.Host, owner sdk.Address) uint64 {
	v := host.StateGetObject(keyPendingRoyalty(owner))
	if v == nil {
		return 0
	}
	return parseU64(*v)
}

func addPendingRoyalty(host sdk.Host, owner sdk.Address, amount uint64) {
	if amount == 0 {
		return
	}
	host.StateSetObject(keyPendingRoyalty(owner), U64s(getPendingRoyalty(host, owner)+amount))
}

// completeSession distributes gold_pool across the DM fee, the dungeon
// owner's royalty, and the living party pro-rata by session_player_gold.
// Idempotent: a second call against an already-terminal session is a
// silent no-op, so a stray COMPLETE trailing a prior terminal action in
// the same dispatch list is harmless.
func completeSession(host sdk.Host, deps completionDeps, ctx OpContext, s *Session) {
	if s.State.Terminal() {
		return
	}
	d := mustLoadDungeon(host, s.DungeonID)
	G := s.GoldPool

	dmFeePct := getDMFeePct(host, s.EpochID)
	dmFee := G * dmFeePct / 100
	royalty := G * RoyaltyBps / 10_000
	playersShare := G - dmFee - royalty

	mustMint(host, deps.minter, ctx, s.DM, dmFee)
	creditTotalGoldEarned(host, s.DM, dmFee)
	addPendingRoyalty(host, d.Owner, royalty)

	totalLiving := uint64(0)
	for _, p := range s.Party {
		if getPlayerAlive(host, s.ID, p) {
			totalLiving += getPlayerGold(host, s.ID, p)
		}
	}
	for _, p := range s.Party {
		if !getPlayerAlive(host, s.ID, p) || totalLiving == 0 {
			continue
		}
		share := playersShare * getPlayerGold(host, s.ID, p) / totalLiving
		mustMint(host, deps.minter, ctx, p, share)
		creditTotalGoldEarned(host, p, share)
		emitGoldAwarded(host, s.ID, p, share)
	}

	for _, p := range s.AllPlayers {
		releaseBond(host, s.ID, p)
		bumpGamesPlayed(host, p)
	}

	s.State = StateCompleted
	d.CurrentSessionID = ""
	decActiveSessionCount(host)
	saveDungeon(host, d)

	emitDungeonCompleted(host, s.ID, dmFee+royalty+playersShare, royalty, "the party prevailed")
}

// failSession sweeps every participant's pending session-gold into the
// dungeon's gold loot pool and every still-held bond into its native loot
// pool. Idempotent, same as completeSession.
func failSession(host sdk.Host, deps ActionDeps, ctx OpContext, s *Session, recap string) {
	if s.State.Terminal() {
		return
	}
	d := mustLoadDungeon(host, s.DungeonID)

	goldForfeit := uint64(0)
	for _, p := range s.AllPlayers {
		goldForfeit += getPlayerGold(host, s.ID, p)
		setPlayerGold(host, s.ID, p, 0)
		forfeitBond(host, s.ID, p, &d)
		bumpGamesPlayed(host, p)
	}
	d.GoldLootPool += goldForfeit

	s.State = StateFailed
	d.CurrentSessionID = ""
	decActiveSessionCount(host)
	saveDungeon(host, d)

	emitDungeonFailed(host, s.ID, goldForfeit, recap)
}

func creditTotalGoldEarned(host sdk.Host, agent sdk.Address, amount uint64) {
	if amount == 0 {
		return
	}
	a := loadAgent(host, agent)
	a.Address = agent
	a.TotalGoldEarned += amount
	saveAgent(host, a)
}

func bumpGamesPlayed(host sdk.Host, agent sdk.Address) {
	a := loadAgent(host, agent)
	a.Address = agent
	a.GamesPlayed++
	saveAgent(host, a)
}

// AwardFromLootPool lets the DM of an Active session draw from their
// dungeon's gold loot pool into a living party member's pending
// session-gold, subject to the same per-action and per-session caps as
// REWARD_GOLD. Unlike submit_action/submit_dm_response this is a
// caller-own call the DM makes directly — it is not in the runner's
// relayed-call set.
func AwardFromLootPool(host sdk.Host, sessionID string, target sdk.Address, amount uint64) {
	s := mustLoadSession(host, sessionID)
	RequirePrecondition(host, s.State == StateActive, CodeSessionNotActive, "")
	requirePermission(host, senderAddress(host) == s.DM, CodeNotDM, "")
	requireResource(host, amount <= MaxGoldPerAction, CodeGoldCapExceeded, "")
	requireResource(host, s.GoldPool+amount <= s.MaxGold, CodeGoldCapExceeded, "")
	RequirePrecondition(host, getPlayerAlive(host, sessionID, target), CodePlayerNotAlive, "")

	d := mustLoadDungeon(host, s.DungeonID)
	requireResource(host, d.GoldLootPool >= amount, CodeInsufficientBond, "loot pool underfunded")

	d.GoldLootPool -= amount
	saveDungeon(host, d)

	setPlayerGold(host, sessionID, target, getPlayerGold(host, sessionID, target)+amount)
	s.GoldPool += amount
	saveSession(host, s)

	emitGoldAwarded(host, sessionID, target, amount)
	emitLootPoolUpdated(host, d.ID, d.GoldLootPool)
}

// ClaimRoyalties mints the caller's accrued pending_royalties balance and
// zeroes the IOU.
func ClaimRoyalties(host sdk.Host, m Minter, ctx OpContext) {
	caller := senderAddress(host)
	amount := getPendingRoyalty(host, caller)
	requireResource(host, amount > 0, CodeNothingToWithdraw, "")

	host.StateSetObject(keyPendingRoyalty(caller), U64s(0))
	mustMint(host, m, ctx, caller, amount)
	emitRoyaltyClaimed(host, caller, amount)
}
