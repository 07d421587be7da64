package engine

import "dungeon-manager/sdk"

// Component 4 — Dungeon Registry. Binds a staked external
// NFT asset to an internal numeric dungeon id capable of hosting one
// session at a time. Grounded on the teacher's getGameCount/setGameCount
// incrementing-id pattern (contract/g_create.go), generalized from
// per-game state to a stake/unstake lifecycle gated to the Grace phase.

func getDungeonCount(host sdk.Host) uint64 {
	v := host.StateGetObject(keyDungeonCount())
	if v == nil {
		return 0
	}
	return parseU64(*v)
}

func setDungeonCount(host sdk.Host, n uint64) {
	host.StateSetObject(keyDungeonCount(), U64s(n))
}

func loadDungeon(host sdk.Host, id uint64) (Dungeon, bool) {
	v := host.StateGetObject(keyDungeon(id))
	if v == nil {
		return Dungeon{}, false
	}
	return FromJSON[Dungeon](host, *v, "dungeon"), true
}

func mustLoadDungeon(host sdk.Host, id uint64) Dungeon {
	d, ok := loadDungeon(host, id)
	RequirePrecondition(host, ok, CodeDungeonNotActive, "dungeon not found")
	return d
}

func saveDungeon(host sdk.Host, d Dungeon) {
	host.StateSetObject(keyDungeon(d.ID), ToJSON(host, d, "dungeon"))
}

// StakeDungeon (Grace-only) transfers the external asset into the core's
// custody and allocates a new dungeon slot, owned by the caller.
func StakeDungeon(host sdk.Host, registry DungeonAssetRegistry, ctx OpContext, assetID string) uint64 {
	requireNotPaused(host)
	requireEpochGrace(host)
	owner := senderAddress(host)

	traits := mustGetTraits(host, registry, ctx, assetID)
	RequirePrecondition(host, traits.Difficulty >= 1 && traits.Difficulty <= 10, CodeInvalidDifficulty, "")
	RequirePrecondition(host, traits.PartySize >= 2 && traits.PartySize <= 6, CodeInvalidPartySize, "")

	mustTransferAsset(host, registry, ctx, owner, "", assetID)

	id := getDungeonCount(host)
	d := Dungeon{ID: id, ExternalAssetID: assetID, Owner: owner, Active: true, Traits: traits}
	saveDungeon(host, d)
	setDungeonCount(host, id+1)
	emitDungeonActivated(host, id, owner, assetID)
	return id
}

// UnstakeDungeon (Grace-only, caller = owner) releases the asset back to
// its owner, provided no session is currently occupying the slot.
func UnstakeDungeon(host sdk.Host, registry DungeonAssetRegistry, ctx OpContext, id uint64) {
	requireEpochGrace(host)
	d := mustLoadDungeon(host, id)
	caller := senderAddress(host)
	requirePermission(host, caller == d.Owner, CodeNotDungeonOwner, "")
	RequirePrecondition(host, d.CurrentSessionID == "", CodeHasLiveSession, "")

	d.Active = false
	saveDungeon(host, d)
	mustTransferAsset(host, registry, ctx, "", d.Owner, d.ExternalAssetID)
	emitDungeonDeactivated(host, id)
}

func sessionMaxGold(d Dungeon, globalMaxPerSession uint64) uint64 {
	capped := d.Traits.Difficulty * BaseGoldRate
	if capped > globalMaxPerSession {
		return globalMaxPerSession
	}
	return capped
}
