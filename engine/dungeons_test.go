package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dungeon-manager/sdk"
)

func TestStakeDungeon_TransfersAssetAndAllocatesID(t *testing.T) {
	r := newTestRig()
	id := r.StakeDungeon("landlord", "asset-1", 3, 4)

	d := mustLoadDungeon(r.host, id)
	require.True(t, d.Active)
	require.Equal(t, sdk.Address("landlord"), d.Owner)
	require.EqualValues(t, 3, d.Traits.Difficulty)
	require.Equal(t, sdk.Address(""), r.assets.Owners["asset-1"]) // transferred into custody
}

func TestStakeDungeon_RejectsOutOfRangeTraits(t *testing.T) {
	r := newTestRig()
	r.assets.Owners["bad-difficulty"] = "landlord"
	r.assets.Traits["bad-difficulty"] = DungeonTraits{Difficulty: 11, PartySize: 3}
	r.as("landlord")

	defer expectAbortCode(t, CodeInvalidDifficulty)()
	StakeDungeon(r.host, r.assets, r.ctx(), "bad-difficulty")
}

func TestStakeDungeon_OnlyDuringGrace(t *testing.T) {
	r := newTestRig()
	r.as(r.owner)
	StartEpoch(r.host, r.now)

	r.assets.Owners["asset-1"] = "landlord"
	r.assets.Traits["asset-1"] = DungeonTraits{Difficulty: 2, PartySize: 2}
	r.as("landlord")

	defer expectAbortCode(t, CodeEpochNotGrace)()
	StakeDungeon(r.host, r.assets, r.ctx(), "asset-1")
}

func TestUnstakeDungeon_RequiresOwnerAndNoLiveSession(t *testing.T) {
	r := newTestRig()
	id := r.StakeDungeon("landlord", "asset-1", 2, 2)

	r.as("intruder")
	func() {
		defer expectAbortCode(t, CodeNotDungeonOwner)()
		UnstakeDungeon(r.host, r.assets, r.ctx(), id)
	}()

	r.as("landlord")
	d := mustLoadDungeon(r.host, id)
	d.CurrentSessionID = "live-session"
	saveDungeon(r.host, d)
	func() {
		defer expectAbortCode(t, CodeHasLiveSession)()
		UnstakeDungeon(r.host, r.assets, r.ctx(), id)
	}()
	d.CurrentSessionID = ""
	saveDungeon(r.host, d)

	UnstakeDungeon(r.host, r.assets, r.ctx(), id)
	require.False(t, mustLoadDungeon(r.host, id).Active)
	require.Equal(t, sdk.Address("landlord"), r.assets.Owners["asset-1"])
}

func TestSessionMaxGold_ClampedToGlobalCap(t *testing.T) {
	d := Dungeon{Traits: DungeonTraits{Difficulty: 10}}
	require.Equal(t, uint64(500), sessionMaxGold(d, 500))

	d2 := Dungeon{Traits: DungeonTraits{Difficulty: 2}}
	require.Equal(t, uint64(200), sessionMaxGold(d2, 500))
}
