package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dungeon-manager/sdk"
)

func TestHoldAndReleaseBond_CreditsWithdrawable(t *testing.T) {
	r := newTestRig()
	holdBond(r.host, "sess-1", "alice", sdk.AssetHive)
	require.Equal(t, EntryBond, getBond(r.host, "sess-1", "alice"))

	releaseBond(r.host, "sess-1", "alice")
	require.Equal(t, uint64(0), getBond(r.host, "sess-1", "alice"))
	require.Equal(t, EntryBond, getWithdrawable(r.host, "alice"))
}

func TestForfeitBond_MovesIntoDungeonLootPool(t *testing.T) {
	r := newTestRig()
	holdBond(r.host, "sess-1", "alice", sdk.AssetHive)
	d := Dungeon{ID: 1}

	forfeitBond(r.host, "sess-1", "alice", &d)

	require.Equal(t, uint64(0), getBond(r.host, "sess-1", "alice"))
	require.Equal(t, EntryBond, d.NativeLootPool)
}

func TestForfeitBond_NoOpWhenNothingHeld(t *testing.T) {
	r := newTestRig()
	d := Dungeon{ID: 1}
	forfeitBond(r.host, "sess-1", "alice", &d)
	require.Equal(t, uint64(0), d.NativeLootPool)
}

func TestWithdrawBond_PullPaymentZeroesBeforeTransfer(t *testing.T) {
	r := newTestRig()
	holdBond(r.host, "sess-1", "alice", sdk.AssetHive)
	releaseBond(r.host, "sess-1", "alice")

	r.as("alice")
	WithdrawBond(r.host, sdk.AssetHive)

	require.Equal(t, uint64(0), getWithdrawable(r.host, "alice"))
	require.Len(t, r.host.Transfers, 1)
	require.Equal(t, sdk.Address("alice"), r.host.Transfers[0].To)
	require.EqualValues(t, EntryBond, r.host.Transfers[0].Amount)
}

func TestWithdrawBond_NothingToWithdraw_Aborts(t *testing.T) {
	r := newTestRig()
	r.as("alice")
	defer expectAbortCode(t, CodeNothingToWithdraw)()
	WithdrawBond(r.host, sdk.AssetHive)
}
