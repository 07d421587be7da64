package engine

import "dungeon-manager/sdk"

// Shared test scaffolding. Grounded on the teacher's NewFakeSDK/expectAbort
// pair (contract/sdkInterface.go), scaled from a single hard-coded
// FakeSDK env to a reusable multi-actor rig with its own collaborator
// mocks, since a full party/DM/runner test needs more than one address.

type testRig struct {
	host    *sdk.Mock
	owner   sdk.Address
	runner  sdk.Address
	minter  *MockMinter
	assets  *MockAssetRegistry
	tickets *MockTicketRegistry
	now     uint64
}

func newTestRig() *testRig {
	owner := sdk.Address("owner")
	host := sdk.NewMock(owner, "tx0")
	r := &testRig{
		host:    host,
		owner:   owner,
		runner:  sdk.Address("runner"),
		minter:  NewMockMinter(),
		assets:  NewMockAssetRegistry(),
		tickets: NewMockTicketRegistry(),
		now:     1_700_000_000,
	}
	r.as(owner)
	InitContract(host)
	SetRunnerAddr(host, r.runner)
	return r
}

// as switches the sender for subsequent calls, keeping the clock where it
// was. Every switch carries a transfer.allow intent funded for one
// EntryBond so enter_dungeon's funding check passes without every test
// needing to declare it explicitly, mirroring how the teacher's FakeSDK
// bakes a default TransferAllow intent into its env fixture.
func (r *testRig) as(sender sdk.Address) {
	env := r.host.GetEnv()
	env.Sender = sender
	env.Caller = sender
	env.BlockTimestamp = r.now
	env.Intents = []sdk.Intent{{
		Type: "transfer.allow",
		Args: map[string]string{"amount": U64s(EntryBond), "token": string(sdk.AssetHive)},
	}}
	r.host.SetEnv(env)
}

// advance moves the wall clock forward by secs, for the current sender.
func (r *testRig) advance(secs uint64) {
	r.now += secs
	env := r.host.GetEnv()
	env.BlockTimestamp = r.now
	r.host.SetEnv(env)
}

func (r *testRig) ctx() OpContext { return OpContext{Host: r.host, Now: r.now} }

func (r *testRig) deps() ActionDeps { return ActionDeps{Minter: r.minter} }

// registerAgents registers every given address as a caller-owner op.
func (r *testRig) registerAgents(agents ...sdk.Address) {
	r.as(r.owner)
	for _, a := range agents {
		RegisterAgent(r.host, a)
	}
}

// StakeDungeon seeds the asset registry with traits and stakes it as the
// given owner, returning the new dungeon id. Must be called during Grace.
func (r *testRig) StakeDungeon(owner sdk.Address, assetID string, difficulty, partySize uint64) uint64 {
	r.assets.Owners[assetID] = owner
	r.assets.Traits[assetID] = DungeonTraits{Difficulty: difficulty, PartySize: partySize, Theme: "Cave", Rarity: "common"}
	r.as(owner)
	return StakeDungeon(r.host, r.assets, r.ctx(), assetID)
}

// grantTicket tops up an entrant's ticket balance so enter_dungeon's burn
// succeeds.
func (r *testRig) grantTicket(agent sdk.Address, n uint64) {
	r.tickets.Balances[agent] += n
}

// expectAbortCode recovers a panic from host.Abort and asserts it carries the
// expected error code (the Kind:Code portion abort() formats).
func expectAbortCode(t interface{ Errorf(string, ...any) }, code string) func() {
	return func() {
		r := recover()
		if r == nil {
			t.Errorf("expected abort with code %q, got no panic", code)
			return
		}
		msg, ok := sdk.RecoverAbort(r)
		if !ok {
			panic(r)
		}
		if !containsCode(msg, code) {
			t.Errorf("expected abort code %q, got message %q", code, msg)
		}
	}
}

func containsCode(msg, code string) bool {
	for i := 0; i+len(code) <= len(msg); i++ {
		if msg[i:i+len(code)] == code {
			return true
		}
	}
	return false
}
