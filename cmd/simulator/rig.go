package main

import (
	"dungeon-manager/engine"
	"dungeon-manager/sdk"
)

// simRig wires an in-memory engine instance the same way engine's own
// testRig does for unit tests (engine/testutil_test.go), scaled down to
// what a scripted scenario needs: one mock host, an owner/runner pair, the
// three collaborator mocks, and a wall clock the scenario advances by hand.
type simRig struct {
	host    *sdk.Mock
	owner   sdk.Address
	runner  sdk.Address
	minter  *engine.MockMinter
	assets  *engine.MockAssetRegistry
	tickets *engine.MockTicketRegistry
	now     uint64
}

func newSimRig(startTimestamp uint64, chainRandomness string) *simRig {
	owner := sdk.Address("owner")
	host := sdk.NewMock(owner, "sim-tx-0")
	r := &simRig{
		host:    host,
		owner:   owner,
		runner:  sdk.Address("runner"),
		minter:  engine.NewMockMinter(),
		assets:  engine.NewMockAssetRegistry(),
		tickets: engine.NewMockTicketRegistry(),
		now:     startTimestamp,
	}
	r.as(owner)
	env := host.GetEnv()
	env.ChainRandomness = chainRandomness
	env.PriorBlockHash = "sim-prior-block"
	host.SetEnv(env)

	engine.InitContract(host)
	engine.SetRunnerAddr(host, r.runner)
	return r
}

// as switches the acting sender for subsequent calls and declares a
// transfer.allow intent funded for one ENTRY_BOND, mirroring the host's
// pre-authorized-funding convention (engine/escrow.go's firstTransferAllow).
func (r *simRig) as(sender sdk.Address) {
	env := r.host.GetEnv()
	env.Sender = sender
	env.Caller = sender
	env.BlockTimestamp = r.now
	env.Intents = []sdk.Intent{{
		Type: "transfer.allow",
		Args: map[string]string{"amount": engine.U64s(engine.EntryBond), "token": string(sdk.AssetHive)},
	}}
	r.host.SetEnv(env)
}

func (r *simRig) advance(secs uint64) {
	r.now += secs
	env := r.host.GetEnv()
	env.BlockTimestamp = r.now
	r.host.SetEnv(env)
}

func (r *simRig) ctx() engine.OpContext { return engine.OpContext{Host: r.host, Now: r.now} }

func (r *simRig) deps() engine.ActionDeps { return engine.ActionDeps{Minter: r.minter} }

func (r *simRig) registerAgents(agents ...sdk.Address) {
	r.as(r.owner)
	for _, a := range agents {
		engine.RegisterAgent(r.host, a)
	}
}

func (r *simRig) stakeDungeon(owner sdk.Address, assetID string, difficulty, partySize uint64) uint64 {
	r.assets.Owners[assetID] = owner
	r.assets.Traits[assetID] = engine.DungeonTraits{Difficulty: difficulty, PartySize: partySize, Theme: "Cave", Rarity: "common"}
	r.as(owner)
	return engine.StakeDungeon(r.host, r.assets, r.ctx(), assetID)
}

func (r *simRig) grantTicket(agent sdk.Address, n uint64) {
	r.tickets.Balances[agent] += n
}

// enterFullParty registers, funds, and enters every given agent in order
// against dungeonID, returning the session id DM selection fires on once
// the party is full.
func (r *simRig) enterFullParty(dungeonID uint64, players ...sdk.Address) string {
	r.registerAgents(players...)
	for _, p := range players {
		r.grantTicket(p, 1)
	}
	var sessionID string
	for _, p := range players {
		r.as(p)
		sessionID = engine.EnterDungeon(r.host, r.tickets, r.ctx(), dungeonID, sdk.AssetHive, r.now)
	}
	return sessionID
}

// runProtected invokes fn, turning a host.Abort panic into a returned error
// instead of letting it unwind the process — the only panic a scenario
// should ever hit, since sdk.Mock.Abort panics with abortPanic.
func runProtected(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			msg, _ := sdk.RecoverAbort(r)
			if msg == "" {
				panic(r)
			}
			err = scenarioAbort(msg)
		}
	}()
	fn()
	return nil
}

type scenarioAbort string

func (e scenarioAbort) Error() string { return "contract aborted: " + string(e) }
