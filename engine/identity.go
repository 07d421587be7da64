package engine

import "dungeon-manager/sdk"

// Component 1 — Identity & Access: owner, privileged relay ("runner"), and
// the registered-agent set. Grounded on contract/admin.go's owner-gated
// SetMarketContract, generalized from a single admin key into three
// distinct access predicates (owner, runner, registered agent).

func getOwner(host sdk.Host) sdk.Address {
	v := host.StateGetObject(keyOwner())
	if v == nil {
		return ""
	}
	return sdk.Address(*v)
}

func setOwner(host sdk.Host, addr sdk.Address) {
	host.StateSetObject(keyOwner(), string(addr))
}

func getRunner(host sdk.Host) sdk.Address {
	v := host.StateGetObject(keyRunner())
	if v == nil {
		return ""
	}
	return sdk.Address(*v)
}

func setRunner(host sdk.Host, addr sdk.Address) {
	host.StateSetObject(keyRunner(), string(addr))
}

func senderAddress(host sdk.Host) sdk.Address {
	return host.GetEnv().Sender
}

func requireOwner(host sdk.Host) sdk.Address {
	sender := senderAddress(host)
	requirePermission(host, getOwner(host) != "" && sender == getOwner(host), CodeNotOwner, "")
	return sender
}

func requireRunner(host sdk.Host) sdk.Address {
	sender := senderAddress(host)
	requirePermission(host, getRunner(host) != "" && sender == getRunner(host), CodeNotRunner, "")
	return sender
}

func loadAgent(host sdk.Host, addr sdk.Address) Agent {
	v := host.StateGetObject(keyAgent(addr))
	if v == nil {
		return Agent{Address: addr}
	}
	return FromJSON[Agent](host, *v, "agent")
}

func saveAgent(host sdk.Host, a Agent) {
	host.StateSetObject(keyAgent(a.Address), ToJSON(host, a, "agent"))
}

func requireRegisteredAgent(host sdk.Host, addr sdk.Address) Agent {
	a := loadAgent(host, addr)
	requirePermission(host, a.Registered, CodeNotRegistered, string(addr))
	return a
}

// ---------- Operations (wired to wasmexport entry points in exported.go) ----------

// InitContract bootstraps the contract on first deployment: the deployer
// becomes owner and the initial runner, and the epoch starts in Grace
// so the owner can stake dungeons and upload skills before
// the first Active epoch.
func InitContract(host sdk.Host) {
	requireCond(host, getOwner(host) == "", KindPrecondition, "AlreadyInitialized", "")
	sender := senderAddress(host)
	setOwner(host, sender)
	setRunner(host, sender)
	saveEpoch(host, EpochRecord{Index: 0, State: PhaseGrace})
	emitRunnerUpdated(host, sender)
}

// RegisterAgent (owner-only) adds an address to the registered-agent set.
func RegisterAgent(host sdk.Host, agent sdk.Address) {
	requireOwner(host)
	a := loadAgent(host, agent)
	a.Address = agent
	a.Registered = true
	saveAgent(host, a)
	emitAgentRegistered(host, agent)
}

// UnregisterAgent (owner-only) removes an address from the registered set.
// In-flight sessions the agent already joined are unaffected; only future
// enter_dungeon calls are blocked.
func UnregisterAgent(host sdk.Host, agent sdk.Address) {
	requireOwner(host)
	a := loadAgent(host, agent)
	a.Registered = false
	saveAgent(host, a)
	emitAgentUnregistered(host, agent)
}

// SetRunnerAddr (owner-only) changes the single privileged relay address.
func SetRunnerAddr(host sdk.Host, runner sdk.Address) {
	requireOwner(host)
	setRunner(host, runner)
	emitRunnerUpdated(host, runner)
}

// SetCollaborators (owner-only) records the contract addresses backing the
// three external collaborators (Minter, DungeonAssetRegistry,
// TicketRegistry). These live in host state rather than a package-level
// var: every WASM call instantiates the module fresh, so a package var set
// by one call is gone by the next — only StateGetObject/StateSetObject
// persist across calls. LiveCollaborators (collaborators.go) reconstructs
// the Real* wrappers from these addresses on every call that needs them.
func SetCollaborators(host sdk.Host, minter, assets, tickets sdk.Address) {
	requireOwner(host)
	host.StateSetObject(keyMinterAddr(), string(minter))
	host.StateSetObject(keyAssetRegistryAddr(), string(assets))
	host.StateSetObject(keyTicketRegistryAddr(), string(tickets))
	emitCollaboratorsUpdated(host, minter, assets, tickets)
}

func getCollaboratorAddr(host sdk.Host, key string) sdk.Address {
	v := host.StateGetObject(key)
	if v == nil {
		return ""
	}
	return sdk.Address(*v)
}
