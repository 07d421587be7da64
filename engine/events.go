package engine

import "dungeon-manager/sdk"

// Component 9 — observable transition log. Grounded on the teacher's
// events.go: a single Event{Type, Attributes} envelope logged as JSON
// through sdk.Log, generalized from the tic-tac-toe event set to the
// full event list this contract emits.

type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func emitEvent(host sdk.Host, eventType string, attributes map[string]string) {
	host.Log(ToJSON(host, Event{Type: eventType, Attributes: attributes}, eventType+" event"))
}

func emitAgentRegistered(host sdk.Host, agent sdk.Address) {
	emitEvent(host, "AgentRegistered", map[string]string{"agent": string(agent)})
}

func emitAgentUnregistered(host sdk.Host, agent sdk.Address) {
	emitEvent(host, "AgentUnregistered", map[string]string{"agent": string(agent)})
}

func emitDungeonActivated(host sdk.Host, dungeonID uint64, owner sdk.Address, assetID string) {
	emitEvent(host, "DungeonActivated", map[string]string{
		"dungeon": U64s(dungeonID), "owner": string(owner), "assetId": assetID,
	})
}

func emitDungeonDeactivated(host sdk.Host, dungeonID uint64) {
	emitEvent(host, "DungeonDeactivated", map[string]string{"dungeon": U64s(dungeonID)})
}

func emitEpochEnded(host sdk.Host, index uint64) {
	emitEvent(host, "EpochEnded", map[string]string{"index": U64s(index)})
}

func emitEpochStarted(host sdk.Host, index uint64, skillHash string, dmFeePct uint64) {
	emitEvent(host, "EpochStarted", map[string]string{
		"index": U64s(index), "skillHash": skillHash, "dmFee": U64s(dmFeePct),
	})
}

func emitPlayerEntered(host sdk.Host, sessionID string, agent sdk.Address) {
	emitEvent(host, "PlayerEntered", map[string]string{"session": sessionID, "agent": string(agent)})
}

func emitDmSelected(host sdk.Host, sessionID string, dm sdk.Address, dmEpoch uint64) {
	emitEvent(host, "DmSelected", map[string]string{
		"session": sessionID, "dm": string(dm), "dmEpoch": U64s(dmEpoch),
	})
}

func emitDmAccepted(host sdk.Host, sessionID string, dm sdk.Address) {
	emitEvent(host, "DmAccepted", map[string]string{"session": sessionID, "dm": string(dm)})
}

func emitDmRerolled(host sdk.Host, sessionID string, oldDM sdk.Address, dmEpoch uint64) {
	emitEvent(host, "DmRerolled", map[string]string{
		"session": sessionID, "oldDm": string(oldDM), "dmEpoch": U64s(dmEpoch),
	})
}

func emitGameStarted(host sdk.Host, sessionID string, dungeonID uint64, dm sdk.Address, party []sdk.Address) {
	emitEvent(host, "GameStarted", map[string]string{
		"session": sessionID, "dungeon": U64s(dungeonID), "dm": string(dm), "partySize": U64s(uint64(len(party))),
	})
}

func emitActionSubmitted(host sdk.Host, sessionID string, agent sdk.Address, turn uint64, text string) {
	emitEvent(host, "ActionSubmitted", map[string]string{
		"session": sessionID, "agent": string(agent), "turn": U64s(turn), "text": text,
	})
}

func emitDMResponse(host sdk.Host, sessionID string, turn uint64, narrative string) {
	emitEvent(host, "DMResponse", map[string]string{
		"session": sessionID, "turn": U64s(turn), "narrative": narrative,
	})
}

func emitTurnAdvanced(host sdk.Host, sessionID string, turn uint64, actor sdk.Address) {
	emitEvent(host, "TurnAdvanced", map[string]string{
		"session": sessionID, "turn": U64s(turn), "actor": string(actor),
	})
}

func emitGoldAwarded(host sdk.Host, sessionID string, agent sdk.Address, amount uint64) {
	emitEvent(host, "GoldAwarded", map[string]string{
		"session": sessionID, "agent": string(agent), "amount": U64s(amount),
	})
}

func emitXPAwarded(host sdk.Host, sessionID string, agent sdk.Address, amount uint64) {
	emitEvent(host, "XPAwarded", map[string]string{
		"session": sessionID, "agent": string(agent), "amount": U64s(amount),
	})
}

func emitPlayerDied(host sdk.Host, sessionID string, agent sdk.Address, goldForfeit uint64) {
	emitEvent(host, "PlayerDied", map[string]string{
		"session": sessionID, "agent": string(agent), "goldForfeit": U64s(goldForfeit),
	})
}

func emitPlayerFled(host sdk.Host, sessionID string, agent sdk.Address, goldKept, royalty uint64) {
	emitEvent(host, "PlayerFled", map[string]string{
		"session": sessionID, "agent": string(agent), "goldKept": U64s(goldKept), "royalty": U64s(royalty),
	})
}

func emitDungeonCompleted(host sdk.Host, sessionID string, totalMinted, royalty uint64, recap string) {
	emitEvent(host, "DungeonCompleted", map[string]string{
		"session": sessionID, "totalMinted": U64s(totalMinted), "royalty": U64s(royalty), "recap": recap,
	})
}

func emitDungeonFailed(host sdk.Host, sessionID string, goldForfeit uint64, recap string) {
	emitEvent(host, "DungeonFailed", map[string]string{
		"session": sessionID, "goldForfeit": U64s(goldForfeit), "recap": recap,
	})
}

func emitTurnTimeout(host sdk.Host, sessionID string, turn uint64, actor sdk.Address) {
	emitEvent(host, "TurnTimeout", map[string]string{
		"session": sessionID, "turn": U64s(turn), "actor": string(actor),
	})
}

func emitSessionTimedOut(host sdk.Host, sessionID string) {
	emitEvent(host, "SessionTimedOut", map[string]string{"session": sessionID})
}

func emitSessionCancelled(host sdk.Host, sessionID string) {
	emitEvent(host, "SessionCancelled", map[string]string{"session": sessionID})
}

func emitBondForfeited(host sdk.Host, sessionID string, participant sdk.Address, amount uint64) {
	emitEvent(host, "BondForfeited", map[string]string{
		"session": sessionID, "participant": string(participant), "amount": U64s(amount),
	})
}

func emitBondWithdrawn(host sdk.Host, participant sdk.Address, amount uint64) {
	emitEvent(host, "BondWithdrawn", map[string]string{"participant": string(participant), "amount": U64s(amount)})
}

func emitRoyaltyClaimed(host sdk.Host, owner sdk.Address, amount uint64) {
	emitEvent(host, "RoyaltyClaimed", map[string]string{"owner": string(owner), "amount": U64s(amount)})
}

func emitLootPoolUpdated(host sdk.Host, dungeonID, newTotal uint64) {
	emitEvent(host, "LootPoolUpdated", map[string]string{"dungeon": U64s(dungeonID), "newTotal": U64s(newTotal)})
}

func emitRunnerUpdated(host sdk.Host, runner sdk.Address) {
	emitEvent(host, "RunnerUpdated", map[string]string{"runner": string(runner)})
}

func emitMaxGoldPerSessionUpdated(host sdk.Host, value uint64) {
	emitEvent(host, "MaxGoldPerSessionUpdated", map[string]string{"value": U64s(value)})
}

func emitSkillAdded(host sdk.Host, name string) {
	emitEvent(host, "SkillAdded", map[string]string{"name": name})
}

func emitSkillUpdated(host sdk.Host, name string) {
	emitEvent(host, "SkillUpdated", map[string]string{"name": name})
}

func emitSkillRemoved(host sdk.Host, name string) {
	emitEvent(host, "SkillRemoved", map[string]string{"name": name})
}

func emitCollaboratorsUpdated(host sdk.Host, minter, assets, tickets sdk.Address) {
	emitEvent(host, "CollaboratorsUpdated", map[string]string{
		"minter": string(minter), "assets": string(assets), "tickets": string(tickets),
	})
}
