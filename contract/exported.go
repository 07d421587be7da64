//go:build wasip1

package main

import (
	"dungeon-manager/engine"
	"dungeon-manager/sdk"
)

// WASM entry points. Grounded on the teacher's exported.go/main.go split:
// every exported function takes a JSON payload (or nothing) and forwards
// to the host-parameterized logic living in the engine package, the same
// indirection the teacher draws between CreateGameArgs JSON payloads and
// its createGameImpl(payload, chain SDKInterface) implementations. Here
// the "chain" is the package-level realHost, the production sdk.Host;
// engine's own tests construct the engine functions directly against an
// sdk.Mock instead of going through this file at all, and cmd/simulator
// drives the same engine functions against sdk.Mock to run full scenarios
// without a WASM runtime.

var realHost sdk.Host = sdk.RealHost{}

// collaborators() rebuilds the Minter/DungeonAssetRegistry/TicketRegistry
// wrappers from the addresses set_collaborators persisted. They cannot be
// package-level vars initialized once at deploy time: every WASM call
// instantiates this module fresh, so package-level state set by one call
// does not survive to the next — only engine's StateGetObject-backed
// storage does. See engine.SetCollaborators/LiveCollaborators.
func collaborators() (engine.Minter, engine.DungeonAssetRegistry, engine.TicketRegistry) {
	return engine.LiveCollaborators(realHost)
}

func opCtx(now uint64) engine.OpContext { return engine.OpContext{Host: realHost, Now: now} }

func envNow() uint64 { return realHost.GetEnv().BlockTimestamp }

//go:wasmexport init
func Init() {
	engine.InitContract(realHost)
}

type setCollaboratorsArgs struct {
	Minter  sdk.Address `json:"minter"`
	Assets  sdk.Address `json:"assets"`
	Tickets sdk.Address `json:"tickets"`
}

//go:wasmexport set_collaborators
func SetCollaborators(payload *string) {
	in := engine.FromJSON[setCollaboratorsArgs](realHost, *payload, "set collaborators args")
	engine.SetCollaborators(realHost, in.Minter, in.Assets, in.Tickets)
}

type registerAgentArgs struct {
	Agent sdk.Address `json:"agent"`
}

//go:wasmexport register_agent
func RegisterAgent(payload *string) {
	in := engine.FromJSON[registerAgentArgs](realHost, *payload, "register agent args")
	engine.RegisterAgent(realHost, in.Agent)
}

//go:wasmexport unregister_agent
func UnregisterAgent(payload *string) {
	in := engine.FromJSON[registerAgentArgs](realHost, *payload, "unregister agent args")
	engine.UnregisterAgent(realHost, in.Agent)
}

type setRunnerArgs struct {
	Runner sdk.Address `json:"runner"`
}

//go:wasmexport set_runner
func SetRunner(payload *string) {
	in := engine.FromJSON[setRunnerArgs](realHost, *payload, "set runner args")
	engine.SetRunnerAddr(realHost, in.Runner)
}

//go:wasmexport end_epoch
func EndEpoch() {
	engine.EndEpoch(realHost, envNow())
}

//go:wasmexport start_epoch
func StartEpoch() {
	engine.StartEpoch(realHost, envNow())
}

type skillArgs struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

//go:wasmexport add_skill
func AddSkill(payload *string) {
	in := engine.FromJSON[skillArgs](realHost, *payload, "add skill args")
	engine.AddSkill(realHost, in.Name, in.Content, envNow())
}

//go:wasmexport update_skill
func UpdateSkill(payload *string) {
	in := engine.FromJSON[skillArgs](realHost, *payload, "update skill args")
	engine.UpdateSkill(realHost, in.Name, in.Content, envNow())
}

type removeSkillArgs struct {
	Name string `json:"name"`
}

//go:wasmexport remove_skill
func RemoveSkill(payload *string) {
	in := engine.FromJSON[removeSkillArgs](realHost, *payload, "remove skill args")
	engine.RemoveSkill(realHost, in.Name)
}

type stakeDungeonArgs struct {
	AssetID string `json:"assetId"`
}

//go:wasmexport stake_dungeon
func StakeDungeon(payload *string) *string {
	in := engine.FromJSON[stakeDungeonArgs](realHost, *payload, "stake dungeon args")
	_, assets, _ := collaborators()
	id := engine.StakeDungeon(realHost, assets, opCtx(envNow()), in.AssetID)
	out := engine.U64s(id)
	return &out
}

type dungeonIDArgs struct {
	DungeonID uint64 `json:"dungeonId"`
}

//go:wasmexport unstake_dungeon
func UnstakeDungeon(payload *string) {
	in := engine.FromJSON[dungeonIDArgs](realHost, *payload, "unstake dungeon args")
	_, assets, _ := collaborators()
	engine.UnstakeDungeon(realHost, assets, opCtx(envNow()), in.DungeonID)
}

//go:wasmexport enter_dungeon
func EnterDungeon(payload *string) *string {
	in := engine.FromJSON[dungeonIDArgs](realHost, *payload, "enter dungeon args")
	_, _, tickets := collaborators()
	id := engine.EnterDungeon(realHost, tickets, opCtx(envNow()), in.DungeonID, sdk.AssetHive, envNow())
	return &id
}

type acceptDMArgs struct {
	SessionID string      `json:"sessionId"`
	DMEpoch   uint64      `json:"dmEpoch"`
	DM        sdk.Address `json:"dm"`
}

//go:wasmexport accept_dm
func AcceptDM(payload *string) {
	in := engine.FromJSON[acceptDMArgs](realHost, *payload, "accept dm args")
	engine.AcceptDM(realHost, in.SessionID, in.DMEpoch, in.DM, envNow())
}

type sessionIDArgs struct {
	SessionID string `json:"sessionId"`
}

//go:wasmexport reroll_dm
func RerollDM(payload *string) {
	in := engine.FromJSON[sessionIDArgs](realHost, *payload, "reroll dm args")
	engine.RerollDM(realHost, in.SessionID, envNow())
}

type submitActionArgs struct {
	SessionID string      `json:"sessionId"`
	TurnIndex uint64      `json:"turnIndex"`
	Text      string      `json:"text"`
	Player    sdk.Address `json:"player"`
}

//go:wasmexport submit_action
func SubmitAction(payload *string) {
	in := engine.FromJSON[submitActionArgs](realHost, *payload, "submit action args")
	engine.SubmitAction(realHost, in.SessionID, in.TurnIndex, in.Text, in.Player, envNow())
}

type submitDMResponseArgs struct {
	SessionID string            `json:"sessionId"`
	TurnIndex uint64            `json:"turnIndex"`
	Narrative string            `json:"narrative"`
	Actions   []engine.DMAction `json:"actions"`
	DM        sdk.Address       `json:"dm"`
}

//go:wasmexport submit_dm_response
func SubmitDMResponse(payload *string) {
	in := engine.FromJSON[submitDMResponseArgs](realHost, *payload, "submit dm response args")
	minter, _, _ := collaborators()
	engine.SubmitDMResponse(realHost, engine.ActionDeps{Minter: minter}, in.SessionID, in.TurnIndex, in.Narrative, in.Actions, in.DM, envNow())
}

type fleeArgs struct {
	SessionID string      `json:"sessionId"`
	Agent     sdk.Address `json:"agent"`
}

//go:wasmexport flee
func Flee(payload *string) {
	in := engine.FromJSON[fleeArgs](realHost, *payload, "flee args")
	minter, _, _ := collaborators()
	engine.Flee(realHost, engine.ActionDeps{Minter: minter}, opCtx(envNow()), in.SessionID, in.Agent, envNow())
}

//go:wasmexport timeout_advance
func TimeoutAdvance(payload *string) {
	in := engine.FromJSON[sessionIDArgs](realHost, *payload, "timeout advance args")
	minter, _, _ := collaborators()
	engine.TimeoutAdvance(realHost, engine.ActionDeps{Minter: minter}, opCtx(envNow()), in.SessionID, envNow())
}

//go:wasmexport timeout_session
func TimeoutSession(payload *string) {
	in := engine.FromJSON[sessionIDArgs](realHost, *payload, "timeout session args")
	engine.TimeoutSession(realHost, in.SessionID, envNow())
}

type awardFromLootPoolArgs struct {
	SessionID string      `json:"sessionId"`
	Target    sdk.Address `json:"target"`
	Amount    uint64      `json:"amount"`
}

//go:wasmexport award_from_loot_pool
func AwardFromLootPool(payload *string) {
	in := engine.FromJSON[awardFromLootPoolArgs](realHost, *payload, "award from loot pool args")
	engine.AwardFromLootPool(realHost, in.SessionID, in.Target, in.Amount)
}

//go:wasmexport claim_royalties
func ClaimRoyalties() {
	minter, _, _ := collaborators()
	engine.ClaimRoyalties(realHost, minter, opCtx(envNow()))
}

//go:wasmexport withdraw_bond
func WithdrawBond() {
	engine.WithdrawBond(realHost, sdk.AssetHive)
}

type pauseArgs struct {
	Paused bool `json:"paused"`
}

//go:wasmexport set_pause
func SetPause(payload *string) {
	in := engine.FromJSON[pauseArgs](realHost, *payload, "set pause args")
	engine.SetPause(realHost, in.Paused)
}

type maxGoldArgs struct {
	Value uint64 `json:"value"`
}

//go:wasmexport set_max_gold_per_session
func SetMaxGoldPerSession(payload *string) {
	in := engine.FromJSON[maxGoldArgs](realHost, *payload, "set max gold args")
	engine.SetMaxGoldPerSession(realHost, in.Value)
}

//go:wasmexport get_agent
func GetAgent(payload *string) *string {
	in := engine.FromJSON[registerAgentArgs](realHost, *payload, "get agent args")
	out := engine.ToJSON(realHost, engine.ViewAgent(realHost, in.Agent), "agent view")
	return &out
}

//go:wasmexport get_dungeon
func GetDungeon(payload *string) *string {
	in := engine.FromJSON[dungeonIDArgs](realHost, *payload, "get dungeon args")
	v, ok := engine.ViewDungeon(realHost, in.DungeonID)
	engine.RequirePrecondition(realHost, ok, engine.CodeDungeonNotActive, "dungeon not found")
	out := engine.ToJSON(realHost, v, "dungeon view")
	return &out
}

//go:wasmexport get_session
func GetSession(payload *string) *string {
	in := engine.FromJSON[sessionIDArgs](realHost, *payload, "get session args")
	v, ok := engine.ViewSession(realHost, in.SessionID)
	engine.RequirePrecondition(realHost, ok, engine.CodeSessionNotActive, "session not found")
	out := engine.ToJSON(realHost, v, "session view")
	return &out
}

//go:wasmexport get_epoch
func GetEpoch() *string {
	out := engine.ToJSON(realHost, engine.ViewEpoch(realHost), "epoch view")
	return &out
}

//go:wasmexport get_withdrawable_bond
func GetWithdrawableBond(payload *string) *string {
	in := engine.FromJSON[registerAgentArgs](realHost, *payload, "get withdrawable bond args")
	out := engine.U64s(engine.ViewWithdrawable(realHost, in.Agent))
	return &out
}

//go:wasmexport get_pending_royalties
func GetPendingRoyalties(payload *string) *string {
	in := engine.FromJSON[registerAgentArgs](realHost, *payload, "get pending royalties args")
	out := engine.U64s(engine.ViewPendingRoyalty(realHost, in.Agent))
	return &out
}
