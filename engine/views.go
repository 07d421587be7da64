package engine

import "dungeon-manager/sdk"

// Component 9 — read helpers. Pure queries, no state mutation, grounded
// on the teacher's GetGame-style getters (contract/g_move.go calling
// loadGame read-only).

type AgentView struct {
	Agent
}

func ViewAgent(host sdk.Host, addr sdk.Address) AgentView {
	return AgentView{loadAgent(host, addr)}
}

type DungeonView struct {
	Dungeon
}

func ViewDungeon(host sdk.Host, id uint64) (DungeonView, bool) {
	d, ok := loadDungeon(host, id)
	return DungeonView{d}, ok
}

type SessionView struct {
	*Session
	AliveParty map[sdk.Address]bool `json:"aliveParty"`
}

func ViewSession(host sdk.Host, id string) (SessionView, bool) {
	s, ok := loadSession(host, id)
	if !ok {
		return SessionView{}, false
	}
	alive := make(map[sdk.Address]bool, len(s.AllPlayers))
	for _, p := range s.AllPlayers {
		alive[p] = getPlayerAlive(host, id, p)
	}
	return SessionView{Session: s, AliveParty: alive}, true
}

type EpochView struct {
	EpochRecord
	SkillHash string `json:"skillHash"`
	DMFeePct  uint64 `json:"dmFeePct"`
}

func ViewEpoch(host sdk.Host) EpochView {
	e := loadEpoch(host)
	return EpochView{
		EpochRecord: e,
		SkillHash:   getSkillHash(host, e.Index),
		DMFeePct:    getDMFeePct(host, e.Index),
	}
}

// ViewWithdrawable reports a participant's pull-payment bond balance.
func ViewWithdrawable(host sdk.Host, addr sdk.Address) uint64 {
	return getWithdrawable(host, addr)
}

// ViewPendingRoyalty reports a dungeon owner's unclaimed royalty IOU.
func ViewPendingRoyalty(host sdk.Host, addr sdk.Address) uint64 {
	return getPendingRoyalty(host, addr)
}

// ViewPlayerGold reports a participant's pending in-session reward-token
// allocation.
func ViewPlayerGold(host sdk.Host, sessionID string, addr sdk.Address) uint64 {
	return getPlayerGold(host, sessionID, addr)
}

func viewPaused(host sdk.Host) bool {
	return isPaused(host)
}
