package engine

import (
	"encoding/hex"

	"lukechampine.com/blake3"

	"dungeon-manager/sdk"
)

// Component 2 — Epoch Controller. Two-phase clock gating
// when sessions may be created (Active) versus when dungeon stake/unstake
// and skill edits are allowed (Grace). Grounded on the teacher's g:state
// single-record pattern (contract/shared.go), generalized from a per-game
// status byte into a process-wide phase plus a pinned skill-hash/fee
// snapshot per index.

// EpochRecord is the process-wide epoch clock.
type EpochRecord struct {
	Index        uint64     `json:"index"`
	State        EpochPhase `json:"state"`
	GraceStartTs uint64     `json:"graceStartTs"`
}

func loadEpoch(host sdk.Host) EpochRecord {
	v := host.StateGetObject(keyEpoch())
	if v == nil {
		return EpochRecord{State: PhaseGrace}
	}
	return FromJSON[EpochRecord](host, *v, "epoch")
}

func saveEpoch(host sdk.Host, e EpochRecord) {
	host.StateSetObject(keyEpoch(), ToJSON(host, e, "epoch"))
}

func getActiveSessionCount(host sdk.Host) uint64 {
	v := host.StateGetObject(keyActiveSessionCount())
	if v == nil {
		return 0
	}
	return parseU64(*v)
}

func setActiveSessionCount(host sdk.Host, n uint64) {
	host.StateSetObject(keyActiveSessionCount(), U64s(n))
}

func incActiveSessionCount(host sdk.Host) {
	setActiveSessionCount(host, getActiveSessionCount(host)+1)
}

func decActiveSessionCount(host sdk.Host) {
	n := getActiveSessionCount(host)
	if n > 0 {
		n--
	}
	setActiveSessionCount(host, n)
}

func requireEpochActive(host sdk.Host) EpochRecord {
	e := loadEpoch(host)
	RequirePrecondition(host, e.State == PhaseActive, CodeEpochNotActive, "")
	return e
}

func requireEpochGrace(host sdk.Host) EpochRecord {
	e := loadEpoch(host)
	RequirePrecondition(host, e.State == PhaseGrace, CodeEpochNotGrace, "")
	return e
}

func getSkillHash(host sdk.Host, index uint64) string {
	v := host.StateGetObject(keySkillHash(index))
	if v == nil {
		return ""
	}
	return *v
}

func getDMFeePct(host sdk.Host, index uint64) uint64 {
	v := host.StateGetObject(keyDMFeePct(index))
	if v == nil {
		return DMFeePercent
	}
	return parseU64(*v)
}

// computeSkillHash concatenates all registered skill contents, in append
// order, and digests them with blake3.
func computeSkillHash(host sdk.Host) string {
	names := loadSkillNames(host)
	h := blake3.New(32, nil)
	for _, name := range names {
		s := loadSkill(host, name)
		h.Write([]byte(s.Content))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// EndEpoch (owner-only) moves Active → Grace and records the moment grace
// began, which seeds the 48h safety-release clock in StartEpoch.
func EndEpoch(host sdk.Host, now uint64) {
	requireOwner(host)
	e := requireEpochActive(host)
	e.State = PhaseGrace
	e.GraceStartTs = now
	saveEpoch(host, e)
	emitEpochEnded(host, e.Index)
}

// StartEpoch (owner-only) moves Grace → Active, incrementing the epoch
// index and pinning this epoch's skill hash and DM fee percentage. Blocked
// while sessions from the prior epoch are still live, unless the 48h
// safety window has elapsed.
func StartEpoch(host sdk.Host, now uint64) {
	requireOwner(host)
	e := requireEpochGrace(host)
	liveSessions := getActiveSessionCount(host) > 0
	pastSafetyWindow := now > e.GraceStartTs+MaxGracePeriod
	RequirePrecondition(host, !liveSessions || pastSafetyWindow, CodeGracePeriodActive, "")

	e.Index++
	e.State = PhaseActive
	hash := computeSkillHash(host)
	host.StateSetObject(keySkillHash(e.Index), hash)
	host.StateSetObject(keyDMFeePct(e.Index), U64s(DMFeePercent))
	saveEpoch(host, e)
	emitEpochStarted(host, e.Index, hash, DMFeePercent)
}
