package engine

import (
	"encoding/binary"
	"encoding/json"
	"strconv"

	"dungeon-manager/sdk"
)

// ---------- storage keys ----------
//
// Flat key namespace, grounded on the teacher's gameMetaKey/gameStateKey/
// moveKey convention (contract/shared.go, contract/g_move.go).

func keyOwner() string           { return "owner" }
func keyRunner() string          { return "runner" }
func keyPaused() string          { return "paused" }
func keyAgent(a sdk.Address) string { return "agent:" + string(a) }

func keyEpoch() string                    { return "epoch" }
func keySkillHash(idx uint64) string      { return "epoch:skillhash:" + U64s(idx) }
func keyDMFeePct(idx uint64) string       { return "epoch:dmfee:" + U64s(idx) }

func keySkillNames() string        { return "skill:names" }
func keySkill(name string) string  { return "skill:" + name }

func keyDungeonCount() string       { return "dungeon:count" }
func keyDungeon(id uint64) string   { return "dungeon:" + U64s(id) }

func keySession(id string) string { return "session:" + id }
func keyBond(sessionID string, participant sdk.Address) string {
	return "bond:" + sessionID + ":" + string(participant)
}
func keyPlayerGold(sessionID string, participant sdk.Address) string {
	return "pgold:" + sessionID + ":" + string(participant)
}
func keyPlayerAlive(sessionID string, participant sdk.Address) string {
	return "alive:" + sessionID + ":" + string(participant)
}
func keyActionSubmitted(sessionID string, turn uint64) string {
	return "actsub:" + sessionID + ":" + U64s(turn)
}
func keyWithdrawable(participant sdk.Address) string {
	return "withdrawable:" + string(participant)
}
func keyPendingRoyalty(owner sdk.Address) string {
	return "royalty:" + string(owner)
}
func keyActiveSessionCount() string { return "active_session_count" }

func keyMinterAddr() string         { return "collab:minter" }
func keyAssetRegistryAddr() string  { return "collab:assets" }
func keyTicketRegistryAddr() string { return "collab:tickets" }

func U64s(v uint64) string { return strconv.FormatUint(v, 10) }
func parseU64(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

// ---------- generic JSON load/save, teacher's ToJSON/FromJSON shape ----------

func ToJSON(host sdk.Host, v any, what string) string {
	b, err := json.Marshal(v)
	if err != nil {
		abort(host, KindEnvironment, CodeTransferFailed, "failed to marshal "+what)
	}
	return string(b)
}

func FromJSON[T any](host sdk.Host, data string, what string) T {
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		abort(host, KindEnvironment, CodeTransferFailed, "failed to unmarshal "+what)
	}
	return v
}

// ---------- big-endian reader/writer, grounded on contract/utils.go's rd ----------

type wr struct{ b []byte }

func (w *wr) u8(v byte)  { w.b = append(w.b, v) }
func (w *wr) u64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.b = append(w.b, buf[:]...)
}
func (w *wr) str(s string) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(len(s)))
	w.b = append(w.b, buf[:]...)
	w.b = append(w.b, s...)
}
func (w *wr) optStr(s *string) {
	if s == nil {
		w.u8(0)
		return
	}
	w.u8(1)
	w.str(*s)
}

type rd struct {
	b []byte
	i int
	h sdk.Host
}

func (r *rd) need(n int) {
	if r.i+n > len(r.b) {
		abort(r.h, KindEnvironment, CodeTransferFailed, "decode overflow")
	}
}

func (r *rd) u8() byte {
	r.need(1)
	v := r.b[r.i]
	r.i++
	return v
}

func (r *rd) u64() uint64 {
	r.need(8)
	v := binary.BigEndian.Uint64(r.b[r.i : r.i+8])
	r.i += 8
	return v
}

func (r *rd) str() string {
	r.need(2)
	l := int(binary.BigEndian.Uint16(r.b[r.i : r.i+2]))
	r.i += 2
	r.need(l)
	v := string(r.b[r.i : r.i+l])
	r.i += l
	return v
}

func (r *rd) optStr() *string {
	if r.u8() == 0 {
		return nil
	}
	v := r.str()
	return &v
}

// ---------- Session binary codec, grounded on contract/game.go's
// encodeGame/decodeGame ----------

const sessionCodecVersion = 1

func encodeSession(s *Session) []byte {
	w := &wr{b: make([]byte, 0, 128+32*len(s.AllPlayers))}
	w.u8(sessionCodecVersion)
	w.str(s.ID)
	w.u64(s.DungeonID)

	if s.DM == "" {
		w.optStr(nil)
	} else {
		dm := string(s.DM)
		w.optStr(&dm)
	}

	w.u8(byte(len(s.Party)))
	for _, p := range s.Party {
		w.str(string(p))
	}
	w.u8(byte(len(s.AllPlayers)))
	for _, p := range s.AllPlayers {
		w.str(string(p))
	}

	w.u8(byte(s.State))
	w.u64(s.TurnNumber)
	if s.CurrentActor == "" {
		w.optStr(nil)
	} else {
		ca := string(s.CurrentActor)
		w.optStr(&ca)
	}
	w.u64(s.TurnDeadline)
	w.u64(s.ActedThisTurn)
	w.u64(s.GoldPool)
	w.u64(s.MaxGold)
	w.u64(s.DMAcceptDeadline)
	w.u64(s.LastActivityTs)
	w.u64(s.DMEpoch)
	w.u64(s.EpochID)
	return w.b
}

func decodeSession(host sdk.Host, b []byte) *Session {
	r := &rd{b: b, h: host}
	requireCond(host, r.u8() == sessionCodecVersion, KindEnvironment, CodeTransferFailed, "unsupported session codec version")

	s := &Session{}
	s.ID = r.str()
	s.DungeonID = r.u64()
	if dm := r.optStr(); dm != nil {
		s.DM = sdk.Address(*dm)
	}

	partyN := int(r.u8())
	s.Party = make([]sdk.Address, partyN)
	for i := 0; i < partyN; i++ {
		s.Party[i] = sdk.Address(r.str())
	}
	allN := int(r.u8())
	s.AllPlayers = make([]sdk.Address, allN)
	for i := 0; i < allN; i++ {
		s.AllPlayers[i] = sdk.Address(r.str())
	}

	s.State = SessionState(r.u8())
	s.TurnNumber = r.u64()
	if ca := r.optStr(); ca != nil {
		s.CurrentActor = sdk.Address(*ca)
	}
	s.TurnDeadline = r.u64()
	s.ActedThisTurn = r.u64()
	s.GoldPool = r.u64()
	s.MaxGold = r.u64()
	s.DMAcceptDeadline = r.u64()
	s.LastActivityTs = r.u64()
	s.DMEpoch = r.u64()
	s.EpochID = r.u64()
	return s
}

func saveSession(host sdk.Host, s *Session) {
	host.StateSetObject(keySession(s.ID), string(encodeSession(s)))
}

func loadSession(host sdk.Host, id string) (*Session, bool) {
	v := host.StateGetObject(keySession(id))
	if v == nil || *v == "" {
		return nil, false
	}
	return decodeSession(host, []byte(*v)), true
}

func mustLoadSession(host sdk.Host, id string) *Session {
	s, ok := loadSession(host, id)
	RequirePrecondition(host, ok, CodeSessionNotActive, "session not found")
	return s
}
