package engine

import "dungeon-manager/sdk"

// Component 8 — Pause plus the owner-tunable global gold cap it shares a
// key namespace with. Grounded on the teacher's single boolean halt flag
// in contract/admin.go, generalized to gate exactly enter_dungeon,
// stake_dungeon, submit_action and submit_dm_response while leaving
// withdrawal, royalty claims, and timeout sweeps reachable under pause.

func isPaused(host sdk.Host) bool {
	v := host.StateGetObject(keyPaused())
	return v != nil && *v == "1"
}

func setPaused(host sdk.Host, paused bool) {
	if paused {
		host.StateSetObject(keyPaused(), "1")
	} else {
		host.StateSetObject(keyPaused(), "0")
	}
}

func requireNotPaused(host sdk.Host) {
	RequirePrecondition(host, !isPaused(host), CodePaused, "")
}

// SetPause (owner-only) flips the pause flag.
func SetPause(host sdk.Host, paused bool) {
	requireOwner(host)
	setPaused(host, paused)
}

func keyMaxGoldPerSession() string { return "config:maxGoldPerSession" }

func getMaxGoldPerSession(host sdk.Host) uint64 {
	v := host.StateGetObject(keyMaxGoldPerSession())
	if v == nil {
		return DefaultMaxGold
	}
	return parseU64(*v)
}

// SetMaxGoldPerSession (owner-only) changes the global cap new sessions'
// max_gold is clamped to; it never retroactively changes an already-
// created session's cap.
func SetMaxGoldPerSession(host sdk.Host, value uint64) {
	requireOwner(host)
	host.StateSetObject(keyMaxGoldPerSession(), U64s(value))
	emitMaxGoldPerSessionUpdated(host, value)
}
