package sdk

// Host is the narrow set of capabilities a WASM host grants the contract:
// key/value state, a trap ("Abort"), a structured log sink, the call
// environment, and native-value movement. Every mutating contract
// operation is built on top of exactly these primitives — there is no
// other way in or out.
type Host interface {
	StateGetObject(key string) *string
	StateSetObject(key, value string)
	StateDeleteObject(key string)

	// Abort traps the call: all state mutations made so far by this
	// operation are rolled back by the host and msg is surfaced to the
	// caller as the failure reason.
	Abort(msg string)

	// Log appends a line to the host's observable event log.
	Log(msg string)

	GetEnv() Env

	// HiveDraw pulls amount of asset from the sender's pre-authorized
	// transfer.allow intent into the contract's custody.
	HiveDraw(amount int64, asset Asset)

	// HiveTransfer pays amount of asset out of the contract's custody to
	// an address. A failed transfer aborts the call (checks-effects-
	// interactions: callers must commit all local state before calling
	// this).
	HiveTransfer(to Address, amount int64, asset Asset)

	// CallContract invokes another on-chain contract's named entry point
	// with a JSON payload and returns its JSON response. The host aborts
	// the whole call if the target contract itself fails to run (unknown
	// address, trapped); a target that runs but reports a domain-level
	// failure (e.g. "insufficient balance") does so inside the returned
	// payload, which the caller decodes itself.
	CallContract(contract Address, method string, payload string) string
}
