//go:build wasip1

package sdk

import (
	"encoding/json"
	"unsafe"
)

// RealHost is the production Host, wired directly to the WASM host
// imports the execution environment provides. It carries no state of its
// own; every method is a thin call across the import boundary. Contract
// code never constructs one directly — see contract/exported.go, which is
// the only caller.
type RealHost struct{}

// scratch is the guest-owned write-back buffer a host import fills before
// returning a string or structured value it cannot fit in a single i64
// result. One buffer is enough because execution is serialized at the
// granularity of a whole operation (see spec's concurrency model): no
// import call is ever interleaved with another, and each call's result is
// copied out of scratch before the next import runs.
var scratch [65536]byte

func scratchPtr() uint32 { return uint32(uintptr(unsafe.Pointer(&scratch[0]))) }
func scratchCap() uint32 { return uint32(len(scratch)) }

//go:wasmimport env state_get_object
func hostStateGetObject(keyPtr, keyLen, outPtr, outCap uint32) int32

//go:wasmimport env state_set_object
func hostStateSetObject(keyPtr, keyLen, valPtr, valLen uint32)

//go:wasmimport env state_delete_object
func hostStateDeleteObject(keyPtr, keyLen uint32)

//go:wasmimport env abort
func hostAbort(msgPtr, msgLen uint32)

//go:wasmimport env log
func hostLog(msgPtr, msgLen uint32)

//go:wasmimport env get_env
func hostGetEnv(outPtr, outCap uint32) int32

//go:wasmimport env hive_draw
func hostHiveDraw(amount int64, assetPtr, assetLen uint32)

//go:wasmimport env hive_transfer
func hostHiveTransfer(toPtr, toLen uint32, amount int64, assetPtr, assetLen uint32)

//go:wasmimport env call_contract
func hostCallContract(contractPtr, contractLen, methodPtr, methodLen, payloadPtr, payloadLen, outPtr, outCap uint32) int32

// StateGetObject writes the host's stored value, if any, into scratch and
// returns a copy. A negative length from the host means "no such key".
func (RealHost) StateGetObject(key string) *string {
	n := hostStateGetObject(strPtr(key), strLen(key), scratchPtr(), scratchCap())
	if n < 0 {
		return nil
	}
	out := string(scratch[:n])
	return &out
}

func (RealHost) StateSetObject(key, value string) {
	hostStateSetObject(strPtr(key), strLen(key), strPtr(value), strLen(value))
}

func (RealHost) StateDeleteObject(key string) {
	hostStateDeleteObject(strPtr(key), strLen(key))
}

// Abort traps the call on the host side, then unwinds the guest side with
// the same abortPanic payload Mock.Abort uses, so RecoverAbort works
// identically against either Host implementation.
func (RealHost) Abort(msg string) {
	hostAbort(strPtr(msg), strLen(msg))
	panic(abortPanic(msg))
}

func (RealHost) Log(msg string) {
	hostLog(strPtr(msg), strLen(msg))
}

// GetEnv reads the call environment the host hands in as a JSON object
// written into scratch, since Env carries more fields than a packed i64
// result could hold.
func (RealHost) GetEnv() Env {
	n := hostGetEnv(scratchPtr(), scratchCap())
	if n < 0 {
		return Env{}
	}
	var e Env
	if err := json.Unmarshal(scratch[:n], &e); err != nil {
		return Env{}
	}
	return e
}

func (RealHost) HiveDraw(amount int64, asset Asset) {
	a := asset.String()
	hostHiveDraw(amount, strPtr(a), strLen(a))
}

func (RealHost) HiveTransfer(to Address, amount int64, asset Asset) {
	a := asset.String()
	t := string(to)
	hostHiveTransfer(strPtr(t), strLen(t), amount, strPtr(a), strLen(a))
}

func (RealHost) CallContract(contract Address, method string, payload string) string {
	c, m := string(contract), method
	n := hostCallContract(strPtr(c), strLen(c), strPtr(m), strLen(m), strPtr(payload), strLen(payload), scratchPtr(), scratchCap())
	if n < 0 {
		return ""
	}
	return string(scratch[:n])
}

// strPtr/strLen expose a Go string's bytes at the linear-memory address a
// wasmimport call needs. Safe under TinyGo's WASM target: a string's
// backing array never relocates while the call that reads it is on the
// stack, and host imports never retain a pointer past the call's return.
func strPtr(s string) uint32 {
	if len(s) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.StringData(s))))
}

func strLen(s string) uint32 { return uint32(len(s)) }
