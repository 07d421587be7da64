package engine

import (
	"fmt"

	"dungeon-manager/sdk"
)

// Kind is the error taxonomy callers distinguish on. The host boundary
// only ever sees a single trap string (sdk.Abort), the way the teacher's own
// require(cond, msg) does — Kind/Code exist so in-process callers (tests,
// cmd/simulator) can assert on *why* an operation reverted without parsing
// prose, the same role the teacher's expectAbort(t, chain, msg) test helper
// plays against raw abort text.
type Kind string

const (
	KindPermission    Kind = "PermissionError"
	KindPrecondition  Kind = "PreconditionError"
	KindResource      Kind = "ResourceError"
	KindEnvironment   Kind = "EnvironmentError"
)

// Error codes, one per distinct named failure.
const (
	CodeNotRegistered      = "NotRegistered"
	CodeNotOwner           = "NotOwner"
	CodeNotRunner          = "NotRunner"
	CodeNotDungeonOwner    = "NotDungeonOwner"
	CodeNotDM              = "NotDM"
	CodeNotYourTurn        = "NotYourTurn"
	CodePaused             = "Paused"
	CodeEpochNotActive     = "EpochNotActive"
	CodeEpochNotGrace      = "EpochNotGrace"
	CodeGracePeriodActive  = "GracePeriodActive"
	CodeSessionNotActive   = "SessionNotActive"
	CodeSessionNotWaiting  = "SessionNotWaiting"
	CodeWrongTurn          = "WrongTurn"
	CodeAlreadySubmitted   = "AlreadySubmitted"
	CodeNoActionYet        = "NoActionYet"
	CodeStaleEpoch         = "StaleEpoch"
	CodeDeadlineNotPassed  = "DeadlineNotPassed"
	CodeNotTimedOut        = "NotTimedOut"
	CodeInsufficientBond   = "InsufficientBond"
	CodeInsufficientTicket = "InsufficientTickets"
	CodeDungeonNotActive   = "DungeonNotActive"
	CodePartyFull          = "PartyFull"
	CodeAlreadyInParty     = "AlreadyInParty"
	CodeGoldCapExceeded    = "GoldCapExceeded"
	CodeXPCapExceeded      = "XPCapExceeded"
	CodeActionTooLong      = "ActionTooLong"
	CodeNarrativeTooLong   = "NarrativeTooLong"
	CodeSkillTooLong       = "SkillTooLong"
	CodeInvalidDifficulty  = "InvalidDifficulty"
	CodeInvalidPartySize   = "InvalidPartySize"
	CodeInvalidSkillID     = "InvalidSkillID"
	CodeNothingToWithdraw  = "NothingToWithdraw"
	CodePlayerNotAlive     = "PlayerNotAlive"
	CodeHasLiveSession     = "HasLiveSession"
	CodeTransferFailed     = "TransferFailed"
	CodeUnknownActionKind  = "UnknownActionKind"
)

// abort formats a typed failure and traps the call through the host. It
// never returns.
func abort(host sdk.Host, kind Kind, code, detail string) {
	if detail == "" {
		host.Abort(fmt.Sprintf("%s:%s", kind, code))
	} else {
		host.Abort(fmt.Sprintf("%s:%s: %s", kind, code, detail))
	}
}

// requireCond traps with the given kind/code/detail when cond is false.
func requireCond(host sdk.Host, cond bool, kind Kind, code, detail string) {
	if !cond {
		abort(host, kind, code, detail)
	}
}

func requirePermission(host sdk.Host, cond bool, code, detail string) {
	requireCond(host, cond, KindPermission, code, detail)
}

func RequirePrecondition(host sdk.Host, cond bool, code, detail string) {
	requireCond(host, cond, KindPrecondition, code, detail)
}

func requireResource(host sdk.Host, cond bool, code, detail string) {
	requireCond(host, cond, KindResource, code, detail)
}
