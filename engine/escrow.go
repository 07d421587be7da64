package engine

import "dungeon-manager/sdk"

// Component 5 — Bond Escrow. Three transitions only: hold
// (on entry), forfeit (delinquent DM / failed session), release
// (completion / flee / cancellation / timeout). Withdrawal is pull-payment
// so an outbound-transfer failure can never strand other participants'
// funds. Grounded on the teacher's HiveDraw/HiveTransfer pair
// (contract/g_join.go's wantsFirstMoveAndAssertFunding), generalized from
// a one-shot escrow into a three-state ledger with a withdrawable queue.

func getBond(host sdk.Host, sessionID string, participant sdk.Address) uint64 {
	v := host.StateGetObject(keyBond(sessionID, participant))
	if v == nil {
		return 0
	}
	return parseU64(*v)
}

func setBond(host sdk.Host, sessionID string, participant sdk.Address, amount uint64) {
	if amount == 0 {
		host.StateDeleteObject(keyBond(sessionID, participant))
		return
	}
	host.StateSetObject(keyBond(sessionID, participant), U64s(amount))
}

func getWithdrawable(host sdk.Host, participant sdk.Address) uint64 {
	v := host.StateGetObject(keyWithdrawable(participant))
	if v == nil {
		return 0
	}
	return parseU64(*v)
}

func setWithdrawable(host sdk.Host, participant sdk.Address, amount uint64) {
	host.StateSetObject(keyWithdrawable(participant), U64s(amount))
}

// transferAllowIntent is the caller's pre-authorized funding declaration,
// scanned out of the call's env.Intents the same way the teacher's
// GetFirstTransferAllow walks sdk.GetEnv().Intents for a "transfer.allow"
// entry before drawing any value.
type transferAllowIntent struct {
	Amount uint64
	Token  sdk.Asset
}

func firstTransferAllow(intents []sdk.Intent) *transferAllowIntent {
	for _, intent := range intents {
		if intent.Type != "transfer.allow" {
			continue
		}
		return &transferAllowIntent{
			Amount: parseU64(intent.Args["amount"]),
			Token:  sdk.Asset(intent.Args["token"]),
		}
	}
	return nil
}

// requireFundedBond checks the caller declared a transfer.allow intent of
// at least ENTRY_BOND in the expected asset before any value is drawn.
func requireFundedBond(host sdk.Host, asset sdk.Asset) {
	ta := firstTransferAllow(host.GetEnv().Intents)
	requireResource(host, ta != nil && ta.Token == asset && ta.Amount >= EntryBond, CodeInsufficientBond, "")
}

// holdBond draws ENTRY_BOND from the caller via the host and records it
// against (session, participant).
func holdBond(host sdk.Host, sessionID string, participant sdk.Address, amount sdk.Asset) {
	host.HiveDraw(int64(EntryBond), amount)
	setBond(host, sessionID, participant, EntryBond)
}

// forfeitBond moves a participant's held bond into the dungeon's native
// loot pool — used against a delinquent DM and against every bond still
// held when a session fails.
func forfeitBond(host sdk.Host, sessionID string, participant sdk.Address, d *Dungeon) {
	amount := getBond(host, sessionID, participant)
	if amount == 0 {
		return
	}
	setBond(host, sessionID, participant, 0)
	d.NativeLootPool += amount
	emitBondForfeited(host, sessionID, participant, amount)
}

// releaseBond moves a participant's held bond into their withdrawable
// queue, used on completion, flee, cancellation, and session timeout.
func releaseBond(host sdk.Host, sessionID string, participant sdk.Address) {
	amount := getBond(host, sessionID, participant)
	if amount == 0 {
		return
	}
	setBond(host, sessionID, participant, 0)
	setWithdrawable(host, participant, getWithdrawable(host, participant)+amount)
}

// WithdrawBond is the pull-payment exit: the caller drains their entire
// withdrawable balance in one call. State is zeroed before the outbound
// transfer (checks-effects-interactions).
func WithdrawBond(host sdk.Host, asset sdk.Asset) {
	caller := senderAddress(host)
	amount := getWithdrawable(host, caller)
	requireResource(host, amount > 0, CodeNothingToWithdraw, "")

	setWithdrawable(host, caller, 0)
	host.HiveTransfer(caller, int64(amount), asset)
	emitBondWithdrawn(host, caller, amount)
}
