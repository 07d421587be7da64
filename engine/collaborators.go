package engine

import (
	"errors"

	"dungeon-manager/sdk"
)

// Component 6 support — external collaborators. In production
// these would be calls across the VSC inter-contract boundary; here they
// are narrow Go interfaces so the core stays testable without a real
// Minter/DungeonAssetRegistry/TicketRegistry contract deployed alongside
// it, mirroring the host-capability split the teacher draws between
// sdk.Host and the rest of its code.

// OpContext carries the ambient values a collaborator call needs: the
// acting host (for logging/state, if a collaborator needs it) and the
// current wall-clock reading, so collaborators never call sdk directly.
type OpContext struct {
	Host sdk.Host
	Now  uint64
}

// Minter is the fungible reward-token ledger. It is an external
// collaborator, never implemented by this module.
type Minter interface {
	Mint(ctx OpContext, to sdk.Address, amount uint64) error
}

// DungeonAssetRegistry is the NFT dungeon-asset ledger backing staked
// dungeons.
type DungeonAssetRegistry interface {
	TransferFrom(ctx OpContext, from, to sdk.Address, assetID string) error
	GetTraits(ctx OpContext, assetID string) (DungeonTraits, error)
}

// TicketRegistry gates dungeon entry on a burnable ticket balance.
type TicketRegistry interface {
	BalanceOf(ctx OpContext, holder sdk.Address, ticketKind uint8) (uint64, error)
	BurnOne(ctx OpContext, holder sdk.Address, amount uint64) error
}

var errTransferFailed = errors.New("transfer failed")

// mustMint calls the Minter and traps the operation on failure, keeping
// the checks-effects-interactions ordering: callers must have already
// committed their local state changes before calling this.
func mustMint(host sdk.Host, m Minter, ctx OpContext, to sdk.Address, amount uint64) {
	if amount == 0 {
		return
	}
	if err := m.Mint(ctx, to, amount); err != nil {
		abort(host, KindEnvironment, CodeTransferFailed, err.Error())
	}
}

func mustTransferAsset(host sdk.Host, r DungeonAssetRegistry, ctx OpContext, from, to sdk.Address, assetID string) {
	if err := r.TransferFrom(ctx, from, to, assetID); err != nil {
		abort(host, KindEnvironment, CodeTransferFailed, err.Error())
	}
}

func mustGetTraits(host sdk.Host, r DungeonAssetRegistry, ctx OpContext, assetID string) DungeonTraits {
	traits, err := r.GetTraits(ctx, assetID)
	if err != nil {
		abort(host, KindEnvironment, CodeTransferFailed, err.Error())
	}
	return traits
}

func mustBurnTicket(host sdk.Host, t TicketRegistry, ctx OpContext, holder sdk.Address) {
	bal, err := t.BalanceOf(ctx, holder, 0)
	if err != nil {
		abort(host, KindEnvironment, CodeTransferFailed, err.Error())
	}
	requireResource(host, bal >= 1, CodeInsufficientTicket, "")
	if err := t.BurnOne(ctx, holder, 1); err != nil {
		abort(host, KindEnvironment, CodeTransferFailed, err.Error())
	}
}

// ---------- in-memory mocks, used by tests and cmd/simulator ----------

// MockMinter records mints in-process rather than touching a real token
// ledger contract.
type MockMinter struct {
	Balances map[sdk.Address]uint64
	Fail     bool
}

func NewMockMinter() *MockMinter { return &MockMinter{Balances: map[sdk.Address]uint64{}} }

func (m *MockMinter) Mint(ctx OpContext, to sdk.Address, amount uint64) error {
	if m.Fail {
		return errTransferFailed
	}
	m.Balances[to] += amount
	return nil
}

// MockAssetRegistry is a tiny in-memory NFT-asset ledger.
type MockAssetRegistry struct {
	Owners map[string]sdk.Address
	Traits map[string]DungeonTraits
}

func NewMockAssetRegistry() *MockAssetRegistry {
	return &MockAssetRegistry{Owners: map[string]sdk.Address{}, Traits: map[string]DungeonTraits{}}
}

func (r *MockAssetRegistry) TransferFrom(ctx OpContext, from, to sdk.Address, assetID string) error {
	if from != "" && r.Owners[assetID] != from {
		return errTransferFailed
	}
	r.Owners[assetID] = to
	return nil
}

func (r *MockAssetRegistry) GetTraits(ctx OpContext, assetID string) (DungeonTraits, error) {
	t, ok := r.Traits[assetID]
	if !ok {
		return DungeonTraits{}, errTransferFailed
	}
	return t, nil
}

// ---------- real collaborators, wired via SetCollaborators ----------

// LiveCollaborators reconstructs the Real* wrappers from the addresses
// SetCollaborators persisted, for callers (contract/exported.go) that need
// the production collaborators rather than test mocks. An address left
// unconfigured yields a wrapper whose calls fail cleanly through the same
// err-returning path every Mock* collaborator already uses — never a
// nil-pointer panic, since these are always concrete non-nil structs.
func LiveCollaborators(host sdk.Host) (Minter, DungeonAssetRegistry, TicketRegistry) {
	return RealMinter{Addr: getCollaboratorAddr(host, keyMinterAddr())},
		RealAssetRegistry{Addr: getCollaboratorAddr(host, keyAssetRegistryAddr())},
		RealTicketRegistry{Addr: getCollaboratorAddr(host, keyTicketRegistryAddr())}
}

var errCollaboratorNotConfigured = errors.New("collaborator not configured")

type callResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// RealMinter calls the configured reward-token ledger contract's mint
// entry point.
type RealMinter struct{ Addr sdk.Address }

type mintRequest struct {
	To     sdk.Address `json:"to"`
	Amount uint64      `json:"amount"`
}

func (m RealMinter) Mint(ctx OpContext, to sdk.Address, amount uint64) error {
	if m.Addr == "" {
		return errCollaboratorNotConfigured
	}
	req := ToJSON(ctx.Host, mintRequest{To: to, Amount: amount}, "mint request")
	resp := FromJSON[callResult](ctx.Host, ctx.Host.CallContract(m.Addr, "mint", req), "mint response")
	if !resp.OK {
		return errors.New(resp.Error)
	}
	return nil
}

// RealAssetRegistry calls the configured dungeon-identity ledger contract.
type RealAssetRegistry struct{ Addr sdk.Address }

type transferFromRequest struct {
	From    sdk.Address `json:"from"`
	To      sdk.Address `json:"to"`
	AssetID string      `json:"assetId"`
}

func (r RealAssetRegistry) TransferFrom(ctx OpContext, from, to sdk.Address, assetID string) error {
	if r.Addr == "" {
		return errCollaboratorNotConfigured
	}
	req := ToJSON(ctx.Host, transferFromRequest{From: from, To: to, AssetID: assetID}, "transfer_from request")
	resp := FromJSON[callResult](ctx.Host, ctx.Host.CallContract(r.Addr, "transfer_from", req), "transfer_from response")
	if !resp.OK {
		return errors.New(resp.Error)
	}
	return nil
}

type getTraitsRequest struct {
	AssetID string `json:"assetId"`
}

type getTraitsResponse struct {
	callResult
	DungeonTraits
}

func (r RealAssetRegistry) GetTraits(ctx OpContext, assetID string) (DungeonTraits, error) {
	if r.Addr == "" {
		return DungeonTraits{}, errCollaboratorNotConfigured
	}
	req := ToJSON(ctx.Host, getTraitsRequest{AssetID: assetID}, "get_traits request")
	resp := FromJSON[getTraitsResponse](ctx.Host, ctx.Host.CallContract(r.Addr, "get_traits", req), "get_traits response")
	if !resp.OK {
		return DungeonTraits{}, errors.New(resp.Error)
	}
	return resp.DungeonTraits, nil
}

// RealTicketRegistry calls the configured consumable-ticket ledger contract.
type RealTicketRegistry struct{ Addr sdk.Address }

type balanceOfRequest struct {
	Holder     sdk.Address `json:"holder"`
	TicketKind uint8       `json:"ticketKind"`
}

type balanceOfResponse struct {
	callResult
	Balance uint64 `json:"balance"`
}

func (t RealTicketRegistry) BalanceOf(ctx OpContext, holder sdk.Address, ticketKind uint8) (uint64, error) {
	if t.Addr == "" {
		return 0, errCollaboratorNotConfigured
	}
	req := ToJSON(ctx.Host, balanceOfRequest{Holder: holder, TicketKind: ticketKind}, "balance_of request")
	resp := FromJSON[balanceOfResponse](ctx.Host, ctx.Host.CallContract(t.Addr, "balance_of", req), "balance_of response")
	if !resp.OK {
		return 0, errors.New(resp.Error)
	}
	return resp.Balance, nil
}

type burnOneRequest struct {
	Holder sdk.Address `json:"holder"`
	Amount uint64      `json:"amount"`
}

func (t RealTicketRegistry) BurnOne(ctx OpContext, holder sdk.Address, amount uint64) error {
	if t.Addr == "" {
		return errCollaboratorNotConfigured
	}
	req := ToJSON(ctx.Host, burnOneRequest{Holder: holder, Amount: amount}, "burn_one request")
	resp := FromJSON[callResult](ctx.Host, ctx.Host.CallContract(t.Addr, "burn_one", req), "burn_one response")
	if !resp.OK {
		return errors.New(resp.Error)
	}
	return nil
}

// MockTicketRegistry is a tiny in-memory burnable-ticket ledger.
type MockTicketRegistry struct {
	Balances map[sdk.Address]uint64
}

func NewMockTicketRegistry() *MockTicketRegistry {
	return &MockTicketRegistry{Balances: map[sdk.Address]uint64{}}
}

func (t *MockTicketRegistry) BalanceOf(ctx OpContext, holder sdk.Address, ticketKind uint8) (uint64, error) {
	return t.Balances[holder], nil
}

func (t *MockTicketRegistry) BurnOne(ctx OpContext, holder sdk.Address, amount uint64) error {
	if t.Balances[holder] < amount {
		return errTransferFailed
	}
	t.Balances[holder] -= amount
	return nil
}
