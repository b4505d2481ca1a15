package contract

import (
	"context"
	"math/big"

	"github.com/Mohsinsiddi/stewsale/internal/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// STEW is a typed binding to a deployed STEW ledger.
type STEW struct {
	Address common.Address
	caller  *Caller
	sender  *Sender
}

// NewSTEW binds to the ledger at addr.
func NewSTEW(addr common.Address, backend Backend) *STEW {
	return &STEW{
		Address: addr,
		caller:  NewCaller(backend, token.ABI),
		sender:  NewSender(backend, token.ABI),
	}
}

// DeploySTEW deploys a ledger that mints initialSupply to the deployer.
func DeploySTEW(ctx context.Context, backend Backend, opts *TransactOpts, initialSupply *big.Int) (*STEW, *types.Receipt, error) {
	addr, receipt, err := NewSender(backend, token.ABI).Deploy(ctx, opts, token.ContractName, initialSupply)
	if err != nil {
		return nil, receipt, err
	}
	return NewSTEW(addr, backend), receipt, nil
}

func (t *STEW) Name(ctx context.Context) (string, error) {
	return call1[string](ctx, t.caller, t.Address, token.NameMethod)
}

func (t *STEW) Symbol(ctx context.Context) (string, error) {
	return call1[string](ctx, t.caller, t.Address, token.SymbolMethod)
}

func (t *STEW) Decimals(ctx context.Context) (uint8, error) {
	return call1[uint8](ctx, t.caller, t.Address, token.DecimalsMethod)
}

// TokenDecimals reads the same value as Decimals through its legacy name.
func (t *STEW) TokenDecimals(ctx context.Context) (uint8, error) {
	return call1[uint8](ctx, t.caller, t.Address, token.TokenDecimalsMethod)
}

func (t *STEW) TotalSupply(ctx context.Context) (*big.Int, error) {
	return call1[*big.Int](ctx, t.caller, t.Address, token.TotalSupplyMethod)
}

func (t *STEW) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return call1[*big.Int](ctx, t.caller, t.Address, token.BalanceOfMethod, account)
}

func (t *STEW) Allowance(ctx context.Context, holder, spender common.Address) (*big.Int, error) {
	return call1[*big.Int](ctx, t.caller, t.Address, token.AllowanceMethod, holder, spender)
}

func (t *STEW) Owner(ctx context.Context) (common.Address, error) {
	return call1[common.Address](ctx, t.caller, t.Address, token.OwnerMethod)
}

func (t *STEW) Transfer(ctx context.Context, opts *TransactOpts, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.sender.Transact(ctx, opts, t.Address, token.TransferMethod, to, amount)
}

func (t *STEW) Approve(ctx context.Context, opts *TransactOpts, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.sender.Transact(ctx, opts, t.Address, token.ApproveMethod, spender, amount)
}

func (t *STEW) TransferFrom(ctx context.Context, opts *TransactOpts, from, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.sender.Transact(ctx, opts, t.Address, token.TransferFromMethod, from, to, amount)
}

func (t *STEW) UpdateDecimals(ctx context.Context, opts *TransactOpts, decimals uint8) (*types.Receipt, error) {
	return t.sender.Transact(ctx, opts, t.Address, token.UpdateDecimalsMethod, decimals)
}

func (t *STEW) Burn(ctx context.Context, opts *TransactOpts, account common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.sender.Transact(ctx, opts, t.Address, token.BurnMethod, account, amount)
}

func (t *STEW) WithdrawAll(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return t.sender.Transact(ctx, opts, t.Address, token.WithdrawAllMethod)
}

func (t *STEW) TransferOwnership(ctx context.Context, opts *TransactOpts, newOwner common.Address) (*types.Receipt, error) {
	return t.sender.Transact(ctx, opts, t.Address, token.TransferOwnershipMethod, newOwner)
}

func (t *STEW) RenounceOwnership(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return t.sender.Transact(ctx, opts, t.Address, token.RenounceOwnershipMethod)
}
