package contract

import (
	"context"
	"math/big"

	"github.com/Mohsinsiddi/stewsale/internal/sale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SaleBNBSTEW is a typed binding to a deployed sale contract.
type SaleBNBSTEW struct {
	Address common.Address
	caller  *Caller
	sender  *Sender
}

// NewSaleBNBSTEW binds to the sale at addr.
func NewSaleBNBSTEW(addr common.Address, backend Backend) *SaleBNBSTEW {
	return &SaleBNBSTEW{
		Address: addr,
		caller:  NewCaller(backend, sale.ABI),
		sender:  NewSender(backend, sale.ABI),
	}
}

// DeploySaleBNBSTEW deploys a sale bound to the ledger at stew.
func DeploySaleBNBSTEW(ctx context.Context, backend Backend, opts *TransactOpts, stew common.Address) (*SaleBNBSTEW, *types.Receipt, error) {
	addr, receipt, err := NewSender(backend, sale.ABI).Deploy(ctx, opts, sale.ContractName, stew)
	if err != nil {
		return nil, receipt, err
	}
	return NewSaleBNBSTEW(addr, backend), receipt, nil
}

func (s *SaleBNBSTEW) STEWContract(ctx context.Context) (common.Address, error) {
	return call1[common.Address](ctx, s.caller, s.Address, sale.STEWContractMethod)
}

func (s *SaleBNBSTEW) Owner(ctx context.Context) (common.Address, error) {
	return call1[common.Address](ctx, s.caller, s.Address, sale.OwnerMethod)
}

func (s *SaleBNBSTEW) IsAddressWhiteListed(ctx context.Context, account common.Address) (bool, error) {
	return call1[bool](ctx, s.caller, s.Address, sale.IsAddressWhiteListedMethod, account)
}

func (s *SaleBNBSTEW) SaleState(ctx context.Context) (sale.State, error) {
	v, err := call1[uint8](ctx, s.caller, s.Address, sale.SaleStateMethod)
	return sale.State(v), err
}

func (s *SaleBNBSTEW) SalePhase(ctx context.Context) (sale.Phase, error) {
	v, err := call1[uint8](ctx, s.caller, s.Address, sale.SalePhaseMethod)
	return sale.Phase(v), err
}

// Rate is the number of STEW a whole coin buys in the current phase.
func (s *SaleBNBSTEW) Rate(ctx context.Context) (*big.Int, error) {
	return call1[*big.Int](ctx, s.caller, s.Address, sale.RateMethod)
}

func (s *SaleBNBSTEW) MinimumPurchase(ctx context.Context) (*big.Int, error) {
	return call1[*big.Int](ctx, s.caller, s.Address, sale.MinimumPurchaseMethod)
}

// AvailableSTEWs is the sale's remaining ledger balance.
func (s *SaleBNBSTEW) AvailableSTEWs(ctx context.Context) (*big.Int, error) {
	return call1[*big.Int](ctx, s.caller, s.Address, sale.AvailableSTEWsMethod)
}

func (s *SaleBNBSTEW) AddWhitelistAddresses(ctx context.Context, opts *TransactOpts, accounts []common.Address) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.AddWhitelistAddressesMethod, accounts)
}

func (s *SaleBNBSTEW) StartSale(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.StartSaleMethod)
}

func (s *SaleBNBSTEW) PauseSale(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.PauseSaleMethod)
}

func (s *SaleBNBSTEW) UnPauseSale(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.UnPauseSaleMethod)
}

func (s *SaleBNBSTEW) EndSale(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.EndSaleMethod)
}

func (s *SaleBNBSTEW) ToggleSalePreToPublic(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.ToggleSalePreToPublicMethod)
}

// BuySTEWs pays opts.Value for STEW at the current rate.
func (s *SaleBNBSTEW) BuySTEWs(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.BuySTEWsMethod)
}

func (s *SaleBNBSTEW) WithdrawBNBs(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.WithdrawBNBsMethod)
}

func (s *SaleBNBSTEW) TransferSTEWs(ctx context.Context, opts *TransactOpts) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.TransferSTEWsMethod)
}

func (s *SaleBNBSTEW) TransferOwnership(ctx context.Context, opts *TransactOpts, newOwner common.Address) (*types.Receipt, error) {
	return s.sender.Transact(ctx, opts, s.Address, sale.TransferOwnershipMethod, newOwner)
}
