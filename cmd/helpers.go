package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// txOpts returns transaction options for the --from account.
func txOpts() (*contract.TransactOpts, error) {
	s, err := wallets.Signer(fromAcct)
	if err != nil {
		return nil, fmt.Errorf("signing account %q: %w", fromAcct, err)
	}
	return &contract.TransactOpts{Signer: s, GasLimit: cfg.GasLimit}, nil
}

// payOpts is txOpts with coins whole native coins attached.
func payOpts(coins string) (*contract.TransactOpts, error) {
	value, err := chain.ParseUnits(coins, chain.EtherDecimals)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", coins, err)
	}
	opts, err := txOpts()
	if err != nil {
		return nil, err
	}
	return opts.WithValue(value), nil
}

// resolveAccount accepts an account name or a hex address.
func resolveAccount(nameOrAddr string) (common.Address, error) {
	addr, err := wallets.Lookup(nameOrAddr)
	if err != nil {
		return common.Address{}, fmt.Errorf("unknown account %q: %w", nameOrAddr, err)
	}
	return addr, nil
}

func loadSTEW() (*contract.STEW, error) {
	e, err := registry.Get(contract.STEWDeployment)
	if errors.Is(err, contract.ErrContractNotFound) {
		return nil, errors.New("no STEW ledger deployed; run `stewsale token deploy`")
	}
	if err != nil {
		return nil, err
	}
	return contract.NewSTEW(e.Address, backend), nil
}

func loadSale() (*contract.SaleBNBSTEW, error) {
	e, err := registry.Get(contract.SaleDeployment)
	if errors.Is(err, contract.ErrContractNotFound) {
		return nil, errors.New("no sale deployed; run `stewsale sale deploy`")
	}
	if err != nil {
		return nil, err
	}
	return contract.NewSaleBNBSTEW(e.Address, backend), nil
}

// stewDecimals reads the ledger's display decimals.
func stewDecimals(ctx context.Context, t *contract.STEW) (int, error) {
	d, err := t.Decimals(ctx)
	if err != nil {
		return 0, err
	}
	return int(d), nil
}

// parseSTEW converts whole-token text into base units at the ledger's
// current decimals.
func parseSTEW(ctx context.Context, t *contract.STEW, amount string) (*big.Int, error) {
	d, err := stewDecimals(ctx, t)
	if err != nil {
		return nil, err
	}
	v, err := chain.ParseUnits(amount, d)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return v, nil
}

func formatSTEW(ctx context.Context, t *contract.STEW, v *big.Int) string {
	d, err := stewDecimals(ctx, t)
	if err != nil {
		d = chain.EtherDecimals
	}
	return chain.FormatUnits(v, d) + " STEW"
}

func formatCoins(v *big.Int) string {
	return chain.FormatUnits(v, chain.EtherDecimals) + " BNB"
}

// report prints the outcome of a mined transaction.
func report(action string, receipt *types.Receipt, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	fmt.Println(ui.Success(action))
	fmt.Println(ui.Meta(fmt.Sprintf("  tx %s  block %d", receipt.TxHash.Hex(), receipt.BlockNumber.Uint64())))
	return nil
}

// confirmed asks before moving funds unless --yes was given.
func confirmed(yes bool, prompt string) bool {
	if yes {
		return true
	}
	return ui.ConfirmDanger(os.Stdin, os.Stdout, prompt)
}
