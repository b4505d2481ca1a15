package scenario

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// saleAllocation is the STEW the owner moves into a fresh sale.
const saleAllocation = "147000"

// who resolves an account name to an address. "stew" and "sale" name the
// current contracts.
func who(env *Env, name string) common.Address {
	switch name {
	case "stew":
		return env.STEW.Address
	case "sale":
		return env.Sale.Address
	}
	return env.Addr(name)
}

func expectEqual[T comparable](what string, got, want T) error {
	if got != want {
		return fmt.Errorf("%s: got %v, want %v", what, got, want)
	}
	return nil
}

func expectAmount(what string, got, want *big.Int) error {
	if got.Cmp(want) != 0 {
		return fmt.Errorf("%s: got %s, want %s", what,
			chain.FormatUnits(got, chain.EtherDecimals), chain.FormatUnits(want, chain.EtherDecimals))
	}
	return nil
}

// expectSTEW checks a ledger balance in whole tokens.
func expectSTEW(name, whole string) StepFunc {
	return func(ctx context.Context, env *Env) error {
		bal, err := env.STEW.BalanceOf(ctx, who(env, name))
		if err != nil {
			return err
		}
		return expectAmount("STEW balance of "+name, bal, chain.Ether(whole))
	}
}

// expectSTEWBelowSupply checks a ledger balance as the initial supply less whole.
func expectSTEWBelowSupply(name, whole string) StepFunc {
	return func(ctx context.Context, env *Env) error {
		bal, err := env.STEW.BalanceOf(ctx, who(env, name))
		if err != nil {
			return err
		}
		want := new(big.Int).Sub(env.InitialSupply, chain.Ether(whole))
		return expectAmount("STEW balance of "+name, bal, want)
	}
}

// expectCoins checks a native balance in whole coins.
func expectCoins(name, whole string) StepFunc {
	return func(_ context.Context, env *Env) error {
		return expectAmount("coin balance of "+name, env.Backend.BalanceAt(who(env, name)), chain.Ether(whole))
	}
}

func expectWhitelisted(name string, want bool) StepFunc {
	return func(ctx context.Context, env *Env) error {
		got, err := env.Sale.IsAddressWhiteListed(ctx, who(env, name))
		if err != nil {
			return err
		}
		return expectEqual("whitelisted "+name, got, want)
	}
}

func buy(name, coins string) StepFunc {
	return func(ctx context.Context, env *Env) error {
		_, err := env.Sale.BuySTEWs(ctx, env.Pay(name, coins))
		return err
	}
}

// saleTx is a no-argument sale transaction, as a method expression.
type saleTx func(*contract.SaleBNBSTEW, context.Context, *contract.TransactOpts) (*types.Receipt, error)

// saleCall runs fn on the current sale from the named account.
func saleCall(from string, fn saleTx) StepFunc {
	return func(ctx context.Context, env *Env) error {
		_, err := fn(env.Sale, ctx, env.Opts(from))
		return err
	}
}

func deploySTEW(ctx context.Context, env *Env) error { return env.DeploySTEW(ctx) }

func deploySale(ctx context.Context, env *Env) error { return env.DeploySale(ctx) }

func fundSale(ctx context.Context, env *Env) error {
	_, err := env.STEW.Transfer(ctx, env.Opts("owner"), env.Sale.Address, chain.Ether(saleAllocation))
	return err
}

func whitelistAll(ctx context.Context, env *Env) error {
	_, err := env.Sale.AddWhitelistAddresses(ctx, env.Opts("owner"),
		[]common.Address{env.Addr("whitelist1"), env.Addr("whitelist2"), env.Addr("whitelist3")})
	return err
}

// freshSale deploys a new ledger and sale, funds it, whitelists the three
// whitelist accounts and starts the sale in presale.
func freshSale() []Step {
	return []Step{
		{Name: "deploy fresh STEW", Run: deploySTEW},
		{Name: "deploy fresh SaleBNBSTEW", Run: deploySale},
		{Name: "move " + saleAllocation + " STEW into the sale", Run: fundSale},
		{Name: "whitelist whitelist1..3", Run: whitelistAll},
		{Name: "start the sale", Run: saleCall("owner", (*contract.SaleBNBSTEW).StartSale)},
	}
}
