package scenario

import (
	"context"
	"math/big"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/ownable"
	"github.com/Mohsinsiddi/stewsale/internal/token"
)

func init() {
	Register(Scenario{
		Name:        "stew",
		Description: "ledger identity, owner-only decimals, burn and withdrawAll",
		Steps: []Step{
			{Name: "deploy STEW", Run: deploySTEW},
			{Name: "name is StewCoin", Run: func(ctx context.Context, env *Env) error {
				name, err := env.STEW.Name(ctx)
				if err != nil {
					return err
				}
				return expectEqual("name", name, token.TokenName)
			}},
			{Name: "symbol is STEW", Run: func(ctx context.Context, env *Env) error {
				sym, err := env.STEW.Symbol(ctx)
				if err != nil {
					return err
				}
				return expectEqual("symbol", sym, token.TokenSymbol)
			}},
			{Name: "decimals is 18", Run: expectDecimals(18)},
			{Name: "totalSupply is the initial supply", Run: func(ctx context.Context, env *Env) error {
				supply, err := env.STEW.TotalSupply(ctx)
				if err != nil {
					return err
				}
				return expectAmount("totalSupply", supply, env.InitialSupply)
			}},
			{
				Name:   "updateDecimals by non-owner reverts",
				Run:    updateDecimals("acc1", 8),
				Revert: ownable.ReasonNotOwner,
			},
			{Name: "tokenDecimals is still 18", Run: expectDecimals(18)},
			{Name: "owner sets decimals to 8", Run: updateDecimals("owner", 8)},
			{Name: "decimals is 8", Run: expectDecimals(8)},
			{Name: "owner restores decimals to 18", Run: updateDecimals("owner", 18)},
			{Name: "owner holds the whole supply", Run: expectSTEWBelowSupply("owner", "0")},
			{Name: "owner burns 1000 STEW", Run: func(ctx context.Context, env *Env) error {
				_, err := env.STEW.Burn(ctx, env.Opts("owner"), env.Addr("owner"), chain.Ether("1000"))
				return err
			}},
			{Name: "owner balance drops by 1000", Run: expectSTEWBelowSupply("owner", "1000")},
			{Name: "totalSupply drops by 1000", Run: func(ctx context.Context, env *Env) error {
				supply, err := env.STEW.TotalSupply(ctx)
				if err != nil {
					return err
				}
				return expectAmount("totalSupply", supply, new(big.Int).Sub(env.InitialSupply, chain.Ether("1000")))
			}},
			{Name: "send 1 coin to the ledger", Run: func(ctx context.Context, env *Env) error {
				_, err := contract.SendValue(ctx, env.Backend, env.Pay("owner", "1"), env.STEW.Address)
				return err
			}},
			{Name: "ledger holds 1 coin", Run: expectCoins("stew", "1")},
			{
				Name:   "withdrawAll by non-owner reverts",
				Run:    withdrawAll("acc1"),
				Revert: ownable.ReasonNotOwner,
			},
			{Name: "owner withdraws all coins", Run: withdrawAll("owner")},
			{Name: "ledger holds 0 coins", Run: expectCoins("stew", "0")},
		},
	})
}

func expectDecimals(want uint8) StepFunc {
	return func(ctx context.Context, env *Env) error {
		d, err := env.STEW.Decimals(ctx)
		if err != nil {
			return err
		}
		if err := expectEqual("decimals", d, want); err != nil {
			return err
		}
		td, err := env.STEW.TokenDecimals(ctx)
		if err != nil {
			return err
		}
		return expectEqual("tokenDecimals", td, want)
	}
}

func updateDecimals(from string, d uint8) StepFunc {
	return func(ctx context.Context, env *Env) error {
		_, err := env.STEW.UpdateDecimals(ctx, env.Opts(from), d)
		return err
	}
}

func withdrawAll(from string) StepFunc {
	return func(ctx context.Context, env *Env) error {
		_, err := env.STEW.WithdrawAll(ctx, env.Opts(from))
		return err
	}
}
