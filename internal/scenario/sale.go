package scenario

import (
	"context"

	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/ownable"
	"github.com/Mohsinsiddi/stewsale/internal/sale"
	"github.com/ethereum/go-ethereum/common"
)

func init() {
	steps := []Step{
		{Name: "deploy STEW", Run: deploySTEW},
		{
			Name: "deploy SaleBNBSTEW against an EOA reverts",
			Run: func(ctx context.Context, env *Env) error {
				_, _, err := contract.DeploySaleBNBSTEW(ctx, env.Backend, env.Opts("owner"), env.Addr("acc2"))
				return err
			},
			Revert: sale.ReasonTokenIsEOA,
		},
		{Name: "deploy SaleBNBSTEW", Run: deploySale},
		{Name: "move " + saleAllocation + " STEW into the sale", Run: fundSale},
		{Name: "owner keeps the rest", Run: expectSTEWBelowSupply("owner", saleAllocation)},
		{Name: "sale holds " + saleAllocation + " STEW", Run: expectSTEW("sale", saleAllocation)},
		{Name: "STEWContract is the deployed ledger", Run: func(ctx context.Context, env *Env) error {
			addr, err := env.Sale.STEWContract(ctx)
			if err != nil {
				return err
			}
			return expectEqual("STEWContract", addr, env.STEW.Address)
		}},
		{
			Name: "addWhitelistAddresses by non-owner reverts",
			Run: func(ctx context.Context, env *Env) error {
				_, err := env.Sale.AddWhitelistAddresses(ctx, env.Opts("acc1"), []common.Address{env.Addr("whitelist1")})
				return err
			},
			Revert: ownable.ReasonNotOwner,
		},
		{
			Name: "addWhitelistAddresses with the zero address reverts",
			Run: func(ctx context.Context, env *Env) error {
				_, err := env.Sale.AddWhitelistAddresses(ctx, env.Opts("owner"),
					[]common.Address{env.Addr("whitelist1"), env.Addr("whitelist2"), env.Addr("whitelist3"), {}})
				return err
			},
			Revert: sale.ReasonZeroAddress,
		},
		{Name: "failed batch whitelisted nobody", Run: expectWhitelisted("whitelist1", false)},
		{Name: "whitelist whitelist1..3", Run: whitelistAll},
		{Name: "whitelist1 is whitelisted", Run: expectWhitelisted("whitelist1", true)},
		{Name: "acc1 is not whitelisted", Run: expectWhitelisted("acc1", false)},
		{Name: "buy before start reverts", Run: buy("whitelist1", "1"), Revert: sale.ReasonNotStarted},
		{Name: "start the sale", Run: saleCall("owner", (*contract.SaleBNBSTEW).StartSale)},
		{Name: "pause the sale", Run: saleCall("owner", (*contract.SaleBNBSTEW).PauseSale)},
		{Name: "buy while paused reverts", Run: buy("whitelist1", "1"), Revert: sale.ReasonPaused},
		{Name: "unpause the sale", Run: saleCall("owner", (*contract.SaleBNBSTEW).UnPauseSale)},
		{Name: "end the sale", Run: saleCall("owner", (*contract.SaleBNBSTEW).EndSale)},
		{Name: "buy after end reverts", Run: buy("whitelist1", "1"), Revert: sale.ReasonSaleEnded},
		{
			Name:   "restart after end reverts",
			Run:    saleCall("owner", (*contract.SaleBNBSTEW).StartSale),
			Revert: sale.ReasonSaleEnded,
		},
	}
	steps = append(steps, freshSale()...)
	steps = append(steps,
		Step{Name: "buy of 0.9 coin reverts", Run: buy("whitelist1", "0.9"), Revert: sale.ReasonBelowMinimum},
		Step{Name: "presale buy by acc1 reverts", Run: buy("acc1", "1"), Revert: sale.ReasonNotWhitelisted},
		Step{Name: "whitelist1 buys with 1 coin", Run: buy("whitelist1", "1")},
		Step{Name: "whitelist2 buys with 2 coins", Run: buy("whitelist2", "2")},
		Step{Name: "whitelist3 buys with 3 coins", Run: buy("whitelist3", "3")},
		Step{Name: "whitelist1 holds 15 STEW", Run: expectSTEW("whitelist1", "15")},
		Step{Name: "whitelist2 holds 30 STEW", Run: expectSTEW("whitelist2", "30")},
		Step{Name: "whitelist3 holds 45 STEW", Run: expectSTEW("whitelist3", "45")},
		Step{Name: "sale holds 146910 STEW", Run: expectSTEW("sale", "146910")},
		Step{Name: "toggle to public", Run: saleCall("owner", (*contract.SaleBNBSTEW).ToggleSalePreToPublic)},
		Step{Name: "acc1 buys with 20 coins", Run: buy("acc1", "20")},
		Step{Name: "acc1 holds 240 STEW", Run: expectSTEW("acc1", "240")},
		Step{Name: "sale holds 146670 STEW", Run: expectSTEW("sale", "146670")},
		Step{Name: "sale holds 26 coins", Run: expectCoins("sale", "26")},
		Step{
			Name:   "withdrawBNBs by non-owner reverts",
			Run:    saleCall("acc1", (*contract.SaleBNBSTEW).WithdrawBNBs),
			Revert: ownable.ReasonNotOwner,
		},
		Step{Name: "owner withdraws 26 coins", Run: saleCall("owner", (*contract.SaleBNBSTEW).WithdrawBNBs)},
		Step{Name: "sale holds 0 coins", Run: expectCoins("sale", "0")},
		Step{Name: "owner reclaims unsold STEW", Run: saleCall("owner", (*contract.SaleBNBSTEW).TransferSTEWs)},
		Step{Name: "sale holds 0 STEW", Run: expectSTEW("sale", "0")},
		Step{Name: "owner holds everything unsold", Run: expectSTEWBelowSupply("owner", "330")},
	)

	Register(Scenario{
		Name:        "sale",
		Description: "sale deployment, whitelist, lifecycle reverts, presale and public buys, withdrawals",
		Steps:       steps,
	})
}
