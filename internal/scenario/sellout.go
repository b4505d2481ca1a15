package scenario

import (
	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/sale"
)

func init() {
	steps := append(freshSale(),
		Step{Name: "whitelist1 buys with 9766 coins", Run: buy("whitelist1", "9766")},
		Step{Name: "whitelist1 holds 146490 STEW", Run: expectSTEW("whitelist1", "146490")},
		Step{Name: "sale holds 510 STEW", Run: expectSTEW("sale", "510")},
		Step{Name: "buy of 525 STEW reverts", Run: buy("whitelist1", "35"), Revert: sale.ReasonExceedsAvailable},
		Step{Name: "failed buy left the sale untouched", Run: expectSTEW("sale", "510")},
		Step{Name: "whitelist1 buys the remaining 510 STEW", Run: buy("whitelist1", "34")},
		Step{Name: "sale holds 0 STEW", Run: expectSTEW("sale", "0")},
		Step{Name: "whitelist1 holds " + saleAllocation + " STEW", Run: expectSTEW("whitelist1", saleAllocation)},
		Step{Name: "sale holds 9800 coins", Run: expectCoins("sale", "9800")},
		Step{Name: "owner withdraws 9800 coins", Run: saleCall("owner", (*contract.SaleBNBSTEW).WithdrawBNBs)},
		Step{Name: "sale holds 0 coins", Run: expectCoins("sale", "0")},
	)

	Register(Scenario{
		Name:        "sellout",
		Description: "presale buys exhausting the allocation, over-supply revert and exact final buy",
		Steps:       steps,
	})
}
