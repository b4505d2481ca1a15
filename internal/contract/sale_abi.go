package contract

import "github.com/Mohsinsiddi/stewsale/internal/sale"

// SaleBuiltin is the ID of the SaleBNBSTEW built-in.
const SaleBuiltin = "salebnbstew"

func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          SaleBuiltin,
		Name:        "SaleBNBSTEW (STEW token sale)",
		Description: "Sells STEW for native coin with whitelist presale, pause and supply limits.",
		Native:      sale.ContractName,
		ABI:         sale.ABI,
		Impl:        sale.New(),
	})
}
