package contract

import "github.com/Mohsinsiddi/stewsale/internal/token"

// STEWBuiltin is the ID of the STEW ledger built-in.
//
// Function selectors:
//
//	name()                   → 0x06fdde03
//	symbol()                 → 0x95d89b41
//	decimals()               → 0x313ce567
//	totalSupply()            → 0x18160ddd
//	balanceOf(address)       → 0x70a08231
//	transfer(a,u256)         → 0xa9059cbb
//	approve(a,u256)          → 0x095ea7b3
//	transferFrom(a,a,u)      → 0x23b872dd
//	owner()                  → 0x8da5cb5b
//	transferOwnership(a)     → 0xf2fde38b
//	renounceOwnership()      → 0x715018a6
const STEWBuiltin = "stew"

func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          STEWBuiltin,
		Name:        "STEW (StewCoin ledger)",
		Description: "ERC-20 with owner-set decimals, owner burn and native-coin withdrawAll.",
		Native:      token.ContractName,
		ABI:         token.ABI,
		Impl:        token.New(),
	})
}
