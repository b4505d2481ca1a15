package contract

import (
	"sort"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BuiltinKind describes a contract whose ABI and native implementation ship
// with the binary. Each built-in registers itself via init() in its own
// <name>_abi.go file.
type BuiltinKind struct {
	ID          string  // machine key, e.g. "stew"
	Name        string  // human label
	Description string  // one-line summary shown in `stewsale builtins`
	Native      string  // devnet contract name passed to chain.CreationCode
	ABI         abi.ABI // parsed ABI
	Impl        chain.Contract
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin adds a built-in to the global registry.
func RegisterBuiltin(b BuiltinKind) {
	builtinRegistry[b.ID] = b
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := make([]BuiltinKind, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Natives returns the implementations of every built-in, for registering
// with a devnet backend.
func Natives() []chain.Contract {
	var out []chain.Contract
	for _, b := range AllBuiltins() {
		out = append(out, b.Impl)
	}
	return out
}
