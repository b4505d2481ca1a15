package contract

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// Selector computes the 4-byte selector of a canonical signature such as
// "transfer(address,uint256)".
func Selector(sig string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// MethodSummary is one row of an ABI listing.
type MethodSummary struct {
	Signature       string
	Selector        string
	StateMutability string
}

// Summarize lists the methods of parsed sorted by name.
func Summarize(parsed abi.ABI) []MethodSummary {
	out := make([]MethodSummary, 0, len(parsed.Methods))
	for _, m := range parsed.Methods {
		out = append(out, MethodSummary{
			Signature:       m.Sig,
			Selector:        Selector(m.Sig),
			StateMutability: m.StateMutability,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Signature) < strings.ToLower(out[j].Signature)
	})
	return out
}
