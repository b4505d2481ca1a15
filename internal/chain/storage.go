package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Slot returns the key of a plain state variable at position n.
func Slot(n uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(n))
}

// MappingSlot returns the key of mapping[key] for a mapping declared at slot,
// using the Solidity layout keccak256(pad32(key) ++ pad32(slot)).
func MappingSlot(slot common.Hash, key common.Hash) common.Hash {
	return crypto.Keccak256Hash(key.Bytes(), slot.Bytes())
}

// AddressKey left-pads addr into a mapping key.
func AddressKey(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

// NestedMappingSlot returns the key of mapping[a][b] for a mapping declared at slot.
func NestedMappingSlot(slot common.Hash, a, b common.Hash) common.Hash {
	return MappingSlot(MappingSlot(slot, a), b)
}

// Word decodes a storage value as an unsigned 256-bit integer.
func Word(h common.Hash) *uint256.Int {
	return new(uint256.Int).SetBytes32(h[:])
}

// WordHash encodes v as a storage value.
func WordHash(v *uint256.Int) common.Hash {
	return common.Hash(v.Bytes32())
}

// AddressWord decodes a storage value holding an address.
func AddressWord(h common.Hash) common.Address {
	return common.BytesToAddress(h.Bytes())
}

// BoolHash encodes a bool as a storage value.
func BoolHash(v bool) common.Hash {
	if v {
		return common.BigToHash(big.NewInt(1))
	}
	return common.Hash{}
}
