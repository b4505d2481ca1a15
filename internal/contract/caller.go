package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the slice of the devnet the access layer needs.
type Backend interface {
	ChainID() *big.Int
	NonceAt(addr common.Address) uint64
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Caller calls read-only (view/pure) contract functions.
type Caller struct {
	backend Backend
	abi     abi.ABI
}

// NewCaller creates a Caller for contracts implementing parsed.
func NewCaller(backend Backend, parsed abi.ABI) *Caller {
	return &Caller{backend: backend, abi: parsed}
}

// Call calls a read function on a contract and returns the decoded outputs.
func (c *Caller) Call(ctx context.Context, contractAddr common.Address, funcName string, args ...interface{}) ([]interface{}, error) {
	fn, ok := c.abi.Methods[funcName]
	if !ok {
		return nil, fmt.Errorf("function %q not found in ABI", funcName)
	}
	if !fn.IsConstant() {
		return nil, fmt.Errorf("function %q is not a read function (stateMutability: %s)", funcName, fn.StateMutability)
	}

	calldata, err := c.abi.Pack(funcName, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &contractAddr, Data: calldata})
	if err != nil {
		return nil, fmt.Errorf("contract call failed: %w", err)
	}

	decoded, err := c.abi.Unpack(funcName, result)
	if err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return decoded, nil
}

// Simulate runs a write function without committing it and reports the
// revert error it would produce, if any.
func (c *Caller) Simulate(ctx context.Context, from, contractAddr common.Address, value *big.Int, funcName string, args ...interface{}) error {
	calldata, err := c.abi.Pack(funcName, args...)
	if err != nil {
		return fmt.Errorf("encoding call: %w", err)
	}
	_, err = c.backend.CallContract(ctx, ethereum.CallMsg{From: from, To: &contractAddr, Value: value, Data: calldata})
	return err
}

// call1 calls a single-output read function and asserts its Go type.
func call1[T any](ctx context.Context, c *Caller, addr common.Address, funcName string, args ...interface{}) (T, error) {
	var zero T
	out, err := c.Call(ctx, addr, funcName, args...)
	if err != nil {
		return zero, err
	}
	if len(out) != 1 {
		return zero, fmt.Errorf("%s: want 1 output, got %d", funcName, len(out))
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected output type %T", funcName, out[0])
	}
	return v, nil
}
