package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DefaultGasLimit is the per-transaction gas limit used when TransactOpts
// leaves it unset.
const DefaultGasLimit = uint64(6_721_975)

// Signer signs transactions for one account.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// TransactOpts carries the per-transaction parameters.
type TransactOpts struct {
	Signer   Signer
	Value    *big.Int // native coin attached; nil means none
	GasLimit uint64   // 0 means DefaultGasLimit
	GasPrice *big.Int // nil means zero
}

// From returns opts for signer with no value attached.
func From(signer Signer) *TransactOpts {
	return &TransactOpts{Signer: signer}
}

// WithValue returns a copy of opts that attaches value.
func (o *TransactOpts) WithValue(value *big.Int) *TransactOpts {
	cp := *o
	cp.Value = value
	return &cp
}

// Sender sends write transactions to contracts.
type Sender struct {
	backend Backend
	abi     abi.ABI
}

// NewSender creates a Sender for contracts implementing parsed.
func NewSender(backend Backend, parsed abi.ABI) *Sender {
	return &Sender{backend: backend, abi: parsed}
}

// Transact calls a write function and returns the mined receipt. A reverted
// call returns its receipt together with an error wrapping *chain.RevertError.
func (s *Sender) Transact(ctx context.Context, opts *TransactOpts, contractAddr common.Address, funcName string, args ...interface{}) (*types.Receipt, error) {
	fn, ok := s.abi.Methods[funcName]
	if !ok {
		return nil, fmt.Errorf("function %q not found in ABI", funcName)
	}
	if fn.IsConstant() {
		return nil, fmt.Errorf("function %q is not a write function", funcName)
	}
	if opts.Value != nil && opts.Value.Sign() > 0 && !fn.IsPayable() {
		return nil, fmt.Errorf("function %q is not payable", funcName)
	}

	calldata, err := s.abi.Pack(funcName, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}
	receipt, err := send(ctx, s.backend, opts, &contractAddr, calldata)
	if err != nil {
		return receipt, fmt.Errorf("%s: %w", funcName, err)
	}
	return receipt, nil
}

// Deploy creates a new instance of the native contract with the given
// constructor arguments.
func (s *Sender) Deploy(ctx context.Context, opts *TransactOpts, native string, args ...interface{}) (common.Address, *types.Receipt, error) {
	packed, err := s.abi.Pack("", args...)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("encoding constructor: %w", err)
	}
	data := append(chain.CreationCode(native), packed...)
	receipt, err := send(ctx, s.backend, opts, nil, data)
	if err != nil {
		return common.Address{}, receipt, fmt.Errorf("deploying %s: %w", native, err)
	}
	return receipt.ContractAddress, receipt, nil
}

// SendValue transfers native coin to to. Sending to a contract runs its
// receive hook.
func SendValue(ctx context.Context, backend Backend, opts *TransactOpts, to common.Address) (*types.Receipt, error) {
	if opts.Value == nil || opts.Value.Sign() <= 0 {
		return nil, errors.New("value must be positive")
	}
	return send(ctx, backend, opts, &to, nil)
}

func send(ctx context.Context, backend Backend, opts *TransactOpts, to *common.Address, data []byte) (*types.Receipt, error) {
	if opts == nil || opts.Signer == nil {
		return nil, errors.New("no signer")
	}
	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}
	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}
	gasPrice := opts.GasPrice
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}

	from := opts.Signer.Address()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    backend.NonceAt(from),
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       to,
		Value:    value,
		Data:     data,
	})

	signed, err := opts.Signer.SignTx(tx, backend.ChainID())
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return backend.SendTransaction(ctx, signed)
}
