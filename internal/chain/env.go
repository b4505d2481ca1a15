package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

const maxCallDepth = 64

// Env is the execution context handed to a native contract for one call.
type Env struct {
	backend  *Backend
	state    *StateDB
	self     common.Address
	caller   common.Address
	origin   common.Address
	value    *big.Int
	readOnly bool
	depth    int
	block    uint64
}

// Self is the address of the executing contract.
func (e *Env) Self() common.Address { return e.self }

// Caller is the immediate sender of the call (msg.sender).
func (e *Env) Caller() common.Address { return e.caller }

// Origin is the account that signed the transaction (tx.origin).
func (e *Env) Origin() common.Address { return e.origin }

// Value is the native amount attached to the call.
func (e *Env) Value() *big.Int { return new(big.Int).Set(e.value) }

// ReadOnly reports whether state writes are forbidden.
func (e *Env) ReadOnly() bool { return e.readOnly }

// BlockNumber is the number of the block being built.
func (e *Env) BlockNumber() uint64 { return e.block }

// GetState reads a slot of the executing contract's storage.
func (e *Env) GetState(key common.Hash) common.Hash {
	return e.state.GetState(e.self, key)
}

// SetState writes a slot of the executing contract's storage.
func (e *Env) SetState(key, value common.Hash) error {
	if e.readOnly {
		return ErrWriteProtection
	}
	e.state.SetState(e.self, key, value)
	return nil
}

// Balance returns the native balance of addr.
func (e *Env) Balance(addr common.Address) *big.Int {
	return e.state.GetBalance(addr).ToBig()
}

// IsContract reports whether addr has code.
func (e *Env) IsContract(addr common.Address) bool {
	return len(e.state.GetCode(addr)) > 0
}

// Transfer sends amount of native coin from the executing contract to to.
func (e *Env) Transfer(to common.Address, amount *big.Int) error {
	if e.readOnly {
		return ErrWriteProtection
	}
	amt, overflow := uint256.FromBig(amount)
	if overflow || amount.Sign() < 0 {
		return fmt.Errorf("invalid transfer amount %s", amount)
	}
	if e.state.GetBalance(e.self).Lt(amt) {
		return Revert("Address: insufficient balance")
	}
	e.state.SubBalance(e.self, amt)
	e.state.AddBalance(to, amt)
	return nil
}

// Call invokes another contract with the executing contract as the caller.
// Changes made by the callee share this call's journal, so a later revert
// in the caller also unwinds them.
func (e *Env) Call(to common.Address, input []byte, value *big.Int) ([]byte, error) {
	if value == nil {
		value = new(big.Int)
	}
	if e.readOnly && value.Sign() > 0 {
		return nil, ErrWriteProtection
	}
	return e.backend.execute(e.state, frame{
		caller:   e.self,
		origin:   e.origin,
		to:       to,
		input:    input,
		value:    value,
		readOnly: e.readOnly,
		depth:    e.depth + 1,
		block:    e.block,
	})
}

// Emit records event with args given in the event's input order.
func (e *Env) Emit(event abi.Event, args ...interface{}) error {
	if e.readOnly {
		return ErrWriteProtection
	}
	if len(args) != len(event.Inputs) {
		return fmt.Errorf("event %s: want %d args, got %d", event.Name, len(event.Inputs), len(args))
	}
	topics := []common.Hash{event.ID}
	var data []interface{}
	for i, input := range event.Inputs {
		if !input.Indexed {
			data = append(data, args[i])
			continue
		}
		t, err := abi.MakeTopics([]interface{}{args[i]})
		if err != nil {
			return fmt.Errorf("event %s topic %s: %w", event.Name, input.Name, err)
		}
		topics = append(topics, t[0][0])
	}
	packed, err := event.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return fmt.Errorf("event %s data: %w", event.Name, err)
	}
	e.state.AddLog(&types.Log{
		Address:     e.self,
		Topics:      topics,
		Data:        packed,
		BlockNumber: e.block,
	})
	return nil
}
