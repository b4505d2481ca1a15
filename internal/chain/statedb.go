package chain

import (
	"bytes"
	"maps"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

type stateObject struct {
	balance *uint256.Int
	nonce   uint64
	code    []byte
	storage map[common.Hash]common.Hash
}

func newObject() *stateObject {
	return &stateObject{
		balance: new(uint256.Int),
		storage: make(map[common.Hash]common.Hash),
	}
}

// StateDB holds accounts, contract storage and pending logs. Every mutation
// appends an undo entry to the journal so a call can be rolled back to any
// snapshot taken before it.
type StateDB struct {
	objects map[common.Address]*stateObject
	logs    []*types.Log
	journal []journalEntry
}

// NewStateDB returns an empty state.
func NewStateDB() *StateDB {
	return &StateDB{objects: make(map[common.Address]*stateObject)}
}

type journalEntry interface {
	revert(s *StateDB)
}

type (
	createObjectChange struct {
		account common.Address
	}
	balanceChange struct {
		account common.Address
		prev    *uint256.Int
	}
	nonceChange struct {
		account common.Address
		prev    uint64
	}
	codeChange struct {
		account common.Address
		prev    []byte
	}
	storageChange struct {
		account common.Address
		key     common.Hash
		prev    common.Hash
		existed bool
	}
	addLogChange struct{}
)

func (ch createObjectChange) revert(s *StateDB) { delete(s.objects, ch.account) }
func (ch balanceChange) revert(s *StateDB)      { s.objects[ch.account].balance = ch.prev }
func (ch nonceChange) revert(s *StateDB)        { s.objects[ch.account].nonce = ch.prev }
func (ch codeChange) revert(s *StateDB)         { s.objects[ch.account].code = ch.prev }
func (ch addLogChange) revert(s *StateDB)       { s.logs = s.logs[:len(s.logs)-1] }

func (ch storageChange) revert(s *StateDB) {
	obj := s.objects[ch.account]
	if ch.existed {
		obj.storage[ch.key] = ch.prev
	} else {
		delete(obj.storage, ch.key)
	}
}

func (s *StateDB) getOrCreate(addr common.Address) *stateObject {
	obj, ok := s.objects[addr]
	if !ok {
		obj = newObject()
		s.objects[addr] = obj
		s.journal = append(s.journal, createObjectChange{account: addr})
	}
	return obj
}

// Exist reports whether addr has ever been touched.
func (s *StateDB) Exist(addr common.Address) bool {
	_, ok := s.objects[addr]
	return ok
}

// GetBalance returns a copy of the balance of addr.
func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	if obj, ok := s.objects[addr]; ok {
		return obj.balance.Clone()
	}
	return new(uint256.Int)
}

// AddBalance credits amount to addr.
func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	obj := s.getOrCreate(addr)
	s.journal = append(s.journal, balanceChange{account: addr, prev: obj.balance})
	obj.balance = new(uint256.Int).Add(obj.balance, amount)
}

// SubBalance debits amount from addr. Callers check affordability first.
func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	obj := s.getOrCreate(addr)
	s.journal = append(s.journal, balanceChange{account: addr, prev: obj.balance})
	obj.balance = new(uint256.Int).Sub(obj.balance, amount)
}

// GetNonce returns the account nonce of addr.
func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if obj, ok := s.objects[addr]; ok {
		return obj.nonce
	}
	return 0
}

// SetNonce sets the account nonce of addr.
func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	obj := s.getOrCreate(addr)
	s.journal = append(s.journal, nonceChange{account: addr, prev: obj.nonce})
	obj.nonce = nonce
}

// GetCode returns the code stored at addr.
func (s *StateDB) GetCode(addr common.Address) []byte {
	if obj, ok := s.objects[addr]; ok {
		return obj.code
	}
	return nil
}

// SetCode installs code at addr.
func (s *StateDB) SetCode(addr common.Address, code []byte) {
	obj := s.getOrCreate(addr)
	s.journal = append(s.journal, codeChange{account: addr, prev: obj.code})
	obj.code = bytes.Clone(code)
}

// GetState reads a storage slot.
func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if obj, ok := s.objects[addr]; ok {
		return obj.storage[key]
	}
	return common.Hash{}
}

// SetState writes a storage slot. Writing the zero value clears the slot.
func (s *StateDB) SetState(addr common.Address, key, value common.Hash) {
	obj := s.getOrCreate(addr)
	prev, existed := obj.storage[key]
	if existed && prev == value {
		return
	}
	if !existed && value == (common.Hash{}) {
		return
	}
	s.journal = append(s.journal, storageChange{account: addr, key: key, prev: prev, existed: existed})
	if value == (common.Hash{}) {
		delete(obj.storage, key)
		return
	}
	obj.storage[key] = value
}

// AddLog appends a log to the current transaction.
func (s *StateDB) AddLog(l *types.Log) {
	s.journal = append(s.journal, addLogChange{})
	s.logs = append(s.logs, l)
}

// Snapshot returns an id that RevertToSnapshot can roll back to.
func (s *StateDB) Snapshot() int {
	return len(s.journal)
}

// RevertToSnapshot undoes every change made after the snapshot was taken.
func (s *StateDB) RevertToSnapshot(id int) {
	for i := len(s.journal) - 1; i >= id; i-- {
		s.journal[i].revert(s)
	}
	s.journal = s.journal[:id]
}

// Finalise drops the journal and returns the logs accumulated since the last
// call. Changes made before Finalise can no longer be reverted.
func (s *StateDB) Finalise() []*types.Log {
	logs := s.logs
	s.logs = nil
	s.journal = s.journal[:0]
	return logs
}

// Accounts returns every known address.
func (s *StateDB) Accounts() []common.Address {
	out := make([]common.Address, 0, len(s.objects))
	for addr := range s.objects {
		out = append(out, addr)
	}
	return out
}

func (s *StateDB) storageOf(addr common.Address) map[common.Hash]common.Hash {
	if obj, ok := s.objects[addr]; ok {
		return maps.Clone(obj.storage)
	}
	return nil
}
