package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// DumpAccount is the persisted form of one account.
type DumpAccount struct {
	Balance string                      `json:"balance"`
	Nonce   uint64                      `json:"nonce,omitempty"`
	Code    hexutil.Bytes               `json:"code,omitempty"`
	Storage map[common.Hash]common.Hash `json:"storage,omitempty"`
}

// Dump is a full snapshot of the devnet.
type Dump struct {
	ChainID  uint64                         `json:"chain_id"`
	Block    uint64                         `json:"block"`
	Accounts map[common.Address]DumpAccount `json:"accounts"`
	Receipts []*types.Receipt               `json:"receipts,omitempty"`
	Records  []Record                       `json:"records,omitempty"`
}

// Dump captures the current state, receipts and records.
func (b *Backend) Dump() *Dump {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := &Dump{
		ChainID:  b.chainID.Uint64(),
		Block:    b.block,
		Accounts: make(map[common.Address]DumpAccount),
		Records:  append([]Record(nil), b.records...),
	}
	for _, addr := range b.state.Accounts() {
		d.Accounts[addr] = DumpAccount{
			Balance: b.state.GetBalance(addr).Dec(),
			Nonce:   b.state.GetNonce(addr),
			Code:    b.state.GetCode(addr),
			Storage: b.state.storageOf(addr),
		}
	}
	for _, rec := range b.records {
		if r, ok := b.receipts[rec.Hash]; ok {
			d.Receipts = append(d.Receipts, r)
		}
	}
	return d
}

// LoadDump replaces the backend state with d.
func (b *Backend) LoadDump(d *Dump) error {
	if d.ChainID != b.chainID.Uint64() {
		return fmt.Errorf("state dump is for chain %d, backend runs chain %d", d.ChainID, b.chainID.Uint64())
	}
	state := NewStateDB()
	for addr, acct := range d.Accounts {
		bal, ok := new(big.Int).SetString(acct.Balance, 10)
		if !ok {
			return fmt.Errorf("account %s: invalid balance %q", addr.Hex(), acct.Balance)
		}
		state.AddBalance(addr, uint256.MustFromBig(bal))
		state.SetNonce(addr, acct.Nonce)
		if len(acct.Code) > 0 {
			state.SetCode(addr, acct.Code)
		}
		for k, v := range acct.Storage {
			state.SetState(addr, k, v)
		}
	}
	state.Finalise()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
	b.block = d.Block
	b.records = append([]Record(nil), d.Records...)
	b.receipts = make(map[common.Hash]*types.Receipt, len(d.Receipts))
	for _, r := range d.Receipts {
		b.receipts[r.TxHash] = r
	}
	return nil
}

// SaveState writes the backend dump to path.
func (b *Backend) SaveState(path string) error {
	data, err := json.MarshalIndent(b.Dump(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadState restores the backend from a dump written by SaveState. A missing
// file leaves the genesis state in place and reports ok=false.
func (b *Backend) LoadState(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading state: %w", err)
	}
	var d Dump
	if err := json.Unmarshal(data, &d); err != nil {
		return false, fmt.Errorf("parsing state: %w", err)
	}
	if err := b.LoadDump(&d); err != nil {
		return false, err
	}
	return true, nil
}
