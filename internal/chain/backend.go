package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Backend is a single-node devnet that mines one block per transaction.
// Every method takes the same lock, so calls never interleave.
type Backend struct {
	mu        sync.Mutex
	chainID   *big.Int
	signer    types.Signer
	state     *StateDB
	contracts map[common.Hash]Contract
	block     uint64
	receipts  map[common.Hash]*types.Receipt
	records   []Record
	log       *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for transaction traces.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		b.log = l
	}
}

// WithContracts registers native contract implementations.
func WithContracts(cs ...Contract) Option {
	return func(b *Backend) {
		for _, c := range cs {
			b.contracts[CodeHash(c.Name())] = c
		}
	}
}

// NewBackend creates a devnet whose genesis credits alloc.
func NewBackend(chainID *big.Int, alloc map[common.Address]*big.Int, opts ...Option) *Backend {
	b := &Backend{
		chainID:   new(big.Int).Set(chainID),
		signer:    types.LatestSignerForChainID(chainID),
		state:     NewStateDB(),
		contracts: make(map[common.Hash]Contract),
		receipts:  make(map[common.Hash]*types.Receipt),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	for addr, bal := range alloc {
		b.state.AddBalance(addr, uint256.MustFromBig(bal))
	}
	b.state.Finalise()
	return b
}

// ChainID returns the chain id transactions must be signed for.
func (b *Backend) ChainID() *big.Int {
	return new(big.Int).Set(b.chainID)
}

// BlockNumber returns the height of the latest mined block.
func (b *Backend) BlockNumber() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.block
}

// BalanceAt returns the native balance of addr.
func (b *Backend) BalanceAt(addr common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.GetBalance(addr).ToBig()
}

// NonceAt returns the next nonce addr must use.
func (b *Backend) NonceAt(addr common.Address) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.GetNonce(addr)
}

// CodeAt returns the code at addr. It is empty for externally owned accounts.
func (b *Backend) CodeAt(addr common.Address) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.GetCode(addr)
}

// StorageAt reads a raw storage slot.
func (b *Backend) StorageAt(addr common.Address, key common.Hash) common.Hash {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.GetState(addr, key)
}

// TransactionReceipt returns the receipt of a mined transaction.
func (b *Backend) TransactionReceipt(hash common.Hash) (*types.Receipt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.receipts[hash]
	return r, ok
}

// Records returns every mined transaction, oldest first.
func (b *Backend) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// SendTransaction validates, executes and mines tx. A transaction that passes
// validation is always mined; when execution fails the receipt has a failed
// status and the execution error is returned alongside it.
func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	from, err := types.Sender(b.signer, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSender, err)
	}
	nonce := b.state.GetNonce(from)
	switch {
	case tx.Nonce() < nonce:
		return nil, fmt.Errorf("%w: address %s, tx %d state %d", ErrNonceTooLow, from.Hex(), tx.Nonce(), nonce)
	case tx.Nonce() > nonce:
		return nil, fmt.Errorf("%w: address %s, tx %d state %d", ErrNonceTooHigh, from.Hex(), tx.Nonce(), nonce)
	}
	gasUsed := IntrinsicGas(tx.Data(), tx.To() == nil)
	if tx.Gas() < gasUsed {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrIntrinsicGas, tx.Gas(), gasUsed)
	}
	cost, overflow := uint256.FromBig(tx.Cost())
	if overflow || b.state.GetBalance(from).Lt(cost) {
		return nil, fmt.Errorf("%w: address %s", ErrInsufficientFunds, from.Hex())
	}

	b.block++
	b.state.SetNonce(from, nonce+1)
	fee := new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), tx.GasPrice())
	b.state.SubBalance(from, uint256.MustFromBig(fee))

	var (
		contractAddr common.Address
		method       string
		execErr      error
	)
	if tx.To() == nil {
		contractAddr = crypto.CreateAddress(from, nonce)
		method, execErr = b.create(from, contractAddr, tx.Data(), tx.Value())
	} else {
		method = b.methodName(*tx.To(), tx.Data())
		_, execErr = b.execute(b.state, frame{
			caller: from,
			origin: from,
			to:     *tx.To(),
			input:  tx.Data(),
			value:  tx.Value(),
			depth:  0,
			block:  b.block,
		})
	}
	logs := b.state.Finalise()

	receipt := &types.Receipt{
		Type:              tx.Type(),
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: gasUsed,
		TxHash:            tx.Hash(),
		GasUsed:           gasUsed,
		EffectiveGasPrice: tx.GasPrice(),
		BlockHash:         blockHash(b.block, tx.Hash()),
		BlockNumber:       new(big.Int).SetUint64(b.block),
		Logs:              logs,
	}
	if execErr != nil {
		receipt.Status = types.ReceiptStatusFailed
		receipt.Logs = nil
	} else if tx.To() == nil {
		receipt.ContractAddress = contractAddr
	}
	for i, l := range receipt.Logs {
		l.TxHash = receipt.TxHash
		l.BlockHash = receipt.BlockHash
		l.BlockNumber = b.block
		l.Index = uint(i)
	}
	if receipt.Logs == nil {
		receipt.Logs = []*types.Log{}
	}
	receipt.Bloom = types.CreateBloom(types.Receipts{receipt})
	b.receipts[receipt.TxHash] = receipt
	b.records = append(b.records, newRecord(receipt, from, tx, method, execErr))

	fields := []zap.Field{
		zap.Stringer("hash", receipt.TxHash),
		zap.Uint64("block", b.block),
		zap.Stringer("from", from),
		zap.String("method", method),
		zap.Uint64("status", receipt.Status),
	}
	if execErr != nil {
		reason, _ := RevertReason(execErr)
		b.log.Info("transaction reverted", append(fields, zap.String("reason", reason), zap.Error(execErr))...)
		return receipt, execErr
	}
	b.log.Debug("transaction applied", fields...)
	return receipt, nil
}

// CallContract executes msg against the latest state without committing
// anything, like eth_call.
func (b *Backend) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if msg.To == nil {
		return nil, errors.New("call without a destination")
	}
	value := msg.Value
	if value == nil {
		value = new(big.Int)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := b.state.Snapshot()
	ret, err := b.execute(b.state, frame{
		caller: msg.From,
		origin: msg.From,
		to:     *msg.To,
		input:  msg.Data,
		value:  value,
		block:  b.block + 1,
	})
	b.state.RevertToSnapshot(snap)
	b.state.Finalise()
	return ret, err
}

type frame struct {
	caller   common.Address
	origin   common.Address
	to       common.Address
	input    []byte
	value    *big.Int
	readOnly bool
	depth    int
	block    uint64
}

// execute runs one message call. On error every change it made is undone.
func (b *Backend) execute(state *StateDB, f frame) ([]byte, error) {
	if f.depth > maxCallDepth {
		return nil, ErrDepth
	}
	snap := state.Snapshot()
	ret, err := b.run(state, f)
	if err != nil {
		state.RevertToSnapshot(snap)
		return nil, err
	}
	return ret, nil
}

func (b *Backend) run(state *StateDB, f frame) ([]byte, error) {
	if f.value.Sign() > 0 {
		amt, overflow := uint256.FromBig(f.value)
		if overflow || state.GetBalance(f.caller).Lt(amt) {
			return nil, fmt.Errorf("%w: address %s", ErrInsufficientFunds, f.caller.Hex())
		}
		state.SubBalance(f.caller, amt)
		state.AddBalance(f.to, amt)
	}

	code := state.GetCode(f.to)
	if len(code) == 0 {
		return nil, nil
	}
	c, ok := b.contracts[common.BytesToHash(code)]
	if !ok {
		return nil, fmt.Errorf("%w at %s", ErrUnknownContract, f.to.Hex())
	}
	env := &Env{
		backend:  b,
		state:    state,
		self:     f.to,
		caller:   f.caller,
		origin:   f.origin,
		value:    f.value,
		readOnly: f.readOnly,
		depth:    f.depth,
		block:    f.block,
	}

	if len(f.input) == 0 {
		r, ok := c.(Receiver)
		if !ok {
			return nil, Revert("")
		}
		return nil, r.Receive(env)
	}
	if len(f.input) < 4 {
		return nil, Revert("")
	}
	contractABI := c.ABI()
	method, err := contractABI.MethodById(f.input[:4])
	if err != nil {
		return nil, Revert("")
	}
	if f.value.Sign() > 0 && !method.IsPayable() {
		return nil, Revert("")
	}
	args, err := method.Inputs.Unpack(f.input[4:])
	if err != nil {
		return nil, Revert("")
	}
	if method.IsConstant() {
		env.readOnly = true
	}
	return c.Execute(env, method, args)
}

// create deploys a native contract at addr from a creation payload.
func (b *Backend) create(from, addr common.Address, data []byte, value *big.Int) (string, error) {
	if len(data) < common.HashLength {
		return "create", Revert("")
	}
	codeHash := common.BytesToHash(data[:common.HashLength])
	c, ok := b.contracts[codeHash]
	if !ok {
		return "create", fmt.Errorf("%w %s", ErrUnknownContract, codeHash.Hex())
	}
	method := "create " + c.Name()

	snap := b.state.Snapshot()
	err := func() error {
		if len(b.state.GetCode(addr)) > 0 {
			return errors.New("contract address collision")
		}
		contractABI := c.ABI()
		args, err := contractABI.Constructor.Inputs.Unpack(data[common.HashLength:])
		if err != nil {
			return Revert("")
		}
		b.state.SetCode(addr, codeHash.Bytes())
		if value.Sign() > 0 {
			if !contractABI.Constructor.IsPayable() {
				return Revert("")
			}
			amt := uint256.MustFromBig(value)
			b.state.SubBalance(from, amt)
			b.state.AddBalance(addr, amt)
		}
		return c.Construct(&Env{
			backend: b,
			state:   b.state,
			self:    addr,
			caller:  from,
			origin:  from,
			value:   value,
			block:   b.block,
		}, args)
	}()
	if err != nil {
		b.state.RevertToSnapshot(snap)
		return method, err
	}
	return method, nil
}

// methodName resolves the ABI method a call is aimed at, for records.
func (b *Backend) methodName(to common.Address, input []byte) string {
	code := b.state.GetCode(to)
	if len(code) == 0 {
		return "transfer"
	}
	if len(input) == 0 {
		return "receive"
	}
	c, ok := b.contracts[common.BytesToHash(code)]
	if !ok || len(input) < 4 {
		return "0x" + common.Bytes2Hex(input[:min(4, len(input))])
	}
	contractABI := c.ABI()
	m, err := contractABI.MethodById(input[:4])
	if err != nil {
		return "0x" + common.Bytes2Hex(input[:4])
	}
	return m.Name
}

// ParsedABI exposes the ABI registered for the contract at addr, if any.
func (b *Backend) ParsedABI(addr common.Address) (abi.ABI, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.contracts[common.BytesToHash(b.state.GetCode(addr))]
	if !ok {
		return abi.ABI{}, false
	}
	return c.ABI(), true
}

func blockHash(number uint64, txHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(new(big.Int).SetUint64(number).Bytes(), txHash.Bytes())
}
