package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Record summarizes one mined transaction for listings.
type Record struct {
	Hash            common.Hash     `json:"hash"`
	Block           uint64          `json:"block"`
	From            common.Address  `json:"from"`
	To              *common.Address `json:"to,omitempty"`
	ContractAddress *common.Address `json:"contract_address,omitempty"`
	Method          string          `json:"method"`
	Value           string          `json:"value"` // wei, decimal
	Status          uint64          `json:"status"`
	Reason          string          `json:"reason,omitempty"`
	GasUsed         uint64          `json:"gas_used"`
}

// Success reports whether the transaction executed without reverting.
func (r Record) Success() bool {
	return r.Status == types.ReceiptStatusSuccessful
}

func newRecord(receipt *types.Receipt, from common.Address, tx *types.Transaction, method string, execErr error) Record {
	rec := Record{
		Hash:    receipt.TxHash,
		Block:   receipt.BlockNumber.Uint64(),
		From:    from,
		To:      tx.To(),
		Method:  method,
		Value:   tx.Value().String(),
		Status:  receipt.Status,
		GasUsed: receipt.GasUsed,
	}
	if receipt.ContractAddress != (common.Address{}) {
		addr := receipt.ContractAddress
		rec.ContractAddress = &addr
	}
	if execErr != nil {
		if reason, ok := RevertReason(execErr); ok {
			rec.Reason = reason
		} else {
			rec.Reason = execErr.Error()
		}
	}
	return rec
}
