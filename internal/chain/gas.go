package chain

import "github.com/ethereum/go-ethereum/params"

// IntrinsicGas is the gas charged before any execution: the base transaction
// cost plus calldata bytes.
func IntrinsicGas(data []byte, isCreate bool) uint64 {
	gas := params.TxGas
	if isCreate {
		gas = params.TxGasContractCreation
	}
	for _, b := range data {
		if b == 0 {
			gas += params.TxDataZeroGas
		} else {
			gas += params.TxDataNonZeroGasEIP2028
		}
	}
	return gas
}
