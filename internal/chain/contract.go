package chain

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Contract is a native contract implementation. It holds no state of its
// own: everything it persists goes through the Env storage accessors, keyed
// by the contract address the Env is bound to.
type Contract interface {
	// Name identifies the implementation. The code hash stored at every
	// deployed instance is derived from it.
	Name() string
	ABI() abi.ABI
	Construct(env *Env, args []interface{}) error
	Execute(env *Env, method *abi.Method, args []interface{}) ([]byte, error)
}

// Receiver is implemented by contracts that accept plain value transfers.
type Receiver interface {
	Receive(env *Env) error
}

// CodeHash is the code installed at every instance of the named contract.
func CodeHash(name string) common.Hash {
	return crypto.Keccak256Hash([]byte("native:" + name))
}

// CreationCode returns the creation payload prefix for the named contract.
// ABI-packed constructor arguments follow it.
func CreationCode(name string) []byte {
	return CodeHash(name).Bytes()
}
