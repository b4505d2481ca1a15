// Package ownable implements the single-owner access guard shared by the
// native contracts.
package ownable

import (
	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Revert reasons.
const (
	ReasonNotOwner     = "Ownable: caller is not the owner"
	ReasonZeroNewOwner = "Ownable: new owner is the zero address"
)

// Ownable stores the owner address in one storage slot of the contract.
type Ownable struct {
	Slot common.Hash
	// Transferred is the OwnershipTransferred(address,address) event of the
	// owning contract's ABI.
	Transferred abi.Event
}

// Owner returns the current owner.
func (o Ownable) Owner(env *chain.Env) common.Address {
	return chain.AddressWord(env.GetState(o.Slot))
}

// Require fails unless the caller is the owner.
func (o Ownable) Require(env *chain.Env) error {
	if env.Caller() != o.Owner(env) {
		return chain.Revert(ReasonNotOwner)
	}
	return nil
}

// Init sets the first owner.
func (o Ownable) Init(env *chain.Env, owner common.Address) error {
	return o.set(env, owner)
}

// TransferOwnership hands the contract to newOwner. Owner only.
func (o Ownable) TransferOwnership(env *chain.Env, newOwner common.Address) error {
	if err := o.Require(env); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return chain.Revert(ReasonZeroNewOwner)
	}
	return o.set(env, newOwner)
}

// Renounce leaves the contract without an owner. Owner only.
func (o Ownable) Renounce(env *chain.Env) error {
	if err := o.Require(env); err != nil {
		return err
	}
	return o.set(env, common.Address{})
}

func (o Ownable) set(env *chain.Env, owner common.Address) error {
	prev := o.Owner(env)
	if err := env.SetState(o.Slot, chain.AddressKey(owner)); err != nil {
		return err
	}
	return env.Emit(o.Transferred, prev, owner)
}
