package chain

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// Host-level failures. Contract rule violations are reported as *RevertError.
var (
	ErrNonceTooLow       = errors.New("nonce too low")
	ErrNonceTooHigh      = errors.New("nonce too high")
	ErrIntrinsicGas      = errors.New("intrinsic gas too low")
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")
	ErrInvalidSender     = errors.New("invalid sender")
	ErrWriteProtection   = errors.New("write protection")
	ErrUnknownContract   = errors.New("unknown contract code")
	ErrDepth             = errors.New("max call depth exceeded")
	ErrExecutionReverted = errors.New("execution reverted")
)

var (
	// revertSelector is the 4-byte id of Error(string).
	revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]
	reasonArgs     = abi.Arguments{{Type: mustNewType("string")}}
)

// RevertError is returned when a contract call aborts. All state changes made
// by the call are rolled back before it is returned.
type RevertError struct {
	Reason string
	Data   []byte // ABI-encoded Error(string), empty for a bare revert
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return ErrExecutionReverted.Error()
	}
	return ErrExecutionReverted.Error() + ": " + e.Reason
}

// Is lets errors.Is(err, ErrExecutionReverted) match any revert.
func (e *RevertError) Is(target error) bool {
	return target == ErrExecutionReverted
}

// Revert builds the error a contract returns to abort with reason.
func Revert(reason string) error {
	if reason == "" {
		return &RevertError{}
	}
	packed, err := reasonArgs.Pack(reason)
	if err != nil {
		return &RevertError{Reason: reason}
	}
	data := make([]byte, 0, len(revertSelector)+len(packed))
	data = append(data, revertSelector...)
	data = append(data, packed...)
	return &RevertError{Reason: reason, Data: data}
}

// RevertReason returns the revert reason carried by err, if any.
func RevertReason(err error) (string, bool) {
	var rerr *RevertError
	if !errors.As(err, &rerr) {
		return "", false
	}
	if rerr.Reason != "" || len(rerr.Data) == 0 {
		return rerr.Reason, true
	}
	reason, uerr := abi.UnpackRevert(rerr.Data)
	if uerr != nil {
		return "", true
	}
	return reason, true
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}
