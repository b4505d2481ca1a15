// Package token implements the STEW token ledger as a native devnet contract:
// an ERC-20 with an owner-adjustable decimals value, owner burn and native
// coin withdrawal.
package token

import (
	"bytes"
	"fmt"
	"math/big"

	_ "embed"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/ownable"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	//go:embed abi.json
	f []byte
	// ABI is the contract interface of the ledger.
	ABI abi.ABI
)

func init() {
	var err error
	ABI, err = abi.JSON(bytes.NewReader(f))
	if err != nil {
		panic(err)
	}
	owner = ownable.Ownable{Slot: slotOwner, Transferred: ABI.Events["OwnershipTransferred"]}
}

// ContractName is the name the ledger registers under on the devnet.
const ContractName = "STEW"

// Token identity.
const (
	TokenName       = "StewCoin"
	TokenSymbol     = "STEW"
	DefaultDecimals = uint8(18)
)

// Method names.
const (
	NameMethod              = "name"
	SymbolMethod            = "symbol"
	DecimalsMethod          = "decimals"
	TokenDecimalsMethod     = "tokenDecimals"
	TotalSupplyMethod       = "totalSupply"
	BalanceOfMethod         = "balanceOf"
	AllowanceMethod         = "allowance"
	OwnerMethod             = "owner"
	TransferMethod          = "transfer"
	ApproveMethod           = "approve"
	TransferFromMethod      = "transferFrom"
	UpdateDecimalsMethod    = "updateDecimals"
	BurnMethod              = "burn"
	WithdrawAllMethod       = "withdrawAll"
	TransferOwnershipMethod = "transferOwnership"
	RenounceOwnershipMethod = "renounceOwnership"
)

// Revert reasons.
const (
	ReasonTransferExceedsBalance = "ERC20: transfer amount exceeds balance"
	ReasonTransferToZero         = "ERC20: transfer to the zero address"
	ReasonTransferFromZero       = "ERC20: transfer from the zero address"
	ReasonBurnExceedsBalance     = "ERC20: burn amount exceeds balance"
	ReasonBurnFromZero           = "ERC20: burn from the zero address"
	ReasonApproveToZero          = "ERC20: approve to the zero address"
	ReasonApproveFromZero        = "ERC20: approve from the zero address"
	ReasonInsufficientAllowance  = "ERC20: insufficient allowance"
	ReasonMintToZero             = "ERC20: mint to the zero address"
)

// Storage layout.
var (
	slotBalances    = chain.Slot(0)
	slotAllowances  = chain.Slot(1)
	slotTotalSupply = chain.Slot(2)
	slotDecimals    = chain.Slot(3)
	slotOwner       = chain.Slot(4)
)

var owner ownable.Ownable

// Token is the STEW ledger contract.
type Token struct{}

var (
	_ chain.Contract = Token{}
	_ chain.Receiver = Token{}
)

// New returns the ledger implementation to register with a backend.
func New() Token { return Token{} }

func (Token) Name() string { return ContractName }

func (Token) ABI() abi.ABI { return ABI }

// Construct mints initialSupply to the deployer, who becomes the owner.
func (Token) Construct(env *chain.Env, args []interface{}) error {
	supply, ok := args[0].(*big.Int)
	if !ok {
		return chain.Revert("")
	}
	if err := owner.Init(env, env.Caller()); err != nil {
		return err
	}
	if err := env.SetState(slotDecimals, chain.WordHash(uint256.NewInt(uint64(DefaultDecimals)))); err != nil {
		return err
	}
	return mint(env, env.Caller(), uint256.MustFromBig(supply))
}

// Receive accepts native coin unconditionally.
func (Token) Receive(*chain.Env) error { return nil }

func (Token) Execute(env *chain.Env, method *abi.Method, args []interface{}) ([]byte, error) {
	switch method.Name {
	// queries:
	case NameMethod:
		return method.Outputs.Pack(TokenName)
	case SymbolMethod:
		return method.Outputs.Pack(TokenSymbol)
	case DecimalsMethod, TokenDecimalsMethod:
		return method.Outputs.Pack(decimals(env))
	case TotalSupplyMethod:
		return method.Outputs.Pack(chain.Word(env.GetState(slotTotalSupply)).ToBig())
	case BalanceOfMethod:
		return method.Outputs.Pack(balanceOf(env, args[0].(common.Address)).ToBig())
	case AllowanceMethod:
		return method.Outputs.Pack(allowance(env, args[0].(common.Address), args[1].(common.Address)).ToBig())
	case OwnerMethod:
		return method.Outputs.Pack(owner.Owner(env))
	// transactions:
	case TransferMethod:
		return transferMethod(env, method, args)
	case ApproveMethod:
		return approveMethod(env, method, args)
	case TransferFromMethod:
		return transferFromMethod(env, method, args)
	case UpdateDecimalsMethod:
		return nil, updateDecimals(env, args[0].(uint8))
	case BurnMethod:
		return nil, burn(env, args[0].(common.Address), args[1].(*big.Int))
	case WithdrawAllMethod:
		return nil, withdrawAll(env)
	case TransferOwnershipMethod:
		return nil, owner.TransferOwnership(env, args[0].(common.Address))
	case RenounceOwnershipMethod:
		return nil, owner.Renounce(env)
	default:
		return nil, fmt.Errorf("unknown method %s", method.Name)
	}
}

func transferMethod(env *chain.Env, method *abi.Method, args []interface{}) ([]byte, error) {
	to, amount := args[0].(common.Address), args[1].(*big.Int)
	if err := transfer(env, env.Caller(), to, uint256.MustFromBig(amount)); err != nil {
		return nil, err
	}
	return method.Outputs.Pack(true)
}

func approveMethod(env *chain.Env, method *abi.Method, args []interface{}) ([]byte, error) {
	spender, amount := args[0].(common.Address), args[1].(*big.Int)
	if err := approve(env, env.Caller(), spender, uint256.MustFromBig(amount)); err != nil {
		return nil, err
	}
	return method.Outputs.Pack(true)
}

func transferFromMethod(env *chain.Env, method *abi.Method, args []interface{}) ([]byte, error) {
	from, to, amount := args[0].(common.Address), args[1].(common.Address), uint256.MustFromBig(args[2].(*big.Int))
	allowed := allowance(env, from, env.Caller())
	if allowed.Lt(amount) {
		return nil, chain.Revert(ReasonInsufficientAllowance)
	}
	if err := approve(env, from, env.Caller(), new(uint256.Int).Sub(allowed, amount)); err != nil {
		return nil, err
	}
	if err := transfer(env, from, to, amount); err != nil {
		return nil, err
	}
	return method.Outputs.Pack(true)
}

func updateDecimals(env *chain.Env, newDecimals uint8) error {
	if err := owner.Require(env); err != nil {
		return err
	}
	prev := decimals(env)
	if err := env.SetState(slotDecimals, chain.WordHash(uint256.NewInt(uint64(newDecimals)))); err != nil {
		return err
	}
	return env.Emit(ABI.Events["DecimalsUpdated"], prev, newDecimals)
}

func burn(env *chain.Env, account common.Address, amount *big.Int) error {
	if err := owner.Require(env); err != nil {
		return err
	}
	if account == (common.Address{}) {
		return chain.Revert(ReasonBurnFromZero)
	}
	amt := uint256.MustFromBig(amount)
	bal := balanceOf(env, account)
	if bal.Lt(amt) {
		return chain.Revert(ReasonBurnExceedsBalance)
	}
	if err := setBalance(env, account, new(uint256.Int).Sub(bal, amt)); err != nil {
		return err
	}
	supply := chain.Word(env.GetState(slotTotalSupply))
	if err := env.SetState(slotTotalSupply, chain.WordHash(new(uint256.Int).Sub(supply, amt))); err != nil {
		return err
	}
	return env.Emit(ABI.Events["Transfer"], account, common.Address{}, amount)
}

func withdrawAll(env *chain.Env) error {
	if err := owner.Require(env); err != nil {
		return err
	}
	return env.Transfer(owner.Owner(env), env.Balance(env.Self()))
}

func mint(env *chain.Env, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return chain.Revert(ReasonMintToZero)
	}
	supply := chain.Word(env.GetState(slotTotalSupply))
	newSupply, overflow := new(uint256.Int).AddOverflow(supply, amount)
	if overflow {
		return chain.Revert("")
	}
	if err := env.SetState(slotTotalSupply, chain.WordHash(newSupply)); err != nil {
		return err
	}
	if err := setBalance(env, to, new(uint256.Int).Add(balanceOf(env, to), amount)); err != nil {
		return err
	}
	return env.Emit(ABI.Events["Transfer"], common.Address{}, to, amount.ToBig())
}

func transfer(env *chain.Env, from, to common.Address, amount *uint256.Int) error {
	if from == (common.Address{}) {
		return chain.Revert(ReasonTransferFromZero)
	}
	if to == (common.Address{}) {
		return chain.Revert(ReasonTransferToZero)
	}
	fromBal := balanceOf(env, from)
	if fromBal.Lt(amount) {
		return chain.Revert(ReasonTransferExceedsBalance)
	}
	if err := setBalance(env, from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	if err := setBalance(env, to, new(uint256.Int).Add(balanceOf(env, to), amount)); err != nil {
		return err
	}
	return env.Emit(ABI.Events["Transfer"], from, to, amount.ToBig())
}

func approve(env *chain.Env, holder, spender common.Address, amount *uint256.Int) error {
	if holder == (common.Address{}) {
		return chain.Revert(ReasonApproveFromZero)
	}
	if spender == (common.Address{}) {
		return chain.Revert(ReasonApproveToZero)
	}
	key := chain.NestedMappingSlot(slotAllowances, chain.AddressKey(holder), chain.AddressKey(spender))
	if err := env.SetState(key, chain.WordHash(amount)); err != nil {
		return err
	}
	return env.Emit(ABI.Events["Approval"], holder, spender, amount.ToBig())
}

func decimals(env *chain.Env) uint8 {
	return uint8(chain.Word(env.GetState(slotDecimals)).Uint64())
}

func balanceOf(env *chain.Env, account common.Address) *uint256.Int {
	return chain.Word(env.GetState(chain.MappingSlot(slotBalances, chain.AddressKey(account))))
}

func setBalance(env *chain.Env, account common.Address, v *uint256.Int) error {
	return env.SetState(chain.MappingSlot(slotBalances, chain.AddressKey(account)), chain.WordHash(v))
}

func allowance(env *chain.Env, holder, spender common.Address) *uint256.Int {
	return chain.Word(env.GetState(chain.NestedMappingSlot(slotAllowances, chain.AddressKey(holder), chain.AddressKey(spender))))
}
