// Package sale implements SaleBNBSTEW, the contract that sells STEW from its
// own token balance in exchange for native coin.
package sale

import (
	"bytes"
	"fmt"
	"math/big"

	_ "embed"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/ownable"
	"github.com/Mohsinsiddi/stewsale/internal/token"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

var (
	//go:embed abi.json
	f []byte
	// ABI is the contract interface of the sale.
	ABI abi.ABI

	owner ownable.Ownable
)

func init() {
	var err error
	ABI, err = abi.JSON(bytes.NewReader(f))
	if err != nil {
		panic(err)
	}
	owner = ownable.Ownable{Slot: slotOwner, Transferred: ABI.Events["OwnershipTransferred"]}
}

// ContractName is the name the sale registers under on the devnet.
const ContractName = "SaleBNBSTEW"

// Pricing. Rates are STEW base units per wei, so one coin buys rate whole
// tokens while both sides use 18 decimals.
var (
	PresaleRate     = big.NewInt(15)
	PublicRate      = big.NewInt(12)
	MinimumPurchase = new(big.Int).SetUint64(params.Ether)
)

// Method names.
const (
	STEWContractMethod          = "STEWContract"
	OwnerMethod                 = "owner"
	IsAddressWhiteListedMethod  = "isAddressWhiteListed"
	SaleStateMethod             = "saleState"
	SalePhaseMethod             = "salePhase"
	RateMethod                  = "rate"
	MinimumPurchaseMethod       = "minimumPurchase"
	AvailableSTEWsMethod        = "availableSTEWs"
	AddWhitelistAddressesMethod = "addWhitelistAddresses"
	StartSaleMethod             = "startSale"
	PauseSaleMethod             = "pauseSale"
	UnPauseSaleMethod           = "unPauseSale"
	EndSaleMethod               = "endSale"
	ToggleSalePreToPublicMethod = "toggleSalePreToPublic"
	BuySTEWsMethod              = "buySTEWs"
	WithdrawBNBsMethod          = "withdrawBNBs"
	TransferSTEWsMethod         = "transferSTEWs"
	TransferOwnershipMethod     = "transferOwnership"
)

// Revert reasons.
const (
	ReasonTokenIsEOA       = "STEW address can't be EOA"
	ReasonZeroAddress      = "Zero address not allowed"
	ReasonNotStarted       = "Wait for the sale to start"
	ReasonPaused           = "Cannot buy, sale is paused"
	ReasonSaleEnded        = "Sale ended"
	ReasonBelowMinimum     = "1 BNB minimum criteria fails"
	ReasonNotWhitelisted   = "Caller is not white listed"
	ReasonExceedsAvailable = "Buying exceeds available STEWs"
	ReasonAlreadyStarted   = "Sale already started"
	ReasonNotActive        = "Sale is not active"
	ReasonNotPaused        = "Sale is not paused"
)

// Storage layout.
var (
	slotToken     = chain.Slot(0)
	slotOwner     = chain.Slot(1)
	slotWhitelist = chain.Slot(2)
	slotState     = chain.Slot(3)
	slotPhase     = chain.Slot(4)
)

// Sale is the SaleBNBSTEW contract.
type Sale struct{}

var _ chain.Contract = Sale{}

// New returns the sale implementation to register with a backend.
func New() Sale { return Sale{} }

func (Sale) Name() string { return ContractName }

func (Sale) ABI() abi.ABI { return ABI }

// Construct binds the sale to a deployed STEW ledger.
func (Sale) Construct(env *chain.Env, args []interface{}) error {
	stew, ok := args[0].(common.Address)
	if !ok {
		return chain.Revert("")
	}
	if !env.IsContract(stew) {
		return chain.Revert(ReasonTokenIsEOA)
	}
	if err := env.SetState(slotToken, chain.AddressKey(stew)); err != nil {
		return err
	}
	return owner.Init(env, env.Caller())
}

func (Sale) Execute(env *chain.Env, method *abi.Method, args []interface{}) ([]byte, error) {
	switch method.Name {
	// queries:
	case STEWContractMethod:
		return method.Outputs.Pack(tokenAddress(env))
	case OwnerMethod:
		return method.Outputs.Pack(owner.Owner(env))
	case IsAddressWhiteListedMethod:
		return method.Outputs.Pack(isWhitelisted(env, args[0].(common.Address)))
	case SaleStateMethod:
		return method.Outputs.Pack(uint8(saleState(env)))
	case SalePhaseMethod:
		return method.Outputs.Pack(uint8(salePhase(env)))
	case RateMethod:
		return method.Outputs.Pack(rate(salePhase(env)))
	case MinimumPurchaseMethod:
		return method.Outputs.Pack(MinimumPurchase)
	case AvailableSTEWsMethod:
		available, err := availableSTEWs(env)
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(available)
	// transactions:
	case AddWhitelistAddressesMethod:
		return nil, addWhitelist(env, args[0].([]common.Address))
	case StartSaleMethod:
		return nil, changeState(env, startAction)
	case PauseSaleMethod:
		return nil, changeState(env, pauseAction)
	case UnPauseSaleMethod:
		return nil, changeState(env, unpauseAction)
	case EndSaleMethod:
		return nil, changeState(env, endAction)
	case ToggleSalePreToPublicMethod:
		return nil, togglePhase(env)
	case BuySTEWsMethod:
		return nil, buy(env)
	case WithdrawBNBsMethod:
		return nil, withdrawBNBs(env)
	case TransferSTEWsMethod:
		return nil, transferSTEWs(env)
	case TransferOwnershipMethod:
		return nil, owner.TransferOwnership(env, args[0].(common.Address))
	default:
		return nil, fmt.Errorf("unknown method %s", method.Name)
	}
}

func addWhitelist(env *chain.Env, accounts []common.Address) error {
	if err := owner.Require(env); err != nil {
		return err
	}
	for _, acct := range accounts {
		if acct == (common.Address{}) {
			return chain.Revert(ReasonZeroAddress)
		}
		if err := env.SetState(whitelistKey(acct), chain.BoolHash(true)); err != nil {
			return err
		}
		if err := env.Emit(ABI.Events["WhitelistAdded"], acct); err != nil {
			return err
		}
	}
	return nil
}

func changeState(env *chain.Env, a action) error {
	if err := owner.Require(env); err != nil {
		return err
	}
	from := saleState(env)
	to, err := transition(from, a)
	if err != nil {
		return err
	}
	if err := env.SetState(slotState, chain.WordHash(uint256.NewInt(uint64(to)))); err != nil {
		return err
	}
	return env.Emit(ABI.Events["SaleStateChanged"], uint8(from), uint8(to))
}

func togglePhase(env *chain.Env) error {
	if err := owner.Require(env); err != nil {
		return err
	}
	next := salePhase(env).Toggle()
	if err := env.SetState(slotPhase, chain.WordHash(uint256.NewInt(uint64(next)))); err != nil {
		return err
	}
	return env.Emit(ABI.Events["SalePhaseToggled"], uint8(next))
}

// buy checks, in order: sale state, minimum amount, whitelist (presale
// only), then remaining supply.
func buy(env *chain.Env) error {
	if err := buyable(saleState(env)); err != nil {
		return err
	}
	paid := env.Value()
	if paid.Cmp(MinimumPurchase) < 0 {
		return chain.Revert(ReasonBelowMinimum)
	}
	phase := salePhase(env)
	if phase == Presale && !isWhitelisted(env, env.Caller()) {
		return chain.Revert(ReasonNotWhitelisted)
	}
	owed := new(big.Int).Mul(paid, rate(phase))
	available, err := availableSTEWs(env)
	if err != nil {
		return err
	}
	if owed.Cmp(available) > 0 {
		return chain.Revert(ReasonExceedsAvailable)
	}
	if err := tokenTransfer(env, env.Caller(), owed); err != nil {
		return err
	}
	return env.Emit(ABI.Events["STEWsPurchased"], env.Caller(), paid, owed)
}

func withdrawBNBs(env *chain.Env) error {
	if err := owner.Require(env); err != nil {
		return err
	}
	return env.Transfer(owner.Owner(env), env.Balance(env.Self()))
}

func transferSTEWs(env *chain.Env) error {
	if err := owner.Require(env); err != nil {
		return err
	}
	available, err := availableSTEWs(env)
	if err != nil {
		return err
	}
	return tokenTransfer(env, owner.Owner(env), available)
}

// availableSTEWs is the sale's own balance on the ledger.
func availableSTEWs(env *chain.Env) (*big.Int, error) {
	out, err := callToken(env, token.BalanceOfMethod, env.Self())
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func tokenTransfer(env *chain.Env, to common.Address, amount *big.Int) error {
	_, err := callToken(env, token.TransferMethod, to, amount)
	return err
}

func callToken(env *chain.Env, method string, args ...interface{}) ([]interface{}, error) {
	input, err := token.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}
	ret, err := env.Call(tokenAddress(env), input, nil)
	if err != nil {
		return nil, err
	}
	return token.ABI.Unpack(method, ret)
}

func rate(p Phase) *big.Int {
	if p == Public {
		return new(big.Int).Set(PublicRate)
	}
	return new(big.Int).Set(PresaleRate)
}

func tokenAddress(env *chain.Env) common.Address {
	return chain.AddressWord(env.GetState(slotToken))
}

func whitelistKey(acct common.Address) common.Hash {
	return chain.MappingSlot(slotWhitelist, chain.AddressKey(acct))
}

func isWhitelisted(env *chain.Env, acct common.Address) bool {
	return env.GetState(whitelistKey(acct)) != (common.Hash{})
}

func saleState(env *chain.Env) State {
	return State(chain.Word(env.GetState(slotState)).Uint64())
}

func salePhase(env *chain.Env) Phase {
	return Phase(chain.Word(env.GetState(slotPhase)).Uint64())
}
