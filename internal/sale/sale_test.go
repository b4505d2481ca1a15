package sale_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/config"
	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/ownable"
	"github.com/Mohsinsiddi/stewsale/internal/sale"
	"github.com/Mohsinsiddi/stewsale/internal/scenario"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

const allocation = "147000"

type SaleSuite struct {
	suite.Suite
	ctx context.Context
	env *scenario.Env
}

func TestSaleSuite(t *testing.T) {
	suite.Run(t, new(SaleSuite))
}

func (s *SaleSuite) SetupTest() {
	s.ctx = context.Background()
	cfg, err := config.Load(s.T().TempDir())
	s.Require().NoError(err)
	s.env, err = scenario.NewEnv(s.ctx, cfg, zaptest.NewLogger(s.T()))
	s.Require().NoError(err)
	s.Require().NoError(s.env.DeploySTEW(s.ctx))
	s.Require().NoError(s.env.DeploySale(s.ctx))
	_, err = s.env.STEW.Transfer(s.ctx, s.env.Opts("owner"), s.env.Sale.Address, chain.Ether(allocation))
	s.Require().NoError(err)
}

func (s *SaleSuite) requireReason(err error, want string) {
	s.T().Helper()
	s.Require().Error(err)
	reason, ok := chain.RevertReason(err)
	s.Require().True(ok, "not a revert: %v", err)
	s.Equal(want, reason)
}

func (s *SaleSuite) state() sale.State {
	st, err := s.env.Sale.SaleState(s.ctx)
	s.Require().NoError(err)
	return st
}

func (s *SaleSuite) stew(name string) *big.Int {
	bal, err := s.env.STEW.BalanceOf(s.ctx, s.env.Addr(name))
	s.Require().NoError(err)
	return bal
}

func (s *SaleSuite) available() *big.Int {
	v, err := s.env.Sale.AvailableSTEWs(s.ctx)
	s.Require().NoError(err)
	return v
}

func (s *SaleSuite) whitelist(names ...string) {
	addrs := make([]common.Address, len(names))
	for i, n := range names {
		addrs[i] = s.env.Addr(n)
	}
	_, err := s.env.Sale.AddWhitelistAddresses(s.ctx, s.env.Opts("owner"), addrs)
	s.Require().NoError(err)
}

func (s *SaleSuite) start() {
	_, err := s.env.Sale.StartSale(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
}

func (s *SaleSuite) TestInitialViews() {
	st, err := s.env.Sale.STEWContract(s.ctx)
	s.Require().NoError(err)
	s.Equal(s.env.STEW.Address, st)

	own, err := s.env.Sale.Owner(s.ctx)
	s.Require().NoError(err)
	s.Equal(s.env.Addr("owner"), own)

	s.Equal(sale.NotStarted, s.state())
	phase, err := s.env.Sale.SalePhase(s.ctx)
	s.Require().NoError(err)
	s.Equal(sale.Presale, phase)

	rate, err := s.env.Sale.Rate(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(15), rate.Int64())

	minBuy, err := s.env.Sale.MinimumPurchase(s.ctx)
	s.Require().NoError(err)
	s.Equal(chain.Ether("1"), minBuy)

	s.Equal(chain.Ether(allocation), s.available())
}

func (s *SaleSuite) TestConstructorRejectsEOA() {
	_, _, err := contract.DeploySaleBNBSTEW(s.ctx, s.env.Backend, s.env.Opts("owner"), s.env.Addr("acc1"))
	s.requireReason(err, sale.ReasonTokenIsEOA)
}

func (s *SaleSuite) TestWhitelist() {
	_, err := s.env.Sale.AddWhitelistAddresses(s.ctx, s.env.Opts("acc1"), []common.Address{s.env.Addr("acc1")})
	s.requireReason(err, ownable.ReasonNotOwner)

	// A zero entry anywhere aborts the whole batch.
	_, err = s.env.Sale.AddWhitelistAddresses(s.ctx, s.env.Opts("owner"),
		[]common.Address{s.env.Addr("whitelist1"), {}, s.env.Addr("whitelist2")})
	s.requireReason(err, sale.ReasonZeroAddress)
	ok, err := s.env.Sale.IsAddressWhiteListed(s.ctx, s.env.Addr("whitelist1"))
	s.Require().NoError(err)
	s.False(ok)

	s.whitelist("whitelist1", "whitelist2", "whitelist1")
	for name, want := range map[string]bool{"whitelist1": true, "whitelist2": true, "whitelist3": false, "acc1": false} {
		ok, err := s.env.Sale.IsAddressWhiteListed(s.ctx, s.env.Addr(name))
		s.Require().NoError(err)
		s.Equal(want, ok, name)
	}

	_, err = s.env.Sale.AddWhitelistAddresses(s.ctx, s.env.Opts("owner"), nil)
	s.NoError(err, "an empty batch is accepted")
}

func (s *SaleSuite) TestLifecycle() {
	o := s.env.Opts("owner")

	_, err := s.env.Sale.PauseSale(s.ctx, o)
	s.requireReason(err, sale.ReasonNotActive)
	_, err = s.env.Sale.UnPauseSale(s.ctx, o)
	s.requireReason(err, sale.ReasonNotPaused)

	_, err = s.env.Sale.StartSale(s.ctx, s.env.Opts("acc1"))
	s.requireReason(err, ownable.ReasonNotOwner)

	s.start()
	s.Equal(sale.Active, s.state())
	_, err = s.env.Sale.StartSale(s.ctx, o)
	s.requireReason(err, sale.ReasonAlreadyStarted)

	_, err = s.env.Sale.PauseSale(s.ctx, o)
	s.Require().NoError(err)
	s.Equal(sale.Paused, s.state())
	_, err = s.env.Sale.PauseSale(s.ctx, o)
	s.requireReason(err, sale.ReasonNotActive)

	_, err = s.env.Sale.UnPauseSale(s.ctx, o)
	s.Require().NoError(err)
	s.Equal(sale.Active, s.state())

	receipt, err := s.env.Sale.EndSale(s.ctx, o)
	s.Require().NoError(err)
	s.Require().Len(receipt.Logs, 1)
	ev, err := sale.ABI.Unpack("SaleStateChanged", receipt.Logs[0].Data)
	s.Require().NoError(err)
	s.Equal([]interface{}{uint8(sale.Active), uint8(sale.Ended)}, ev)

	for _, fn := range []func() error{
		func() error { _, err := s.env.Sale.StartSale(s.ctx, o); return err },
		func() error { _, err := s.env.Sale.PauseSale(s.ctx, o); return err },
		func() error { _, err := s.env.Sale.UnPauseSale(s.ctx, o); return err },
		func() error { _, err := s.env.Sale.EndSale(s.ctx, o); return err },
	} {
		s.requireReason(fn(), sale.ReasonSaleEnded)
	}
	s.Equal(sale.Ended, s.state())
}

func (s *SaleSuite) TestEndBeforeStart() {
	_, err := s.env.Sale.EndSale(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
	s.Equal(sale.Ended, s.state())
}

func (s *SaleSuite) TestBuyRefusedOutsideActive() {
	s.whitelist("whitelist1")
	buy := func() error {
		_, err := s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("whitelist1", "1"))
		return err
	}
	s.requireReason(buy(), sale.ReasonNotStarted)

	s.start()
	_, err := s.env.Sale.PauseSale(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
	s.requireReason(buy(), sale.ReasonPaused)

	_, err = s.env.Sale.EndSale(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
	s.requireReason(buy(), sale.ReasonSaleEnded)

	s.Zero(s.stew("whitelist1").Sign())
	s.Zero(s.env.Backend.BalanceAt(s.env.Sale.Address).Sign())
}

func (s *SaleSuite) TestBuyCheckOrder() {
	s.start()

	// State is checked before the minimum.
	_, err := s.env.Sale.PauseSale(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
	_, err = s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("acc1", "0.5"))
	s.requireReason(err, sale.ReasonPaused)
	_, err = s.env.Sale.UnPauseSale(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)

	// Minimum before whitelist.
	_, err = s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("acc1", "0.999999999999999999"))
	s.requireReason(err, sale.ReasonBelowMinimum)

	// Whitelist before supply.
	_, err = s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("acc1", "9999"))
	s.requireReason(err, sale.ReasonNotWhitelisted)
}

func (s *SaleSuite) TestPresaleBuy() {
	s.whitelist("whitelist1")
	s.start()
	before := s.env.Backend.BalanceAt(s.env.Addr("whitelist1"))

	receipt, err := s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("whitelist1", "2"))
	s.Require().NoError(err)
	s.Equal(chain.Ether("30"), s.stew("whitelist1"))
	s.Equal(chain.Ether("146970"), s.available())
	s.Equal(chain.Ether("2"), s.env.Backend.BalanceAt(s.env.Sale.Address))
	s.Equal(new(big.Int).Sub(before, chain.Ether("2")), s.env.Backend.BalanceAt(s.env.Addr("whitelist1")))

	purchased := receipt.Logs[len(receipt.Logs)-1]
	s.Equal(sale.ABI.Events["STEWsPurchased"].ID, purchased.Topics[0])

	_, err = s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("whitelist2", "2"))
	s.requireReason(err, sale.ReasonNotWhitelisted)
}

func (s *SaleSuite) TestPublicBuy() {
	s.start()
	_, err := s.env.Sale.ToggleSalePreToPublic(s.ctx, s.env.Opts("acc1"))
	s.requireReason(err, ownable.ReasonNotOwner)

	_, err = s.env.Sale.ToggleSalePreToPublic(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
	rate, err := s.env.Sale.Rate(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(12), rate.Int64())

	_, err = s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("acc1", "20"))
	s.Require().NoError(err)
	s.Equal(chain.Ether("240"), s.stew("acc1"))

	// Toggling back restores the whitelist requirement.
	_, err = s.env.Sale.ToggleSalePreToPublic(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
	phase, err := s.env.Sale.SalePhase(s.ctx)
	s.Require().NoError(err)
	s.Equal(sale.Presale, phase)
	_, err = s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("acc1", "1"))
	s.requireReason(err, sale.ReasonNotWhitelisted)
}

func (s *SaleSuite) TestBuyExceedingSupply() {
	s.whitelist("whitelist1")
	s.start()

	_, err := s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("whitelist1", "9766"))
	s.Require().NoError(err)
	s.Equal(chain.Ether("510"), s.available())

	_, err = s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("whitelist1", "35"))
	s.requireReason(err, sale.ReasonExceedsAvailable)
	s.Equal(chain.Ether("510"), s.available())

	_, err = s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("whitelist1", "34"))
	s.Require().NoError(err)
	s.Zero(s.available().Sign())
	s.Equal(chain.Ether(allocation), s.stew("whitelist1"))
}

func (s *SaleSuite) TestWithdrawBNBs() {
	s.whitelist("whitelist1")
	s.start()
	_, err := s.env.Sale.BuySTEWs(s.ctx, s.env.Pay("whitelist1", "5"))
	s.Require().NoError(err)

	_, err = s.env.Sale.WithdrawBNBs(s.ctx, s.env.Opts("whitelist1"))
	s.requireReason(err, ownable.ReasonNotOwner)

	before := s.env.Backend.BalanceAt(s.env.Addr("owner"))
	_, err = s.env.Sale.WithdrawBNBs(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
	s.Zero(s.env.Backend.BalanceAt(s.env.Sale.Address).Sign())
	s.Equal(new(big.Int).Add(before, chain.Ether("5")), s.env.Backend.BalanceAt(s.env.Addr("owner")))

	_, err = s.env.Sale.WithdrawBNBs(s.ctx, s.env.Opts("owner"))
	s.NoError(err, "an empty withdrawal is a no-op")
}

func (s *SaleSuite) TestTransferSTEWs() {
	_, err := s.env.Sale.TransferSTEWs(s.ctx, s.env.Opts("acc1"))
	s.requireReason(err, ownable.ReasonNotOwner)

	ownerBefore := s.stew("owner")
	_, err = s.env.Sale.TransferSTEWs(s.ctx, s.env.Opts("owner"))
	s.Require().NoError(err)
	s.Zero(s.available().Sign())
	s.Equal(new(big.Int).Add(ownerBefore, chain.Ether(allocation)), s.stew("owner"))

	_, err = s.env.Sale.TransferSTEWs(s.ctx, s.env.Opts("owner"))
	s.NoError(err, "reclaiming nothing is allowed")
}

func (s *SaleSuite) TestTransferOwnership() {
	_, err := s.env.Sale.TransferOwnership(s.ctx, s.env.Opts("owner"), common.Address{})
	s.requireReason(err, ownable.ReasonZeroNewOwner)

	_, err = s.env.Sale.TransferOwnership(s.ctx, s.env.Opts("owner"), s.env.Addr("acc2"))
	s.Require().NoError(err)

	_, err = s.env.Sale.StartSale(s.ctx, s.env.Opts("owner"))
	s.requireReason(err, ownable.ReasonNotOwner)
	_, err = s.env.Sale.StartSale(s.ctx, s.env.Opts("acc2"))
	s.NoError(err)
}

func (s *SaleSuite) TestDirectPaymentRejected() {
	_, err := contract.SendValue(s.ctx, s.env.Backend, s.env.Pay("acc1", "1"), s.env.Sale.Address)
	s.Error(err)
	s.Zero(s.env.Backend.BalanceAt(s.env.Sale.Address).Sign())
}

func TestRatesMatchPurchase(t *testing.T) {
	assert.Equal(t, int64(15), sale.PresaleRate.Int64())
	assert.Equal(t, int64(12), sale.PublicRate.Int64())
	require.Equal(t, chain.Ether("1"), sale.MinimumPurchase)
}
