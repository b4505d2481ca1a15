package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type ScenarioSuite struct {
	suite.Suite
	runner *Runner
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

func (s *ScenarioSuite) SetupTest() {
	cfg, err := config.Load(s.T().TempDir())
	s.Require().NoError(err)
	s.runner = NewRunner(cfg, zaptest.NewLogger(s.T()))
}

func (s *ScenarioSuite) run(name string) Report {
	sc, ok := Get(name)
	s.Require().True(ok, "scenario %s not registered", name)
	report, err := s.runner.Run(context.Background(), sc)
	s.Require().NoError(err)
	for _, res := range report.Results {
		s.Truef(res.Passed, "%s: %s", res.Name, res.Detail)
	}
	return report
}

func (s *ScenarioSuite) TestStew() {
	report := s.run("stew")
	s.True(report.Passed())
}

func (s *ScenarioSuite) TestSale() {
	report := s.run("sale")
	s.True(report.Passed())

	var reasons []string
	for _, res := range report.Results {
		if res.Reason != "" {
			reasons = append(reasons, res.Reason)
		}
	}
	s.Contains(reasons, "Wait for the sale to start")
	s.Contains(reasons, "Cannot buy, sale is paused")
	s.Contains(reasons, "Sale ended")
	s.Contains(reasons, "1 BNB minimum criteria fails")
	s.Contains(reasons, "Caller is not white listed")
}

func (s *ScenarioSuite) TestSellout() {
	report := s.run("sellout")
	s.True(report.Passed())

	var failed int
	for _, rec := range report.Records {
		if !rec.Success() {
			failed++
			s.Equal("Buying exceeds available STEWs", rec.Reason)
		}
	}
	s.Equal(1, failed)
}

func (s *ScenarioSuite) TestFailureSkipsRemainingSteps() {
	boom := errors.New("boom")
	sc := Scenario{
		Name: "broken",
		Steps: []Step{
			{Name: "ok", Run: func(context.Context, *Env) error { return nil }},
			{Name: "fails", Run: func(context.Context, *Env) error { return boom }},
			{Name: "never runs", Run: func(context.Context, *Env) error {
				s.FailNow("step after a failure ran")
				return nil
			}},
		},
	}
	report, err := s.runner.Run(context.Background(), sc)
	s.Require().NoError(err)
	s.False(report.Passed())

	passed, failed, skipped := report.Counts()
	s.Equal(1, passed)
	s.Equal(1, failed)
	s.Equal(1, skipped)
	s.Equal("boom", report.Results[1].Detail)
}

func (s *ScenarioSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc, _ := Get("stew")
	_, err := s.runner.Run(ctx, sc)
	s.ErrorIs(err, context.Canceled)
}

func TestEvaluate(t *testing.T) {
	const reason = "Sale ended"
	revert := chain.Revert(reason)

	cases := []struct {
		name   string
		step   Step
		err    error
		passed bool
		detail string
	}{
		{"success expected and seen", Step{}, nil, true, ""},
		{"success expected, reverted", Step{}, revert, false, "execution reverted: Sale ended"},
		{"revert expected, succeeded", Step{Revert: reason}, nil, false, `expected revert "Sale ended", call succeeded`},
		{"revert expected, host error", Step{Revert: reason}, chain.ErrNonceTooLow, false, `expected revert "Sale ended", got nonce too low`},
		{"wrong reason", Step{Revert: "Sale is not paused"}, revert, false, `reverted with "Sale ended", want "Sale is not paused"`},
		{"matching reason", Step{Revert: reason}, revert, true, "reverted: Sale ended"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := evaluate(tc.step, tc.err)
			assert.Equal(t, tc.passed, res.Passed)
			assert.Equal(t, tc.detail, res.Detail)
		})
	}
}

func TestRegistry(t *testing.T) {
	var names []string
	for _, sc := range All() {
		names = append(names, sc.Name)
		assert.NotEmpty(t, sc.Steps, sc.Name)
	}
	assert.Equal(t, []string{"sale", "sellout", "stew"}, names)

	_, ok := Get("missing")
	assert.False(t, ok)
}

func TestEnvAccounts(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cfg.Accounts = append(cfg.Accounts, "extra")

	env, err := NewEnv(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, name := range append(Roster, "extra") {
		addr := env.Addr(name)
		assert.False(t, seen[addr.Hex()], "duplicate address for %s", name)
		seen[addr.Hex()] = true
		assert.Equal(t, chain.Ether("10000"), env.Backend.BalanceAt(addr))
	}
	assert.Panics(t, func() { env.Opts("nobody") })
	assert.Equal(t, chain.Ether("210000"), env.InitialSupply)
}
