// Package scenario replays end-to-end ledger and sale flows against a fresh
// devnet and reports each step.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/config"
	"go.uber.org/zap"
)

// StepFunc performs one action or check.
type StepFunc func(context.Context, *Env) error

// Step is one entry of a scenario. A step passes when Run succeeds, or, if
// Revert is set, when Run fails with exactly that revert reason.
type Step struct {
	Name   string
	Run    StepFunc
	Revert string
}

// Scenario is a named, ordered list of steps sharing one Env.
type Scenario struct {
	Name        string
	Description string
	Steps       []Step
}

var registry = map[string]Scenario{}

// Register adds a scenario to the global registry.
func Register(sc Scenario) {
	registry[sc.Name] = sc
}

// Get returns a registered scenario by name.
func Get(name string) (Scenario, bool) {
	sc, ok := registry[name]
	return sc, ok
}

// All returns every registered scenario sorted by name.
func All() []Scenario {
	out := make([]Scenario, 0, len(registry))
	for _, sc := range registry {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StepResult is the outcome of one step.
type StepResult struct {
	Name     string
	Passed   bool
	Skipped  bool
	Detail   string
	Reason   string // observed revert reason, if any
	Duration time.Duration
}

// Report is the outcome of one scenario run.
type Report struct {
	Scenario string
	Results  []StepResult
	Records  []chain.Record
}

// Passed reports whether every step passed.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Counts returns the number of passed, failed and skipped steps.
func (r Report) Counts() (passed, failed, skipped int) {
	for _, res := range r.Results {
		switch {
		case res.Passed:
			passed++
		case res.Skipped:
			skipped++
		default:
			failed++
		}
	}
	return passed, failed, skipped
}

// Runner runs scenarios, each on its own devnet.
type Runner struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRunner creates a runner that builds devnets from cfg.
func NewRunner(cfg *config.Config, log *zap.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run executes sc. Steps after the first failure are skipped since later
// steps depend on earlier state.
func (r *Runner) Run(ctx context.Context, sc Scenario) (Report, error) {
	env, err := NewEnv(ctx, r.cfg, r.log)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	report := Report{Scenario: sc.Name}
	failed := false
	for _, step := range sc.Steps {
		if failed {
			report.Results = append(report.Results, StepResult{Name: step.Name, Skipped: true, Detail: "skipped"})
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		start := time.Now()
		res := evaluate(step, step.Run(ctx, env))
		res.Duration = time.Since(start)
		report.Results = append(report.Results, res)

		if !res.Passed {
			failed = true
			r.log.Warn("scenario step failed",
				zap.String("scenario", sc.Name),
				zap.String("step", step.Name),
				zap.String("detail", res.Detail))
		}
	}
	report.Records = env.Backend.Records()
	return report, nil
}

func evaluate(step Step, err error) StepResult {
	res := StepResult{Name: step.Name}
	reason, reverted := chain.RevertReason(err)
	if reverted {
		res.Reason = reason
	}

	switch {
	case step.Revert == "" && err == nil:
		res.Passed = true
	case step.Revert == "":
		res.Detail = err.Error()
	case err == nil:
		res.Detail = fmt.Sprintf("expected revert %q, call succeeded", step.Revert)
	case !reverted:
		res.Detail = fmt.Sprintf("expected revert %q, got %v", step.Revert, err)
	case reason != step.Revert:
		res.Detail = fmt.Sprintf("reverted with %q, want %q", reason, step.Revert)
	default:
		res.Passed = true
		res.Detail = "reverted: " + reason
	}
	return res
}
