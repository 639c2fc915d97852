package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/wodcombat/internal/platform/timeouts"
	"github.com/louisbranch/wodcombat/internal/systems/wod/roll"
	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
)

// Config controls scenario execution.
type Config struct {
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	// Journal and Store are handed to every invoker the runner builds.
	Journal roll.Journal
	Store   roll.Store
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
	}
}

// Runner executes Lua scenarios against the combat roll engine.
type Runner struct {
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
	journal    roll.Journal
	store      roll.Store
}

// NewRunner prepares a scenario runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}
	return &Runner{
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
		journal:    cfg.Journal,
		store:      cfg.Store,
	}
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return NewRunner(cfg).RunScenario(ctx, scenario)
}

// scenarioState is what earlier steps leave behind for later ones.
type scenarioState struct {
	rules        rules.Config
	actors       map[string]snapshot.Actor
	weapons      map[string]snapshot.Item
	lastActorID  string
	lastWeaponID string
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{
		rules:   rules.Default(),
		actors:  map[string]snapshot.Actor{},
		weapons: map[string]snapshot.Item{},
	}

	for index, step := range scenario.Steps {
		r.logf("step %d start: %s", index+1, step.Kind)
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", index+1, step.Kind, err)
		}
		r.logf("step %d done: %s", index+1, step.Kind)
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "rules":
		return r.runRulesStep(state, step)
	case "actor":
		return r.runActorStep(state, step)
	case "weapon":
		return r.runWeaponStep(state, step)
	case "attack":
		return r.runAttackStep(ctx, state, step)
	case "damage":
		return r.runDamageStep(ctx, state, step)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose {
		return
	}
	r.logger.Printf(format, args...)
}
