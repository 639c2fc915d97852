// Package scenario wires the scenario command: it runs Lua combat scripts
// against the roll engine and optionally journals every roll to SQLite.
package scenario

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"time"

	platformcmd "github.com/louisbranch/wodcombat/internal/platform/cmd"
	"github.com/louisbranch/wodcombat/internal/storage/sqlite"
	"github.com/louisbranch/wodcombat/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string        `env:"WODCOMBAT_SCENARIO_FILE"`
	Assertions bool          `env:"WODCOMBAT_SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool          `env:"WODCOMBAT_SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"WODCOMBAT_SCENARIO_TIMEOUT" envDefault:"10s"`
	// DBPath journals scenario rolls to a SQLite file when set.
	DBPath string `env:"WODCOMBAT_DB_PATH"`
}

// ParseConfig parses env and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Scenario, "scenario", "", "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", true, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "timeout per step")
	fs.StringVar(&cfg.DBPath, "db", "", "sqlite file to journal rolls into")
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	logger := log.New(errOut, "", 0)
	runCfg := scenario.Config{
		Timeout:    cfg.Timeout,
		Assertions: mode,
		Verbose:    cfg.Verbose,
		Logger:     logger,
	}
	if cfg.DBPath != "" {
		store, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Printf("close journal: %v", err)
			}
		}()
		runCfg.Journal = store
		runCfg.Store = store
	}

	if err := scenario.RunFile(ctx, runCfg, cfg.Scenario); err != nil {
		return err
	}
	_, _ = io.WriteString(out, "scenario passed\n")
	return nil
}
