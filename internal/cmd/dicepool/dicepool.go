// Package dicepool wires the dicepool command: it loads a weapon and actor
// snapshot, applies the roll options a player would pick and prints the
// localized attack and damage results.
package dicepool

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	platformcmd "github.com/louisbranch/wodcombat/internal/platform/cmd"
	"github.com/louisbranch/wodcombat/internal/platform/i18n/catalog"
	"github.com/louisbranch/wodcombat/internal/random"
	"github.com/louisbranch/wodcombat/internal/storage"
	"github.com/louisbranch/wodcombat/internal/storage/sqlite"
	"github.com/louisbranch/wodcombat/internal/systems/wod/roll"
	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
	"github.com/louisbranch/wodcombat/internal/systems/wod/weapon"
)

// Config holds dicepool command configuration.
type Config struct {
	Snapshot   string `env:"WODCOMBAT_DICEPOOL_SNAPSHOT"`
	Mode       string `env:"WODCOMBAT_DICEPOOL_MODE"`
	Targets    int    `env:"WODCOMBAT_DICEPOOL_TARGETS" envDefault:"1"`
	Difficulty int
	Bonus      int
	Speciality bool
	Willpower  bool
	Secondary  string
	// Seed replays a roll when non-zero.
	Seed     int64  `env:"WODCOMBAT_DICEPOOL_SEED"`
	FollowUp bool   `env:"WODCOMBAT_DICEPOOL_FOLLOW_UP" envDefault:"true"`
	Locale   string `env:"WODCOMBAT_LOCALE" envDefault:"en-US"`
	DBPath   string `env:"WODCOMBAT_DB_PATH"`
	Verbose  bool   `env:"WODCOMBAT_DICEPOOL_VERBOSE"`

	// History lists journaled rolls instead of rolling; EntryID shows one.
	// Both read the database at DBPath.
	History  bool
	EntryID  string
	PageSize int

	// DifficultySet and BonusSet record whether the flags were given; an
	// unset flag leaves the weapon's own value alone.
	DifficultySet bool
	BonusSet      bool
}

// ParseConfig parses env and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Snapshot, "snapshot", "", "path to a YAML or JSON item and actor snapshot")
	fs.StringVar(&cfg.Mode, "mode", "", "firing mode: single, burst, fullauto or spray")
	fs.IntVar(&cfg.Targets, "targets", 1, "spray targets")
	fs.IntVar(&cfg.Difficulty, "difficulty", 0, "base difficulty override")
	fs.IntVar(&cfg.Bonus, "bonus", 0, "dice bonus override")
	fs.BoolVar(&cfg.Speciality, "speciality", false, "use the speciality")
	fs.BoolVar(&cfg.Willpower, "willpower", false, "spend willpower")
	fs.StringVar(&cfg.Secondary, "secondary", "", "embedded item id for a custom secondary trait")
	fs.Int64Var(&cfg.Seed, "seed", 0, "dice seed (0 picks one)")
	fs.BoolVar(&cfg.FollowUp, "follow-up", true, "roll damage after a hit")
	fs.StringVar(&cfg.Locale, "locale", "en-US", "output locale")
	fs.StringVar(&cfg.DBPath, "db", "", "sqlite file to journal rolls into")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "log each roll")
	fs.BoolVar(&cfg.History, "history", false, "list journaled rolls for the snapshot's actor and item")
	fs.StringVar(&cfg.EntryID, "entry", "", "show one journaled roll by id")
	fs.IntVar(&cfg.PageSize, "page-size", 0, "journal rows read per page")
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "difficulty":
			cfg.DifficultySet = true
		case "bonus":
			cfg.BonusSet = true
		}
	})
	return cfg, nil
}

// Run executes the dicepool command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.History || cfg.EntryID != "" {
		return runJournal(ctx, cfg, out, errOut)
	}
	if cfg.Snapshot == "" {
		return errors.New("snapshot path is required")
	}

	doc, err := snapshot.LoadFile(cfg.Snapshot)
	if err != nil {
		return err
	}
	ruleset, err := rules.FromEnv()
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	loc, err := localizer(cfg.Locale)
	if err != nil {
		return err
	}

	logger := log.New(errOut, "", 0)
	invokerCfg := roll.Config{
		Rules:      ruleset,
		Randomizer: roll.DiceRandomizer{Seed: random.SeedOr(cfg.Seed)},
	}
	if cfg.Verbose {
		invokerCfg.Logger = logger
	}

	var store *sqlite.Store
	if cfg.DBPath != "" {
		store, err = sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Printf("close journal: %v", err)
			}
		}()
		invokerCfg.Store = store
		invokerCfg.Journal = store
	}

	secondary, err := secondaryChoice(ctx, cfg, store, doc.Item.ID)
	if err != nil {
		return err
	}

	profile, err := weapon.NewProfile(ctx, doc.Item, doc.Actor, ruleset, doc.Actor)
	if err != nil {
		return localize(loc, err)
	}
	if err := applyOptions(ctx, &profile, cfg, secondary, doc.Actor, ruleset); err != nil {
		return localize(loc, err)
	}

	invoker := roll.NewInvoker(invokerCfg)
	var results []roll.Resolution
	if cfg.FollowUp {
		results, err = invoker.Resolve(ctx, &profile, doc.Item, doc.Actor)
	} else {
		var res roll.Resolution
		res, err = invoker.Invoke(ctx, &profile, doc.Item, doc.Actor)
		results = []roll.Resolution{res}
	}
	if err != nil {
		return localize(loc, err)
	}

	render(out, loc, results, cfg.FollowUp)
	return nil
}

func localizer(locale string) (*catalog.Localizer, error) {
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	if err := bundle.Register(); err != nil {
		return nil, err
	}
	return bundle.Localizer(locale), nil
}

// secondaryChoice prefers the flag and falls back to the selection saved by
// an earlier roll of the same item.
func secondaryChoice(ctx context.Context, cfg Config, store *sqlite.Store, itemID string) (string, error) {
	if cfg.Secondary != "" || store == nil {
		return cfg.Secondary, nil
	}
	saved, err := store.SecondaryTrait(ctx, itemID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return saved, err
}

func applyOptions(ctx context.Context, p *weapon.Profile, cfg Config, secondary string, actor snapshot.Actor, ruleset rules.Config) error {
	if cfg.Mode != "" {
		mode, err := weapon.ParseMode(cfg.Mode)
		if err != nil {
			return err
		}
		if err := p.SelectMode(mode); err != nil {
			return err
		}
	}
	if p.Mode == weapon.ModeSpray {
		p.SetTargetCount(cfg.Targets)
	}
	if cfg.DifficultySet {
		p.SetDifficulty(cfg.Difficulty)
	}
	if secondary != "" {
		if err := p.SelectSecondaryTrait(ctx, secondary, actor, ruleset, actor); err != nil {
			return err
		}
	}
	if cfg.Speciality {
		p.SetSpeciality(true, ruleset)
	}
	if cfg.Willpower {
		p.SetWillpower(true)
	}
	if cfg.BonusSet {
		p.SetBonus(cfg.Bonus)
	}
	return nil
}

func render(out io.Writer, loc *catalog.Localizer, results []roll.Resolution, followUp bool) {
	for _, res := range results {
		if res.Skipped {
			line(out, loc.Text("roll.skipped"))
			continue
		}
		req := res.Request
		if req.Origin == weapon.OriginDamage {
			line(out, loc.Text("roll.damage", req.Action, req.DamageType, poolSize(req), req.Difficulty))
		} else {
			line(out, loc.Text("roll.attack", req.Action, req.DiceCount, req.Difficulty))
		}
		if len(req.DiceText) > 0 {
			line(out, loc.Text("roll.dice_text", strings.Join(req.DiceText, " + ")))
		}
		if req.WoundPenalty > 0 {
			line(out, loc.Text("roll.wound_penalty", req.WoundPenalty))
		}
		if req.Speciality && req.SpecialityText != "" {
			line(out, loc.Text("weapon.speciality", req.SpecialityText))
		}
		if req.Willpower {
			line(out, loc.Text("weapon.willpower"))
		}
		for _, notice := range req.Notices {
			line(out, loc.Text(notice.Key, notice.Args...))
		}
		if len(res.Outcome.Faces) > 0 {
			line(out, loc.Text("roll.faces", res.Outcome.Faces))
		}
		for _, target := range res.Outcome.Targets {
			line(out, loc.Text("roll.target", target.Index+1, target.Dice, target.Successes))
		}
		line(out, loc.Text("roll.successes", res.Outcome.Successes))
		if res.Outcome.Botch {
			line(out, loc.Text("roll.botch"))
		}
	}
	if followUp && len(results) == 1 && !results[0].Skipped && results[0].Request.Origin == weapon.OriginAttack {
		line(out, loc.Text("roll.no_damage"))
	}
}

// poolSize is the dice rolled by a request; spray damage spreads them across
// targets.
func poolSize(req weapon.RollRequest) int {
	if req.Allocation != nil {
		return req.Allocation.Total()
	}
	return req.DiceCount
}

func line(out io.Writer, text string) {
	_, _ = fmt.Fprintln(out, text)
}

// localizedError shows the catalog message while keeping the cause for
// errors.Is and errors.As.
type localizedError struct {
	text string
	err  error
}

func (e *localizedError) Error() string { return e.text }
func (e *localizedError) Unwrap() error { return e.err }

func localize(loc *catalog.Localizer, err error) error {
	return &localizedError{text: loc.Error(err), err: err}
}
