package roll

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
	"github.com/louisbranch/wodcombat/internal/platform/id"
	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
	"github.com/louisbranch/wodcombat/internal/systems/wod/trait"
	"github.com/louisbranch/wodcombat/internal/systems/wod/weapon"
)

const tracerName = "wodcombat/roll"

// Config wires an Invoker.
type Config struct {
	// Randomizer defaults to DiceRandomizer.
	Randomizer Randomizer
	Rules      rules.Config
	// Store and Journal are optional.
	Store   Store
	Journal Journal
	Logger  *log.Logger
	// Tracer defaults to the global provider's tracer.
	Tracer trace.Tracer
	// Clock defaults to time.Now.
	Clock func() time.Time
	// NewID defaults to id.NewID.
	NewID func() (string, error)
}

// Invoker rolls weapon profiles.
type Invoker struct {
	randomizer Randomizer
	rules      rules.Config
	store      Store
	journal    Journal
	logger     *log.Logger
	tracer     trace.Tracer
	clock      func() time.Time
	newID      func() (string, error)
}

// Resolution is the result of one invocation.
type Resolution struct {
	// Skipped is set when the profile had already been rolled.
	Skipped bool
	Request weapon.RollRequest
	Outcome Outcome
	Entry   Entry
	// FollowUp is the damage profile that follows a hit.
	FollowUp *weapon.Profile
}

// NewInvoker builds an Invoker from cfg.
func NewInvoker(cfg Config) *Invoker {
	inv := &Invoker{
		randomizer: cfg.Randomizer,
		rules:      cfg.Rules,
		store:      cfg.Store,
		journal:    cfg.Journal,
		logger:     cfg.Logger,
		tracer:     cfg.Tracer,
		clock:      cfg.Clock,
		newID:      cfg.NewID,
	}
	if inv.randomizer == nil {
		inv.randomizer = DiceRandomizer{}
	}
	if inv.tracer == nil {
		inv.tracer = otel.Tracer(tracerName)
	}
	if inv.clock == nil {
		inv.clock = time.Now
	}
	if inv.newID == nil {
		inv.newID = id.NewID
	}
	return inv
}

// Invoke rolls a profile once. The profile is marked closed before the
// randomizer is called; a closed profile is skipped. Rollability is read from
// the difficulty at call time, and a profile below zero is left open and
// returns ErrMissingDifficulty.
func (i *Invoker) Invoke(ctx context.Context, p *weapon.Profile, item snapshot.Item, actor snapshot.Actor) (Resolution, error) {
	if p == nil {
		return Resolution{}, fmt.Errorf("profile is required")
	}
	if p.PendingClose {
		return Resolution{Skipped: true}, nil
	}
	p.CanRoll = p.Difficulty > -1
	if !p.CanRoll {
		return Resolution{}, apperrors.WithMetadata(
			apperrors.CodeRollMissingDifficulty,
			ErrMissingDifficulty.Message,
			map[string]string{"ItemID": p.ItemID, "Difficulty": fmt.Sprint(p.Difficulty)},
		)
	}
	p.Close()

	req := weapon.Compose(*p, actor, i.rules)

	ctx, span := i.tracer.Start(ctx, "wod.roll.invoke", trace.WithAttributes(
		attribute.String("wod.item_id", p.ItemID),
		attribute.String("wod.origin", string(req.Origin)),
		attribute.String("wod.mode", string(p.Mode)),
		attribute.Int("wod.dice", req.DiceCount),
		attribute.Int("wod.difficulty", req.Difficulty),
		attribute.Int("wod.targets", len(req.Targets)),
	))
	defer span.End()

	if p.IsAttack() && p.RollAttack {
		if err := i.saveSecondary(ctx, *p); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "save secondary trait")
			return Resolution{}, err
		}
	}

	outcome, err := i.randomizer.Roll(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "roll")
		return Resolution{}, apperrors.Wrap(apperrors.CodeRollRandomizer, "roll dice", err)
	}
	span.SetAttributes(
		attribute.Int("wod.successes", outcome.Successes),
		attribute.Bool("wod.botch", outcome.Botch),
	)

	res := Resolution{Request: req, Outcome: outcome}
	entry, err := i.record(ctx, *p, actor, req, outcome)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "journal")
		return Resolution{}, err
	}
	res.Entry = entry
	i.logf("roll %s %s: dice=%d difficulty=%d successes=%d botch=%t",
		req.Origin, p.Name, req.DiceCount, req.Difficulty, outcome.Successes, outcome.Botch)

	if p.IsAttack() && p.RollAttack {
		damage, ok, err := weapon.DeriveDamage(ctx, *p, outcome.Successes, item, actor, i.rules, actor)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "derive damage")
			return Resolution{}, fmt.Errorf("derive damage: %w", err)
		}
		if ok {
			res.FollowUp = &damage
		}
	}
	return res, nil
}

// Resolve invokes an attack and, on a hit, its follow-up damage roll.
func (i *Invoker) Resolve(ctx context.Context, p *weapon.Profile, item snapshot.Item, actor snapshot.Actor) ([]Resolution, error) {
	attack, err := i.Invoke(ctx, p, item, actor)
	if err != nil {
		return nil, err
	}
	out := []Resolution{attack}
	if attack.FollowUp == nil {
		return out, nil
	}
	damage, err := i.Invoke(ctx, attack.FollowUp, item, actor)
	if err != nil {
		return out, fmt.Errorf("damage roll: %w", err)
	}
	return append(out, damage), nil
}

func (i *Invoker) saveSecondary(ctx context.Context, p weapon.Profile) error {
	if i.store == nil || p.SecondaryItemID == "" {
		return nil
	}
	if _, ok := p.Secondary.(trait.Custom); !ok {
		return nil
	}
	if err := i.store.SaveSecondaryTrait(ctx, p.ItemID, p.SecondaryItemID); err != nil {
		return fmt.Errorf("save secondary trait: %w", err)
	}
	return nil
}

func (i *Invoker) record(ctx context.Context, p weapon.Profile, actor snapshot.Actor, req weapon.RollRequest, outcome Outcome) (Entry, error) {
	entry := Entry{
		ActorID:         actor.ID,
		ItemID:          p.ItemID,
		Action:          p.Name,
		Origin:          req.Origin,
		Mode:            p.Mode,
		DiceCount:       req.DiceCount,
		Difficulty:      req.Difficulty,
		Successes:       outcome.Successes,
		Botch:           outcome.Botch,
		Seed:            outcome.Seed,
		TargetDice:      req.Targets,
		TargetSuccesses: outcome.TargetSuccesses(),
		RecordedAt:      i.clock().UTC(),
	}
	if i.journal == nil {
		return entry, nil
	}
	entryID, err := i.newID()
	if err != nil {
		return Entry{}, err
	}
	entry.ID = entryID
	if err := i.journal.Record(ctx, entry); err != nil {
		return Entry{}, fmt.Errorf("record roll: %w", err)
	}
	return entry, nil
}

func (i *Invoker) logf(format string, args ...any) {
	if i.logger == nil {
		return
	}
	i.logger.Printf(format, args...)
}
