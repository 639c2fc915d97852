package roll

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
	"github.com/louisbranch/wodcombat/internal/systems/wod/weapon"
)

// ErrMissingDifficulty is returned for a profile whose difficulty blocks rolling.
var ErrMissingDifficulty = apperrors.New(apperrors.CodeRollMissingDifficulty, "roll difficulty is missing")

// Randomizer rolls composed requests.
type Randomizer interface {
	Roll(ctx context.Context, req weapon.RollRequest) (Outcome, error)
}

// RandomizerFunc adapts a function to Randomizer.
type RandomizerFunc func(ctx context.Context, req weapon.RollRequest) (Outcome, error)

// Roll calls f.
func (f RandomizerFunc) Roll(ctx context.Context, req weapon.RollRequest) (Outcome, error) {
	return f(ctx, req)
}

// Outcome is what the randomizer reports back.
type Outcome struct {
	// Successes is the net success count. For multi-target rolls it is the
	// sum across targets.
	Successes int
	Botch     bool
	Faces     []int
	Seed      int64
	// Targets holds per-target results of a multi-target roll, in target order.
	Targets []TargetOutcome
}

// TargetOutcome is one target's share of a multi-target roll.
type TargetOutcome struct {
	Index     int
	Dice      int
	Successes int
	Botch     bool
	Faces     []int
}

// TargetSuccesses returns the per-target success counts.
func (o Outcome) TargetSuccesses() []int {
	if len(o.Targets) == 0 {
		return nil
	}
	out := make([]int, len(o.Targets))
	for i, target := range o.Targets {
		out[i] = target.Successes
	}
	return out
}

// Store persists user selections back to the item document.
type Store interface {
	SaveSecondaryTrait(ctx context.Context, itemID, secondaryItemID string) error
}

// Journal records completed rolls.
type Journal interface {
	Record(ctx context.Context, entry Entry) error
}

// Entry is one journaled roll.
type Entry struct {
	ID         string
	ActorID    string
	ItemID     string
	Action     string
	Origin     weapon.Origin
	Mode       weapon.Mode
	DiceCount  int
	Difficulty int
	Successes  int
	Botch      bool
	Seed       int64
	// TargetDice and TargetSuccesses are set for multi-target rolls.
	TargetDice      []int
	TargetSuccesses []int
	RecordedAt      time.Time
}
