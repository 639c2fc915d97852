package roll

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/wodcombat/internal/core/dice"
	"github.com/louisbranch/wodcombat/internal/random"
	"github.com/louisbranch/wodcombat/internal/systems/wod/weapon"
)

// DiceRandomizer rolls d10 success pools.
//
// Multi-target requests roll every target concurrently; target i uses the
// request seed plus i so a seeded roll replays exactly.
type DiceRandomizer struct {
	// Seed supplies the base seed. Defaults to random.NewSeed.
	Seed random.Source
}

// Roll implements Randomizer.
func (r DiceRandomizer) Roll(ctx context.Context, req weapon.RollRequest) (Outcome, error) {
	seedFn := r.Seed
	if seedFn == nil {
		seedFn = random.NewSeed
	}
	seed, err := seedFn()
	if err != nil {
		return Outcome{}, err
	}

	if !req.MultiTarget() {
		result, err := dice.RollPool(poolRequest(req, req.DiceCount, seed))
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Successes: result.Net,
			Botch:     result.Botch,
			Faces:     result.Faces,
			Seed:      seed,
		}, nil
	}

	targets := make([]TargetOutcome, len(req.Targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, count := range req.Targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := dice.RollPool(poolRequest(req, count, seed+int64(i)))
			if err != nil {
				return err
			}
			targets[i] = TargetOutcome{
				Index:     i,
				Dice:      result.Dice,
				Successes: result.Net,
				Botch:     result.Botch,
				Faces:     result.Faces,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Seed: seed, Targets: targets}
	for _, target := range targets {
		out.Successes += target.Successes
	}
	return out, nil
}

func poolRequest(req weapon.RollRequest, count int, seed int64) dice.PoolRequest {
	return dice.PoolRequest{
		Count:        count,
		Difficulty:   req.Difficulty,
		WoundPenalty: req.WoundPenalty,
		Speciality:   req.Speciality,
		Willpower:    req.Willpower,
		Seed:         seed,
	}
}
