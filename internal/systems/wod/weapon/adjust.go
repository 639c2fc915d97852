package weapon

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
	"github.com/louisbranch/wodcombat/internal/systems/wod/trait"
)

// ErrModeUnavailable indicates a firing mode the profile cannot use.
var ErrModeUnavailable = apperrors.New(apperrors.CodeProfileModeUnavailable, "firing mode is not available")

// SelectMode applies a firing mode. Difficulty and bonus are recomputed from
// the base values in one step and the target count resets to one. ModeNone
// clears the mode adjustments but keeps the current selection.
//
// Only ranged attacks choose a mode; melee and damage profiles always fire
// single and reject every selection.
func (p *Profile) SelectMode(m Mode) error {
	if p.Category != CategoryRanged || !p.Modes.Offers(m) {
		return apperrors.WithMetadata(
			apperrors.CodeProfileModeUnavailable,
			fmt.Sprintf("firing mode %q is not available for %s", m, p.Category),
			map[string]string{"Mode": string(m), "Category": string(p.Category)},
		)
	}

	if m == ModeNone {
		p.ModeBonus = 0
		p.ModeDifficulty = 0
		p.Bonus = p.Accuracy
		p.recompute()
		return nil
	}

	effect, _ := LookupMode(m)
	p.Mode = m
	p.ModeBonus = effect.Bonus
	p.ModeDifficulty = effect.Difficulty
	p.TargetCount = effect.Targets
	p.Bonus = p.Accuracy + effect.Bonus
	p.recompute()
	return nil
}

// SetDifficulty sets the base difficulty step. The mode penalty and any
// speciality reduction still apply on top. A negative step leaves the profile
// unable to roll.
func (p *Profile) SetDifficulty(step int) {
	if p.Category == CategoryDamage {
		return
	}
	p.BaseDifficulty = step
	p.recompute()
}

// SetTargetCount sets how many targets a spray attack aims at.
func (p *Profile) SetTargetCount(n int) {
	p.TargetCount = max(1, n)
	p.recompute()
}

// SetSpeciality toggles speciality use. When the ruleset lets specialities
// lower difficulty, turning it on subtracts the reduction once and turning it
// off restores exactly what was subtracted. Turning it on is ignored when
// neither trait has a speciality.
func (p *Profile) SetSpeciality(use bool, cfg rules.Config) {
	if p.Category == CategoryDamage {
		return
	}
	if use && !p.SpecialityAvailable {
		return
	}
	p.UseSpeciality = use
	switch {
	case use && cfg.SpecialityReducesDifficulty && !p.ReducedDifficultyApplied:
		p.SpecialityReduction = cfg.SpecialityDifficultyReduction
		p.ReducedDifficultyApplied = true
	case !use && p.ReducedDifficultyApplied:
		p.SpecialityReduction = 0
		p.ReducedDifficultyApplied = false
	}
	p.recompute()
}

// SetWillpower toggles spending willpower on the roll.
func (p *Profile) SetWillpower(use bool) {
	p.UseWillpower = use
	p.recompute()
}

// SetBonus overrides the dice bonus.
func (p *Profile) SetBonus(bonus int) {
	p.Bonus = bonus
	p.recompute()
}

// SelectSecondaryTrait binds a custom secondary trait to an embedded item and
// re-resolves the pool values.
func (p *Profile) SelectSecondaryTrait(ctx context.Context, itemID string, actor snapshot.Actor, cfg rules.Config, lookup trait.Lookup) error {
	if itemID == "" {
		return nil
	}
	if _, ok := p.Secondary.(trait.Custom); !ok {
		return apperrors.New(apperrors.CodeProfileTraitLookup, "secondary trait is not selectable")
	}

	previous := p.Secondary
	p.Secondary = trait.Custom{ItemID: itemID}
	if err := p.resolveTraits(ctx, actor, cfg, lookup); err != nil {
		p.Secondary = previous
		return err
	}
	p.SecondaryItemID = itemID
	if !p.SpecialityAvailable && p.UseSpeciality {
		p.SetSpeciality(false, cfg)
	}
	p.recompute()
	return nil
}

// Close marks the profile finished; it will not be rolled again.
func (p *Profile) Close() {
	p.PendingClose = true
}
