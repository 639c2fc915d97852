package weapon

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/wodcombat/internal/core/coerce"
	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
	"github.com/louisbranch/wodcombat/internal/systems/wod/trait"
)

// Category is the kind of roll a profile makes.
type Category string

const (
	CategoryMelee  Category = "melee"
	CategoryRanged Category = "ranged"
	CategoryDamage Category = "damage"
)

// DamageDifficulty is the nominal difficulty of every damage profile.
const DamageDifficulty = 6

// NoDifficulty is the difficulty read from an item without one; it blocks rolling.
const NoDifficulty = -1

// ErrUnknownCategory indicates an item that is neither melee nor ranged.
var ErrUnknownCategory = apperrors.New(apperrors.CodeProfileUnknownCategory, "item is not a melee or ranged weapon")

// Profile is everything needed to roll one weapon action.
type Profile struct {
	ItemID      string
	Name        string
	Category    Category
	Description string
	DamageType  string

	Primary         trait.Trait
	Secondary       trait.Trait
	PrimaryValue    int
	SecondaryValue  int
	PrimaryLabel    string
	SecondaryLabel  string
	SecondaryItemID string

	// Accuracy is the weapon's own attack bonus. Damage profiles store the
	// listed damage bonus here.
	Accuracy int
	// Bonus is the dice bonus rolled with the pool: Accuracy plus the mode
	// bonus, unless the user overrides it.
	Bonus int

	BaseDifficulty int
	ModeDifficulty int
	Difficulty     int

	Mode        Mode
	ModeBonus   int
	Modes       ModeSet
	TargetCount int

	SpecialityAvailable      bool
	SpecialityText           string
	UseSpeciality            bool
	ReducedDifficultyApplied bool
	// SpecialityReduction is the amount subtracted while the reduction is applied.
	SpecialityReduction int

	UseWillpower bool

	// ExtraSuccesses are attack successes carried into a damage profile.
	ExtraSuccesses int

	RollAttack bool
	RollDamage bool

	CanRoll      bool
	PendingClose bool
}

// NewProfile builds an attack profile for a melee or ranged item.
func NewProfile(ctx context.Context, item snapshot.Item, actor snapshot.Actor, cfg rules.Config, lookup trait.Lookup) (Profile, error) {
	var category Category
	switch strings.ToLower(strings.TrimSpace(item.Category)) {
	case snapshot.CategoryMelee:
		category = CategoryMelee
	case snapshot.CategoryRanged:
		category = CategoryRanged
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownCategory, item.Category)
	}

	accuracy := coerce.Int(item.Attack.Accuracy, 0)
	difficulty := coerce.Int(item.Difficulty, NoDifficulty)
	p := Profile{
		ItemID:         item.ID,
		Name:           item.Name,
		Category:       category,
		Description:    item.Description,
		DamageType:     item.Damage.Type,
		Primary:        trait.Primary(item.Attack.Attribute, actor),
		Secondary:      trait.Secondary(item.Attack.Ability, item.Attack.SecondaryAbilityID, actor),
		Accuracy:       accuracy,
		Bonus:          accuracy,
		BaseDifficulty: difficulty,
		Mode:           ModeSingle,
		TargetCount:    1,
		RollAttack:     item.Attack.Rollable,
		RollDamage:     item.Damage.Rollable,
	}
	if category == CategoryRanged {
		p.Modes = ModeSet{
			Burst:    item.Mode.Burst,
			FullAuto: item.Mode.FullAuto,
			Spray:    item.Mode.Spray,
		}
	}
	if custom, ok := p.Secondary.(trait.Custom); ok {
		p.SecondaryItemID = custom.ItemID
	}

	if err := p.resolveTraits(ctx, actor, cfg, lookup); err != nil {
		return Profile{}, err
	}
	p.recompute()
	return p, nil
}

// NewDamageProfile builds the damage profile for an item. Attack results
// arrive through the item's carryover.
func NewDamageProfile(ctx context.Context, item snapshot.Item, actor snapshot.Actor, cfg rules.Config, lookup trait.Lookup) (Profile, error) {
	bonus := coerce.Int(item.Damage.Bonus, 0)
	p := Profile{
		ItemID:         item.ID,
		Name:           item.Name,
		Category:       CategoryDamage,
		DamageType:     item.Damage.Type,
		Primary:        trait.Primary(item.Damage.Attribute, actor),
		Accuracy:       bonus,
		Bonus:          bonus,
		BaseDifficulty: DamageDifficulty,
		Mode:           ModeSingle,
		TargetCount:    1,
		RollDamage:     item.Damage.Rollable,
	}
	if c := item.Carryover; c != nil {
		p.ExtraSuccesses = coerce.NonNegative(c.ExtraSuccesses, 0)
		if Mode(strings.ToLower(strings.TrimSpace(c.ModeName))) == ModeSpray {
			p.Mode = ModeSpray
			p.TargetCount = max(1, coerce.Int(c.NumberOfTargets, 1))
		}
	}

	if err := p.resolveTraits(ctx, actor, cfg, lookup); err != nil {
		return Profile{}, err
	}
	// Damage rolls never use a speciality.
	p.SpecialityAvailable = false
	p.SpecialityText = ""
	p.recompute()
	return p, nil
}

func (p *Profile) resolveTraits(ctx context.Context, actor snapshot.Actor, cfg rules.Config, lookup trait.Lookup) error {
	var primary, secondary trait.Resolved
	if p.Primary != nil {
		resolved, err := p.Primary.Resolve(ctx, actor, cfg, lookup)
		if err != nil {
			return fmt.Errorf("resolve primary trait: %w", err)
		}
		primary = resolved
		primary.Value += actor.BuffTotal(snapshot.BuffAttribute, p.Primary.ID())
	}
	if p.Secondary != nil {
		resolved, err := p.Secondary.Resolve(ctx, actor, cfg, lookup)
		if err != nil {
			return fmt.Errorf("resolve secondary trait: %w", err)
		}
		secondary = resolved
		secondary.Value += actor.BuffTotal(snapshot.BuffAbility, p.Secondary.ID())
	}

	p.PrimaryValue = max(0, primary.Value)
	p.PrimaryLabel = primary.Label
	p.SecondaryValue = max(0, secondary.Value)
	p.SecondaryLabel = secondary.Label
	p.SpecialityAvailable = primary.HasSpeciality || secondary.HasSpeciality

	var texts []string
	if primary.HasSpeciality {
		texts = append(texts, primary.Speciality)
	}
	if secondary.HasSpeciality {
		texts = append(texts, secondary.Speciality)
	}
	p.SpecialityText = trait.JoinSpecialities(texts...)
	return nil
}

// recompute restores the derived fields after any adjustment.
func (p *Profile) recompute() {
	if p.Category == CategoryDamage {
		p.BaseDifficulty = DamageDifficulty
		p.ModeDifficulty = 0
		p.SpecialityReduction = 0
		p.ReducedDifficultyApplied = false
	}
	if p.TargetCount < 1 {
		p.TargetCount = 1
	}
	if p.ExtraSuccesses < 0 {
		p.ExtraSuccesses = 0
	}
	p.Difficulty = p.BaseDifficulty + p.ModeDifficulty - p.SpecialityReduction
	p.CanRoll = p.Difficulty > -1
}

// IsAttack reports whether the profile rolls to hit.
func (p Profile) IsAttack() bool {
	return p.Category == CategoryMelee || p.Category == CategoryRanged
}
