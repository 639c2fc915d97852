package weapon

import (
	"context"

	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
	"github.com/louisbranch/wodcombat/internal/systems/wod/trait"
)

// ExtraSuccesses returns the attack successes that carry into damage.
// Ranged attacks add every success as a damage die; melee adds none.
func ExtraSuccesses(category Category, successes int) int {
	if category != CategoryRanged {
		return 0
	}
	return max(0, successes)
}

// DeriveDamage builds the damage profile that follows a successful attack.
// It reports false when the attack missed or the item has no damage roll.
// The attack profile is not modified.
func DeriveDamage(ctx context.Context, attack Profile, successes int, item snapshot.Item, actor snapshot.Actor, cfg rules.Config, lookup trait.Lookup) (Profile, bool, error) {
	if successes <= 0 || !attack.RollDamage || !attack.IsAttack() {
		return Profile{}, false, nil
	}

	mode := attack.Mode
	targets := attack.TargetCount
	if mode != ModeSpray {
		targets = 1
	}
	carried := item.WithCarryover(snapshot.Carryover{
		ExtraSuccesses:  ExtraSuccesses(attack.Category, successes),
		ModeName:        string(mode),
		NumberOfTargets: targets,
	})

	damage, err := NewDamageProfile(ctx, carried, actor, cfg, lookup)
	if err != nil {
		return Profile{}, false, err
	}
	damage.UseWillpower = false
	return damage, true, nil
}
