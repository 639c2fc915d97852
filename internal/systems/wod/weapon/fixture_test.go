package weapon

import (
	"context"
	"testing"

	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
)

func testActor() snapshot.Actor {
	return snapshot.Actor{
		ID:   "actor-1",
		Name: "Nines",
		Attributes: map[string]snapshot.Attribute{
			"dexterity": {Label: "Dexterity", Value: 4, Total: 4, Speciality: "Quick draw"},
			"strength":  {Label: "Strength", Value: 3, Total: "3"},
		},
		Abilities: map[string]snapshot.Ability{
			"firearms": {ID: "firearms", Label: "Firearms", Value: 3},
			"melee":    {ID: "melee", Label: "Melee", Value: "2"},
		},
		Health: snapshot.Health{WoundPenalty: 2},
		Items: map[string]snapshot.TraitItem{
			"lore-1": {Label: "Occult", Value: 5, Speciality: "Rituals"},
			"lore-2": {Label: "Streetwise", Value: 1},
		},
	}
}

func rangedItem() snapshot.Item {
	return snapshot.Item{
		ID:       "smg-1",
		Name:     "Ingram MAC-10",
		Category: snapshot.CategoryRanged,
		Attack: snapshot.Attack{
			Attribute: "dexterity",
			Ability:   "firearms",
			Accuracy:  "1",
			Rollable:  true,
		},
		Damage: snapshot.Damage{
			Attribute: "",
			Bonus:     4,
			Type:      "lethal",
			Rollable:  true,
		},
		Mode:       snapshot.ModeFlags{Burst: true, FullAuto: true, Spray: true},
		Difficulty: 6,
	}
}

func meleeItem() snapshot.Item {
	return snapshot.Item{
		ID:       "knife-1",
		Name:     "Knife",
		Category: snapshot.CategoryMelee,
		Attack: snapshot.Attack{
			Attribute: "dexterity",
			Ability:   "melee",
			Rollable:  true,
		},
		Damage: snapshot.Damage{
			Attribute: "strength",
			Bonus:     1,
			Type:      "lethal",
			Rollable:  true,
		},
		Mode:       snapshot.ModeFlags{Burst: true},
		Difficulty: "4",
	}
}

func mustProfile(t *testing.T, item snapshot.Item, actor snapshot.Actor, cfg rules.Config) Profile {
	t.Helper()
	p, err := NewProfile(context.Background(), item, actor, cfg, actor)
	if err != nil {
		t.Fatalf("NewProfile() error = %v", err)
	}
	return p
}

// assertDerived checks the invariants every profile holds after a mutation.
func assertDerived(t *testing.T, p Profile) {
	t.Helper()
	if want := p.BaseDifficulty + p.ModeDifficulty - p.SpecialityReduction; p.Difficulty != want {
		t.Fatalf("Difficulty = %d, want %d", p.Difficulty, want)
	}
	if p.CanRoll != (p.Difficulty > -1) {
		t.Fatalf("CanRoll = %v with difficulty %d", p.CanRoll, p.Difficulty)
	}
	if p.TargetCount < 1 {
		t.Fatalf("TargetCount = %d", p.TargetCount)
	}
	if p.ExtraSuccesses < 0 {
		t.Fatalf("ExtraSuccesses = %d", p.ExtraSuccesses)
	}
}
