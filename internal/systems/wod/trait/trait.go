// Package trait resolves the actor traits that feed a dice pool.
//
// A weapon names its traits by id. The id is bound once to a variant from a
// closed set (attribute, ability, advantage, custom item) and each variant
// knows how to read its value, label and speciality from an actor snapshot.
package trait

import (
	"context"
	"strings"

	"github.com/louisbranch/wodcombat/internal/core/coerce"
	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
)

// Kind identifies a trait variant.
type Kind int

const (
	KindNone Kind = iota
	KindAttribute
	KindAbility
	KindAdvantage
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindAbility:
		return "ability"
	case KindAdvantage:
		return "advantage"
	case KindCustom:
		return "custom"
	default:
		return "none"
	}
}

// Willpower is the advantage id that gains composure/resolve specialities
// under 5th edition attributes.
const Willpower = "willpower"

const willpowerLabel = "wod.advantages.willpower"

// Lookup fetches embedded trait items from the document store.
type Lookup interface {
	LookupTrait(ctx context.Context, id string) (snapshot.TraitItem, error)
}

// Resolved is a trait read from an actor.
type Resolved struct {
	ID            string
	Kind          Kind
	Value         int
	Label         string
	HasSpeciality bool
	Speciality    string
	// Pending is set for a custom trait that has no item selected yet.
	Pending bool
}

// Trait is one variant of the closed trait set.
type Trait interface {
	ID() string
	Kind() Kind
	Resolve(ctx context.Context, actor snapshot.Actor, cfg rules.Config, lookup Lookup) (Resolved, error)
}

// Primary binds the first trait of a pool: an attribute when the actor has
// one by that id, otherwise an advantage, otherwise nothing.
func Primary(id string, actor snapshot.Actor) Trait {
	id = strings.TrimSpace(id)
	if _, ok := actor.Attributes[id]; ok && id != "" {
		return Attribute{id: id}
	}
	if _, ok := actor.Advantages[id]; ok && id != "" {
		return Advantage{id: id}
	}
	return None{id: id}
}

// Secondary binds the second trait of a pool: an ability when the actor has
// one by that id, a custom item when id is the custom marker, otherwise
// nothing.
func Secondary(id, itemID string, actor snapshot.Actor) Trait {
	id = strings.TrimSpace(id)
	if _, ok := actor.Abilities[id]; ok && id != "" {
		return Ability{id: id}
	}
	if id == snapshot.CustomAbility {
		return Custom{ItemID: strings.TrimSpace(itemID)}
	}
	return None{id: id}
}

// None is an id that matched nothing; it contributes no dice.
type None struct{ id string }

func (t None) ID() string { return t.id }
func (None) Kind() Kind   { return KindNone }

func (t None) Resolve(context.Context, snapshot.Actor, rules.Config, Lookup) (Resolved, error) {
	return Resolved{ID: t.id, Kind: KindNone}, nil
}

// Attribute reads the actor attribute table. Dice come from the total, the
// speciality threshold from the purchased value.
type Attribute struct{ id string }

func (t Attribute) ID() string { return t.id }
func (Attribute) Kind() Kind   { return KindAttribute }

func (t Attribute) Resolve(_ context.Context, actor snapshot.Actor, cfg rules.Config, _ Lookup) (Resolved, error) {
	attr := actor.Attributes[t.id]
	rating := coerce.Int(attr.Value, 0)
	out := Resolved{
		ID:    t.id,
		Kind:  KindAttribute,
		Value: coerce.Int(attr.Total, rating),
		Label: attr.Label,
	}
	if cfg.MeetsSpeciality(rating) {
		out.HasSpeciality = true
		out.Speciality = attr.Speciality
	}
	return out, nil
}

// Ability reads the actor ability table.
type Ability struct{ id string }

func (t Ability) ID() string { return t.id }
func (Ability) Kind() Kind   { return KindAbility }

func (t Ability) Resolve(_ context.Context, actor snapshot.Actor, cfg rules.Config, _ Lookup) (Resolved, error) {
	ability := actor.Abilities[t.id]
	value := coerce.Int(ability.Value, 0)
	out := Resolved{
		ID:    t.id,
		Kind:  KindAbility,
		Value: value,
		Label: ability.Label,
	}
	if ability.AltLabel != "" {
		out.Label = ability.AltLabel
	}
	abilityID := ability.ID
	if abilityID == "" {
		abilityID = t.id
	}
	if cfg.MeetsSpeciality(value) || cfg.AlwaysHasSpeciality(abilityID) {
		out.HasSpeciality = true
		out.Speciality = ability.Speciality
	}
	return out, nil
}

// Advantage reads a derived stat that is rolled directly.
type Advantage struct{ id string }

func (t Advantage) ID() string { return t.id }
func (Advantage) Kind() Kind   { return KindAdvantage }

func (t Advantage) Resolve(_ context.Context, actor snapshot.Actor, cfg rules.Config, _ Lookup) (Resolved, error) {
	advantage := actor.Advantages[t.id]
	out := Resolved{
		ID:    t.id,
		Kind:  KindAdvantage,
		Value: coerce.Int(advantage.Roll, 0),
		Label: advantage.Label,
	}
	if !cfg.FifthEditionAttributes() || (t.id != Willpower && advantage.Label != willpowerLabel) {
		return out, nil
	}

	// 5th edition willpower rolls borrow the composure and resolve specialities.
	var texts []string
	if composure, ok := actor.Attributes["composure"]; ok && cfg.MeetsSpeciality(coerce.Int(composure.Value, 0)) {
		out.HasSpeciality = true
		texts = append(texts, composure.Speciality)
	}
	if resolve, ok := actor.Attributes["resolve"]; ok && cfg.MeetsSpeciality(coerce.Int(resolve.Value, 0)) && resolve.Speciality != "" {
		out.HasSpeciality = true
		texts = append(texts, resolve.Speciality)
	}
	out.Speciality = JoinSpecialities(texts...)
	return out, nil
}

// Custom reads a user-chosen embedded item through the document store.
type Custom struct{ ItemID string }

func (t Custom) ID() string { return snapshot.CustomAbility }
func (Custom) Kind() Kind   { return KindCustom }

func (t Custom) Resolve(ctx context.Context, _ snapshot.Actor, cfg rules.Config, lookup Lookup) (Resolved, error) {
	out := Resolved{ID: snapshot.CustomAbility, Kind: KindCustom}
	if t.ItemID == "" {
		out.Pending = true
		return out, nil
	}
	if lookup == nil {
		return Resolved{}, apperrors.New(apperrors.CodeProfileTraitLookup, "custom trait requires a lookup")
	}
	item, err := lookup.LookupTrait(ctx, t.ItemID)
	if err != nil {
		return Resolved{}, apperrors.WrapWithMetadata(
			apperrors.CodeProfileTraitLookup,
			"lookup custom trait",
			map[string]string{"ItemID": t.ItemID},
			err,
		)
	}
	out.Value = coerce.Int(item.Value, 0)
	out.Label = item.Label
	if cfg.MeetsSpeciality(out.Value) {
		out.HasSpeciality = true
		out.Speciality = item.Speciality
	}
	return out, nil
}

// JoinSpecialities joins the non-empty speciality texts with ", ".
func JoinSpecialities(texts ...string) string {
	parts := make([]string, 0, len(texts))
	for _, text := range texts {
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, ", ")
}
