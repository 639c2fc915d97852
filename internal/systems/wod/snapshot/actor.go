package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/wodcombat/internal/core/coerce"
	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
)

// ErrTraitItemNotFound indicates an embedded trait item is missing.
var ErrTraitItemNotFound = apperrors.New(apperrors.CodeNotFound, "trait item not found")

// BuffTotal sums the active buffs of a kind for a trait id.
func (a Actor) BuffTotal(kind, trait string) int {
	trait = strings.TrimSpace(trait)
	if trait == "" {
		return 0
	}
	total := 0
	for _, buff := range a.Buffs {
		if buff.Kind == kind && buff.Trait == trait {
			total += coerce.Int(buff.Value, 0)
		}
	}
	return total
}

// WoundPenalty returns the penalty applied to this actor's rolls. Actors that
// ignore pain never take one.
func (a Actor) WoundPenalty() int {
	if a.IgnoresPain {
		return 0
	}
	return coerce.Int(a.Health.WoundPenalty, 0)
}

// LookupTrait returns an embedded trait item by id.
func (a Actor) LookupTrait(_ context.Context, id string) (TraitItem, error) {
	item, ok := a.Items[id]
	if !ok {
		return TraitItem{}, fmt.Errorf("%w: %s", ErrTraitItemNotFound, id)
	}
	if item.ID == "" {
		item.ID = id
	}
	return item, nil
}
