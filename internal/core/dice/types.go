package dice

import apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"

var (
	// ErrMissingDice indicates a request carried no dice specs.
	ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one die spec is required")
	// ErrInvalidDiceSpec indicates a spec with non-positive sides or count.
	ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice spec requires positive sides and count")
)

// Spec describes a group of identical dice.
type Spec struct {
	Sides int
	Count int
}

// Request describes a seeded roll of one or more dice groups.
type Request struct {
	Dice []Spec
	Seed int64
}

// Roll holds the faces rolled for one Spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Result holds every Roll of a Request.
type Result struct {
	Rolls []Roll
	Total int
}
