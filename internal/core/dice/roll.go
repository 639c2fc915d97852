package dice

import "math/rand"

// RollDice rolls every spec in request order from a source seeded with
// request.Seed. The same seed and specs always produce the same faces.
func RollDice(request Request) (Result, error) {
	return RollWithRng(rand.New(rand.NewSource(request.Seed)), request.Dice)
}

// RollWithRng rolls specs against rng. Each spec needs positive sides and
// count; an empty spec list is ErrMissingDice.
func RollWithRng(rng *rand.Rand, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}
	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Result{}, ErrInvalidDiceSpec
		}
	}

	result := Result{Rolls: make([]Roll, 0, len(specs))}
	for _, spec := range specs {
		roll := Roll{Sides: spec.Sides, Results: make([]int, spec.Count)}
		for i := range roll.Results {
			roll.Results[i] = rng.Intn(spec.Sides) + 1
			roll.Total += roll.Results[i]
		}
		result.Rolls = append(result.Rolls, roll)
		result.Total += roll.Total
	}
	return result, nil
}
