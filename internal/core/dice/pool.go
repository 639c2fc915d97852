package dice

import "github.com/louisbranch/wodcombat/internal/core/check"

// Pool dice are always ten-sided.
const PoolSides = 10

// Difficulty bounds for a pool roll. Difficulties outside the range are
// clamped before rolling.
const (
	MinDifficulty = 2
	MaxDifficulty = 10
)

// PoolRequest describes a success-counting d10 pool roll.
type PoolRequest struct {
	// Count is the dice pool before wound penalties.
	Count int
	// Difficulty is the face each die must meet or exceed.
	Difficulty int
	// WoundPenalty removes dice from the pool.
	WoundPenalty int
	// Speciality grants an extra success for each die exactly on the difficulty.
	Speciality bool
	// Willpower adds one automatic success that ones cannot cancel.
	Willpower bool
	Seed      int64
}

// PoolResult captures a pool roll.
type PoolResult struct {
	Dice       int
	Difficulty int
	Faces      []int
	// Successes counts dice at or above difficulty, including speciality extras.
	Successes int
	// Cancelled counts ones.
	Cancelled int
	// Net is the final success count after cancellation and willpower.
	Net   int
	Botch bool
}

// RollPool rolls a d10 pool and counts successes.
//
// Ones cancel successes one for one; a pool with no successes and at least one
// 1 is a botch unless willpower was spent. An empty pool (after wound
// penalties) rolls nothing and is not an error.
func RollPool(request PoolRequest) (PoolResult, error) {
	count := request.Count - request.WoundPenalty
	if count < 0 {
		count = 0
	}
	difficulty := clampDifficulty(request.Difficulty)

	result := PoolResult{Dice: count, Difficulty: difficulty, Faces: []int{}}
	if count > 0 {
		rolled, err := RollDice(Request{
			Dice: []Spec{{Sides: PoolSides, Count: count}},
			Seed: request.Seed,
		})
		if err != nil {
			return PoolResult{}, err
		}
		result.Faces = rolled.Rolls[0].Results
	}

	for _, face := range result.Faces {
		switch check.Die(face, difficulty) {
		case check.Success:
			result.Successes++
			if request.Speciality && face == difficulty {
				result.Successes++
			}
		case check.Cancel:
			result.Cancelled++
		}
	}

	net := result.Successes - result.Cancelled
	if net < 0 {
		net = 0
	}
	result.Botch = result.Successes == 0 && result.Cancelled > 0 && !request.Willpower
	if request.Willpower {
		net++
	}
	result.Net = net
	return result, nil
}

func clampDifficulty(difficulty int) int {
	if difficulty < MinDifficulty {
		return MinDifficulty
	}
	if difficulty > MaxDifficulty {
		return MaxDifficulty
	}
	return difficulty
}
