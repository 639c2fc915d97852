package weapon

// Allocation is how spray-fire damage dice land on targets.
type Allocation struct {
	// Requested is the number of targets the attacker aimed at.
	Requested int
	// Hit is the number of targets actually hit.
	Hit int
	// Dice holds the damage dice per hit target, in target order.
	Dice []int
	// Shortfall is set when fewer targets were hit than requested.
	Shortfall bool
}

// AllocateSpray spreads attack successes across spray targets.
//
// Each hit target costs one success, and that success is also a damage die,
// so every hit target starts at baseDice+1. Successes left over after paying
// for the hits are dealt one at a time round-robin from the first target.
// Requesting more targets than there are successes is not an error: only as
// many targets as successes are hit and Shortfall is set.
func AllocateSpray(baseDice, successes, requested int) Allocation {
	requested = max(1, requested)
	successes = max(0, successes)

	hit := min(requested, successes)
	out := Allocation{
		Requested: requested,
		Hit:       hit,
		Dice:      make([]int, hit),
		Shortfall: hit < requested,
	}
	for i := range out.Dice {
		out.Dice[i] = baseDice + 1
	}

	remaining := successes - hit
	for i := 0; remaining > 0; i = (i + 1) % hit {
		out.Dice[i]++
		remaining--
	}
	return out
}

// Total returns the damage dice across all targets.
func (a Allocation) Total() int {
	total := 0
	for _, dice := range a.Dice {
		total += dice
	}
	return total
}
