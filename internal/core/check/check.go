package check

// MeetsDifficulty returns true if face >= difficulty.
// A die showing at least the difficulty counts as a success.
func MeetsDifficulty(face, difficulty int) bool {
	return face >= difficulty
}

// Outcome classifies a single die against a difficulty.
type Outcome int

const (
	// Failure is a die that neither succeeds nor cancels.
	Failure Outcome = iota
	// Success is a die at or above the difficulty.
	Success
	// Cancel is a die showing 1; it removes one success from the pool.
	Cancel
)

// Die classifies one face. Ones always cancel, even when the difficulty is
// low enough that a 1 would otherwise meet it.
func Die(face, difficulty int) Outcome {
	if face == 1 {
		return Cancel
	}
	if MeetsDifficulty(face, difficulty) {
		return Success
	}
	return Failure
}
