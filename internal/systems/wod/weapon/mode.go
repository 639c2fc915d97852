package weapon

import (
	"fmt"
	"strings"
)

// Mode is a ranged firing mode.
type Mode string

const (
	// ModeNone is the empty selection; it clears mode adjustments without
	// changing the selected mode.
	ModeNone     Mode = ""
	ModeSingle   Mode = "single"
	ModeBurst    Mode = "burst"
	ModeFullAuto Mode = "fullauto"
	ModeSpray    Mode = "spray"
)

// ModeEffect is the adjustment a firing mode applies.
type ModeEffect struct {
	// Bonus is added to the attack dice pool.
	Bonus int
	// Difficulty is added to the base difficulty.
	Difficulty int
	// Targets is the target count the mode resets to.
	Targets int
}

var modeTable = map[Mode]ModeEffect{
	ModeSingle:   {Bonus: 0, Difficulty: 0, Targets: 1},
	ModeBurst:    {Bonus: 3, Difficulty: 1, Targets: 1},
	ModeFullAuto: {Bonus: 10, Difficulty: 2, Targets: 1},
	ModeSpray:    {Bonus: 10, Difficulty: 2, Targets: 1},
}

// LookupMode returns the fixed effect of a firing mode.
func LookupMode(m Mode) (ModeEffect, bool) {
	effect, ok := modeTable[m]
	return effect, ok
}

// ParseMode maps a host mode key to a Mode.
func ParseMode(key string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(key)))
	if m == ModeNone {
		return ModeNone, nil
	}
	if _, ok := modeTable[m]; !ok {
		return ModeNone, fmt.Errorf("unknown firing mode %q", key)
	}
	return m, nil
}

// ModeSet lists the sustained-fire modes a weapon offers. Single fire is
// always available.
type ModeSet struct {
	Burst    bool
	FullAuto bool
	Spray    bool
}

// Offers reports whether the weapon can fire in m.
func (s ModeSet) Offers(m Mode) bool {
	switch m {
	case ModeNone, ModeSingle:
		return true
	case ModeBurst:
		return s.Burst
	case ModeFullAuto:
		return s.FullAuto
	case ModeSpray:
		return s.Spray
	default:
		return false
	}
}
