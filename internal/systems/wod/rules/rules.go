// Package rules holds the table-level switches that shape combat rolls.
//
// A Config is threaded explicitly into every profile adjustment and roll
// invocation that needs it; nothing in the engine reads it from process-wide
// state.
package rules

import (
	"slices"
	"strings"

	"github.com/louisbranch/wodcombat/internal/platform/config"
)

// Attribute settings editions.
const (
	AttributeSettings20th = "20th"
	AttributeSettings5th  = "5th"
)

// Config holds ruleset configuration.
type Config struct {
	// SpecialityLevel is the trait rating at which a speciality becomes usable.
	SpecialityLevel int `env:"WODCOMBAT_SPECIALITY_LEVEL" envDefault:"4"`
	// SpecialityReducesDifficulty enables the optional rule where using a
	// speciality lowers the roll difficulty.
	SpecialityReducesDifficulty bool `env:"WODCOMBAT_SPECIALITY_REDUCES_DIFFICULTY" envDefault:"false"`
	// SpecialityDifficultyReduction is the amount subtracted by that rule.
	SpecialityDifficultyReduction int `env:"WODCOMBAT_SPECIALITY_DIFFICULTY_REDUCTION" envDefault:"1"`
	// DamageWoundPenalty applies wound penalties to damage rolls as well.
	DamageWoundPenalty bool `env:"WODCOMBAT_DAMAGE_WOUND_PENALTY" envDefault:"false"`
	// AlwaysSpeciality lists ability ids that grant a speciality at any rating.
	AlwaysSpeciality []string `env:"WODCOMBAT_ALWAYS_SPECIALITY" envSeparator:","`
	// AttributeSettings selects the attribute edition ("20th" or "5th").
	AttributeSettings string `env:"WODCOMBAT_ATTRIBUTE_SETTINGS" envDefault:"20th"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		SpecialityLevel:               4,
		SpecialityDifficultyReduction: 1,
		AttributeSettings:             AttributeSettings20th,
	}
}

// FromEnv loads a Config from environment variables over the defaults.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromMap loads a Config from an explicit variable map over the defaults.
func FromMap(vars map[string]string) (Config, error) {
	cfg := Default()
	if err := config.ParseEnvMap(&cfg, vars); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MeetsSpeciality reports whether a trait rating unlocks its speciality.
func (c Config) MeetsSpeciality(rating int) bool {
	return rating >= c.SpecialityLevel
}

// AlwaysHasSpeciality reports whether an ability id is whitelisted.
func (c Config) AlwaysHasSpeciality(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	return slices.Contains(c.AlwaysSpeciality, id)
}

// FifthEditionAttributes reports whether the 5th edition attribute set is active.
func (c Config) FifthEditionAttributes() bool {
	return strings.EqualFold(strings.TrimSpace(c.AttributeSettings), AttributeSettings5th)
}
