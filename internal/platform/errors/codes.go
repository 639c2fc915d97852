// Package errors provides structured error handling with localized messages.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Profile errors
	CodeProfileUnknownCategory Code = "PROFILE_UNKNOWN_CATEGORY"
	CodeProfileModeUnavailable Code = "PROFILE_MODE_UNAVAILABLE"
	CodeProfileTraitLookup     Code = "PROFILE_TRAIT_LOOKUP"

	// Roll errors
	CodeRollMissingDifficulty Code = "ROLL_MISSING_DIFFICULTY"
	CodeRollRandomizer        Code = "ROLL_RANDOMIZER"

	// Dice/mechanics errors
	CodeDiceMissing     Code = "DICE_MISSING"
	CodeDiceInvalidSpec Code = "DICE_INVALID_SPEC"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// MessageKey returns the catalog key used to render the code for users.
func (c Code) MessageKey() string {
	return "errors." + string(c)
}
