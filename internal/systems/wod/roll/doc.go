// Package roll hands composed weapon profiles to a dice randomizer.
//
// An Invoker closes the profile it is given, composes the roll request,
// calls the Randomizer, records the result in a Journal and, for a hit with a
// damage component, derives the damage profile that follows. Each roll runs
// inside an OpenTelemetry span.
package roll
