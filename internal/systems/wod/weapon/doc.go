// Package weapon contains the combat dice-pool rules for weapons.
//
// A Profile is built once from an item and actor snapshot and then adjusted
// through its methods (firing mode, difficulty step, speciality, willpower,
// targets). Compose turns a profile into a RollRequest; after an attack roll,
// DeriveDamage builds the follow-up damage profile and AllocateSpray spreads
// sustained-fire damage across several targets.
//
// Profiles are plain values. Every roll stage works on its own Profile; a
// damage profile never aliases the attack profile it came from.
package weapon
