// Package snapshot defines the read-only views of host documents that feed a
// combat roll: the weapon item and the acting character.
//
// Numeric fields are typed as any because the host store does not guarantee
// their shape; consumers read them through internal/core/coerce.
package snapshot

// Item categories as stored by the host.
const (
	CategoryMelee  = "melee"
	CategoryRanged = "ranged"
)

// CustomAbility marks an attack whose secondary trait is a user-chosen item.
const CustomAbility = "custom"

// Item is a weapon item snapshot.
type Item struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Category    string     `json:"category" yaml:"category"`
	Attack      Attack     `json:"attack" yaml:"attack"`
	Damage      Damage     `json:"damage" yaml:"damage"`
	Mode        ModeFlags  `json:"mode" yaml:"mode"`
	Difficulty  any        `json:"difficulty" yaml:"difficulty"`
	Description string     `json:"description" yaml:"description"`
	Carryover   *Carryover `json:"carryover,omitempty" yaml:"carryover,omitempty"`
}

// Attack describes the attack roll of a weapon.
type Attack struct {
	Attribute          string `json:"attribute" yaml:"attribute"`
	Ability            string `json:"ability" yaml:"ability"`
	SecondaryAbilityID string `json:"secondary_ability_id" yaml:"secondary_ability_id"`
	Accuracy           any    `json:"accuracy" yaml:"accuracy"`
	Rollable           bool   `json:"rollable" yaml:"rollable"`
}

// Damage describes the damage roll of a weapon.
type Damage struct {
	Attribute string `json:"attribute" yaml:"attribute"`
	Bonus     any    `json:"bonus" yaml:"bonus"`
	Type      string `json:"type" yaml:"type"`
	Rollable  bool   `json:"rollable" yaml:"rollable"`
}

// ModeFlags lists the sustained-fire modes a ranged weapon offers.
type ModeFlags struct {
	Burst    bool `json:"burst" yaml:"burst"`
	FullAuto bool `json:"fullauto" yaml:"fullauto"`
	Spray    bool `json:"spray" yaml:"spray"`
}

// Carryover is attached to an item when a successful attack hands over to
// its damage roll.
type Carryover struct {
	ExtraSuccesses  any    `json:"extra_successes" yaml:"extra_successes"`
	ModeName        string `json:"mode_name" yaml:"mode_name"`
	NumberOfTargets any    `json:"number_of_targets" yaml:"number_of_targets"`
}

// WithCarryover returns a copy of the item carrying attack results.
func (i Item) WithCarryover(c Carryover) Item {
	i.Carryover = &c
	return i
}

// Actor is a character snapshot.
type Actor struct {
	ID          string               `json:"id" yaml:"id"`
	Name        string               `json:"name" yaml:"name"`
	Type        string               `json:"type" yaml:"type"`
	Attributes  map[string]Attribute `json:"attributes" yaml:"attributes"`
	Abilities   map[string]Ability   `json:"abilities" yaml:"abilities"`
	Advantages  map[string]Advantage `json:"advantages" yaml:"advantages"`
	Health      Health               `json:"health" yaml:"health"`
	IgnoresPain bool                 `json:"ignores_pain" yaml:"ignores_pain"`
	Buffs       []Buff               `json:"buffs" yaml:"buffs"`
	Items       map[string]TraitItem `json:"items" yaml:"items"`
}

// Attribute is one attribute rating. Value is the purchased rating used for
// speciality checks; Total includes permanent modifiers and feeds the pool.
type Attribute struct {
	Label      string `json:"label" yaml:"label"`
	Value      any    `json:"value" yaml:"value"`
	Total      any    `json:"total" yaml:"total"`
	Speciality string `json:"speciality" yaml:"speciality"`
}

// Ability is one ability rating.
type Ability struct {
	ID         string `json:"id" yaml:"id"`
	Label      string `json:"label" yaml:"label"`
	AltLabel   string `json:"alt_label" yaml:"alt_label"`
	Value      any    `json:"value" yaml:"value"`
	Speciality string `json:"speciality" yaml:"speciality"`
}

// Advantage is a derived stat rolled directly, such as willpower.
type Advantage struct {
	Label string `json:"label" yaml:"label"`
	Roll  any    `json:"roll" yaml:"roll"`
}

// Health holds the injury state relevant to rolls.
type Health struct {
	WoundPenalty any `json:"wound_penalty" yaml:"wound_penalty"`
}

// Buff kinds.
const (
	BuffAttribute = "attribute"
	BuffAbility   = "ability"
)

// Buff is an active numeric bonus keyed by trait id.
type Buff struct {
	Kind  string `json:"kind" yaml:"kind"`
	Trait string `json:"trait" yaml:"trait"`
	Value any    `json:"value" yaml:"value"`
}

// TraitItem is an embedded item acting as a custom secondary trait.
type TraitItem struct {
	ID         string `json:"id" yaml:"id"`
	Label      string `json:"label" yaml:"label"`
	Value      any    `json:"value" yaml:"value"`
	Speciality string `json:"speciality" yaml:"speciality"`
}
