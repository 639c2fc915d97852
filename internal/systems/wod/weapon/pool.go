package weapon

import (
	"fmt"
	"strconv"

	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
)

// Origin tells the randomizer which kind of roll it is making.
type Origin string

const (
	OriginAttack Origin = "attack"
	OriginDamage Origin = "damage"
)

// Notice keys attached to roll requests.
const (
	NoticeUsingBurst    = "weapon.using_burst"
	NoticeUsingFullAuto = "weapon.using_fullauto"
	NoticeUsingSpray    = "weapon.using_spray"
	// NoticeSprayResult takes (requested targets, targets hit).
	NoticeSprayResult = "weapon.spray_result"
)

// Notice is a message key with positional arguments.
type Notice struct {
	Key  string
	Args []any
}

// RollRequest is a fully composed roll handed to the randomizer.
type RollRequest struct {
	Origin     Origin
	ItemID     string
	Action     string
	Category   Category
	DiceCount  int
	Difficulty int
	// DiceText labels what makes up the pool.
	DiceText       []string
	DamageType     string
	WoundPenalty   int
	Bonus          int
	Speciality     bool
	SpecialityText string
	Willpower      bool
	Description    string
	Notices        []Notice
	// Targets holds per-target dice for a multi-target spray damage roll.
	// DiceCount is zero when Targets is set.
	Targets    []int
	Allocation *Allocation
}

// MultiTarget reports whether the request rolls once per target.
func (r RollRequest) MultiTarget() bool {
	return len(r.Targets) > 0 || r.Allocation != nil
}

// AttackPool is the attack dice: both traits plus the bonus, which already
// includes the firing-mode bonus.
func AttackPool(p Profile) int {
	return p.PrimaryValue + p.SecondaryValue + p.Bonus
}

// BaseDamageDice is the damage every target takes before attack successes.
func BaseDamageDice(p Profile) int {
	return p.PrimaryValue + p.SecondaryValue + p.Bonus
}

// DamagePool is the single-target damage dice, including carried successes.
func DamagePool(p Profile) int {
	return BaseDamageDice(p) + p.ExtraSuccesses
}

// Pool returns the dice count for the profile's own roll.
func Pool(p Profile) int {
	if p.Category == CategoryDamage {
		return DamagePool(p)
	}
	return AttackPool(p)
}

// SprayDamage reports whether the profile resolves damage per target.
func SprayDamage(p Profile) bool {
	return p.Category == CategoryDamage && p.Mode == ModeSpray && p.TargetCount > 1
}

// Compose packages a profile into a roll request.
func Compose(p Profile, actor snapshot.Actor, cfg rules.Config) RollRequest {
	req := RollRequest{
		ItemID:     p.ItemID,
		Action:     p.Name,
		Category:   p.Category,
		Difficulty: p.Difficulty,
		Bonus:      p.Bonus,
		Willpower:  p.UseWillpower,
	}

	if p.Category == CategoryDamage {
		req.Origin = OriginDamage
		req.DamageType = p.DamageType
		if p.PrimaryLabel != "" {
			req.DiceText = append(req.DiceText, fmt.Sprintf("%s (%d)", p.PrimaryLabel, p.PrimaryValue))
		}
		if p.Bonus != 0 {
			req.DiceText = append(req.DiceText, strconv.Itoa(p.Bonus))
		}
		if p.ExtraSuccesses > 0 && !SprayDamage(p) {
			req.DiceText = append(req.DiceText, strconv.Itoa(p.ExtraSuccesses))
		}
		if cfg.DamageWoundPenalty {
			req.WoundPenalty = actor.WoundPenalty()
		}

		if SprayDamage(p) {
			allocation := AllocateSpray(BaseDamageDice(p), p.ExtraSuccesses, p.TargetCount)
			req.Allocation = &allocation
			req.Targets = append([]int(nil), allocation.Dice...)
			req.Notices = append(req.Notices, Notice{
				Key:  NoticeSprayResult,
				Args: []any{allocation.Requested, allocation.Hit},
			})
			return req
		}
		req.DiceCount = DamagePool(p)
		return req
	}

	req.Origin = OriginAttack
	req.DiceText = append(req.DiceText, fmt.Sprintf("%s (%d)", p.PrimaryLabel, p.PrimaryValue))
	if p.SecondaryLabel != "" {
		req.DiceText = append(req.DiceText, fmt.Sprintf("%s (%d)", p.SecondaryLabel, p.SecondaryValue))
	}
	switch p.Mode {
	case ModeBurst:
		req.Notices = append(req.Notices, Notice{Key: NoticeUsingBurst})
	case ModeFullAuto:
		req.Notices = append(req.Notices, Notice{Key: NoticeUsingFullAuto})
	case ModeSpray:
		req.Notices = append(req.Notices, Notice{Key: NoticeUsingSpray})
	}
	req.WoundPenalty = actor.WoundPenalty()
	req.Description = p.Description
	req.Speciality = p.UseSpeciality
	if p.UseSpeciality {
		req.SpecialityText = p.SpecialityText
	}
	req.DiceCount = AttackPool(p)
	return req
}
