package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/wodcombat/internal/random"
	"github.com/louisbranch/wodcombat/internal/systems/wod/roll"
	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
	"github.com/louisbranch/wodcombat/internal/systems/wod/weapon"
)

func (r *Runner) runRulesStep(state *scenarioState, step Step) error {
	cfg, err := rules.FromMap(rulesVars(step.Args))
	if err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	state.rules = cfg
	return nil
}

func (r *Runner) runActorStep(state *scenarioState, step Step) error {
	var actor snapshot.Actor
	if err := decodeArgs(step.Args, &actor); err != nil {
		return err
	}
	if actor.ID == "" {
		return errors.New("actor id is required")
	}
	state.actors[actor.ID] = actor
	state.lastActorID = actor.ID
	return nil
}

func (r *Runner) runWeaponStep(state *scenarioState, step Step) error {
	// Scripts describe weapons that roll unless they say otherwise.
	item := snapshot.Item{
		Attack: snapshot.Attack{Rollable: true},
		Damage: snapshot.Damage{Rollable: true},
	}
	if err := decodeArgs(step.Args, &item); err != nil {
		return err
	}
	if item.ID == "" {
		return errors.New("weapon id is required")
	}
	state.weapons[item.ID] = item
	state.lastWeaponID = item.ID
	return nil
}

// subjects returns the actor and weapon named by the step, defaulting to the
// most recently declared ones.
func (s *scenarioState) subjects(args map[string]any) (snapshot.Actor, snapshot.Item, error) {
	actorID := readString(args, "actor")
	if actorID == "" {
		actorID = s.lastActorID
	}
	actor, ok := s.actors[actorID]
	if !ok {
		return snapshot.Actor{}, snapshot.Item{}, fmt.Errorf("unknown actor %q", actorID)
	}
	weaponID := readString(args, "weapon")
	if weaponID == "" {
		weaponID = s.lastWeaponID
	}
	item, ok := s.weapons[weaponID]
	if !ok {
		return snapshot.Actor{}, snapshot.Item{}, fmt.Errorf("unknown weapon %q", weaponID)
	}
	return actor, item, nil
}

func (r *Runner) runAttackStep(ctx context.Context, state *scenarioState, step Step) error {
	actor, item, err := state.subjects(step.Args)
	if err != nil {
		return err
	}
	randomizer, err := stepRandomizer(step.Args)
	if err != nil {
		return err
	}

	profile, err := weapon.NewProfile(ctx, item, actor, state.rules, actor)
	if err != nil {
		return r.expectError(step.Args, err)
	}
	if err := applyAttackOptions(ctx, &profile, step.Args, actor, state.rules); err != nil {
		return r.expectError(step.Args, err)
	}

	results, err := r.newInvoker(state, randomizer).Resolve(ctx, &profile, item, actor)
	if err != nil {
		return r.expectError(step.Args, err)
	}
	if err := r.expectNoErrorCode(step.Args); err != nil {
		return err
	}
	return r.checkAttack(readExpect(step.Args), results)
}

func (r *Runner) runDamageStep(ctx context.Context, state *scenarioState, step Step) error {
	actor, item, err := state.subjects(step.Args)
	if err != nil {
		return err
	}
	randomizer, err := stepRandomizer(step.Args)
	if err != nil {
		return err
	}

	extra, _, err := readInt(step.Args, "extra")
	if err != nil {
		return err
	}
	targets, hasTargets, err := readInt(step.Args, "targets")
	if err != nil {
		return err
	}
	if !hasTargets {
		targets = 1
	}
	carried := item.WithCarryover(snapshot.Carryover{
		ExtraSuccesses:  extra,
		ModeName:        readString(step.Args, "mode"),
		NumberOfTargets: targets,
	})

	profile, err := weapon.NewDamageProfile(ctx, carried, actor, state.rules, actor)
	if err != nil {
		return r.expectError(step.Args, err)
	}
	if willpower, ok := readBool(step.Args, "willpower"); ok {
		profile.SetWillpower(willpower)
	}

	res, err := r.newInvoker(state, randomizer).Invoke(ctx, &profile, carried, actor)
	if err != nil {
		return r.expectError(step.Args, err)
	}
	if err := r.expectNoErrorCode(step.Args); err != nil {
		return err
	}
	return r.checkRoll(readExpect(step.Args), "", res)
}

// applyAttackOptions applies step options in the order a player would: mode
// first, because selecting a mode resets the target count.
func applyAttackOptions(ctx context.Context, p *weapon.Profile, args map[string]any, actor snapshot.Actor, cfg rules.Config) error {
	if key := readString(args, "mode"); key != "" {
		mode, err := weapon.ParseMode(key)
		if err != nil {
			return err
		}
		if err := p.SelectMode(mode); err != nil {
			return err
		}
	}
	if targets, ok, err := readInt(args, "targets"); err != nil {
		return err
	} else if ok {
		p.SetTargetCount(targets)
	}
	if difficulty, ok, err := readInt(args, "difficulty"); err != nil {
		return err
	} else if ok {
		p.SetDifficulty(difficulty)
	}
	if secondary := readString(args, "secondary"); secondary != "" {
		if err := p.SelectSecondaryTrait(ctx, secondary, actor, cfg, actor); err != nil {
			return err
		}
	}
	if speciality, ok := readBool(args, "speciality"); ok {
		p.SetSpeciality(speciality, cfg)
	}
	if willpower, ok := readBool(args, "willpower"); ok {
		p.SetWillpower(willpower)
	}
	if bonus, ok, err := readInt(args, "bonus"); err != nil {
		return err
	} else if ok {
		p.SetBonus(bonus)
	}
	return nil
}

func (r *Runner) newInvoker(state *scenarioState, randomizer roll.Randomizer) *roll.Invoker {
	logger := r.logger
	if !r.verbose {
		logger = nil
	}
	return roll.NewInvoker(roll.Config{
		Randomizer: randomizer,
		Rules:      state.rules,
		Store:      r.store,
		Journal:    r.journal,
		Logger:     logger,
	})
}

// stepRandomizer scripts the dice when the step names its successes and
// otherwise rolls real dice, seeded when the step gives a seed.
func stepRandomizer(args map[string]any) (roll.Randomizer, error) {
	attack, scripted, err := readInt(args, "successes")
	if err != nil {
		return nil, err
	}
	damage, scriptedDamage, err := readIntList(args, "damage_successes")
	if err != nil {
		return nil, err
	}
	if scripted || scriptedDamage {
		botch, _ := readBool(args, "botch")
		return scriptedRandomizer(attack, damage, botch), nil
	}

	seed, seeded, err := readInt(args, "seed")
	if err != nil {
		return nil, err
	}
	if !seeded {
		return roll.DiceRandomizer{}, nil
	}
	return roll.DiceRandomizer{Seed: random.Fixed(int64(seed))}, nil
}

// scriptedRandomizer reports fixed results. Attack rolls get attack
// successes. A single-target damage roll gets damage[0]; a multi-target roll
// gets damage[i] per target, zero when the list runs out.
func scriptedRandomizer(attack int, damage []int, botch bool) roll.Randomizer {
	return roll.RandomizerFunc(func(_ context.Context, req weapon.RollRequest) (roll.Outcome, error) {
		if req.Origin == weapon.OriginAttack {
			return roll.Outcome{Successes: attack, Botch: botch && attack <= 0}, nil
		}
		if !req.MultiTarget() {
			if len(damage) == 0 {
				return roll.Outcome{}, nil
			}
			return roll.Outcome{Successes: damage[0]}, nil
		}
		out := roll.Outcome{Targets: make([]roll.TargetOutcome, len(req.Targets))}
		for i, dice := range req.Targets {
			successes := 0
			if i < len(damage) {
				successes = damage[i]
			}
			out.Targets[i] = roll.TargetOutcome{Index: i, Dice: dice, Successes: successes}
			out.Successes += successes
		}
		return out, nil
	})
}

func (r *Runner) checkAttack(expect map[string]any, results []roll.Resolution) error {
	if len(results) == 0 {
		return errors.New("attack produced no rolls")
	}
	attack := results[0]
	r.logf("attack: dice=%d difficulty=%d successes=%d", attack.Request.DiceCount, attack.Request.Difficulty, attack.Outcome.Successes)
	if err := r.checkRoll(expect, "", attack); err != nil {
		return err
	}
	if err := r.expectBool(expect, "hit", attack.FollowUp != nil); err != nil {
		return err
	}
	if len(results) < 2 {
		for _, key := range []string{"damage_dice", "damage_targets", "damage_difficulty"} {
			if _, ok := expect[key]; ok {
				return r.assertions.Failf("%s expected but the attack produced no damage roll", key)
			}
		}
		return nil
	}
	damage := results[1]
	r.logf("damage: dice=%d targets=%v successes=%d", damage.Request.DiceCount, damage.Request.Targets, damage.Outcome.Successes)
	return r.checkRoll(expect, "damage_", damage)
}

// checkRoll compares one resolution against expect keys carrying prefix.
func (r *Runner) checkRoll(expect map[string]any, prefix string, res roll.Resolution) error {
	req := res.Request
	var notices []string
	for _, notice := range req.Notices {
		notices = append(notices, notice.Key)
	}
	shortfall := req.Allocation != nil && req.Allocation.Shortfall

	checks := []func() error{
		func() error { return r.expectInt(expect, prefix+"dice", req.DiceCount) },
		func() error { return r.expectInt(expect, prefix+"difficulty", req.Difficulty) },
		func() error { return r.expectInt(expect, prefix+"bonus", req.Bonus) },
		func() error { return r.expectInt(expect, prefix+"successes", res.Outcome.Successes) },
		func() error { return r.expectBool(expect, prefix+"botch", res.Outcome.Botch) },
		func() error { return r.expectBool(expect, prefix+"speciality", req.Speciality) },
		func() error { return r.expectInts(expect, prefix+"targets", req.Targets) },
		func() error { return r.expectBool(expect, prefix+"shortfall", shortfall) },
		func() error { return r.expectStrings(expect, prefix+"notices", notices) },
		func() error { return r.expectStrings(expect, prefix+"dice_text", req.DiceText) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
