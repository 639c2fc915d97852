package roll

import (
	"bytes"
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
	"github.com/louisbranch/wodcombat/internal/systems/wod/rules"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
	"github.com/louisbranch/wodcombat/internal/systems/wod/weapon"
)

type fakeRandomizer struct {
	requests  []weapon.RollRequest
	successes []int
	err       error
}

func (f *fakeRandomizer) Roll(_ context.Context, req weapon.RollRequest) (Outcome, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return Outcome{}, f.err
	}
	if len(req.Targets) > 0 {
		out := Outcome{}
		for i, dice := range req.Targets {
			out.Targets = append(out.Targets, TargetOutcome{Index: i, Dice: dice, Successes: 1})
			out.Successes++
		}
		return out, nil
	}
	n := 0
	if len(f.successes) > 0 {
		n, f.successes = f.successes[0], f.successes[1:]
	}
	return Outcome{Successes: n}, nil
}

type fakeStore struct {
	saved map[string]string
}

func (f *fakeStore) SaveSecondaryTrait(_ context.Context, itemID, secondaryItemID string) error {
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[itemID] = secondaryItemID
	return nil
}

type fakeJournal struct {
	entries []Entry
	err     error
}

func (f *fakeJournal) Record(_ context.Context, entry Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func testActor() snapshot.Actor {
	return snapshot.Actor{
		ID: "actor-1",
		Attributes: map[string]snapshot.Attribute{
			"dexterity": {Label: "Dexterity", Value: 3, Total: 3},
		},
		Abilities: map[string]snapshot.Ability{
			"firearms": {ID: "firearms", Label: "Firearms", Value: 2},
		},
		Items: map[string]snapshot.TraitItem{
			"lore-1": {Label: "Occult", Value: 2},
		},
	}
}

func testItem() snapshot.Item {
	return snapshot.Item{
		ID:         "rifle-1",
		Name:       "Rifle",
		Category:   snapshot.CategoryRanged,
		Attack:     snapshot.Attack{Attribute: "dexterity", Ability: "firearms", Accuracy: 1, Rollable: true},
		Damage:     snapshot.Damage{Bonus: 5, Type: "lethal", Rollable: true},
		Mode:       snapshot.ModeFlags{Spray: true},
		Difficulty: 6,
	}
}

func newProfile(t *testing.T, item snapshot.Item, actor snapshot.Actor) *weapon.Profile {
	t.Helper()
	p, err := weapon.NewProfile(context.Background(), item, actor, rules.Default(), actor)
	if err != nil {
		t.Fatalf("NewProfile() error = %v", err)
	}
	return &p
}

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func fixedID() (string, error) { return "entry-1", nil }

func TestInvokeAttackDerivesDamage(t *testing.T) {
	randomizer := &fakeRandomizer{successes: []int{3}}
	journal := &fakeJournal{}
	var logs bytes.Buffer
	inv := NewInvoker(Config{
		Randomizer: randomizer,
		Rules:      rules.Default(),
		Journal:    journal,
		Logger:     log.New(&logs, "", 0),
		Clock:      fixedClock,
		NewID:      fixedID,
	})

	p := newProfile(t, testItem(), testActor())
	res, err := inv.Invoke(context.Background(), p, testItem(), testActor())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !p.PendingClose {
		t.Fatal("profile not closed")
	}
	if res.Request.DiceCount != 6 || res.Outcome.Successes != 3 {
		t.Fatalf("dice/successes = %d/%d", res.Request.DiceCount, res.Outcome.Successes)
	}
	if res.FollowUp == nil {
		t.Fatal("expected damage follow-up")
	}
	if res.FollowUp.ExtraSuccesses != 3 || res.FollowUp.Category != weapon.CategoryDamage {
		t.Fatalf("follow-up = %+v", res.FollowUp)
	}
	if len(journal.entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(journal.entries))
	}
	entry := journal.entries[0]
	if entry.ID != "entry-1" || entry.ActorID != "actor-1" || entry.Successes != 3 || !entry.RecordedAt.Equal(fixedClock()) {
		t.Fatalf("entry = %+v", entry)
	}
	if !strings.Contains(logs.String(), "successes=3") {
		t.Fatalf("log output = %q", logs.String())
	}
}

func TestInvokeSkipsClosedProfile(t *testing.T) {
	randomizer := &fakeRandomizer{}
	inv := NewInvoker(Config{Randomizer: randomizer})
	p := newProfile(t, testItem(), testActor())
	p.Close()

	res, err := inv.Invoke(context.Background(), p, testItem(), testActor())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !res.Skipped || len(randomizer.requests) != 0 {
		t.Fatalf("skipped = %v requests = %d", res.Skipped, len(randomizer.requests))
	}
}

func TestInvokeMissingDifficulty(t *testing.T) {
	randomizer := &fakeRandomizer{}
	inv := NewInvoker(Config{Randomizer: randomizer})
	item := testItem()
	item.Difficulty = "n/a"
	p := newProfile(t, item, testActor())

	_, err := inv.Invoke(context.Background(), p, item, testActor())
	if !errors.Is(err, ErrMissingDifficulty) {
		t.Fatalf("error = %v, want ErrMissingDifficulty", err)
	}
	if apperrors.CodeOf(err) != apperrors.CodeRollMissingDifficulty {
		t.Fatalf("code = %q", apperrors.CodeOf(err))
	}
	if p.PendingClose || len(randomizer.requests) != 0 {
		t.Fatal("unrollable profile was rolled")
	}

	p.SetDifficulty(5)
	if _, err := inv.Invoke(context.Background(), p, item, testActor()); err != nil {
		t.Fatalf("Invoke() after fix error = %v", err)
	}
}

func TestInvokeChecksDifficultyAtRollTime(t *testing.T) {
	randomizer := &fakeRandomizer{}
	inv := NewInvoker(Config{Randomizer: randomizer})

	p := newProfile(t, testItem(), testActor())
	p.Difficulty = -1
	if _, err := inv.Invoke(context.Background(), p, testItem(), testActor()); !errors.Is(err, ErrMissingDifficulty) {
		t.Fatalf("error = %v, want ErrMissingDifficulty", err)
	}
	if p.PendingClose || p.CanRoll || len(randomizer.requests) != 0 {
		t.Fatal("profile with negative difficulty was rolled")
	}

	item := testItem()
	item.Difficulty = "n/a"
	stale := newProfile(t, item, testActor())
	stale.Difficulty = 6
	if _, err := inv.Invoke(context.Background(), stale, item, testActor()); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if len(randomizer.requests) != 1 || randomizer.requests[0].Difficulty != 6 {
		t.Fatalf("requests = %+v, want one at difficulty 6", randomizer.requests)
	}
}

func TestInvokeMissNoFollowUp(t *testing.T) {
	inv := NewInvoker(Config{Randomizer: &fakeRandomizer{successes: []int{0}}})
	p := newProfile(t, testItem(), testActor())
	res, err := inv.Invoke(context.Background(), p, testItem(), testActor())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.FollowUp != nil {
		t.Fatal("follow-up after a miss")
	}
}

func TestInvokeUnrollableAttackHasNoFollowUp(t *testing.T) {
	randomizer := &fakeRandomizer{successes: []int{4}}
	inv := NewInvoker(Config{Randomizer: randomizer})
	item := testItem()
	item.Attack.Rollable = false
	p := newProfile(t, item, testActor())

	res, err := inv.Invoke(context.Background(), p, item, testActor())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if len(randomizer.requests) != 1 || res.FollowUp != nil {
		t.Fatalf("requests = %d follow-up = %v", len(randomizer.requests), res.FollowUp)
	}
}

func TestInvokeRandomizerError(t *testing.T) {
	inv := NewInvoker(Config{Randomizer: &fakeRandomizer{err: errors.New("boom")}})
	p := newProfile(t, testItem(), testActor())
	_, err := inv.Invoke(context.Background(), p, testItem(), testActor())
	if apperrors.CodeOf(err) != apperrors.CodeRollRandomizer {
		t.Fatalf("error = %v, want randomizer code", err)
	}
}

func TestInvokeJournalError(t *testing.T) {
	inv := NewInvoker(Config{
		Randomizer: &fakeRandomizer{successes: []int{1}},
		Journal:    &fakeJournal{err: errors.New("disk full")},
		NewID:      fixedID,
	})
	p := newProfile(t, testItem(), testActor())
	if _, err := inv.Invoke(context.Background(), p, testItem(), testActor()); err == nil {
		t.Fatal("expected journal error")
	}
}

func TestInvokeSavesCustomSecondary(t *testing.T) {
	item := testItem()
	item.Attack.Ability = snapshot.CustomAbility
	actor := testActor()
	p := newProfile(t, item, actor)
	if err := p.SelectSecondaryTrait(context.Background(), "lore-1", actor, rules.Default(), actor); err != nil {
		t.Fatalf("SelectSecondaryTrait() error = %v", err)
	}

	store := &fakeStore{}
	inv := NewInvoker(Config{Randomizer: &fakeRandomizer{}, Store: store})
	if _, err := inv.Invoke(context.Background(), p, item, actor); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if store.saved["rifle-1"] != "lore-1" {
		t.Fatalf("saved = %v", store.saved)
	}
}

func TestResolveSprayAttack(t *testing.T) {
	randomizer := &fakeRandomizer{successes: []int{5}}
	journal := &fakeJournal{}
	inv := NewInvoker(Config{Randomizer: randomizer, Journal: journal, NewID: fixedID})

	item := testItem()
	p := newProfile(t, item, testActor())
	if err := p.SelectMode(weapon.ModeSpray); err != nil {
		t.Fatalf("SelectMode() error = %v", err)
	}
	p.SetTargetCount(3)

	resolutions, err := inv.Resolve(context.Background(), p, item, testActor())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(resolutions) != 2 {
		t.Fatalf("resolutions = %d, want 2", len(resolutions))
	}
	damage := resolutions[1]
	// Base damage is the bonus of 5; two leftover successes go to the first two targets.
	if want := []int{7, 7, 6}; !slices.Equal(damage.Request.Targets, want) {
		t.Fatalf("Targets = %v, want %v", damage.Request.Targets, want)
	}
	if !slices.Equal(damage.Outcome.TargetSuccesses(), []int{1, 1, 1}) {
		t.Fatalf("TargetSuccesses = %v", damage.Outcome.TargetSuccesses())
	}
	if len(journal.entries) != 2 || !slices.Equal(journal.entries[1].TargetDice, []int{7, 7, 6}) {
		t.Fatalf("journal = %+v", journal.entries)
	}
	if !resolutions[0].FollowUp.PendingClose {
		t.Fatal("follow-up profile not closed after rolling")
	}
}
