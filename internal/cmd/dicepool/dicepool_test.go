package dicepool

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/wodcombat/internal/platform/errors"
	"github.com/louisbranch/wodcombat/internal/storage"
	"github.com/louisbranch/wodcombat/internal/storage/sqlite"
)

const pistolSnapshot = `item:
  id: pistol-1
  name: Pistol
  category: ranged
  difficulty: 6
  attack:
    attribute: dexterity
    ability: firearms
    rollable: true
  damage:
    bonus: 4
    type: lethal
    rollable: true
  mode:
    spray: true
actor:
  id: nines
  name: Nines
  attributes:
    dexterity: {label: Dexterity, value: 4, total: 4}
  abilities:
    firearms: {id: firearms, label: Firearms, value: 3}
`

const customSnapshot = `{
  "item": {
    "id": "ritual-knife",
    "name": "Ritual Knife",
    "category": "melee",
    "difficulty": 6,
    "attack": {"attribute": "dexterity", "ability": "custom", "rollable": true},
    "damage": {"attribute": "strength", "bonus": 1, "type": "lethal"}
  },
  "actor": {
    "id": "nines",
    "attributes": {"dexterity": {"label": "Dexterity", "value": 2, "total": 2}},
    "items": {"lore-1": {"label": "Occult", "value": 5}}
  }
}`

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("dicepool", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.FollowUp || cfg.Targets != 1 || cfg.Locale != "en-US" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DifficultySet || cfg.BonusSet {
		t.Fatalf("overrides set without flags: %+v", cfg)
	}
}

func TestParseConfigTracksOverrides(t *testing.T) {
	fs := flag.NewFlagSet("dicepool", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-difficulty", "0", "-mode", "spray", "-targets", "3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.DifficultySet || cfg.Difficulty != 0 {
		t.Fatalf("difficulty override = %t/%d", cfg.DifficultySet, cfg.Difficulty)
	}
	if cfg.BonusSet {
		t.Fatal("bonus should not be set")
	}
	if cfg.Mode != "spray" || cfg.Targets != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestRunRequiresSnapshot(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil, nil); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestRunPrintsAttack(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "single shot",
			cfg:  Config{Seed: 7, Locale: "en-US"},
			want: []string{
				"Pistol attack: 7 dice at difficulty 6",
				"Pool: Dexterity (4) + Firearms (3)",
				"Rolled: [",
			},
		},
		{
			name: "spray in portuguese",
			cfg:  Config{Seed: 7, Locale: "pt-BR", Mode: "spray", Targets: 3},
			want: []string{
				"Ataque com Pistol: 17 dados na dificuldade 8",
				"Espalhando disparos entre os alvos.",
			},
		},
		{
			name: "difficulty and bonus overrides",
			cfg:  Config{Seed: 7, Difficulty: 4, DifficultySet: true, Bonus: 2, BonusSet: true},
			want: []string{"Pistol attack: 9 dice at difficulty 4"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			tc.cfg.Snapshot = writeSnapshot(t, "pistol.yaml", pistolSnapshot)
			if err := Run(context.Background(), tc.cfg, &out, nil); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			for _, want := range tc.want {
				if !strings.Contains(out.String(), want) {
					t.Fatalf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestRunLocalizesCodedErrors(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
		cfg      Config
		code     apperrors.Code
		want     string
	}{
		{
			name:     "missing difficulty",
			snapshot: strings.Replace(pistolSnapshot, "difficulty: 6", "difficulty: null", 1),
			cfg:      Config{Locale: "en-US"},
			code:     apperrors.CodeRollMissingDifficulty,
			want:     "Choose a difficulty before rolling.",
		},
		{
			name:     "mode unavailable",
			snapshot: pistolSnapshot,
			cfg:      Config{Locale: "pt-BR", Mode: "burst"},
			code:     apperrors.CodeProfileModeUnavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Snapshot = writeSnapshot(t, "pistol.yaml", tc.snapshot)
			err := Run(context.Background(), tc.cfg, nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.CodeOf(err); got != tc.code {
				t.Fatalf("code = %s, want %s", got, tc.code)
			}
			if tc.want != "" && err.Error() != tc.want {
				t.Fatalf("Error() = %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestRunRemembersCustomSecondary(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	snapshotPath := writeSnapshot(t, "knife.json", customSnapshot)

	first := Config{Snapshot: snapshotPath, Secondary: "lore-1", Seed: 3, DBPath: dbPath}
	if err := Run(ctx, first, nil, nil); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	saved, err := store.SecondaryTrait(ctx, "ritual-knife")
	if closeErr := store.Close(); closeErr != nil {
		t.Fatalf("close store: %v", closeErr)
	}
	if err != nil || saved != "lore-1" {
		t.Fatalf("SecondaryTrait() = %q, %v", saved, err)
	}

	var out bytes.Buffer
	second := Config{Snapshot: snapshotPath, Seed: 3, DBPath: dbPath, FollowUp: false}
	if err := Run(ctx, second, &out, nil); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Pool: Dexterity (2) + Occult (5)") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunListsJournal(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	snapshotPath := writeSnapshot(t, "pistol.yaml", pistolSnapshot)

	var empty bytes.Buffer
	if err := Run(ctx, Config{History: true, DBPath: dbPath, Locale: "en-US"}, &empty, nil); err != nil {
		t.Fatalf("empty history error = %v", err)
	}
	if !strings.Contains(empty.String(), "No rolls recorded.") {
		t.Fatalf("empty history = %q", empty.String())
	}

	for seed := int64(1); seed <= 3; seed++ {
		roll := Config{Snapshot: snapshotPath, Seed: seed, DBPath: dbPath, Locale: "en-US"}
		if err := Run(ctx, roll, nil, nil); err != nil {
			t.Fatalf("roll %d error = %v", seed, err)
		}
	}

	var out bytes.Buffer
	history := Config{History: true, Snapshot: snapshotPath, DBPath: dbPath, PageSize: 1, Locale: "en-US"}
	if err := Run(ctx, history, &out, nil); err != nil {
		t.Fatalf("history error = %v", err)
	}
	if got := strings.Count(out.String(), "Pistol attack (Single shot), 7 dice at difficulty 6"); got != 3 {
		t.Fatalf("attack lines = %d, want 3:\n%s", got, out.String())
	}

	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	page, err := store.ListEntries(ctx, storage.JournalFilter{}, 1, "")
	if closeErr := store.Close(); closeErr != nil {
		t.Fatalf("close store: %v", closeErr)
	}
	if err != nil || len(page.Entries) != 1 {
		t.Fatalf("ListEntries() = %+v, %v", page, err)
	}
	first := page.Entries[0]

	var one bytes.Buffer
	show := Config{EntryID: first.ID, DBPath: dbPath, Locale: "pt-BR"}
	if err := Run(ctx, show, &one, nil); err != nil {
		t.Fatalf("entry error = %v", err)
	}
	want := first.ID + ": ataque com Pistol (Tiro único), 7 dados na dificuldade 6"
	if !strings.Contains(one.String(), want) {
		t.Fatalf("entry output = %q, want %q", one.String(), want)
	}

	if err := Run(ctx, Config{History: true}, nil, nil); err == nil {
		t.Fatal("expected error without a db path")
	}
	if err := Run(ctx, Config{EntryID: "missing", DBPath: dbPath}, nil, nil); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing entry error = %v, want ErrNotFound", err)
	}
}
