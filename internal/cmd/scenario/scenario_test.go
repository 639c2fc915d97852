package scenario

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/wodcombat/internal/storage"
	"github.com/louisbranch/wodcombat/internal/storage/sqlite"
)

const passingScenario = `local scene = Scenario.new("smoke")
scene:actor({id = "nines", attributes = {dexterity = {label = "Dexterity", value = 2, total = 2}}})
scene:weapon({id = "pistol", category = "ranged", difficulty = 6,
  attack = {attribute = "dexterity"}, damage = {bonus = 4}})
scene:attack({successes = 1, damage_successes = 2, expect = {dice = 2, hit = true, damage_dice = 5}})
return scene
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smoke.lua")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions to default to true")
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("timeout = %v, want 10s", cfg.Timeout)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("WODCOMBAT_SCENARIO_FILE", "env.lua")
	t.Setenv("WODCOMBAT_SCENARIO_TIMEOUT", "3s")
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-scenario", "flag.lua", "-assert=false", "-verbose"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "flag.lua" {
		t.Fatalf("scenario = %q, want flag.lua", cfg.Scenario)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v, want 3s", cfg.Timeout)
	}
	if cfg.Assertions || !cfg.Verbose {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestRunRequiresScenario(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil, nil); err == nil {
		t.Fatal("expected error for missing scenario path")
	}
}

func TestRunJournalsToSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	var out bytes.Buffer
	cfg := Config{
		Scenario:   writeScenario(t, passingScenario),
		Assertions: true,
		Timeout:    time.Second,
		DBPath:     dbPath,
	}
	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "scenario passed") {
		t.Fatalf("out = %q", out.String())
	}

	store, err := sqlite.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer store.Close()
	page, err := store.ListEntries(context.Background(), storage.JournalFilter{ActorID: "nines"}, 10, "")
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(page.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(page.Entries))
	}
}

func TestRunReportsFailedAssertion(t *testing.T) {
	cfg := Config{
		Scenario:   writeScenario(t, strings.Replace(passingScenario, "dice = 2", "dice = 3", 1)),
		Assertions: true,
		Timeout:    time.Second,
	}
	if err := Run(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected assertion failure")
	}
}
