package dicepool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/louisbranch/wodcombat/internal/platform/i18n/catalog"
	"github.com/louisbranch/wodcombat/internal/storage"
	"github.com/louisbranch/wodcombat/internal/storage/sqlite"
	"github.com/louisbranch/wodcombat/internal/systems/wod/roll"
	"github.com/louisbranch/wodcombat/internal/systems/wod/snapshot"
	"github.com/louisbranch/wodcombat/internal/systems/wod/weapon"
)

// runJournal prints journaled rolls. With a snapshot the listing is narrowed
// to its actor and item.
func runJournal(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if cfg.DBPath == "" {
		return errors.New("db path is required to read the journal")
	}
	loc, err := localizer(cfg.Locale)
	if err != nil {
		return err
	}
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.New(errOut, "", 0).Printf("close journal: %v", err)
		}
	}()

	if cfg.EntryID != "" {
		entry, err := store.GetEntry(ctx, cfg.EntryID)
		if err != nil {
			return fmt.Errorf("get roll %s: %w", cfg.EntryID, err)
		}
		renderEntry(out, loc, entry)
		return nil
	}

	var filter storage.JournalFilter
	if cfg.Snapshot != "" {
		doc, err := snapshot.LoadFile(cfg.Snapshot)
		if err != nil {
			return err
		}
		filter = storage.JournalFilter{ActorID: doc.Actor.ID, ItemID: doc.Item.ID}
	}
	return listEntries(ctx, store, filter, cfg.PageSize, out, loc)
}

func listEntries(ctx context.Context, journal storage.JournalStore, filter storage.JournalFilter, pageSize int, out io.Writer, loc *catalog.Localizer) error {
	var (
		token string
		seen  int
	)
	for {
		page, err := journal.ListEntries(ctx, filter, pageSize, token)
		if err != nil {
			return fmt.Errorf("list rolls: %w", err)
		}
		for _, entry := range page.Entries {
			renderEntry(out, loc, entry)
		}
		seen += len(page.Entries)
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	if seen == 0 {
		line(out, loc.Text("roll.history_empty"))
	}
	return nil
}

func renderEntry(out io.Writer, loc *catalog.Localizer, entry roll.Entry) {
	if entry.Origin == weapon.OriginDamage {
		line(out, loc.Text("roll.history_damage", entry.ID, entry.Action, entry.DiceCount, entry.Difficulty, entry.Successes))
	} else {
		line(out, loc.Text("roll.history_attack", entry.ID, entry.Action, modeLabel(loc, entry.Mode), entry.DiceCount, entry.Difficulty, entry.Successes))
	}
	for i, dice := range entry.TargetDice {
		successes := 0
		if i < len(entry.TargetSuccesses) {
			successes = entry.TargetSuccesses[i]
		}
		line(out, loc.Text("roll.target", i+1, dice, successes))
	}
	if entry.Botch {
		line(out, loc.Text("roll.botch"))
	}
}

// modeLabel names a firing mode; attacks without one are single shots.
func modeLabel(loc *catalog.Localizer, mode weapon.Mode) string {
	if mode == weapon.ModeNone {
		mode = weapon.ModeSingle
	}
	return loc.Text("weapon.mode." + string(mode))
}
