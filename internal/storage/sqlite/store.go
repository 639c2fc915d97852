// Package sqlite provides a SQLite-backed roll journal and item selection store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	sqlitemigrate "github.com/louisbranch/wodcombat/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/wodcombat/internal/storage"
	"github.com/louisbranch/wodcombat/internal/storage/cursor"
	"github.com/louisbranch/wodcombat/internal/storage/sqlite/migrations"
	"github.com/louisbranch/wodcombat/internal/systems/wod/roll"
	"github.com/louisbranch/wodcombat/internal/systems/wod/weapon"
)

// Store persists roll history and item selections in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var (
	_ storage.JournalStore = (*Store)(nil)
	_ storage.ItemStore    = (*Store)(nil)
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record appends a roll to the journal.
func (s *Store) Record(ctx context.Context, entry roll.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	entryID := strings.TrimSpace(entry.ID)
	if entryID == "" {
		return fmt.Errorf("entry id is required")
	}
	targetDice, err := encodeInts(entry.TargetDice)
	if err != nil {
		return fmt.Errorf("encode target dice: %w", err)
	}
	targetSuccesses, err := encodeInts(entry.TargetSuccesses)
	if err != nil {
		return fmt.Errorf("encode target successes: %w", err)
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO roll_journal (
		   id,
		   actor_id,
		   item_id,
		   action,
		   origin,
		   mode,
		   dice_count,
		   difficulty,
		   successes,
		   botch,
		   seed,
		   target_dice_json,
		   target_successes_json,
		   recorded_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entryID,
		entry.ActorID,
		entry.ItemID,
		entry.Action,
		string(entry.Origin),
		string(entry.Mode),
		entry.DiceCount,
		entry.Difficulty,
		entry.Successes,
		entry.Botch,
		entry.Seed,
		targetDice,
		targetSuccesses,
		toMillis(recordedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("record roll: %w", err)
	}
	return nil
}

const entryColumns = `seq, id, actor_id, item_id, action, origin, mode, dice_count, difficulty,
       successes, botch, seed, target_dice_json, target_successes_json, recorded_at`

// GetEntry returns one journal entry by id.
func (s *Store) GetEntry(ctx context.Context, id string) (roll.Entry, error) {
	if err := ctx.Err(); err != nil {
		return roll.Entry{}, err
	}
	if s == nil || s.sqlDB == nil {
		return roll.Entry{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM roll_journal WHERE id = ?`, strings.TrimSpace(id))
	entry, _, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roll.Entry{}, storage.ErrNotFound
	}
	if err != nil {
		return roll.Entry{}, fmt.Errorf("get roll: %w", err)
	}
	return entry, nil
}

// ListEntries returns journal entries in recording order, one page at a time.
func (s *Store) ListEntries(ctx context.Context, filter storage.JournalFilter, pageSize int, pageToken string) (storage.JournalPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.JournalPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.JournalPage{}, fmt.Errorf("storage is not configured")
	}
	pageSize = storage.ClampPageSize(pageSize)
	filterKey := filter.Key()

	var after uint64
	if pageToken != "" {
		c, err := cursor.Decode(pageToken)
		if err != nil {
			return storage.JournalPage{}, fmt.Errorf("%w: %v", storage.ErrInvalidPageToken, err)
		}
		if err := cursor.ValidateFilter(c, filterKey); err != nil {
			return storage.JournalPage{}, fmt.Errorf("%w: %v", storage.ErrInvalidPageToken, err)
		}
		after = c.Seq
	}

	query := `SELECT ` + entryColumns + ` FROM roll_journal WHERE seq > ?`
	args := []any{after}
	if actorID := strings.TrimSpace(filter.ActorID); actorID != "" {
		query += ` AND actor_id = ?`
		args = append(args, actorID)
	}
	if itemID := strings.TrimSpace(filter.ItemID); itemID != "" {
		query += ` AND item_id = ?`
		args = append(args, itemID)
	}
	query += ` ORDER BY seq ASC LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.JournalPage{}, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	page := storage.JournalPage{}
	var lastSeq uint64
	for rows.Next() {
		entry, seq, err := scanEntry(rows)
		if err != nil {
			return storage.JournalPage{}, fmt.Errorf("scan roll: %w", err)
		}
		if len(page.Entries) == pageSize {
			token, err := cursor.Encode(cursor.New(lastSeq, filterKey))
			if err != nil {
				return storage.JournalPage{}, err
			}
			page.NextPageToken = token
			break
		}
		page.Entries = append(page.Entries, entry)
		lastSeq = seq
	}
	if err := rows.Err(); err != nil {
		return storage.JournalPage{}, fmt.Errorf("iterate rolls: %w", err)
	}
	return page, nil
}

// SaveSecondaryTrait remembers the custom secondary trait chosen for an item.
func (s *Store) SaveSecondaryTrait(ctx context.Context, itemID, secondaryItemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	itemID = strings.TrimSpace(itemID)
	secondaryItemID = strings.TrimSpace(secondaryItemID)
	if itemID == "" {
		return fmt.Errorf("item id is required")
	}
	if secondaryItemID == "" {
		return fmt.Errorf("secondary item id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO item_secondary_traits (item_id, secondary_item_id, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET
		   secondary_item_id = excluded.secondary_item_id,
		   updated_at = excluded.updated_at`,
		itemID,
		secondaryItemID,
		toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save secondary trait: %w", err)
	}
	return nil
}

// SecondaryTrait returns the saved custom secondary trait for an item.
func (s *Store) SecondaryTrait(ctx context.Context, itemID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	var secondaryItemID string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT secondary_item_id FROM item_secondary_traits WHERE item_id = ?`,
		strings.TrimSpace(itemID),
	).Scan(&secondaryItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get secondary trait: %w", err)
	}
	return secondaryItemID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (roll.Entry, uint64, error) {
	var (
		entry           roll.Entry
		seq             int64
		origin, mode    string
		targetDice      string
		targetSuccesses string
		recordedAt      int64
	)
	if err := row.Scan(
		&seq,
		&entry.ID,
		&entry.ActorID,
		&entry.ItemID,
		&entry.Action,
		&origin,
		&mode,
		&entry.DiceCount,
		&entry.Difficulty,
		&entry.Successes,
		&entry.Botch,
		&entry.Seed,
		&targetDice,
		&targetSuccesses,
		&recordedAt,
	); err != nil {
		return roll.Entry{}, 0, err
	}
	entry.Origin = weapon.Origin(origin)
	entry.Mode = weapon.Mode(mode)
	entry.RecordedAt = fromMillis(recordedAt)

	var err error
	if entry.TargetDice, err = decodeInts(targetDice); err != nil {
		return roll.Entry{}, 0, fmt.Errorf("decode target dice: %w", err)
	}
	if entry.TargetSuccesses, err = decodeInts(targetSuccesses); err != nil {
		return roll.Entry{}, 0, fmt.Errorf("decode target successes: %w", err)
	}
	return entry, uint64(seq), nil
}

func encodeInts(values []int) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeInts(value string) ([]int, error) {
	var out []int
	if err := json.Unmarshal([]byte(value), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
