package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/wodcombat/internal/systems/wod/roll"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a duplicate record id.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInvalidPageToken indicates a page token that cannot be used.
	ErrInvalidPageToken = errors.New("invalid page token")
)

// DefaultPageSize and MaxPageSize bound journal listings.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// JournalFilter narrows a journal listing. Empty fields match everything.
type JournalFilter struct {
	ActorID string
	ItemID  string
}

// Key returns a canonical form of the filter for page token validation.
func (f JournalFilter) Key() string {
	return "actor=" + strings.TrimSpace(f.ActorID) + ";item=" + strings.TrimSpace(f.ItemID)
}

// JournalPage is one page of journal entries in recording order.
type JournalPage struct {
	Entries       []roll.Entry
	NextPageToken string
}

// JournalStore records and reads roll history.
type JournalStore interface {
	roll.Journal
	GetEntry(ctx context.Context, id string) (roll.Entry, error)
	ListEntries(ctx context.Context, filter JournalFilter, pageSize int, pageToken string) (JournalPage, error)
}

// ItemStore persists selections made on items.
type ItemStore interface {
	roll.Store
	SecondaryTrait(ctx context.Context, itemID string) (string, error)
}

// ClampPageSize applies the default and maximum page sizes.
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return min(size, MaxPageSize)
}
