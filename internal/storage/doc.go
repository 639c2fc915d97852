// Package storage defines the persistence interfaces for roll history and
// item selections.
//
// The SQLite implementation lives in the sqlite subpackage. Journal listings
// page forward by insertion sequence using opaque tokens from the cursor
// subpackage.
//
// # Error Types
//
//   - ErrNotFound: a requested record is missing.
//   - ErrAlreadyExists: a record with the same id was already written.
//   - ErrInvalidPageToken: a page token is malformed or belongs to a different filter.
package storage
