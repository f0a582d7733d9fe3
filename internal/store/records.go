package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("record not found")

// Record pairs a key with its JSON document body.
type Record struct {
	Key  string
	Body []byte
}

// indexNamePattern restricts secondary index names to plain identifiers.
// The name is spliced into a json_extract path, so anything else is refused
// rather than escaped.
var indexNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Get retrieves a single record body by key.
// Returns ErrNotFound if the key does not exist in the collection.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM records
		WHERE collection = ? AND key = ?
	`, collection, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return body, nil
}

// GetAll returns every record in a collection, ordered by key ascending.
// Key order is chronological for date-keyed collections (fixed-width dates).
//
// Returns an empty slice (not nil) if the collection is empty.
func (s *Store) GetAll(ctx context.Context, collection string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, body FROM records
		WHERE collection = ?
		ORDER BY key ASC
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("get all %s: %w", collection, err)
	}
	defer rows.Close()

	return collectRecords(rows, collection)
}

// GetByIndex returns records whose JSON body has field indexName equal to
// value, ordered by key ascending. The field must be a top-level string
// field of the document.
func (s *Store) GetByIndex(ctx context.Context, collection, indexName, value string) ([]Record, error) {
	if !indexNamePattern.MatchString(indexName) {
		return nil, fmt.Errorf("get by index %s: invalid index name %q", collection, indexName)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, body FROM records
		WHERE collection = ? AND json_extract(body, ?) = ?
		ORDER BY key ASC
	`, collection, "$."+indexName, value)
	if err != nil {
		return nil, fmt.Errorf("get by index %s.%s: %w", collection, indexName, err)
	}
	defer rows.Close()

	return collectRecords(rows, collection)
}

// Put inserts or replaces the record for key.
func (s *Store) Put(ctx context.Context, collection, key string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (collection, key, body)
		VALUES (?, ?, ?)
		ON CONFLICT(collection, key) DO UPDATE SET body = excluded.body
	`, collection, key, string(body))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	return nil
}

// Delete removes the record for key. Deleting a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM records WHERE collection = ? AND key = ?
	`, collection, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}

// Clear removes every record in a collection.
func (s *Store) Clear(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM records WHERE collection = ?
	`, collection)
	if err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// Count returns the number of records in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM records WHERE collection = ?
	`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// collectRecords drains rows into a Record slice.
func collectRecords(rows *sql.Rows, collection string) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Key, &r.Body); err != nil {
			return nil, fmt.Errorf("scan %s record: %w", collection, err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s records: %w", collection, err)
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []Record{}
	}

	return records, nil
}
