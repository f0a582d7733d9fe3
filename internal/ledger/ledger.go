// Package ledger owns the append/amend log of daily practice entries.
//
// Every mutation recomputes the denormalized distinct-practice set before
// persisting, so readers never observe entries and practices out of sync.
// Mutations report the previous and new distinct-practice counts so the
// reward economy can derive a bonus delta without re-reading the record.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vrata-app/vrata/internal/dates"
	"github.com/vrata-app/vrata/internal/store"
	"github.com/vrata-app/vrata/internal/syncq"
)

// ErrEntryNotFound is returned when a mutation targets a date or entry
// that does not exist. Distinct from storage faults, which are wrapped
// and propagated as-is.
var ErrEntryNotFound = errors.New("entry not found")

// Store is the slice of the document store the ledger consumes.
type Store interface {
	Get(ctx context.Context, collection, key string) ([]byte, error)
	GetAll(ctx context.Context, collection string) ([]store.Record, error)
	Put(ctx context.Context, collection, key string, body []byte) error
	Delete(ctx context.Context, collection, key string) error
}

// EntryChanges carries the fields an edit may change. Nil fields are left
// untouched.
type EntryChanges struct {
	PracticeID *string
	Notes      *string
}

// Ledger provides CRUD over daily log records.
//
// The record date always comes from the caller (who asks the calendar
// capability what day it is); the ledger never derives a day from entry
// timestamps.
type Ledger struct {
	store  Store
	notify syncq.Notifier

	// now stamps new entries; overridable in tests.
	now func() time.Time
}

// New creates a Ledger. A nil notifier disables sync notifications.
func New(s Store, notify syncq.Notifier) *Ledger {
	if notify == nil {
		notify = syncq.Nop{}
	}
	return &Ledger{store: s, notify: notify, now: time.Now}
}

// LogPractice appends one entry per practice ID to the record for date,
// creating the record if absent. Each entry is stamped with the current
// instant. Returns the previous and new distinct-practice counts so the
// caller can compute a bonus delta.
//
// Storage failures propagate; nothing is retried and no partial state is
// left behind (the record is written in a single put).
func (l *Ledger) LogPractice(ctx context.Context, date string, practiceIDs []string, notes string) (oldCount, newCount int, err error) {
	if !dates.Valid(date) {
		return 0, 0, fmt.Errorf("log practice: invalid date %q", date)
	}
	if len(practiceIDs) == 0 {
		return 0, 0, fmt.Errorf("log practice: no practice ids given")
	}

	rec, _, err := l.load(ctx, date)
	if err != nil {
		return 0, 0, err
	}

	oldCount = len(rec.Practices)
	for _, pid := range practiceIDs {
		rec.Entries = append(rec.Entries, PracticeEntry{
			ID:         uuid.NewString(),
			PracticeID: pid,
			Timestamp:  l.now(),
			Notes:      notes,
		})
	}
	rec.recomputePractices()
	newCount = len(rec.Practices)

	if err := l.save(ctx, rec); err != nil {
		return 0, 0, err
	}
	return oldCount, newCount, nil
}

// RemoveEntry deletes one entry from the record for date and recomputes
// the derived set. Removing the last entry leaves an empty record rather
// than deleting it, so "zero practices today" stays distinguishable from
// "no record created yet".
func (l *Ledger) RemoveEntry(ctx context.Context, date, entryID string) error {
	rec, found, err := l.load(ctx, date)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("remove entry %s on %s: %w", entryID, date, ErrEntryNotFound)
	}

	idx := rec.entryIndex(entryID)
	if idx < 0 {
		return fmt.Errorf("remove entry %s on %s: %w", entryID, date, ErrEntryNotFound)
	}

	rec.Entries = append(rec.Entries[:idx], rec.Entries[idx+1:]...)
	rec.recomputePractices()

	return l.save(ctx, rec)
}

// EditEntry applies changes to one entry and recomputes the derived set.
func (l *Ledger) EditEntry(ctx context.Context, date, entryID string, changes EntryChanges) error {
	rec, found, err := l.load(ctx, date)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("edit entry %s on %s: %w", entryID, date, ErrEntryNotFound)
	}

	idx := rec.entryIndex(entryID)
	if idx < 0 {
		return fmt.Errorf("edit entry %s on %s: %w", entryID, date, ErrEntryNotFound)
	}

	if changes.PracticeID != nil {
		rec.Entries[idx].PracticeID = *changes.PracticeID
	}
	if changes.Notes != nil {
		rec.Entries[idx].Notes = *changes.Notes
	}
	rec.recomputePractices()

	return l.save(ctx, rec)
}

// DeleteRecord removes the whole record for a date. This is a
// user-initiated operation; the engine itself never deletes records.
func (l *Ledger) DeleteRecord(ctx context.Context, date string) error {
	if err := l.store.Delete(ctx, Collection, date); err != nil {
		return fmt.Errorf("delete record %s: %w", date, err)
	}
	l.notify.NotifyDeleted(Collection, date)
	return nil
}

// GetRecord returns the record for a date. found is false when no record
// has been created for that date yet.
func (l *Ledger) GetRecord(ctx context.Context, date string) (DailyLogRecord, bool, error) {
	return l.load(ctx, date)
}

// GetAll returns every daily log record, ordered by date ascending.
func (l *Ledger) GetAll(ctx context.Context) ([]DailyLogRecord, error) {
	raw, err := l.store.GetAll(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("get all records: %w", err)
	}

	records := make([]DailyLogRecord, 0, len(raw))
	for _, r := range raw {
		var rec DailyLogRecord
		if err := json.Unmarshal(r.Body, &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", r.Key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// load fetches and decodes the record for date. A missing record yields a
// fresh empty record with found=false.
func (l *Ledger) load(ctx context.Context, date string) (DailyLogRecord, bool, error) {
	body, err := l.store.Get(ctx, Collection, date)
	if errors.Is(err, store.ErrNotFound) {
		return DailyLogRecord{Date: date, Entries: []PracticeEntry{}, Practices: []string{}}, false, nil
	}
	if err != nil {
		return DailyLogRecord{}, false, fmt.Errorf("load record %s: %w", date, err)
	}

	var rec DailyLogRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return DailyLogRecord{}, false, fmt.Errorf("decode record %s: %w", date, err)
	}
	return rec, true, nil
}

// save persists the record and fires the best-effort sync notification.
// The notification can never block or fail the mutation.
func (l *Ledger) save(ctx context.Context, rec DailyLogRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", rec.Date, err)
	}
	if err := l.store.Put(ctx, Collection, rec.Date, body); err != nil {
		return fmt.Errorf("save record %s: %w", rec.Date, err)
	}
	l.notify.NotifyChanged(Collection, rec.Date)
	return nil
}

func (r *DailyLogRecord) entryIndex(entryID string) int {
	for i, e := range r.Entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}
