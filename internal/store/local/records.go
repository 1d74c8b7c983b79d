package local

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"moodjournal/internal/id"
	"moodjournal/internal/models"
)

func recordKey(scope models.Scope, date string) string {
	return recordPrefix + scope.Key() + ":" + date
}

func recordScopePrefix(scope models.Scope) string {
	return recordPrefix + scope.Key() + ":"
}

// sameScope compares a stored owner with scope. Key prefixes alone are not
// enough because user ids may contain the key separator.
func sameScope(owner *string, scope models.Scope) bool {
	return models.ScopeFromOwner(owner) == scope
}

func (c *Cache) scopeRecords(scope models.Scope) ([]models.MoodRecord, error) {
	out := []models.MoodRecord{}
	err := c.scanPrefix(recordScopePrefix(scope), func(val []byte) error {
		var r models.MoodRecord
		if err := json.Unmarshal(val, &r); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		if sameScope(r.OwnerScope, scope) {
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAll returns the scope's records, most recent date first.
func (c *Cache) GetAll(ctx context.Context, scope models.Scope) ([]models.MoodRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := c.scopeRecords(scope)
	if err != nil {
		return nil, fmt.Errorf("local get all: %w", err)
	}
	slices.SortFunc(records, func(a, b models.MoodRecord) int { return strings.Compare(b.Date, a.Date) })
	return records, nil
}

func (c *Cache) GetByDate(ctx context.Context, scope models.Scope, date string) (*models.MoodRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var r models.MoodRecord
	var found bool
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, recordKey(scope, date), &r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("local get by date: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &r, nil
}

// GetByDateRange returns records with start <= date <= end in date order.
func (c *Cache) GetByDateRange(ctx context.Context, scope models.Scope, start, end string) ([]models.MoodRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := c.scopeRecords(scope)
	if err != nil {
		return nil, fmt.Errorf("local get by range: %w", err)
	}
	out := records[:0]
	for _, r := range records {
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b models.MoodRecord) int { return strings.Compare(a.Date, b.Date) })
	return out, nil
}

// Upsert replaces the record for (scope, date) or creates it. The read and
// the write share one transaction.
func (c *Cache) Upsert(ctx context.Context, scope models.Scope, in models.RecordInput) (*models.MoodRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out models.MoodRecord
	err := c.update(func(txn *badger.Txn) error {
		key := recordKey(scope, in.Date)

		var existing models.MoodRecord
		found, err := getJSON(txn, key, &existing)
		if err != nil {
			return err
		}

		now := c.now().UTC()
		if found {
			out = existing
			if now.Before(existing.UpdatedAt) {
				now = existing.UpdatedAt
			}
		} else {
			newID, err := id.Local()
			if err != nil {
				return err
			}
			out = models.MoodRecord{ID: newID, OwnerScope: scope.Owner(), CreatedAt: now}
		}

		out.Date = in.Date
		out.Mood = in.Mood
		out.Intensity = in.Intensity
		out.Diary = in.Diary
		out.PhotoURL = in.PhotoURL
		out.AudioURL = in.AudioURL
		out.Tags = models.Tags(append([]string{}, in.Tags...))
		out.UpdatedAt = now

		if err := setJSON(txn, key, out); err != nil {
			return err
		}
		return txn.Set([]byte(recordIDPrefix+out.ID), []byte(key))
	})
	if err != nil {
		return nil, fmt.Errorf("local upsert: %w", err)
	}
	return &out, nil
}

// Delete removes the record with id when it belongs to scope.
func (c *Cache) Delete(ctx context.Context, scope models.Scope, recordID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var deleted bool
	err := c.update(func(txn *badger.Txn) error {
		deleted = false
		idKey := recordIDPrefix + recordID
		key, ok, err := getString(txn, idKey)
		if err != nil || !ok {
			return err
		}

		var r models.MoodRecord
		found, err := getJSON(txn, key, &r)
		if err != nil {
			return err
		}
		if !found || r.ID != recordID {
			// Stale index entry.
			return txn.Delete([]byte(idKey))
		}
		if !sameScope(r.OwnerScope, scope) {
			return nil
		}

		if err := txn.Delete([]byte(key)); err != nil {
			return err
		}
		deleted = true
		return txn.Delete([]byte(idKey))
	})
	if err != nil {
		return false, fmt.Errorf("local delete: %w", err)
	}
	return deleted, nil
}
