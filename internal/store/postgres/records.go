package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"moodjournal/internal/id"
	"moodjournal/internal/models"
)

const recordsTable = "mood_records"

var recordColumns = []string{
	"id", "owner_scope", "to_char(date, 'YYYY-MM-DD') AS date", "mood", "intensity",
	"diary", "photo_url", "audio_url", "tags", "created_at", "updated_at",
}

const recordReturning = "RETURNING id, owner_scope, to_char(date, 'YYYY-MM-DD') AS date, mood, intensity, " +
	"diary, photo_url, audio_url, tags, created_at, updated_at"

// upsertConflict keeps id and created_at of the existing row.
const upsertConflict = `ON CONFLICT ON CONSTRAINT mood_records_scope_date_key DO UPDATE SET
	mood = EXCLUDED.mood,
	intensity = EXCLUDED.intensity,
	diary = EXCLUDED.diary,
	photo_url = EXCLUDED.photo_url,
	audio_url = EXCLUDED.audio_url,
	tags = EXCLUDED.tags,
	updated_at = GREATEST(mood_records.updated_at, EXCLUDED.updated_at)
`

func (s *Store) selectRecords(scope models.Scope) sq.SelectBuilder {
	return builder.Select(recordColumns...).From(recordsTable).Where(scopeEq(scope))
}

// GetAll returns the scope's records, most recent date first.
func (s *Store) GetAll(ctx context.Context, scope models.Scope) ([]models.MoodRecord, error) {
	out := []models.MoodRecord{}
	q := s.selectRecords(scope).OrderBy("mood_records.date DESC")
	if err := s.selectAll(ctx, &out, q); err != nil {
		return nil, mapError(err, "remote get all")
	}
	return out, nil
}

func (s *Store) GetByDate(ctx context.Context, scope models.Scope, date string) (*models.MoodRecord, error) {
	var r models.MoodRecord
	q := s.selectRecords(scope).Where(sq.Expr("mood_records.date = ?::date", date))
	err := s.get(ctx, &r, q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "remote get by date")
	}
	return &r, nil
}

// GetByDateRange returns records with start <= date <= end in date order.
func (s *Store) GetByDateRange(ctx context.Context, scope models.Scope, start, end string) ([]models.MoodRecord, error) {
	out := []models.MoodRecord{}
	q := s.selectRecords(scope).
		Where(sq.Expr("mood_records.date BETWEEN ?::date AND ?::date", start, end)).
		OrderBy("mood_records.date ASC")
	if err := s.selectAll(ctx, &out, q); err != nil {
		return nil, mapError(err, "remote get by range")
	}
	return out, nil
}

// Upsert writes the record for (scope, date) in a single statement, so two
// concurrent saves for the same day can never produce two rows.
func (s *Store) Upsert(ctx context.Context, scope models.Scope, in models.RecordInput) (*models.MoodRecord, error) {
	now := time.Now().UTC()
	q := builder.Insert(recordsTable).
		Columns("id", "owner_scope", "date", "mood", "intensity", "diary",
			"photo_url", "audio_url", "tags", "created_at", "updated_at").
		Values(id.Remote(), scope.Owner(), sq.Expr("?::date", in.Date), in.Mood, in.Intensity, in.Diary,
			in.PhotoURL, in.AudioURL, sq.Expr("?::jsonb", models.Tags(in.Tags)), now, now).
		Suffix(upsertConflict + recordReturning)

	var r models.MoodRecord
	if err := s.get(ctx, &r, q); err != nil {
		return nil, mapError(err, "remote upsert")
	}
	return &r, nil
}

// Delete removes the record with id when it belongs to scope.
func (s *Store) Delete(ctx context.Context, scope models.Scope, recordID string) (bool, error) {
	q := builder.Delete(recordsTable).Where(sq.Eq{"id": recordID}).Where(scopeEq(scope))
	n, err := s.exec(ctx, q)
	if err != nil {
		return false, mapError(err, "remote delete")
	}
	return n > 0, nil
}
