package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"moodjournal/internal/analytics"
	domainerrors "moodjournal/internal/errors"
	"moodjournal/internal/models"
	"moodjournal/internal/store"
	"moodjournal/internal/validation"
)

// MediaStore holds uploaded attachments.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, kind models.MediaKind, scope models.Scope, filename string) (string, error)
	Delete(ctx context.Context, url string) (bool, error)
}

// RecordService is the single entry point for mood records. Reads and writes
// go to the first storage backend that answers; analytics are derived from
// whatever that backend returns.
type RecordService struct {
	chain     *store.Chain[store.RecordBackend]
	media     MediaStore
	validator *validation.Validator
	logger    *zap.Logger
}

func NewRecordService(chain *store.Chain[store.RecordBackend], media MediaStore, v *validation.Validator, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{chain: chain, media: media, validator: v, logger: logger}
}

// Backends lists the storage backends in the order they are tried.
func (s *RecordService) Backends() []string { return s.chain.Backends() }

func (s *RecordService) GetAll(ctx context.Context, scope models.Scope) ([]models.MoodRecord, error) {
	return store.Run(ctx, s.chain, "getAll", func(b store.RecordBackend) ([]models.MoodRecord, error) {
		return b.GetAll(ctx, scope)
	})
}

// GetByDate returns nil when the scope has no record for date.
func (s *RecordService) GetByDate(ctx context.Context, scope models.Scope, date string) (*models.MoodRecord, error) {
	if !validation.IsDate(date) {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"date": "must be a calendar date (YYYY-MM-DD)"})
	}
	return store.Run(ctx, s.chain, "getByDate", func(b store.RecordBackend) (*models.MoodRecord, error) {
		return b.GetByDate(ctx, scope, date)
	})
}

// GetByDateRange returns records dated start..end inclusive, oldest first.
func (s *RecordService) GetByDateRange(ctx context.Context, scope models.Scope, start, end string) ([]models.MoodRecord, error) {
	details := map[string]string{}
	if !validation.IsDate(start) {
		details["start_date"] = "must be a calendar date (YYYY-MM-DD)"
	}
	if !validation.IsDate(end) {
		details["end_date"] = "must be a calendar date (YYYY-MM-DD)"
	}
	if len(details) == 0 && start > end {
		details["end_date"] = "must not be before start_date"
	}
	if len(details) > 0 {
		return nil, domainerrors.ValidationWithDetails("validation failed", details)
	}
	return store.Run(ctx, s.chain, "getByDateRange", func(b store.RecordBackend) ([]models.MoodRecord, error) {
		return b.GetByDateRange(ctx, scope, start, end)
	})
}

// Save creates or replaces the scope's record for in.Date.
func (s *RecordService) Save(ctx context.Context, scope models.Scope, in models.RecordInput) (*models.MoodRecord, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return store.Run(ctx, s.chain, "save", func(b store.RecordBackend) (*models.MoodRecord, error) {
		return b.Upsert(ctx, scope, in)
	})
}

// Delete removes a record by id. Locally minted ids are only looked up in the
// local cache.
func (s *RecordService) Delete(ctx context.Context, scope models.Scope, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, domainerrors.Validation("id is required")
	}
	return store.Run(ctx, s.chain.ForID(id), "delete", func(b store.RecordBackend) (bool, error) {
		return b.Delete(ctx, scope, id)
	})
}

// GetStats summarizes the records inside window r ending at today.
func (s *RecordService) GetStats(ctx context.Context, scope models.Scope, r analytics.Range, today time.Time) (models.Stats, error) {
	records, err := s.GetAll(ctx, scope)
	if err != nil {
		return models.Stats{}, err
	}
	return analytics.Compute(analytics.Filter(records, r, today), today), nil
}

// GetWordFrequency returns the n most used diary words.
func (s *RecordService) GetWordFrequency(ctx context.Context, scope models.Scope, n int) ([]models.WordFrequency, error) {
	records, err := s.GetAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return analytics.WordFrequency(records, n), nil
}

func (s *RecordService) GetTrend(ctx context.Context, scope models.Scope, r analytics.Range, today time.Time) ([]models.TrendPoint, error) {
	records, err := s.GetAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return analytics.Trend(records, r, today), nil
}

// Export serializes every record of scope as an indented JSON array.
func (s *RecordService) Export(ctx context.Context, scope models.Scope) ([]byte, error) {
	records, err := s.GetAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, domainerrors.Internal("encode export", err)
	}
	return data, nil
}

// Import saves every valid record in data, replacing same-day records, and
// returns how many were saved. Entries failing validation are skipped.
func (s *RecordService) Import(ctx context.Context, scope models.Scope, data []byte) (int, error) {
	var records []models.MoodRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, domainerrors.Validationf("import must be a JSON array of records: %v", err)
	}

	valid := make([]models.RecordInput, 0, len(records))
	for i, r := range records {
		in := r.Input()
		if err := s.validator.Validate(in); err != nil {
			s.logger.Debug("import entry skipped", zap.Int("index", i), zap.Error(err))
			continue
		}
		valid = append(valid, in)
	}
	if len(valid) == 0 {
		return 0, domainerrors.Validation("no valid records to import")
	}

	for i, in := range valid {
		if _, err := s.Save(ctx, scope, in); err != nil {
			return i, err
		}
	}
	s.logger.Info("records imported", zap.Int("count", len(valid)), zap.Int("skipped", len(records)-len(valid)))
	return len(valid), nil
}

// UploadMedia stores an attachment and returns its public URL.
func (s *RecordService) UploadMedia(ctx context.Context, scope models.Scope, kind models.MediaKind, data []byte, filename string) (string, error) {
	if s.media == nil {
		return "", domainerrors.Unavailable("uploadMedia", domainerrors.New("media store not configured"))
	}
	return s.media.Upload(ctx, data, kind, scope, filename)
}

// DeleteMedia removes an uploaded attachment. Embedded data URIs have nothing
// to delete and report true.
func (s *RecordService) DeleteMedia(ctx context.Context, url string) (bool, error) {
	if strings.HasPrefix(url, "data:") {
		return true, nil
	}
	if s.media == nil {
		return false, nil
	}
	return s.media.Delete(ctx, url)
}
