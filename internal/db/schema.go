package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DefaultRetryInterval is the pause after a failed migration attempt before
// Ensure tries again.
const DefaultRetryInterval = 5 * time.Second

// Schema applies the migrations until one attempt succeeds. Until then every
// Ensure call past the retry interval tries again; after that Ensure is free.
type Schema struct {
	mu            sync.Mutex
	migrate       func(ctx context.Context) (int, error)
	logger        *zap.Logger
	now           func() time.Time
	retryInterval time.Duration

	ready     bool
	applied   int
	lastErr   error
	lastTried time.Time
}

func NewSchema(conn *sqlx.DB, logger *zap.Logger) *Schema {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Schema{
		migrate: func(ctx context.Context) (int, error) {
			return RunMigrations(ctx, conn, logger)
		},
		logger:        logger,
		now:           time.Now,
		retryInterval: DefaultRetryInterval,
	}
}

// Ensure runs the pending migrations unless a previous attempt succeeded.
// Within the retry interval of a failure it returns that failure again.
func (s *Schema) Ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if s.lastErr != nil && s.now().Sub(s.lastTried) < s.retryInterval {
		return s.lastErr
	}

	s.lastTried = s.now()
	applied, err := s.migrate(ctx)
	if err != nil {
		s.lastErr = fmt.Errorf("ensure schema: %w", err)
		s.logger.Warn("schema migration failed", zap.Error(err))
		return s.lastErr
	}
	s.ready = true
	s.applied = applied
	s.lastErr = nil
	s.logger.Info("schema ready", zap.Int("migrations_applied", applied))
	return nil
}

// Status reports how many migrations the successful attempt applied, whether
// the schema is ready, and the last failure while it is not.
func (s *Schema) Status() (applied int, ready bool, lastErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied, s.ready, s.lastErr
}
