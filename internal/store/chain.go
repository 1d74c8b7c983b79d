package store

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domainerrors "moodjournal/internal/errors"
)

// Backend is the part of every storage backend the chain needs. Owns is true
// only for ids that can exist nowhere else, such as locally-minted ids.
type Backend interface {
	Name() string
	Owns(id string) bool
}

// Chain tries an ordered list of backends one after another. It never
// queries two backends at the same time.
type Chain[B Backend] struct {
	backends []B
	logger   *zap.Logger
}

func NewChain[B Backend](logger *zap.Logger, backends ...B) *Chain[B] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain[B]{backends: backends, logger: logger}
}

// Backends returns the backend names in the order they are tried.
func (c *Chain[B]) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// ForID routes an id minted by a backend that claims it (see Backend.Owns)
// to that backend only. Any other id goes through the full chain.
func (c *Chain[B]) ForID(id string) *Chain[B] {
	for _, b := range c.backends {
		if b.Owns(id) {
			return &Chain[B]{backends: []B{b}, logger: c.logger}
		}
	}
	return c
}

// Run calls fn on each backend in order and returns the first success.
// Validation and already-exists errors are returned as-is since another
// backend would reject the call too. When every backend fails the last error is wrapped as
// Unavailable.
func Run[B Backend, T any](ctx context.Context, c *Chain[B], op string, fn func(B) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		out, err := fn(b)
		if err == nil {
			if i > 0 {
				c.logger.Debug("served by fallback backend",
					zap.String("op", op),
					zap.String("backend", b.Name()),
				)
			}
			return out, nil
		}
		if errors.Is(err, domainerrors.ErrValidation) || errors.Is(err, domainerrors.ErrAlreadyExists) {
			return zero, err
		}
		lastErr = err
		c.logger.Warn("storage backend failed",
			zap.String("op", op),
			zap.String("backend", b.Name()),
			zap.Error(err),
		)
	}
	if lastErr == nil {
		lastErr = errors.New("no storage backend configured")
	}
	return zero, domainerrors.Unavailable(op, lastErr)
}
