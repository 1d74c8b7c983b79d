package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domainerrors "moodjournal/internal/errors"
	"moodjournal/internal/models"
	"moodjournal/internal/store"
	"moodjournal/internal/validation"
)

// CategoryRegistry resolves the mood categories visible to a scope: the
// system catalog plus the scope's own custom categories.
type CategoryRegistry struct {
	chain     *store.Chain[store.CategoryBackend]
	validator *validation.Validator
	logger    *zap.Logger
}

func NewCategoryRegistry(chain *store.Chain[store.CategoryBackend], v *validation.Validator, logger *zap.Logger) *CategoryRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryRegistry{chain: chain, validator: v, logger: logger}
}

// GetAll never fails for storage reasons: when no backend answers it returns
// the built-in catalog.
func (r *CategoryRegistry) GetAll(ctx context.Context, scope models.Scope) ([]models.MoodCategory, error) {
	cats, err := store.Run(ctx, r.chain, "getCategories", func(b store.CategoryBackend) ([]models.MoodCategory, error) {
		return b.ListCategories(ctx, scope)
	})
	if err == nil {
		return cats, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	r.logger.Warn("serving default mood categories", zap.Error(err))
	return models.DefaultCategories(), nil
}

// GetByName returns nil when scope has no category called name.
func (r *CategoryRegistry) GetByName(ctx context.Context, scope models.Scope, name string) (*models.MoodCategory, error) {
	cats, err := r.GetAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

// Save creates a custom category. It returns (nil, nil) when the name is
// already used by a system category or another category of scope.
func (r *CategoryRegistry) Save(ctx context.Context, scope models.Scope, in models.CategoryInput) (*models.MoodCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := r.validator.Validate(in); err != nil {
		return nil, err
	}

	existing, err := r.GetByName(ctx, scope, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	created, err := store.Run(ctx, r.chain, "saveCategory", func(b store.CategoryBackend) (*models.MoodCategory, error) {
		return b.CreateCategory(ctx, scope, in)
	})
	if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
		return nil, nil
	}
	return created, err
}

// Update changes icon, color or description of a custom category owned by
// scope. It returns nil when nothing matched.
func (r *CategoryRegistry) Update(ctx context.Context, scope models.Scope, id string, patch models.CategoryPatch) (*models.MoodCategory, error) {
	if err := r.validator.Validate(patch); err != nil {
		return nil, err
	}
	return store.Run(ctx, r.chain.ForID(id), "updateCategory", func(b store.CategoryBackend) (*models.MoodCategory, error) {
		return b.UpdateCategory(ctx, scope, id, patch)
	})
}

// Delete removes a custom category owned by scope.
func (r *CategoryRegistry) Delete(ctx context.Context, scope models.Scope, id string) (bool, error) {
	return store.Run(ctx, r.chain.ForID(id), "deleteCategory", func(b store.CategoryBackend) (bool, error) {
		return b.DeleteCategory(ctx, scope, id)
	})
}
