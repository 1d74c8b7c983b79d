// Package store defines the storage backends behind the record facade and the
// category registry, and the ordered fallback chain that tries them.
package store

import (
	"context"

	"moodjournal/internal/models"
)

// RecordBackend is implemented by the remote repository and the local cache.
// GetByDate returns (nil, nil) when no record exists for the date.
type RecordBackend interface {
	Name() string
	// Owns reports whether the backend minted id.
	Owns(id string) bool

	GetAll(ctx context.Context, scope models.Scope) ([]models.MoodRecord, error)
	GetByDate(ctx context.Context, scope models.Scope, date string) (*models.MoodRecord, error)
	GetByDateRange(ctx context.Context, scope models.Scope, start, end string) ([]models.MoodRecord, error)
	Upsert(ctx context.Context, scope models.Scope, in models.RecordInput) (*models.MoodRecord, error)
	Delete(ctx context.Context, scope models.Scope, id string) (bool, error)
}

// CategoryBackend stores custom mood categories.
//
// ListCategories returns the system categories followed by the scope's
// customs. CreateCategory returns (nil, nil) when the name is already taken
// in scope. Update and delete only ever touch categories owned by scope.
type CategoryBackend interface {
	Name() string
	Owns(id string) bool

	ListCategories(ctx context.Context, scope models.Scope) ([]models.MoodCategory, error)
	CreateCategory(ctx context.Context, scope models.Scope, in models.CategoryInput) (*models.MoodCategory, error)
	UpdateCategory(ctx context.Context, scope models.Scope, id string, patch models.CategoryPatch) (*models.MoodCategory, error)
	DeleteCategory(ctx context.Context, scope models.Scope, id string) (bool, error)
}
