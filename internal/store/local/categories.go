package local

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"moodjournal/internal/id"
	"moodjournal/internal/models"
)

func categoryKey(scope models.Scope, name string) string {
	return categoryPrefix + scope.Key() + ":" + name
}

func (c *Cache) scopeCategories(scope models.Scope) ([]models.MoodCategory, error) {
	var out []models.MoodCategory
	err := c.scanPrefix(categoryPrefix+scope.Key()+":", func(val []byte) error {
		var cat models.MoodCategory
		if err := json.Unmarshal(val, &cat); err != nil {
			return fmt.Errorf("decode category: %w", err)
		}
		if sameScope(cat.OwnerScope, scope) {
			out = append(out, cat)
		}
		return nil
	})
	return out, err
}

// ListCategories returns the built-in catalog followed by the customs saved
// locally for scope, newest first.
func (c *Cache) ListCategories(ctx context.Context, scope models.Scope) ([]models.MoodCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	customs, err := c.scopeCategories(scope)
	if err != nil {
		return nil, fmt.Errorf("local list categories: %w", err)
	}
	slices.SortFunc(customs, func(a, b models.MoodCategory) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return append(models.DefaultCategories(), customs...), nil
}

// CreateCategory stores a custom category with a local id. It returns
// (nil, nil) when the name is a system name or already used in scope.
func (c *Cache) CreateCategory(ctx context.Context, scope models.Scope, in models.CategoryInput) (*models.MoodCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if models.IsPredefinedMood(in.Name) {
		return nil, nil
	}

	var created *models.MoodCategory
	err := c.update(func(txn *badger.Txn) error {
		created = nil
		key := categoryKey(scope, in.Name)
		var existing models.MoodCategory
		found, err := getJSON(txn, key, &existing)
		if err != nil || found {
			return err
		}

		newID, err := id.Local()
		if err != nil {
			return err
		}
		cat := models.MoodCategory{
			ID:          newID,
			OwnerScope:  scope.Owner(),
			Name:        in.Name,
			Icon:        in.Icon,
			Color:       in.Color,
			Description: in.Description,
			CreatedAt:   c.now().UTC(),
		}
		if err := setJSON(txn, key, cat); err != nil {
			return err
		}
		if err := txn.Set([]byte(categoryIDPrefix+newID), []byte(key)); err != nil {
			return err
		}
		created = &cat
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local create category: %w", err)
	}
	return created, nil
}

// loadOwnedCategory resolves id to a category owned by scope.
func loadOwnedCategory(txn *badger.Txn, scope models.Scope, catID string) (string, *models.MoodCategory, error) {
	key, ok, err := getString(txn, categoryIDPrefix+catID)
	if err != nil || !ok {
		return "", nil, err
	}
	var cat models.MoodCategory
	found, err := getJSON(txn, key, &cat)
	if err != nil || !found {
		return "", nil, err
	}
	if cat.ID != catID || !sameScope(cat.OwnerScope, scope) {
		return "", nil, nil
	}
	return key, &cat, nil
}

func (c *Cache) UpdateCategory(ctx context.Context, scope models.Scope, catID string, patch models.CategoryPatch) (*models.MoodCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *models.MoodCategory
	err := c.update(func(txn *badger.Txn) error {
		updated = nil
		key, cat, err := loadOwnedCategory(txn, scope, catID)
		if err != nil || cat == nil {
			return err
		}
		next := patch.Apply(*cat)
		if err := setJSON(txn, key, next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local update category: %w", err)
	}
	return updated, nil
}

func (c *Cache) DeleteCategory(ctx context.Context, scope models.Scope, catID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var deleted bool
	err := c.update(func(txn *badger.Txn) error {
		deleted = false
		key, cat, err := loadOwnedCategory(txn, scope, catID)
		if err != nil || cat == nil {
			return err
		}
		if err := txn.Delete([]byte(key)); err != nil {
			return err
		}
		deleted = true
		return txn.Delete([]byte(categoryIDPrefix + catID))
	})
	if err != nil {
		return false, fmt.Errorf("local delete category: %w", err)
	}
	return deleted, nil
}
