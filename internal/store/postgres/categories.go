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

const categoriesTable = "mood_categories"

var categoryColumns = []string{
	"id", "owner_scope", "name", "icon", "color", "description", "is_predefined", "created_at",
}

const categoryReturning = "RETURNING id, owner_scope, name, icon, color, description, is_predefined, created_at"

// ListCategories returns the system categories in catalog order followed by
// the scope's customs, newest first.
func (s *Store) ListCategories(ctx context.Context, scope models.Scope) ([]models.MoodCategory, error) {
	system := []models.MoodCategory{}
	q := builder.Select(categoryColumns...).From(categoriesTable).
		Where(sq.Eq{"is_predefined": true})
	if err := s.selectAll(ctx, &system, q); err != nil {
		return nil, mapError(err, "remote list categories")
	}

	customs := []models.MoodCategory{}
	q = builder.Select(categoryColumns...).From(categoriesTable).
		Where(sq.Eq{"is_predefined": false}).
		Where(scopeEq(scope)).
		OrderBy("created_at DESC", "id")
	if err := s.selectAll(ctx, &customs, q); err != nil {
		return nil, mapError(err, "remote list categories")
	}

	return append(catalogOrder(system), customs...), nil
}

// catalogOrder sorts system rows in catalog order and drops unknown ones.
func catalogOrder(rows []models.MoodCategory) []models.MoodCategory {
	byName := make(map[string]models.MoodCategory, len(rows))
	for _, r := range rows {
		byName[r.Name] = r
	}
	out := make([]models.MoodCategory, 0, len(rows))
	for _, name := range models.PredefinedMoodNames() {
		if r, ok := byName[name]; ok {
			out = append(out, r)
		}
	}
	return out
}

// CreateCategory inserts a custom category. It returns (nil, nil) when the
// name is a system name or already taken in scope.
func (s *Store) CreateCategory(ctx context.Context, scope models.Scope, in models.CategoryInput) (*models.MoodCategory, error) {
	if models.IsPredefinedMood(in.Name) {
		return nil, nil
	}
	q := builder.Insert(categoriesTable).
		Columns("id", "owner_scope", "name", "icon", "color", "description", "is_predefined", "created_at").
		Values(id.Remote(), scope.Owner(), in.Name, in.Icon, in.Color, in.Description, false, time.Now().UTC()).
		Suffix("ON CONFLICT ON CONSTRAINT mood_categories_scope_name_key DO NOTHING " + categoryReturning)

	var c models.MoodCategory
	err := s.get(ctx, &c, q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "remote create category")
	}
	return &c, nil
}

// UpdateCategory changes icon, color or description of a custom category
// owned by scope. It returns (nil, nil) when no such category exists.
func (s *Store) UpdateCategory(ctx context.Context, scope models.Scope, catID string, patch models.CategoryPatch) (*models.MoodCategory, error) {
	owned := sq.And{sq.Eq{"id": catID, "is_predefined": false}, scopeEq(scope)}
	if patch.IsEmpty() {
		var c models.MoodCategory
		err := s.get(ctx, &c, builder.Select(categoryColumns...).From(categoriesTable).Where(owned))
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, mapError(err, "remote update category")
		}
		return &c, nil
	}

	q := builder.Update(categoriesTable).Where(owned).Suffix(categoryReturning)
	if patch.Icon != nil {
		q = q.Set("icon", *patch.Icon)
	}
	if patch.Color != nil {
		q = q.Set("color", *patch.Color)
	}
	if patch.Description != nil {
		q = q.Set("description", *patch.Description)
	}

	var c models.MoodCategory
	err := s.get(ctx, &c, q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "remote update category")
	}
	return &c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, scope models.Scope, catID string) (bool, error) {
	q := builder.Delete(categoriesTable).
		Where(sq.Eq{"id": catID, "is_predefined": false}).
		Where(scopeEq(scope))
	n, err := s.exec(ctx, q)
	if err != nil {
		return false, mapError(err, "remote delete category")
	}
	return n > 0, nil
}
