package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/internal/models"
)

func catInput(name string) models.CategoryInput {
	return models.CategoryInput{Name: name, Icon: "🌧", Color: "#778899", Description: "custom " + name}
}

func TestListCategories_SeededCatalog(t *testing.T) {
	s := newStore(t)
	cats, err := s.ListCategories(context.Background(), models.Anonymous)
	require.NoError(t, err)

	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
		assert.True(t, c.IsPredefined)
	}
	assert.Equal(t, models.PredefinedMoodNames(), names)
}

func TestCreateCategory_Uniqueness(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	alice := models.UserScope("alice")

	created, err := s.CreateCategory(ctx, alice, catInput("gloomy"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.IsPredefined)

	dup, err := s.CreateCategory(ctx, alice, catInput("gloomy"))
	require.NoError(t, err)
	assert.Nil(t, dup)

	system, err := s.CreateCategory(ctx, alice, catInput("happy"))
	require.NoError(t, err)
	assert.Nil(t, system)

	anon, err := s.CreateCategory(ctx, models.Anonymous, catInput("gloomy"))
	require.NoError(t, err)
	require.NotNil(t, anon)
	anonDup, err := s.CreateCategory(ctx, models.Anonymous, catInput("gloomy"))
	require.NoError(t, err)
	assert.Nil(t, anonDup, "anonymous scope is unique too")

	cats, err := s.ListCategories(ctx, alice)
	require.NoError(t, err)
	require.Len(t, cats, len(models.PredefinedMoodNames())+1)
	assert.Equal(t, "gloomy", cats[len(cats)-1].Name)
}

func TestUpdateCategory_OwnerOnly(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	alice := models.UserScope("alice")
	created, err := s.CreateCategory(ctx, alice, catInput("gloomy"))
	require.NoError(t, err)

	patch := models.CategoryPatch{Icon: strPtr("☔")}
	got, err := s.UpdateCategory(ctx, models.UserScope("bob"), created.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.UpdateCategory(ctx, alice, created.ID, patch)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "☔", got.Icon)
	assert.Equal(t, created.Color, got.Color)

	got, err = s.UpdateCategory(ctx, models.Anonymous, "system-happy", patch)
	require.NoError(t, err)
	assert.Nil(t, got, "system categories are immutable")

	got, err = s.UpdateCategory(ctx, alice, created.ID, models.CategoryPatch{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "☔", got.Icon)
}

func TestDeleteCategory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	alice := models.UserScope("alice")
	created, err := s.CreateCategory(ctx, alice, catInput("gloomy"))
	require.NoError(t, err)

	ok, err := s.DeleteCategory(ctx, models.Anonymous, "system-happy")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteCategory(ctx, models.UserScope("bob"), created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteCategory(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
