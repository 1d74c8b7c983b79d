package local

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/internal/models"
)

func catInput(name string) models.CategoryInput {
	return models.CategoryInput{Name: name, Icon: "🌧", Color: "#778899", Description: "custom " + name}
}

func TestListCategories_DefaultsFirst(t *testing.T) {
	c := newTestCache(t)
	cats, err := c.ListCategories(ctx(), models.Anonymous)
	require.NoError(t, err)
	require.Len(t, cats, len(models.PredefinedMoodNames()))
	for _, cat := range cats {
		assert.True(t, cat.IsPredefined)
	}
}

func TestCreateCategory(t *testing.T) {
	c := newTestCache(t)
	withClock(c, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	alice := models.UserScope("alice")

	first, err := c.CreateCategory(ctx(), alice, catInput("gloomy"))
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, c.Owns(first.ID))
	assert.False(t, first.IsPredefined)

	second, err := c.CreateCategory(ctx(), alice, catInput("cozy"))
	require.NoError(t, err)
	require.NotNil(t, second)

	cats, err := c.ListCategories(ctx(), alice)
	require.NoError(t, err)
	n := len(models.PredefinedMoodNames())
	require.Len(t, cats, n+2)
	assert.Equal(t, "cozy", cats[n].Name, "newest custom first")
	assert.Equal(t, "gloomy", cats[n+1].Name)

	// Other scopes only see the catalog.
	cats, err = c.ListCategories(ctx(), models.UserScope("bob"))
	require.NoError(t, err)
	assert.Len(t, cats, n)
}

func TestCreateCategory_Duplicates(t *testing.T) {
	c := newTestCache(t)
	alice := models.UserScope("alice")

	_, err := c.CreateCategory(ctx(), alice, catInput("gloomy"))
	require.NoError(t, err)

	dup, err := c.CreateCategory(ctx(), alice, catInput("gloomy"))
	require.NoError(t, err)
	assert.Nil(t, dup)

	system, err := c.CreateCategory(ctx(), alice, catInput("happy"))
	require.NoError(t, err)
	assert.Nil(t, system)

	// Same name in another scope is fine.
	other, err := c.CreateCategory(ctx(), models.Anonymous, catInput("gloomy"))
	require.NoError(t, err)
	assert.NotNil(t, other)
}

func TestUpdateCategory(t *testing.T) {
	c := newTestCache(t)
	alice := models.UserScope("alice")
	cat, err := c.CreateCategory(ctx(), alice, catInput("gloomy"))
	require.NoError(t, err)

	patch := models.CategoryPatch{Color: strPtr("#000000")}
	got, err := c.UpdateCategory(ctx(), models.UserScope("bob"), cat.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.UpdateCategory(ctx(), alice, cat.ID, patch)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "#000000", got.Color)
	assert.Equal(t, cat.Icon, got.Icon)
	assert.Equal(t, cat.Name, got.Name)

	got, err = c.UpdateCategory(ctx(), alice, "system-happy", patch)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteCategory(t *testing.T) {
	c := newTestCache(t)
	alice := models.UserScope("alice")
	cat, err := c.CreateCategory(ctx(), alice, catInput("gloomy"))
	require.NoError(t, err)

	ok, err := c.DeleteCategory(ctx(), models.Anonymous, cat.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.DeleteCategory(ctx(), alice, cat.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	cats, err := c.ListCategories(ctx(), alice)
	require.NoError(t, err)
	assert.Len(t, cats, len(models.PredefinedMoodNames()))

	// The name is free again.
	again, err := c.CreateCategory(ctx(), alice, catInput("gloomy"))
	require.NoError(t, err)
	assert.NotNil(t, again)
}

func TestCreateCategory_ColonsInScopeAndName(t *testing.T) {
	c := newTestCache(t)
	a := models.UserScope("a")
	ab := models.UserScope("a:b")

	first, err := c.CreateCategory(ctx(), a, catInput("b:c"))
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := c.CreateCategory(ctx(), ab, catInput("c"))
	require.NoError(t, err)
	require.NotNil(t, second, "c is free in scope a:b")

	n := len(models.PredefinedMoodNames())
	cats, err := c.ListCategories(ctx(), ab)
	require.NoError(t, err)
	require.Len(t, cats, n+1)
	assert.Equal(t, "c", cats[n].Name)

	cats, err = c.ListCategories(ctx(), a)
	require.NoError(t, err)
	require.Len(t, cats, n+1)
	assert.Equal(t, "b:c", cats[n].Name)
}
