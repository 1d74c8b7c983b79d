package local

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/internal/id"
	"moodjournal/internal/models"
)

func input(date, mood string, intensity int) models.RecordInput {
	return models.RecordInput{Date: date, Mood: mood, Intensity: intensity, Diary: "diary " + date}
}

func TestUpsert_CreatesWithLocalID(t *testing.T) {
	c := newTestCache(t)
	alice := models.UserScope("alice")

	in := input("2024-01-15", "happy", 4)
	in.Tags = []string{"work", "sun"}
	in.PhotoURL = strPtr("http://localhost/media/mood-media/u/photo/1.png")

	rec, err := c.Upsert(ctx(), alice, in)
	require.NoError(t, err)
	assert.True(t, id.IsLocal(rec.ID))
	assert.True(t, c.Owns(rec.ID))
	require.NotNil(t, rec.OwnerScope)
	assert.Equal(t, "alice", *rec.OwnerScope)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)

	got, err := c.GetByDate(ctx(), alice, "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, in, got.Input())
	assert.Equal(t, rec.ID, got.ID)
}

func TestUpsert_ReplacesKeepingIdentity(t *testing.T) {
	c := newTestCache(t)
	withClock(c, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	first, err := c.Upsert(ctx(), models.Anonymous, input("2024-01-15", "sad", 2))
	require.NoError(t, err)

	second, err := c.Upsert(ctx(), models.Anonymous, input("2024-01-15", "happy", 5))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, "happy", second.Mood)
	assert.Nil(t, second.OwnerScope)

	all, err := c.GetAll(ctx(), models.Anonymous)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsert_UpdatedAtNeverGoesBackwards(t *testing.T) {
	c := newTestCache(t)
	later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return later }
	first, err := c.Upsert(ctx(), models.Anonymous, input("2024-01-15", "sad", 2))
	require.NoError(t, err)

	c.now = func() time.Time { return later.Add(-time.Hour) }
	second, err := c.Upsert(ctx(), models.Anonymous, input("2024-01-15", "calm", 3))
	require.NoError(t, err)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestUpsert_OneRecordPerScopeAndDate(t *testing.T) {
	c := newTestCache(t)
	scopes := []models.Scope{models.Anonymous, models.UserScope("alice"), models.UserScope("bob")}

	for round := range 3 {
		for _, s := range scopes {
			for day := 1; day <= 4; day++ {
				_, err := c.Upsert(ctx(), s, input(fmt.Sprintf("2024-02-%02d", day), "calm", round%5+1))
				require.NoError(t, err)
			}
		}
	}

	for _, s := range scopes {
		all, err := c.GetAll(ctx(), s)
		require.NoError(t, err)
		assert.Len(t, all, 4, s.Key())
		for _, r := range all {
			assert.Equal(t, s, models.ScopeFromOwner(r.OwnerScope))
			assert.Equal(t, 3, r.Intensity)
		}
	}
}

func TestUpsert_ScopeKeyCollision(t *testing.T) {
	c := newTestCache(t)
	// Scope "a" scans a key prefix that also matches scope "a:b".
	_, err := c.Upsert(ctx(), models.UserScope("a:b"), input("2024-03-01", "sad", 1))
	require.NoError(t, err)

	all, err := c.GetAll(ctx(), models.UserScope("a"))
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetAll_NewestFirst(t *testing.T) {
	c := newTestCache(t)
	for _, d := range []string{"2024-01-02", "2024-01-10", "2023-12-31"} {
		_, err := c.Upsert(ctx(), models.Anonymous, input(d, "calm", 3))
		require.NoError(t, err)
	}

	all, err := c.GetAll(ctx(), models.Anonymous)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"2024-01-10", "2024-01-02", "2023-12-31"}, []string{all[0].Date, all[1].Date, all[2].Date})
}

func TestGetAll_EmptyIsNotNil(t *testing.T) {
	c := newTestCache(t)
	all, err := c.GetAll(ctx(), models.UserScope("nobody"))
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGetByDate_Missing(t *testing.T) {
	c := newTestCache(t)
	got, err := c.GetByDate(ctx(), models.Anonymous, "2024-01-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetByDateRange_InclusiveAscending(t *testing.T) {
	c := newTestCache(t)
	for _, d := range []string{"2024-01-20", "2024-01-01", "2024-01-31", "2024-02-01", "2023-12-31", "2024-01-15"} {
		_, err := c.Upsert(ctx(), models.Anonymous, input(d, "calm", 3))
		require.NoError(t, err)
	}

	got, err := c.GetByDateRange(ctx(), models.Anonymous, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	dates := make([]string, len(got))
	for i, r := range got {
		dates[i] = r.Date
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-15", "2024-01-20", "2024-01-31"}, dates)

	got, err = c.GetByDateRange(ctx(), models.Anonymous, "2025-01-01", "2025-12-31")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDelete(t *testing.T) {
	c := newTestCache(t)
	alice := models.UserScope("alice")
	rec, err := c.Upsert(ctx(), alice, input("2024-01-15", "happy", 4))
	require.NoError(t, err)

	ok, err := c.Delete(ctx(), models.UserScope("bob"), rec.ID)
	require.NoError(t, err)
	assert.False(t, ok, "other scope must not delete")

	ok, err = c.Delete(ctx(), alice, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := c.GetByDate(ctx(), alice, "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = c.Delete(ctx(), alice, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Delete(ctx(), alice, "local-unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_ThenRecreateGetsNewID(t *testing.T) {
	c := newTestCache(t)
	first, err := c.Upsert(ctx(), models.Anonymous, input("2024-01-15", "happy", 4))
	require.NoError(t, err)
	_, err = c.Delete(ctx(), models.Anonymous, first.ID)
	require.NoError(t, err)

	second, err := c.Upsert(ctx(), models.Anonymous, input("2024-01-15", "sad", 1))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	ok, err := c.Delete(ctx(), models.Anonymous, first.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanceledContext(t *testing.T) {
	c := newTestCache(t)
	cctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetAll(cctx, models.Anonymous)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = c.Upsert(cctx, models.Anonymous, input("2024-01-01", "calm", 3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScopeKeys_ColonBearingUserIDs(t *testing.T) {
	c := newTestCache(t)
	a := models.UserScope("a")
	ab := models.UserScope("a:b")
	assert.NotEqual(t, recordScopePrefix(a), recordScopePrefix(ab))
	assert.False(t, strings.HasPrefix(recordScopePrefix(ab), recordScopePrefix(a)))

	_, err := c.Upsert(ctx(), a, input("2024-03-01", "calm", 3))
	require.NoError(t, err)
	_, err = c.Upsert(ctx(), ab, input("2024-03-01", "sad", 2))
	require.NoError(t, err)

	all, err := c.GetAll(ctx(), a)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "calm", all[0].Mood)

	all, err = c.GetAll(ctx(), ab)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "sad", all[0].Mood)
}
