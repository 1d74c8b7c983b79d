package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"moodjournal/internal/models"
	"moodjournal/internal/store/local"
)

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// downBackend is a remote store that cannot be reached.
type downBackend struct {
	calls int
}

func (d *downBackend) Name() string     { return "remote" }
func (d *downBackend) Owns(string) bool { return false }

func (d *downBackend) fail() error {
	d.calls++
	return errConnRefused
}

func (d *downBackend) GetAll(context.Context, models.Scope) ([]models.MoodRecord, error) {
	return nil, d.fail()
}

func (d *downBackend) GetByDate(context.Context, models.Scope, string) (*models.MoodRecord, error) {
	return nil, d.fail()
}

func (d *downBackend) GetByDateRange(context.Context, models.Scope, string, string) ([]models.MoodRecord, error) {
	return nil, d.fail()
}

func (d *downBackend) Upsert(context.Context, models.Scope, models.RecordInput) (*models.MoodRecord, error) {
	return nil, d.fail()
}

func (d *downBackend) Delete(context.Context, models.Scope, string) (bool, error) {
	return false, d.fail()
}

func (d *downBackend) ListCategories(context.Context, models.Scope) ([]models.MoodCategory, error) {
	return nil, d.fail()
}

func (d *downBackend) CreateCategory(context.Context, models.Scope, models.CategoryInput) (*models.MoodCategory, error) {
	return nil, d.fail()
}

func (d *downBackend) UpdateCategory(context.Context, models.Scope, string, models.CategoryPatch) (*models.MoodCategory, error) {
	return nil, d.fail()
}

func (d *downBackend) DeleteCategory(context.Context, models.Scope, string) (bool, error) {
	return false, d.fail()
}

func newLocalCache(t *testing.T) *local.Cache {
	t.Helper()
	c, err := local.Open(local.Options{InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func closedLocalCache(t *testing.T) *local.Cache {
	t.Helper()
	c, err := local.Open(local.Options{InMemory: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	return c
}

type fakeMedia struct {
	uploads []string
	deletes []string
}

func (f *fakeMedia) Upload(_ context.Context, _ []byte, kind models.MediaKind, scope models.Scope, filename string) (string, error) {
	url := "http://localhost/media/mood-media/" + scope.UserID + "/" + string(kind) + "/" + filename
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) (bool, error) {
	f.deletes = append(f.deletes, url)
	return true, nil
}
