// Package media stores photo and audio attachments in a filesystem bucket and
// hands out public URLs for them.
package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	domainerrors "moodjournal/internal/errors"
	"moodjournal/internal/models"
)

// MaxUploadSize is the largest accepted attachment.
const MaxUploadSize = 10 << 20

const anonymousDir = "anonymous"

type allowedType struct {
	mime string
	ext  string
}

var allowedTypes = map[models.MediaKind][]allowedType{
	models.MediaPhoto: {
		{"image/jpeg", "jpg"},
		{"image/png", "png"},
		{"image/gif", "gif"},
		{"image/webp", "webp"},
	},
	models.MediaAudio: {
		{"audio/mpeg", "mp3"},
		{"audio/wav", "wav"},
		{"audio/ogg", "ogg"},
		{"audio/mp4", "m4a"},
	},
}

// Bucket is a directory of media objects served under
// {publicURL}/media/{name}/.
type Bucket struct {
	root      string
	name      string
	publicURL string
	logger    *zap.Logger
	now       func() time.Time
}

func New(root, name, publicURL string, logger *zap.Logger) *Bucket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bucket{
		root:      root,
		name:      name,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

func (b *Bucket) Name() string { return b.name }

// Dir is the directory holding the bucket's objects.
func (b *Bucket) Dir() string { return filepath.Join(b.root, b.name) }

// Open implements fs.FS over the bucket directory.
func (b *Bucket) Open(name string) (fs.File, error) {
	return os.DirFS(b.Dir()).Open(name)
}

// EnsureBucket creates the bucket directory when it is missing. It reports
// whether the directory had to be created.
func (b *Bucket) EnsureBucket(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(b.Dir())
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, fmt.Errorf("media bucket %s is not a directory", b.Dir())
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat media bucket: %w", err)
	}
	if err := os.MkdirAll(b.Dir(), 0o755); err != nil {
		return false, fmt.Errorf("create media bucket: %w", err)
	}
	b.logger.Info("media bucket created", zap.String("bucket", b.name), zap.String("dir", b.Dir()))
	return true, nil
}

// detect returns the extension for data when its sniffed type is allowed for
// kind.
func detect(data []byte, kind models.MediaKind) (string, error) {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		for _, a := range allowedTypes[kind] {
			if m.Is(a.mime) {
				return a.ext, nil
			}
		}
	}
	return "", domainerrors.Validationf("unsupported %s type %s", kind, mtype.String())
}

// scopeDir turns a scope into a single safe path segment.
func scopeDir(scope models.Scope) string {
	if scope.IsAnonymous() {
		return anonymousDir
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, scope.UserID)
}

// Upload stores data as {scope}/{kind}/{unix-millis}.{ext} and returns its
// public URL.
func (b *Bucket) Upload(ctx context.Context, data []byte, kind models.MediaKind, scope models.Scope, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !kind.Valid() {
		return "", domainerrors.Validationf("unknown media kind %q", kind)
	}
	if len(data) == 0 {
		return "", domainerrors.Validation("empty upload")
	}
	if len(data) > MaxUploadSize {
		return "", domainerrors.Validationf("upload exceeds %d bytes", MaxUploadSize)
	}
	ext, err := detect(data, kind)
	if err != nil {
		return "", err
	}

	dir := path.Join(scopeDir(scope), string(kind))
	if err := os.MkdirAll(filepath.Join(b.Dir(), filepath.FromSlash(dir)), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	// Millisecond names can collide; step forward until a free one is found.
	millis := b.now().UnixMilli()
	for {
		objectPath := path.Join(dir, strconv.FormatInt(millis, 10)+"."+ext)
		f, err := os.OpenFile(filepath.Join(b.Dir(), filepath.FromSlash(objectPath)), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			millis++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create media object: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write media object: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close media object: %w", err)
		}

		b.logger.Debug("media uploaded",
			zap.String("path", objectPath),
			zap.String("filename", filename),
			zap.Int("size", len(data)),
		)
		return b.URL(objectPath), nil
	}
}

// URL returns the public URL of an object path.
func (b *Bucket) URL(objectPath string) string {
	return b.publicURL + "/media/" + b.name + "/" + objectPath
}

// ObjectPath extracts the object path from a public URL. It reports false
// when the URL is not inside this bucket or is not a clean relative path.
func (b *Bucket) ObjectPath(rawURL string) (string, bool) {
	marker := "/" + b.name + "/"
	i := strings.Index(rawURL, marker)
	if i < 0 {
		return "", false
	}
	p := rawURL[i+len(marker):]
	if j := strings.IndexAny(p, "?#"); j >= 0 {
		p = p[:j]
	}
	p, err := url.PathUnescape(p)
	if err != nil || !fs.ValidPath(p) || p == "." {
		return "", false
	}
	return p, true
}

// Delete removes the object behind rawURL. Foreign or malformed URLs and
// missing objects report false without an error.
func (b *Bucket) Delete(ctx context.Context, rawURL string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, ok := b.ObjectPath(rawURL)
	if !ok {
		b.logger.Debug("media url outside bucket", zap.String("url", rawURL))
		return false, nil
	}
	full := filepath.Join(b.Dir(), filepath.FromSlash(p))
	info, err := os.Lstat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat media object: %w", err)
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	if err := os.Remove(full); err != nil {
		return false, fmt.Errorf("delete media object: %w", err)
	}
	return true, nil
}
