// Package media turns request uploads into publicly readable objects and undoes them on failure.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"cmsapi/internal/slug"
	"cmsapi/internal/storage"
)

// Cleanup is the outcome of one best-effort object delete.
type Cleanup struct {
	Key string `json:"key"`
	Err error  `json:"-"`
}

// Compensation records what a failed workflow tried to undo.
type Compensation struct {
	FileIDs       []string
	FileDeleteErr error
	PostID        string
	PostDeleteErr error
	Blobs         []Cleanup
}

// Failed reports whether any undo step itself failed.
func (c Compensation) Failed() bool {
	if c.FileDeleteErr != nil || c.PostDeleteErr != nil {
		return true
	}
	for _, b := range c.Blobs {
		if b.Err != nil {
			return true
		}
	}
	return false
}

// Fields renders the outcome for structured logging.
func (c Compensation) Fields() []zap.Field {
	var failed []string
	for _, b := range c.Blobs {
		if b.Err != nil {
			failed = append(failed, b.Key)
		}
	}
	fields := []zap.Field{
		zap.Strings("file_ids", c.FileIDs),
		zap.Int("blobs", len(c.Blobs)),
		zap.Strings("blobs_failed", failed),
	}
	if c.FileDeleteErr != nil {
		fields = append(fields, zap.NamedError("file_delete_error", c.FileDeleteErr))
	}
	if c.PostID != "" {
		fields = append(fields, zap.String("post_id", c.PostID))
	}
	if c.PostDeleteErr != nil {
		fields = append(fields, zap.NamedError("post_delete_error", c.PostDeleteErr))
	}
	return fields
}

// Uploader writes public-read objects and derives their public URLs.
type Uploader struct {
	store      storage.Storage
	publicBase string
	log        *zap.Logger
}

// NewUploader builds an Uploader. publicBase is joined with object keys to form URLs.
func NewUploader(store storage.Storage, publicBase string, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{
		store:      store,
		publicBase: strings.TrimRight(publicBase, "/"),
		log:        log,
	}
}

// Put stores r under key with public-read access and returns its public URL.
func (u *Uploader) Put(ctx context.Context, key string, r io.Reader, size int64, mime string) (string, error) {
	if _, err := u.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: mime,
		PublicRead:  true,
	}); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return u.PublicURL(key), nil
}

// Delete removes key. Failures are logged and reported, never returned.
func (u *Uploader) Delete(ctx context.Context, key string) Cleanup {
	err := u.store.Delete(ctx, key)
	if err != nil {
		u.log.Warn("object_delete_failed", zap.String("key", key), zap.Error(err))
	}
	return Cleanup{Key: key, Err: err}
}

// DeleteAll removes every key in order.
func (u *Uploader) DeleteAll(ctx context.Context, keys []string) []Cleanup {
	out := make([]Cleanup, 0, len(keys))
	for _, k := range keys {
		out = append(out, u.Delete(ctx, k))
	}
	return out
}

// PublicURL is a pure function of the configured base and the key.
func (u *Uploader) PublicURL(key string) string {
	return u.publicBase + "/" + key
}

// ObjectKey builds {category}/{sub}/{ownerID}/{unixMillis}-{slug(name)}.{ext}. Empty sub is omitted;
// a name with no sluggable characters becomes "file".
func ObjectKey(category, sub, ownerID string, t time.Time, name, ext string) string {
	base := slug.Make(name)
	if base == "" {
		base = "file"
	}
	file := strconv.FormatInt(t.UnixMilli(), 10) + "-" + base
	if ext != "" {
		file += "." + ext
	}
	parts := []string{category}
	if sub != "" {
		parts = append(parts, sub)
	}
	parts = append(parts, ownerID, file)
	return strings.Join(parts, "/")
}

// SplitName separates an original filename into its stem and extension (without the dot).
func SplitName(filename string) (stem, ext string) {
	ext = path.Ext(filename)
	stem = strings.TrimSuffix(filename, ext)
	return stem, strings.TrimPrefix(ext, ".")
}
