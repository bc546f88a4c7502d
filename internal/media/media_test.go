package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cmsapi/internal/storage"
	storeMocks "cmsapi/internal/storage/mocks"
)

func TestObjectKey(t *testing.T) {
	ts := time.UnixMilli(1700000000123)

	tests := []struct {
		name                      string
		category, sub, owner, ext string
		file                      string
		want                      string
	}{
		{"thumbnail", "posts", "thumbnails", "u1", "png", "Hello World", "posts/thumbnails/u1/1700000000123-hello-world.png"},
		{"attachment", "posts", "files", "u1", "pdf", "Q3 Report (final)", "posts/files/u1/1700000000123-q3-report-final.pdf"},
		{"avatar without sub", "avatars", "", "u2", "jpg", "Jane Doe", "avatars/u2/1700000000123-jane-doe.jpg"},
		{"unsluggable name", "posts", "files", "u1", "txt", "!!!", "posts/files/u1/1700000000123-file.txt"},
		{"no extension", "posts", "files", "u1", "", "README", "posts/files/u1/1700000000123-readme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.category, tt.sub, tt.owner, ts, tt.file, tt.ext))
		})
	}
}

func TestSplitName(t *testing.T) {
	stem, ext := SplitName("photo.final.JPG")
	assert.Equal(t, "photo.final", stem)
	assert.Equal(t, "JPG", ext)

	stem, ext = SplitName("Makefile")
	assert.Equal(t, "Makefile", stem)
	assert.Equal(t, "", ext)
}

func TestUploader_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("public read and url", func(t *testing.T) {
		st := new(storeMocks.MockStorage)
		r := strings.NewReader("data")
		st.On("Put", ctx, "posts/files/u1/1-a.txt", r, storage.PutObjectOptions{
			Size:        4,
			ContentType: "text/plain",
			PublicRead:  true,
		}).Return(storage.ObjectInfo{Key: "posts/files/u1/1-a.txt"}, nil)

		u := NewUploader(st, "https://cdn.example.com/", nil)
		url, err := u.Put(ctx, "posts/files/u1/1-a.txt", r, 4, "text/plain")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/posts/files/u1/1-a.txt", url)
		st.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		st := new(storeMocks.MockStorage)
		boom := errors.New("bucket gone")
		st.On("Put", ctx, "k", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, boom)

		_, err := NewUploader(st, "https://cdn", nil).Put(ctx, "k", strings.NewReader(""), 0, "")
		assert.ErrorIs(t, err, boom)
	})
}

func TestUploader_DeleteNeverPropagates(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)

	st := new(storeMocks.MockStorage)
	st.On("Delete", ctx, "a").Return(nil)
	st.On("Delete", ctx, "b").Return(errors.New("denied"))

	u := NewUploader(st, "https://cdn", zap.New(core))
	out := u.DeleteAll(ctx, []string{"a", "b"})

	require.Len(t, out, 2)
	assert.NoError(t, out[0].Err)
	assert.EqualError(t, out[1].Err, "denied")
	assert.Equal(t, 1, logs.FilterMessage("object_delete_failed").Len())
}

func TestCompensation(t *testing.T) {
	clean := Compensation{FileIDs: []string{"f1"}, Blobs: []Cleanup{{Key: "a"}}}
	assert.False(t, clean.Failed())

	dirty := Compensation{Blobs: []Cleanup{{Key: "a"}, {Key: "b", Err: errors.New("x")}}}
	assert.True(t, dirty.Failed())
	assert.NotEmpty(t, dirty.Fields())

	assert.True(t, Compensation{FileDeleteErr: errors.New("x")}.Failed())
}
