package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMIME(t *testing.T) {
	tests := []struct {
		mime string
		want FileType
	}{
		{"image/png", FileTypeImage},
		{"image/jpeg", FileTypeImage},
		{"video/mp4", FileTypeVideo},
		{"application/pdf", FileTypeFile},
		{"text/plain", FileTypeFile},
		{"", FileTypeFile},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyMIME(tt.mime), tt.mime)
	}
}

func TestPostTypeValid(t *testing.T) {
	for _, v := range []PostType{"post", "page", "article", "news", "video"} {
		assert.True(t, v.Valid(), v)
	}
	assert.False(t, PostType("podcast").Valid())
	assert.False(t, PostType("").Valid())
}

func TestPostStatusValid(t *testing.T) {
	for _, v := range []PostStatus{"draft", "published", "scheduled"} {
		assert.True(t, v.Valid(), v)
	}
	assert.False(t, PostStatus("archived").Valid())
}

func TestGenderValid(t *testing.T) {
	assert.True(t, GenderOther.Valid())
	assert.False(t, Gender("unknown").Valid())
}
