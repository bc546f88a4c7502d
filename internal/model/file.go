package model

import (
	"strings"
	"time"
)

// FileType classifies an uploaded attachment.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
	FileTypeFile  FileType = "file"
)

// ClassifyMIME maps a MIME type to a FileType by its prefix.
func ClassifyMIME(mime string) FileType {
	switch {
	case strings.HasPrefix(mime, "image"):
		return FileTypeImage
	case strings.HasPrefix(mime, "video"):
		return FileTypeVideo
	default:
		return FileTypeFile
	}
}

// File is the record of one uploaded binary object.
type File struct {
	ID        string    `json:"id" bson:"_id"`
	User      string    `json:"user" bson:"user"`
	Type      FileType  `json:"type" bson:"type"`
	URL       string    `json:"url" bson:"url"`
	FileName  string    `json:"fileName" bson:"fileName"`
	MimeType  string    `json:"mimeType" bson:"mimeType"`
	Size      int64     `json:"size" bson:"size"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
