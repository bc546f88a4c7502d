// Package repository contains data access layer abstractions.
// Implementations live in subpackages (mongodb, postgres) inside this directory.
package repository

import (
	"context"
	"errors"

	"cmsapi/internal/model"
)

var (
	// ErrNotFound is returned when no document matches the lookup.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint (e.g. Post.slug).
	ErrDuplicate = errors.New("duplicate key")
)

// Document is implemented by every persisted model type.
type Document interface {
	DocumentID() string
	CollectionName() string
}

// Store is a document collection keyed by string id.
// No business logic here, strictly persistence operations.
type Store[T Document] interface {
	// Create inserts doc. It returns ErrDuplicate when a unique index rejects it.
	Create(ctx context.Context, doc *T) error

	// FindByID returns the document with the given id or ErrNotFound.
	FindByID(ctx context.Context, id string) (*T, error)

	// FindByIDs returns the documents whose ids are in ids. Unknown ids are skipped; order is unspecified.
	FindByIDs(ctx context.Context, ids []string) ([]T, error)

	// FindOneBy returns the first document whose top-level field equals value, or ErrNotFound.
	FindOneBy(ctx context.Context, field, value string) (*T, error)

	// ExistsBy reports whether any document has field equal to value.
	ExistsBy(ctx context.Context, field, value string) (bool, error)

	// List returns a page of documents, newest first, and the total count. Limit <= 0 means no limit.
	List(ctx context.Context, pq PageQuery) (*PageResult[T], error)

	// Replace overwrites the document with the given id or returns ErrNotFound.
	Replace(ctx context.Context, id string, doc *T) error

	// Delete removes the document with the given id or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes all documents whose ids are in ids. Missing ids are ignored.
	DeleteMany(ctx context.Context, ids []string) error
}

type (
	PostRepository     = Store[model.Post]
	FileRepository     = Store[model.File]
	CategoryRepository = Store[model.Category]
	TagRepository      = Store[model.Tag]
	UserRepository     = Store[model.User]
	ProfileRepository  = Store[model.UserProfile]
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
