// Package slug derives URL-safe identifiers from titles and names.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	gslug "github.com/gosimple/slug"
)

// MaxSuffix bounds the uniqueness probe. When base and base-1 .. base-(MaxSuffix-1) are all
// taken, base-MaxSuffix is returned without being checked.
const MaxSuffix = 1000

// ErrEmpty is returned when the source text has no sluggable characters.
var ErrEmpty = errors.New("slug: empty")

// Make lowercases text, strips non-alphanumerics and joins words with "-".
func Make(text string) string {
	return gslug.Make(text)
}

// Exister reports whether a document with field == value already exists.
type Exister interface {
	ExistsBy(ctx context.Context, field, value string) (bool, error)
}

// Generator produces slugs that are unique within one collection.
type Generator struct {
	store Exister
	field string
}

// NewGenerator probes the "slug" field of store.
func NewGenerator(store Exister) *Generator {
	return &Generator{store: store, field: "slug"}
}

// Unique returns Make(text) if free, otherwise the first free base-N with N < MaxSuffix,
// otherwise base-MaxSuffix. At most MaxSuffix lookups are made. The check is not atomic with the later insert.
func (g *Generator) Unique(ctx context.Context, text string) (string, error) {
	base := Make(text)
	if base == "" {
		return "", ErrEmpty
	}

	candidate := base
	for i := 1; i <= MaxSuffix; i++ {
		taken, err := g.store.ExistsBy(ctx, g.field, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return base + "-" + strconv.Itoa(MaxSuffix), nil
}
