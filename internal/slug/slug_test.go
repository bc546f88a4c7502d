package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type takenSet struct {
	taken map[string]bool
	calls int
	err   error
}

func (s *takenSet) ExistsBy(_ context.Context, field, value string) (bool, error) {
	s.calls++
	if field != "slug" {
		return false, errors.New("unexpected field " + field)
	}
	if s.err != nil {
		return false, s.err
	}
	return s.taken[value], nil
}

type alwaysTaken struct{ calls int }

func (a *alwaysTaken) ExistsBy(context.Context, string, string) (bool, error) {
	a.calls++
	return true, nil
}

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Go: Tips & Tricks!  ", "go-tips-and-tricks"},
		{"Crème Brûlée", "creme-brulee"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestGenerator_Unique(t *testing.T) {
	tests := []struct {
		name      string
		taken     []string
		want      string
		wantCalls int
	}{
		{"free base", nil, "hello-world", 1},
		{"base taken", []string{"hello-world"}, "hello-world-1", 2},
		{"gap is reused", []string{"hello-world", "hello-world-1", "hello-world-3"}, "hello-world-2", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := &takenSet{taken: map[string]bool{}}
			for _, s := range tt.taken {
				set.taken[s] = true
			}

			got, err := NewGenerator(set).Unique(context.Background(), "Hello World")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, set.calls)
		})
	}
}

func TestGenerator_UniqueGivesUpAtCap(t *testing.T) {
	store := &alwaysTaken{}

	got, err := NewGenerator(store).Unique(context.Background(), "Busy")
	require.NoError(t, err)
	assert.Equal(t, "busy-1000", got)
	assert.Equal(t, MaxSuffix, store.calls)
}

func TestGenerator_UniqueErrors(t *testing.T) {
	_, err := NewGenerator(&takenSet{}).Unique(context.Background(), "???")
	assert.ErrorIs(t, err, ErrEmpty)

	boom := errors.New("db down")
	_, err = NewGenerator(&takenSet{err: boom}).Unique(context.Background(), "Hello")
	assert.ErrorIs(t, err, boom)
}
