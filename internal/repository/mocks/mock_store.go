package mocks

import (
	"context"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock for repository.Store over any document type.
type MockStore[T repository.Document] struct {
	mock.Mock
}

var _ repository.PostRepository = (*MockStore[model.Post])(nil)

func (m *MockStore[T]) Create(ctx context.Context, doc *T) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func([]string) []T); ok {
		return f(ids), args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockStore[T]) FindOneBy(ctx context.Context, field, value string) (*T, error) {
	args := m.Called(ctx, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) ExistsBy(ctx context.Context, field, value string) (bool, error) {
	args := m.Called(ctx, field, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore[T]) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[T], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[T]), args.Error(1)
}

func (m *MockStore[T]) Replace(ctx context.Context, id string, doc *T) error {
	args := m.Called(ctx, id, doc)
	return args.Error(0)
}

func (m *MockStore[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore[T]) DeleteMany(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
