package mocks

import (
	"context"

	"cmsapi/internal/model"
	"cmsapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCategoryService struct {
	mock.Mock
}

var _ service.CategoryService = (*MockCategoryService)(nil)

func (m *MockCategoryService) Create(ctx context.Context, in service.CategoryInput) (*model.CategoryView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CategoryView), args.Error(1)
}

func (m *MockCategoryService) List(ctx context.Context) ([]model.CategoryView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryView), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id string) (*model.CategoryView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CategoryView), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id string, in service.CategoryInput) (*model.CategoryView, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CategoryView), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTagService struct {
	mock.Mock
}

var _ service.TagService = (*MockTagService)(nil)

func (m *MockTagService) Create(ctx context.Context, in service.TagInput) (*model.Tag, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) List(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagService) Get(ctx context.Context, id string) (*model.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) Update(ctx context.Context, id string, in service.TagInput) (*model.Tag, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
