package mocks

import (
	"context"

	"cmsapi/internal/model"
	"cmsapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockPostService struct {
	mock.Mock
}

var _ service.PostService = (*MockPostService)(nil)

func (m *MockPostService) Create(ctx context.Context, in service.CreatePostInput) (*model.PostView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PostView), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, id string) (*model.PostView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PostView), args.Error(1)
}
