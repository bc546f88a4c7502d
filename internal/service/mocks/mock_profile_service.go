package mocks

import (
	"context"

	"cmsapi/internal/model"
	"cmsapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockProfileService struct {
	mock.Mock
}

var _ service.ProfileService = (*MockProfileService)(nil)

func (m *MockProfileService) GetMine(ctx context.Context, userID string) (*model.ProfileView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfileView), args.Error(1)
}

func (m *MockProfileService) UpdateMine(ctx context.Context, caller service.Caller, in service.ProfileUpdate) (*model.ProfileView, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfileView), args.Error(1)
}

func (m *MockProfileService) List(ctx context.Context) ([]model.ProfileView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProfileView), args.Error(1)
}

func (m *MockProfileService) Get(ctx context.Context, id string) (*model.ProfileView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfileView), args.Error(1)
}

func (m *MockProfileService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
