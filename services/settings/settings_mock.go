package settings

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"
)

// MockSettingsService is a mock implementation of the SettingsService interface
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) UpsertBooleanSetting(ctx context.Context, scopeID, key string, value bool) error {
	args := m.Called(ctx, scopeID, key, value)
	return args.Error(0)
}

func (m *MockSettingsService) GetBooleanSetting(ctx context.Context, scopeID, key string) (mo.Option[bool], error) {
	args := m.Called(ctx, scopeID, key)
	return args.Get(0).(mo.Option[bool]), args.Error(1)
}

func (m *MockSettingsService) GetStringArraySetting(ctx context.Context, scopeID, key string) ([]string, error) {
	args := m.Called(ctx, scopeID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSettingsService) AddToStringArraySetting(
	ctx context.Context,
	scopeID, key, value string,
) (bool, error) {
	args := m.Called(ctx, scopeID, key, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsService) RemoveFromStringArraySetting(
	ctx context.Context,
	scopeID, key, value string,
) (bool, error) {
	args := m.Called(ctx, scopeID, key, value)
	return args.Bool(0), args.Error(1)
}
