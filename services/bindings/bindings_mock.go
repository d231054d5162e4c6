package bindings

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/Curva95/discord-bot/models"
)

// MockBindingsService is a mock implementation of the BindingsService interface
type MockBindingsService struct {
	mock.Mock
}

func (m *MockBindingsService) UpsertBinding(
	ctx context.Context,
	scopeID, channelID, messageID, emojiKey, roleID string,
) (*models.Binding, error) {
	args := m.Called(ctx, scopeID, channelID, messageID, emojiKey, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Binding), args.Error(1)
}

func (m *MockBindingsService) DeleteBinding(ctx context.Context, scopeID, messageID string) (int64, error) {
	args := m.Called(ctx, scopeID, messageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBindingsService) LookupBinding(
	ctx context.Context,
	scopeID, messageID, emojiKey string,
) (mo.Option[string], error) {
	args := m.Called(ctx, scopeID, messageID, emojiKey)
	return args.Get(0).(mo.Option[string]), args.Error(1)
}

func (m *MockBindingsService) ListBindings(ctx context.Context, scopeID string) ([]*models.Binding, error) {
	args := m.Called(ctx, scopeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Binding), args.Error(1)
}

func (m *MockBindingsService) SetAuditDestination(ctx context.Context, scopeID, channelID string) error {
	args := m.Called(ctx, scopeID, channelID)
	return args.Error(0)
}

func (m *MockBindingsService) GetAuditDestination(ctx context.Context, scopeID string) (mo.Option[string], error) {
	args := m.Called(ctx, scopeID)
	return args.Get(0).(mo.Option[string]), args.Error(1)
}

func (m *MockBindingsService) CheckHealth(ctx context.Context) (*models.StoreHealth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoreHealth), args.Error(1)
}
