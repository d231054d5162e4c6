package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Curva95/discord-bot/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) FetchMessage(
	ctx context.Context,
	channelID, messageID string,
) (*models.DiscordMessage, error) {
	args := m.Called(ctx, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordMessage), args.Error(1)
}

func (m *MockDiscordClient) GetRole(ctx context.Context, guildID, roleID string) (*models.DiscordRole, error) {
	args := m.Called(ctx, guildID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordRole), args.Error(1)
}

func (m *MockDiscordClient) GetChannel(ctx context.Context, channelID string) (*models.DiscordChannel, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordChannel), args.Error(1)
}

func (m *MockDiscordClient) GetMember(ctx context.Context, guildID, userID string) (*models.DiscordMember, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordMember), args.Error(1)
}

func (m *MockDiscordClient) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockDiscordClient) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockDiscordClient) AddReaction(ctx context.Context, channelID, messageID, emojiKey string) error {
	args := m.Called(ctx, channelID, messageID, emojiKey)
	return args.Error(0)
}

func (m *MockDiscordClient) SendAuditRecord(ctx context.Context, channelID string, record models.AuditRecord) error {
	args := m.Called(ctx, channelID, record)
	return args.Error(0)
}
