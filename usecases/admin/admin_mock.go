package admin

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Curva95/discord-bot/models"
)

// MockAdminUseCase is a mock implementation of the AdminUseCaseInterface
type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) ExecuteCommand(
	ctx context.Context,
	req models.CommandRequest,
	cmd models.Command,
) models.CommandResult {
	args := m.Called(ctx, req, cmd)
	return args.Get(0).(models.CommandResult)
}
