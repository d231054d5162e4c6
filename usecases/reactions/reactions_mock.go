package reactions

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Curva95/discord-bot/models"
)

// MockReactionsUseCase is a mock implementation of the ReactionsUseCaseInterface
type MockReactionsUseCase struct {
	mock.Mock
}

func (m *MockReactionsUseCase) HandleReactionEvent(
	ctx context.Context,
	event models.ReactionEvent,
) (models.ReconcileOutcome, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.ReconcileOutcome), args.Error(1)
}

func (m *MockReactionsUseCase) HandleMessageDeleted(ctx context.Context, scopeID, messageID string) error {
	args := m.Called(ctx, scopeID, messageID)
	return args.Error(0)
}
