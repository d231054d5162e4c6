package usecases

import (
	"context"

	"github.com/Curva95/discord-bot/models"
)

// ReactionsUseCaseInterface defines the interface for reaction reconciliation
type ReactionsUseCaseInterface interface {
	HandleReactionEvent(ctx context.Context, event models.ReactionEvent) (models.ReconcileOutcome, error)
	HandleMessageDeleted(ctx context.Context, scopeID, messageID string) error
}

// AdminUseCaseInterface defines the interface for binding administration commands
type AdminUseCaseInterface interface {
	ExecuteCommand(ctx context.Context, req models.CommandRequest, cmd models.Command) models.CommandResult
}
