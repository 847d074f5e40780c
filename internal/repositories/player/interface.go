package player

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/pickup/internal/repositories/player Repository

import (
	"context"

	"github.com/KirkDiggler/pickup/internal/models"
)

// Repository is the Player Directory: a flat mapping from player identity to record
type Repository interface {
	// SavePlayer persists a player record
	SavePlayer(ctx context.Context, input *SavePlayerInput) error

	// GetPlayer retrieves a player record by ID within a guild and game
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.PlayerRecord, error)

	// ListPlayers loads every record, optionally limited to one guild
	ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error)

	// SavePlayers persists many records at once
	SavePlayers(ctx context.Context, input *SavePlayersInput) error
}
