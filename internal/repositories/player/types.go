package player

import "github.com/KirkDiggler/pickup/internal/models"

// SavePlayerInput contains parameters for saving a player
type SavePlayerInput struct {
	Player *models.PlayerRecord
}

// GetPlayerInput contains parameters for retrieving a player
type GetPlayerInput struct {
	PlayerID string
	GuildID  string
	Game     string
}

// ListPlayersInput contains parameters for loading the directory
type ListPlayersInput struct {
	// GuildID limits the result to one guild when set
	GuildID string
}

// ListPlayersOutput contains the loaded records
type ListPlayersOutput struct {
	Players []*models.PlayerRecord
}

// SavePlayersInput contains the records to persist
type SavePlayersInput struct {
	Players []*models.PlayerRecord
}
