package match

import "github.com/KirkDiggler/pickup/internal/models"

// SaveMatchInput contains parameters for saving a match
type SaveMatchInput struct {
	Match *models.MatchRecord
}

// GetMatchInput contains parameters for retrieving a match
type GetMatchInput struct {
	MatchID string
}

// ListMatchesInput contains parameters for listing matches
type ListMatchesInput struct {
	GuildID string

	// Limit caps the number of records returned, 0 means all
	Limit int
}

// ListMatchesOutput contains the listed matches
type ListMatchesOutput struct {
	Matches []*models.MatchRecord
}
