package match

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/pickup/internal/repositories/match Repository

import (
	"context"

	"github.com/KirkDiggler/pickup/internal/models"
)

// Repository stores the history of drafted matches
type Repository interface {
	// SaveMatch persists a match record and indexes it for its guild
	SaveMatch(ctx context.Context, input *SaveMatchInput) error

	// GetMatch retrieves a match record by ID
	GetMatch(ctx context.Context, input *GetMatchInput) (*models.MatchRecord, error)

	// ListMatches lists a guild's matches, newest first
	ListMatches(ctx context.Context, input *ListMatchesInput) (*ListMatchesOutput, error)
}
