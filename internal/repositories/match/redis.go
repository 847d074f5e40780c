package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	matchKeyPrefix        = "match:"
	guildMatchesKeyPrefix = "guild_matches:"
)

// ErrMatchNotFound is returned when a match record is not found
var ErrMatchNotFound = errors.New("match not found")

// Config holds configuration for the Redis match repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed match history
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveMatch persists a match record
func (r *redisRepository) SaveMatch(ctx context.Context, input *SaveMatchInput) error {
	if input == nil || input.Match == nil {
		return errors.New("input or match cannot be nil")
	}

	match := input.Match
	if match.ID == "" || match.GuildID == "" {
		return errors.New("match ID and guild ID cannot be empty")
	}

	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, matchKeyPrefix+match.ID, matchJSON, 0)
	pipe.ZAdd(ctx, guildMatchesKeyPrefix+match.GuildID, redis.Z{
		Score:  float64(match.ReadyAt.UnixNano()),
		Member: match.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

// GetMatch retrieves a match record from Redis
func (r *redisRepository) GetMatch(ctx context.Context, input *GetMatchInput) (*models.MatchRecord, error) {
	if input == nil || input.MatchID == "" {
		return nil, errors.New("input or match ID cannot be empty")
	}

	matchJSON, err := r.client.Get(ctx, matchKeyPrefix+input.MatchID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	var match models.MatchRecord
	if err := json.Unmarshal([]byte(matchJSON), &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &match, nil
}

// ListMatches lists a guild's match history, newest first
func (r *redisRepository) ListMatches(ctx context.Context, input *ListMatchesInput) (*ListMatchesOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input or guild ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	matchIDs, err := r.client.ZRevRange(ctx, guildMatchesKeyPrefix+input.GuildID, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get match IDs: %w", err)
	}

	matches := make([]*models.MatchRecord, 0, len(matchIDs))
	for _, matchID := range matchIDs {
		match, err := r.GetMatch(ctx, &GetMatchInput{
			MatchID: matchID,
		})
		if err != nil {
			if errors.Is(err, ErrMatchNotFound) {
				continue
			}
			return nil, err
		}

		matches = append(matches, match)
	}

	return &ListMatchesOutput{
		Matches: matches,
	}, nil
}
