package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	playerKeyPrefix       = "player:"
	guildPlayersKeyPrefix = "guild_players:"
	allPlayersKey         = "players"
)

// ErrPlayerNotFound is returned when a player is not found
var ErrPlayerNotFound = errors.New("player not found")

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player directory
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

func playerKey(guildID, game, playerID string) string {
	return fmt.Sprintf("%s%s:%s:%s", playerKeyPrefix, guildID, game, playerID)
}

// queueSave adds the writes for one record to a pipeline
func queueSave(ctx context.Context, pipe redis.Pipeliner, player *models.PlayerRecord) error {
	if player == nil {
		return errors.New("player cannot be nil")
	}

	if player.ID == "" || player.GuildID == "" {
		return errors.New("player ID and guild ID cannot be empty")
	}

	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	key := playerKey(player.GuildID, player.Game, player.ID)
	pipe.Set(ctx, key, playerJSON, 0)
	pipe.SAdd(ctx, allPlayersKey, key)
	pipe.SAdd(ctx, guildPlayersKeyPrefix+player.GuildID, key)
	return nil
}

// SavePlayer persists a player to Redis
func (r *redisRepository) SavePlayer(ctx context.Context, input *SavePlayerInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	pipe := r.client.TxPipeline()
	if err := queueSave(ctx, pipe, input.Player); err != nil {
		return err
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}

	return nil
}

// SavePlayers persists every record in a single transaction
func (r *redisRepository) SavePlayers(ctx context.Context, input *SavePlayersInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if len(input.Players) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, player := range input.Players {
		if err := queueSave(ctx, pipe, player); err != nil {
			return err
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save players: %w", err)
	}

	return nil
}

// GetPlayer retrieves a player from Redis
func (r *redisRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.PlayerRecord, error) {
	if input == nil || input.PlayerID == "" || input.GuildID == "" {
		return nil, errors.New("input, player ID and guild ID cannot be empty")
	}

	playerJSON, err := r.client.Get(ctx, playerKey(input.GuildID, input.Game, input.PlayerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	var player models.PlayerRecord
	if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &player, nil
}

// ListPlayers loads the directory, sorted by guild, game and ID
func (r *redisRepository) ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error) {
	indexKey := allPlayersKey
	if input != nil && input.GuildID != "" {
		indexKey = guildPlayersKeyPrefix + input.GuildID
	}

	keys, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player keys: %w", err)
	}

	if len(keys) == 0 {
		return &ListPlayersOutput{
			Players: []*models.PlayerRecord{},
		}, nil
	}

	pipe := r.client.Pipeline()
	commands := make(map[string]*redis.StringCmd, len(keys))
	for _, key := range keys {
		commands[key] = pipe.Get(ctx, key)
	}

	// A key removed between SMEMBERS and GET surfaces as redis.Nil on its command
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	players := make([]*models.PlayerRecord, 0, len(keys))
	for key, cmd := range commands {
		playerJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get player %s: %w", key, err)
		}

		var player models.PlayerRecord
		if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player %s: %w", key, err)
		}

		players = append(players, &player)
	}

	sort.Slice(players, func(i, j int) bool {
		return playerKey(players[i].GuildID, players[i].Game, players[i].ID) <
			playerKey(players[j].GuildID, players[j].Game, players[j].ID)
	})

	return &ListPlayersOutput{
		Players: players,
	}, nil
}
