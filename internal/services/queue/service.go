package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/KirkDiggler/pickup/internal/common/clock"
	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	matchRepo "github.com/KirkDiggler/pickup/internal/repositories/match"
	playerRepo "github.com/KirkDiggler/pickup/internal/repositories/player"
	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"go.uber.org/zap"
)

// service implements the Service interface
type service struct {
	registry   *matchqueue.Registry
	playerRepo playerRepo.Repository
	matchRepo  matchRepo.Repository
	rooms      platform.Rooms
	clock      clock.Clock
	logger     *zap.Logger

	// results serializes ReportResult so a match is stamped at most once
	results sync.Mutex
}

// New creates a new queue service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}
	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}
	if cfg.MatchRepo == nil {
		return nil, ErrNilMatchRepo
	}
	if cfg.Rooms == nil {
		return nil, ErrNilRooms
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		registry:   cfg.Registry,
		playerRepo: cfg.PlayerRepo,
		matchRepo:  cfg.MatchRepo,
		rooms:      cfg.Rooms,
		clock:      cfg.Clock,
		logger:     logger,
	}, nil
}

func summarize(q *matchqueue.MatchQueue) *QueueSummary {
	return &QueueSummary{
		ID:             q.ID(),
		Key:            q.Key(),
		TeamSize:       q.TeamSize(),
		Capacity:       q.Capacity(),
		Progress:       q.Progress(),
		Players:        q.Players(),
		DraftChannelID: q.Resources().DraftChannelID,
	}
}

// findQueue resolves a channel to its queue. Commands sent from a queue's
// draft channel resolve to that queue too.
func (s *service) findQueue(guildID, channelID string) (*matchqueue.MatchQueue, error) {
	if q, ok := s.registry.LookupChannel(guildID, channelID); ok {
		return q, nil
	}
	for _, q := range s.registry.ListByCommunity(guildID) {
		if q.Resources().DraftChannelID == channelID {
			return q, nil
		}
	}
	return nil, matchqueue.ErrNoActiveQueue
}

// CreateQueue opens a queue in a channel
func (s *service) CreateQueue(ctx context.Context, input *CreateQueueInput) (*CreateQueueOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	q, err := s.registry.Create(models.QueueKey{
		GuildID:   input.GuildID,
		ChannelID: input.ChannelID,
		Game:      input.Game,
	}, input.TeamSize)
	if err != nil {
		return nil, err
	}

	s.logger.Info("queue opened",
		zap.String("queue", q.Key().String()),
		zap.String("creator", input.CreatorName))

	return &CreateQueueOutput{
		Queue: summarize(q),
	}, nil
}

// ResetQueue replaces the channel's queue once it is safe to do so: nobody
// mid-queue, no session running, and both team rooms empty.
func (s *service) ResetQueue(ctx context.Context, input *ResetQueueInput) (*ResetQueueOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	q, err := s.findQueue(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	switch progress := q.Progress(); {
	case progress == models.ProgressFilling:
		return nil, ErrQueueInProgress
	case progress == models.ProgressFilled,
		progress == models.ProgressRollCallComplete,
		progress.IsSessionRunning():
		return nil, ErrSessionInProgress
	}

	occupied, err := s.teamRoomsOccupied(ctx, q)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, ErrTeamRoomsOccupied
	}

	fresh, err := s.registry.Reset(ctx, q.Key(), input.TeamSize, input.Game)
	if err != nil {
		return nil, err
	}

	return &ResetQueueOutput{
		Queue: summarize(fresh),
	}, nil
}

func (s *service) teamRoomsOccupied(ctx context.Context, q *matchqueue.MatchQueue) (bool, error) {
	resources := q.Resources()
	for _, roomID := range []string{resources.Team1RoomID, resources.Team2RoomID} {
		if roomID == "" {
			continue
		}

		occupants, err := s.rooms.RoomOccupants(ctx, q.Key().GuildID, roomID)
		if err != nil {
			if errors.Is(err, platform.ErrResourceMissing) {
				continue
			}
			return false, fmt.Errorf("failed to check team room: %w", err)
		}
		if len(occupants) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// JoinQueue adds the caller to the channel's queue, creating their record on first sight
func (s *service) JoinQueue(ctx context.Context, input *JoinQueueInput) (*JoinQueueOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	q, err := s.findQueue(input.GuildID, input.ChannelID)
	if err != nil {
		if others := s.registry.ListByCommunity(input.GuildID); len(others) > 0 {
			return &JoinQueueOutput{
				RedirectChannelID: others[0].Key().ChannelID,
			}, nil
		}
		return nil, err
	}

	player, err := s.resolvePlayer(ctx, input, q.Game())
	if err != nil {
		return nil, err
	}

	result, err := q.Join(player)
	if err != nil {
		return nil, err
	}

	return &JoinQueueOutput{
		Queue:         summarize(q),
		Player:        player,
		Filled:        result.Filled,
		AlreadyFilled: result.AlreadyFilled,
	}, nil
}

// resolvePlayer loads the caller's record, creating or renaming it as needed
func (s *service) resolvePlayer(ctx context.Context, input *JoinQueueInput, game string) (*models.PlayerRecord, error) {
	player, err := s.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
		PlayerID: input.UserID,
		GuildID:  input.GuildID,
		Game:     game,
	})
	if err != nil && !errors.Is(err, playerRepo.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if player != nil && player.Name == input.UserName && player.DisplayName == input.DisplayName {
		return player, nil
	}

	if player == nil {
		player = &models.PlayerRecord{
			ID:      input.UserID,
			GuildID: input.GuildID,
			Game:    game,
		}
	}
	player.Name = input.UserName
	player.DisplayName = input.DisplayName

	if err := s.playerRepo.SavePlayer(ctx, &playerRepo.SavePlayerInput{
		Player: player,
	}); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}

	return player, nil
}

// LeaveQueue removes the caller from the channel's queue
func (s *service) LeaveQueue(ctx context.Context, input *LeaveQueueInput) (*LeaveQueueOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	q, err := s.findQueue(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	if _, err := q.Leave(input.UserID); err != nil {
		return nil, err
	}

	return &LeaveQueueOutput{
		Queue: summarize(q),
	}, nil
}

// KickPlayer votes to remove a player. A confirmed kick on a filled queue
// resets it without the reset guard rails.
func (s *service) KickPlayer(ctx context.Context, input *KickPlayerInput) (*KickPlayerOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	q, err := s.findQueue(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	result, err := q.Kick(input.CallerID, input.TargetName)
	if err != nil {
		return nil, err
	}

	output := &KickPlayerOutput{
		Outcome: result.Outcome,
		Target:  result.Target,
		Queue:   summarize(q),
	}

	if result.Outcome == matchqueue.KickQueueReset {
		fresh, err := s.registry.Reset(ctx, q.Key(), nil, nil)
		if err != nil {
			return nil, err
		}
		output.Queue = summarize(fresh)
	}

	return output, nil
}

// GetRollCall lists the community's queues
func (s *service) GetRollCall(ctx context.Context, input *GetRollCallInput) (*GetRollCallOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	queues := s.registry.ListByCommunity(input.GuildID)
	if len(queues) == 0 {
		return nil, matchqueue.ErrNoActiveQueue
	}

	output := &GetRollCallOutput{
		Queues: make([]*QueueSummary, 0, len(queues)),
	}
	for _, q := range queues {
		output.Queues = append(output.Queues, summarize(q))
	}
	return output, nil
}

// Shutdown closes every queue
func (s *service) Shutdown(ctx context.Context, input *ShutdownInput) (*ShutdownOutput, error) {
	closed := len(s.registry.All())

	if err := s.registry.CloseAll(ctx); err != nil {
		s.logger.Warn("failed to clean up every queue", zap.Error(err))
	}

	return &ShutdownOutput{
		Closed: closed,
	}, nil
}
