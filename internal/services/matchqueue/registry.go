package matchqueue

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/KirkDiggler/pickup/internal/models"
	"go.uber.org/zap"
)

// Factory builds an empty queue for a key
type Factory func(key models.QueueKey, teamSize int) (*MatchQueue, error)

// RegistryConfig holds the dependencies of a Registry
type RegistryConfig struct {
	Factory Factory

	// SinglePerGuild allows only one active queue per community
	SinglePerGuild bool

	Logger *zap.Logger
}

// Registry holds at most one active queue per community channel
type Registry struct {
	mu             sync.RWMutex
	queues         map[models.QueueKey]*MatchQueue
	factory        Factory
	singlePerGuild bool
	logger         *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *RegistryConfig) (*Registry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Factory == nil {
		return nil, ErrNilFactory
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		queues:         make(map[models.QueueKey]*MatchQueue),
		factory:        cfg.Factory,
		singlePerGuild: cfg.SinglePerGuild,
		logger:         logger,
	}, nil
}

// Create registers a new empty queue
func (r *Registry) Create(key models.QueueKey, teamSize int) (*MatchQueue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for existing := range r.queues {
		if existing.SameChannel(key) {
			return nil, ErrQueueAlreadyExists
		}
		if r.singlePerGuild && existing.GuildID == key.GuildID {
			return nil, ErrQueueAlreadyExists
		}
	}

	q, err := r.factory(key, teamSize)
	if err != nil {
		return nil, err
	}
	r.queues[key] = q

	r.logger.Info("queue created", zap.String("queue", key.String()), zap.Int("team_size", teamSize))
	return q, nil
}

// Reset replaces the channel's queue with a fresh empty one. Team size and
// game label carry over unless overridden. The old queue is closed.
func (r *Registry) Reset(ctx context.Context, key models.QueueKey, teamSize *int, game *string) (*MatchQueue, error) {
	r.mu.Lock()

	old, ok := r.lookupChannel(key.GuildID, key.ChannelID)
	if !ok {
		r.mu.Unlock()
		return nil, ErrNoActiveQueue
	}

	size := old.TeamSize()
	if teamSize != nil {
		size = *teamSize
	}
	newKey := old.Key()
	if game != nil {
		newKey = newKey.WithGame(*game)
	}

	q, err := r.factory(newKey, size)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	delete(r.queues, old.Key())
	r.queues[newKey] = q
	r.mu.Unlock()

	r.logger.Info("queue reset",
		zap.String("queue", newKey.String()),
		zap.String("previous_id", old.ID()),
		zap.Int("team_size", size))

	if err := old.Close(ctx); err != nil {
		r.logger.Warn("failed to clean up previous queue", zap.String("queue_id", old.ID()), zap.Error(err))
	}

	return q, nil
}

// Lookup returns the queue registered under exactly this key
func (r *Registry) Lookup(key models.QueueKey) (*MatchQueue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.queues[key]
	return q, ok
}

// LookupChannel returns the channel's queue whatever its game label
func (r *Registry) LookupChannel(guildID, channelID string) (*MatchQueue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupChannel(guildID, channelID)
}

func (r *Registry) lookupChannel(guildID, channelID string) (*MatchQueue, bool) {
	for key, q := range r.queues {
		if key.GuildID == guildID && key.ChannelID == channelID {
			return q, true
		}
	}
	return nil, false
}

// ListByCommunity returns every active queue of a community, ordered by key
func (r *Registry) ListByCommunity(guildID string) []*MatchQueue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*MatchQueue
	for key, q := range r.queues {
		if key.GuildID == guildID {
			out = append(out, q)
		}
	}
	sortQueues(out)
	return out
}

// All returns every active queue, ordered by key
func (r *Registry) All() []*MatchQueue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*MatchQueue, 0, len(r.queues))
	for _, q := range r.queues {
		out = append(out, q)
	}
	sortQueues(out)
	return out
}

// Remove closes and drops the queue registered under key
func (r *Registry) Remove(ctx context.Context, key models.QueueKey) error {
	r.mu.Lock()
	q, ok := r.queues[key]
	delete(r.queues, key)
	r.mu.Unlock()

	if !ok {
		return ErrNoActiveQueue
	}
	return q.Close(ctx)
}

// CloseAll closes and drops every queue
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	queues := r.queues
	r.queues = make(map[models.QueueKey]*MatchQueue)
	r.mu.Unlock()

	var errs []error
	for _, q := range queues {
		if err := q.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sortQueues(queues []*MatchQueue) {
	sort.Slice(queues, func(i, j int) bool {
		return queues[i].Key().String() < queues[j].Key().String()
	})
}
