package matchqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/pickup/internal/common/clock"
	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/KirkDiggler/pickup/internal/random"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MatchQueue is one match in formation: membership, progress, the draft and voice compliance
type MatchQueue struct {
	mu sync.Mutex

	key       models.QueueKey
	id        string
	teamSize  int
	players   []*models.PlayerRecord
	team1     []*models.PlayerRecord
	team2     []*models.PlayerRecord
	progress  models.Progress
	kickVote  *models.KickVote
	resources Resources
	draft     *Draft
	monitor   *VoiceMonitor
	readyAt   time.Time

	messenger       platform.Messenger
	rooms           platform.Rooms
	events          Subscriber
	clock           clock.Clock
	shuffler        random.Shuffler
	botUserID       string
	categoryName    string
	rollCallTimeout time.Duration
	draftTimeout    time.Duration
	logger          *zap.Logger

	// ctx is cancelled when the queue is closed, abandoning in-flight sessions
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// New creates an empty match queue
func New(cfg *Config) (*MatchQueue, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Messenger == nil {
		return nil, ErrNilMessenger
	}
	if cfg.Rooms == nil {
		return nil, ErrNilRooms
	}
	if cfg.Events == nil {
		return nil, ErrNilEvents
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.Shuffler == nil {
		return nil, ErrNilShuffler
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}
	if cfg.TeamSize < MinTeamSize || cfg.TeamSize > MaxTeamSize {
		return nil, ErrInvalidTeamSize
	}

	rollCallTimeout := cfg.RollCallTimeout
	if rollCallTimeout <= 0 {
		rollCallTimeout = DefaultSessionTimeout
	}
	draftTimeout := cfg.DraftTimeout
	if draftTimeout <= 0 {
		draftTimeout = DefaultSessionTimeout
	}
	categoryName := cfg.CategoryName
	if categoryName == "" {
		categoryName = DefaultCategoryName
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	id := cfg.UUIDGenerator.NewUUID()
	ctx, cancel := context.WithCancel(context.Background())

	return &MatchQueue{
		key:             cfg.Key,
		id:              id,
		teamSize:        cfg.TeamSize,
		progress:        models.ProgressEmpty,
		messenger:       cfg.Messenger,
		rooms:           cfg.Rooms,
		events:          cfg.Events,
		clock:           cfg.Clock,
		shuffler:        cfg.Shuffler,
		botUserID:       cfg.BotUserID,
		categoryName:    categoryName,
		rollCallTimeout: rollCallTimeout,
		draftTimeout:    draftTimeout,
		logger: logger.With(
			zap.String("queue", cfg.Key.String()),
			zap.String("queue_id", id)),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// ID is unique per queue instance; a reset queue gets a new one
func (q *MatchQueue) ID() string { return q.id }

func (q *MatchQueue) Key() models.QueueKey { return q.key }

func (q *MatchQueue) Game() string { return q.key.Game }

func (q *MatchQueue) TeamSize() int { return q.teamSize }

// Capacity is the full roster size, 2N
func (q *MatchQueue) Capacity() int { return q.teamSize * 2 }

// Progress returns the current state
func (q *MatchQueue) Progress() models.Progress {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.progress
}

// Players returns the joined players in join order
func (q *MatchQueue) Players() []*models.PlayerRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*models.PlayerRecord(nil), q.players...)
}

// Count is the number of joined players
func (q *MatchQueue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}

// Teams returns both rosters; they are empty until the draft completes
func (q *MatchQueue) Teams() ([]*models.PlayerRecord, []*models.PlayerRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*models.PlayerRecord(nil), q.team1...), append([]*models.PlayerRecord(nil), q.team2...)
}

// TeamOf returns 1 or 2 with the room of the user's team, or 0 when the user is on neither
func (q *MatchQueue) TeamOf(userID string) (int, string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range q.team1 {
		if p.ID == userID {
			return 1, q.resources.Team1RoomID
		}
	}
	for _, p := range q.team2 {
		if p.ID == userID {
			return 2, q.resources.Team2RoomID
		}
	}
	return 0, ""
}

// Resources returns the platform handles the queue owns
func (q *MatchQueue) Resources() Resources {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resources
}

// KickVote returns a copy of the open kick vote, if any
func (q *MatchQueue) KickVote() *models.KickVote {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.kickVote == nil {
		return nil
	}
	vote := *q.kickVote
	vote.VoterIDs = append([]string(nil), q.kickVote.VoterIDs...)
	return &vote
}

// ReadyAt is when both team rooms were seated, zero before
func (q *MatchQueue) ReadyAt() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.readyAt
}

// Join appends a player. Joining a filled queue is not an error: the result
// reports AlreadyFilled and membership is left alone.
func (q *MatchQueue) Join(player *models.PlayerRecord) (*JoinResult, error) {
	if player == nil {
		return nil, ErrNilPlayer
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.progress.IsFilled() {
		return &JoinResult{
			Count:         len(q.players),
			Capacity:      q.Capacity(),
			AlreadyFilled: true,
		}, nil
	}

	if q.indexOf(player.ID) >= 0 {
		return nil, ErrAlreadyJoined
	}

	q.players = append(q.players, player)
	q.recount()

	filled := q.progress == models.ProgressFilled
	q.logger.Info("player joined",
		zap.String("player", player.ID),
		zap.Int("count", len(q.players)),
		zap.Bool("filled", filled))

	return &JoinResult{
		Count:    len(q.players),
		Capacity: q.Capacity(),
		Filled:   filled,
	}, nil
}

// Leave removes a player while the queue is still filling
func (q *MatchQueue) Leave(playerID string) (*LeaveResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.progress.IsFilled() {
		return nil, ErrQueueFull
	}

	if err := q.remove(playerID); err != nil {
		return nil, err
	}

	q.logger.Info("player left", zap.String("player", playerID), zap.Int("count", len(q.players)))

	return &LeaveResult{
		Count:    len(q.players),
		Capacity: q.Capacity(),
	}, nil
}

// Kick votes to remove the player whose name matches target. The first vote
// opens a KickVote; a second vote from another caller removes the target while
// the queue is filling, or asks for a full reset once it has filled. A vote
// against a different player cancels the open one and starts over.
func (q *MatchQueue) Kick(callerID, target string) (*KickResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	player := q.findByName(target)
	if player == nil {
		return nil, ErrNotJoined
	}

	if q.kickVote != nil && q.kickVote.TargetID != player.ID {
		q.logger.Info("kick vote cancelled",
			zap.String("player", q.kickVote.TargetID),
			zap.String("replaced_by", player.ID))
		q.kickVote = nil
	}

	if q.kickVote == nil {
		q.kickVote = &models.KickVote{
			TargetID:   player.ID,
			TargetName: player.Label(),
			VoterIDs:   []string{callerID},
		}
		q.logger.Info("kick vote started", zap.String("player", player.ID), zap.String("caller", callerID))
		return &KickResult{Outcome: KickVoteStarted, Target: player, Count: len(q.players)}, nil
	}

	if q.kickVote.HasVoted(callerID) {
		return nil, ErrKickVoteAlreadyCast
	}

	q.kickVote.VoterIDs = append(q.kickVote.VoterIDs, callerID)
	if !q.kickVote.Accepted() {
		return &KickResult{Outcome: KickVoteStarted, Target: player, Count: len(q.players)}, nil
	}
	q.kickVote = nil

	if q.progress.IsFilled() {
		q.logger.Info("kick confirmed after fill", zap.String("player", player.ID))
		return &KickResult{Outcome: KickQueueReset, Target: player, Count: len(q.players)}, nil
	}

	if err := q.remove(player.ID); err != nil {
		return nil, err
	}
	q.logger.Info("player kicked", zap.String("player", player.ID))

	return &KickResult{Outcome: KickPlayerRemoved, Target: player, Count: len(q.players)}, nil
}

// Provision creates the category, draft channel and holding room of a filled queue
func (q *MatchQueue) Provision(ctx context.Context) (Resources, error) {
	q.mu.Lock()
	if q.progress != models.ProgressFilled || q.resources.CategoryID != "" {
		q.mu.Unlock()
		return Resources{}, ErrInvalidProgress
	}
	q.mu.Unlock()

	ctx, cancel := q.bind(ctx)
	defer cancel()

	guildID := q.key.GuildID

	categoryID, err := q.rooms.CreateCategory(ctx, guildID, q.categoryName)
	if err != nil {
		return Resources{}, q.fail("failed to create category", err)
	}
	q.setResource(func(r *Resources) { r.CategoryID = categoryID })

	channelID, err := q.rooms.CreateTextChannel(ctx, guildID, categoryID, draftChannelName)
	if err != nil {
		return Resources{}, q.fail("failed to create draft channel", err)
	}
	q.setResource(func(r *Resources) { r.DraftChannelID = channelID })

	holdingRoomID, err := q.rooms.CreateVoiceRoom(ctx, guildID, categoryID, holdingRoomName)
	if err != nil {
		return Resources{}, q.fail("failed to create holding room", err)
	}
	q.setResource(func(r *Resources) { r.HoldingRoomID = holdingRoomID })

	return q.Resources(), nil
}

func (q *MatchQueue) provisionTeamRooms(ctx context.Context) error {
	guildID := q.key.GuildID
	categoryID := q.Resources().CategoryID

	team1RoomID, err := q.rooms.CreateVoiceRoom(ctx, guildID, categoryID, team1RoomName)
	if err != nil {
		return q.fail("failed to create team 1 room", err)
	}
	q.setResource(func(r *Resources) { r.Team1RoomID = team1RoomID })

	team2RoomID, err := q.rooms.CreateVoiceRoom(ctx, guildID, categoryID, team2RoomName)
	if err != nil {
		return q.fail("failed to create team 2 room", err)
	}

	q.mu.Lock()
	q.resources.Team2RoomID = team2RoomID
	q.setProgress(models.ProgressDraftComplete)
	q.mu.Unlock()
	return nil
}

// Close abandons any running session and deletes every platform resource the
// queue created. Missing resources are not an error. Close is idempotent.
func (q *MatchQueue) Close(ctx context.Context) error {
	q.closeOnce.Do(func() {
		q.cancel()

		q.mu.Lock()
		resources := q.resources
		q.resources = Resources{}
		q.mu.Unlock()

		// one failed delete must not stop the others
		var g errgroup.Group
		for _, id := range resources.handles() {
			id := id
			g.Go(func() error {
				return q.deleteResource(ctx, id)
			})
		}
		err := g.Wait()

		if resources.CategoryID != "" {
			err = errors.Join(err, q.deleteResource(ctx, resources.CategoryID))
		}
		q.closeErr = err

		q.logger.Info("queue closed", zap.Error(err))
	})
	return q.closeErr
}

func (q *MatchQueue) deleteResource(ctx context.Context, id string) error {
	if err := q.rooms.DeleteResource(ctx, id); err != nil && !errors.Is(err, platform.ErrResourceMissing) {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	return nil
}

// bind derives a context that is also cancelled when the queue closes
func (q *MatchQueue) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(q.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// fail wraps a collaborator error and parks the queue until it is reset. A ready
// match keeps its progress so its result can still be reported.
func (q *MatchQueue) fail(msg string, err error) error {
	stalled := models.ProgressSetupFailed
	if errors.Is(err, platform.ErrResourceMissing) {
		stalled = models.ProgressResourceMissing
		q.logger.Error(msg, zap.Error(err))
	} else {
		q.logger.Warn(msg, zap.Error(err))
	}

	q.mu.Lock()
	if q.progress != models.ProgressMatchReady {
		q.setProgress(stalled)
	}
	q.mu.Unlock()

	return fmt.Errorf("%s: %w", msg, err)
}

// setProgress must be called with mu held
func (q *MatchQueue) setProgress(p models.Progress) {
	if q.progress == p {
		return
	}
	q.logger.Info("progress changed",
		zap.String("from", string(q.progress)),
		zap.String("to", string(p)))
	q.progress = p
}

func (q *MatchQueue) setResource(set func(r *Resources)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	set(&q.resources)
}

// recount derives empty/filling/filled from membership; must be called with mu held
func (q *MatchQueue) recount() {
	switch n := len(q.players); {
	case n == 0:
		q.setProgress(models.ProgressEmpty)
	case n == q.Capacity():
		q.setProgress(models.ProgressFilled)
	default:
		q.setProgress(models.ProgressFilling)
	}
}

func (q *MatchQueue) indexOf(playerID string) int {
	for i, p := range q.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (q *MatchQueue) remove(playerID string) error {
	i := q.indexOf(playerID)
	if i < 0 {
		return ErrNotJoined
	}
	q.players = append(q.players[:i], q.players[i+1:]...)
	if q.kickVote != nil && q.kickVote.TargetID == playerID {
		q.kickVote = nil
	}
	q.recount()
	return nil
}

// findByName matches a display name, account name or ID, ignoring case and a leading @
func (q *MatchQueue) findByName(name string) *models.PlayerRecord {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	for _, p := range q.players {
		if p.ID == name || strings.EqualFold(p.Label(), name) || strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// labelOf names a member for call-outs; must be called with mu held
func (q *MatchQueue) labelOf(memberID string) string {
	if i := q.indexOf(memberID); i >= 0 {
		return q.players[i].Label()
	}
	return "Someone"
}

type waitStatus int

const (
	waitReceived waitStatus = iota
	waitTimedOut
	waitCancelled
)

// await blocks for the next event until deadline. The remaining time is taken
// from the clock on every call so a stream of events never extends the deadline.
func await[T any](ctx context.Context, clk clock.Clock, deadline time.Time, events <-chan T) (T, waitStatus) {
	var zero T

	remaining := deadline.Sub(clk.Now())
	if remaining <= 0 {
		return zero, waitTimedOut
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return zero, waitCancelled
	case <-timer.C:
		return zero, waitTimedOut
	case ev := <-events:
		// an event that lands after the deadline does not count
		if !clk.Now().Before(deadline) {
			return zero, waitTimedOut
		}
		return ev, waitReceived
	}
}
