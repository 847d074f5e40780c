package queue

import (
	"github.com/KirkDiggler/pickup/internal/common/clock"
	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	matchRepo "github.com/KirkDiggler/pickup/internal/repositories/match"
	playerRepo "github.com/KirkDiggler/pickup/internal/repositories/player"
	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"go.uber.org/zap"
)

// Config holds configuration for the queue service
type Config struct {
	Registry   *matchqueue.Registry
	PlayerRepo playerRepo.Repository
	MatchRepo  matchRepo.Repository
	Rooms      platform.Rooms
	Clock      clock.Clock
	Logger     *zap.Logger
}

// QueueSummary is a read-only view of a queue
type QueueSummary struct {
	ID             string
	Key            models.QueueKey
	TeamSize       int
	Capacity       int
	Progress       models.Progress
	Players        []*models.PlayerRecord
	DraftChannelID string
}

// Count is the number of joined players
func (q *QueueSummary) Count() int {
	return len(q.Players)
}

// CreateQueueInput contains parameters for opening a queue
type CreateQueueInput struct {
	GuildID     string
	ChannelID   string
	CreatorName string
	TeamSize    int

	// Game is the optional game label
	Game string
}

// CreateQueueOutput contains the new queue
type CreateQueueOutput struct {
	Queue *QueueSummary
}

// ResetQueueInput contains parameters for resetting a queue; nil fields keep the current value
type ResetQueueInput struct {
	GuildID   string
	ChannelID string
	TeamSize  *int
	Game      *string
}

// ResetQueueOutput contains the fresh queue
type ResetQueueOutput struct {
	Queue *QueueSummary
}

// JoinQueueInput identifies the caller and the channel
type JoinQueueInput struct {
	GuildID     string
	ChannelID   string
	UserID      string
	UserName    string
	DisplayName string
}

// JoinQueueOutput contains the outcome of a join
type JoinQueueOutput struct {
	Queue  *QueueSummary
	Player *models.PlayerRecord

	// Filled is true when this join filled the queue and match setup should start
	Filled bool

	// AlreadyFilled is true when the queue was full before the join
	AlreadyFilled bool

	// RedirectChannelID is set when the channel has no queue but another channel of the community does
	RedirectChannelID string
}

// LeaveQueueInput identifies the caller and the channel
type LeaveQueueInput struct {
	GuildID   string
	ChannelID string
	UserID    string
}

// LeaveQueueOutput contains the queue after the leave
type LeaveQueueOutput struct {
	Queue *QueueSummary
}

// KickPlayerInput contains parameters for a kick vote
type KickPlayerInput struct {
	GuildID    string
	ChannelID  string
	CallerID   string
	TargetName string
}

// KickPlayerOutput contains the outcome of a kick vote
type KickPlayerOutput struct {
	Outcome matchqueue.KickOutcome
	Target  *models.PlayerRecord

	// Queue is the fresh queue when the vote forced a reset
	Queue *QueueSummary
}

// GetRollCallInput identifies the community
type GetRollCallInput struct {
	GuildID string
}

// GetRollCallOutput lists the community's queues
type GetRollCallOutput struct {
	Queues []*QueueSummary
}

// RunMatchSetupInput identifies the filled queue
type RunMatchSetupInput struct {
	GuildID   string
	ChannelID string
}

// RunMatchSetupOutput describes where match setup stopped
type RunMatchSetupOutput struct {
	QueueID  string
	Progress models.Progress

	// Outcome is the outcome of the last session that ran
	Outcome matchqueue.SessionOutcome

	// Blamed is the captain who let the draft time out
	Blamed *models.PlayerRecord

	// Match is the saved history entry once the match is ready
	Match *models.MatchRecord
}

// GoToTeamRoomInput identifies the caller and where they are
type GoToTeamRoomInput struct {
	GuildID   string
	ChannelID string
	UserID    string

	// CurrentRoomID is the caller's voice room, empty when not in voice
	CurrentRoomID string
}

// GoToTeamRoomOutput contains where the caller was moved
type GoToTeamRoomOutput struct {
	Team   int
	RoomID string
}

// ReportResultInput contains the winner of a match
type ReportResultInput struct {
	GuildID     string
	ChannelID   string
	WinningTeam int
}

// ReportResultOutput contains the updated records
type ReportResultOutput struct {
	Match   *models.MatchRecord
	Winners []*models.PlayerRecord
	Losers  []*models.PlayerRecord
}

// ShutdownInput is empty; shutdown affects every queue
type ShutdownInput struct{}

// ShutdownOutput reports how many queues were closed
type ShutdownOutput struct {
	Closed int
}
