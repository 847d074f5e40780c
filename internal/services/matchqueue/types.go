package matchqueue

import (
	"time"

	"github.com/KirkDiggler/pickup/internal/common/clock"
	"github.com/KirkDiggler/pickup/internal/common/uuid"
	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/KirkDiggler/pickup/internal/random"
	"go.uber.org/zap"
)

const (
	// MinTeamSize is the smallest supported team
	MinTeamSize = 1

	// MaxTeamSize keeps the undrafted pool within the eight pick symbols
	MaxTeamSize = 5

	// DefaultSessionTimeout is the budget for roll call and draft when none is configured
	DefaultSessionTimeout = 300 * time.Second

	// DefaultCategoryName names the category a filled queue provisions
	DefaultCategoryName = "Custom Games"

	draftChannelName = "pick-teams"
	holdingRoomName  = "Roll Call"
	team1RoomName    = "Team 1 Chat"
	team2RoomName    = "Team 2 Chat"
)

// Config holds the dependencies and settings of a match queue
type Config struct {
	Key      models.QueueKey
	TeamSize int

	Messenger     platform.Messenger
	Rooms         platform.Rooms
	Events        Subscriber
	Clock         clock.Clock
	Shuffler      random.Shuffler
	UUIDGenerator uuid.UUID

	// RollCallTimeout and DraftTimeout bound each session as a whole
	RollCallTimeout time.Duration
	DraftTimeout    time.Duration

	// BotUserID identifies the bot's own reactions
	BotUserID string

	CategoryName string

	Logger *zap.Logger
}

// Resources are the platform handles a queue created and owns
type Resources struct {
	CategoryID     string
	DraftChannelID string
	HoldingRoomID  string
	Team1RoomID    string
	Team2RoomID    string
}

// handles lists every non-empty handle, rooms before the category holding them
func (r Resources) handles() []string {
	var ids []string
	for _, id := range []string{r.DraftChannelID, r.HoldingRoomID, r.Team1RoomID, r.Team2RoomID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// JoinResult describes the outcome of a join
type JoinResult struct {
	// Count is the number of joined players after the call
	Count int

	// Capacity is 2N
	Capacity int

	// Filled is true when this join filled the queue
	Filled bool

	// AlreadyFilled is true when the queue was full before the call; membership is unchanged
	AlreadyFilled bool
}

// LeaveResult describes the outcome of a leave
type LeaveResult struct {
	Count    int
	Capacity int
}

// KickOutcome is what a kick request did
type KickOutcome int

const (
	// KickVoteStarted means the first vote was recorded
	KickVoteStarted KickOutcome = iota

	// KickPlayerRemoved means the second vote removed the target
	KickPlayerRemoved

	// KickQueueReset means the second vote landed after the queue filled; the queue must be replaced
	KickQueueReset
)

// KickResult describes the outcome of a kick request
type KickResult struct {
	Outcome KickOutcome
	Target  *models.PlayerRecord
	Count   int
}

// SessionOutcome is how a roll call or draft ended
type SessionOutcome int

const (
	SessionSucceeded SessionOutcome = iota
	SessionTimedOut
	SessionCancelled
)

func (o SessionOutcome) String() string {
	switch o {
	case SessionSucceeded:
		return "succeeded"
	case SessionTimedOut:
		return "timed out"
	case SessionCancelled:
		return "cancelled"
	}
	return "unknown"
}

// SessionResult is returned by the blocking session calls
type SessionResult struct {
	Outcome SessionOutcome

	// Blamed is the captain who failed to pick when a draft times out
	Blamed *models.PlayerRecord
}

// Succeeded reports whether the session completed
func (r *SessionResult) Succeeded() bool {
	return r != nil && r.Outcome == SessionSucceeded
}
