package messaging

import (
	"github.com/KirkDiggler/pickup/internal/random"
	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"go.uber.org/zap"
)

// Config holds configuration for the messaging service
type Config struct {
	// Picker chooses between flavor lines
	Picker random.Picker

	// Logger is optional
	Logger *zap.Logger
}

// GetCreateMessageInput contains parameters for announcing a new queue
type GetCreateMessageInput struct {
	// CreatorName is who started the queue
	CreatorName string

	// TeamSize is the number of players per team
	TeamSize int

	// Game is the optional game label
	Game string
}

// GetCreateMessageOutput contains the announcement
type GetCreateMessageOutput struct {
	Message string
}

// GetResetMessageInput contains parameters for announcing a reset
type GetResetMessageInput struct {
	// TeamSize is the team size of the new queue
	TeamSize int

	// Game is the game label of the new queue
	Game string

	// Kicked is set when a confirmed kick forced the reset
	Kicked bool
}

// GetResetMessageOutput contains the announcement
type GetResetMessageOutput struct {
	Message string
}

// GetJoinMessageInput contains parameters for the join notice
type GetJoinMessageInput struct {
	// PlayerName is the name of the player joining
	PlayerName string

	// Game is the optional game label of the queue
	Game string

	// Count is the number of joined players after the join
	Count int

	// Filled is set when this join filled the queue
	Filled bool

	// AlreadyFilled is set when the queue was full before the join
	AlreadyFilled bool

	// RedirectChannelName names the channel holding the community's queue
	RedirectChannelName string
}

// GetJoinMessageOutput contains the lines to post, in order
type GetJoinMessageOutput struct {
	Messages []string
}

// GetLeaveMessageInput contains parameters for the leave notice
type GetLeaveMessageInput struct {
	PlayerName string
	Game       string
	Remaining  int
}

// GetLeaveMessageOutput contains the leave notice
type GetLeaveMessageOutput struct {
	Message string
}

// GetKickMessageInput contains parameters for the kick notice
type GetKickMessageInput struct {
	// Outcome is what the kick call did
	Outcome matchqueue.KickOutcome

	// TargetName is the player being voted out
	TargetName string
}

// GetKickMessageOutput contains the kick notice
type GetKickMessageOutput struct {
	Message string
}

// RollCallQueue is one queue in a roll call listing
type RollCallQueue struct {
	Game     string
	Capacity int

	// Names of the joined players in join order
	Names []string
}

// GetRollCallMessageInput contains the queues to list
type GetRollCallMessageInput struct {
	Queues []*RollCallQueue
}

// GetRollCallMessageOutput contains the listing
type GetRollCallMessageOutput struct {
	Message string
}

// GetGoMessageInput contains parameters for the team room notice
type GetGoMessageInput struct {
	PlayerName string
	Team       int
}

// GetGoMessageOutput contains the team room notice
type GetGoMessageOutput struct {
	Message string
}

// GetResultMessageInput contains parameters for the result announcement
type GetResultMessageInput struct {
	WinningTeam int

	// Winners and Losers are player labels
	Winners []string
	Losers  []string
}

// GetResultMessageOutput contains the result announcement
type GetResultMessageOutput struct {
	Title   string
	Message string
}

// GetShutdownMessageInput contains parameters for the shutdown notice
type GetShutdownMessageInput struct {
	Closed int
}

// GetShutdownMessageOutput contains the shutdown notice
type GetShutdownMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// Err is the error returned by the queue service
	Err error

	// PlayerName is the caller, used by some lines
	PlayerName string

	// TargetName is the kick target, set for kick errors
	TargetName string
}

// GetErrorMessageOutput contains a user-friendly error message
type GetErrorMessageOutput struct {
	Message string

	// Known is false when the error fell through to the generic line
	Known bool
}
