package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetCreateMessage announces a new queue
	GetCreateMessage(ctx context.Context, input *GetCreateMessageInput) (*GetCreateMessageOutput, error)

	// GetResetMessage announces a cleared queue
	GetResetMessage(ctx context.Context, input *GetResetMessageInput) (*GetResetMessageOutput, error)

	// GetJoinMessage returns the lines posted after a join, including the redirect and fill notices
	GetJoinMessage(ctx context.Context, input *GetJoinMessageInput) (*GetJoinMessageOutput, error)

	// GetLeaveMessage returns the line posted after a player leaves
	GetLeaveMessage(ctx context.Context, input *GetLeaveMessageInput) (*GetLeaveMessageOutput, error)

	// GetKickMessage describes the state of a kick vote
	GetKickMessage(ctx context.Context, input *GetKickMessageInput) (*GetKickMessageOutput, error)

	// GetRollCallMessage lists who joined each queue
	GetRollCallMessage(ctx context.Context, input *GetRollCallMessageInput) (*GetRollCallMessageOutput, error)

	// GetGoMessage confirms a move to a team room
	GetGoMessage(ctx context.Context, input *GetGoMessageInput) (*GetGoMessageOutput, error)

	// GetResultMessage announces a reported result
	GetResultMessage(ctx context.Context, input *GetResultMessageInput) (*GetResultMessageOutput, error)

	// GetShutdownMessage confirms a shutdown
	GetShutdownMessage(ctx context.Context, input *GetShutdownMessageInput) (*GetShutdownMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
