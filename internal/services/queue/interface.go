package queue

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/pickup/internal/services/queue Service

import "context"

// Service defines the queue operations behind the /queue command
type Service interface {
	// CreateQueue opens a queue in a channel
	CreateQueue(ctx context.Context, input *CreateQueueInput) (*CreateQueueOutput, error)

	// ResetQueue replaces a channel's queue with an empty one
	ResetQueue(ctx context.Context, input *ResetQueueInput) (*ResetQueueOutput, error)

	// JoinQueue adds the caller to the channel's queue
	JoinQueue(ctx context.Context, input *JoinQueueInput) (*JoinQueueOutput, error)

	// LeaveQueue removes the caller from the channel's queue
	LeaveQueue(ctx context.Context, input *LeaveQueueInput) (*LeaveQueueOutput, error)

	// KickPlayer votes to remove a player from the channel's queue
	KickPlayer(ctx context.Context, input *KickPlayerInput) (*KickPlayerOutput, error)

	// GetRollCall lists the community's queues and who joined them
	GetRollCall(ctx context.Context, input *GetRollCallInput) (*GetRollCallOutput, error)

	// RunMatchSetup drives a filled queue through roll call, draft and voice compliance
	RunMatchSetup(ctx context.Context, input *RunMatchSetupInput) (*RunMatchSetupOutput, error)

	// GoToTeamRoom moves the caller into their team's voice room
	GoToTeamRoom(ctx context.Context, input *GoToTeamRoomInput) (*GoToTeamRoomOutput, error)

	// ReportResult records the winner of a ready match
	ReportResult(ctx context.Context, input *ReportResultInput) (*ReportResultOutput, error)

	// Shutdown closes every queue and deletes their channels
	Shutdown(ctx context.Context, input *ShutdownInput) (*ShutdownOutput, error)
}
