package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/KirkDiggler/pickup/internal/random"
	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"github.com/KirkDiggler/pickup/internal/services/queue"
	"go.uber.org/zap"
)

// ErrNilPicker is returned when no Picker is configured
var ErrNilPicker = errors.New("picker cannot be nil")

// service implements the Service interface
type service struct {
	picker random.Picker
	logger *zap.Logger
}

// New creates a new messaging service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Picker == nil {
		return nil, ErrNilPicker
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		picker: cfg.Picker,
		logger: logger,
	}, nil
}

func (s *service) pick(lines []string) string {
	return lines[s.picker.Intn(len(lines))]
}

func forGame(game string) string {
	if game == "" {
		return ""
	}
	return " for " + game
}

// GetCreateMessage announces a new queue
func (s *service) GetCreateMessage(ctx context.Context, input *GetCreateMessageInput) (*GetCreateMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	return &GetCreateMessageOutput{
		Message: fmt.Sprintf("New %dv%d match queue%s started by %s",
			input.TeamSize, input.TeamSize, forGame(input.Game), input.CreatorName),
	}, nil
}

// GetResetMessage announces a cleared queue
func (s *service) GetResetMessage(ctx context.Context, input *GetResetMessageInput) (*GetResetMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	message := "Queue has been cleared. Good to go again"
	if input.Kicked {
		message = s.pick([]string{
			"The group has spoken. Queue has been cleared. Good to go again",
			"Somebody got voted off the island. Queue has been cleared. Good to go again",
		})
	}

	return &GetResetMessageOutput{
		Message: fmt.Sprintf("%s (%dv%d%s)", message, input.TeamSize, input.TeamSize, forGame(input.Game)),
	}, nil
}

// GetJoinMessage returns the lines posted after a join
func (s *service) GetJoinMessage(ctx context.Context, input *GetJoinMessageInput) (*GetJoinMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.RedirectChannelName != "" {
		return &GetJoinMessageOutput{
			Messages: []string{fmt.Sprintf("This queue is being held in %s. Please head there and try again", input.RedirectChannelName)},
		}, nil
	}

	if input.AlreadyFilled {
		return &GetJoinMessageOutput{
			Messages: []string{s.pick([]string{
				"This queue has been filled. I'm a baby bot, I can only handle one queue at a time right now.",
				"Too slow! This queue has been filled. Catch the next one.",
			})},
		}, nil
	}

	people := "people"
	if input.Count == 1 {
		people = "person"
	}

	game := ""
	if input.Game != "" {
		game = input.Game + " "
	}

	messages := []string{
		fmt.Sprintf("%s Added to %sQueue! %d %s so far!", input.PlayerName, game, input.Count, people),
	}
	if input.Filled {
		messages = append(messages, "Queue has been filled! Head to Roll Call now!")
	}

	return &GetJoinMessageOutput{
		Messages: messages,
	}, nil
}

// GetLeaveMessage returns the line posted after a player leaves
func (s *service) GetLeaveMessage(ctx context.Context, input *GetLeaveMessageInput) (*GetLeaveMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	game := ""
	if input.Game != "" {
		game = input.Game + " "
	}

	return &GetLeaveMessageOutput{
		Message: fmt.Sprintf("%s has left the %squeue. %d remain", input.PlayerName, game, input.Remaining),
	}, nil
}

// GetKickMessage describes the state of a kick vote
func (s *service) GetKickMessage(ctx context.Context, input *GetKickMessageInput) (*GetKickMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var message string
	switch input.Outcome {
	case matchqueue.KickVoteStarted:
		message = fmt.Sprintf("Vote has been initiated to kick %s. One more player is needed to complete the kick", input.TargetName)
	case matchqueue.KickPlayerRemoved:
		message = fmt.Sprintf("%s has been kicked by the group", input.TargetName)
	case matchqueue.KickQueueReset:
		message = fmt.Sprintf("%s has been kicked by the group. Queue has been cleared. Good to go again", input.TargetName)
	default:
		return nil, fmt.Errorf("unknown kick outcome %d", input.Outcome)
	}

	return &GetKickMessageOutput{
		Message: message,
	}, nil
}

// GetRollCallMessage lists who joined each queue, one block per queue
func (s *service) GetRollCallMessage(ctx context.Context, input *GetRollCallMessageInput) (*GetRollCallMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	blocks := make([]string, 0, len(input.Queues))
	for _, q := range input.Queues {
		block := fmt.Sprintf("%d out of %d players so far%s.", len(q.Names), q.Capacity, forGame(q.Game))
		if len(q.Names) > 0 {
			block += "\n" + strings.Join(q.Names, "\n")
		}
		blocks = append(blocks, block)
	}

	return &GetRollCallMessageOutput{
		Message: strings.Join(blocks, "\n\n"),
	}, nil
}

// GetGoMessage confirms a move to a team room
func (s *service) GetGoMessage(ctx context.Context, input *GetGoMessageInput) (*GetGoMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	return &GetGoMessageOutput{
		Message: fmt.Sprintf("%s, off you go to Team %d Chat", input.PlayerName, input.Team),
	}, nil
}

// GetResultMessage announces a reported result
func (s *service) GetResultMessage(ctx context.Context, input *GetResultMessageInput) (*GetResultMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	title := s.pick([]string{
		fmt.Sprintf("Team %d Wins!", input.WinningTeam),
		fmt.Sprintf("GG, Team %d", input.WinningTeam),
		fmt.Sprintf("Team %d takes it", input.WinningTeam),
	})

	return &GetResultMessageOutput{
		Title: title,
		Message: fmt.Sprintf("Winners: %s\nLosers: %s",
			strings.Join(input.Winners, ", "), strings.Join(input.Losers, ", ")),
	}, nil
}

// GetShutdownMessage confirms a shutdown
func (s *service) GetShutdownMessage(ctx context.Context, input *GetShutdownMessageInput) (*GetShutdownMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	return &GetShutdownMessageOutput{
		Message: fmt.Sprintf("Closed %d queue(s). I'm sorry it was annoying...", input.Closed),
	}, nil
}

type errorLines struct {
	err   error
	lines func(input *GetErrorMessageInput) []string
}

func fixed(lines ...string) func(*GetErrorMessageInput) []string {
	return func(*GetErrorMessageInput) []string { return lines }
}

// errorCatalog is checked in order with errors.Is
var errorCatalog = []errorLines{
	{queue.ErrQueueInProgress, fixed(
		"There is a queue already in progress with people in it. Please leave it instead of resetting. If someone went afk, try the 'kick' command",
	)},
	{queue.ErrSessionInProgress, fixed(
		"There is a queue already in progress. Please leave it instead of resetting",
	)},
	{queue.ErrTeamRoomsOccupied, fixed(
		"I'm kinda dumb right now, please vacate the team chat channels so I can be sure that match is complete.",
	)},
	{queue.ErrTeamsNotChosen, fixed(
		"Teams haven't been selected yet. Give it time",
	)},
	{queue.ErrNotOnTeam, fixed(
		"You are not on either team. Nice try though",
	)},
	{queue.ErrNotInVoice, func(input *GetErrorMessageInput) []string {
		return []string{fmt.Sprintf("%s, you must be in a voice channel already in order for me to move you... Bummer", input.PlayerName)}
	}},
	{queue.ErrMatchNotReady, fixed(
		"There must be a queue and team selection must be done before using this command",
	)},
	{queue.ErrInvalidTeam, fixed(
		"The winning team is either 1 or 2. Pick one",
	)},
	{queue.ErrResultAlreadyReported, fixed(
		"A result was already reported for this match. No take-backs",
	)},
	{matchqueue.ErrQueueAlreadyExists, fixed(
		"Only one queue can be created at a time. Try resetting the old one",
	)},
	{matchqueue.ErrNoActiveQueue, fixed(
		"No queue exists in this channel yet. Create one first!",
		"You gotta build something before you blow it up. There is not an active queue here.",
	)},
	{matchqueue.ErrQueueFull, fixed(
		"Its too late, the queue filled. You messed up. Okay, mistakes happen... Just finish the voting and reset the queue because this situation is too complicated for me.",
	)},
	{matchqueue.ErrAlreadyJoined, fixed(
		"Hold your horses, you already joined the conga line",
	)},
	{matchqueue.ErrNotJoined, func(input *GetErrorMessageInput) []string {
		if input.TargetName != "" {
			return []string{fmt.Sprintf("%s was not found in the queue. Check spelling/capitalization and try again", input.TargetName)}
		}
		return []string{"LMAO YOU ARE TRYING TO QUIT AND YOU NEVER EVEN STARTED"}
	}},
	{matchqueue.ErrInvalidTeamSize, fixed(
		fmt.Sprintf("Teams can have between %d and %d players", matchqueue.MinTeamSize, matchqueue.MaxTeamSize),
	)},
	{matchqueue.ErrKickVoteAlreadyCast, fixed(
		"You already voted. Somebody else has to agree with you",
	)},
	{matchqueue.ErrInvalidProgress, fixed(
		"That can't happen right now. Reset the queue if it is stuck",
	)},
	{platform.ErrResourceMissing, fixed(
		"Someone deleted one of my channels. Reset the queue to try again.",
	)},
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil || input.Err == nil {
		return nil, errors.New("input cannot be nil")
	}

	for _, entry := range errorCatalog {
		if errors.Is(input.Err, entry.err) {
			return &GetErrorMessageOutput{
				Message: s.pick(entry.lines(input)),
				Known:   true,
			}, nil
		}
	}

	s.logger.Warn("no message for error", zap.Error(input.Err))

	return &GetErrorMessageOutput{
		Message: "Something went wrong on my end. Try again in a bit",
	}, nil
}
