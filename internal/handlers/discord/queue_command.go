package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"github.com/KirkDiggler/pickup/internal/services/messaging"
	"github.com/KirkDiggler/pickup/internal/services/queue"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Subcommands of /queue
const (
	SubcommandNew      = "new"
	SubcommandReset    = "reset"
	SubcommandJoin     = "join"
	SubcommandLeave    = "leave"
	SubcommandKick     = "kick"
	SubcommandRollCall = "rollcall"
	SubcommandGo       = "go"
	SubcommandResult   = "result"
	SubcommandShutdown = "shutdown"
)

const (
	optionTeamSize = "team_size"
	optionGame     = "game"
	optionPlayer   = "player"
	optionTeam     = "team"
)

// Request is a parsed /queue invocation
type Request struct {
	GuildID     string
	ChannelID   string
	UserID      string
	UserName    string
	DisplayName string

	// VoiceRoomID is the caller's current voice room, empty when not connected
	VoiceRoomID string

	// IsAdmin allows shutdown
	IsAdmin bool

	Subcommand string
	Ints       map[string]int
	Strings    map[string]string
}

// QueueCommandConfig holds configuration for the queue command
type QueueCommandConfig struct {
	QueueService     queue.Service
	MessagingService messaging.Service

	// Messenger posts match setup failures back to the queue channel
	Messenger platform.Messenger

	// DefaultTeamSize is used by new when no size is given
	DefaultTeamSize int

	// AdminID may run admin subcommands without the administrator permission
	AdminID string

	Logger *zap.Logger
}

// QueueCommand handles the /queue command
type QueueCommand struct {
	BaseCommand
	queueService     queue.Service
	messagingService messaging.Service
	messenger        platform.Messenger
	defaultTeamSize  int
	adminID          string
	logger           *zap.Logger

	setups sync.WaitGroup
}

// NewQueueCommand creates a new queue command handler
func NewQueueCommand(cfg *QueueCommandConfig) (*QueueCommand, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.QueueService == nil {
		return nil, errors.New("queue service cannot be nil")
	}
	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}
	if cfg.Messenger == nil {
		return nil, errors.New("messenger cannot be nil")
	}

	defaultTeamSize := cfg.DefaultTeamSize
	if defaultTeamSize == 0 {
		defaultTeamSize = 4
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	minTeamSize := float64(matchqueue.MinTeamSize)
	teamSizeOption := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        optionTeamSize,
			Description: "Players per team",
			Required:    required,
			MinValue:    &minTeamSize,
			MaxValue:    float64(matchqueue.MaxTeamSize),
		}
	}
	gameOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionGame,
		Description: "Optional game label",
	}

	return &QueueCommand{
		BaseCommand: BaseCommand{
			Name:        "queue",
			Description: "Pickup match queue commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandNew,
					Description: "Start a new match queue in this channel",
					Options:     []*discordgo.ApplicationCommandOption{teamSizeOption(false), gameOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandReset,
					Description: "Clear this channel's queue, optionally changing its settings",
					Options:     []*discordgo.ApplicationCommandOption{teamSizeOption(false), gameOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandJoin,
					Description: "Join the queue",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandLeave,
					Description: "Leave the queue before it fills",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandKick,
					Description: "Vote to kick a player. Two votes are needed",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optionPlayer,
							Description: "Name of the player to kick",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandRollCall,
					Description: "List the players in the queue",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandGo,
					Description: "Move to your team's voice chat",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandResult,
					Description: "Report the winning team",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        optionTeam,
							Description: "Winning team",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Team 1", Value: 1},
								{Name: "Team 2", Value: 2},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandShutdown,
					Description: "Close every queue and delete their channels (admin only)",
				},
			},
		},
		queueService:     cfg.QueueService,
		messagingService: cfg.MessagingService,
		messenger:        cfg.Messenger,
		defaultTeamSize:  defaultTeamSize,
		adminID:          cfg.AdminID,
		logger:           logger,
	}, nil
}

// IsAdmin reports whether the member may run admin subcommands
func IsAdmin(member *discordgo.Member, adminID string) bool {
	if member == nil || member.User == nil {
		return false
	}
	if adminID != "" && member.User.ID == adminID {
		return true
	}
	return member.Permissions&discordgo.PermissionAdministrator != 0
}

// ParseRequest extracts a Request from a /queue interaction
func ParseRequest(s *discordgo.Session, i *discordgo.InteractionCreate, adminID string) (*Request, error) {
	if i.Member == nil || i.Member.User == nil {
		return nil, errors.New("queue commands only work in a server")
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return nil, errors.New("missing subcommand")
	}
	sub := data.Options[0]

	user := i.Member.User
	req := &Request{
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		UserID:      user.ID,
		UserName:    user.Username,
		DisplayName: memberName(i.Member),
		IsAdmin:     IsAdmin(i.Member, adminID),
		Subcommand:  sub.Name,
		Ints:        make(map[string]int),
		Strings:     make(map[string]string),
	}

	if s != nil && s.State != nil {
		if vs, err := s.State.VoiceState(i.GuildID, user.ID); err == nil && vs != nil {
			req.VoiceRoomID = vs.ChannelID
		}
	}

	for _, opt := range sub.Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionInteger:
			req.Ints[opt.Name] = int(opt.IntValue())
		case discordgo.ApplicationCommandOptionString:
			req.Strings[opt.Name] = strings.TrimSpace(opt.StringValue())
		}
	}

	return req, nil
}

// Handle processes a Discord interaction for the queue command
func (c *QueueCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	if i.ApplicationCommandData().Name != c.Name {
		return nil
	}

	req, err := ParseRequest(s, i, c.adminID)
	if err != nil {
		return Respond(s, i, errorResponse(err.Error()))
	}

	return Respond(s, i, c.Execute(context.Background(), req))
}

// Execute runs a parsed request. Failures are rendered into the response.
func (c *QueueCommand) Execute(ctx context.Context, req *Request) *Response {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return c.renderError(ctx, req, err)
	}
	return resp
}

func (c *QueueCommand) execute(ctx context.Context, req *Request) (*Response, error) {
	switch req.Subcommand {
	case SubcommandNew:
		return c.handleNew(ctx, req)
	case SubcommandReset:
		return c.handleReset(ctx, req)
	case SubcommandJoin:
		return c.handleJoin(ctx, req)
	case SubcommandLeave:
		return c.handleLeave(ctx, req)
	case SubcommandKick:
		return c.handleKick(ctx, req)
	case SubcommandRollCall:
		return c.handleRollCall(ctx, req)
	case SubcommandGo:
		return c.handleGo(ctx, req)
	case SubcommandResult:
		return c.handleResult(ctx, req)
	case SubcommandShutdown:
		return c.handleShutdown(ctx, req)
	default:
		return errorResponse(fmt.Sprintf("Unknown subcommand: %s", req.Subcommand)), nil
	}
}

func (c *QueueCommand) renderError(ctx context.Context, req *Request, err error) *Response {
	out, msgErr := c.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		Err:        err,
		PlayerName: req.DisplayName,
		TargetName: req.Strings[optionPlayer],
	})
	if msgErr != nil {
		c.logger.Error("failed to render error", zap.Error(msgErr), zap.NamedError("cause", err))
		return errorResponse("Something went wrong")
	}
	if !out.Known {
		c.logger.Error("queue command failed",
			zap.String("subcommand", req.Subcommand),
			zap.String("guild", req.GuildID),
			zap.String("channel", req.ChannelID),
			zap.Error(err))
	}
	return errorResponse(out.Message)
}

func (c *QueueCommand) handleNew(ctx context.Context, req *Request) (*Response, error) {
	teamSize, ok := req.Ints[optionTeamSize]
	if !ok {
		teamSize = c.defaultTeamSize
	}

	out, err := c.queueService.CreateQueue(ctx, &queue.CreateQueueInput{
		GuildID:     req.GuildID,
		ChannelID:   req.ChannelID,
		CreatorName: req.DisplayName,
		TeamSize:    teamSize,
		Game:        req.Strings[optionGame],
	})
	if err != nil {
		return nil, err
	}

	msg, err := c.messagingService.GetCreateMessage(ctx, &messaging.GetCreateMessageInput{
		CreatorName: req.DisplayName,
		TeamSize:    out.Queue.TeamSize,
		Game:        out.Queue.Key.Game,
	})
	if err != nil {
		return nil, err
	}

	return &Response{Content: msg.Message}, nil
}

func (c *QueueCommand) handleReset(ctx context.Context, req *Request) (*Response, error) {
	input := &queue.ResetQueueInput{
		GuildID:   req.GuildID,
		ChannelID: req.ChannelID,
	}
	if teamSize, ok := req.Ints[optionTeamSize]; ok {
		input.TeamSize = &teamSize
	}
	if game, ok := req.Strings[optionGame]; ok {
		input.Game = &game
	}

	out, err := c.queueService.ResetQueue(ctx, input)
	if err != nil {
		return nil, err
	}

	msg, err := c.messagingService.GetResetMessage(ctx, &messaging.GetResetMessageInput{
		TeamSize: out.Queue.TeamSize,
		Game:     out.Queue.Key.Game,
	})
	if err != nil {
		return nil, err
	}

	return &Response{Content: msg.Message}, nil
}

func (c *QueueCommand) handleJoin(ctx context.Context, req *Request) (*Response, error) {
	out, err := c.queueService.JoinQueue(ctx, &queue.JoinQueueInput{
		GuildID:     req.GuildID,
		ChannelID:   req.ChannelID,
		UserID:      req.UserID,
		UserName:    req.UserName,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	input := &messaging.GetJoinMessageInput{
		PlayerName: req.DisplayName,
	}
	if out.RedirectChannelID != "" {
		input.RedirectChannelName = "<#" + out.RedirectChannelID + ">"
	} else {
		input.Game = out.Queue.Key.Game
		input.Count = out.Queue.Count()
		input.Filled = out.Filled
		input.AlreadyFilled = out.AlreadyFilled
	}

	msg, err := c.messagingService.GetJoinMessage(ctx, input)
	if err != nil {
		return nil, err
	}

	if out.Filled {
		c.startSetup(req.GuildID, req.ChannelID)
	}

	return &Response{
		Content:   strings.Join(msg.Messages, "\n"),
		Ephemeral: out.RedirectChannelID != "" || out.AlreadyFilled,
	}, nil
}

// startSetup runs match setup in the background. It outlives the interaction.
func (c *QueueCommand) startSetup(guildID, channelID string) {
	c.setups.Add(1)
	go func() {
		defer c.setups.Done()
		c.runSetup(context.Background(), guildID, channelID)
	}()
}

func (c *QueueCommand) runSetup(ctx context.Context, guildID, channelID string) {
	logger := c.logger.With(zap.String("guild", guildID), zap.String("channel", channelID))

	out, err := c.queueService.RunMatchSetup(ctx, &queue.RunMatchSetupInput{
		GuildID:   guildID,
		ChannelID: channelID,
	})
	if err != nil {
		logger.Warn("match setup failed", zap.Error(err))

		msg, msgErr := c.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Err: err})
		if msgErr != nil {
			return
		}
		if _, postErr := c.messenger.PostMessage(ctx, channelID, platform.Text(msg.Message)); postErr != nil {
			logger.Warn("failed to report match setup failure", zap.Error(postErr))
		}
		return
	}

	logger.Info("match setup finished",
		zap.String("queue_id", out.QueueID),
		zap.String("progress", string(out.Progress)),
		zap.Stringer("outcome", out.Outcome))
}

// Wait blocks until every background match setup returned
func (c *QueueCommand) Wait() {
	c.setups.Wait()
}

func (c *QueueCommand) handleLeave(ctx context.Context, req *Request) (*Response, error) {
	out, err := c.queueService.LeaveQueue(ctx, &queue.LeaveQueueInput{
		GuildID:   req.GuildID,
		ChannelID: req.ChannelID,
		UserID:    req.UserID,
	})
	if err != nil {
		return nil, err
	}

	msg, err := c.messagingService.GetLeaveMessage(ctx, &messaging.GetLeaveMessageInput{
		PlayerName: req.DisplayName,
		Game:       out.Queue.Key.Game,
		Remaining:  out.Queue.Count(),
	})
	if err != nil {
		return nil, err
	}

	return &Response{Content: msg.Message}, nil
}

func (c *QueueCommand) handleKick(ctx context.Context, req *Request) (*Response, error) {
	out, err := c.queueService.KickPlayer(ctx, &queue.KickPlayerInput{
		GuildID:    req.GuildID,
		ChannelID:  req.ChannelID,
		CallerID:   req.UserID,
		TargetName: req.Strings[optionPlayer],
	})
	if err != nil {
		return nil, err
	}

	msg, err := c.messagingService.GetKickMessage(ctx, &messaging.GetKickMessageInput{
		Outcome:    out.Outcome,
		TargetName: out.Target.Label(),
	})
	if err != nil {
		return nil, err
	}

	return &Response{Content: msg.Message}, nil
}

func (c *QueueCommand) handleRollCall(ctx context.Context, req *Request) (*Response, error) {
	out, err := c.queueService.GetRollCall(ctx, &queue.GetRollCallInput{
		GuildID: req.GuildID,
	})
	if err != nil {
		return nil, err
	}

	input := &messaging.GetRollCallMessageInput{}
	for _, q := range out.Queues {
		input.Queues = append(input.Queues, &messaging.RollCallQueue{
			Game:     q.Key.Game,
			Capacity: q.Capacity,
			Names:    labels(q.Players),
		})
	}

	msg, err := c.messagingService.GetRollCallMessage(ctx, input)
	if err != nil {
		return nil, err
	}

	return &Response{Content: msg.Message}, nil
}

func (c *QueueCommand) handleGo(ctx context.Context, req *Request) (*Response, error) {
	out, err := c.queueService.GoToTeamRoom(ctx, &queue.GoToTeamRoomInput{
		GuildID:       req.GuildID,
		ChannelID:     req.ChannelID,
		UserID:        req.UserID,
		CurrentRoomID: req.VoiceRoomID,
	})
	if err != nil {
		return nil, err
	}

	msg, err := c.messagingService.GetGoMessage(ctx, &messaging.GetGoMessageInput{
		PlayerName: req.DisplayName,
		Team:       out.Team,
	})
	if err != nil {
		return nil, err
	}

	return &Response{Content: msg.Message, Ephemeral: true}, nil
}

func (c *QueueCommand) handleResult(ctx context.Context, req *Request) (*Response, error) {
	out, err := c.queueService.ReportResult(ctx, &queue.ReportResultInput{
		GuildID:     req.GuildID,
		ChannelID:   req.ChannelID,
		WinningTeam: req.Ints[optionTeam],
	})
	if err != nil {
		return nil, err
	}

	msg, err := c.messagingService.GetResultMessage(ctx, &messaging.GetResultMessageInput{
		WinningTeam: out.Match.WinningTeam,
		Winners:     labels(out.Winners),
		Losers:      labels(out.Losers),
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		Embed: &platform.Embed{
			Title:       msg.Title,
			Description: msg.Message,
		},
	}, nil
}

func (c *QueueCommand) handleShutdown(ctx context.Context, req *Request) (*Response, error) {
	if !req.IsAdmin {
		return errorResponse(fmt.Sprintf("%s does not have permission to use that function", req.DisplayName)), nil
	}

	out, err := c.queueService.Shutdown(ctx, &queue.ShutdownInput{})
	if err != nil {
		return nil, err
	}

	msg, err := c.messagingService.GetShutdownMessage(ctx, &messaging.GetShutdownMessageInput{
		Closed: out.Closed,
	})
	if err != nil {
		return nil, err
	}

	return &Response{Content: msg.Message}, nil
}

func labels(players []*models.PlayerRecord) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Label()
	}
	return names
}
