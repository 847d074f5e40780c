package discord

import (
	"errors"
	"fmt"

	"github.com/KirkDiggler/pickup/internal/events"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	events     *events.Hub
	voice      *voiceTracker
	config     *Config
	logger     *zap.Logger
}

// Config holds the configuration for the bot
type Config struct {
	// Session is the Discord session, created from the bot token
	Session *discordgo.Session

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Events receives reactions and voice transitions
	Events *events.Hub

	// Commands are registered on Start
	Commands []CommandHandler

	Logger *zap.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}

	if cfg.Events == nil {
		return nil, errors.New("events hub cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bot := &Bot{
		session:    cfg.Session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		events:     cfg.Events,
		voice:      newVoiceTracker(),
		config:     cfg,
		logger:     logger,
	}

	cfg.Session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildVoiceStates

	// Queues must see reactions and voice transitions in arrival order; the
	// handlers only publish or answer, match setups run on their own goroutines.
	cfg.Session.SyncEvents = true

	cfg.Session.AddHandler(bot.handleInteraction)
	cfg.Session.AddHandler(bot.handleReactionAdd)
	cfg.Session.AddHandler(bot.handleVoiceStateUpdate)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	for _, cmd := range b.config.Commands {
		if err := b.RegisterCommand(cmd); err != nil {
			return fmt.Errorf("failed to register %s command: %w", cmd.GetName(), err)
		}
	}

	b.logger.Info("bot is running", zap.String("user", b.UserID()))
	return nil
}

// UserID is the bot's own user ID once connected
func (b *Bot) UserID() string {
	if b.session.State == nil || b.session.State.User == nil {
		return ""
	}
	return b.session.State.User.ID
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.UserID()
}

// Stop removes the registered commands and closes the Discord connection
func (b *Bot) Stop() error {
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(b.appID(), b.config.GuildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command", zap.String("command", cmdName), zap.Error(err))
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord. Commands are global
// unless a guild ID is configured.
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command",
		zap.String("command", cmd.GetName()),
		zap.String("id", createdCmd.ID),
		zap.String("guild", b.config.GuildID))

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	if h, ok := b.commands[name]; ok {
		if err := h.Handle(s, i); err != nil {
			b.logger.Error("failed to handle command", zap.String("command", name), zap.Error(err))
		}
	}
}

// handleReactionAdd routes reactions to the queue watching the message
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil || r.UserID == b.UserID() {
		return
	}

	delivered := b.events.PublishReaction(reactionEvent(r))
	if delivered > 0 {
		b.logger.Debug("reaction routed",
			zap.String("message", r.MessageID),
			zap.String("user", r.UserID),
			zap.String("symbol", r.Emoji.Name))
	}
}

// handleVoiceStateUpdate routes room transitions to the queues watching the guild
func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	ev, ok := b.voice.Observe(v)
	if !ok {
		return
	}
	b.events.PublishVoice(ev)
}
