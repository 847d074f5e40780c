package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/bwmarrin/discordgo"
)

// restClient is the slice of *discordgo.Session the gateway calls
type restClient interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionsRemoveAll(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMemberMove(guildID string, userID string, channelID *string, options ...discordgo.RequestOption) error
}

// Gateway implements platform.Messenger and platform.Rooms over the Discord REST API.
// Voice occupancy is read from the session's state cache.
type Gateway struct {
	client restClient
	state  *discordgo.State
}

// GatewayConfig holds configuration for the gateway
type GatewayConfig struct {
	// Client is usually the *discordgo.Session
	Client restClient

	// State is the session's state cache, tracking voice
	State *discordgo.State
}

// NewGateway creates a gateway
func NewGateway(cfg *GatewayConfig) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if cfg.State == nil {
		return nil, errors.New("state cannot be nil")
	}

	return &Gateway{
		client: cfg.Client,
		state:  cfg.State,
	}, nil
}

// isMissing reports whether Discord answered that the target does not exist
func isMissing(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownMessage:
			return true
		}
	}
	return false
}

// translate marks not-found responses as platform.ErrResourceMissing
func translate(action string, err error) error {
	if err == nil {
		return nil
	}
	if isMissing(err) {
		return fmt.Errorf("failed to %s: %w: %v", action, platform.ErrResourceMissing, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// PostMessage sends a message and returns its ID
func (g *Gateway) PostMessage(ctx context.Context, channelID string, msg *platform.Message) (string, error) {
	sent, err := g.client.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return "", translate("post message", err)
	}
	return sent.ID, nil
}

// EditMessage replaces the content of a message
func (g *Gateway) EditMessage(ctx context.Context, channelID, messageID string, msg *platform.Message) error {
	_, err := g.client.ChannelMessageEditComplex(toMessageEdit(channelID, messageID, msg), discordgo.WithContext(ctx))
	return translate("edit message", err)
}

// DeleteMessage removes a message, tolerating one that is already gone
func (g *Gateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := g.client.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	if isMissing(err) {
		return nil
	}
	return translate("delete message", err)
}

// ClearReactions removes every reaction from a message
func (g *Gateway) ClearReactions(ctx context.Context, channelID, messageID string) error {
	err := g.client.MessageReactionsRemoveAll(channelID, messageID, discordgo.WithContext(ctx))
	return translate("clear reactions", err)
}

// AddReactions attaches the symbols to a message in order
func (g *Gateway) AddReactions(ctx context.Context, channelID, messageID string, symbols []string) error {
	for _, symbol := range symbols {
		if err := g.client.MessageReactionAdd(channelID, messageID, symbol, discordgo.WithContext(ctx)); err != nil {
			return translate("add reaction", err)
		}
	}
	return nil
}

func (g *Gateway) createChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (string, error) {
	channel, err := g.client.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return "", translate("create channel "+data.Name, err)
	}
	return channel.ID, nil
}

// CreateCategory creates a channel category and returns its ID
func (g *Gateway) CreateCategory(ctx context.Context, guildID, name string) (string, error) {
	return g.createChannel(ctx, guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	})
}

// CreateTextChannel creates a text channel under a category
func (g *Gateway) CreateTextChannel(ctx context.Context, guildID, categoryID, name string) (string, error) {
	return g.createChannel(ctx, guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: categoryID,
	})
}

// CreateVoiceRoom creates a voice channel under a category
func (g *Gateway) CreateVoiceRoom(ctx context.Context, guildID, categoryID, name string) (string, error) {
	return g.createChannel(ctx, guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildVoice,
		ParentID: categoryID,
	})
}

// DeleteResource deletes a channel or category. Deleting a missing resource is not an error.
func (g *Gateway) DeleteResource(ctx context.Context, resourceID string) error {
	_, err := g.client.ChannelDelete(resourceID, discordgo.WithContext(ctx))
	if isMissing(err) {
		return nil
	}
	return translate("delete channel", err)
}

// MoveMember moves a connected member into a voice room. An empty room disconnects them.
func (g *Gateway) MoveMember(ctx context.Context, guildID, memberID, roomID string) error {
	var target *string
	if roomID != "" {
		target = &roomID
	}
	return translate("move member", g.client.GuildMemberMove(guildID, memberID, target, discordgo.WithContext(ctx)))
}

// RoomOccupants lists the member IDs connected to a voice room
func (g *Gateway) RoomOccupants(ctx context.Context, guildID, roomID string) ([]string, error) {
	guild, err := g.state.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice states: %w", err)
	}

	g.state.RLock()
	defer g.state.RUnlock()

	var occupants []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == roomID {
			occupants = append(occupants, vs.UserID)
		}
	}
	return occupants, nil
}
