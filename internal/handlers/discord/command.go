package discord

import (
	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler defines the interface for Discord command handlers
type CommandHandler interface {
	// GetName returns the command name
	GetName() string

	// GetCommand returns the application command definition
	GetCommand() *discordgo.ApplicationCommand

	// Handle processes a Discord interaction
	Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error
}

// BaseCommand provides common functionality for all commands
type BaseCommand struct {
	Name        string
	Description string
	Options     []*discordgo.ApplicationCommandOption
}

// GetName returns the command name
func (c *BaseCommand) GetName() string {
	return c.Name
}

// GetCommand returns the application command definition
func (c *BaseCommand) GetCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
}

// Response is what a command answers with
type Response struct {
	Content   string
	Embed     *platform.Embed
	Ephemeral bool
}

// errorResponse renders a user-facing error line only the caller sees
func errorResponse(message string) *Response {
	return &Response{
		Embed: &platform.Embed{
			Title:       "Error",
			Description: message,
			Color:       colorError,
		},
		Ephemeral: true,
	}
}

// Respond sends a response to an interaction
func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, resp *Response) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: toResponseData(resp),
	})
}
