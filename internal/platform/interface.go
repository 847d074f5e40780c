package platform

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_platform.go github.com/KirkDiggler/pickup/internal/platform Messenger,Rooms

// Messenger posts and maintains notifications in a text channel
type Messenger interface {
	// PostMessage sends a message and returns its ID
	PostMessage(ctx context.Context, channelID string, msg *Message) (string, error)

	// EditMessage replaces the content of a message
	EditMessage(ctx context.Context, channelID, messageID string, msg *Message) error

	// DeleteMessage removes a message, tolerating one that is already gone
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// ClearReactions removes every reaction from a message
	ClearReactions(ctx context.Context, channelID, messageID string) error

	// AddReactions attaches the symbols to a message in order
	AddReactions(ctx context.Context, channelID, messageID string, symbols []string) error
}

// Rooms manages the channels and voice rooms a queue provisions
type Rooms interface {
	// CreateCategory creates a channel category and returns its ID
	CreateCategory(ctx context.Context, guildID, name string) (string, error)

	// CreateTextChannel creates a text channel under a category
	CreateTextChannel(ctx context.Context, guildID, categoryID, name string) (string, error)

	// CreateVoiceRoom creates a voice channel under a category
	CreateVoiceRoom(ctx context.Context, guildID, categoryID, name string) (string, error)

	// DeleteResource deletes a channel or category. Deleting a missing resource is not an error.
	DeleteResource(ctx context.Context, resourceID string) error

	// MoveMember moves a member who is connected to voice into a voice room
	MoveMember(ctx context.Context, guildID, memberID, roomID string) error

	// RoomOccupants lists the member IDs connected to a voice room
	RoomOccupants(ctx context.Context, guildID, roomID string) ([]string, error)
}
