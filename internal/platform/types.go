package platform

// PlatformError is a comparable error type for collaborator failures
type PlatformError string

// Error implements the error interface
func (e PlatformError) Error() string {
	return string(e)
}

const (
	// ErrResourceMissing is returned when a channel, room or message no longer exists
	ErrResourceMissing PlatformError = "platform resource is missing"
)

// Message is either plain content, an embed, or both
type Message struct {
	Content string
	Embed   *Embed
}

// Embed is a structured notification
type Embed struct {
	Title       string
	Description string
	Footer      string
	Color       int
	Fields      []EmbedField
}

// EmbedField is one named value in an embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Text builds a plain content message
func Text(content string) *Message {
	return &Message{Content: content}
}

// ReactionEvent is a reaction added to a message
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Symbol    string
}

// VoiceEvent is a member moving between voice rooms. An empty room ID means not connected.
type VoiceEvent struct {
	GuildID        string
	MemberID       string
	MemberName     string
	PreviousRoomID string
	RoomID         string
}
