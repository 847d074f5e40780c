package matchqueue

import "github.com/KirkDiggler/pickup/internal/platform"

// Subscriber hands out event streams for the lifetime of a session.
// The returned func unsubscribes and is safe to call more than once.
type Subscriber interface {
	SubscribeReactions(messageID string) (<-chan platform.ReactionEvent, func())
	SubscribeVoice(guildID string) (<-chan platform.VoiceEvent, func())
}
