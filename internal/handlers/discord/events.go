package discord

import (
	"sync"

	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/bwmarrin/discordgo"
)

func reactionEvent(r *discordgo.MessageReactionAdd) platform.ReactionEvent {
	return platform.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Symbol:    r.Emoji.Name,
	}
}

// memberName is the nickname, then the global name, then the username
func memberName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// voiceTracker remembers each member's last voice room so a transition can
// name the room they came from when the state cache did not have it
type voiceTracker struct {
	mu   sync.Mutex
	last map[string]string
}

func newVoiceTracker() *voiceTracker {
	return &voiceTracker{
		last: make(map[string]string),
	}
}

// Observe converts a voice state update into a room transition. Updates that
// do not change the room (mute, deafen, stream) report false.
func (t *voiceTracker) Observe(v *discordgo.VoiceStateUpdate) (platform.VoiceEvent, bool) {
	if v == nil || v.VoiceState == nil {
		return platform.VoiceEvent{}, false
	}

	key := v.GuildID + ":" + v.UserID

	t.mu.Lock()
	previous, seen := t.last[key]
	if v.ChannelID == "" {
		delete(t.last, key)
	} else {
		t.last[key] = v.ChannelID
	}
	t.mu.Unlock()

	if v.BeforeUpdate != nil {
		previous, seen = v.BeforeUpdate.ChannelID, true
	}
	if seen && previous == v.ChannelID {
		return platform.VoiceEvent{}, false
	}

	return platform.VoiceEvent{
		GuildID:        v.GuildID,
		MemberID:       v.UserID,
		MemberName:     memberName(v.Member),
		PreviousRoomID: previous,
		RoomID:         v.ChannelID,
	}, true
}
