package models

import "fmt"

// QueueKey identifies a queue by community, channel and optional game label.
// It is a comparable value and is used directly as a map key.
type QueueKey struct {
	// GuildID is the Discord server the queue lives in
	GuildID string

	// ChannelID is the text channel the queue was created in
	ChannelID string

	// Game is the optional game label, empty when absent
	Game string
}

// SameChannel reports whether both keys point at the same community channel, ignoring the game label
func (k QueueKey) SameChannel(other QueueKey) bool {
	return k.GuildID == other.GuildID && k.ChannelID == other.ChannelID
}

// WithGame returns a copy of the key with a different game label
func (k QueueKey) WithGame(game string) QueueKey {
	k.Game = game
	return k
}

func (k QueueKey) String() string {
	game := k.Game
	if game == "" {
		game = "-"
	}
	return fmt.Sprintf("%s - %s - %s", k.GuildID, k.ChannelID, game)
}

// Progress is the state of a match queue
type Progress string

const (
	// ProgressEmpty indicates nobody has joined
	ProgressEmpty Progress = "empty"

	// ProgressFilling indicates the queue has players but is not full
	ProgressFilling Progress = "filling"

	// ProgressFilled indicates the queue holds 2N players
	ProgressFilled Progress = "filled"

	// ProgressRollCallInProgress indicates attendance is being confirmed
	ProgressRollCallInProgress Progress = "roll_call_in_progress"

	// ProgressRollCallComplete indicates every player acknowledged the roll call
	ProgressRollCallComplete Progress = "roll_call_complete"

	// ProgressRollCallTimedOut indicates the roll call budget ran out
	ProgressRollCallTimedOut Progress = "roll_call_timed_out"

	// ProgressDraftInProgress indicates captains are picking
	ProgressDraftInProgress Progress = "draft_in_progress"

	// ProgressDraftTimedOut indicates a captain failed to pick in time
	ProgressDraftTimedOut Progress = "draft_timed_out"

	// ProgressDraftComplete indicates both rosters are final
	ProgressDraftComplete Progress = "draft_complete"

	// ProgressVoiceCompliancePending indicates players are finding their team rooms
	ProgressVoiceCompliancePending Progress = "voice_compliance_pending"

	// ProgressMatchReady indicates both team rooms are correctly seated
	ProgressMatchReady Progress = "match_ready"

	// ProgressResourceMissing indicates a platform resource vanished and the queue needs a reset
	ProgressResourceMissing Progress = "resource_missing"

	// ProgressSetupFailed indicates a platform call failed mid setup and the queue needs a reset
	ProgressSetupFailed Progress = "setup_failed"
)

// IsFilled reports whether the queue reached capacity at some point in its life
func (p Progress) IsFilled() bool {
	switch p {
	case ProgressEmpty, ProgressFilling:
		return false
	}
	return true
}

// IsSessionRunning reports whether roll call or draft is waiting on players
func (p Progress) IsSessionRunning() bool {
	return p == ProgressRollCallInProgress || p == ProgressDraftInProgress
}

// IsStalled reports whether the queue is waiting on a reset after a failure
func (p Progress) IsStalled() bool {
	switch p {
	case ProgressRollCallTimedOut, ProgressDraftTimedOut, ProgressResourceMissing, ProgressSetupFailed:
		return true
	}
	return false
}

// TeamsChosen reports whether the draft finished
func (p Progress) TeamsChosen() bool {
	switch p {
	case ProgressDraftComplete, ProgressVoiceCompliancePending, ProgressMatchReady:
		return true
	}
	return false
}

// KickVote is an open vote to remove a player from a queue
type KickVote struct {
	// TargetID is the Discord user ID of the player being voted out
	TargetID string

	// TargetName is the display name the vote was started with
	TargetName string

	// VoterIDs holds everyone who has voted, in order
	VoterIDs []string
}

// Votes is the number of votes cast
func (v *KickVote) Votes() int {
	return len(v.VoterIDs)
}

// Accepted reports whether enough votes were cast to act
func (v *KickVote) Accepted() bool {
	return v.Votes() > 1
}

// HasVoted reports whether the user already voted
func (v *KickVote) HasVoted(userID string) bool {
	for _, id := range v.VoterIDs {
		if id == userID {
			return true
		}
	}
	return false
}
