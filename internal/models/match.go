package models

import "time"

// MatchRecord is the history entry for a drafted match
type MatchRecord struct {
	// ID is the unique identifier for the match
	ID string

	// GuildID is the community the match was played in
	GuildID string

	// ChannelID is the channel the queue was created in
	ChannelID string

	// Game is the optional game label of the queue
	Game string

	// TeamSize is the number of players per team
	TeamSize int

	// Team1 holds the player IDs of team 1, captain first
	Team1 []string

	// Team2 holds the player IDs of team 2, captain first
	Team2 []string

	// ReadyAt is when both team rooms were correctly seated
	ReadyAt time.Time

	// WinningTeam is 1 or 2 once a result is reported, 0 before
	WinningTeam int

	// ReportedAt is when the result was reported
	ReportedAt time.Time
}

// Reported reports whether a winner has been recorded
func (m *MatchRecord) Reported() bool {
	return m.WinningTeam != 0
}
