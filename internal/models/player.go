package models

// PlayerIdentity is the comparable identity of a player within a community and game
type PlayerIdentity struct {
	ID      string
	Name    string
	GuildID string
	Game    string
}

// PlayerRecord is a participant's identity and win/loss record
type PlayerRecord struct {
	// ID is the Discord user ID of the player
	ID string

	// Name is the Discord username of the player
	Name string

	// DisplayName is the nickname shown in the community, falling back to Name
	DisplayName string

	// GuildID is the community the record belongs to
	GuildID string

	// Game is the optional game label the record is tracked under
	Game string

	// TotalWins is the number of matches won
	TotalWins int

	// TotalLosses is the number of matches lost
	TotalLosses int

	// WinStreak is the current run of consecutive wins
	WinStreak int

	// LossStreak is the current run of consecutive losses
	LossStreak int
}

// Identity returns the tuple records are compared by
func (p *PlayerRecord) Identity() PlayerIdentity {
	return PlayerIdentity{
		ID:      p.ID,
		Name:    p.Name,
		GuildID: p.GuildID,
		Game:    p.Game,
	}
}

// Equal reports whether both records describe the same player in the same context.
// Win/loss counters are not part of identity.
func (p *PlayerRecord) Equal(other *PlayerRecord) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Identity() == other.Identity()
}

// Label is the name used in notifications
func (p *PlayerRecord) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// MatchesPlayed is the number of recorded results
func (p *PlayerRecord) MatchesPlayed() int {
	return p.TotalWins + p.TotalLosses
}

// LogWin records a win and resets the loss streak
func (p *PlayerRecord) LogWin() {
	p.LossStreak = 0
	p.WinStreak++
	p.TotalWins++
}

// LogLoss records a loss and resets the win streak
func (p *PlayerRecord) LogLoss() {
	p.WinStreak = 0
	p.LossStreak++
	p.TotalLosses++
}
