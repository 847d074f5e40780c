package queue

// ServiceError is a custom error type for queue service errors
type ServiceError string

// Error implements the error interface
func (e ServiceError) Error() string {
	return string(e)
}

const (
	ErrQueueInProgress       ServiceError = "queue is filling; leave or kick instead of resetting"
	ErrSessionInProgress     ServiceError = "roll call or draft is still running"
	ErrTeamRoomsOccupied     ServiceError = "team rooms are still occupied"
	ErrTeamsNotChosen        ServiceError = "teams have not been chosen yet"
	ErrNotOnTeam             ServiceError = "player is not on either team"
	ErrNotInVoice            ServiceError = "player is not in a voice room"
	ErrMatchNotReady         ServiceError = "match is not ready"
	ErrInvalidTeam           ServiceError = "winning team must be 1 or 2"
	ErrResultAlreadyReported ServiceError = "match result was already reported"
	ErrNilConfig             ServiceError = "config cannot be nil"
	ErrNilRegistry           ServiceError = "queue registry cannot be nil"
	ErrNilPlayerRepo         ServiceError = "player repository cannot be nil"
	ErrNilMatchRepo          ServiceError = "match repository cannot be nil"
	ErrNilRooms              ServiceError = "rooms cannot be nil"
	ErrNilClock              ServiceError = "clock cannot be nil"
)
