package matchqueue

// QueueError is a custom error type for match queue errors
type QueueError string

// Error implements the error interface
func (e QueueError) Error() string {
	return string(e)
}

const (
	ErrQueueAlreadyExists  QueueError = "a queue already exists for this channel"
	ErrNoActiveQueue       QueueError = "no active queue"
	ErrQueueFull           QueueError = "queue is filled"
	ErrAlreadyJoined       QueueError = "player already joined the queue"
	ErrNotJoined           QueueError = "player is not in the queue"
	ErrSessionTimeout      QueueError = "session timed out"
	ErrOutOfTurn           QueueError = "input out of turn"
	ErrWrongVoiceRoom      QueueError = "member joined the wrong voice room"
	ErrInvalidTeamSize     QueueError = "team size must be between 1 and 5"
	ErrKickVoteAlreadyCast QueueError = "caller already voted to kick"
	ErrInvalidProgress     QueueError = "operation not valid for the queue's progress"
	ErrNilConfig           QueueError = "config cannot be nil"
	ErrNilMessenger        QueueError = "messenger cannot be nil"
	ErrNilRooms            QueueError = "rooms cannot be nil"
	ErrNilEvents           QueueError = "event subscriber cannot be nil"
	ErrNilClock            QueueError = "clock cannot be nil"
	ErrNilShuffler         QueueError = "shuffler cannot be nil"
	ErrNilUUIDGenerator    QueueError = "UUID generator cannot be nil"
	ErrNilFactory          QueueError = "queue factory cannot be nil"
	ErrNilPlayer           QueueError = "player cannot be nil"
)
