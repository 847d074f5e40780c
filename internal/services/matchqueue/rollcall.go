package matchqueue

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"go.uber.org/zap"
)

const (
	presenceMissing = "Missing"
	presencePresent = "Present"
)

// RollCall tracks attendance of every joined player
type RollCall struct {
	players []*models.PlayerRecord
	present map[string]bool
}

// NewRollCall starts a roll call with everyone missing
func NewRollCall(players []*models.PlayerRecord) *RollCall {
	rc := &RollCall{
		players: append([]*models.PlayerRecord(nil), players...),
		present: make(map[string]bool, len(players)),
	}
	for _, p := range players {
		rc.present[p.ID] = false
	}
	return rc
}

// Acknowledge marks the user present. It reports whether anything changed:
// unknown users and repeat acknowledgments are no-ops.
func (r *RollCall) Acknowledge(userID string) bool {
	present, ok := r.present[userID]
	if !ok || present {
		return false
	}
	r.present[userID] = true
	return true
}

// IsPresent reports whether the user acknowledged
func (r *RollCall) IsPresent(userID string) bool {
	return r.present[userID]
}

// PresentCount is the number of players who acknowledged
func (r *RollCall) PresentCount() int {
	n := 0
	for _, ok := range r.present {
		if ok {
			n++
		}
	}
	return n
}

// AllPresent is true only when every single player acknowledged
func (r *RollCall) AllPresent() bool {
	return len(r.players) > 0 && r.PresentCount() == len(r.players)
}

// Missing lists the players yet to acknowledge, in join order
func (r *RollCall) Missing() []*models.PlayerRecord {
	var missing []*models.PlayerRecord
	for _, p := range r.players {
		if !r.present[p.ID] {
			missing = append(missing, p)
		}
	}
	return missing
}

// RunRollCall posts the attendance board and blocks until everyone reacted,
// the roll call budget runs out, or the queue is closed.
func (q *MatchQueue) RunRollCall(ctx context.Context) (*SessionResult, error) {
	q.mu.Lock()
	if q.progress != models.ProgressFilled {
		q.mu.Unlock()
		return nil, ErrInvalidProgress
	}
	if q.resources.DraftChannelID == "" {
		q.mu.Unlock()
		return nil, fmt.Errorf("roll call needs a provisioned channel: %w", ErrInvalidProgress)
	}
	q.setProgress(models.ProgressRollCallInProgress)
	rc := NewRollCall(q.players)
	channelID := q.resources.DraftChannelID
	q.mu.Unlock()

	ctx, cancel := q.bind(ctx)
	defer cancel()

	deadline := q.clock.Now().Add(q.rollCallTimeout)

	messageID, err := q.messenger.PostMessage(ctx, channelID, rollCallPage(rc))
	if err != nil {
		return nil, q.fail("failed to post roll call", err)
	}

	reactions, unsubscribe := q.events.SubscribeReactions(messageID)
	defer unsubscribe()

	for {
		ev, status := await(ctx, q.clock, deadline, reactions)
		switch status {
		case waitCancelled:
			return &SessionResult{Outcome: SessionCancelled}, nil
		case waitTimedOut:
			q.mu.Lock()
			q.setProgress(models.ProgressRollCallTimedOut)
			q.mu.Unlock()

			q.logger.Info("roll call timed out",
				zap.Int("present", rc.PresentCount()),
				zap.Int("capacity", q.Capacity()))

			if _, err := q.messenger.PostMessage(ctx, channelID,
				platform.Text("Roll call has timed out because someone did not show. Reset the queue to try again.")); err != nil {
				return nil, q.fail("failed to post roll call timeout", err)
			}
			return &SessionResult{Outcome: SessionTimedOut}, nil
		}

		if ev.UserID == q.botUserID {
			continue
		}

		if !rc.Acknowledge(ev.UserID) {
			q.logger.Debug("ignoring roll call reaction", zap.String("user", ev.UserID))
			continue
		}

		if err := q.messenger.EditMessage(ctx, channelID, messageID, rollCallPage(rc)); err != nil {
			return nil, q.fail("failed to refresh roll call", err)
		}

		if rc.AllPresent() {
			q.mu.Lock()
			q.setProgress(models.ProgressRollCallComplete)
			q.mu.Unlock()
			return &SessionResult{Outcome: SessionSucceeded}, nil
		}
	}
}
