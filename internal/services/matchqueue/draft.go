package matchqueue

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/KirkDiggler/pickup/internal/random"
	"go.uber.org/zap"
)

// PickSymbols are the reaction options of the pick menu, in menu order
var PickSymbols = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣"}

// Draft partitions the joined players into two teams through alternating captain picks
type Draft struct {
	// pool is the shuffled player list; pool[0] and pool[1] are the captains
	pool  []*models.PlayerRecord
	team1 []*models.PlayerRecord
	team2 []*models.PlayerRecord
}

// NewDraft shuffles the players and seeds each team with a captain
func NewDraft(players []*models.PlayerRecord, shuffler random.Shuffler) (*Draft, error) {
	n := len(players)
	if n < 2*MinTeamSize || n > 2*MaxTeamSize || n%2 != 0 {
		return nil, ErrInvalidTeamSize
	}

	perm := shuffler.Perm(n)
	if len(perm) != n {
		return nil, fmt.Errorf("shuffler returned %d indexes for %d players", len(perm), n)
	}

	pool := make([]*models.PlayerRecord, n)
	seen := make([]bool, n)
	for i, idx := range perm {
		if idx < 0 || idx >= n || seen[idx] {
			return nil, fmt.Errorf("shuffler returned an invalid permutation %v", perm)
		}
		seen[idx] = true
		pool[i] = players[idx]
	}

	return &Draft{
		pool:  pool,
		team1: []*models.PlayerRecord{pool[0]},
		team2: []*models.PlayerRecord{pool[1]},
	}, nil
}

// Captain1 leads team 1 and picks first
func (d *Draft) Captain1() *models.PlayerRecord {
	return d.team1[0]
}

// Captain2 leads team 2
func (d *Draft) Captain2() *models.PlayerRecord {
	return d.team2[0]
}

// Team1 returns a copy of team 1, captain first
func (d *Draft) Team1() []*models.PlayerRecord {
	return append([]*models.PlayerRecord(nil), d.team1...)
}

// Team2 returns a copy of team 2, captain first
func (d *Draft) Team2() []*models.PlayerRecord {
	return append([]*models.PlayerRecord(nil), d.team2...)
}

func (d *Draft) drafted(p *models.PlayerRecord) bool {
	for _, t := range d.team1 {
		if t == p {
			return true
		}
	}
	for _, t := range d.team2 {
		if t == p {
			return true
		}
	}
	return false
}

// Undrafted lists the players still in the pool, in shuffled order
func (d *Draft) Undrafted() []*models.PlayerRecord {
	var out []*models.PlayerRecord
	for _, p := range d.pool {
		if !d.drafted(p) {
			out = append(out, p)
		}
	}
	return out
}

// Symbols are the reactions offered for the current pool, one per undrafted player
func (d *Draft) Symbols() []string {
	return append([]string(nil), PickSymbols[:len(d.Undrafted())]...)
}

// CurrentCaptain returns the captain entitled to pick and their team number.
// An even pool belongs to captain 1, an odd one to captain 2.
func (d *Draft) CurrentCaptain() (*models.PlayerRecord, int) {
	if len(d.Undrafted())%2 == 0 {
		return d.Captain1(), 1
	}
	return d.Captain2(), 2
}

// Complete reports whether the pool is empty
func (d *Draft) Complete() bool {
	return len(d.Undrafted()) == 0
}

// Pick assigns the player behind symbol to the acting captain's team.
// Anyone but the entitled captain, or a symbol outside the offered set, yields ErrOutOfTurn.
func (d *Draft) Pick(userID, symbol string) (*models.PlayerRecord, error) {
	if d.Complete() {
		return nil, ErrInvalidProgress
	}

	captain, team := d.CurrentCaptain()
	if captain.ID != userID {
		return nil, ErrOutOfTurn
	}

	undrafted := d.Undrafted()
	index := -1
	for i, s := range PickSymbols[:len(undrafted)] {
		if s == symbol {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrOutOfTurn
	}

	picked := undrafted[index]
	if team == 1 {
		d.team1 = append(d.team1, picked)
	} else {
		d.team2 = append(d.team2, picked)
	}
	return picked, nil
}

// RunDraft announces the captains and runs the pick menu until both teams are
// full, the draft budget runs out, or the queue is closed. On success the team
// rooms are provisioned and the queue moves to draft_complete.
func (q *MatchQueue) RunDraft(ctx context.Context) (*SessionResult, error) {
	q.mu.Lock()
	if q.progress != models.ProgressRollCallComplete {
		q.mu.Unlock()
		return nil, ErrInvalidProgress
	}
	d, err := NewDraft(q.players, q.shuffler)
	if err != nil {
		q.mu.Unlock()
		return nil, err
	}
	q.draft = d
	q.setProgress(models.ProgressDraftInProgress)
	channelID := q.resources.DraftChannelID
	q.mu.Unlock()

	ctx, cancel := q.bind(ctx)
	defer cancel()

	deadline := q.clock.Now().Add(q.draftTimeout)

	announcement := fmt.Sprintf("The captains will be %s and %s", d.Captain1().Label(), d.Captain2().Label())
	if _, err := q.messenger.PostMessage(ctx, channelID, platform.Text(announcement)); err != nil {
		return nil, q.fail("failed to announce captains", err)
	}

	q.mu.Lock()
	complete := d.Complete()
	if complete {
		q.team1, q.team2 = d.Team1(), d.Team2()
	}
	menu, symbols := draftPage(d), d.Symbols()
	q.mu.Unlock()

	// two captains alone leave nobody to pick
	if complete {
		if _, err := q.messenger.PostMessage(ctx, channelID, finalPage(d)); err != nil {
			return nil, q.fail("failed to post teams", err)
		}
		if err := q.provisionTeamRooms(ctx); err != nil {
			return nil, err
		}
		return &SessionResult{Outcome: SessionSucceeded}, nil
	}

	messageID, err := q.messenger.PostMessage(ctx, channelID, menu)
	if err != nil {
		return nil, q.fail("failed to post pick menu", err)
	}

	reactions, unsubscribe := q.events.SubscribeReactions(messageID)
	defer unsubscribe()

	if err := q.offer(ctx, channelID, messageID, symbols); err != nil {
		return nil, err
	}

	for {
		ev, status := await(ctx, q.clock, deadline, reactions)
		switch status {
		case waitCancelled:
			return &SessionResult{Outcome: SessionCancelled}, nil
		case waitTimedOut:
			q.mu.Lock()
			blamed, _ := d.CurrentCaptain()
			q.setProgress(models.ProgressDraftTimedOut)
			q.mu.Unlock()

			q.logger.Info("draft timed out", zap.String("captain", blamed.ID))

			msg := fmt.Sprintf("Team picking has timed out because %s could not make a decision. Reset the queue to try again.", blamed.Label())
			if _, err := q.messenger.PostMessage(ctx, channelID, platform.Text(msg)); err != nil {
				return nil, q.fail("failed to post draft timeout", err)
			}
			return &SessionResult{Outcome: SessionTimedOut, Blamed: blamed}, nil
		}

		if ev.UserID == q.botUserID {
			continue
		}

		q.mu.Lock()
		picked, err := d.Pick(ev.UserID, ev.Symbol)
		complete := d.Complete()
		page, symbols := draftPage(d), d.Symbols()
		if complete {
			page = finalPage(d)
			q.team1, q.team2 = d.Team1(), d.Team2()
		}
		q.mu.Unlock()

		if err != nil {
			q.logger.Debug("rejecting pick",
				zap.String("user", ev.UserID),
				zap.String("symbol", ev.Symbol),
				zap.Error(err))
			if err := q.offer(ctx, channelID, messageID, symbols); err != nil {
				return nil, err
			}
			continue
		}

		q.logger.Debug("player picked", zap.String("player", picked.ID))

		if !complete {
			if err := q.messenger.EditMessage(ctx, channelID, messageID, page); err != nil {
				return nil, q.fail("failed to refresh pick menu", err)
			}
			if err := q.offer(ctx, channelID, messageID, symbols); err != nil {
				return nil, err
			}
			continue
		}

		// the rosters replace the menu
		if err := q.messenger.DeleteMessage(ctx, channelID, messageID); err != nil {
			return nil, q.fail("failed to remove pick menu", err)
		}
		if _, err := q.messenger.PostMessage(ctx, channelID, page); err != nil {
			return nil, q.fail("failed to post teams", err)
		}

		if err := q.provisionTeamRooms(ctx); err != nil {
			return nil, err
		}

		return &SessionResult{Outcome: SessionSucceeded}, nil
	}
}

// offer replaces the reactions on the pick menu with symbols
func (q *MatchQueue) offer(ctx context.Context, channelID, messageID string, symbols []string) error {
	if err := q.messenger.ClearReactions(ctx, channelID, messageID); err != nil {
		return q.fail("failed to clear pick options", err)
	}
	if err := q.messenger.AddReactions(ctx, channelID, messageID, symbols); err != nil {
		return q.fail("failed to add pick options", err)
	}
	return nil
}
