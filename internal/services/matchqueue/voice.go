package matchqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"go.uber.org/zap"
)

// VoiceVerdict is what a voice transition meant for the match
type VoiceVerdict int

const (
	// VoiceIgnored means the transition did not seat anyone
	VoiceIgnored VoiceVerdict = iota

	// VoiceWrongRoom means a member entered a team room they are not rostered for
	VoiceWrongRoom

	// VoiceSeated means a rostered member entered their team room
	VoiceSeated

	// VoiceReady means the transition seated the last missing member
	VoiceReady
)

// VoiceMonitor counts the correctly seated members of both team rooms
type VoiceMonitor struct {
	teamSize int
	rooms    [2]string
	rosters  [2]map[string]bool
	seats    map[string]int
}

// NewVoiceMonitor watches room1 for team1 and room2 for team2
func NewVoiceMonitor(teamSize int, room1, room2 string, team1, team2 []*models.PlayerRecord) *VoiceMonitor {
	roster := func(team []*models.PlayerRecord) map[string]bool {
		m := make(map[string]bool, len(team))
		for _, p := range team {
			m[p.ID] = true
		}
		return m
	}
	return &VoiceMonitor{
		teamSize: teamSize,
		rooms:    [2]string{room1, room2},
		rosters:  [2]map[string]bool{roster(team1), roster(team2)},
		seats:    make(map[string]int),
	}
}

// roomIndex maps a room handle to 0 or 1, or -1 when it is not a team room
func (m *VoiceMonitor) roomIndex(roomID string) int {
	if roomID == "" {
		return -1
	}
	for i, id := range m.rooms {
		if id == roomID {
			return i
		}
	}
	return -1
}

// IsTeamRoom reports whether the handle is one of the two team rooms
func (m *VoiceMonitor) IsTeamRoom(roomID string) bool {
	return m.roomIndex(roomID) >= 0
}

// RoomOf returns the team room a member is rostered for, or "" for anyone outside both teams
func (m *VoiceMonitor) RoomOf(memberID string) string {
	for i, roster := range m.rosters {
		if roster[memberID] {
			return m.rooms[i]
		}
	}
	return ""
}

// Seated is the number of correctly seated members in room 0 or room 1
func (m *VoiceMonitor) Seated(room int) int {
	n := 0
	for _, r := range m.seats {
		if r == room {
			n++
		}
	}
	return n
}

// SeatedTotal is the number of correctly seated members across both rooms
func (m *VoiceMonitor) SeatedTotal() int {
	return len(m.seats)
}

// Ready reports whether both rooms hold exactly a full team
func (m *VoiceMonitor) Ready() bool {
	return m.Seated(0) == m.teamSize && m.Seated(1) == m.teamSize
}

// Observe applies a voice transition
func (m *VoiceMonitor) Observe(ev platform.VoiceEvent) VoiceVerdict {
	room := m.roomIndex(ev.RoomID)
	if current, ok := m.seats[ev.MemberID]; ok {
		if current == room {
			return VoiceIgnored
		}
		delete(m.seats, ev.MemberID)
	}

	if room < 0 {
		return VoiceIgnored
	}

	if !m.rosters[room][ev.MemberID] {
		return VoiceWrongRoom
	}

	m.seats[ev.MemberID] = room
	if m.Ready() {
		return VoiceReady
	}
	return VoiceSeated
}

// RunVoiceMonitor watches the community's voice transitions until both team
// rooms are correctly seated, the queue is closed, or a room goes missing.
func (q *MatchQueue) RunVoiceMonitor(ctx context.Context) error {
	q.mu.Lock()
	if q.progress != models.ProgressDraftComplete {
		q.mu.Unlock()
		return ErrInvalidProgress
	}
	q.monitor = NewVoiceMonitor(q.teamSize, q.resources.Team1RoomID, q.resources.Team2RoomID, q.team1, q.team2)
	q.setProgress(models.ProgressVoiceCompliancePending)
	rooms := []string{q.resources.Team1RoomID, q.resources.Team2RoomID}
	q.mu.Unlock()

	ctx, cancel := q.bind(ctx)
	defer cancel()

	transitions, unsubscribe := q.events.SubscribeVoice(q.key.GuildID)
	defer unsubscribe()

	// members may have walked in before the subscription
	for _, roomID := range rooms {
		occupants, err := q.rooms.RoomOccupants(ctx, q.key.GuildID, roomID)
		if err != nil {
			return q.fail("failed to list team room occupants", err)
		}
		for _, memberID := range occupants {
			if _, err := q.HandleVoiceEvent(ctx, platform.VoiceEvent{
				GuildID:  q.key.GuildID,
				MemberID: memberID,
				RoomID:   roomID,
			}); err != nil {
				return err
			}
		}
	}

	for {
		if q.Progress() == models.ProgressMatchReady {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-transitions:
			if _, err := q.HandleVoiceEvent(ctx, ev); err != nil {
				return err
			}
		}
	}
}

// HandleVoiceEvent enforces team segregation for one transition. Members
// entering the wrong team room are called out and moved away, rostered members
// get a headcount and the last seat marks the match ready.
func (q *MatchQueue) HandleVoiceEvent(ctx context.Context, ev platform.VoiceEvent) (VoiceVerdict, error) {
	q.mu.Lock()
	if q.progress != models.ProgressVoiceCompliancePending || q.monitor == nil {
		q.mu.Unlock()
		return VoiceIgnored, nil
	}
	verdict := q.monitor.Observe(ev)
	seated := q.monitor.SeatedTotal()
	channelID := q.resources.DraftChannelID
	holdingRoomID := q.resources.HoldingRoomID
	monitor := q.monitor
	name := ev.MemberName
	if name == "" {
		name = q.labelOf(ev.MemberID)
	}
	q.mu.Unlock()

	switch verdict {
	case VoiceIgnored:
		return verdict, nil

	case VoiceWrongRoom:
		q.logger.Info("member entered the wrong team room",
			zap.String("player", ev.MemberID),
			zap.String("room", ev.RoomID))

		msg := fmt.Sprintf("%s tried to be a rat and join the wrong VC", name)
		if _, err := q.messenger.PostMessage(ctx, channelID, platform.Text(msg)); err != nil {
			return verdict, q.fail("failed to call out wrong room", err)
		}

		// rostered members go to their own room, anyone else back where they came from
		target := monitor.RoomOf(ev.MemberID)
		if target == "" {
			target = ev.PreviousRoomID
			if target == "" || monitor.IsTeamRoom(target) {
				target = holdingRoomID
			}
		}
		if err := q.rooms.MoveMember(ctx, q.key.GuildID, ev.MemberID, target); err != nil {
			return verdict, q.fail("failed to relocate member", err)
		}
		return verdict, nil
	}

	msg := fmt.Sprintf("%d out of %d players have found the Team Chats!", seated, q.Capacity())
	if _, err := q.messenger.PostMessage(ctx, channelID, platform.Text(msg)); err != nil {
		return verdict, q.fail("failed to post headcount", err)
	}

	if verdict == VoiceReady {
		if err := q.markReady(ctx); err != nil {
			return verdict, err
		}
	}
	return verdict, nil
}

// markReady announces the match and retires the holding room
func (q *MatchQueue) markReady(ctx context.Context) error {
	q.mu.Lock()
	q.readyAt = q.clock.Now()
	q.setProgress(models.ProgressMatchReady)
	channelID := q.resources.DraftChannelID
	holdingRoomID := q.resources.HoldingRoomID
	q.resources.HoldingRoomID = ""
	q.mu.Unlock()

	if _, err := q.messenger.PostMessage(ctx, channelID, platform.Text("Match can begin!")); err != nil {
		return q.fail("failed to announce match", err)
	}

	if holdingRoomID == "" {
		return nil
	}
	if err := q.rooms.DeleteResource(ctx, holdingRoomID); err != nil && !errors.Is(err, platform.ErrResourceMissing) {
		q.logger.Warn("failed to delete holding room", zap.Error(err))
	}
	return nil
}
