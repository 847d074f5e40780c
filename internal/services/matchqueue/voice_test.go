package matchqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"go.uber.org/mock/gomock"
)

func voiceEvent(memberID, from, to string) platform.VoiceEvent {
	return platform.VoiceEvent{
		GuildID:        "g1",
		MemberID:       memberID,
		PreviousRoomID: from,
		RoomID:         to,
	}
}

func (s *MatchQueueTestSuite) newMonitor() *VoiceMonitor {
	players := makePlayers(4)
	return NewVoiceMonitor(2, "team1", "team2", players[:2], players[2:])
}

func (s *MatchQueueTestSuite) TestVoiceMonitorWrongRoom() {
	m := s.newMonitor()

	s.Equal(VoiceWrongRoom, m.Observe(voiceEvent("stranger", "", "team1")))
	s.Equal(VoiceWrongRoom, m.Observe(voiceEvent("u3", "", "team1")))
	s.Zero(m.SeatedTotal())
}

func (s *MatchQueueTestSuite) TestVoiceMonitorIgnoresOtherRooms() {
	m := s.newMonitor()

	s.Equal(VoiceIgnored, m.Observe(voiceEvent("u1", "", "lobby")))
	s.Equal(VoiceSeated, m.Observe(voiceEvent("u1", "lobby", "team1")))
	s.Equal(VoiceIgnored, m.Observe(voiceEvent("u1", "team1", "team1")))
	s.Equal(1, m.SeatedTotal())

	// leaving a team room frees the seat
	s.Equal(VoiceIgnored, m.Observe(voiceEvent("u1", "team1", "")))
	s.Zero(m.SeatedTotal())
}

func (s *MatchQueueTestSuite) TestVoiceMonitorReadyInAnyOrder() {
	orders := [][]string{
		{"u1", "u2", "u3", "u4"},
		{"u3", "u4", "u1", "u2"},
		{"u4", "u1", "u3", "u2"},
		{"u2", "u3", "u1", "u4"},
	}
	rooms := map[string]string{"u1": "team1", "u2": "team1", "u3": "team2", "u4": "team2"}

	for _, order := range orders {
		m := s.newMonitor()
		var verdicts []VoiceVerdict
		for _, id := range order {
			verdicts = append(verdicts, m.Observe(voiceEvent(id, "", rooms[id])))
		}
		s.Equal([]VoiceVerdict{VoiceSeated, VoiceSeated, VoiceSeated, VoiceReady}, verdicts, "order %v", order)
		s.True(m.Ready())
	}
}

func (s *MatchQueueTestSuite) TestVoiceMonitorWrongMembersDoNotCount() {
	m := s.newMonitor()

	s.Equal(VoiceSeated, m.Observe(voiceEvent("u1", "", "team1")))
	s.Equal(VoiceWrongRoom, m.Observe(voiceEvent("u3", "", "team1")))
	s.Equal(VoiceSeated, m.Observe(voiceEvent("u3", "team1", "team2")))
	s.Equal(VoiceSeated, m.Observe(voiceEvent("u4", "", "team2")))
	s.False(m.Ready())
	s.Equal(VoiceReady, m.Observe(voiceEvent("u2", "", "team1")))
}

// pendingQueue returns a queue watching voice with team1 = u1,u2 and team2 = u3,u4
func (s *MatchQueueTestSuite) pendingQueue() *MatchQueue {
	q, players := s.filledQueue(2)
	q.team1 = players[:2]
	q.team2 = players[2:]
	q.resources.Team1RoomID = "team1"
	q.resources.Team2RoomID = "team2"
	q.progress = models.ProgressVoiceCompliancePending
	q.monitor = NewVoiceMonitor(2, "team1", "team2", q.team1, q.team2)
	return q
}

func (s *MatchQueueTestSuite) TestVoiceMonitorRoomOf() {
	m := s.newMonitor()

	s.Equal("team1", m.RoomOf("u2"))
	s.Equal("team2", m.RoomOf("u3"))
	s.Empty(m.RoomOf("stranger"))
}

func (s *MatchQueueTestSuite) TestHandleVoiceEventSendsRosteredMemberToOwnRoom() {
	q := s.pendingQueue()

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("player3 tried to be a rat and join the wrong VC")).Return("m", nil)
	s.rooms.EXPECT().MoveMember(gomock.Any(), "g1", "u3", "team2").Return(nil)

	verdict, err := q.HandleVoiceEvent(context.Background(), voiceEvent("u3", "lobby", "team1"))
	s.Require().NoError(err)
	s.Equal(VoiceWrongRoom, verdict)

	// the move lands them in their own room, which seats them
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("1 out of 4 players have found the Team Chats!")).Return("m", nil)

	verdict, err = q.HandleVoiceEvent(context.Background(), voiceEvent("u3", "team1", "team2"))
	s.Require().NoError(err)
	s.Equal(VoiceSeated, verdict)
}

func (s *MatchQueueTestSuite) TestHandleVoiceEventSeatedMemberHoppingRoomsGoesBack() {
	q := s.pendingQueue()

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("1 out of 4 players have found the Team Chats!")).Return("m", nil)
	_, err := q.HandleVoiceEvent(context.Background(), voiceEvent("u1", "", "team1"))
	s.Require().NoError(err)

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("player1 tried to be a rat and join the wrong VC")).Return("m", nil)
	s.rooms.EXPECT().MoveMember(gomock.Any(), "g1", "u1", "team1").Return(nil)

	verdict, err := q.HandleVoiceEvent(context.Background(), voiceEvent("u1", "team1", "team2"))
	s.Require().NoError(err)
	s.Equal(VoiceWrongRoom, verdict)
}

func (s *MatchQueueTestSuite) TestHandleVoiceEventRelocatesOutsider() {
	q := s.pendingQueue()

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("m", nil)
	s.rooms.EXPECT().MoveMember(gomock.Any(), "g1", "outsider", "lobby").Return(nil)

	verdict, err := q.HandleVoiceEvent(context.Background(), voiceEvent("outsider", "lobby", "team1"))
	s.Require().NoError(err)
	s.Equal(VoiceWrongRoom, verdict)
}

func (s *MatchQueueTestSuite) TestHandleVoiceEventRelocatesToHoldingRoom() {
	q := s.pendingQueue()

	ev := voiceEvent("outsider", "", "team2")
	ev.MemberName = "Rat"
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("Rat tried to be a rat and join the wrong VC")).Return("m", nil)
	s.rooms.EXPECT().MoveMember(gomock.Any(), "g1", "outsider", "holding").Return(nil)

	verdict, err := q.HandleVoiceEvent(context.Background(), ev)
	s.Require().NoError(err)
	s.Equal(VoiceWrongRoom, verdict)

	// hopping from the other team room also lands in the holding room
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("m", nil)
	s.rooms.EXPECT().MoveMember(gomock.Any(), "g1", "outsider", "holding").Return(nil)

	_, err = q.HandleVoiceEvent(context.Background(), voiceEvent("outsider", "team2", "team1"))
	s.Require().NoError(err)
}

func (s *MatchQueueTestSuite) TestHandleVoiceEventReachesMatchReady() {
	q := s.pendingQueue()

	for i := 1; i <= 4; i++ {
		s.messenger.EXPECT().PostMessage(gomock.Any(), "draft",
			platform.Text(fmt.Sprintf("%d out of 4 players have found the Team Chats!", i))).Return("m", nil)
	}
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("Match can begin!")).Return("m", nil)
	s.rooms.EXPECT().DeleteResource(gomock.Any(), "holding").Return(nil)

	for _, ev := range []platform.VoiceEvent{
		voiceEvent("u3", "", "team2"),
		voiceEvent("u1", "", "team1"),
		voiceEvent("u4", "", "team2"),
	} {
		verdict, err := q.HandleVoiceEvent(context.Background(), ev)
		s.Require().NoError(err)
		s.Equal(VoiceSeated, verdict)
	}

	verdict, err := q.HandleVoiceEvent(context.Background(), voiceEvent("u2", "", "team1"))
	s.Require().NoError(err)
	s.Equal(VoiceReady, verdict)
	s.Equal(models.ProgressMatchReady, q.Progress())
	s.Equal(s.testNow, q.ReadyAt())
	s.Empty(q.Resources().HoldingRoomID)

	// later transitions are ignored
	verdict, err = q.HandleVoiceEvent(context.Background(), voiceEvent("u2", "team1", ""))
	s.Require().NoError(err)
	s.Equal(VoiceIgnored, verdict)
}

func (s *MatchQueueTestSuite) TestHandleVoiceEventMissingRoom() {
	q := s.pendingQueue()

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("m", nil)
	s.rooms.EXPECT().MoveMember(gomock.Any(), "g1", "u3", "team2").
		Return(fmt.Errorf("move: %w", platform.ErrResourceMissing))

	_, err := q.HandleVoiceEvent(context.Background(), voiceEvent("u3", "", "team1"))
	s.ErrorIs(err, platform.ErrResourceMissing)
	s.Equal(models.ProgressResourceMissing, q.Progress())
}

func (s *MatchQueueTestSuite) TestHandleVoiceEventIgnoredBeforeDraft() {
	q, _ := s.filledQueue(2)

	verdict, err := q.HandleVoiceEvent(context.Background(), voiceEvent("u1", "", "team1"))
	s.Require().NoError(err)
	s.Equal(VoiceIgnored, verdict)
}

func (s *MatchQueueTestSuite) TestRunVoiceMonitor() {
	q, players := s.filledQueue(1)
	q.team1 = players[:1]
	q.team2 = players[1:]
	q.resources.Team1RoomID = "team1"
	q.resources.Team2RoomID = "team2"
	q.progress = models.ProgressDraftComplete

	s.rooms.EXPECT().RoomOccupants(gomock.Any(), "g1", "team1").Return([]string{"u1"}, nil)
	s.rooms.EXPECT().RoomOccupants(gomock.Any(), "g1", "team2").Return(nil, nil)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("1 out of 2 players have found the Team Chats!")).Return("m", nil)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("2 out of 2 players have found the Team Chats!")).Return("m", nil)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("Match can begin!")).Return("m", nil)
	s.rooms.EXPECT().DeleteResource(gomock.Any(), "holding").Return(platform.ErrResourceMissing)

	done := make(chan error, 1)
	go func() {
		done <- q.RunVoiceMonitor(context.Background())
	}()

	s.Require().Eventually(func() bool {
		return s.hub.PublishVoice(voiceEvent("u2", "", "team2")) == 1
	}, 2*time.Second, time.Millisecond)

	s.Require().NoError(<-done)
	s.Equal(models.ProgressMatchReady, q.Progress())
}

func (s *MatchQueueTestSuite) TestRunVoiceMonitorCancelled() {
	q, players := s.filledQueue(1)
	q.team1 = players[:1]
	q.team2 = players[1:]
	q.resources.Team1RoomID = "team1"
	q.resources.Team2RoomID = "team2"
	q.progress = models.ProgressDraftComplete

	s.rooms.EXPECT().RoomOccupants(gomock.Any(), "g1", gomock.Any()).Return(nil, nil).Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.RunVoiceMonitor(ctx)
	s.ErrorIs(err, context.Canceled)
	s.Equal(models.ProgressVoiceCompliancePending, q.Progress())
}

func (s *MatchQueueTestSuite) TestRunVoiceMonitorRequiresTeams() {
	q, _ := s.filledQueue(1)

	s.ErrorIs(q.RunVoiceMonitor(context.Background()), ErrInvalidProgress)
}

func (s *MatchQueueTestSuite) TestMarkReadyAnnounceFailureKeepsMatchReady() {
	q := s.pendingQueue()

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("Match can begin!")).
		Return("", fmt.Errorf("HTTP 502 Bad Gateway"))

	err := q.markReady(context.Background())
	s.ErrorContains(err, "502")
	s.Equal(models.ProgressMatchReady, q.Progress())
}
