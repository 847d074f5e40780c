package matchqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"go.uber.org/mock/gomock"
)

func identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

func ids(players []*models.PlayerRecord) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func (s *MatchQueueTestSuite) TestDraftSeedsCaptainsFromShuffle() {
	players := makePlayers(4)
	s.shuffler.EXPECT().Perm(4).Return([]int{2, 0, 3, 1})

	d, err := NewDraft(players, s.shuffler)
	s.Require().NoError(err)

	s.Equal("u3", d.Captain1().ID)
	s.Equal("u1", d.Captain2().ID)
	s.Equal([]string{"u4", "u2"}, ids(d.Undrafted()))
	s.Equal([]string{"1️⃣", "2️⃣"}, d.Symbols())
}

func (s *MatchQueueTestSuite) TestDraftTurnOrderForFourPerTeam() {
	s.shuffler.EXPECT().Perm(8).Return(identity(8))

	d, err := NewDraft(makePlayers(8), s.shuffler)
	s.Require().NoError(err)

	var entitled []string
	for !d.Complete() {
		captain, _ := d.CurrentCaptain()
		entitled = append(entitled, captain.ID)

		_, err := d.Pick(captain.ID, PickSymbols[0])
		s.Require().NoError(err)
	}

	s.Equal([]string{"u1", "u2", "u1", "u2", "u1", "u2"}, entitled)
	s.Len(d.Team1(), 4)
	s.Len(d.Team2(), 4)
	s.Equal([]string{"u1", "u3", "u5", "u7"}, ids(d.Team1()))
	s.Equal([]string{"u2", "u4", "u6", "u8"}, ids(d.Team2()))
}

func (s *MatchQueueTestSuite) TestDraftOddTeamSizeBalances() {
	s.shuffler.EXPECT().Perm(10).Return(identity(10))

	d, err := NewDraft(makePlayers(10), s.shuffler)
	s.Require().NoError(err)

	for !d.Complete() {
		captain, _ := d.CurrentCaptain()
		symbols := d.Symbols()
		_, err := d.Pick(captain.ID, symbols[len(symbols)-1])
		s.Require().NoError(err)
	}

	s.Len(d.Team1(), 5)
	s.Len(d.Team2(), 5)
}

func (s *MatchQueueTestSuite) TestDraftPickMapsSymbolToSnapshot() {
	s.shuffler.EXPECT().Perm(6).Return(identity(6))

	d, err := NewDraft(makePlayers(6), s.shuffler)
	s.Require().NoError(err)

	picked, err := d.Pick("u1", "3️⃣")
	s.Require().NoError(err)
	s.Equal("u5", picked.ID)
	s.Equal([]string{"u3", "u4", "u6"}, ids(d.Undrafted()))

	captain, team := d.CurrentCaptain()
	s.Equal("u2", captain.ID)
	s.Equal(2, team)

	picked, err = d.Pick("u2", "3️⃣")
	s.Require().NoError(err)
	s.Equal("u6", picked.ID)
}

func (s *MatchQueueTestSuite) TestDraftRejectsOutOfTurnInput() {
	s.shuffler.EXPECT().Perm(4).Return(identity(4))

	d, err := NewDraft(makePlayers(4), s.shuffler)
	s.Require().NoError(err)

	_, err = d.Pick("u2", "1️⃣")
	s.ErrorIs(err, ErrOutOfTurn)

	_, err = d.Pick("u3", "1️⃣")
	s.ErrorIs(err, ErrOutOfTurn)

	// a symbol past the pool size is not on offer
	_, err = d.Pick("u1", "3️⃣")
	s.ErrorIs(err, ErrOutOfTurn)

	_, err = d.Pick("u1", "👍")
	s.ErrorIs(err, ErrOutOfTurn)

	s.Len(d.Undrafted(), 2)
}

func (s *MatchQueueTestSuite) TestNewDraftValidation() {
	_, err := NewDraft(makePlayers(3), s.shuffler)
	s.ErrorIs(err, ErrInvalidTeamSize)

	_, err = NewDraft(makePlayers(12), s.shuffler)
	s.ErrorIs(err, ErrInvalidTeamSize)

	s.shuffler.EXPECT().Perm(4).Return([]int{0, 0, 1, 2})
	_, err = NewDraft(makePlayers(4), s.shuffler)
	s.Error(err)

	s.shuffler.EXPECT().Perm(4).Return([]int{0, 1})
	_, err = NewDraft(makePlayers(4), s.shuffler)
	s.Error(err)
}

func (s *MatchQueueTestSuite) TestDraftPage() {
	s.shuffler.EXPECT().Perm(4).Return(identity(4))

	d, err := NewDraft(makePlayers(4), s.shuffler)
	s.Require().NoError(err)

	page := draftPage(d)
	s.Require().NotNil(page.Embed)
	s.Equal("Choose Teams", page.Embed.Title)
	s.Equal("player1 should react with the player they wish to pick", page.Embed.Footer)
	s.Require().Len(page.Embed.Fields, 3)
	s.Equal("Team player1", page.Embed.Fields[0].Name)
	s.Equal("Team player2", page.Embed.Fields[1].Name)
	s.Equal("1️⃣ -> player3\n2️⃣ -> player4", page.Embed.Fields[2].Value)
}

// readyForDraft returns a queue that passed roll call
func (s *MatchQueueTestSuite) readyForDraft(teamSize int) (*MatchQueue, []*models.PlayerRecord) {
	q, players := s.filledQueue(teamSize)
	q.progress = models.ProgressRollCallComplete
	return q, players
}

func (s *MatchQueueTestSuite) TestRunDraft() {
	q, _ := s.readyForDraft(2)
	s.shuffler.EXPECT().Perm(4).Return(identity(4))

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("The captains will be player1 and player2")).Return("captains", nil)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("menu", nil)

	// initial offer, re-prompt after an out-of-turn reaction, offer for captain 2
	s.messenger.EXPECT().ClearReactions(gomock.Any(), "draft", "menu").Return(nil).Times(3)
	s.messenger.EXPECT().AddReactions(gomock.Any(), "draft", "menu", []string{"1️⃣", "2️⃣"}).Return(nil).Times(2)
	s.messenger.EXPECT().AddReactions(gomock.Any(), "draft", "menu", []string{"1️⃣"}).Return(nil)
	s.messenger.EXPECT().EditMessage(gomock.Any(), "draft", "menu", gomock.Any()).Return(nil)

	// the last pick swaps the menu for the final rosters
	var final *platform.Message
	s.messenger.EXPECT().DeleteMessage(gomock.Any(), "draft", "menu").Return(nil)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msg *platform.Message) (string, error) {
			final = msg
			return "teams", nil
		})

	s.rooms.EXPECT().CreateVoiceRoom(gomock.Any(), "g1", "cat", "Team 1 Chat").Return("team1", nil)
	s.rooms.EXPECT().CreateVoiceRoom(gomock.Any(), "g1", "cat", "Team 2 Chat").Return("team2", nil)

	done := s.run(q.RunDraft)

	s.publishReaction("menu", botID, "1️⃣")
	s.publishReaction("menu", "u2", "1️⃣")
	s.publishReaction("menu", "u1", "2️⃣")
	s.publishReaction("menu", "u2", "1️⃣")

	ret := s.wait(done)
	s.Require().NoError(ret.err)
	s.True(ret.result.Succeeded())
	s.Equal(models.ProgressDraftComplete, q.Progress())

	team1, team2 := q.Teams()
	s.Equal([]string{"u1", "u4"}, ids(team1))
	s.Equal([]string{"u2", "u3"}, ids(team2))

	s.Require().NotNil(final)
	s.Require().NotNil(final.Embed)
	s.Equal("Chosen Teams", final.Embed.Title)

	s.Equal("team1", q.Resources().Team1RoomID)
	s.Equal("team2", q.Resources().Team2RoomID)

	team, room := q.TeamOf("u3")
	s.Equal(2, team)
	s.Equal("team2", room)
}

func (s *MatchQueueTestSuite) TestRunDraftWithOnlyCaptains() {
	q, _ := s.readyForDraft(1)
	s.shuffler.EXPECT().Perm(2).Return([]int{1, 0})

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("The captains will be player2 and player1")).Return("captains", nil)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("teams", nil)
	s.rooms.EXPECT().CreateVoiceRoom(gomock.Any(), "g1", "cat", "Team 1 Chat").Return("team1", nil)
	s.rooms.EXPECT().CreateVoiceRoom(gomock.Any(), "g1", "cat", "Team 2 Chat").Return("team2", nil)

	result, err := q.RunDraft(context.Background())
	s.Require().NoError(err)
	s.True(result.Succeeded())

	team1, team2 := q.Teams()
	s.Equal([]string{"u2"}, ids(team1))
	s.Equal([]string{"u1"}, ids(team2))
}

func (s *MatchQueueTestSuite) TestRunDraftTimesOutBlamingCaptain() {
	q, _ := s.readyForDraft(2)
	s.shuffler.EXPECT().Perm(4).Return([]int{3, 2, 1, 0})

	offered := make(chan struct{}, 4)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", platform.Text("The captains will be player4 and player3")).Return("captains", nil)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("menu", nil)
	s.messenger.EXPECT().ClearReactions(gomock.Any(), "draft", "menu").Return(nil).AnyTimes()
	s.messenger.EXPECT().AddReactions(gomock.Any(), "draft", "menu", gomock.Any()).
		DoAndReturn(func(context.Context, string, string, []string) error {
			offered <- struct{}{}
			return nil
		}).AnyTimes()
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft",
		platform.Text("Team picking has timed out because player4 could not make a decision. Reset the queue to try again.")).
		Return("timeout", nil)

	done := s.run(q.RunDraft)
	<-offered

	s.advance(2 * time.Minute)
	s.publishReaction("menu", "u4", "1️⃣")

	ret := s.wait(done)
	s.Require().NoError(ret.err)
	s.Equal(SessionTimedOut, ret.result.Outcome)
	s.Require().NotNil(ret.result.Blamed)
	s.Equal("u4", ret.result.Blamed.ID)
	s.Equal(models.ProgressDraftTimedOut, q.Progress())

	team1, team2 := q.Teams()
	s.Empty(team1)
	s.Empty(team2)
}

func (s *MatchQueueTestSuite) TestRunDraftRequiresRollCall() {
	q, _ := s.filledQueue(2)

	_, err := q.RunDraft(context.Background())
	s.ErrorIs(err, ErrInvalidProgress)
}

func (s *MatchQueueTestSuite) TestRunDraftMissingTeamRoomCategory() {
	q, _ := s.readyForDraft(1)
	s.shuffler.EXPECT().Perm(2).Return(identity(2))

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("m", nil).Times(2)
	s.rooms.EXPECT().CreateVoiceRoom(gomock.Any(), "g1", "cat", "Team 1 Chat").
		Return("", fmt.Errorf("create: %w", platform.ErrResourceMissing))

	_, err := q.RunDraft(context.Background())
	s.ErrorIs(err, platform.ErrResourceMissing)
	s.Equal(models.ProgressResourceMissing, q.Progress())
}
