package matchqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"go.uber.org/mock/gomock"
)

func (s *MatchQueueTestSuite) TestRollCallTracksPresence() {
	rc := NewRollCall(makePlayers(3))

	s.False(rc.AllPresent())
	s.True(rc.Acknowledge("u1"))
	s.False(rc.Acknowledge("u1"))
	s.False(rc.Acknowledge("stranger"))
	s.True(rc.Acknowledge("u3"))

	s.Equal(2, rc.PresentCount())
	s.False(rc.AllPresent())
	s.Require().Len(rc.Missing(), 1)
	s.Equal("u2", rc.Missing()[0].ID)

	s.True(rc.Acknowledge("u2"))
	s.True(rc.AllPresent())
	s.Empty(rc.Missing())
}

func (s *MatchQueueTestSuite) TestRollCallPage() {
	rc := NewRollCall(makePlayers(2))
	rc.Acknowledge("u2")

	page := rollCallPage(rc)
	s.Require().NotNil(page.Embed)
	s.Equal("Roll Call", page.Embed.Title)
	s.Equal("React with any emoji when you are ready", page.Embed.Footer)
	s.Equal([]platform.EmbedField{
		{Name: "player1", Value: "Missing", Inline: true},
		{Name: "player2", Value: "Present", Inline: true},
	}, page.Embed.Fields)
}

func (s *MatchQueueTestSuite) TestRunRollCallSucceeds() {
	q, _ := s.filledQueue(2)

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("rc-msg", nil)
	// one refresh per first acknowledgment; bot, stranger and repeat reactions change nothing
	s.messenger.EXPECT().EditMessage(gomock.Any(), "draft", "rc-msg", gomock.Any()).Return(nil).Times(4)

	done := s.run(q.RunRollCall)

	s.publishReaction("rc-msg", botID, "👍")
	s.publishReaction("rc-msg", "u1", "👍")
	s.publishReaction("rc-msg", "u1", "🔥")
	s.publishReaction("rc-msg", "stranger", "👍")
	s.publishReaction("rc-msg", "u3", "✅")
	s.publishReaction("rc-msg", "u2", "👍")
	s.publishReaction("rc-msg", "u4", "👍")

	ret := s.wait(done)
	s.Require().NoError(ret.err)
	s.True(ret.result.Succeeded())
	s.Equal(models.ProgressRollCallComplete, q.Progress())
}

func (s *MatchQueueTestSuite) TestRunRollCallNeedsEveryone() {
	q, _ := s.filledQueue(4)

	edited := make(chan struct{}, 8)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("rc-msg", nil)
	s.messenger.EXPECT().EditMessage(gomock.Any(), "draft", "rc-msg", gomock.Any()).
		DoAndReturn(func(context.Context, string, string, *platform.Message) error {
			edited <- struct{}{}
			return nil
		}).Times(7)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft",
		platform.Text("Roll call has timed out because someone did not show. Reset the queue to try again.")).
		Return("timeout-msg", nil)

	done := s.run(q.RunRollCall)

	for i := 1; i <= 7; i++ {
		s.publishReaction("rc-msg", fmt.Sprintf("u%d", i), "👍")
	}
	for i := 0; i < 7; i++ {
		<-edited
	}

	// a late, irrelevant reaction wakes the session after its budget is spent
	s.advance(2 * time.Minute)
	s.publishReaction("rc-msg", "stranger", "👍")

	ret := s.wait(done)
	s.Require().NoError(ret.err)
	s.False(ret.result.Succeeded())
	s.Equal(SessionTimedOut, ret.result.Outcome)
	s.Equal(models.ProgressRollCallTimedOut, q.Progress())
	s.Equal(8, q.Count())
}

func (s *MatchQueueTestSuite) TestRunRollCallDeadlineIsNotExtended() {
	q, _ := s.filledQueue(1)

	posted := make(chan struct{})
	edited := make(chan struct{}, 1)
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).
		DoAndReturn(func(context.Context, string, *platform.Message) (string, error) {
			close(posted)
			return "rc-msg", nil
		})
	s.messenger.EXPECT().EditMessage(gomock.Any(), "draft", "rc-msg", gomock.Any()).
		DoAndReturn(func(context.Context, string, string, *platform.Message) error {
			edited <- struct{}{}
			return nil
		})
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).Return("timeout-msg", nil)

	done := s.run(q.RunRollCall)
	<-posted

	// acknowledgments 40s apart; the second lands past the 60s budget
	s.advance(40 * time.Second)
	s.publishReaction("rc-msg", "u1", "👍")
	<-edited

	s.advance(40 * time.Second)
	s.publishReaction("rc-msg", "u2", "👍")

	ret := s.wait(done)
	s.Require().NoError(ret.err)
	s.Equal(SessionTimedOut, ret.result.Outcome)
	s.Equal(models.ProgressRollCallTimedOut, q.Progress())
}

func (s *MatchQueueTestSuite) TestRunRollCallCancelledByClose() {
	q, _ := s.filledQueue(2)

	posted := make(chan struct{})
	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).
		DoAndReturn(func(context.Context, string, *platform.Message) (string, error) {
			close(posted)
			return "rc-msg", nil
		})
	s.rooms.EXPECT().DeleteResource(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	done := s.run(q.RunRollCall)
	<-posted

	s.Require().NoError(q.Close(context.Background()))

	ret := s.wait(done)
	s.Require().NoError(ret.err)
	s.Equal(SessionCancelled, ret.result.Outcome)
}

func (s *MatchQueueTestSuite) TestRunRollCallRequiresFilledQueue() {
	q := s.newQueue(2)

	_, err := q.RunRollCall(context.Background())
	s.ErrorIs(err, ErrInvalidProgress)
}

func (s *MatchQueueTestSuite) TestRunRollCallMissingChannel() {
	q, _ := s.filledQueue(1)

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).
		Return("", fmt.Errorf("post: %w", platform.ErrResourceMissing))

	_, err := q.RunRollCall(context.Background())
	s.ErrorIs(err, platform.ErrResourceMissing)
	s.Equal(models.ProgressResourceMissing, q.Progress())
}

func (s *MatchQueueTestSuite) TestRunRollCallPlatformFailureStallsQueue() {
	q, _ := s.filledQueue(1)

	s.messenger.EXPECT().PostMessage(gomock.Any(), "draft", gomock.Any()).
		Return("", errors.New("HTTP 502 Bad Gateway"))

	_, err := q.RunRollCall(context.Background())
	s.ErrorContains(err, "502")
	s.Equal(models.ProgressSetupFailed, q.Progress())
	s.True(q.Progress().IsStalled())
}
