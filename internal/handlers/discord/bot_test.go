package discord

import (
	"testing"

	"github.com/KirkDiggler/pickup/internal/events"
	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
)

type BotTestSuite struct {
	suite.Suite
	session *discordgo.Session
	hub     *events.Hub
	bot     *Bot
}

func (s *BotTestSuite) SetupTest() {
	session, err := discordgo.New("Bot test-token")
	s.Require().NoError(err)
	s.session = session
	s.hub = events.New(nil)

	s.bot, err = New(&Config{
		Session: s.session,
		Events:  s.hub,
	})
	s.Require().NoError(err)
}

func TestBotSuite(t *testing.T) {
	suite.Run(t, new(BotTestSuite))
}

func (s *BotTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.Error(err)

	_, err = New(&Config{Events: s.hub})
	s.Error(err)

	_, err = New(&Config{Session: s.session})
	s.Error(err)
}

func (s *BotTestSuite) TestDispatchesEventsInArrivalOrder() {
	s.True(s.session.SyncEvents)
	s.NotZero(s.session.Identify.Intents & discordgo.IntentsGuildVoiceStates)
	s.NotZero(s.session.Identify.Intents & discordgo.IntentsGuildMessageReactions)
}

func (s *BotTestSuite) TestLeaveAfterEnterFreesTheSeat() {
	transitions, unsubscribe := s.hub.SubscribeVoice("g1")
	defer unsubscribe()

	s.bot.handleVoiceStateUpdate(s.session, voiceUpdate("u1", "team1"))
	s.bot.handleVoiceStateUpdate(s.session, voiceUpdate("u1", ""))

	enter := <-transitions
	s.Equal("team1", enter.RoomID)
	s.Empty(enter.PreviousRoomID)

	leave := <-transitions
	s.Empty(leave.RoomID)
	s.Equal("team1", leave.PreviousRoomID)

	monitor := matchqueue.NewVoiceMonitor(1, "team1", "team2",
		[]*models.PlayerRecord{{ID: "u1"}}, []*models.PlayerRecord{{ID: "u2"}})
	s.Equal(matchqueue.VoiceSeated, monitor.Observe(enter))
	s.Equal(matchqueue.VoiceIgnored, monitor.Observe(leave))
	s.Zero(monitor.SeatedTotal())
	s.False(monitor.Ready())
}

func (s *BotTestSuite) TestReactionsRouteToWatchingMessage() {
	reactions, unsubscribe := s.hub.SubscribeReactions("menu")
	defer unsubscribe()

	s.bot.handleReactionAdd(s.session, &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    "u1",
			MessageID: "menu",
			ChannelID: "draft",
			GuildID:   "g1",
			Emoji:     discordgo.Emoji{Name: "1️⃣"},
		},
	})
	s.bot.handleReactionAdd(s.session, &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    "u2",
			MessageID: "menu",
			ChannelID: "draft",
			GuildID:   "g1",
			Emoji:     discordgo.Emoji{Name: "2️⃣"},
		},
	})

	s.Equal(platform.ReactionEvent{GuildID: "g1", ChannelID: "draft", MessageID: "menu", UserID: "u1", Symbol: "1️⃣"}, <-reactions)
	s.Equal(platform.ReactionEvent{GuildID: "g1", ChannelID: "draft", MessageID: "menu", UserID: "u2", Symbol: "2️⃣"}, <-reactions)
}
