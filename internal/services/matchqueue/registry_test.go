package matchqueue

import (
	"context"

	"github.com/KirkDiggler/pickup/internal/models"
	"go.uber.org/mock/gomock"
)

func (s *MatchQueueTestSuite) newRegistry(singlePerGuild bool) *Registry {
	r, err := NewRegistry(&RegistryConfig{
		Factory: func(key models.QueueKey, teamSize int) (*MatchQueue, error) {
			cfg := s.config(teamSize)
			cfg.Key = key
			return New(cfg)
		},
		SinglePerGuild: singlePerGuild,
	})
	s.Require().NoError(err)
	return r
}

func (s *MatchQueueTestSuite) TestNewRegistryValidation() {
	_, err := NewRegistry(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewRegistry(&RegistryConfig{})
	s.ErrorIs(err, ErrNilFactory)
}

func (s *MatchQueueTestSuite) TestRegistryCreateAndLookup() {
	r := s.newRegistry(false)
	key := models.QueueKey{GuildID: "g1", ChannelID: "c1", Game: "valorant"}

	q, err := r.Create(key, 4)
	s.Require().NoError(err)
	s.Equal(key, q.Key())

	found, ok := r.Lookup(models.QueueKey{GuildID: "g1", ChannelID: "c1", Game: "valorant"})
	s.True(ok)
	s.Same(q, found)

	_, ok = r.Lookup(models.QueueKey{GuildID: "g1", ChannelID: "c1"})
	s.False(ok)

	found, ok = r.LookupChannel("g1", "c1")
	s.True(ok)
	s.Same(q, found)
}

func (s *MatchQueueTestSuite) TestRegistryOneQueuePerChannel() {
	r := s.newRegistry(false)

	_, err := r.Create(models.QueueKey{GuildID: "g1", ChannelID: "c1"}, 4)
	s.Require().NoError(err)

	_, err = r.Create(models.QueueKey{GuildID: "g1", ChannelID: "c1", Game: "csgo"}, 4)
	s.ErrorIs(err, ErrQueueAlreadyExists)

	_, err = r.Create(models.QueueKey{GuildID: "g1", ChannelID: "c2"}, 4)
	s.NoError(err)

	_, err = r.Create(models.QueueKey{GuildID: "g2", ChannelID: "c1"}, 4)
	s.NoError(err)
}

func (s *MatchQueueTestSuite) TestRegistrySinglePerGuild() {
	r := s.newRegistry(true)

	_, err := r.Create(models.QueueKey{GuildID: "g1", ChannelID: "c1"}, 4)
	s.Require().NoError(err)

	_, err = r.Create(models.QueueKey{GuildID: "g1", ChannelID: "c2"}, 4)
	s.ErrorIs(err, ErrQueueAlreadyExists)

	_, err = r.Create(models.QueueKey{GuildID: "g2", ChannelID: "c2"}, 4)
	s.NoError(err)
}

func (s *MatchQueueTestSuite) TestRegistryCreateInvalidTeamSize() {
	r := s.newRegistry(false)

	_, err := r.Create(models.QueueKey{GuildID: "g1", ChannelID: "c1"}, 9)
	s.ErrorIs(err, ErrInvalidTeamSize)
	s.Empty(r.All())
}

func (s *MatchQueueTestSuite) TestRegistryResetPreservesSettings() {
	r := s.newRegistry(false)
	key := models.QueueKey{GuildID: "g1", ChannelID: "c1", Game: "valorant"}

	old, err := r.Create(key, 3)
	s.Require().NoError(err)
	_, err = old.Join(makePlayers(1)[0])
	s.Require().NoError(err)

	fresh, err := r.Reset(context.Background(), models.QueueKey{GuildID: "g1", ChannelID: "c1"}, nil, nil)
	s.Require().NoError(err)
	s.NotSame(old, fresh)
	s.Equal(key, fresh.Key())
	s.Equal(3, fresh.TeamSize())
	s.Zero(fresh.Count())
	s.Equal(models.ProgressEmpty, fresh.Progress())

	found, ok := r.Lookup(key)
	s.True(ok)
	s.Same(fresh, found)

	// the old queue was closed
	s.Error(old.ctx.Err())
}

func (s *MatchQueueTestSuite) TestRegistryResetOverrides() {
	r := s.newRegistry(false)

	_, err := r.Create(models.QueueKey{GuildID: "g1", ChannelID: "c1", Game: "valorant"}, 4)
	s.Require().NoError(err)

	size, game := 2, "csgo"
	fresh, err := r.Reset(context.Background(), models.QueueKey{GuildID: "g1", ChannelID: "c1"}, &size, &game)
	s.Require().NoError(err)
	s.Equal(2, fresh.TeamSize())
	s.Equal("csgo", fresh.Game())

	_, ok := r.Lookup(models.QueueKey{GuildID: "g1", ChannelID: "c1", Game: "valorant"})
	s.False(ok)
	s.Len(r.All(), 1)
}

func (s *MatchQueueTestSuite) TestRegistryResetInvalidSizeKeepsQueue() {
	r := s.newRegistry(false)
	key := models.QueueKey{GuildID: "g1", ChannelID: "c1"}

	old, err := r.Create(key, 4)
	s.Require().NoError(err)

	size := 0
	_, err = r.Reset(context.Background(), key, &size, nil)
	s.ErrorIs(err, ErrInvalidTeamSize)

	found, ok := r.Lookup(key)
	s.True(ok)
	s.Same(old, found)
}

func (s *MatchQueueTestSuite) TestRegistryResetWithoutQueue() {
	r := s.newRegistry(false)

	_, err := r.Reset(context.Background(), models.QueueKey{GuildID: "g1", ChannelID: "c1"}, nil, nil)
	s.ErrorIs(err, ErrNoActiveQueue)
}

func (s *MatchQueueTestSuite) TestRegistryKickForcedReset() {
	r := s.newRegistry(false)
	key := models.QueueKey{GuildID: "g1", ChannelID: "c1", Game: "valorant"}

	q, err := r.Create(key, 1)
	s.Require().NoError(err)
	for _, p := range makePlayers(2) {
		_, err := q.Join(p)
		s.Require().NoError(err)
	}

	_, err = q.Kick("u1", "player2")
	s.Require().NoError(err)
	result, err := q.Kick("u2", "player2")
	s.Require().NoError(err)
	s.Require().Equal(KickQueueReset, result.Outcome)

	fresh, err := r.Reset(context.Background(), q.Key(), nil, nil)
	s.Require().NoError(err)
	s.Equal(1, fresh.TeamSize())
	s.Equal("valorant", fresh.Game())
	s.Equal(models.ProgressEmpty, fresh.Progress())
}

func (s *MatchQueueTestSuite) TestRegistryListByCommunity() {
	r := s.newRegistry(false)

	for _, key := range []models.QueueKey{
		{GuildID: "g1", ChannelID: "c2"},
		{GuildID: "g2", ChannelID: "c1"},
		{GuildID: "g1", ChannelID: "c1"},
	} {
		_, err := r.Create(key, 4)
		s.Require().NoError(err)
	}

	queues := r.ListByCommunity("g1")
	s.Require().Len(queues, 2)
	s.Equal("c1", queues[0].Key().ChannelID)
	s.Equal("c2", queues[1].Key().ChannelID)

	s.Empty(r.ListByCommunity("g3"))
	s.Len(r.All(), 3)
}

func (s *MatchQueueTestSuite) TestRegistryRemoveAndCloseAll() {
	r := s.newRegistry(false)
	key := models.QueueKey{GuildID: "g1", ChannelID: "c1"}

	q, err := r.Create(key, 1)
	s.Require().NoError(err)
	q.resources = Resources{CategoryID: "cat"}
	s.rooms.EXPECT().DeleteResource(gomock.Any(), "cat").Return(nil)

	s.Require().NoError(r.Remove(context.Background(), key))
	s.ErrorIs(r.Remove(context.Background(), key), ErrNoActiveQueue)

	_, err = r.Create(models.QueueKey{GuildID: "g1", ChannelID: "c2"}, 2)
	s.Require().NoError(err)
	_, err = r.Create(models.QueueKey{GuildID: "g2", ChannelID: "c2"}, 2)
	s.Require().NoError(err)

	s.NoError(r.CloseAll(context.Background()))
	s.Empty(r.All())
}
