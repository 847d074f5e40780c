package player

import (
	"context"
	"testing"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidation() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&Config{})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetPlayer() {
	player := &models.PlayerRecord{
		ID:          "u1",
		Name:        "ronnie",
		DisplayName: "Ronnie D",
		GuildID:     "g1",
		Game:        "valorant",
		TotalWins:   3,
		TotalLosses: 1,
		WinStreak:   2,
	}

	err := s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: player,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{
		PlayerID: "u1",
		GuildID:  "g1",
		Game:     "valorant",
	})
	s.Require().NoError(err)
	s.Equal(player, retrieved)
}

func (s *RedisRepositoryTestSuite) TestGetPlayerIsScopedByGame() {
	err := s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.PlayerRecord{ID: "u1", Name: "ronnie", GuildID: "g1", Game: "valorant"},
	})
	s.Require().NoError(err)

	_, err = s.repo.GetPlayer(context.Background(), &GetPlayerInput{
		PlayerID: "u1",
		GuildID:  "g1",
		Game:     "csgo",
	})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetPlayerNotFound() {
	_, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{
		PlayerID: "missing",
		GuildID:  "g1",
	})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *RedisRepositoryTestSuite) TestSavePlayerValidation() {
	err := s.repo.SavePlayer(context.Background(), nil)
	s.Error(err)

	err = s.repo.SavePlayer(context.Background(), &SavePlayerInput{})
	s.Error(err)

	err = s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.PlayerRecord{ID: "u1"},
	})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestSavePlayersAndList() {
	players := []*models.PlayerRecord{
		{ID: "u2", Name: "bravo", GuildID: "g1"},
		{ID: "u1", Name: "alpha", GuildID: "g1"},
		{ID: "u3", Name: "charlie", GuildID: "g2", TotalLosses: 4, LossStreak: 4},
	}

	err := s.repo.SavePlayers(context.Background(), &SavePlayersInput{
		Players: players,
	})
	s.Require().NoError(err)

	all, err := s.repo.ListPlayers(context.Background(), &ListPlayersInput{})
	s.Require().NoError(err)
	s.Require().Len(all.Players, 3)
	s.Equal("u1", all.Players[0].ID)
	s.Equal("u2", all.Players[1].ID)
	s.Equal("u3", all.Players[2].ID)
	s.Equal(4, all.Players[2].LossStreak)

	guild, err := s.repo.ListPlayers(context.Background(), &ListPlayersInput{GuildID: "g2"})
	s.Require().NoError(err)
	s.Require().Len(guild.Players, 1)
	s.Equal("charlie", guild.Players[0].Name)
}

func (s *RedisRepositoryTestSuite) TestSavePlayersOverwrites() {
	err := s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.PlayerRecord{ID: "u1", Name: "alpha", GuildID: "g1"},
	})
	s.Require().NoError(err)

	err = s.repo.SavePlayers(context.Background(), &SavePlayersInput{
		Players: []*models.PlayerRecord{{ID: "u1", Name: "alpha", GuildID: "g1", TotalWins: 1, WinStreak: 1}},
	})
	s.Require().NoError(err)

	all, err := s.repo.ListPlayers(context.Background(), nil)
	s.Require().NoError(err)
	s.Require().Len(all.Players, 1)
	s.Equal(1, all.Players[0].TotalWins)
}

func (s *RedisRepositoryTestSuite) TestListPlayersEmpty() {
	out, err := s.repo.ListPlayers(context.Background(), &ListPlayersInput{GuildID: "nobody"})
	s.Require().NoError(err)
	s.Empty(out.Players)
}

func (s *RedisRepositoryTestSuite) TestListPlayersSkipsDanglingIndexEntries() {
	err := s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.PlayerRecord{ID: "u1", Name: "alpha", GuildID: "g1"},
	})
	s.Require().NoError(err)
	s.mr.Del(playerKey("g1", "", "u1"))

	out, err := s.repo.ListPlayers(context.Background(), nil)
	s.Require().NoError(err)
	s.Empty(out.Players)
}
