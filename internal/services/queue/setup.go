package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/pickup/internal/models"
	matchRepo "github.com/KirkDiggler/pickup/internal/repositories/match"
	playerRepo "github.com/KirkDiggler/pickup/internal/repositories/player"
	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"go.uber.org/zap"
)

// RunMatchSetup provisions the queue's channels and runs roll call, the draft
// and voice compliance in turn. It blocks until the match is ready or a step
// stops it. Timeouts are reported in the output and leave the queue stalled
// for an explicit reset.
func (s *service) RunMatchSetup(ctx context.Context, input *RunMatchSetupInput) (*RunMatchSetupOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	q, err := s.findQueue(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("queue", q.Key().String()), zap.String("queue_id", q.ID()))
	output := &RunMatchSetupOutput{
		QueueID: q.ID(),
	}
	stopped := func(result *matchqueue.SessionResult) *RunMatchSetupOutput {
		output.Progress = q.Progress()
		output.Outcome = result.Outcome
		output.Blamed = result.Blamed
		return output
	}

	if _, err := q.Provision(ctx); err != nil {
		return nil, fmt.Errorf("failed to provision queue: %w", err)
	}

	rollCall, err := q.RunRollCall(ctx)
	if err != nil {
		return nil, err
	}
	if !rollCall.Succeeded() {
		logger.Info("match setup stopped at roll call", zap.Stringer("outcome", rollCall.Outcome))
		return stopped(rollCall), nil
	}

	draft, err := q.RunDraft(ctx)
	if err != nil {
		return nil, err
	}
	if !draft.Succeeded() {
		logger.Info("match setup stopped at draft", zap.Stringer("outcome", draft.Outcome))
		return stopped(draft), nil
	}

	if err := q.RunVoiceMonitor(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return stopped(&matchqueue.SessionResult{Outcome: matchqueue.SessionCancelled}), nil
		}
		return nil, err
	}

	team1, team2 := q.Teams()
	match := &models.MatchRecord{
		ID:        q.ID(),
		GuildID:   q.Key().GuildID,
		ChannelID: q.Key().ChannelID,
		Game:      q.Game(),
		TeamSize:  q.TeamSize(),
		Team1:     playerIDs(team1),
		Team2:     playerIDs(team2),
		ReadyAt:   q.ReadyAt(),
	}
	if err := s.matchRepo.SaveMatch(ctx, &matchRepo.SaveMatchInput{
		Match: match,
	}); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	logger.Info("match ready")

	output.Progress = q.Progress()
	output.Outcome = matchqueue.SessionSucceeded
	output.Match = match
	return output, nil
}

// GoToTeamRoom moves the caller into their team room
func (s *service) GoToTeamRoom(ctx context.Context, input *GoToTeamRoomInput) (*GoToTeamRoomOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	q, err := s.findQueue(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	if !q.Progress().TeamsChosen() {
		return nil, ErrTeamsNotChosen
	}

	team, roomID := q.TeamOf(input.UserID)
	if team == 0 {
		return nil, ErrNotOnTeam
	}

	if input.CurrentRoomID == "" {
		return nil, ErrNotInVoice
	}

	if input.CurrentRoomID != roomID {
		if err := s.rooms.MoveMember(ctx, input.GuildID, input.UserID, roomID); err != nil {
			return nil, fmt.Errorf("failed to move player: %w", err)
		}
	}

	return &GoToTeamRoomOutput{
		Team:   team,
		RoomID: roomID,
	}, nil
}

// ReportResult logs a win for every winner and a loss for every loser and stamps the match
func (s *service) ReportResult(ctx context.Context, input *ReportResultInput) (*ReportResultOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.WinningTeam != 1 && input.WinningTeam != 2 {
		return nil, ErrInvalidTeam
	}

	q, err := s.findQueue(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	s.results.Lock()
	defer s.results.Unlock()

	if q.Progress() != models.ProgressMatchReady {
		return nil, ErrMatchNotReady
	}

	match, err := s.matchRepo.GetMatch(ctx, &matchRepo.GetMatchInput{
		MatchID: q.ID(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match.Reported() {
		return nil, ErrResultAlreadyReported
	}

	team1, team2 := q.Teams()
	winners, losers := team1, team2
	if input.WinningTeam == 2 {
		winners, losers = team2, team1
	}

	// reload so results reported elsewhere since the join are not overwritten
	winners, err = s.reload(ctx, winners)
	if err != nil {
		return nil, err
	}
	losers, err = s.reload(ctx, losers)
	if err != nil {
		return nil, err
	}

	for _, p := range winners {
		p.LogWin()
	}
	for _, p := range losers {
		p.LogLoss()
	}

	if err := s.playerRepo.SavePlayers(ctx, &playerRepo.SavePlayersInput{
		Players: append(append([]*models.PlayerRecord(nil), winners...), losers...),
	}); err != nil {
		return nil, fmt.Errorf("failed to save players: %w", err)
	}

	match.WinningTeam = input.WinningTeam
	match.ReportedAt = s.clock.Now()
	if err := s.matchRepo.SaveMatch(ctx, &matchRepo.SaveMatchInput{
		Match: match,
	}); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	return &ReportResultOutput{
		Match:   match,
		Winners: winners,
		Losers:  losers,
	}, nil
}

func (s *service) reload(ctx context.Context, players []*models.PlayerRecord) ([]*models.PlayerRecord, error) {
	out := make([]*models.PlayerRecord, 0, len(players))
	for _, p := range players {
		current, err := s.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
			PlayerID: p.ID,
			GuildID:  p.GuildID,
			Game:     p.Game,
		})
		if err != nil {
			if !errors.Is(err, playerRepo.ErrPlayerNotFound) {
				return nil, fmt.Errorf("failed to get player: %w", err)
			}
			copied := *p
			current = &copied
		}
		out = append(out, current)
	}
	return out, nil
}

func playerIDs(players []*models.PlayerRecord) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}
