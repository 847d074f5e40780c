package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/KirkDiggler/pickup/internal/models"
	matchRepo "github.com/KirkDiggler/pickup/internal/repositories/match"
	playerRepo "github.com/KirkDiggler/pickup/internal/repositories/player"
	"github.com/spf13/cobra"
)

var (
	exportGuild  string
	matchesGuild string
	matchesLimit int

	playersCmd = &cobra.Command{
		Use:   "players",
		Short: "Export or import the player directory",
	}

	playersExportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the player directory to stdout as JSON",
		Args:  cobra.NoArgs,
		RunE:  exportPlayers,
	}

	playersImportCmd = &cobra.Command{
		Use:   "import file",
		Short: "Load a JSON player directory, replacing matching records",
		Args:  cobra.ExactArgs(1),
		RunE:  importPlayers,
	}

	matchesCmd = &cobra.Command{
		Use:   "matches",
		Short: "List a community's match history, newest first",
		Args:  cobra.NoArgs,
		RunE:  listMatches,
	}
)

var errNoGuild = errors.New("--guild is required")

func init() {
	playersExportCmd.Flags().StringVar(&exportGuild, "guild", "", "Only export records of one community")
	playersCmd.AddCommand(playersExportCmd, playersImportCmd)

	matchesCmd.Flags().StringVar(&matchesGuild, "guild", "", "Community to list")
	matchesCmd.Flags().IntVar(&matchesLimit, "limit", 20, "Maximum number of matches, 0 for all")
}

func openPlayers(cmd *cobra.Command) (playerRepo.Repository, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := connectRedis(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, errors.Join(errApp, err)
	}

	repo, err := playerRepo.NewRedis(&playerRepo.Config{RedisClient: client})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return repo, func() { _ = client.Close() }, nil
}

func exportPlayers(cmd *cobra.Command, _ []string) error {
	repo, closeFn, err := openPlayers(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := repo.ListPlayers(cmd.Context(), &playerRepo.ListPlayersInput{GuildID: exportGuild})
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}

	return writePlayers(cmd.OutOrStdout(), out.Players)
}

func writePlayers(w io.Writer, players []*models.PlayerRecord) error {
	if players == nil {
		players = []*models.PlayerRecord{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(players)
}

func readPlayers(r io.Reader) ([]*models.PlayerRecord, error) {
	var players []*models.PlayerRecord
	if err := json.NewDecoder(r).Decode(&players); err != nil {
		return nil, fmt.Errorf("failed to decode player directory: %w", err)
	}

	for i, p := range players {
		if p == nil || p.ID == "" || p.GuildID == "" {
			return nil, fmt.Errorf("record %d is missing an id or guild", i)
		}
	}

	return players, nil
}

func importPlayers(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	players, err := readPlayers(f)
	if err != nil {
		return err
	}

	repo, closeFn, err := openPlayers(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := repo.SavePlayers(cmd.Context(), &playerRepo.SavePlayersInput{Players: players}); err != nil {
		return fmt.Errorf("failed to save players: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d player(s)\n", len(players))
	return nil
}

func listMatches(cmd *cobra.Command, _ []string) error {
	if matchesGuild == "" {
		return errNoGuild
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := connectRedis(cmd.Context(), cfg)
	if err != nil {
		return errors.Join(errApp, err)
	}
	defer client.Close()

	repo, err := matchRepo.NewRedis(&matchRepo.Config{RedisClient: client})
	if err != nil {
		return err
	}

	out, err := repo.ListMatches(cmd.Context(), &matchRepo.ListMatchesInput{
		GuildID: matchesGuild,
		Limit:   matchesLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}

	return writeMatches(cmd.OutOrStdout(), out.Matches)
}

func writeMatches(w io.Writer, matches []*models.MatchRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "READY\tGAME\tSIZE\tWINNER\tTEAM 1\tTEAM 2")

	for _, m := range matches {
		game := m.Game
		if game == "" {
			game = "-"
		}
		winner := "-"
		if m.Reported() {
			winner = fmt.Sprintf("team %d", m.WinningTeam)
		}

		fmt.Fprintf(tw, "%s\t%s\t%dv%d\t%s\t%s\t%s\n",
			m.ReadyAt.Format("2006-01-02 15:04"), game, m.TeamSize, m.TeamSize, winner,
			strings.Join(m.Team1, ","), strings.Join(m.Team2, ","))
	}

	return tw.Flush()
}
