package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/KirkDiggler/pickup/internal/common/clock"
	"github.com/KirkDiggler/pickup/internal/common/uuid"
	"github.com/KirkDiggler/pickup/internal/config"
	"github.com/KirkDiggler/pickup/internal/events"
	"github.com/KirkDiggler/pickup/internal/handlers/discord"
	"github.com/KirkDiggler/pickup/internal/logging"
	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/random"
	matchRepo "github.com/KirkDiggler/pickup/internal/repositories/match"
	playerRepo "github.com/KirkDiggler/pickup/internal/repositories/player"
	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"github.com/KirkDiggler/pickup/internal/services/messaging"
	"github.com/KirkDiggler/pickup/internal/services/queue"
	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	BuildVersion = "master"
	BuildCommit  = "00000000"

	cfgFile string
	rootCmd = &cobra.Command{
		Use:          "pickup",
		Short:        "Discord pickup match bot",
		Long:         `pickup - queues players in a Discord channel, runs roll call and a captain draft, then seats both teams in voice`,
		SilenceUsage: true,
		RunE:         run,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run:   version,
	}
)

const shutdownTimeout = 30 * time.Second

var errApp = errors.New("application error")

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (yaml, toml or ini)")
	rootCmd.AddCommand(versionCmd, playersCmd, matchesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func version(_ *cobra.Command, _ []string) {
	fmt.Printf("pickup\n\n")
	fmt.Printf("  Version: %s\n", BuildVersion)
	fmt.Printf("  Commit:  %s\n", BuildCommit)
	fmt.Printf("  Runtime: %s\n", runtime.Version())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(cfgFile).Read()
	if err != nil {
		return nil, errors.Join(errApp, err)
	}
	return cfg, nil
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
	}

	return client, nil
}

// run starts the bot and blocks until SIGINT or SIGTERM
func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Join(errApp, err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return errors.Join(errApp, err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting pickup",
		zap.String("version", BuildVersion),
		zap.String("commit", BuildCommit),
		zap.String("config", cfg.Redacted()))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := connectRedis(ctx, cfg)
	if err != nil {
		return errors.Join(errApp, err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("failed to close Redis client", zap.Error(err))
		}
	}()

	players, err := playerRepo.NewRedis(&playerRepo.Config{RedisClient: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create player repository: %w", err)
	}

	matches, err := matchRepo.NewRedis(&matchRepo.Config{RedisClient: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create match repository: %w", err)
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	gateway, err := discord.NewGateway(&discord.GatewayConfig{
		Client: session,
		State:  session.State,
	})
	if err != nil {
		return fmt.Errorf("failed to create Discord gateway: %w", err)
	}

	hub := events.New(nil)
	rnd := random.New(nil)
	clk := clock.New()
	ids := uuid.New()

	registry, err := matchqueue.NewRegistry(&matchqueue.RegistryConfig{
		SinglePerGuild: cfg.Queue.SinglePerGuild,
		Logger:         logger,
		Factory: func(key models.QueueKey, teamSize int) (*matchqueue.MatchQueue, error) {
			var botUserID string
			if session.State != nil && session.State.User != nil {
				botUserID = session.State.User.ID
			}

			return matchqueue.New(&matchqueue.Config{
				Key:             key,
				TeamSize:        teamSize,
				Messenger:       gateway,
				Rooms:           gateway,
				Events:          hub,
				Clock:           clk,
				Shuffler:        rnd,
				UUIDGenerator:   ids,
				RollCallTimeout: cfg.Queue.RollCallTimeout,
				DraftTimeout:    cfg.Queue.DraftTimeout,
				BotUserID:       botUserID,
				CategoryName:    cfg.Queue.CategoryName,
				Logger:          logger,
			})
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create queue registry: %w", err)
	}

	queueSvc, err := queue.New(&queue.Config{
		Registry:   registry,
		PlayerRepo: players,
		MatchRepo:  matches,
		Rooms:      gateway,
		Clock:      clk,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create queue service: %w", err)
	}

	messagingSvc, err := messaging.New(&messaging.Config{
		Picker: rnd,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create messaging service: %w", err)
	}

	queueCmd, err := discord.NewQueueCommand(&discord.QueueCommandConfig{
		QueueService:     queueSvc,
		MessagingService: messagingSvc,
		Messenger:        gateway,
		DefaultTeamSize:  cfg.Queue.DefaultTeamSize,
		AdminID:          cfg.Discord.AdminID,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create queue command: %w", err)
	}

	bot, err := discord.New(&discord.Config{
		Session:       session,
		ApplicationID: cfg.Discord.ApplicationID,
		GuildID:       cfg.Discord.GuildID,
		Events:        hub,
		Commands:      []discord.CommandHandler{queueCmd},
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create Discord bot: %w", err)
	}

	if err := bot.Start(); err != nil {
		return fmt.Errorf("failed to start Discord bot: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	// Queue channels are deleted over REST while the gateway is still open
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	out, err := queueSvc.Shutdown(shutdownCtx, &queue.ShutdownInput{})
	if err != nil {
		logger.Warn("failed to close queues", zap.Error(err))
	} else {
		logger.Info("closed queues", zap.Int("count", out.Closed))
	}
	queueCmd.Wait()

	if err := bot.Stop(); err != nil {
		logger.Warn("error stopping bot", zap.Error(err))
	}

	logger.Info("bot has been shut down")
	return nil
}
