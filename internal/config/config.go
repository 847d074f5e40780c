package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KirkDiggler/pickup/internal/services/matchqueue"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PICKUP_DISCORD_TOKEN
const EnvPrefix = "PICKUP"

var (
	errConfigRead    = errors.New("failed to read config")
	errMissingToken  = errors.New("discord.token is required")
	errInvalidTiming = errors.New("queue timeouts must be positive")
	errTeamSize      = fmt.Errorf("queue.default_team_size must be between %d and %d", matchqueue.MinTeamSize, matchqueue.MaxTeamSize)
)

// Config is the process configuration
type Config struct {
	Discord DiscordConfig `mapstructure:"discord"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Queue   QueueConfig   `mapstructure:"queue"`
	Log     LogConfig     `mapstructure:"log"`
}

// DiscordConfig holds the bot credentials and command scope
type DiscordConfig struct {
	Token         string `mapstructure:"token"`
	ApplicationID string `mapstructure:"application_id"`

	// GuildID registers commands in one server only, useful in development
	GuildID string `mapstructure:"guild_id"`

	// AdminID may run admin subcommands without the administrator permission
	AdminID string `mapstructure:"admin_id"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueueConfig holds match queue behavior
type QueueConfig struct {
	RollCallTimeout time.Duration `mapstructure:"roll_call_timeout"`
	DraftTimeout    time.Duration `mapstructure:"draft_timeout"`
	DefaultTeamSize int           `mapstructure:"default_team_size"`
	SinglePerGuild  bool          `mapstructure:"single_per_guild"`
	CategoryName    string        `mapstructure:"category_name"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Loader wraps viper with the bot's defaults and environment binding
type Loader struct {
	*viper.Viper
}

// NewLoader creates a loader. path is an optional config file; its extension picks the format.
func NewLoader(path string) *Loader {
	loader := Loader{Viper: viper.New()}
	loader.SetDefault("discord.token", "")
	loader.SetDefault("discord.application_id", "")
	loader.SetDefault("discord.guild_id", "")
	loader.SetDefault("discord.admin_id", "")
	loader.SetDefault("redis.addr", "localhost:6379")
	loader.SetDefault("redis.password", "")
	loader.SetDefault("redis.db", 0)
	loader.SetDefault("queue.roll_call_timeout", 300*time.Second)
	loader.SetDefault("queue.draft_timeout", 300*time.Second)
	loader.SetDefault("queue.default_team_size", 4)
	loader.SetDefault("queue.single_per_guild", true)
	loader.SetDefault("queue.category_name", "Custom Games")
	loader.SetDefault("log.level", "info")
	loader.SetDefault("log.development", false)

	loader.SetEnvPrefix(EnvPrefix)
	loader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	loader.AutomaticEnv()

	if path != "" {
		loader.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			loader.SetConfigType(ext)
		}
	} else {
		loader.SetConfigName("pickup")
		loader.AddConfigPath(".")
	}

	return &loader
}

// Read loads .env, the optional config file and the environment. Callers that need the bot
// credentials run Validate on the result.
func (cl *Loader) Read() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	if err := cl.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Join(err, errConfigRead)
		}
	}

	var config Config
	if err := cl.Unmarshal(&config); err != nil {
		return nil, errors.Join(err, errConfigRead)
	}

	return &config, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errMissingToken)
	}
	if c.Queue.RollCallTimeout <= 0 || c.Queue.DraftTimeout <= 0 {
		errs = append(errs, errInvalidTiming)
	}
	if c.Queue.DefaultTeamSize < matchqueue.MinTeamSize || c.Queue.DefaultTeamSize > matchqueue.MaxTeamSize {
		errs = append(errs, errTeamSize)
	}

	return errors.Join(errs...)
}

// Redacted renders the config for logs without secrets
func (c *Config) Redacted() string {
	tok := "[set]"
	if c.Discord.Token == "" {
		tok = "[empty]"
	}
	pass := "[set]"
	if c.Redis.Password == "" {
		pass = "[empty]"
	}

	return fmt.Sprintf(
		"appID=%s guildID=%s adminID=%s token=%s redis=%s/%d password=%s rollCall=%s draft=%s teamSize=%d singlePerGuild=%t category=%q",
		c.Discord.ApplicationID, c.Discord.GuildID, c.Discord.AdminID, tok,
		c.Redis.Addr, c.Redis.DB, pass,
		c.Queue.RollCallTimeout, c.Queue.DraftTimeout, c.Queue.DefaultTeamSize, c.Queue.SinglePerGuild, c.Queue.CategoryName,
	)
}
