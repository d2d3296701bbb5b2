// Package config loads and validates unfurler configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Slack   SlackConfig   `mapstructure:"slack"`
	Site    SiteConfig    `mapstructure:"site"`
	Store   StoreConfig   `mapstructure:"store"`
	DB      DBConfig      `mapstructure:"db"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	EventsPath string `mapstructure:"events_path"`
}

// SlackConfig holds Slack credentials and transport selection.
type SlackConfig struct {
	BotToken            string `mapstructure:"bot_token"`
	AppToken            string `mapstructure:"app_token"`
	SigningSecret       string `mapstructure:"signing_secret"`
	SocketMode          bool   `mapstructure:"socket_mode"`
	EventTimeoutSeconds int    `mapstructure:"event_timeout_seconds"`
	APIURL              string `mapstructure:"api_url"`
}

// SiteConfig describes the site whose links are unfurled.
type SiteConfig struct {
	Host         string `mapstructure:"host"`
	UsersBaseURL string `mapstructure:"users_base_url"`
	FooterIcon   string `mapstructure:"footer_icon"`
	Color        string `mapstructure:"color"`
	Locale       string `mapstructure:"locale"`
}

// StoreConfig selects the content store implementation.
type StoreConfig struct {
	Driver   string `mapstructure:"driver"`
	Fixtures string `mapstructure:"fixtures"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN                    string `mapstructure:"dsn"`
	Schema                 string `mapstructure:"schema"`
	MaxConns               int32  `mapstructure:"max_conns"`
	MinConns               int32  `mapstructure:"min_conns"`
	MaxConnLifetimeSeconds int    `mapstructure:"max_conn_lifetime_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// legacyEnv maps config keys to the environment variable names used by
// earlier deployments of the bot. They take precedence after the prefixed name.
var legacyEnv = map[string]string{
	"server.port":          "PORT",
	"slack.bot_token":      "SLACK_TOKEN",
	"slack.app_token":      "SLACK_APP_TOKEN",
	"slack.signing_secret": "SLACK_SIGNING_SECRET",
	"db.dsn":               "DATABASE_URL",
}

// Load builds a Config from .env, disk and environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("UNFURLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "UNFURLER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.events_path", "/slack/events")
	v.SetDefault("slack.socket_mode", true)
	v.SetDefault("slack.event_timeout_seconds", 30)
	v.SetDefault("slack.api_url", "")
	v.SetDefault("site.host", "nextnjrfeedback.net")
	v.SetDefault("site.users_base_url", "https://nextnjrfeedback.net/users/")
	v.SetDefault("site.footer_icon", "https://cdn.jsdelivr.net/gh/twitter/twemoji@v14.0.2/assets/72x72/1f4a1.png")
	v.SetDefault("site.color", "#0099D9")
	v.SetDefault("site.locale", "ja")
	v.SetDefault("store.driver", DriverPostgres)
	v.SetDefault("store.fixtures", "")
	v.SetDefault("db.schema", "public")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.min_conns", 0)
	v.SetDefault("db.max_conn_lifetime_seconds", 1800)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if !strings.HasPrefix(c.Server.EventsPath, "/") {
		return fmt.Errorf("server.events_path must start with /")
	}
	if c.Slack.EventTimeoutSeconds <= 0 {
		return fmt.Errorf("slack.event_timeout_seconds must be > 0")
	}
	if c.Site.Host == "" {
		return fmt.Errorf("site.host must be set")
	}
	switch c.Store.Driver {
	case DriverPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn must be set when store.driver is %q", DriverPostgres)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Store.Driver)
	}
	return nil
}

// ValidateSlack enforces the credentials needed to run the Slack transport.
func (c Config) ValidateSlack() error {
	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token must be set")
	}
	if c.Slack.SocketMode && c.Slack.AppToken == "" {
		return fmt.Errorf("slack.app_token must be set when slack.socket_mode is enabled")
	}
	if !c.Slack.SocketMode && c.Slack.SigningSecret == "" {
		return fmt.Errorf("slack.signing_secret must be set when slack.socket_mode is disabled")
	}
	return nil
}

// EventTimeout bounds the handling of one link_shared event.
func (c Config) EventTimeout() time.Duration {
	return time.Duration(c.Slack.EventTimeoutSeconds) * time.Second
}

// MaxConnLifetime converts the pool lifetime setting into a duration.
func (c Config) MaxConnLifetime() time.Duration {
	return time.Duration(c.DB.MaxConnLifetimeSeconds) * time.Second
}
