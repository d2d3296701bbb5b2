package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWithFileOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  events_path: /events
slack:
  bot_token: xoxb-file
  signing_secret: shh
  socket_mode: false
  event_timeout_seconds: 5
site:
  host: feedback.example
  users_base_url: https://feedback.example/u/
  locale: en
store:
  driver: postgres
db:
  dsn: postgres://localhost/feedback
  schema: feedback
  max_conns: 8
  max_conn_lifetime_seconds: 600
logging:
  development: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/events", cfg.Server.EventsPath)
	require.Equal(t, "xoxb-file", cfg.Slack.BotToken)
	require.False(t, cfg.Slack.SocketMode)
	require.Equal(t, 5*time.Second, cfg.EventTimeout())
	require.Equal(t, "feedback.example", cfg.Site.Host)
	require.Equal(t, "en", cfg.Site.Locale)
	require.Equal(t, "#0099D9", cfg.Site.Color, "unset keys keep defaults")
	require.Equal(t, int32(8), cfg.DB.MaxConns)
	require.Equal(t, 10*time.Minute, cfg.MaxConnLifetime())
	require.False(t, cfg.Logging.Development)
	require.NoError(t, cfg.ValidateSlack())
}

func TestLoadDefaultsAndLegacyEnv(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("SLACK_TOKEN", "xoxb-legacy")
	t.Setenv("SLACK_APP_TOKEN", "xapp-legacy")
	t.Setenv("DATABASE_URL", "postgres://legacy/db")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 4000, cfg.Server.Port)
	require.Equal(t, "xoxb-legacy", cfg.Slack.BotToken)
	require.Equal(t, "xapp-legacy", cfg.Slack.AppToken)
	require.Equal(t, "postgres://legacy/db", cfg.DB.DSN)
	require.True(t, cfg.Slack.SocketMode)
	require.Equal(t, "nextnjrfeedback.net", cfg.Site.Host)
	require.Equal(t, "ja", cfg.Site.Locale)
	require.Equal(t, "/slack/events", cfg.Server.EventsPath)
	require.NoError(t, cfg.ValidateSlack())
}

func TestPrefixedEnvBeatsLegacyEnv(t *testing.T) {
	t.Setenv("UNFURLER_SLACK_BOT_TOKEN", "xoxb-prefixed")
	t.Setenv("SLACK_TOKEN", "xoxb-legacy")
	t.Setenv("UNFURLER_STORE_DRIVER", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "xoxb-prefixed", cfg.Slack.BotToken)
	require.Equal(t, DriverMemory, cfg.Store.Driver)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server: ServerConfig{Port: 3000, EventsPath: "/slack/events"},
		Slack:  SlackConfig{EventTimeoutSeconds: 30},
		Site:   SiteConfig{Host: "nextnjrfeedback.net"},
		Store:  StoreConfig{Driver: DriverMemory},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"relative events path", func(c *Config) { c.Server.EventsPath = "events" }, "server.events_path"},
		{"invalid timeout", func(c *Config) { c.Slack.EventTimeoutSeconds = 0 }, "slack.event_timeout_seconds"},
		{"missing host", func(c *Config) { c.Site.Host = "" }, "site.host"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres }, "db.dsn"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, "store.driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestValidateSlack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		slack SlackConfig
		want  string
	}{
		{"missing bot token", SlackConfig{SocketMode: true, AppToken: "xapp"}, "slack.bot_token"},
		{"socket mode without app token", SlackConfig{BotToken: "xoxb", SocketMode: true}, "slack.app_token"},
		{"http mode without secret", SlackConfig{BotToken: "xoxb"}, "slack.signing_secret"},
		{"socket mode ok", SlackConfig{BotToken: "xoxb", SocketMode: true, AppToken: "xapp"}, ""},
		{"http mode ok", SlackConfig{BotToken: "xoxb", SigningSecret: "shh"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Config{Slack: tt.slack}.ValidateSlack()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.want)
		})
	}
}
