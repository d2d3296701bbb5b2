package slackbot

import (
	"strings"

	"github.com/slack-go/slack"
)

// ClientConfig describes how to reach the Slack Web API.
type ClientConfig struct {
	BotToken string
	AppToken string
	// APIURL overrides the Web API base URL (tests, proxies).
	APIURL string
}

// NewClient builds the Web API client shared by Poster and SocketRunner.
func NewClient(cfg ClientConfig) *slack.Client {
	opts := []slack.Option{}
	if cfg.AppToken != "" {
		opts = append(opts, slack.OptionAppLevelToken(cfg.AppToken))
	}
	if cfg.APIURL != "" {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, slack.OptionAPIURL(base))
	}
	return slack.New(cfg.BotToken, opts...)
}
