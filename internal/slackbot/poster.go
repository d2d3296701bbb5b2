package slackbot

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/JakeFAU/feedback-unfurler/internal/unfurl"
)

// unfurlAPI is the subset of *slack.Client used by Poster.
type unfurlAPI interface {
	UnfurlMessageContext(
		ctx context.Context,
		channelID, timestamp string,
		unfurls map[string]slack.Attachment,
		options ...slack.MsgOption,
	) (string, string, string, error)
}

// Poster submits previews with chat.unfurl.
type Poster struct {
	api    unfurlAPI
	logger *zap.Logger
}

var _ unfurl.Poster = (*Poster)(nil)

// NewPoster wraps a Slack client.
func NewPoster(api *slack.Client, logger *zap.Logger) *Poster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poster{api: api, logger: logger}
}

// Unfurl implements unfurl.Poster. An empty previews map is still submitted.
func (p *Poster) Unfurl(ctx context.Context, channel, messageTS string, previews map[string]unfurl.Preview) error {
	unfurls := make(map[string]slack.Attachment, len(previews))
	for url, preview := range previews {
		unfurls[url] = Attachment(preview)
	}
	if _, _, _, err := p.api.UnfurlMessageContext(ctx, channel, messageTS, unfurls); err != nil {
		return fmt.Errorf("chat.unfurl channel=%s ts=%s: %w", channel, messageTS, err)
	}
	p.logger.Debug("chat.unfurl accepted",
		zap.String("channel", channel),
		zap.String("message_ts", messageTS),
		zap.Int("unfurls", len(unfurls)),
	)
	return nil
}

// Attachment converts a preview into Slack's legacy attachment shape.
func Attachment(p unfurl.Preview) slack.Attachment {
	fields := make([]slack.AttachmentField, 0, len(p.Fields))
	for _, f := range p.Fields {
		fields = append(fields, slack.AttachmentField{Title: f.Title, Value: f.Value, Short: f.Short})
	}
	return slack.Attachment{
		Color:      p.Color,
		AuthorName: p.AuthorName,
		AuthorLink: p.AuthorLink,
		AuthorIcon: p.AuthorIcon,
		Title:      p.Title,
		TitleLink:  p.TitleLink,
		Text:       p.Text,
		Fields:     fields,
		Footer:     p.Footer,
		FooterIcon: p.FooterIcon,
	}
}
