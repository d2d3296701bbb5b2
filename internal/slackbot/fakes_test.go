package slackbot

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/slack-go/slack/socketmode"

	"github.com/JakeFAU/feedback-unfurler/internal/unfurl"
)

type recordingHandler struct {
	mu           sync.Mutex
	events       []unfurl.LinkSharedEvent
	err          error
	waitDeadline bool
	ctxErr       error
}

func (h *recordingHandler) HandleLinkShared(ctx context.Context, ev unfurl.LinkSharedEvent) error {
	if h.waitDeadline {
		<-ctx.Done()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	h.ctxErr = ctx.Err()
	return h.err
}

func (h *recordingHandler) received() []unfurl.LinkSharedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]unfurl.LinkSharedEvent(nil), h.events...)
}

type recordingAcker struct {
	acked []string
}

func (a *recordingAcker) Ack(req socketmode.Request, _ ...interface{}) {
	a.acked = append(a.acked, req.EnvelopeID)
}

var errHandler = errors.New("handler failed")

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func signRequest(req *http.Request, secret string, body []byte, at time.Time) {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + ts + ":"))
	mac.Write(body)
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
}

const linkSharedPayload = `{
  "token": "legacy",
  "team_id": "T1",
  "api_app_id": "A1",
  "type": "event_callback",
  "event_id": "Ev1",
  "event_time": 1717243200,
  "event": {
    "type": "link_shared",
    "channel": "C123",
    "user": "U1",
    "message_ts": "1717243200.000100",
    "links": [
      {"domain": "nextnjrfeedback.net", "url": "https://nextnjrfeedback.net/knowledge/abc"},
      {"domain": "nextnjrfeedback.net", "url": "https://nextnjrfeedback.net/discussion/d1"}
    ]
  }
}`
