package slackbot

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"github.com/JakeFAU/feedback-unfurler/internal/metrics"
)

const maxEventBytes = 1 << 20

// EventsHandler serves the Slack Events API request URL.
type EventsHandler struct {
	signingSecret string
	dispatcher    *Dispatcher
	logger        *zap.Logger
}

// NewEventsHandler returns an http.Handler verifying requests with signingSecret.
func NewEventsHandler(signingSecret string, dispatcher *Dispatcher, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{signingSecret: signingSecret, dispatcher: dispatcher, logger: logger}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		h.logger.Warn("rejecting unsigned events request", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}
	if _, err := verifier.Write(body); err != nil {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}
	if err := verifier.Ensure(); err != nil {
		h.logger.Warn("rejecting events request with bad signature", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	ev, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		metrics.ObserveEvent(metrics.EventDecodeFailed)
		h.logger.Error("decode events payload", zap.Error(err))
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}

	switch ev.Type {
	case slackevents.URLVerification:
		challenge, ok := ev.Data.(*slackevents.EventsAPIURLVerificationEvent)
		if !ok {
			http.Error(w, "malformed challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(challenge.Challenge)); err != nil {
			h.logger.Error("write challenge", zap.Error(err))
		}
		return
	case slackevents.CallbackEvent:
		if retry := r.Header.Get("X-Slack-Retry-Num"); retry != "" {
			h.logger.Info("slack retried event delivery",
				zap.String("retry_num", retry),
				zap.String("reason", r.Header.Get("X-Slack-Retry-Reason")),
			)
		}
		h.dispatcher.DispatchEventsAPI(r.Context(), ev)
	default:
		h.logger.Debug("ignoring events api payload", zap.String("type", ev.Type))
	}
	w.WriteHeader(http.StatusOK)
}
