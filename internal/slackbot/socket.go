package slackbot

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"github.com/JakeFAU/feedback-unfurler/internal/metrics"
)

type acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// SocketRunner receives events over a Socket Mode websocket.
type SocketRunner struct {
	client     *socketmode.Client
	acker      acker
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewSocketRunner builds a runner on top of api, which must carry an app-level token.
func NewSocketRunner(api *slack.Client, dispatcher *Dispatcher, logger *zap.Logger) *SocketRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := socketmode.New(api, socketmode.OptionLog(zap.NewStdLog(logger.Named("socketmode"))))
	return &SocketRunner{
		client:     client,
		acker:      client,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run connects and processes events until ctx is cancelled.
func (r *SocketRunner) Run(ctx context.Context) error {
	go r.consume(ctx, r.client.Events)
	if err := r.client.RunContext(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("socket mode: %w", err)
	}
	return nil
}

func (r *SocketRunner) consume(ctx context.Context, events <-chan socketmode.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			r.handle(ctx, evt)
		}
	}
}

func (r *SocketRunner) handle(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		r.logger.Info("connecting to slack socket mode")
	case socketmode.EventTypeConnected:
		r.logger.Info("connected to slack socket mode")
	case socketmode.EventTypeConnectionError:
		r.logger.Warn("socket mode connection error")
	case socketmode.EventTypeEventsAPI:
		payload, ok := evt.Data.(slackevents.EventsAPIEvent)
		if evt.Request != nil {
			r.acker.Ack(*evt.Request)
		}
		if !ok {
			metrics.ObserveEvent(metrics.EventDecodeFailed)
			r.logger.Error("unexpected events api payload", zap.String("type", fmt.Sprintf("%T", evt.Data)))
			return
		}
		r.dispatcher.DispatchEventsAPI(ctx, payload)
	default:
		r.logger.Debug("ignoring socket mode event", zap.String("type", string(evt.Type)))
	}
}
