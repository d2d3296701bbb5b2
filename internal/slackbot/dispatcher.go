package slackbot

import (
	"context"
	"sync"
	"time"

	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"github.com/JakeFAU/feedback-unfurler/internal/unfurl"
)

// LinkSharedHandler processes one link_shared event. *unfurl.Unfurler satisfies it.
type LinkSharedHandler interface {
	HandleLinkShared(ctx context.Context, ev unfurl.LinkSharedEvent) error
}

// Dispatcher runs each acknowledged event in its own goroutine, detached from
// the inbound request and bounded by a timeout.
type Dispatcher struct {
	handler LinkSharedHandler
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewDispatcher builds a Dispatcher. A non-positive timeout defaults to 30s.
func NewDispatcher(handler LinkSharedHandler, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{handler: handler, timeout: timeout, logger: logger}
}

// DispatchEventsAPI starts handling of a parsed Events API payload. Events
// other than link_shared are ignored. It reports whether work was started.
func (d *Dispatcher) DispatchEventsAPI(ctx context.Context, ev slackevents.EventsAPIEvent) bool {
	if ev.Type != slackevents.CallbackEvent {
		d.logger.Debug("ignoring events api payload", zap.String("type", ev.Type))
		return false
	}
	linkShared, ok := ev.InnerEvent.Data.(*slackevents.LinkSharedEvent)
	if !ok {
		d.logger.Debug("ignoring inner event", zap.String("type", ev.InnerEvent.Type))
		return false
	}
	d.Dispatch(ctx, LinkSharedEvent(linkShared))
	return true
}

// Dispatch handles ev asynchronously. Cancellation of ctx does not stop the
// handler; only the dispatcher timeout does.
func (d *Dispatcher) Dispatch(ctx context.Context, ev unfurl.LinkSharedEvent) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.handler.HandleLinkShared(runCtx, ev); err != nil {
			d.logger.Error("link_shared handling failed",
				zap.String("channel", ev.Channel),
				zap.String("message_ts", ev.MessageTS),
				zap.Int("links", len(ev.Links)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every dispatched event has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// LinkSharedEvent converts the slackevents payload into the pipeline's event.
func LinkSharedEvent(ev *slackevents.LinkSharedEvent) unfurl.LinkSharedEvent {
	out := unfurl.LinkSharedEvent{
		Channel:   ev.Channel,
		MessageTS: ev.MessageTimeStamp,
		Links:     make([]unfurl.Link, 0, len(ev.Links)),
	}
	for _, l := range ev.Links {
		out.Links = append(out.Links, unfurl.Link{URL: l.URL, Domain: l.Domain})
	}
	return out
}
