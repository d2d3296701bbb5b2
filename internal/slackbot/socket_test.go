package slackbot

import (
	"context"
	"testing"
	"time"

	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestSocketRunner(handler LinkSharedHandler, logger *zap.Logger) (*SocketRunner, *recordingAcker, *Dispatcher) {
	acks := &recordingAcker{}
	d := NewDispatcher(handler, time.Second, nil)
	return &SocketRunner{acker: acks, dispatcher: d, logger: logger}, acks, d
}

func TestSocketRunnerAcksAndDispatchesLinkShared(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	runner, acks, d := newTestSocketRunner(handler, zap.NewNop())

	evt := socketmode.Event{
		Type: socketmode.EventTypeEventsAPI,
		Data: slackevents.EventsAPIEvent{
			Type: slackevents.CallbackEvent,
			InnerEvent: slackevents.EventsAPIInnerEvent{
				Type: string(slackevents.LinkShared),
				Data: &slackevents.LinkSharedEvent{
					Channel:          "C5",
					MessageTimeStamp: "5.000001",
					Links:            []slackevents.SharedLinks{{URL: "https://nextnjrfeedback.net/knowledge/x"}},
				},
			},
		},
		Request: &socketmode.Request{EnvelopeID: "env-1"},
	}
	runner.handle(context.Background(), evt)
	d.Wait()

	require.Equal(t, []string{"env-1"}, acks.acked)
	events := handler.received()
	require.Len(t, events, 1)
	require.Equal(t, "C5", events[0].Channel)
	require.Equal(t, "5.000001", events[0].MessageTS)
}

func TestSocketRunnerAcksUnexpectedPayload(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	handler := &recordingHandler{}
	runner, acks, d := newTestSocketRunner(handler, zap.New(core))

	runner.handle(context.Background(), socketmode.Event{
		Type:    socketmode.EventTypeEventsAPI,
		Data:    "garbage",
		Request: &socketmode.Request{EnvelopeID: "env-2"},
	})
	d.Wait()

	require.Equal(t, []string{"env-2"}, acks.acked)
	require.Empty(t, handler.received())
	require.Equal(t, 1, logs.FilterMessage("unexpected events api payload").Len())
}

func TestSocketRunnerConsumeStopsOnClose(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	runner, _, _ := newTestSocketRunner(&recordingHandler{}, zap.New(core))

	events := make(chan socketmode.Event, 2)
	events <- socketmode.Event{Type: socketmode.EventTypeConnecting}
	events <- socketmode.Event{Type: socketmode.EventTypeConnected}
	close(events)

	runner.consume(context.Background(), events)
	require.Equal(t, 1, logs.FilterMessage("connected to slack socket mode").Len())
}
