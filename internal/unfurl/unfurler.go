package unfurl

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/feedback-unfurler/internal/metrics"
)

type recordRenderer interface {
	Render(url string, rec Record) (Preview, error)
}

// Unfurler drives the classify, resolve and render pipeline for shared links.
type Unfurler struct {
	classifier *Classifier
	resolver   *Resolver
	renderer   recordRenderer
	poster     Poster
	logger     *zap.Logger
}

// New wires an Unfurler. poster may be nil when only Preview is used.
func New(classifier *Classifier, resolver *Resolver, renderer *Renderer, poster Poster, logger *zap.Logger) *Unfurler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Unfurler{
		classifier: classifier,
		resolver:   resolver,
		renderer:   renderer,
		poster:     poster,
		logger:     logger,
	}
}

// HandleLinkShared builds previews for every link of ev and submits them in
// one call, even when none resolved. A store or render failure aborts the
// batch before anything is submitted.
func (u *Unfurler) HandleLinkShared(ctx context.Context, ev LinkSharedEvent) error {
	if u.poster == nil {
		return errors.New("unfurler has no poster configured")
	}
	urls := make([]string, 0, len(ev.Links))
	for _, link := range ev.Links {
		urls = append(urls, link.URL)
	}

	previews, err := u.Previews(ctx, urls)
	if err != nil {
		metrics.ObserveEvent(metrics.EventBuildFailed)
		return fmt.Errorf("build previews: %w", err)
	}

	if err := u.poster.Unfurl(ctx, ev.Channel, ev.MessageTS, previews); err != nil {
		metrics.ObserveEvent(metrics.EventPostFailed)
		return fmt.Errorf("submit unfurls: %w", err)
	}
	metrics.ObserveEvent(metrics.EventPosted)
	u.logger.Info("unfurls submitted",
		zap.String("channel", ev.Channel),
		zap.String("message_ts", ev.MessageTS),
		zap.Int("links", len(ev.Links)),
		zap.Int("previews", len(previews)),
	)
	return nil
}

// Previews processes urls sequentially and returns the previews keyed by URL.
// Unrecognized and not-found links are logged and left out.
func (u *Unfurler) Previews(ctx context.Context, urls []string) (map[string]Preview, error) {
	previews := make(map[string]Preview, len(urls))
	for _, url := range urls {
		ref, preview, err := u.build(ctx, url)
		switch {
		case errors.Is(err, ErrUnrecognized):
			metrics.ObserveLink(ref.Kind.String(), metrics.OutcomeUnrecognized)
			u.logger.Info("skipping unrecognized link", zap.String("url", url))
			continue
		case errors.Is(err, ErrNotFound):
			metrics.ObserveLink(ref.Kind.String(), metrics.OutcomeNotFound)
			u.logger.Info("skipping link without previewable content",
				zap.String("url", url),
				zap.Stringer("kind", ref.Kind),
				zap.String("id", ref.ID),
			)
			continue
		case err != nil:
			metrics.ObserveLink(ref.Kind.String(), metrics.OutcomeError)
			return nil, err
		}
		metrics.ObserveLink(ref.Kind.String(), metrics.OutcomeRendered)
		previews[url] = preview
	}
	return previews, nil
}

// Preview runs the pipeline for a single URL.
func (u *Unfurler) Preview(ctx context.Context, url string) (Preview, error) {
	_, preview, err := u.build(ctx, url)
	return preview, err
}

func (u *Unfurler) build(ctx context.Context, url string) (Reference, Preview, error) {
	ref := u.classifier.Classify(url)
	if !ref.Recognized() {
		return ref, Preview{}, ErrUnrecognized
	}
	rec, err := u.resolver.Resolve(ctx, ref)
	if err != nil {
		return ref, Preview{}, err
	}
	preview, err := u.renderer.Render(url, rec)
	if err != nil {
		return ref, Preview{}, err
	}
	return ref, preview, nil
}
