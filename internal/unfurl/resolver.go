package unfurl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JakeFAU/feedback-unfurler/internal/metrics"
)

// Resolver fetches the record behind a reference and applies the publish
// and completeness gates. It performs exactly one store read per call.
type Resolver struct {
	store ContentStore
}

// NewResolver wraps store.
func NewResolver(store ContentStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the record for ref, ErrNotFound when the content is absent
// or not previewable, or ErrUnrecognized for an unrecognized reference.
func (r *Resolver) Resolve(ctx context.Context, ref Reference) (Record, error) {
	if !ref.Recognized() {
		return nil, ErrUnrecognized
	}
	start := time.Now()
	defer func() { metrics.ObserveResolve(ref.Kind.String(), time.Since(start)) }()

	switch ref.Kind {
	case KindKnowledge:
		rec, err := r.store.FindKnowledge(ctx, ref.ID)
		if err != nil {
			return nil, wrapLookup(ref, err)
		}
		if !rec.Published || rec.Title == "" || rec.Content == "" {
			return nil, ErrNotFound
		}
		return rec, nil
	case KindDiscussion:
		rec, err := r.store.FindDiscussion(ctx, ref.ID)
		if err != nil {
			return nil, wrapLookup(ref, err)
		}
		if rec.Author.AvatarURL == "" || rec.Author.DisplayName == "" {
			return nil, ErrNotFound
		}
		return rec, nil
	default:
		return nil, ErrUnrecognized
	}
}

func wrapLookup(ref Reference, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("find %s %s: %w", ref.Kind, ref.ID, err)
}
