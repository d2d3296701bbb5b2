package unfurl

import (
	"context"
	"time"
)

// ContentStore reads content rows. Implementations return ErrNotFound when
// no row matches; gates beyond that are applied by Resolver.
type ContentStore interface {
	FindKnowledge(ctx context.Context, id string) (KnowledgeRecord, error)
	FindDiscussion(ctx context.Context, id string) (DiscussionRecord, error)
}

// Poster submits the previews collected for one message.
type Poster interface {
	Unfurl(ctx context.Context, channel, messageTS string, previews map[string]Preview) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
