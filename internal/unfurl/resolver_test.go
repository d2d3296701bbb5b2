package unfurl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveKnowledge(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.knowledge["k1"] = publishedKnowledge("k1", "body")
	r := NewResolver(store)

	rec, err := r.Resolve(context.Background(), Reference{Kind: KindKnowledge, ID: "k1"})
	require.NoError(t, err)
	require.Equal(t, KindKnowledge, rec.Kind())
	require.Equal(t, "k1", rec.(KnowledgeRecord).ID)
	require.Equal(t, 1, store.lookups)
}

func TestResolveKnowledgeGates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*KnowledgeRecord)
	}{
		{"unpublished", func(k *KnowledgeRecord) { k.Published = false }},
		{"missing title", func(k *KnowledgeRecord) { k.Title = "" }},
		{"missing content", func(k *KnowledgeRecord) { k.Content = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := publishedKnowledge("k1", "body")
			tt.mutate(&rec)
			store := newFakeStore()
			store.knowledge["k1"] = rec

			_, err := NewResolver(store).Resolve(context.Background(), Reference{Kind: KindKnowledge, ID: "k1"})
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestResolveDiscussionAuthorGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*DiscussionRecord)
		wantErr error
	}{
		{"complete", func(*DiscussionRecord) {}, nil},
		{"archived still resolves", func(d *DiscussionRecord) { d.Archived = true }, nil},
		{"missing handle still resolves", func(d *DiscussionRecord) { d.Author.Handle = "" }, nil},
		{"missing avatar", func(d *DiscussionRecord) { d.Author.AvatarURL = "" }, ErrNotFound},
		{"missing display name", func(d *DiscussionRecord) { d.Author.DisplayName = "" }, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := openDiscussion("d1")
			tt.mutate(&rec)
			store := newFakeStore()
			store.discussions["d1"] = rec

			got, err := NewResolver(store).Resolve(context.Background(), Reference{Kind: KindDiscussion, ID: "d1"})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, KindDiscussion, got.Kind())
		})
	}
}

func TestResolveMissingRow(t *testing.T) {
	t.Parallel()

	r := NewResolver(newFakeStore())
	_, err := r.Resolve(context.Background(), Reference{Kind: KindDiscussion, ID: "nope"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveUnrecognized(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	_, err := NewResolver(store).Resolve(context.Background(), Reference{})
	require.ErrorIs(t, err, ErrUnrecognized)
	require.Zero(t, store.lookups)
}

func TestResolveWrapsStoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	store := newFakeStore()
	store.err = boom

	_, err := NewResolver(store).Resolve(context.Background(), Reference{Kind: KindKnowledge, ID: "k1"})
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "find knowledge k1")
}
