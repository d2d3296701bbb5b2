// Package memory provides an in-memory content store for development and tests.
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JakeFAU/feedback-unfurler/internal/unfurl"
)

// ContentStore serves knowledge and discussion records from memory. Like the
// Postgres store it only returns published knowledge.
type ContentStore struct {
	mu          sync.RWMutex
	knowledge   map[string]unfurl.KnowledgeRecord
	discussions map[string]unfurl.DiscussionRecord
}

// NewContentStore constructs an empty ContentStore.
func NewContentStore() *ContentStore {
	return &ContentStore{
		knowledge:   make(map[string]unfurl.KnowledgeRecord),
		discussions: make(map[string]unfurl.DiscussionRecord),
	}
}

// PutKnowledge stores or replaces a knowledge record.
func (s *ContentStore) PutKnowledge(rec unfurl.KnowledgeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knowledge[rec.ID] = rec
}

// PutDiscussion stores or replaces a discussion record.
func (s *ContentStore) PutDiscussion(rec unfurl.DiscussionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discussions[rec.ID] = rec
}

// FindKnowledge implements unfurl.ContentStore.
func (s *ContentStore) FindKnowledge(_ context.Context, id string) (unfurl.KnowledgeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.knowledge[id]
	if !ok || !rec.Published {
		return unfurl.KnowledgeRecord{}, unfurl.ErrNotFound
	}
	return rec, nil
}

// FindDiscussion implements unfurl.ContentStore.
func (s *ContentStore) FindDiscussion(_ context.Context, id string) (unfurl.DiscussionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.discussions[id]
	if !ok {
		return unfurl.DiscussionRecord{}, unfurl.ErrNotFound
	}
	return rec, nil
}

// Ping always succeeds.
func (s *ContentStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *ContentStore) Close() {}

type fixtures struct {
	Knowledge   []knowledgeFixture  `yaml:"knowledge"`
	Discussions []discussionFixture `yaml:"discussions"`
}

type knowledgeFixture struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title"`
	Emoji        string    `yaml:"emoji"`
	Content      string    `yaml:"content"`
	Views        int64     `yaml:"views"`
	UpdatedAt    time.Time `yaml:"updated_at"`
	Bookmarks    int64     `yaml:"bookmarks"`
	Contributors int64     `yaml:"contributors"`
	Published    bool      `yaml:"published"`
}

type discussionFixture struct {
	ID            string     `yaml:"id"`
	Title         string     `yaml:"title"`
	Content       string     `yaml:"content"`
	Views         int64      `yaml:"views"`
	Archived      bool       `yaml:"archived"`
	CreatedAt     time.Time  `yaml:"created_at"`
	LastCommentAt *time.Time `yaml:"last_comment_at"`
	Comments      int64      `yaml:"comments"`
	Author        struct {
		DisplayName string `yaml:"display_name"`
		AvatarURL   string `yaml:"avatar_url"`
		Handle      string `yaml:"handle"`
	} `yaml:"author"`
}

// LoadFixtures reads a YAML fixtures file into a new ContentStore.
func LoadFixtures(path string) (*ContentStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var f fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures %s: %w", path, err)
	}
	s := NewContentStore()
	for _, k := range f.Knowledge {
		if k.ID == "" {
			return nil, fmt.Errorf("fixtures %s: knowledge entry without id", path)
		}
		s.PutKnowledge(unfurl.KnowledgeRecord{
			ID:               k.ID,
			Title:            k.Title,
			Emoji:            k.Emoji,
			Content:          k.Content,
			Views:            k.Views,
			UpdatedAt:        k.UpdatedAt,
			BookmarkCount:    k.Bookmarks,
			ContributorCount: k.Contributors,
			Published:        k.Published,
		})
	}
	for _, d := range f.Discussions {
		if d.ID == "" {
			return nil, fmt.Errorf("fixtures %s: discussion entry without id", path)
		}
		s.PutDiscussion(unfurl.DiscussionRecord{
			ID:            d.ID,
			Title:         d.Title,
			Content:       d.Content,
			Views:         d.Views,
			Archived:      d.Archived,
			CreatedAt:     d.CreatedAt,
			LastCommentAt: d.LastCommentAt,
			CommentCount:  d.Comments,
			Author: unfurl.Author{
				DisplayName: d.Author.DisplayName,
				AvatarURL:   d.Author.AvatarURL,
				Handle:      d.Author.Handle,
			},
		})
	}
	return s, nil
}
