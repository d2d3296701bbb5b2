package unfurl

import (
	"context"
	"sync"
	"time"

	"github.com/JakeFAU/feedback-unfurler/internal/locale"
)

const testHost = "nextnjrfeedback.net"

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type fakeStore struct {
	mu          sync.Mutex
	knowledge   map[string]KnowledgeRecord
	discussions map[string]DiscussionRecord
	err         error
	lookups     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		knowledge:   map[string]KnowledgeRecord{},
		discussions: map[string]DiscussionRecord{},
	}
}

func (s *fakeStore) FindKnowledge(_ context.Context, id string) (KnowledgeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return KnowledgeRecord{}, s.err
	}
	rec, ok := s.knowledge[id]
	if !ok {
		return KnowledgeRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *fakeStore) FindDiscussion(_ context.Context, id string) (DiscussionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return DiscussionRecord{}, s.err
	}
	rec, ok := s.discussions[id]
	if !ok {
		return DiscussionRecord{}, ErrNotFound
	}
	return rec, nil
}

type unfurlCall struct {
	channel   string
	messageTS string
	previews  map[string]Preview
}

type fakePoster struct {
	mu    sync.Mutex
	calls []unfurlCall
	err   error
}

func (p *fakePoster) Unfurl(_ context.Context, channel, messageTS string, previews map[string]Preview) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, unfurlCall{channel: channel, messageTS: messageTS, previews: previews})
	return p.err
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

var testStyle = Style{
	Color:        "#0099D9",
	FooterIcon:   "https://cdn.jsdelivr.net/gh/twitter/twemoji@v14.0.2/assets/72x72/1f4a1.png",
	UsersBaseURL: "https://nextnjrfeedback.net/users/",
}

func newTestRenderer(lang string) *Renderer {
	return NewRenderer(testStyle, locale.MustNew(lang), fakeClock{now: testNow})
}

func publishedKnowledge(id, content string) KnowledgeRecord {
	return KnowledgeRecord{
		ID:               id,
		Title:            "How to file feedback",
		Emoji:            "💡",
		Content:          content,
		Views:            42,
		UpdatedAt:        testNow.Add(-3 * 24 * time.Hour),
		BookmarkCount:    7,
		ContributorCount: 2,
		Published:        true,
	}
}

func openDiscussion(id string) DiscussionRecord {
	return DiscussionRecord{
		ID:           id,
		Title:        "Dark mode for the timetable",
		Content:      "It would be great to have a dark mode.",
		Views:        10,
		CreatedAt:    testNow.Add(-2 * time.Hour),
		CommentCount: 4,
		Author: Author{
			DisplayName: "Hanako",
			AvatarURL:   "https://example.com/hanako.png",
			Handle:      "hanako",
		},
	}
}
