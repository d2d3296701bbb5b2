package unfurl

import (
	"errors"
	"time"
)

var (
	// ErrUnrecognized signals a URL that matches none of the site's content patterns.
	ErrUnrecognized = errors.New("unrecognized url")
	// ErrNotFound signals content that is absent, unpublished or incomplete.
	ErrNotFound = errors.New("content not found")
)

// Kind identifies the content type a URL points at.
type Kind string

// Content kinds. The zero value is an unrecognized reference.
const (
	KindUnrecognized Kind = ""
	KindDiscussion   Kind = "discussion"
	KindKnowledge    Kind = "knowledge"
)

func (k Kind) String() string {
	if k == KindUnrecognized {
		return "unrecognized"
	}
	return string(k)
}

// Reference is a classified URL.
type Reference struct {
	Kind Kind
	ID   string
}

// Recognized reports whether the reference points at known content.
func (r Reference) Recognized() bool {
	return r.Kind != KindUnrecognized && r.ID != ""
}

// Record is a resolved piece of content. It is implemented by
// KnowledgeRecord and DiscussionRecord only.
type Record interface {
	Kind() Kind
	isRecord()
}

// KnowledgeRecord is a knowledge article with its aggregate counts.
type KnowledgeRecord struct {
	ID               string
	Title            string
	Emoji            string
	Content          string
	Views            int64
	UpdatedAt        time.Time
	BookmarkCount    int64
	ContributorCount int64
	Published        bool
}

// Kind implements Record.
func (KnowledgeRecord) Kind() Kind { return KindKnowledge }
func (KnowledgeRecord) isRecord() {}

// Author is the public profile of a discussion's creator.
type Author struct {
	DisplayName string
	AvatarURL   string
	Handle      string
}

// DiscussionRecord is a discussion thread with its comment count and author.
type DiscussionRecord struct {
	ID            string
	Title         string
	Content       string
	Views         int64
	Archived      bool
	CreatedAt     time.Time
	LastCommentAt *time.Time
	CommentCount  int64
	Author        Author
}

// Kind implements Record.
func (DiscussionRecord) Kind() Kind { return KindDiscussion }
func (DiscussionRecord) isRecord() {}

// Field is one short key/value cell of a preview.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Preview is the rich attachment shown under a shared link.
type Preview struct {
	Title      string  `json:"title"`
	TitleLink  string  `json:"title_link"`
	AuthorName string  `json:"author_name,omitempty"`
	AuthorIcon string  `json:"author_icon,omitempty"`
	AuthorLink string  `json:"author_link,omitempty"`
	Fields     []Field `json:"fields"`
	Text       string  `json:"text"`
	Footer     string  `json:"footer"`
	FooterIcon string  `json:"footer_icon,omitempty"`
	Color      string  `json:"color"`
}

// Link is one URL shared in a message.
type Link struct {
	URL    string
	Domain string
}

// LinkSharedEvent is the transport-neutral form of Slack's link_shared event.
type LinkSharedEvent struct {
	Channel   string
	MessageTS string
	Links     []Link
}
