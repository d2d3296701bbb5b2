package unfurl

import (
	"fmt"

	"github.com/JakeFAU/feedback-unfurler/internal/locale"
)

const (
	excerptThreshold = 200
	excerptLength    = 140
	ellipsis         = "…"
)

// Style holds the site-wide presentation settings of a preview.
type Style struct {
	Color        string
	FooterIcon   string
	UsersBaseURL string
}

// Renderer converts resolved records into previews. Records are assumed to
// have passed the Resolver gates.
type Renderer struct {
	style Style
	loc   *locale.Localizer
	clock Clock
}

// NewRenderer builds a Renderer.
func NewRenderer(style Style, loc *locale.Localizer, clock Clock) *Renderer {
	return &Renderer{style: style, loc: loc, clock: clock}
}

// Render builds the preview of rec shared as url.
func (r *Renderer) Render(url string, rec Record) (Preview, error) {
	switch rec := rec.(type) {
	case KnowledgeRecord:
		return r.knowledge(url, rec), nil
	case DiscussionRecord:
		return r.discussion(url, rec), nil
	default:
		return Preview{}, fmt.Errorf("render: unsupported record %T", rec)
	}
}

func (r *Renderer) knowledge(url string, k KnowledgeRecord) Preview {
	return Preview{
		Title:     k.Emoji + " " + k.Title,
		TitleLink: url,
		Fields: []Field{
			{Title: r.loc.Sprintf(locale.Bookmarks), Value: r.loc.Count(locale.BookmarksValue, k.BookmarkCount), Short: true},
			{Title: r.loc.Sprintf(locale.PageViews), Value: r.loc.Count(locale.ViewsValue, k.Views), Short: true},
			{Title: r.loc.Sprintf(locale.Contributors), Value: r.loc.Count(locale.ContribValue, k.ContributorCount), Short: true},
		},
		Text:       r.excerpt(url, k.Content),
		Footer:     r.loc.Sprintf(locale.UpdatedAt, r.loc.FromNow(k.UpdatedAt, r.clock.Now())),
		FooterIcon: r.style.FooterIcon,
		Color:      r.style.Color,
	}
}

func (r *Renderer) discussion(url string, d DiscussionRecord) Preview {
	status := r.loc.Sprintf(locale.Open)
	if d.Archived {
		status = r.loc.Sprintf(locale.Archived)
	}
	now := r.clock.Now()
	footer := r.loc.Sprintf(locale.CreatedAt, r.loc.FromNow(d.CreatedAt, now))
	if d.LastCommentAt != nil {
		footer = r.loc.Sprintf(locale.CommentedAt, r.loc.FromNow(*d.LastCommentAt, now))
	}
	return Preview{
		Title:      d.Title,
		TitleLink:  url,
		AuthorName: d.Author.DisplayName,
		AuthorIcon: d.Author.AvatarURL,
		AuthorLink: r.style.UsersBaseURL + d.Author.Handle,
		Fields: []Field{
			{Title: r.loc.Sprintf(locale.Status), Value: status, Short: true},
			{Title: r.loc.Sprintf(locale.Comments), Value: r.loc.Count(locale.CommentsValue, d.CommentCount), Short: true},
			{Title: r.loc.Sprintf(locale.PageViews), Value: r.loc.Count(locale.ViewsValue, d.Views), Short: true},
		},
		Text:       d.Content,
		Footer:     footer,
		FooterIcon: r.style.FooterIcon,
		Color:      r.style.Color,
	}
}

// excerpt keeps content of up to excerptThreshold runes verbatim and cuts
// anything longer to excerptLength runes followed by a read-more link.
func (r *Renderer) excerpt(url, content string) string {
	runes := []rune(content)
	if len(runes) <= excerptThreshold {
		return content
	}
	return string(runes[:excerptLength]) + ellipsis + "\n\n" + ReadMoreLink(url, r.loc.Sprintf(locale.ReadMore))
}

// ReadMoreLink formats a Slack mrkdwn link to url labelled label.
func ReadMoreLink(url, label string) string {
	return "<" + url + "|" + label + ">"
}
