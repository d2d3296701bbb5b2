// Package locale holds the message catalogs used to localize preview labels,
// units and relative timestamps.
//
// English strings double as catalog keys, so a missing translation degrades
// to readable English instead of an opaque identifier.
package locale

import (
	"fmt"
	"strconv"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Catalog keys used by the preview renderer. The *Value keys are formatted
// with Count.
const (
	Bookmarks      = "Bookmarks"
	BookmarksValue = "%[2]s Bookmarks"
	PageViews      = "Page views"
	ViewsValue     = "%[2]s Views"
	Contributors   = "Contributors"
	ContribValue   = "%[2]s contributors"
	Status         = "Status"
	Archived       = "Archived"
	Open           = "Open"
	Comments       = "Comments"
	CommentsValue  = "%[2]s comments"
	ReadMore       = "Read more"
	UpdatedAt      = "Updated %s"
	CommentedAt    = "Comment added %s"
	CreatedAt      = "Created %s"
)

// Relative time keys, modelled on the dayjs relativeTime thresholds.
const (
	past       = "%s ago"
	future     = "in %s"
	fewSeconds = "a few seconds"
	aMinute    = "a minute"
	minutes    = "%d minutes"
	anHour     = "an hour"
	hours      = "%d hours"
	aDay       = "a day"
	days       = "%d days"
	aMonth     = "a month"
	months     = "%d months"
	aYear      = "a year"
	years      = "%d years"
)

var supported = []language.Tag{language.English, language.Japanese}

var japanese = map[string]string{
	Bookmarks:      "ブックマーク",
	BookmarksValue: "%[2]s Bookmarks",
	PageViews:      "ページビュー",
	ViewsValue:     "%[2]s Views",
	Contributors:   "貢献",
	ContribValue:   "%[2]s人",
	Status:         "ステータス",
	Archived:       "アーカイブ済み",
	Open:           "オープン",
	Comments:       "コメント数",
	CommentsValue:  "%[2]s件",
	ReadMore:       "続きを読む",
	UpdatedAt:      "%sに更新",
	CommentedAt:    "%sにコメント追加",
	CreatedAt:      "%sに作成",
	past:           "%s前",
	future:         "%s後",
	fewSeconds:     "数秒",
	aMinute:        "1分",
	minutes:        "%d分",
	anHour:         "1時間",
	hours:          "%d時間",
	aDay:           "1日",
	days:           "%d日",
	aMonth:         "1ヶ月",
	months:         "%dヶ月",
	aYear:          "1年",
	years:          "%d年",
}

var englishPlurals = map[string][2]string{
	BookmarksValue: {"1 Bookmark", "%[2]s Bookmarks"},
	ViewsValue:     {"1 View", "%[2]s Views"},
	ContribValue:   {"1 contributor", "%[2]s contributors"},
	CommentsValue:  {"1 comment", "%[2]s comments"},
}

// Localizer formats catalog messages for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the given BCP 47 language (e.g. "ja", "en-US").
// Languages without a catalog are rejected.
func New(lang string) (*Localizer, error) {
	requested, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", lang, err)
	}
	_, idx, confidence := language.NewMatcher(supported).Match(requested)
	if confidence == language.No {
		return nil, fmt.Errorf("unsupported locale %q", lang)
	}
	cat, err := buildCatalog()
	if err != nil {
		return nil, err
	}
	tag := supported[idx]
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed locales.
func MustNew(lang string) *Localizer {
	l, err := New(lang)
	if err != nil {
		panic(err)
	}
	return l
}

// Tag reports the matched catalog language.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Sprintf formats the catalog entry for key.
func (l *Localizer) Sprintf(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Count formats a "<n> <unit>" value key. n selects the plural form and is
// printed without digit grouping.
func (l *Localizer) Count(key string, n int64) string {
	return l.printer.Sprintf(key, n, strconv.FormatInt(n, 10))
}

func buildCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range japanese {
		if err := b.SetString(language.Japanese, key, msg); err != nil {
			return nil, fmt.Errorf("catalog ja %q: %w", key, err)
		}
		if plurals, ok := englishPlurals[key]; ok {
			if err := b.Set(language.English, key, plural.Selectf(1, "%d",
				"=1", plurals[0],
				"other", plurals[1],
			)); err != nil {
				return nil, fmt.Errorf("catalog en %q: %w", key, err)
			}
			continue
		}
		if err := b.SetString(language.English, key, key); err != nil {
			return nil, fmt.Errorf("catalog en %q: %w", key, err)
		}
	}
	return b, nil
}
