package unfurl

import (
	"fmt"
	"regexp"
)

type pattern struct {
	kind Kind
	re   *regexp.Regexp
}

// Classifier maps raw URLs on the site's host to content references.
type Classifier struct {
	patterns []pattern
}

// NewClassifier builds a Classifier for https URLs on host.
func NewClassifier(host string) (*Classifier, error) {
	if host == "" {
		return nil, fmt.Errorf("site host is required")
	}
	// Order matters: the first matching pattern wins.
	kinds := []Kind{KindDiscussion, KindKnowledge}
	c := &Classifier{patterns: make([]pattern, 0, len(kinds))}
	for _, kind := range kinds {
		expr := fmt.Sprintf(`^https://%s/%s/(\w+)(?:[/?#].*)?$`, regexp.QuoteMeta(host), kind)
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern: %w", kind, err)
		}
		c.patterns = append(c.patterns, pattern{kind: kind, re: re})
	}
	return c, nil
}

// Classify returns the reference for url, or the zero Reference when url
// matches no pattern.
func (c *Classifier) Classify(url string) Reference {
	for _, p := range c.patterns {
		if m := p.re.FindStringSubmatch(url); m != nil {
			return Reference{Kind: p.kind, ID: m[1]}
		}
	}
	return Reference{}
}
