// Package signal classifies text against the problem taxonomy and scores
// items by blending keyword density with community engagement. Matching and
// scoring are pure functions of the input and the immutable configuration.
package signal

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"prospector/internal/taxonomy"
)

// MatchResult is the classification of one text span. Categories maps
// category name to occurrence count (every occurrence counts). Keywords
// lists each distinct matched pattern once, ordered by its first match
// position in the text. Total is the sum of all category counts.
type MatchResult struct {
	Categories map[string]int `json:"categories,omitempty"`
	Keywords   []string       `json:"keywords,omitempty"`
	Total      int            `json:"total"`
}

type pattern struct {
	keyword string
	re      *regexp.Regexp
}

type category struct {
	name     string
	patterns []pattern
}

// Matcher holds the compiled taxonomy. Safe for concurrent use.
type Matcher struct {
	categories []category
}

// NewMatcher compiles every taxonomy pattern into a case-insensitive regex
// anchored with \b at both ends. Whitespace inside a phrase matches any run
// of whitespace.
func NewMatcher(cfg *taxonomy.Config) (*Matcher, error) {
	m := &Matcher{categories: make([]category, 0, len(cfg.Categories))}
	for _, c := range cfg.Categories {
		cat := category{name: c.Name, patterns: make([]pattern, 0, len(c.Patterns))}
		for _, p := range c.Patterns {
			re, err := compilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("category %q pattern %q: %w", c.Name, p, err)
			}
			cat.patterns = append(cat.patterns, pattern{keyword: strings.ToLower(p), re: re})
		}
		m.categories = append(m.categories, cat)
	}
	return m, nil
}

func compilePattern(p string) (*regexp.Regexp, error) {
	words := strings.Fields(strings.ToLower(p))
	if len(words) == 0 {
		return nil, fmt.Errorf("blank pattern")
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
}

// Match classifies text. Empty text yields a zero-count result, never an
// error. A single text may hit multiple categories; category counts are
// independent of each other.
func (m *Matcher) Match(text string) MatchResult {
	res := MatchResult{}
	if text == "" {
		return res
	}

	type hit struct {
		keyword string
		first   int
		order   int
	}
	var hits []hit
	seen := make(map[string]int) // keyword -> index into hits

	for _, cat := range m.categories {
		for _, p := range cat.patterns {
			locs := p.re.FindAllStringIndex(text, -1)
			if len(locs) == 0 {
				continue
			}
			if res.Categories == nil {
				res.Categories = make(map[string]int)
			}
			res.Categories[cat.name] += len(locs)
			res.Total += len(locs)

			if i, ok := seen[p.keyword]; ok {
				if locs[0][0] < hits[i].first {
					hits[i].first = locs[0][0]
				}
				continue
			}
			seen[p.keyword] = len(hits)
			hits = append(hits, hit{keyword: p.keyword, first: locs[0][0], order: len(hits)})
		}
	}

	if len(hits) == 0 {
		return res
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].first != hits[j].first {
			return hits[i].first < hits[j].first
		}
		return hits[i].order < hits[j].order
	})
	res.Keywords = make([]string, len(hits))
	for i, h := range hits {
		res.Keywords[i] = h.keyword
	}
	return res
}
