// Package origin implements allow-list matching for the Origin header.
//
// Patterns are either exact origins ("https://app.example.com") or contain
// a single "*" wildcard ("https://*.preview.example.com"). Patterns are
// compiled once at startup into prefix/suffix pairs; no regular
// expressions are involved, so matching cost is bounded by the origin
// length.
package origin

import "strings"

// Wildcard is the substitution marker recognized in allow-list patterns.
const Wildcard = "*"

// pattern is a single compiled allow-list entry.
type pattern struct {
	raw    string
	exact  bool
	prefix string // fixed text before the wildcard
	suffix string // fixed text after the wildcard
}

// Matcher answers whether a request origin is allowed. It is immutable
// after Compile and safe for concurrent use.
type Matcher struct {
	patterns []pattern
}

// Compile builds a Matcher from the configured pattern list. Pattern
// order is preserved; matching is first-match-wins. Entries with more
// than one wildcard are treated as exact strings (they can never match a
// real origin, which keeps a typo from widening the allow list).
func Compile(raw []string) *Matcher {
	m := &Matcher{patterns: make([]pattern, 0, len(raw))}
	for _, r := range raw {
		p := pattern{raw: r}
		if strings.Count(r, Wildcard) == 1 {
			idx := strings.Index(r, Wildcard)
			p.prefix = r[:idx]
			p.suffix = r[idx+1:]
		} else {
			p.exact = true
		}
		m.patterns = append(m.patterns, p)
	}
	return m
}

// Allows reports whether the given Origin header value is permitted.
// An empty origin (curl, server-to-server clients) is always allowed.
// With no configured patterns every present origin is rejected.
func (m *Matcher) Allows(origin string) bool {
	if origin == "" {
		return true
	}
	for _, p := range m.patterns {
		if p.matches(origin) {
			return true
		}
	}
	return false
}

// Patterns returns the raw configured patterns, for logging at startup.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	for i, p := range m.patterns {
		out[i] = p.raw
	}
	return out
}

func (p pattern) matches(origin string) bool {
	if p.exact {
		return origin == p.raw
	}
	// The wildcard absorbs any substring, including the empty one, so the
	// candidate must carry both fixed parts without overlap.
	if len(origin) < len(p.prefix)+len(p.suffix) {
		return false
	}
	return strings.HasPrefix(origin, p.prefix) && strings.HasSuffix(origin, p.suffix)
}
