// Package ingredient normalizes free-text ingredient lines into
// structured records. Everything here is pure and stateless; every
// extraction strategy funnels its raw strings through this package.
package ingredient

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	sectionRe = regexp.MustCompile(`^\[(.+)\]$`)
)

// CleanText decodes HTML entities, normalizes unicode and collapses
// whitespace. Decoding runs to a fixpoint so double-encoded entities
// (&amp;frac12;) resolve too; the function is idempotent.
func CleanText(s string) string {
	for range 4 {
		decoded := html.UnescapeString(s)
		if decoded == s {
			break
		}
		s = decoded
	}
	s = width.Narrow.String(s)
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SectionName reports whether the line is a bare bracketed section
// label ("[Sauce]") and returns the label text.
func SectionName(line string) (string, bool) {
	m := sectionRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return name, true
}

// unitBoundaryRe matches a culinary unit that sits immediately after a
// letter run with no separating punctuation, which is how page builders
// glue consecutive ingredients into one text node. The digit or vulgar
// fraction that starts the next ingredient marks the split point.
var unitBoundaryRe = regexp.MustCompile(`[a-zA-Z)]((?:\d+(?:[./]\d+)?|[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])\s*(?:` + unitPattern + `)\b)`)

// SplitConcatenated splits a run of ingredients that lost their
// separators ("¾ cup soy sauce1 teaspoon garlic") by cutting just
// before each embedded measurement boundary. A string with no embedded
// boundary comes back as a single-element slice.
func SplitConcatenated(s string) []string {
	s = CleanText(s)
	if s == "" {
		return nil
	}
	locs := unitBoundaryRe.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return []string{s}
	}
	var out []string
	prev := 0
	for _, loc := range locs {
		// loc[2] is the start of the measurement capture group.
		cut := loc[2]
		if cut <= prev {
			continue
		}
		piece := strings.TrimSpace(s[prev:cut])
		if piece != "" {
			out = append(out, piece)
		}
		prev = cut
	}
	if rest := strings.TrimSpace(s[prev:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
