// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authorname

import (
	"regexp"
	"strings"

	"github.com/paperdf/paperdf/internal/textutil"
)

// UnknownAuthors is the literal fallback when no author survives
// rendering. It is part of the observable naming contract; existing
// renamed files depend on it verbatim.
const UnknownAuthors = "UnknownAuthors"

// Renderer expands author templates. The zero value is ready to use;
// PreserveAcronyms is forwarded to the title-casing policy.
type Renderer struct {
	PreserveAcronyms bool
}

var (
	spaceRuns        = regexp.MustCompile(`\s+`)
	spaceBeforeComma = regexp.MustCompile(`\s+,`)
	repeatedCommas   = regexp.MustCompile(`,\s*,`)
	emptyParens      = regexp.MustCompile(`\(\s*\)`)
	spaceBeforeDot   = regexp.MustCompile(`\s+\.`)
)

// Render expands the template against the parsed components.
// Substitution is literal token replacement: no recursion, no escaping.
// Unknown tokens pass through untouched. After substitution the result
// is cleaned up (whitespace runs, dangling commas, empty parentheses)
// and title-cased. All-empty tokens yield the empty string.
func (r Renderer) Render(template string, c Components) string {
	out := strings.NewReplacer(
		"{first}", c.First,
		"{middle}", c.Middle,
		"{surname}", c.Surname,
		"{last}", c.Surname,
		"{family}", c.Surname,
		"{suffix}", c.Suffix,
		"{first_initial}", initial(c.First),
		"{surname_initial}", initial(c.Surname),
		"{middle_initials}", middleInitials(c.Middle),
	).Replace(template)

	out = cleanup(out)
	if out == "" {
		return ""
	}
	return textutil.Caser{PreserveAcronyms: r.PreserveAcronyms}.Title(out)
}

// FormatAuthors parses and renders each author, drops blanks and
// unknown-author sentinels, and joins the survivors with ", ". When
// nothing survives it returns the UnknownAuthors fallback.
func (r Renderer) FormatAuthors(authors []string, template string) string {
	var rendered []string
	for _, full := range authors {
		if IsUnknownName(full) {
			continue
		}
		if s := r.Render(template, Parse(full)); s != "" {
			rendered = append(rendered, s)
		}
	}
	if len(rendered) == 0 {
		return UnknownAuthors
	}
	return strings.Join(rendered, ", ")
}

// cleanup normalizes whitespace and punctuation artifacts left by empty
// tokens. It is idempotent: cleanup(cleanup(s)) == cleanup(s). Empty
// parentheses go first so the whitespace collapse sees the gap they
// leave behind; comma runs are collapsed to a fixpoint.
func cleanup(s string) string {
	s = emptyParens.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = spaceBeforeComma.ReplaceAllString(s, ",")
	for {
		next := repeatedCommas.ReplaceAllString(s, ",")
		if next == s {
			break
		}
		s = next
	}
	s = spaceBeforeDot.ReplaceAllString(s, ".")
	return strings.Trim(s, " ,")
}

// initial returns the upper-cased first letter of s, or "" when empty.
func initial(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0]))
}

// middleInitials renders each middle-name token as an upper-case
// initial followed by a period, joined with single spaces.
func middleInitials(middle string) string {
	tokens := strings.Fields(middle)
	if len(tokens) == 0 {
		return ""
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = initial(t) + "."
	}
	return strings.Join(out, " ")
}
