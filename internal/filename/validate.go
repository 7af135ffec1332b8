// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filename

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// LocalValidator decides whether a filename already conforms to the
// active templates by reverse-engineering them into a regular
// expression. It is deterministic and needs no network call. The check
// is structural and intentionally permissive: free-text fields match
// any non-empty run, and the author segment must repeat the shape of
// the author template joined by ", ".
type LocalValidator struct{}

// IsAlreadyFormatted reports whether the base filename matches the
// filename template with authors rendered per the author template.
// Directory components are ignored.
func (LocalValidator) IsAlreadyFormatted(_ context.Context, name string, _ bool, filenameTmpl, authorTmpl string) (bool, error) {
	re, err := patternRegexp(filenameTmpl, authorTmpl)
	if err != nil {
		return false, err
	}
	return re.MatchString(filepath.Base(name)), nil
}

// patternRegexp compiles the filename template into an anchored regexp.
func patternRegexp(filenameTmpl, authorTmpl string) (*regexp.Regexp, error) {
	if err := ValidateFilenameTemplate(filenameTmpl); err != nil {
		return nil, err
	}
	if err := ValidateAuthorTemplate(authorTmpl); err != nil {
		return nil, err
	}

	one := authorRegexp(authorTmpl)
	expr := expandTemplate(filenameTmpl, map[string]string{
		"{journal}": `.+?`,
		"{year}":    `.+?`,
		"{title}":   `.+?`,
		"{authors}": fmt.Sprintf(`%s(?:, %s)*`, one, one),
	})
	return regexp.Compile(`^` + expr + `$`)
}

// authorRegexp translates one author template into the pattern a single
// rendered author must match. Name tokens match any comma-free run,
// initial tokens a single capital letter.
func authorRegexp(authorTmpl string) string {
	return expandTemplate(authorTmpl, map[string]string{
		"{first}":           `[^,]+?`,
		"{middle}":          `(?:[^,]+?)?`,
		"{surname}":         `[^,]+?`,
		"{last}":            `[^,]+?`,
		"{family}":          `[^,]+?`,
		"{suffix}":          `(?:[A-Za-z.]+)?`,
		"{first_initial}":   `[A-Z]`,
		"{surname_initial}": `[A-Z]`,
		"{middle_initials}": `(?:[A-Z]\.(?: [A-Z]\.)*)?`,
	})
}

// expandTemplate quotes literal template text and substitutes each
// placeholder with its sub-pattern.
func expandTemplate(tmpl string, patterns map[string]string) string {
	var out strings.Builder
	rest := tmpl
	for {
		loc := placeholderRe.FindStringIndex(rest)
		if loc == nil {
			out.WriteString(regexp.QuoteMeta(rest))
			break
		}
		out.WriteString(regexp.QuoteMeta(rest[:loc[0]]))
		tok := rest[loc[0]:loc[1]]
		if p, ok := patterns[tok]; ok {
			out.WriteString(p)
		} else {
			out.WriteString(regexp.QuoteMeta(tok))
		}
		rest = rest[loc[1]:]
	}
	return out.String()
}
