// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filename builds sanitized candidate filenames from canonical
// metadata and checks existing filenames against the active templates.
package filename

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/paperdf/paperdf/internal/authorname"
	"github.com/paperdf/paperdf/pkg/types"
)

// UnknownTitle is the literal fallback for a missing title. Part of the
// observable naming contract.
const UnknownTitle = "UnknownTitle"

// invalidChars are stripped outright from built filenames. They are the
// reserved filesystem set; escaping would leak template noise into names.
const invalidChars = `<>:"/\|?*`

// ErrUnknownPlaceholder is returned when a template contains a
// placeholder outside the supported set.
var ErrUnknownPlaceholder = fmt.Errorf("unknown template placeholder")

// placeholderRe matches {token} occurrences. Braces that do not wrap a
// lowercase token are treated as literal text.
var placeholderRe = regexp.MustCompile(`\{[a-z_]+\}`)

var filenamePlaceholders = map[string]bool{
	"{journal}": true,
	"{year}":    true,
	"{authors}": true,
	"{title}":   true,
}

var authorPlaceholders = map[string]bool{
	"{first}":           true,
	"{middle}":          true,
	"{surname}":         true,
	"{last}":            true,
	"{family}":          true,
	"{suffix}":          true,
	"{first_initial}":   true,
	"{middle_initials}": true,
	"{surname_initial}": true,
}

// ValidateFilenameTemplate rejects templates with placeholders outside
// {journal}, {year}, {authors}, {title}.
func ValidateFilenameTemplate(tmpl string) error {
	return validatePlaceholders(tmpl, filenamePlaceholders)
}

// ValidateAuthorTemplate rejects templates with placeholders outside
// the author token set.
func ValidateAuthorTemplate(tmpl string) error {
	return validatePlaceholders(tmpl, authorPlaceholders)
}

func validatePlaceholders(tmpl string, allowed map[string]bool) error {
	for _, tok := range placeholderRe.FindAllString(tmpl, -1) {
		if !allowed[tok] {
			return fmt.Errorf("%w: %s", ErrUnknownPlaceholder, tok)
		}
	}
	return nil
}

// Builder combines metadata and rendered authors into a candidate
// filename. The zero value uses the shipped placeholder defaults.
type Builder struct {
	// Unpublished substitutes for a missing journal or publisher.
	Unpublished string

	// PreserveAcronyms is forwarded to author rendering.
	PreserveAcronyms bool
}

// Build expands the filename template against the metadata. Missing
// fields fall back to their placeholders: Unpublished for the journal,
// "n.d." for the year, UnknownTitle for the title, and the author
// renderer's own fallback for authors. Reserved filesystem characters
// are removed and whitespace runs collapsed.
//
// The result is a bare filename. Callers placing it on disk must still
// treat it as untrusted template output and re-check length and path
// safety at their boundary.
func (b Builder) Build(meta types.Metadata, filenameTmpl, authorTmpl string) (string, error) {
	if err := ValidateFilenameTemplate(filenameTmpl); err != nil {
		return "", fmt.Errorf("filename template: %w", err)
	}
	if err := ValidateAuthorTemplate(authorTmpl); err != nil {
		return "", fmt.Errorf("author template: %w", err)
	}

	journal := meta.Journal
	if journal == "" {
		journal = b.Unpublished
		if journal == "" {
			journal = types.DefaultUnpublished
		}
	}

	year := strings.TrimSpace(meta.Year)
	if year == "" {
		year = types.DefaultYearPlaceholder
	}

	title := meta.Title
	if title == "" {
		title = UnknownTitle
	}

	renderer := authorname.Renderer{PreserveAcronyms: b.PreserveAcronyms}
	authors := renderer.FormatAuthors(meta.Authors, authorTmpl)

	name := strings.NewReplacer(
		"{journal}", journal,
		"{year}", year,
		"{authors}", authors,
		"{title}", title,
	).Replace(filenameTmpl)

	var cleaned strings.Builder
	for _, r := range name {
		if !strings.ContainsRune(invalidChars, r) {
			cleaned.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(cleaned.String()), " "), nil
}
