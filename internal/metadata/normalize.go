// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata cleans raw extraction-service records into canonical
// document metadata and decides whether a record carries any real
// information at all.
package metadata

import (
	"strings"

	"github.com/paperdf/paperdf/internal/authorname"
	"github.com/paperdf/paperdf/internal/textutil"
	"github.com/paperdf/paperdf/pkg/types"
)

// unknownTitle is the sentinel an extraction service may return in
// place of a real title.
const unknownTitle = "unknowntitle"

// unknownYears are sentinel strings meaning "year not found", matched
// case-insensitively.
var unknownYears = map[string]bool{
	"unknown":     true,
	"unknownyear": true,
	"n/a":         true,
	"na":          true,
}

// Normalizer cleans raw metadata. The zero value uses the default year
// placeholder ("n.d.") and folds acronyms during title-casing.
type Normalizer struct {
	// YearPlaceholder substitutes for a missing or unknown year.
	YearPlaceholder string

	// PreserveAcronyms is forwarded to the title-casing policy.
	PreserveAcronyms bool
}

func (n Normalizer) placeholder() string {
	if n.YearPlaceholder == "" {
		return types.DefaultYearPlaceholder
	}
	return n.YearPlaceholder
}

// Normalize converts a raw record to canonical form. Years are opaque
// strings and kept verbatim apart from trimming; unknown sentinels map
// to the placeholder. Author entries containing commas are split, blank
// and sentinel entries dropped, survivors title-cased. Journal and
// title map sentinels to "" and are title-cased otherwise.
func (n Normalizer) Normalize(raw types.RawMetadata) types.Metadata {
	caser := textutil.Caser{PreserveAcronyms: n.PreserveAcronyms}

	year := strings.TrimSpace(raw.Year)
	if year == "" || unknownYears[strings.ToLower(year)] {
		year = n.placeholder()
	}

	var authors []string
	for _, entry := range raw.Authors {
		// The service may hand back one comma-joined string.
		for _, a := range strings.Split(entry, ",") {
			a = strings.TrimSpace(a)
			if authorname.IsUnknownName(a) {
				continue
			}
			authors = append(authors, caser.Title(a))
		}
	}

	journal := strings.TrimSpace(raw.Journal)
	if authorname.IsUnknownName(journal) {
		journal = ""
	} else {
		journal = caser.Title(journal)
	}

	title := strings.TrimSpace(raw.Title)
	if authorname.IsUnknownName(title) || strings.ToLower(title) == unknownTitle {
		title = ""
	} else {
		title = caser.Title(title)
	}

	return types.Metadata{
		Authors: authors,
		Year:    year,
		Journal: journal,
		Title:   title,
	}
}

// IsEmpty reports whether the record carries no real information: no
// surviving author, a blank or placeholder year, no journal, and no
// title. The pipeline uses this to suppress renames that would be
// built entirely from fallbacks.
func (n Normalizer) IsEmpty(meta types.Metadata) bool {
	authorsEmpty := true
	for _, a := range meta.Authors {
		if !authorname.IsUnknownName(a) {
			authorsEmpty = false
			break
		}
	}

	year := strings.ToLower(strings.TrimSpace(meta.Year))
	yearEmpty := year == "" || year == "nd" || year == "n.d." ||
		year == strings.ToLower(n.placeholder()) || unknownYears[year]

	journalEmpty := strings.TrimSpace(meta.Journal) == ""

	title := strings.TrimSpace(meta.Title)
	titleEmpty := title == "" || strings.ToLower(title) == unknownTitle

	return authorsEmpty && yearEmpty && journalEmpty && titleEmpty
}
