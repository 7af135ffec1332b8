// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides the title-casing policy shared by metadata
// cleaning and author rendering.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Caser title-cases strings. The zero value folds every word to title
// case ("acm" → "Acm", "IEEE" → "Ieee"). With PreserveAcronyms set,
// tokens that are entirely upper case keep their casing.
type Caser struct {
	PreserveAcronyms bool
}

// Title returns s in title case. Empty input stays empty.
func (c Caser) Title(s string) string {
	if s == "" {
		return ""
	}
	caser := cases.Title(language.English)
	if !c.PreserveAcronyms {
		return caser.String(s)
	}

	fields := strings.Split(s, " ")
	for i, f := range fields {
		if isAcronym(f) {
			continue
		}
		fields[i] = caser.String(f)
	}
	return strings.Join(fields, " ")
}

// isAcronym reports whether the token is at least two letters long and
// entirely upper case (ignoring punctuation such as a trailing period).
func isAcronym(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}
