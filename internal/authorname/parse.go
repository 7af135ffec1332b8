// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package authorname splits free-text author names into structured
// components and renders them through token templates.
//
// Parsing is a best-effort heuristic: it does not handle particled
// surnames ("van der Berg"), multi-word surnames, or non-Western name
// orders. That is a documented limitation, not a bug.
package authorname

import "strings"

// Components are the parsed parts of one author name. Middle may hold
// several space-joined tokens. Suffix is only populated when the final
// token is a generational suffix ("Jr.", "III", ...).
type Components struct {
	First   string
	Middle  string
	Surname string
	Suffix  string
}

// suffixes is the closed set of recognized generational suffixes,
// matched case-insensitively.
var suffixes = map[string]bool{
	"jr":  true,
	"jr.": true,
	"sr.": true,
	"ii":  true,
	"iii": true,
	"iv":  true,
}

// unknownNames are sentinel strings an extraction service returns in
// place of a real author. They are never rendered.
var unknownNames = map[string]bool{
	"unknown":        true,
	"n/a":            true,
	"na":             true,
	"none":           true,
	"anonymous":      true,
	"unknown author": true,
	"unknownauthors": true,
}

// IsUnknownName reports whether s is blank or an unknown-author sentinel.
func IsUnknownName(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || unknownNames[s]
}

// Parse splits a free-text name into components. Separators (";" and
// ",") are treated as spaces, so "Smith, John" parses the same as
// "Smith John". With one token the token is the surname; with two or
// more, the first token is the given name, the last the surname, and
// anything between becomes the middle name. Empty input yields empty
// components.
func Parse(full string) Components {
	s := strings.NewReplacer(";", " ", ",", " ").Replace(full)
	parts := strings.Fields(s)

	var c Components
	if len(parts) == 0 {
		return c
	}

	if suffixes[strings.ToLower(parts[len(parts)-1])] {
		c.Suffix = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}

	switch len(parts) {
	case 0:
	case 1:
		c.Surname = parts[0]
	default:
		c.First = parts[0]
		c.Surname = parts[len(parts)-1]
		c.Middle = strings.Join(parts[1:len(parts)-1], " ")
	}
	return c
}
