// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the paperdf pipeline:
// document metadata in raw and canonical form, rename decisions, and
// configuration.
package types

// RawMetadata is the metadata record as returned by the extraction
// service, before cleaning. Fields may be blank, carry sentinel values
// ("unknown", "n/a"), or use inconsistent casing; authors may arrive as
// one comma-joined entry. MetadataNormalizer turns this into Metadata.
type RawMetadata struct {
	Authors []string `json:"authors" yaml:"authors"`
	Year    string   `json:"year" yaml:"year"`
	Journal string   `json:"journal" yaml:"journal"`
	Title   string   `json:"title" yaml:"title"`
}

// Metadata is the canonical, cleaned form of a document's front-matter
// metadata. It is built once by the normalizer, consumed once by the
// filename builder, and never mutated.
//
// Year is an opaque string: extraction may return ranges or qualifiers,
// so it is never parsed as an integer. For book-mode documents Journal
// holds the publisher; the field is reused rather than renamed to keep
// one code path.
type Metadata struct {
	Authors []string `json:"authors" yaml:"authors"`
	Year    string   `json:"year" yaml:"year"`
	Journal string   `json:"journal" yaml:"journal"`
	Title   string   `json:"title" yaml:"title"`
}
