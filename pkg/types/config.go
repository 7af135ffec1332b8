// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Default template and placeholder values. These mirror the shipped
// configuration and are used whenever the corresponding config field is
// blank.
const (
	DefaultOutputPattern     = "{journal} - {year} - {authors} - {title}.pdf"
	DefaultBookOutputPattern = "{authors} - {title} - {journal} ({year}).pdf"
	DefaultAuthorFormatPaper = "{surname}"
	DefaultAuthorFormatBook  = "{surname}, {first_initial}."
	DefaultUnpublished       = "Unpublished"
	DefaultYearPlaceholder   = "n.d."
	DefaultPaperPages        = 4
	DefaultBookPages         = 20
)

// ValidatorKind selects the already-formatted check implementation.
type ValidatorKind string

const (
	// ValidatorLocal reverse-engineers the templates into a structural
	// check. Deterministic and free.
	ValidatorLocal ValidatorKind = "local"

	// ValidatorGemini asks the model whether the filename conforms.
	ValidatorGemini ValidatorKind = "gemini"
)

// AIConfig holds settings for calls to the Gemini API.
type AIConfig struct {
	// Model is the Gemini model identifier (default "gemini-2.5-flash-lite").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the Gemini API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request HTTP timeout (default 120s; snippet
	// uploads can be slow).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// RequestsPerMinute caps the sustained call rate (default 30).
	RequestsPerMinute float64 `json:"requests_per_minute" yaml:"requests_per_minute"`
}

// RenameConfig holds the naming templates and rename behavior. Templates
// are owned by the caller and passed into every build; the pipeline
// never mutates them.
type RenameConfig struct {
	// OutputPattern is the filename template for papers. Placeholders:
	// {journal}, {year}, {authors}, {title}.
	OutputPattern string `json:"output_pattern" yaml:"output_pattern"`

	// BookOutputPattern is the filename template for books. {journal}
	// stands for the publisher.
	BookOutputPattern string `json:"book_output_pattern" yaml:"book_output_pattern"`

	// AuthorFormatPaper renders each author for papers. Placeholders:
	// {first}, {middle}, {surname} (aliases {last}, {family}),
	// {first_initial}, {middle_initials}, {surname_initial}, {suffix}.
	AuthorFormatPaper string `json:"author_format_paper" yaml:"author_format_paper"`

	// AuthorFormatBook renders each author for books.
	AuthorFormatBook string `json:"author_format_book" yaml:"author_format_book"`

	// Unpublished substitutes for a missing journal or publisher.
	Unpublished string `json:"unpublished" yaml:"unpublished"`

	// YearPlaceholder substitutes for a missing or unknown year (default "n.d.").
	YearPlaceholder string `json:"year_placeholder" yaml:"year_placeholder"`

	// PaperPages and BookPages are how many leading pages to read per mode.
	PaperPages int `json:"paper_pages" yaml:"paper_pages"`
	BookPages  int `json:"book_pages" yaml:"book_pages"`

	// PreserveAcronyms keeps all-uppercase tokens (e.g. "IEEE") intact
	// during title-casing instead of folding them to "Ieee".
	PreserveAcronyms bool `json:"preserve_acronyms" yaml:"preserve_acronyms"`

	// Validator selects the already-formatted check: local or gemini.
	Validator ValidatorKind `json:"validator" yaml:"validator"`
}

// Pages returns the configured page count for the given mode, falling
// back to the mode default when unset.
func (c RenameConfig) Pages(isBook bool) int {
	if isBook {
		if c.BookPages > 0 {
			return c.BookPages
		}
		return DefaultBookPages
	}
	if c.PaperPages > 0 {
		return c.PaperPages
	}
	return DefaultPaperPages
}

// WithDefaults returns a copy of c with blank fields replaced by the
// shipped defaults.
func (c RenameConfig) WithDefaults() RenameConfig {
	if c.OutputPattern == "" {
		c.OutputPattern = DefaultOutputPattern
	}
	if c.BookOutputPattern == "" {
		c.BookOutputPattern = DefaultBookOutputPattern
	}
	if c.AuthorFormatPaper == "" {
		c.AuthorFormatPaper = DefaultAuthorFormatPaper
	}
	if c.AuthorFormatBook == "" {
		c.AuthorFormatBook = DefaultAuthorFormatBook
	}
	if c.Unpublished == "" {
		c.Unpublished = DefaultUnpublished
	}
	if c.YearPlaceholder == "" {
		c.YearPlaceholder = DefaultYearPlaceholder
	}
	if c.Validator == "" {
		c.Validator = ValidatorLocal
	}
	return c
}

// Templates returns the filename and author templates for the given mode.
func (c RenameConfig) Templates(isBook bool) (filenameTmpl, authorTmpl string) {
	if isBook {
		return c.BookOutputPattern, c.AuthorFormatBook
	}
	return c.OutputPattern, c.AuthorFormatPaper
}

// HistoryConfig holds settings for the rename history journal.
type HistoryConfig struct {
	// Dir is the directory holding the history database (default
	// ~/.local/share/paperdf).
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all configuration consumed by a batch run.
type PipelineConfig struct {
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Rename  RenameConfig  `json:"rename" yaml:"rename"`
	History HistoryConfig `json:"history" yaml:"history"`
}
