// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the per-document rename decision flow: check
// whether the name already conforms, extract and normalize metadata,
// build the candidate name, resolve collisions, and commit the move.
//
// Documents are processed strictly sequentially in input order. Each
// document reaches a terminal decision before the next starts, and one
// document's failure never aborts the batch. Cancellation is
// cooperative: the context is checked once per document boundary, never
// mid-document.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paperdf/paperdf/internal/dupes"
	"github.com/paperdf/paperdf/internal/filename"
	"github.com/paperdf/paperdf/internal/metadata"
	"github.com/paperdf/paperdf/internal/snippet"
	"github.com/paperdf/paperdf/pkg/types"
)

// SnippetProvider turns a document into a bounded byte buffer covering
// its first pages.
type SnippetProvider interface {
	ExtractFirstPages(path string, pages int) ([]byte, error)
}

// Extractor asks an external service for raw metadata from a snippet.
type Extractor interface {
	Extract(ctx context.Context, snippet []byte, isBook bool, pages int) (types.RawMetadata, error)
}

// Validator decides whether a filename already conforms to the active
// templates. Errors are consumed as "not formatted" (fail-open toward
// re-extraction).
type Validator interface {
	IsAlreadyFormatted(ctx context.Context, name string, isBook bool, filenameTmpl, authorTmpl string) (bool, error)
}

// Recorder persists terminal decisions. Optional.
type Recorder interface {
	Record(ctx context.Context, d types.Decision) error
}

// Options configures a Pipeline for one batch run.
type Options struct {
	Config    types.RenameConfig
	Snippets  SnippetProvider
	Extractor Extractor
	Validator Validator
	Recorder  Recorder

	// IsBook selects book mode for the whole batch.
	IsBook bool

	// DryRun computes decisions without moving any file.
	DryRun bool
}

// Pipeline processes documents one at a time. Construct with New; a
// Pipeline is owned by a single batch run and holds no global state.
type Pipeline struct {
	cfg       types.RenameConfig
	snippets  SnippetProvider
	extractor Extractor
	validator Validator
	recorder  Recorder
	norm      metadata.Normalizer
	builder   filename.Builder
	isBook    bool
	dryRun    bool
}

// New validates the templates up front, so a malformed template fails
// the batch before any document is touched rather than once per file.
func New(opts Options) (*Pipeline, error) {
	cfg := opts.Config.WithDefaults()

	for _, tmpl := range []string{cfg.OutputPattern, cfg.BookOutputPattern} {
		if err := filename.ValidateFilenameTemplate(tmpl); err != nil {
			return nil, fmt.Errorf("filename template %q: %w", tmpl, err)
		}
	}
	for _, tmpl := range []string{cfg.AuthorFormatPaper, cfg.AuthorFormatBook} {
		if err := filename.ValidateAuthorTemplate(tmpl); err != nil {
			return nil, fmt.Errorf("author template %q: %w", tmpl, err)
		}
	}

	if opts.Snippets == nil || opts.Extractor == nil || opts.Validator == nil {
		return nil, errors.New("pipeline requires snippet provider, extractor, and validator")
	}

	return &Pipeline{
		cfg:       cfg,
		snippets:  opts.Snippets,
		extractor: opts.Extractor,
		validator: opts.Validator,
		recorder:  opts.Recorder,
		norm: metadata.Normalizer{
			YearPlaceholder:  cfg.YearPlaceholder,
			PreserveAcronyms: cfg.PreserveAcronyms,
		},
		builder: filename.Builder{
			Unpublished:      cfg.Unpublished,
			PreserveAcronyms: cfg.PreserveAcronyms,
		},
		isBook: opts.IsBook,
		dryRun: opts.DryRun,
	}, nil
}

// Summary holds per-action counts from a batch run.
type Summary struct {
	Renamed          int
	AlreadyFormatted int
	Skipped          int
	Duplicates       int
	Failed           int
}

// Total returns the number of documents that reached a decision.
func (s Summary) Total() int {
	return s.Renamed + s.AlreadyFormatted + s.Skipped + s.Duplicates + s.Failed
}

// HasFailures reports whether any document failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run processes the files in order, writing a progress line per
// document to w. When ctx is cancelled the current document finishes
// and no further document is dispatched; the decisions made so far are
// returned.
func (p *Pipeline) Run(ctx context.Context, files []string, w io.Writer) (Summary, []types.Decision) {
	var summary Summary
	decisions := make([]types.Decision, 0, len(files))

	for i, path := range files {
		if ctx.Err() != nil {
			fmt.Fprintln(w, "aborted")
			break
		}

		fmt.Fprintf(w, "processing (%d/%d): %s\n", i+1, len(files), path)
		d := p.ProcessOne(ctx, path)
		fmt.Fprintln(w, describe(d))

		if p.recorder != nil {
			if err := p.recorder.Record(ctx, d); err != nil {
				fmt.Fprintf(w, "warning: could not record decision: %v\n", err)
			}
		}

		switch d.Action {
		case types.ActionRenamed:
			summary.Renamed++
		case types.ActionAlreadyFormatted:
			summary.AlreadyFormatted++
		case types.ActionSkipped:
			summary.Skipped++
		case types.ActionDuplicate:
			summary.Duplicates++
		case types.ActionFailed:
			summary.Failed++
		}
		decisions = append(decisions, d)
	}

	return summary, decisions
}

// ProcessOne runs the full decision flow for a single document and
// always returns a terminal decision; unexpected errors surface as
// ActionFailed rather than propagating.
func (p *Pipeline) ProcessOne(ctx context.Context, path string) types.Decision {
	filenameTmpl, authorTmpl := p.cfg.Templates(p.isBook)

	ok, err := p.validator.IsAlreadyFormatted(ctx, filepath.Base(path), p.isBook, filenameTmpl, authorTmpl)
	if err != nil {
		// Fail open: an unreachable validator must not suppress a
		// rename that might be needed.
		ok = false
	}
	if ok {
		return types.Decision{Action: types.ActionAlreadyFormatted, Source: path}
	}

	pages := p.cfg.Pages(p.isBook)
	data, err := p.snippets.ExtractFirstPages(path, pages)
	if err != nil {
		return failed(path, fmt.Errorf("reading snippet: %w", err))
	}
	if n := snippet.CountPages(data); n > 0 && pages > n {
		fmt.Fprintf(os.Stderr, "warning: %s has %d page(s), fewer than the %d requested\n", path, n, pages)
	}

	raw, err := p.extractor.Extract(ctx, data, p.isBook, pages)
	if err != nil {
		return failed(path, fmt.Errorf("extracting metadata: %w", err))
	}
	meta := p.norm.Normalize(raw)

	if p.isBook && meta.Title == "" {
		return types.Decision{Action: types.ActionSkipped, Source: path, Reason: types.SkipBookTitleMissing}
	}
	if p.norm.IsEmpty(meta) {
		return types.Decision{Action: types.ActionSkipped, Source: path, Reason: types.SkipEmptyMetadata}
	}

	name, err := p.builder.Build(meta, filenameTmpl, authorTmpl)
	if err != nil {
		return failed(path, fmt.Errorf("building filename: %w", err))
	}

	candidate := filepath.Join(filepath.Dir(path), name)
	if samePath(path, candidate) {
		return types.Decision{Action: types.ActionSkipped, Source: path, Reason: types.SkipSameName}
	}

	outcome, err := dupes.Resolve(candidate, path)
	if err != nil {
		return failed(path, fmt.Errorf("resolving collision: %w", err))
	}

	switch outcome.Kind {
	case dupes.Duplicate:
		return types.Decision{Action: types.ActionDuplicate, Source: path, Target: outcome.Path}
	default:
		if !p.dryRun {
			if err := os.Rename(path, outcome.Path); err != nil {
				return failed(path, fmt.Errorf("renaming: %w", err))
			}
		}
		return types.Decision{Action: types.ActionRenamed, Source: path, Target: outcome.Path}
	}
}

func failed(path string, err error) types.Decision {
	return types.Decision{Action: types.ActionFailed, Source: path, Err: err.Error()}
}

// samePath reports whether two paths resolve to the same absolute path.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// describe renders one decision as a log line.
func describe(d types.Decision) string {
	switch d.Action {
	case types.ActionAlreadyFormatted:
		return "already formatted, skipped"
	case types.ActionRenamed:
		return fmt.Sprintf("renamed to %s", filepath.Base(d.Target))
	case types.ActionSkipped:
		return fmt.Sprintf("skipped (%s)", d.Reason)
	case types.ActionDuplicate:
		return fmt.Sprintf("duplicate content at %s, rename skipped", filepath.Base(d.Target))
	case types.ActionFailed:
		return fmt.Sprintf("error: %s", d.Err)
	}
	return string(d.Action)
}
