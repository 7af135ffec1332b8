// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/paperdf/paperdf/internal/filename"
	"github.com/paperdf/paperdf/internal/gemini"
	"github.com/paperdf/paperdf/internal/history"
	"github.com/paperdf/paperdf/internal/pipeline"
	"github.com/paperdf/paperdf/internal/snippet"
	"github.com/paperdf/paperdf/pkg/types"
)

var renameCmd = &cobra.Command{
	Use:   "rename [files...]",
	Short: "Rename PDFs after the metadata extracted from their opening pages",
	Long: `Rename sends the first pages of each PDF to the Gemini API, builds a
filename from the extracted authors, year, venue, and title, and moves
the file. Pass individual files, or --dir to process every PDF in a
directory. Already conforming names are skipped, and content duplicates
are detected before any file is overwritten.`,
	RunE: runRename,
}

func init() {
	renameCmd.Flags().String("dir", "", "process every PDF in this directory")
	renameCmd.Flags().Bool("book", false, "book mode: book templates and deeper page reads")
	renameCmd.Flags().Int("pages", 0, "override how many leading pages to read")
	renameCmd.Flags().Bool("dry-run", false, "compute decisions without moving any file")
	renameCmd.Flags().String("out", "", "write the full decision list to this YAML file")
	renameCmd.Flags().String("validator", "", "already-formatted check: local or gemini")

	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" && len(args) > 0 {
		return fmt.Errorf("pass files or --dir, not both")
	}
	if dir == "" && len(args) == 0 {
		return fmt.Errorf("provide one or more PDF files, or --dir")
	}

	files := args
	if dir != "" {
		var err error
		files, err = discoverPDFs(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No PDF files found.")
			return nil
		}
	}

	isBook, _ := cmd.Flags().GetBool("book")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	outPath, _ := cmd.Flags().GetString("out")

	cfg := pipelineConfig()
	if pages, _ := cmd.Flags().GetInt("pages"); pages > 0 {
		if isBook {
			cfg.Rename.BookPages = pages
		} else {
			cfg.Rename.PaperPages = pages
		}
	}
	if kind, _ := cmd.Flags().GetString("validator"); kind != "" {
		cfg.Rename.Validator = types.ValidatorKind(kind)
	}

	client, err := gemini.NewClient(cfg.AI)
	if err != nil {
		return err
	}

	validator, err := buildValidator(cfg.Rename.Validator, client)
	if err != nil {
		return err
	}

	// A dry run journals nothing: a "renamed" entry for a file that
	// never moved would look undoable.
	var recorder pipeline.Recorder
	if !dryRun {
		store, err := history.Open(cfg.History)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	p, err := pipeline.New(pipeline.Options{
		Config:    cfg.Rename,
		Snippets:  snippet.FileProvider{},
		Extractor: client,
		Validator: validator,
		Recorder:  recorder,
		IsBook:    isBook,
		DryRun:    dryRun,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, decisions := p.Run(ctx, files, os.Stdout)
	printSummary(summary, dryRun)

	if outPath != "" {
		if err := writeDecisions(outPath, decisions); err != nil {
			return err
		}
		fmt.Printf("Decisions written to %s\n", outPath)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed", summary.Failed)
	}
	return nil
}

// discoverPDFs walks dir collecting PDF files, sorted by path. Hidden
// files and hidden directories are ignored.
func discoverPDFs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		hidden := strings.HasPrefix(name, ".") && path != dir
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !strings.EqualFold(filepath.Ext(name), ".pdf") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func buildValidator(kind types.ValidatorKind, client *gemini.Client) (pipeline.Validator, error) {
	switch kind {
	case types.ValidatorLocal, "":
		return filename.LocalValidator{}, nil
	case types.ValidatorGemini:
		return client, nil
	default:
		return nil, fmt.Errorf("unknown validator %q: use local or gemini", kind)
	}
}

func printSummary(s pipeline.Summary, dryRun bool) {
	verb := "Renamed"
	if dryRun {
		verb = "Would rename"
	}
	fmt.Printf("\n%s: %d  Already formatted: %d  Skipped: %d  Duplicates: %d  Failed: %d  (%d total)\n",
		verb, s.Renamed, s.AlreadyFormatted, s.Skipped, s.Duplicates, s.Failed, s.Total())
}

func writeDecisions(path string, decisions []types.Decision) error {
	data, err := yaml.Marshal(decisions)
	if err != nil {
		return fmt.Errorf("encoding decisions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
