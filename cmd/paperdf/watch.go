// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paperdf/paperdf/internal/gemini"
	"github.com/paperdf/paperdf/internal/history"
	"github.com/paperdf/paperdf/internal/pipeline"
	"github.com/paperdf/paperdf/internal/snippet"
	"github.com/paperdf/paperdf/internal/watch"
	"github.com/paperdf/paperdf/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and rename PDFs as they arrive",
	Long: `Watch monitors a directory and runs the rename pipeline on every new
PDF once its contents have finished writing. Files are processed one at
a time in arrival order. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("book", false, "book mode: book templates and deeper page reads")
	watchCmd.Flags().Bool("dry-run", false, "compute decisions without moving any file")
	watchCmd.Flags().String("validator", "", "already-formatted check: local or gemini")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	isBook, _ := cmd.Flags().GetBool("book")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg := pipelineConfig()
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

	w, err := watch.New(args[0], func(ctx context.Context, path string) {
		p.Run(ctx, []string{path}, os.Stdout)
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for new PDFs. Ctrl-C to stop.\n", args[0])
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
