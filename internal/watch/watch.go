// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch monitors a directory for newly arrived PDF files and
// hands each one to a handler once its contents have settled on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleInterval is how often a new file's size is polled while waiting
// for the writer to finish.
var settleInterval = 200 * time.Millisecond

// settleTimeout bounds how long a file may keep growing before it is
// handed over anyway.
var settleTimeout = 30 * time.Second

// Handler processes one settled PDF path.
type Handler func(ctx context.Context, path string)

// Watcher dispatches newly created PDFs in a single directory to a
// Handler, one at a time in arrival order.
type Watcher struct {
	dir     string
	handler Handler
}

// New returns a Watcher for dir. The directory must exist.
func New(dir string, handler Handler) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch target %s is not a directory", dir)
	}
	return &Watcher{dir: dir, handler: handler}, nil
}

// Run blocks, dispatching arrivals until ctx is cancelled or the
// watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path := w.candidate(event)
			if path == "" {
				continue
			}
			if err := waitSettled(ctx, path); err != nil {
				continue
			}
			w.handler(ctx, path)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// candidate returns the event path when the event is a newly created
// regular PDF file, and "" otherwise. Moves into the directory surface
// as Create events too.
func (w *Watcher) candidate(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) {
		return ""
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return ""
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return ""
	}
	return event.Name
}

// waitSettled polls the file size until it stops changing between two
// consecutive polls, so a PDF still being copied in is not processed
// half-written.
func waitSettled(ctx context.Context, path string) error {
	deadline := time.Now().Add(settleTimeout)
	var last int64 = -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settleInterval):
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == last {
			return nil
		}
		last = info.Size()

		if time.Now().After(deadline) {
			return nil
		}
	}
}
