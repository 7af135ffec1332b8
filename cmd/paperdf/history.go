// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperdf/paperdf/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past rename decisions and undo renames",
	Long: `History lists the decisions recorded by previous runs, newest first.
Every rename, skip, duplicate, and failure is journaled with its
timestamp and paths. Use the undo subcommand to move a renamed file
back to its original name.`,
	RunE: runHistoryList,
}

var historyUndoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Move a renamed file back to its original name",
	Long: `Undo reverses a single rename from the history: the file is moved back
to its original path and the entry is marked undone. Only rename
entries can be undone, the renamed file must still exist, and the
original path must be free.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryUndo,
}

func init() {
	historyCmd.Flags().Int("limit", 50, "maximum number of entries to show")

	historyCmd.AddCommand(historyUndoCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(pipelineConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}

	fmt.Printf("%-6s  %-19s  %-18s  %s\n", "ID", "When", "Action", "File")
	fmt.Println(strings.Repeat("-", 80))
	for _, e := range entries {
		action := string(e.Decision.Action)
		if e.Decision.Reason != "" {
			action += " (" + string(e.Decision.Reason) + ")"
		}
		if e.Undone {
			action += " [undone]"
		}
		fmt.Printf("%-6d  %-19s  %-18s  %s\n",
			e.ID, e.At.Local().Format("2006-01-02 15:04:05"), action, describeEntry(e))
	}
	return nil
}

func describeEntry(e history.Entry) string {
	d := e.Decision
	if d.Target != "" && d.Target != d.Source {
		return fmt.Sprintf("%s -> %s", d.Source, d.Target)
	}
	return d.Source
}

func runHistoryUndo(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid history id %q", args[0])
	}

	store, err := history.Open(pipelineConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Undo(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Restored %s\n", e.Decision.Source)
	return nil
}
