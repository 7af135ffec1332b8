// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperdf CLI. It renames PDF
// papers and books after the metadata extracted from their opening
// pages, records every decision in a local history, and can watch a
// directory for new arrivals.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paperdf/paperdf/internal/secrets"
	"github.com/paperdf/paperdf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// geminiKey holds the API key resolved from the environment or
// .secrets/ at startup.
var geminiKey string

// rootCmd is the base command for the paperdf CLI.
var rootCmd = &cobra.Command{
	Use:   "paperdf",
	Short: "Rename PDF papers and books after their extracted metadata",
	Long: `paperdf reads the opening pages of a PDF, asks the Gemini API for the
document's authors, year, venue, and title, and renames the file to a
configurable template such as

    {journal} - {year} - {authors} - {title}.pdf

Files that already carry a conforming name are left alone, duplicate
content is detected before overwriting anything, and every decision is
journaled so a rename can be undone later.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		key, err := secrets.GeminiAPIKey(".secrets/")
		if err != nil {
			return err
		}
		geminiKey = key
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperdf.yaml or ~/.config/paperdf/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperdf"))
		}
	}

	viper.SetEnvPrefix("PAPERDF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the full run configuration from the config
// file, the environment, and resolved secrets. Blank fields keep their
// shipped defaults.
func pipelineConfig() types.PipelineConfig {
	apiKey := viper.GetString("ai.api_key")
	if apiKey == "" {
		apiKey = geminiKey
	}

	timeout := viper.GetDuration("ai.timeout")
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return types.PipelineConfig{
		AI: types.AIConfig{
			Model:             viper.GetString("ai.model"),
			APIKey:            apiKey,
			MaxRetries:        viper.GetInt("ai.max_retries"),
			Timeout:           timeout,
			RequestsPerMinute: viper.GetFloat64("ai.requests_per_minute"),
		},
		Rename: types.RenameConfig{
			OutputPattern:     viper.GetString("rename.output_pattern"),
			BookOutputPattern: viper.GetString("rename.book_output_pattern"),
			AuthorFormatPaper: viper.GetString("rename.author_format_paper"),
			AuthorFormatBook:  viper.GetString("rename.author_format_book"),
			Unpublished:       viper.GetString("rename.unpublished"),
			YearPlaceholder:   viper.GetString("rename.year_placeholder"),
			PaperPages:        viper.GetInt("rename.paper_pages"),
			BookPages:         viper.GetInt("rename.book_pages"),
			PreserveAcronyms:  viper.GetBool("rename.preserve_acronyms"),
			Validator:         types.ValidatorKind(viper.GetString("rename.validator")),
		}.WithDefaults(),
		History: types.HistoryConfig{
			Dir: viper.GetString("history.dir"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
