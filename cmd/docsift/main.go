// Package main is the entry point for the docsift CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docsift",
		Short: "Rank document sections by relevance to a persona and objective",
		Long: `docsift reads a set of documents, splits them into sections, scores each
section against a persona and an objective, and reports the top sections
with short excerpts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			if cfgFile != "" {
				return os.Setenv("DOCSIFT_CONFIG", cfgFile)
			}
			return nil
		},
	}
	root.PersistentFlags().String("config", "", "YAML file with analysis settings (overrides DOCSIFT_CONFIG)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")

	root.AddCommand(newAnalyzeCmd(), newPersonasCmd())
	return root
}

// cliLogger writes text logs to stderr, discarding info logs unless verbose.
func cliLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
