package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/export"
	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/pipeline"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze documents against a persona and objective",
		Long: `Analyze extracts text from each file (pdf, docx, txt, md, csv, html),
segments it into sections and ranks the sections across all files.

Files that cannot be read or that yield no section are listed as issues
in the output rather than failing the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().String("persona", "", "persona name, e.g. \"Travel Planner\" (custom when unknown)")
	cmd.Flags().String("objective", "", "the job to be done (required)")
	cmd.Flags().Int("max-sections", 0, "maximum ranked sections")
	cmd.Flags().Int("min-words", 0, "minimum words for a section to be kept")
	cmd.Flags().Int("sentences", 0, "sentences per excerpt")
	cmd.Flags().String("strategy", "", "keyword strategy: basic or enhanced")
	cmd.Flags().String("format", "text", "output format: text, json, csv or pdf")
	cmd.Flags().StringP("out", "o", "", "write output to this file instead of stdout")
	_ = cmd.MarkFlagRequired("objective")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	settings, err := analysisFlags(cmd, cfg.Analysis)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	var exp export.Exporter
	if !strings.EqualFold(format, "text") {
		if exp, err = export.ForFormat(format); err != nil {
			return err
		}
	}

	files := make([]pipeline.File, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		files = append(files, pipeline.File{Name: filepath.Base(path), Data: data, Err: err})
	}

	persona, _ := cmd.Flags().GetString("persona")
	objective, _ := cmd.Flags().GetString("objective")
	analyzer := pipeline.NewAnalyzer(settings, parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}, cliLogger(cmd))
	result, err := analyzer.Run(cmd.Context(), files, persona, objective)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if exp == nil {
		renderText(&buf, result)
	} else if err := exp.Export(&buf, result); err != nil {
		return err
	}
	return writeOutput(cmd, &buf)
}

// analysisFlags overlays the flags the user set onto base and validates the result.
func analysisFlags(cmd *cobra.Command, base config.Analysis) (config.Analysis, error) {
	a := base
	f := cmd.Flags()
	if f.Changed("max-sections") {
		a.MaxSections, _ = f.GetInt("max-sections")
	}
	if f.Changed("min-words") {
		a.MinSectionWords, _ = f.GetInt("min-words")
	}
	if f.Changed("sentences") {
		a.ExcerptSentences, _ = f.GetInt("sentences")
	}
	if f.Changed("strategy") {
		s, _ := f.GetString("strategy")
		a.Strategy = strings.ToLower(s)
	}
	return a, a.Validate()
}

func writeOutput(cmd *cobra.Command, r io.Reader) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err := io.Copy(cmd.OutOrStdout(), r)
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Wrote", out)
	return nil
}
