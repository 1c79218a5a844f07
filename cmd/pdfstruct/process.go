package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-structure/internal/ai"
	"github.com/thywilljoshua/pdf-structure/internal/batch"
	"github.com/thywilljoshua/pdf-structure/internal/config"
)

func processCmd(cfg config.Config) *cobra.Command {
	var input string
	var output string
	var maxPages int
	var workers int
	var format string
	var aiProvider string
	var aiModel string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process every PDF in a directory and write one result per file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := batch.ParseFormat(format)
			if err != nil {
				return err
			}
			outliner, err := newOutliner(cmd, cfg, aiProvider, aiModel)
			if err != nil {
				return err
			}

			r, err := batch.New(batch.Config{
				InputDir:  input,
				OutputDir: output,
				MaxPages:  maxPages,
				Workers:   workers,
				Format:    f,
				Outliner:  outliner,
			})
			if err != nil {
				return err
			}
			sum, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Processed %d of %d documents in %s\n", sum.Processed, sum.Total, sum.Elapsed.Round(time.Millisecond))
			for _, fail := range sum.Failed {
				fmt.Fprintf(w, "  failed: %s: %v\n", fail.File, fail.Err)
			}
			if len(sum.Failed) > 0 {
				return fmt.Errorf("%d of %d documents failed", len(sum.Failed), sum.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "./input", "directory containing PDF files")
	cmd.Flags().StringVarP(&output, "output", "o", "./output", "directory for result files")
	cmd.Flags().IntVar(&maxPages, "max-pages", cfg.MaxPages, "maximum pages to process per document")
	cmd.Flags().IntVar(&workers, "workers", cfg.Workers, "documents processed in parallel")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json|markdown")
	cmd.Flags().StringVar(&aiProvider, "ai", "off", "outline provider for PDFs without bookmarks: off|gemini")
	cmd.Flags().StringVar(&aiModel, "ai-model", cfg.GeminiModel, "Gemini model name")
	return cmd
}

// newOutliner returns ai.Noop when no provider is selected.
func newOutliner(cmd *cobra.Command, cfg config.Config, provider, model string) (ai.Outliner, error) {
	on, err := usesGemini(provider)
	if err != nil {
		return nil, err
	}
	if !on {
		return ai.Noop{}, nil
	}
	g, err := ai.NewGemini(cmd.Context(), cfg.GeminiAPIKey, model)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return g, nil
}
