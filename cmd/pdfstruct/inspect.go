package main

import (
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-structure/internal/ai"
	"github.com/thywilljoshua/pdf-structure/internal/batch"
	"github.com/thywilljoshua/pdf-structure/internal/config"
	"github.com/thywilljoshua/pdf-structure/internal/extract"
	"github.com/thywilljoshua/pdf-structure/internal/pdfsource"
)

func inspectCmd(cfg config.Config) *cobra.Command {
	var maxPages int
	var format string
	var aiProvider string
	var aiModel string

	cmd := &cobra.Command{
		Use:   "inspect <pdf>",
		Short: "Print the outline and tables of one PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdfPath := args[0]
			f, err := batch.ParseFormat(format)
			if err != nil {
				return err
			}
			outliner, err := newOutliner(cmd, cfg, aiProvider, aiModel)
			if err != nil {
				return err
			}

			src, err := pdfsource.Open(pdfPath)
			if err != nil {
				return err
			}
			defer src.Close()

			limit := extract.PageLimit(maxPages)
			doc := ai.WithOutliner(src, pdfPath, limit, outliner)
			res, err := extract.NewProcessor(extract.Config{MaxPages: limit}).Process(cmd.Context(), pdfPath, doc, src)
			if err != nil {
				return err
			}
			b, err := batch.Encode(res, f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", cfg.MaxPages, "maximum pages to process")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json|markdown")
	cmd.Flags().StringVar(&aiProvider, "ai", "off", "outline provider for PDFs without bookmarks: off|gemini")
	cmd.Flags().StringVar(&aiModel, "ai-model", cfg.GeminiModel, "Gemini model name")
	return cmd
}
