package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/app"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/usecase"
)

func newParseCodeCommand(root *rootOptions) *cobra.Command {
	var opts app.CodeOptions

	cmd := &cobra.Command{
		Use:   "parse-code",
		Short: "Split the criminal code PDF into article pages and the site index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := root.app.CodePipeline(opts)
			if err != nil {
				return err
			}

			report, err := pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}

			if report.DryRun {
				renderArticles(cmd, report)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rule=%s articles=%d sections=%d discarded=%d files=%d\n",
				report.Rule, len(report.Articles), len(report.Sections), report.Discarded, len(report.Files))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.PDFPath, "pdf", "", "criminal code PDF (default from config)")
	cmd.Flags().StringVar(&opts.SiteRoot, "out", "", "Jekyll site root (default from config)")
	cmd.Flags().StringVar(&opts.Duplicates, "duplicates", "", "duplicate article policy: all, first or last")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print articles instead of writing files")
	return cmd
}

func renderArticles(cmd *cobra.Command, report usecase.CodeReport) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Number", "Title", "Slug", "Body"})
	for _, a := range report.Articles {
		t.AppendRow(table.Row{a.Number, a.Title, a.Slug, len([]rune(a.Body))})
	}
	t.Render()
}
