package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/infrastructure/jekyll"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/usecase"
)

func newIngestCommand(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch fresh channel posts and write decision records for cited articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer root.app.Close()

			pipeline, err := root.app.IngestPipeline(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			report, err := pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}

			if len(report.Matches) > 0 {
				renderMatches(cmd, report)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetched=%d skipped=%d uncited=%d written=%d failed=%d dry_run=%t\n",
				report.Fetched, report.Skipped, report.Uncited, len(report.Written), len(report.Failed), report.DryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify posts without writing files or the ledger")
	return cmd
}

func renderMatches(cmd *cobra.Command, report usecase.IngestReport) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Post", "Articles", "Title"})
	for _, m := range report.Matches {
		t.AppendRow(table.Row{m.PostID, joinInts(m.ArticleNumbers), jekyll.DecisionTitle(m.SourceText)})
	}
	t.Render()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
