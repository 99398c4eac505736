package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newClassifyCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [text...]",
		Short: "Show which articles a piece of text cites, pass by pass",
		Long:  "classify runs the citation classifier on its arguments, or on stdin when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("nothing to classify")
			}

			c, err := root.app.Classifier()
			if err != nil {
				return err
			}
			a := c.Analyze(text)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Pass", "Articles"})
			t.AppendRow(table.Row{"pattern", joinInts(a.Pattern)})
			t.AppendRow(table.Row{"keyword", joinInts(a.Keyword)})
			t.AppendRow(table.Row{"context", joinInts(a.Context)})
			t.AppendFooter(table.Row{"result", joinInts(a.Articles)})
			t.Render()
			return nil
		},
	}
}
