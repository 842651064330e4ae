package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"animeid/internal/search"
	"animeid/internal/titles"
)

type titleReport struct {
	Filename  string `json:"filename"`
	Title     string `json:"title,omitempty"`
	Extracted bool   `json:"extracted"`
	SearchURL string `json:"search_url,omitempty"`
}

func newTitleCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "title <filename>...",
		Short: "Extract the show title from release filenames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			linker, err := search.LinkerFromConfig(cfg)
			if err != nil {
				return err
			}

			reports := make([]titleReport, 0, len(args))
			for _, filename := range args {
				title, ok := titles.Extract(filename)
				reports = append(reports, titleReport{
					Filename:  filename,
					Title:     title,
					Extracted: ok,
					SearchURL: linker.Link(titles.DisplayTitle(filename)),
				})
			}

			if asJSON || (!cmd.Flags().Changed("json") && cfg.Output.Format == "json") {
				return writeJSON(cmd, reports)
			}

			rows := make([][]string, 0, len(reports))
			for _, report := range reports {
				title := report.Title
				if !report.Extracted {
					title = "(none)"
				}
				rows = append(rows, []string{report.Filename, title, orDash(report.SearchURL)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{
				{header: "Filename", maxWidth: 60},
				{header: "Title", maxWidth: 40},
				{header: "Search"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write results as JSON")
	return cmd
}
