package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"animeid/internal/config"
	"animeid/internal/logging"
	"animeid/internal/search"
	"animeid/internal/tracemoe"
	"animeid/internal/upload"
)

type searchOptions struct {
	json          bool
	limit         int
	minSimilarity float64
}

// imageReport is the per-image result written in JSON mode.
type imageReport struct {
	Image         string          `json:"image"`
	State         string          `json:"state"`
	Message       string          `json:"message,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Matches       []search.Record `json:"matches"`
	failed        bool
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <image>...",
		Short: "Identify the anime scene shown in one or more images",
		Long: "Upload each image to trace.moe and list the matching anime, episode, and\n" +
			"timestamp range ranked by similarity. Use - to read an image from stdin.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				opts.limit = cfg.Output.Limit
			}
			if !cmd.Flags().Changed("json") {
				opts.json = cfg.Output.Format == "json"
			}
			if opts.limit < 0 {
				return fmt.Errorf("--limit must be zero or positive")
			}
			if opts.minSimilarity < 0 || opts.minSimilarity > 1 {
				return fmt.Errorf("--min-similarity must be between 0 and 1")
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return runSearch(cmd, cfg, logger, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Write results as JSON")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Maximum matches to show per image (0 shows all)")
	cmd.Flags().Float64Var(&opts.minSimilarity, "min-similarity", 0, "Hide matches below this similarity (0-1)")
	return cmd
}

func runSearch(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts searchOptions, paths []string) error {
	client, err := tracemoe.New(tracemoe.Config{
		Endpoint:          cfg.TraceMoe.Endpoint,
		APIKey:            cfg.TraceMoe.APIKey,
		Timeout:           cfg.TraceMoe.Timeout(),
		MaxUploadBytes:    cfg.TraceMoe.MaxUploadBytes(),
		RequestsPerMinute: cfg.TraceMoe.RequestsPerMinute,
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	linker, err := search.LinkerFromConfig(cfg)
	if err != nil {
		return err
	}
	// No Previews: a terminal has nowhere to show the staged image.
	controller, err := search.New(search.Options{
		Validator: upload.Validator{MaxBytes: cfg.TraceMoe.MaxUploadBytes()},
		Searcher:  client,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := controller.Close(); cerr != nil {
			logger.Debug("controller close failed", logging.Error(cerr))
		}
	}()

	reports := make([]imageReport, 0, len(paths))
	for _, path := range paths {
		report := searchImage(cmd.Context(), controller, linker, cfg.TraceMoe.MaxUploadBytes(), path)
		report.Matches = filterRecords(report.Matches, opts)
		reports = append(reports, report)
		if errors.Is(cmd.Context().Err(), context.Canceled) {
			return cmd.Context().Err()
		}
	}

	if opts.json {
		if err := writeJSON(cmd, reports); err != nil {
			return err
		}
	} else {
		colors := newPalette(cfg.Output.Color, cmd.OutOrStdout())
		writeReports(cmd.OutOrStdout(), colors, reports)
	}

	failed := 0
	for _, report := range reports {
		if report.failed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d searches failed", failed, len(reports))
	}
	return nil
}

// searchImage loads, validates, and submits one image through the shared
// controller. No-match is reported but is not a failure.
func searchImage(ctx context.Context, controller *search.Controller, linker search.Linker, limit int64, path string) imageReport {
	report := imageReport{Image: path, State: search.StateFailed.String()}

	candidate, err := upload.Open(path, limit)
	if err != nil {
		report.Message = err.Error()
		report.failed = true
		return report
	}
	if err := controller.Select(candidate); err != nil {
		report.Message = search.UserMessage(err)
		report.failed = true
		return report
	}

	_, err = controller.Submit(ctx)
	snap := controller.Snapshot()
	report.State = snap.State.String()
	report.Message = snap.Message
	report.CorrelationID = snap.CorrelationID
	if err != nil {
		if report.Message == "" {
			report.Message = search.UserMessage(err)
		}
		report.failed = true
		return report
	}
	report.Matches = search.Present(snap.Outcome, linker)
	return report
}

func filterRecords(records []search.Record, opts searchOptions) []search.Record {
	if len(records) == 0 {
		return []search.Record{}
	}
	filtered := make([]search.Record, 0, len(records))
	for _, record := range records {
		if record.Similarity < opts.minSimilarity {
			continue
		}
		filtered = append(filtered, record)
		if opts.limit > 0 && len(filtered) == opts.limit {
			break
		}
	}
	return filtered
}

func writeReports(out io.Writer, colors palette, reports []imageReport) {
	for i, report := range reports {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, colors.section(report.Image))
		switch {
		case report.failed:
			fmt.Fprintln(out, colors.status(statusError, report.Message))
			continue
		case report.Message != "":
			fmt.Fprintln(out, colors.status(statusWarn, report.Message))
			continue
		case len(report.Matches) == 0:
			fmt.Fprintln(out, colors.status(statusWarn, "No matches above the similarity threshold"))
			continue
		}
		best := report.Matches[0]
		fmt.Fprintln(out, colors.status(statusOK, fmt.Sprintf("Match found: %s (%s similarity)", best.Title, best.SimilarityText)))
		fmt.Fprintln(out, renderTable(matchColumns(report.Matches), matchRows(colors, report.Matches)))
	}
}

func matchColumns(records []search.Record) []column {
	timeHeader := records[0].TimeHeader
	for _, record := range records[1:] {
		if record.TimeHeader != timeHeader {
			timeHeader = "Time"
			break
		}
	}
	return []column{
		{header: "#", right: true},
		{header: "Title", maxWidth: 40},
		{header: "Episode"},
		{header: timeHeader},
		{header: "Similarity", right: true},
		{header: "Preview"},
		{header: "Watch"},
	}
}

func matchRows(colors palette, records []search.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		watch := record.Action
		if record.SearchURL != "" {
			watch = record.Action + ": " + record.SearchURL
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", record.Rank),
			record.Title,
			record.Episode,
			record.TimeRange,
			colors.similarity(record.Similarity, record.SimilarityText),
			orDash(record.VideoURL),
			watch,
		})
	}
	return rows
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
