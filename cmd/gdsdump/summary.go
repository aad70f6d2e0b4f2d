package main

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/danmuck/gdsstream/internal/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	summaryWorkers int
	summaryFormat  string
)

var summaryCmd = &cobra.Command{
	Use:   "summary [PATTERN...]",
	Short: "Summarize many libraries concurrently",
	Long: `summary expands each doublestar PATTERN (default from [summary] pattern),
decodes the matching files in parallel and prints one summary per file in
input order. Files that fail to decode are reported and make the command fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := settings.Summary.Workers
		if cmd.Flags().Changed("workers") {
			workers = summaryWorkers
		}
		if workers < 1 {
			return fmt.Errorf("--workers must be at least 1")
		}
		patterns := args
		if len(patterns) == 0 {
			patterns = []string{settings.Summary.Pattern}
		}
		paths, err := expand(patterns)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files match %v", patterns)
		}

		dec := newDecoder()
		reports := make([]report.SummaryReport, len(paths))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				acc := report.NewSummary()
				stats, err := dec.DecodeFile(ctx, path, acc)
				rep := acc.Report()
				rep.Source = path
				rep.Records = stats.Records
				rep.Bytes = stats.Bytes
				if err != nil {
					rep.Error = err.Error()
				}
				reports[i] = rep
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if err := report.WriteSummaries(cmd.OutOrStdout(), summaryFormat, reports); err != nil {
			return err
		}
		failed := 0
		for _, rep := range reports {
			if rep.Error != "" {
				failed++
			}
		}
		log.Info().Int("files", len(paths)).Int("failed", failed).Int("workers", workers).Msg("summary finished")
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to decode", failed, len(paths))
		}
		return nil
	},
}

// expand resolves patterns in order, dropping duplicates. A pattern that
// names an existing file is kept even if it contains glob metacharacters.
func expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && !info.IsDir() {
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func init() {
	summaryCmd.Flags().IntVar(&summaryWorkers, "workers", 4, "files decoded in parallel")
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "text", "output format: text or yaml")
	rootCmd.AddCommand(summaryCmd)
}
