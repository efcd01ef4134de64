package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/einthusarr/download"
	"github.com/s0up4200/einthusarr/einthusan"
	"github.com/s0up4200/einthusarr/radarr"
	"github.com/s0up4200/einthusarr/sync"
)

var (
	dryRun    bool
	syncLangs []string
	syncLimit int
	minScore  float64
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download Radarr's missing movies from Einthusan",
	Long: `Fetch the missing-movies list from Radarr, search Einthusan for each
title, and download matches into the configured destination. Radarr is
asked to rescan after successful downloads.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "discover matches without downloading")
	syncCmd.Flags().StringSliceVar(&syncLangs, "lang", nil, "languages to search (default from config)")
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "max entries to process this run (default from config, 0 = all)")
	syncCmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum match score 0-1 (default from config)")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if cfg.Radarr.APIKey == "" {
		return fmt.Errorf("radarr.api_key (or RADARR_API_KEY) is required for sync")
	}

	radarrClient, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
	if err != nil {
		return err
	}

	opts, err := buildSyncOptions(cmd)
	if err != nil {
		return err
	}

	orchestrator := sync.NewOrchestrator(radarrClient, siteClient, download.New(logger), logger)

	report, err := orchestrator.Run(ctx, opts)
	if err != nil {
		return err
	}

	printReport(report, opts.DryRun)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed", report.Failed, len(report.Entries))
	}
	return nil
}

func buildSyncOptions(cmd *cobra.Command) (sync.Options, error) {
	rawLangs := cfg.Sync.Languages
	if len(syncLangs) > 0 {
		rawLangs = syncLangs
	}

	languages := make([]einthusan.Language, 0, len(rawLangs))
	for _, raw := range rawLangs {
		lang, err := einthusan.ParseLanguage(raw)
		if err != nil {
			return sync.Options{}, err
		}
		languages = append(languages, lang)
	}

	quality, err := einthusan.ParseQuality(cfg.Einthusan.Quality)
	if err != nil {
		return sync.Options{}, err
	}

	limit := cfg.Sync.Limit
	if cmd.Flags().Changed("limit") {
		limit = syncLimit
	}

	score := cfg.Sync.MinScore
	if cmd.Flags().Changed("min-score") {
		score = minScore
	}

	return sync.Options{
		DryRun:    dryRun,
		Limit:     limit,
		Languages: languages,
		MinScore:  score,
		Quality:   quality,
		DestDir:   cfg.Download.Dir,
	}, nil
}

func printReport(report *sync.Report, dryRun bool) {
	if len(report.Entries) == 0 {
		fmt.Println("✓ No missing movies reported by Radarr")
		return
	}

	fmt.Printf("\nProcessed %d missing movie(s):\n", len(report.Entries))
	fmt.Println(strings.Repeat("-", 70))

	for _, entry := range report.Entries {
		fmt.Printf("• %s (%d): %s", entry.Movie.Title, entry.Movie.Year, entry.State)
		if entry.Match != nil && entry.State != sync.StateDone {
			fmt.Printf(" -> matched %s (%d) [%.2f]", entry.Match.Title, entry.Match.Year, entry.MatchScore)
		}
		if entry.Filename != "" {
			fmt.Printf(" -> %s", entry.Filename)
		}
		if entry.Err != nil {
			fmt.Printf(" -> %v", entry.Err)
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("-", 70))
	if dryRun {
		fmt.Printf("Dry run: %d match(es) found, %d skipped, %d failed, %d pending\n",
			report.Found, report.Skipped, report.Failed, report.Pending)
		return
	}
	fmt.Printf("Downloaded %d, skipped %d, failed %d, pending %d\n",
		report.Downloaded, report.Skipped, report.Failed, report.Pending)
}
