// Package sync drives the Radarr-to-Einthusan acquisition workflow:
// list missing movies, search the site, download matches, and report.
package sync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/s0up4200/einthusarr/einthusan"
	"github.com/s0up4200/einthusarr/plex"
	"github.com/s0up4200/einthusarr/radarr"
)

// A match at or above this score stops the per-language search early.
const earlyExitScore = 0.9

// State tracks one entry through the pipeline.
type State string

const (
	StatePending     State = "pending"
	StateSearching   State = "searching"
	StateFound       State = "found"
	StateDownloading State = "downloading"
	StateDone        State = "done"
	StateSkipped     State = "skipped"
	StateFailed      State = "failed"
)

// Searcher is the site-facing surface the orchestrator needs.
type Searcher interface {
	Search(ctx context.Context, query einthusan.Query) ([]einthusan.SearchResult, error)
	Resolve(ctx context.Context, watchURL string, quality einthusan.Quality) (*einthusan.ResolvedLink, error)
}

// Fetcher streams a resolved URL to disk.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, destDir, finalName string) (string, error)
}

// Library is the Radarr-facing surface the orchestrator needs.
type Library interface {
	ListMissing(ctx context.Context, language string) ([]radarr.MissingMovie, error)
	NotifyDownloaded(ctx context.Context, movieID int64) error
	RescanAll(ctx context.Context) error
}

// Options configure a sync run.
type Options struct {
	DryRun    bool
	Limit     int
	Languages []einthusan.Language
	MinScore  float64
	Quality   einthusan.Quality
	DestDir   string
}

// EntryResult records the terminal state of one missing movie.
type EntryResult struct {
	Movie      radarr.MissingMovie
	State      State
	Match      *einthusan.SearchResult
	MatchScore float64
	Filename   string
	Err        error
}

// Report summarizes a sync run.
type Report struct {
	Entries    []EntryResult
	Found      int
	Downloaded int
	Skipped    int
	Failed     int
	Pending    int
}

// Orchestrator runs the acquisition pipeline strictly sequentially:
// entry ordering and failure attribution matter more than throughput,
// and the site has no documented concurrent-request policy.
type Orchestrator struct {
	library Library
	site    Searcher
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewOrchestrator wires the pipeline's collaborators together.
func NewOrchestrator(library Library, site Searcher, fetcher Fetcher, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		library: library,
		site:    site,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Run executes one sync pass. A Radarr failure aborts the whole run
// before any site traffic; per-entry failures are recorded and the run
// continues. Entries beyond the limit stay pending and are picked up
// on the next invocation from whatever Radarr still reports missing.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Report, error) {
	missing, err := o.library.ListMissing(ctx, "")
	if err != nil {
		return nil, err
	}

	o.logger.Info().Int("missing", len(missing)).Bool("dry_run", opts.DryRun).Msg("Starting sync run")

	report := &Report{}
	processed := 0

	for _, movie := range missing {
		if opts.Limit > 0 && processed >= opts.Limit {
			report.Entries = append(report.Entries, EntryResult{Movie: movie, State: StatePending})
			report.Pending++
			continue
		}
		processed++

		entry := o.processEntry(ctx, movie, opts)
		report.Entries = append(report.Entries, entry)

		switch entry.State {
		case StateDone:
			report.Downloaded++
		case StateFound:
			report.Found++
		case StateSkipped:
			report.Skipped++
		case StateFailed:
			report.Failed++
			o.logger.Error().Err(entry.Err).Str("title", movie.Title).Msg("Entry failed")
		}
	}

	if report.Downloaded > 0 && !opts.DryRun {
		if err := o.library.RescanAll(ctx); err != nil {
			o.logger.Warn().Err(err).Msg("Could not trigger final Radarr rescan")
		}
	}

	return report, nil
}

func (o *Orchestrator) processEntry(ctx context.Context, movie radarr.MissingMovie, opts Options) EntryResult {
	entry := EntryResult{Movie: movie, State: StateSearching}

	o.logger.Info().Str("title", movie.Title).Int("year", movie.Year).Msg("Searching")

	var best *einthusan.SearchResult
	var bestScore float64

	for _, lang := range searchOrder(movie.Language, opts.Languages) {
		results, err := o.site.Search(ctx, einthusan.Query{Title: movie.Title, Language: lang})
		if err != nil {
			var notFound *einthusan.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			entry.State = StateFailed
			entry.Err = err
			return entry
		}

		match, matchScore := bestMatch(movie.Title, movie.Year, results)
		if match != nil && matchScore > bestScore {
			best, bestScore = match, matchScore
		}
		if bestScore >= earlyExitScore {
			break
		}
	}

	if best == nil || bestScore < opts.MinScore {
		if best != nil {
			o.logger.Info().
				Str("title", movie.Title).
				Str("closest", best.Title).
				Float64("score", bestScore).
				Msg("No match above threshold")
		} else {
			o.logger.Info().Str("title", movie.Title).Msg("Not found on Einthusan")
		}
		entry.State = StateSkipped
		return entry
	}

	entry.Match = best
	entry.MatchScore = bestScore

	o.logger.Info().
		Str("title", movie.Title).
		Str("match", best.Title).
		Int("year", best.Year).
		Str("language", string(best.Language)).
		Float64("score", bestScore).
		Msg("Found match")

	if existing := o.alreadyDownloaded(best, opts.DestDir); existing != "" {
		o.logger.Info().Str("file", existing).Msg("Already downloaded, skipping")
		entry.State = StateSkipped
		entry.Filename = filepath.Base(existing)
		return entry
	}

	if opts.DryRun {
		entry.State = StateFound
		return entry
	}

	entry.State = StateDownloading

	link, err := o.site.Resolve(ctx, best.URL, opts.Quality)
	if err != nil {
		entry.State = StateFailed
		entry.Err = err
		return entry
	}
	if link.RequiresAuth {
		entry.State = StateFailed
		entry.Err = fmt.Errorf("%s quality requires an authenticated session; run login first", opts.Quality)
		return entry
	}

	title, year := best.Title, best.Year
	if link.Title != "" {
		title = link.Title
	}
	if link.Year > 0 {
		year = link.Year
	}

	tier := einthusan.QualitySD
	if link.Premium {
		tier = einthusan.QualityHD
	}

	entry.Filename = plex.Filename(plex.Metadata{
		Title:    title,
		Year:     year,
		Language: string(best.Language),
		Quality:  string(tier),
		Ext:      "mp4",
	})

	if _, err := o.fetcher.Fetch(ctx, link.MP4URL, opts.DestDir, entry.Filename); err != nil {
		entry.State = StateFailed
		entry.Err = err
		return entry
	}

	entry.State = StateDone

	if err := o.library.NotifyDownloaded(ctx, movie.ID); err != nil {
		o.logger.Warn().Err(err).Str("title", movie.Title).Msg("Could not notify Radarr")
	}

	return entry
}

// alreadyDownloaded looks for a previously fetched file for the match
// in the destination directory, so a movie Radarr has not rescanned yet
// is not fetched twice.
func (o *Orchestrator) alreadyDownloaded(match *einthusan.SearchResult, destDir string) string {
	if destDir == "" {
		return ""
	}

	pattern := plex.NormalizeTitle(match.Title)
	if match.Year > 0 {
		pattern = fmt.Sprintf("%s.%d", pattern, match.Year)
	}

	hits, err := filepath.Glob(filepath.Join(destDir, pattern+".*EINTHUSAN*"))
	if err != nil || len(hits) == 0 {
		return ""
	}
	return hits[0]
}

// searchOrder puts the Radarr entry's own language first when it is in
// the configured list.
func searchOrder(movieLang string, configured []einthusan.Language) []einthusan.Language {
	preferred, err := einthusan.ParseLanguage(movieLang)
	if err != nil {
		return configured
	}

	order := make([]einthusan.Language, 0, len(configured))
	found := false
	for _, l := range configured {
		if l == preferred {
			found = true
			continue
		}
		order = append(order, l)
	}
	if !found {
		return configured
	}
	return append([]einthusan.Language{preferred}, order...)
}
