package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/einthusarr/einthusan"
	"github.com/s0up4200/einthusarr/radarr"
)

type mockLibrary struct {
	missing []radarr.MissingMovie
	err     error

	notified  []int64
	rescanAll int
}

func (m *mockLibrary) ListMissing(ctx context.Context, language string) ([]radarr.MissingMovie, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.missing, nil
}

func (m *mockLibrary) NotifyDownloaded(ctx context.Context, movieID int64) error {
	m.notified = append(m.notified, movieID)
	return nil
}

func (m *mockLibrary) RescanAll(ctx context.Context) error {
	m.rescanAll++
	return nil
}

type mockSite struct {
	results map[string][]einthusan.SearchResult // keyed by title
	link    *einthusan.ResolvedLink
	err     error

	searches []einthusan.Query
	resolves []string
}

func (m *mockSite) Search(ctx context.Context, query einthusan.Query) ([]einthusan.SearchResult, error) {
	m.searches = append(m.searches, query)
	results, ok := m.results[query.Title]
	if !ok || len(results) == 0 {
		return nil, &einthusan.NotFoundError{Query: query.Title, Language: query.Language}
	}
	return results, nil
}

func (m *mockSite) Resolve(ctx context.Context, watchURL string, quality einthusan.Quality) (*einthusan.ResolvedLink, error) {
	m.resolves = append(m.resolves, watchURL)
	if m.err != nil {
		return nil, m.err
	}
	return m.link, nil
}

type mockFetcher struct {
	err   error
	calls []string
}

func (m *mockFetcher) Fetch(ctx context.Context, rawURL, destDir, finalName string) (string, error) {
	m.calls = append(m.calls, rawURL)
	if m.err != nil {
		return "", m.err
	}
	return filepath.Join(destDir, finalName), nil
}

func maharaja() radarr.MissingMovie {
	return radarr.MissingMovie{ID: 2, Title: "Maharaja", Year: 2024, Language: "tamil"}
}

func maharajaResults() map[string][]einthusan.SearchResult {
	return map[string][]einthusan.SearchResult{
		"Maharaja": {
			{
				ID: "Mh24", Title: "Maharaja", Year: 2024, Language: einthusan.LanguageTamil,
				URL:       "https://einthusan.tv/movie/watch/Mh24/?lang=tamil",
				Qualities: []einthusan.Quality{einthusan.QualitySD, einthusan.QualityHD},
			},
		},
	}
}

func defaultOptions(destDir string) Options {
	return Options{
		Languages: []einthusan.Language{einthusan.LanguageTamil, einthusan.LanguageHindi},
		MinScore:  0.85,
		Quality:   einthusan.QualitySD,
		DestDir:   destDir,
	}
}

func TestRunDownloadsMatch(t *testing.T) {
	library := &mockLibrary{missing: []radarr.MissingMovie{maharaja()}}
	site := &mockSite{
		results: maharajaResults(),
		link:    &einthusan.ResolvedLink{Title: "Maharaja", Year: 2024, MP4URL: "https://cdn.example.com/m.mp4"},
	}
	fetcher := &mockFetcher{}

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	report, err := o.Run(context.Background(), defaultOptions(t.TempDir()))
	require.NoError(t, err)

	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	assert.Equal(t, StateDone, entry.State)
	assert.Equal(t, "Maharaja.2024.Tamil.SD.EINTHUSAN.WEB-DL.mp4", entry.Filename)

	assert.Equal(t, 1, report.Downloaded)
	assert.Equal(t, []string{"https://cdn.example.com/m.mp4"}, fetcher.calls)
	assert.Equal(t, []int64{2}, library.notified)
	assert.Equal(t, 1, library.rescanAll)
}

func TestRunRadarrUnavailableAbortsBeforeSearching(t *testing.T) {
	library := &mockLibrary{err: &radarr.UnavailableError{Op: "list missing movies", Err: errors.New("500")}}
	site := &mockSite{}
	fetcher := &mockFetcher{}

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	_, err := o.Run(context.Background(), defaultOptions(t.TempDir()))

	var unavailable *radarr.UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Empty(t, site.searches)
	assert.Empty(t, fetcher.calls)
}

func TestRunDryRunNeverDownloads(t *testing.T) {
	library := &mockLibrary{missing: []radarr.MissingMovie{maharaja()}}
	site := &mockSite{results: maharajaResults()}
	fetcher := &mockFetcher{}

	opts := defaultOptions(t.TempDir())
	opts.DryRun = true

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	report, err := o.Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, report.Entries, 1)
	assert.Equal(t, StateFound, report.Entries[0].State)
	assert.Equal(t, 1, report.Found)
	assert.Empty(t, site.resolves)
	assert.Empty(t, fetcher.calls)
	assert.Zero(t, library.rescanAll)
}

func TestRunLimitCapsProcessing(t *testing.T) {
	var missing []radarr.MissingMovie
	for i := int64(1); i <= 5; i++ {
		missing = append(missing, radarr.MissingMovie{ID: i, Title: "Unknown Movie", Year: 2020})
	}

	library := &mockLibrary{missing: missing}
	site := &mockSite{} // every search comes back empty
	fetcher := &mockFetcher{}

	opts := defaultOptions(t.TempDir())
	opts.Limit = 3

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	report, err := o.Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, report.Entries, 5)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, 2, report.Pending)
	assert.Equal(t, StatePending, report.Entries[3].State)
	assert.Equal(t, StatePending, report.Entries[4].State)

	// Two configured languages searched per processed entry, none for
	// the pending ones.
	assert.Len(t, site.searches, 6)
}

func TestRunNotFoundSkips(t *testing.T) {
	library := &mockLibrary{missing: []radarr.MissingMovie{{ID: 9, Title: "Obscure Film", Year: 1999}}}
	site := &mockSite{}
	fetcher := &mockFetcher{}

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	report, err := o.Run(context.Background(), defaultOptions(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, StateSkipped, report.Entries[0].State)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, fetcher.calls)
}

func TestRunLowScoreSkips(t *testing.T) {
	library := &mockLibrary{missing: []radarr.MissingMovie{{ID: 3, Title: "Completely Different Name", Year: 2024}}}
	site := &mockSite{
		results: map[string][]einthusan.SearchResult{
			"Completely Different Name": {
				{ID: "x", Title: "Maharaja", Year: 2024, Language: einthusan.LanguageTamil},
			},
		},
	}
	fetcher := &mockFetcher{}

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	report, err := o.Run(context.Background(), defaultOptions(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, StateSkipped, report.Entries[0].State)
	assert.Empty(t, fetcher.calls)
}

func TestRunDownloadFailureContinues(t *testing.T) {
	second := radarr.MissingMovie{ID: 7, Title: "Obscure Film", Year: 1999}
	library := &mockLibrary{missing: []radarr.MissingMovie{maharaja(), second}}
	site := &mockSite{
		results: maharajaResults(),
		link:    &einthusan.ResolvedLink{MP4URL: "https://cdn.example.com/m.mp4"},
	}
	fetcher := &mockFetcher{err: errors.New("connection reset")}

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	report, err := o.Run(context.Background(), defaultOptions(t.TempDir()))
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Equal(t, StateFailed, report.Entries[0].State)
	assert.Error(t, report.Entries[0].Err)
	assert.Equal(t, StateSkipped, report.Entries[1].State, "run continues past a failed download")
	assert.Zero(t, library.rescanAll)
}

func TestRunRequiresAuthFails(t *testing.T) {
	library := &mockLibrary{missing: []radarr.MissingMovie{maharaja()}}
	site := &mockSite{
		results: maharajaResults(),
		link:    &einthusan.ResolvedLink{RequiresAuth: true},
	}
	fetcher := &mockFetcher{}

	opts := defaultOptions(t.TempDir())
	opts.Quality = einthusan.QualityHD

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	report, err := o.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, StateFailed, report.Entries[0].State)
	assert.ErrorContains(t, report.Entries[0].Err, "authenticated session")
	assert.Empty(t, fetcher.calls)
}

func TestRunSkipsAlreadyDownloaded(t *testing.T) {
	destDir := t.TempDir()
	existing := filepath.Join(destDir, "Maharaja.2024.Tamil.SD.EINTHUSAN.WEB-DL.mp4")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	library := &mockLibrary{missing: []radarr.MissingMovie{maharaja()}}
	site := &mockSite{results: maharajaResults()}
	fetcher := &mockFetcher{}

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	report, err := o.Run(context.Background(), defaultOptions(destDir))
	require.NoError(t, err)

	assert.Equal(t, StateSkipped, report.Entries[0].State)
	assert.Empty(t, site.resolves)
	assert.Empty(t, fetcher.calls)
}

func TestRunSearchesPreferredLanguageFirst(t *testing.T) {
	movie := maharaja()
	movie.Language = "hindi"

	library := &mockLibrary{missing: []radarr.MissingMovie{movie}}
	site := &mockSite{
		results: maharajaResults(),
		link:    &einthusan.ResolvedLink{MP4URL: "https://cdn.example.com/m.mp4"},
	}
	fetcher := &mockFetcher{}

	o := NewOrchestrator(library, site, fetcher, zerolog.Nop())

	_, err := o.Run(context.Background(), defaultOptions(t.TempDir()))
	require.NoError(t, err)

	require.NotEmpty(t, site.searches)
	assert.Equal(t, einthusan.LanguageHindi, site.searches[0].Language)
}
