// Package radarr consumes an external Radarr instance's REST API:
// listing missing movies and nudging rescans after downloads. This tool
// is a pure consumer; no Radarr state is created or mutated beyond the
// rescan commands.
package radarr

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

// MissingMovie is a read-only projection of a Radarr movie that is
// tracked but has no file yet.
type MissingMovie struct {
	ID       int64
	Title    string
	Year     int
	Language string
	TmdbID   int64
	ImdbID   string
}

// Client wraps the starr Radarr client.
type Client struct {
	api    API
	logger zerolog.Logger
}

// NewClient creates a Radarr client and verifies connectivity.
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	config := starr.New(apiKey, url, 30*time.Second)
	api := radarr.New(config)

	if err := api.Ping(); err != nil {
		return nil, &UnavailableError{Op: "connect", Err: err}
	}

	return &Client{api: api, logger: logger}, nil
}

// ListMissing returns monitored movies without a file, optionally
// filtered to one original language. Results keep Radarr's order.
func (c *Client) ListMissing(ctx context.Context, language string) ([]MissingMovie, error) {
	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, &UnavailableError{Op: "list missing movies", Err: err}
	}

	var missing []MissingMovie
	for _, movie := range movies {
		if movie.HasFile || !movie.Monitored {
			continue
		}

		lang := originalLanguage(movie)
		if language != "" && !strings.EqualFold(lang, language) {
			continue
		}

		missing = append(missing, MissingMovie{
			ID:       movie.ID,
			Title:    movie.Title,
			Year:     movie.Year,
			Language: lang,
			TmdbID:   movie.TmdbID,
			ImdbID:   movie.ImdbID,
		})
	}

	c.logger.Debug().
		Int("total", len(movies)).
		Int("missing", len(missing)).
		Msg("Retrieved missing movies from Radarr")

	return missing, nil
}

// NotifyDownloaded asks Radarr to rescan one movie so a fresh download
// is picked up immediately.
func (c *Client) NotifyDownloaded(ctx context.Context, movieID int64) error {
	cmd := &radarr.CommandRequest{
		Name:     "RescanMovie",
		MovieIDs: []int64{movieID},
	}

	if _, err := c.api.SendCommandContext(ctx, cmd); err != nil {
		return &UnavailableError{Op: "rescan movie", Err: err}
	}

	c.logger.Info().Int64("movie_id", movieID).Msg("Radarr rescan triggered")
	return nil
}

// RescanAll triggers a library-wide rescan, used as a backstop after a
// sync run that downloaded anything.
func (c *Client) RescanAll(ctx context.Context) error {
	cmd := &radarr.CommandRequest{Name: "RescanMovie"}

	if _, err := c.api.SendCommandContext(ctx, cmd); err != nil {
		return &UnavailableError{Op: "rescan library", Err: err}
	}

	c.logger.Info().Msg("Radarr library rescan triggered")
	return nil
}

func originalLanguage(movie *radarr.Movie) string {
	if movie.OriginalLanguage == nil {
		return ""
	}
	return strings.ToLower(movie.OriginalLanguage.Name)
}
