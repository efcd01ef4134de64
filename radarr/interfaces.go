package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// API defines the Radarr operations this tool consumes.
type API interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	SendCommandContext(ctx context.Context, cmd *radarr.CommandRequest) (*radarr.CommandResponse, error)
	Ping() error
}
