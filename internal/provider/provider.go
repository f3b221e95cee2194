// Package provider defines the catalog interface and its StreamBox
// implementation.
package provider

import (
	"context"

	"streambox/internal/media"
)

// Catalog is the read side of the remote movie catalog.
type Catalog interface {
	// SearchMovies returns one page of movies matching query. A blank query
	// lists all movies.
	SearchMovies(ctx context.Context, query string, page int) (*media.Page[media.MovieSummary], error)

	// MoviesByCategory returns one page of movies in a category.
	MoviesByCategory(ctx context.Context, category string, page int) (*media.Page[media.MovieSummary], error)

	// Movie returns the detail of a single movie.
	Movie(ctx context.Context, id int) (*media.MovieDetail, error)

	// MovieStreams returns the playable streams of a movie. An empty slice is
	// a valid result.
	MovieStreams(ctx context.Context, id int) ([]media.Stream, error)

	// StreamPlaybackLink resolves a stream to a playable URL. An empty link
	// with a nil error means the stream is currently unavailable.
	StreamPlaybackLink(ctx context.Context, streamID string) (string, error)

	// Me returns the logged-in account.
	Me(ctx context.Context) (*media.User, error)
}
