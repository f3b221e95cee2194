package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"streambox/internal/httputil"
	"streambox/internal/media"
)

// Requester performs one authenticated API call and decodes the JSON
// response into out.
type Requester interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out any) error
}

// StreamBox implements Catalog against the StreamBox REST API.
type StreamBox struct {
	api      Requester
	pageSize int
	logger   *slog.Logger
}

// NewStreamBox creates a catalog client. pageSize is sent as the size of
// every listing request.
func NewStreamBox(api Requester, pageSize int, logger *slog.Logger) *StreamBox {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamBox{api: api, pageSize: pageSize, logger: logger}
}

type pageResponse struct {
	Items     []media.MovieSummary `json:"items"`
	Total     int                  `json:"total"`
	Page      int                  `json:"page"`
	PageCount int                  `json:"pageCount"`
}

// streamResponse mirrors one element of /movie/{id}/stream. The nested
// objects may be missing or null.
type streamResponse struct {
	ID    media.ID `json:"id"`
	Video *struct {
		Codec   string `json:"codec"`
		Quality string `json:"quality"`
	} `json:"video"`
	Audio *struct {
		Codec    string `json:"codec"`
		Channels int    `json:"channels"`
		Language string `json:"language"`
	} `json:"audio"`
}

type playResponse struct {
	Link *string `json:"link"`
}

// SearchMovies returns one page of movies matching query.
func (s *StreamBox) SearchMovies(ctx context.Context, query string, page int) (*media.Page[media.MovieSummary], error) {
	q := s.pageQuery(page)
	if query = strings.TrimSpace(query); query != "" {
		q.Set("query", query)
	}

	var resp pageResponse
	if err := s.api.Do(ctx, http.MethodPost, "/movie/search", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("searching movies: %w", err)
	}
	return toPage(resp), nil
}

// MoviesByCategory returns one page of movies in category.
func (s *StreamBox) MoviesByCategory(ctx context.Context, category string, page int) (*media.Page[media.MovieSummary], error) {
	if err := httputil.ValidateID(category); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}

	var resp pageResponse
	path := "/movie/category/" + url.PathEscape(category)
	if err := s.api.Do(ctx, http.MethodPost, path, s.pageQuery(page), nil, &resp); err != nil {
		return nil, fmt.Errorf("listing category %s: %w", category, err)
	}
	return toPage(resp), nil
}

// Movie returns the detail of a single movie.
func (s *StreamBox) Movie(ctx context.Context, id int) (*media.MovieDetail, error) {
	var detail media.MovieDetail
	if err := s.api.Do(ctx, http.MethodGet, "/movie/"+strconv.Itoa(id), nil, nil, &detail); err != nil {
		return nil, fmt.Errorf("getting movie %d: %w", id, err)
	}
	return &detail, nil
}

// MovieStreams returns the playable streams of a movie.
func (s *StreamBox) MovieStreams(ctx context.Context, id int) ([]media.Stream, error) {
	var resp []streamResponse
	if err := s.api.Do(ctx, http.MethodPost, "/movie/"+strconv.Itoa(id)+"/stream", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing streams for movie %d: %w", id, err)
	}

	streams := make([]media.Stream, 0, len(resp))
	for _, r := range resp {
		st := media.Stream{ID: r.ID.String()}
		if r.Video != nil {
			st.VideoCodec = r.Video.Codec
			st.VideoQuality = r.Video.Quality
		}
		if r.Audio != nil {
			st.AudioCodec = r.Audio.Codec
			st.AudioChannels = r.Audio.Channels
			st.AudioLanguage = r.Audio.Language
		}
		streams = append(streams, st)
	}
	s.logger.Debug("streams listed", "movie_id", id, "count", len(streams))
	return streams, nil
}

// StreamPlaybackLink resolves a stream to a playable URL. A null or missing
// link yields "" and a nil error.
func (s *StreamBox) StreamPlaybackLink(ctx context.Context, streamID string) (string, error) {
	if err := httputil.ValidateID(streamID); err != nil {
		return "", fmt.Errorf("invalid stream ID: %w", err)
	}

	var resp playResponse
	path := "/stream/" + url.PathEscape(streamID) + "/play"
	if err := s.api.Do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return "", fmt.Errorf("resolving stream %s: %w", streamID, err)
	}
	if resp.Link == nil {
		return "", nil
	}
	return *resp.Link, nil
}

// Me returns the logged-in account.
func (s *StreamBox) Me(ctx context.Context) (*media.User, error) {
	var user media.User
	if err := s.api.Do(ctx, http.MethodGet, "/user/me", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return &user, nil
}

func (s *StreamBox) pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(s.pageSize)},
	}
}

// toPage converts a listing response, keeping page within pageCount.
func toPage(r pageResponse) *media.Page[media.MovieSummary] {
	p := &media.Page[media.MovieSummary]{
		Items:     r.Items,
		Total:     r.Total,
		Page:      r.Page,
		PageCount: r.PageCount,
	}
	if p.Items == nil {
		p.Items = []media.MovieSummary{}
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageCount > 0 && p.Page > p.PageCount {
		p.Page = p.PageCount
	}
	return p
}

var _ Catalog = (*StreamBox)(nil)
