// Package router maps a navigation request to exactly one handler. Handlers
// read the catalog and the local store and answer through a ui.Presenter or
// by starting playback.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"streambox/internal/api"
	"streambox/internal/player"
	"streambox/internal/provider"
	"streambox/internal/store"
	"streambox/internal/ui"
)

var (
	// ErrMissingParam means a required request parameter is absent.
	ErrMissingParam = errors.New("missing parameter")
	// ErrInvalidParam means a request parameter has the wrong form.
	ErrInvalidParam = errors.New("invalid parameter")
)

// Session is the login state used by the hub and the auth actions.
type Session interface {
	IsLoggedIn() bool
	LoginWithConfig(ctx context.Context) api.LoginResult
	Logout() error
}

// LocalStore holds favorites and watch history.
type LocalStore interface {
	Favorites() []store.Entry
	ToggleFavorite(entry store.Entry) bool
	History() []store.Entry
	AddToHistory(entry store.Entry, limit int)
	ClearHistory()
}

// Deps are the collaborators of one dispatch.
type Deps struct {
	Catalog   provider.Catalog
	Store     LocalStore
	Session   Session
	Presenter ui.Presenter
	Player    player.Player
	Logger    *slog.Logger

	// BaseURL prefixes every item URL.
	BaseURL string
	// HistoryLimit caps the watch history; zero means the store default.
	HistoryLimit int
}

// kind tells the error path whether a listing is open.
type kind int

const (
	kindListing kind = iota
	kindAction
	kindPlayback
)

type handler struct {
	kind kind
	run  func(ctx context.Context, req Request) error
}

// Router dispatches navigation requests.
type Router struct {
	Deps
	handlers map[Action]handler
}

// New creates a router.
func New(deps Deps) *Router {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	r := &Router{Deps: deps}
	r.handlers = map[Action]handler{
		ActionHub:             {kindListing, r.hub},
		ActionMoviesMenu:      {kindListing, r.moviesMenu},
		ActionSeriesMenu:      {kindListing, r.placeholder("Series are not available yet")},
		ActionLogin:           {kindAction, r.login},
		ActionLogout:          {kindAction, r.logout},
		ActionCategories:      {kindListing, r.placeholder("Categories are not available yet")},
		ActionMovies:          {kindListing, r.movies},
		ActionMovieDetail:     {kindPlayback, r.movieDetail},
		ActionSearch:          {kindListing, r.search},
		ActionSearchResults:   {kindListing, r.searchResults},
		ActionFavorites:       {kindListing, r.favorites},
		ActionToggleFavorite:  {kindAction, r.toggleFavorite},
		ActionHistory:         {kindListing, r.history},
		ActionClearHistory:    {kindAction, r.clearHistory},
		ActionRecommendations: {kindListing, r.placeholder("Recommendations are not available yet")},
		ActionFilter:          {kindListing, r.placeholder("Filter is not available yet")},
		ActionFilterSelect:    {kindListing, r.filterSelect},
	}
	return r
}

// Dispatch runs the handler for req. An exhausted session is reported to the
// user and is not an error. Any other failure is reported, closes an open
// listing as failed and is returned.
func (r *Router) Dispatch(ctx context.Context, req Request) error {
	action := req.Action()
	h, ok := r.handlers[action]
	if !ok {
		r.Logger.Warn("unknown action", "action", action)
		return nil
	}

	logger := r.Logger.With("action", action)
	logger.Debug("dispatching", "request", req.String())

	err := h.run(ctx, req)
	if err == nil {
		return nil
	}

	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		logger.Warn("session expired", "reason", authErr.Reason)
		r.Presenter.Notify(ui.LevelError, authErr.Message)
		if h.kind == kindListing {
			r.Presenter.EndListing(false)
		}
		return nil
	}

	logger.Error("handler failed", "error", err)
	r.Presenter.Notify(ui.LevelError, userMessage(err))
	if h.kind == kindListing {
		r.Presenter.EndListing(false)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// userMessage turns a handler error into a notification line.
func userMessage(err error) string {
	var netErr *api.NetworkError
	var remoteErr *api.RemoteError
	switch {
	case errors.As(err, &netErr):
		return "Server unreachable"
	case errors.As(err, &remoteErr):
		if remoteErr.Message != "" {
			return remoteErr.Message
		}
		return fmt.Sprintf("Request failed (HTTP %d)", remoteErr.Status)
	case errors.Is(err, ErrMissingParam), errors.Is(err, ErrInvalidParam):
		return "Invalid request: " + err.Error()
	default:
		return "Something went wrong"
	}
}
