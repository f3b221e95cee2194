package router

import (
	"context"
	"errors"
	"fmt"

	"streambox/internal/media"
	"streambox/internal/store"
	"streambox/internal/ui"
)

const (
	labelAddFavorite    = "Add to favorites"
	labelRemoveFavorite = "Remove from favorites"
	labelClearHistory   = "[Clear history]"
)

func (r *Router) url(action Action, kv ...string) string {
	return NewRequest(action, kv...).URL(r.BaseURL)
}

func (r *Router) folder(label string, action Action, kv ...string) ui.Item {
	return ui.Item{Label: label, URL: r.url(action, kv...), Folder: true}
}

// ---- Hub and menus ----

func (r *Router) hub(_ context.Context, _ Request) error {
	r.Presenter.SetCategory("StreamBox")
	if r.Session.IsLoggedIn() {
		r.Presenter.AddItem(r.folder("Movies", ActionMoviesMenu))
		r.Presenter.AddItem(r.folder("Series", ActionSeriesMenu))
		r.Presenter.AddItem(r.folder("Search", ActionSearch))
		r.Presenter.AddItem(r.folder("Log out", ActionLogout))
	} else {
		r.Presenter.AddItem(r.folder("Log in", ActionLogin))
	}
	r.Presenter.EndListing(true)
	return nil
}

func (r *Router) moviesMenu(_ context.Context, _ Request) error {
	r.Presenter.SetCategory("Movies")
	r.Presenter.AddItem(r.folder("All movies", ActionMovies))
	r.Presenter.AddItem(r.folder("Favorites", ActionFavorites))
	r.Presenter.AddItem(r.folder("History", ActionHistory))
	r.Presenter.EndListing(true)
	return nil
}

func (r *Router) placeholder(message string) func(context.Context, Request) error {
	return func(context.Context, Request) error {
		r.Presenter.Notify(ui.LevelInfo, message)
		r.Presenter.EndListing(false)
		return nil
	}
}

func (r *Router) filterSelect(context.Context, Request) error {
	r.Presenter.EndListing(false)
	return nil
}

// ---- Auth ----

func (r *Router) login(ctx context.Context, _ Request) error {
	res := r.Session.LoginWithConfig(ctx)
	if !res.OK {
		r.Presenter.Notify(ui.LevelError, res.Message)
		r.Presenter.Refresh()
		return nil
	}

	message := res.Message
	if user, err := r.Catalog.Me(ctx); err != nil {
		r.Logger.Debug("fetching account after login failed", "error", err)
	} else if name := user.DisplayName(); name != "" {
		message = "Logged in as " + name
	}
	r.Presenter.Notify(ui.LevelInfo, message)
	r.Presenter.Refresh()
	return nil
}

func (r *Router) logout(context.Context, Request) error {
	if err := r.Session.Logout(); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	r.Presenter.Notify(ui.LevelInfo, "Logged out")
	r.Presenter.Refresh()
	return nil
}

// ---- Movie listings ----

// favoriteIDs is read once per listing for the context menu labels.
func (r *Router) favoriteIDs() map[media.ID]bool {
	ids := make(map[media.ID]bool)
	for _, e := range r.Store.Favorites() {
		ids[e.ID] = true
	}
	return ids
}

func (r *Router) movieItem(id media.ID, title string, favorites map[media.ID]bool) ui.Item {
	menuLabel := labelAddFavorite
	if favorites[id] {
		menuLabel = labelRemoveFavorite
	}
	return ui.Item{
		Label:    title,
		URL:      r.url(ActionMovieDetail, ParamMovieID, id.String()),
		Playable: true,
		ContextMenu: []ui.MenuEntry{{
			Label: menuLabel,
			URL:   r.url(ActionToggleFavorite, ParamMovieID, id.String()),
		}},
	}
}

// addPage emits the movies of page and a next-page item that re-issues req
// for the following page.
func (r *Router) addPage(req Request, page *media.Page[media.MovieSummary]) {
	favorites := r.favoriteIDs()
	for _, m := range page.Items {
		r.Presenter.AddItem(r.movieItem(media.IntID(m.ID), m.Title, favorites))
	}
	if page.HasNext() {
		next := page.Page + 1
		r.Presenter.AddItem(ui.Item{
			Label:  fmt.Sprintf("Next page (%d/%d) >>", next, page.PageCount),
			URL:    req.With(ParamPage, fmt.Sprint(next)).URL(r.BaseURL),
			Folder: true,
		})
	}
	r.Presenter.EndListing(true)
}

func (r *Router) movies(ctx context.Context, req Request) error {
	var (
		page *media.Page[media.MovieSummary]
		err  error
	)
	if category := req.Get(ParamCategory); category != "" {
		r.Presenter.SetCategory("Movies: " + category)
		page, err = r.Catalog.MoviesByCategory(ctx, category, req.Page())
	} else {
		r.Presenter.SetCategory("All movies")
		page, err = r.Catalog.SearchMovies(ctx, "", req.Page())
	}
	if err != nil {
		return err
	}
	r.addPage(req, page)
	return nil
}

func (r *Router) search(ctx context.Context, req Request) error {
	query, err := r.Presenter.Input("Search")
	if errors.Is(err, ui.ErrCancelled) || (err == nil && query == "") {
		r.Presenter.EndListing(false)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading search query: %w", err)
	}
	return r.searchResults(ctx, NewRequest(ActionSearchResults, ParamQuery, query, ParamPage, "1"))
}

func (r *Router) searchResults(ctx context.Context, req Request) error {
	query := req.Get(ParamQuery)
	if query == "" {
		return fmt.Errorf("%w: %s", ErrMissingParam, ParamQuery)
	}

	page, err := r.Catalog.SearchMovies(ctx, query, req.Page())
	if err != nil {
		return err
	}
	r.Presenter.SetCategory("Search: " + query)
	r.addPage(req, page)
	return nil
}

// ---- Local records ----

func (r *Router) entryItems(entries []store.Entry) {
	favorites := r.favoriteIDs()
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		r.Presenter.AddItem(r.movieItem(e.ID, e.Title, favorites))
	}
}

func (r *Router) favorites(context.Context, Request) error {
	r.Presenter.SetCategory("Favorites")
	r.entryItems(r.Store.Favorites())
	r.Presenter.EndListing(true)
	return nil
}

func (r *Router) toggleFavorite(ctx context.Context, req Request) error {
	id, err := req.Int(ParamMovieID)
	if err != nil {
		return err
	}
	movie, err := r.Catalog.Movie(ctx, id)
	if err != nil {
		return err
	}

	message := "Removed from favorites"
	if r.Store.ToggleFavorite(store.Entry{ID: media.IntID(movie.ID), Title: movie.Title}) {
		message = "Added to favorites"
	}
	r.Presenter.Notify(ui.LevelInfo, message)
	r.Presenter.Refresh()
	return nil
}

func (r *Router) history(context.Context, Request) error {
	entries := r.Store.History()
	r.Presenter.SetCategory("History")
	r.entryItems(entries)
	if len(entries) > 0 {
		r.Presenter.AddItem(ui.Item{Label: labelClearHistory, URL: r.url(ActionClearHistory)})
	}
	r.Presenter.EndListing(true)
	return nil
}

func (r *Router) clearHistory(context.Context, Request) error {
	r.Store.ClearHistory()
	r.Presenter.Notify(ui.LevelInfo, "History cleared")
	r.Presenter.Refresh()
	return nil
}

// ---- Playback ----

func (r *Router) movieDetail(ctx context.Context, req Request) error {
	id, err := req.Int(ParamMovieID)
	if err != nil {
		return err
	}

	streams, err := r.Catalog.MovieStreams(ctx, id)
	if err != nil {
		return err
	}
	if len(streams) == 0 {
		r.Presenter.Notify(ui.LevelError, "No stream found")
		return nil
	}

	selected := 0
	if len(streams) > 1 {
		labels := make([]string, len(streams))
		for i, s := range streams {
			labels[i] = s.Label()
		}
		selected, err = r.Presenter.Select("Select stream", labels)
		if errors.Is(err, ui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("selecting stream: %w", err)
		}
		if selected < 0 || selected >= len(streams) {
			return nil
		}
	}
	stream := streams[selected]

	link, err := r.Catalog.StreamPlaybackLink(ctx, stream.ID)
	if err != nil {
		return err
	}
	if link == "" {
		r.Presenter.Notify(ui.LevelError, "Stream not available")
		return nil
	}

	title := stream.Label()
	if movie, err := r.Catalog.Movie(ctx, id); err != nil {
		r.Logger.Debug("fetching movie for history failed", "movie_id", id, "error", err)
	} else {
		title = movie.Title
		r.Store.AddToHistory(store.Entry{ID: media.IntID(movie.ID), Title: movie.Title}, r.HistoryLimit)
	}

	r.Logger.Info("starting playback", "movie_id", id, "stream_id", stream.ID, "player", r.Player.Name())
	if err := r.Player.Play(ctx, link, title); err != nil {
		return fmt.Errorf("playing movie %d: %w", id, err)
	}
	return nil
}
