package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streambox/internal/api"
	"streambox/internal/logging"
	"streambox/internal/media"
	"streambox/internal/store"
	"streambox/internal/ui"
)

// ---- fakes ----

type fakeCatalog struct {
	pages      map[string]*media.Page[media.MovieSummary]
	movies     map[int]*media.MovieDetail
	streams    []media.Stream
	links      map[string]string
	user       *media.User
	err        error
	movieErr   error
	searchArgs []string
	linkCalls  []string
}

func (f *fakeCatalog) SearchMovies(_ context.Context, query string, page int) (*media.Page[media.MovieSummary], error) {
	f.searchArgs = append(f.searchArgs, fmt.Sprintf("%s#%d", query, page))
	if f.err != nil {
		return nil, f.err
	}
	return f.pages["search:"+query], nil
}

func (f *fakeCatalog) MoviesByCategory(_ context.Context, category string, page int) (*media.Page[media.MovieSummary], error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages["category:"+category], nil
}

func (f *fakeCatalog) Movie(_ context.Context, id int) (*media.MovieDetail, error) {
	if f.movieErr != nil {
		return nil, f.movieErr
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, &api.RemoteError{Status: 404, Message: "Movie not found"}
	}
	return m, nil
}

func (f *fakeCatalog) MovieStreams(context.Context, int) ([]media.Stream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.streams, nil
}

func (f *fakeCatalog) StreamPlaybackLink(_ context.Context, streamID string) (string, error) {
	f.linkCalls = append(f.linkCalls, streamID)
	return f.links[streamID], nil
}

func (f *fakeCatalog) Me(context.Context) (*media.User, error) {
	if f.user == nil {
		return nil, errors.New("no user")
	}
	return f.user, nil
}

type fakeSession struct {
	loggedIn bool
	result   api.LoginResult
	logouts  int
}

func (f *fakeSession) IsLoggedIn() bool { return f.loggedIn }

func (f *fakeSession) LoginWithConfig(context.Context) api.LoginResult { return f.result }

func (f *fakeSession) Logout() error {
	f.logouts++
	f.loggedIn = false
	return nil
}

type notification struct {
	level   ui.Level
	message string
}

type recorder struct {
	category      string
	items         []ui.Item
	ended         []bool
	notifications []notification
	refreshes     int

	selectIndex int
	selectErr   error
	selectCalls [][]string
	input       string
	inputErr    error
}

func (r *recorder) SetCategory(title string)    { r.category = title }
func (r *recorder) AddItem(item ui.Item)        { r.items = append(r.items, item) }
func (r *recorder) EndListing(succeeded bool)   { r.ended = append(r.ended, succeeded) }
func (r *recorder) Notify(l ui.Level, m string) { r.notifications = append(r.notifications, notification{l, m}) }
func (r *recorder) Refresh()                    { r.refreshes++ }

func (r *recorder) Select(_ string, labels []string) (int, error) {
	r.selectCalls = append(r.selectCalls, labels)
	return r.selectIndex, r.selectErr
}

func (r *recorder) Input(string) (string, error) { return r.input, r.inputErr }

func (r *recorder) labels() []string {
	out := make([]string, len(r.items))
	for i, it := range r.items {
		out[i] = it.Label
	}
	return out
}

type fakePlayer struct {
	played []string
	titles []string
}

func (f *fakePlayer) Play(_ context.Context, url, title string) error {
	f.played = append(f.played, url)
	f.titles = append(f.titles, title)
	return nil
}
func (f *fakePlayer) Name() string    { return "fake" }
func (f *fakePlayer) Available() bool { return true }

type fixture struct {
	router  *Router
	catalog *fakeCatalog
	session *fakeSession
	ui      *recorder
	store   *store.Store
	player  *fakePlayer
}

func newFixture() *fixture {
	f := &fixture{
		catalog: &fakeCatalog{pages: map[string]*media.Page[media.MovieSummary]{}, movies: map[int]*media.MovieDetail{}, links: map[string]string{}},
		session: &fakeSession{loggedIn: true},
		ui:      &recorder{},
		store:   store.New(afero.NewMemMapFs(), "/data", logging.Discard()),
		player:  &fakePlayer{},
	}
	f.router = New(Deps{
		Catalog:   f.catalog,
		Store:     f.store,
		Session:   f.session,
		Presenter: f.ui,
		Player:    f.player,
		Logger:    logging.Discard(),
		BaseURL:   "streambox://",
	})
	return f
}

func (f *fixture) dispatch(t *testing.T, raw string) error {
	t.Helper()
	req, err := ParseRequest(raw)
	require.NoError(t, err)
	return f.router.Dispatch(context.Background(), req)
}

func pageOf(n, total, page, pageCount int) *media.Page[media.MovieSummary] {
	items := make([]media.MovieSummary, n)
	for i := range items {
		items[i] = media.MovieSummary{ID: i + 1, Title: fmt.Sprintf("Movie %d", i+1)}
	}
	return &media.Page[media.MovieSummary]{Items: items, Total: total, Page: page, PageCount: pageCount}
}

// ---- tests ----

func TestHub(t *testing.T) {
	t.Run("logged in", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.dispatch(t, ""))
		assert.Equal(t, []string{"Movies", "Series", "Search", "Log out"}, f.ui.labels())
		assert.Equal(t, "streambox://?action=movies_menu", f.ui.items[0].URL)
		assert.Equal(t, []bool{true}, f.ui.ended)
	})

	t.Run("logged out", func(t *testing.T) {
		f := newFixture()
		f.session.loggedIn = false
		require.NoError(t, f.dispatch(t, "?action=hub"))
		assert.Equal(t, []string{"Log in"}, f.ui.labels())
	})
}

func TestMoviesMenu(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.dispatch(t, "?action=movies_menu"))
	assert.Equal(t, []string{"All movies", "Favorites", "History"}, f.ui.labels())
}

func TestMoviesPaging(t *testing.T) {
	f := newFixture()
	f.catalog.pages["search:"] = pageOf(20, 45, 1, 3)

	require.NoError(t, f.dispatch(t, "?action=movies"))

	require.Len(t, f.ui.items, 21)
	assert.Equal(t, "Movie 1", f.ui.items[0].Label)
	assert.Equal(t, "streambox://?action=movie_detail&movie_id=1", f.ui.items[0].URL)

	next := f.ui.items[20]
	assert.Equal(t, "Next page (2/3) >>", next.Label)
	req, err := ParseRequest(next.URL)
	require.NoError(t, err)
	assert.Equal(t, ActionMovies, req.Action())
	assert.Equal(t, 2, req.Page())
	assert.Equal(t, []bool{true}, f.ui.ended)
	assert.Equal(t, []string{"#1"}, f.catalog.searchArgs)
}

func TestMoviesLastPageHasNoNextItem(t *testing.T) {
	f := newFixture()
	f.catalog.pages["search:"] = pageOf(5, 45, 3, 3)

	require.NoError(t, f.dispatch(t, "?action=movies&page=3"))
	assert.Len(t, f.ui.items, 5)
	assert.Equal(t, []string{"#3"}, f.catalog.searchArgs)
}

func TestMoviesByCategory(t *testing.T) {
	f := newFixture()
	f.catalog.pages["category:comedy"] = pageOf(2, 4, 1, 2)

	require.NoError(t, f.dispatch(t, "?action=movies&category=comedy"))

	assert.Equal(t, "Movies: comedy", f.ui.category)
	req, err := ParseRequest(f.ui.items[2].URL)
	require.NoError(t, err)
	assert.Equal(t, "comedy", req.Get(ParamCategory))
	assert.Equal(t, 2, req.Page())
}

func TestFavoriteContextMenu(t *testing.T) {
	f := newFixture()
	f.store.ToggleFavorite(store.Entry{ID: media.IntID(2), Title: "Movie 2"})
	f.catalog.pages["search:"] = pageOf(2, 2, 1, 1)

	require.NoError(t, f.dispatch(t, "?action=movies"))

	assert.Equal(t, labelAddFavorite, f.ui.items[0].ContextMenu[0].Label)
	assert.Equal(t, labelRemoveFavorite, f.ui.items[1].ContextMenu[0].Label)
	assert.Equal(t, "streambox://?action=toggle_favorite&movie_id=2", f.ui.items[1].ContextMenu[0].URL)
}

func TestSearchUsesQuery(t *testing.T) {
	f := newFixture()
	f.ui.input = "matrix"
	f.catalog.pages["search:matrix"] = pageOf(3, 30, 1, 10)

	require.NoError(t, f.dispatch(t, "?action=search"))

	assert.Equal(t, []string{"matrix#1"}, f.catalog.searchArgs)
	assert.Equal(t, "Search: matrix", f.ui.category)
	next, err := ParseRequest(f.ui.items[3].URL)
	require.NoError(t, err)
	assert.Equal(t, ActionSearchResults, next.Action())
	assert.Equal(t, "matrix", next.Get(ParamQuery))
	assert.Equal(t, 2, next.Page())
}

func TestSearchCancelled(t *testing.T) {
	for name, tc := range map[string]struct {
		input string
		err   error
	}{
		"cancelled": {err: ui.ErrCancelled},
		"empty":     {input: ""},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.ui.input, f.ui.inputErr = tc.input, tc.err

			require.NoError(t, f.dispatch(t, "?action=search"))
			assert.Equal(t, []bool{false}, f.ui.ended)
			assert.Empty(t, f.catalog.searchArgs)
		})
	}
}

func TestSearchResultsNeedsQuery(t *testing.T) {
	f := newFixture()
	err := f.dispatch(t, "?action=search_results")
	assert.ErrorIs(t, err, ErrMissingParam)
	assert.Equal(t, []bool{false}, f.ui.ended)
	require.Len(t, f.ui.notifications, 1)
	assert.Equal(t, ui.LevelError, f.ui.notifications[0].level)
}

func TestMovieDetailSingleStream(t *testing.T) {
	f := newFixture()
	f.catalog.streams = []media.Stream{{ID: "11", VideoQuality: "1080p"}}
	f.catalog.links["11"] = "https://cdn.example.com/11.m3u8"
	f.catalog.movies[5] = &media.MovieDetail{ID: 5, Title: "Pelíšky"}

	require.NoError(t, f.dispatch(t, "?action=movie_detail&movie_id=5"))

	assert.Empty(t, f.ui.selectCalls, "single stream is chosen without a dialog")
	assert.Equal(t, []string{"https://cdn.example.com/11.m3u8"}, f.player.played)
	assert.Equal(t, []string{"Pelíšky"}, f.player.titles)

	history := f.store.History()
	require.Len(t, history, 1)
	assert.Equal(t, media.ID("5"), history[0].ID)
	assert.Equal(t, "Pelíšky", history[0].Title)
}

func TestMovieDetailHonoursHistoryLimit(t *testing.T) {
	f := newFixture()
	f.router.HistoryLimit = 2
	f.catalog.streams = []media.Stream{{ID: "11", VideoQuality: "1080p"}}
	f.catalog.links["11"] = "https://cdn.example.com/11.m3u8"
	for id := 1; id <= 3; id++ {
		f.catalog.movies[id] = &media.MovieDetail{ID: id, Title: fmt.Sprintf("Movie %d", id)}
		require.NoError(t, f.dispatch(t, fmt.Sprintf("?action=movie_detail&movie_id=%d", id)))
	}

	history := f.store.History()
	require.Len(t, history, 2)
	assert.Equal(t, media.ID("3"), history[0].ID)
	assert.Equal(t, media.ID("2"), history[1].ID)
}

func TestMovieDetailSelectsStream(t *testing.T) {
	f := newFixture()
	f.catalog.streams = []media.Stream{
		{ID: "11", VideoQuality: "720p"},
		{ID: "12", VideoQuality: "1080p", AudioCodec: "AAC", AudioChannels: 2},
	}
	f.catalog.links["12"] = "https://cdn.example.com/12.m3u8"
	f.catalog.movies[5] = &media.MovieDetail{ID: 5, Title: "Pelíšky"}
	f.ui.selectIndex = 1

	require.NoError(t, f.dispatch(t, "?action=movie_detail&movie_id=5"))

	require.Len(t, f.ui.selectCalls, 1)
	assert.Equal(t, []string{"720p", "1080p | AAC 2ch"}, f.ui.selectCalls[0])
	assert.Equal(t, []string{"12"}, f.catalog.linkCalls)
	assert.Len(t, f.player.played, 1)
}

func TestMovieDetailSelectCancelled(t *testing.T) {
	for name, sel := range map[string]struct {
		idx int
		err error
	}{
		"cancelled": {-1, ui.ErrCancelled},
		"negative":  {-1, nil},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.catalog.streams = []media.Stream{{ID: "11"}, {ID: "12"}}
			f.ui.selectIndex, f.ui.selectErr = sel.idx, sel.err

			require.NoError(t, f.dispatch(t, "?action=movie_detail&movie_id=5"))
			assert.Empty(t, f.catalog.linkCalls)
			assert.Empty(t, f.player.played)
		})
	}
}

func TestMovieDetailNoStreams(t *testing.T) {
	f := newFixture()
	f.catalog.streams = []media.Stream{}

	require.NoError(t, f.dispatch(t, "?action=movie_detail&movie_id=5"))

	assert.Equal(t, []notification{{ui.LevelError, "No stream found"}}, f.ui.notifications)
	assert.Empty(t, f.catalog.linkCalls, "no playback link is requested")
	assert.Empty(t, f.player.played)
}

func TestMovieDetailLinkUnavailable(t *testing.T) {
	f := newFixture()
	f.catalog.streams = []media.Stream{{ID: "11"}}

	err := f.dispatch(t, "?action=movie_detail&movie_id=5")

	require.NoError(t, err)
	assert.Equal(t, []notification{{ui.LevelError, "Stream not available"}}, f.ui.notifications)
	assert.Empty(t, f.player.played)
	assert.Empty(t, f.store.History())
}

func TestMovieDetailHistoryFailureDoesNotBlockPlayback(t *testing.T) {
	f := newFixture()
	f.catalog.streams = []media.Stream{{ID: "11", VideoQuality: "1080p"}}
	f.catalog.links["11"] = "https://cdn.example.com/11.m3u8"
	f.catalog.movieErr = &api.NetworkError{Method: "GET", Path: "/movie/5", Err: errors.New("timeout")}

	require.NoError(t, f.dispatch(t, "?action=movie_detail&movie_id=5"))

	assert.Len(t, f.player.played, 1)
	assert.Equal(t, []string{"1080p"}, f.player.titles)
	assert.Empty(t, f.store.History())
	assert.Empty(t, f.ui.notifications)
}

func TestMovieDetailBadID(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.dispatch(t, "?action=movie_detail"), ErrMissingParam)
	assert.ErrorIs(t, f.dispatch(t, "?action=movie_detail&movie_id=abc"), ErrInvalidParam)
	assert.Empty(t, f.ui.ended, "playback has no listing to end")
}

func TestAuthErrorSeam(t *testing.T) {
	authErr := fmt.Errorf("searching movies: %w", &api.AuthError{Message: api.SessionExpiredMessage, Reason: "re-login failed"})

	t.Run("listing", func(t *testing.T) {
		f := newFixture()
		f.catalog.err = authErr

		require.NoError(t, f.dispatch(t, "?action=movies"))
		assert.Equal(t, []notification{{ui.LevelError, api.SessionExpiredMessage}}, f.ui.notifications)
		assert.Equal(t, []bool{false}, f.ui.ended)
	})

	t.Run("playback", func(t *testing.T) {
		f := newFixture()
		f.catalog.err = authErr

		require.NoError(t, f.dispatch(t, "?action=movie_detail&movie_id=5"))
		assert.Len(t, f.ui.notifications, 1)
		assert.Empty(t, f.ui.ended)
	})
}

func TestOtherErrorsAreReturned(t *testing.T) {
	f := newFixture()
	f.catalog.err = &api.RemoteError{Method: "POST", Path: "/movie/search", Status: 500, Message: "Internal error"}

	err := f.dispatch(t, "?action=movies")

	var remoteErr *api.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Contains(t, err.Error(), "movies")
	assert.Equal(t, []notification{{ui.LevelError, "Internal error"}}, f.ui.notifications)
	assert.Equal(t, []bool{false}, f.ui.ended)
}

func TestUnknownAction(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.dispatch(t, "?action=play"))
	assert.Empty(t, f.ui.items)
	assert.Empty(t, f.ui.ended)
	assert.Empty(t, f.ui.notifications)
}

func TestEveryActionHasHandler(t *testing.T) {
	f := newFixture()
	all := []Action{
		ActionHub, ActionMoviesMenu, ActionSeriesMenu, ActionLogin, ActionLogout,
		ActionCategories, ActionMovies, ActionMovieDetail, ActionSearch,
		ActionSearchResults, ActionFavorites, ActionToggleFavorite, ActionHistory,
		ActionClearHistory, ActionRecommendations, ActionFilter, ActionFilterSelect,
	}
	assert.Len(t, f.router.handlers, len(all))
	for _, action := range all {
		assert.Contains(t, f.router.handlers, action)
	}
}

func TestPlaceholders(t *testing.T) {
	for _, action := range []Action{ActionSeriesMenu, ActionCategories, ActionRecommendations, ActionFilter} {
		t.Run(string(action), func(t *testing.T) {
			f := newFixture()
			require.NoError(t, f.router.Dispatch(context.Background(), NewRequest(action)))
			require.Len(t, f.ui.notifications, 1)
			assert.Contains(t, f.ui.notifications[0].message, "not available yet")
			assert.Equal(t, []bool{false}, f.ui.ended)
		})
	}

	f := newFixture()
	require.NoError(t, f.router.Dispatch(context.Background(), NewRequest(ActionFilterSelect)))
	assert.Empty(t, f.ui.notifications)
	assert.Equal(t, []bool{false}, f.ui.ended)
}

func TestLogin(t *testing.T) {
	t.Run("greets user", func(t *testing.T) {
		f := newFixture()
		f.session.result = api.LoginResult{OK: true, Message: "Login successful"}
		f.catalog.user = &media.User{FirstName: "Jana", LastName: "Nováková"}

		require.NoError(t, f.dispatch(t, "?action=login"))
		assert.Equal(t, []notification{{ui.LevelInfo, "Logged in as Jana Nováková"}}, f.ui.notifications)
		assert.Equal(t, 1, f.ui.refreshes)
	})

	t.Run("greeting is optional", func(t *testing.T) {
		f := newFixture()
		f.session.result = api.LoginResult{OK: true, Message: "Login successful"}

		require.NoError(t, f.dispatch(t, "?action=login"))
		assert.Equal(t, []notification{{ui.LevelInfo, "Login successful"}}, f.ui.notifications)
	})

	t.Run("failure", func(t *testing.T) {
		f := newFixture()
		f.session.result = api.LoginResult{Message: "Invalid credentials"}

		require.NoError(t, f.dispatch(t, "?action=login"))
		assert.Equal(t, []notification{{ui.LevelError, "Invalid credentials"}}, f.ui.notifications)
		assert.Equal(t, 1, f.ui.refreshes)
	})
}

func TestLogout(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.dispatch(t, "?action=logout"))
	assert.Equal(t, 1, f.session.logouts)
	assert.Equal(t, 1, f.ui.refreshes)
}

func TestToggleFavoriteAction(t *testing.T) {
	f := newFixture()
	f.catalog.movies[7] = &media.MovieDetail{ID: 7, Title: "Seven"}

	require.NoError(t, f.dispatch(t, "?action=toggle_favorite&movie_id=7"))
	require.NoError(t, f.dispatch(t, "?action=toggle_favorite&movie_id=007"))

	assert.Equal(t, "Added to favorites", f.ui.notifications[0].message)
	assert.Equal(t, "Removed from favorites", f.ui.notifications[1].message)
	assert.Empty(t, f.store.Favorites())
	assert.Equal(t, 2, f.ui.refreshes)
}

func TestFavoritesListing(t *testing.T) {
	f := newFixture()
	f.store.ToggleFavorite(store.Entry{ID: media.IntID(1), Title: "A"})
	f.store.ToggleFavorite(store.Entry{ID: media.IntID(2), Title: "B"})

	require.NoError(t, f.dispatch(t, "?action=favorites"))
	assert.Equal(t, []string{"B", "A"}, f.ui.labels())
	assert.Equal(t, labelRemoveFavorite, f.ui.items[0].ContextMenu[0].Label)
}

func TestHistoryListing(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.dispatch(t, "?action=history"))
		assert.Empty(t, f.ui.items)
		assert.Equal(t, []bool{true}, f.ui.ended)
	})

	t.Run("with entries", func(t *testing.T) {
		f := newFixture()
		f.store.AddToHistory(store.Entry{ID: media.IntID(1), Title: "A"}, 0)

		require.NoError(t, f.dispatch(t, "?action=history"))
		assert.Equal(t, []string{"A", labelClearHistory}, f.ui.labels())
		assert.Equal(t, "streambox://?action=clear_history", f.ui.items[1].URL)
		assert.False(t, f.ui.items[1].Folder)
	})
}

func TestClearHistoryAction(t *testing.T) {
	f := newFixture()
	f.store.AddToHistory(store.Entry{ID: media.IntID(1), Title: "A"}, 0)

	require.NoError(t, f.dispatch(t, "?action=clear_history"))
	assert.Empty(t, f.store.History())
	assert.Equal(t, "History cleared", f.ui.notifications[0].message)
}
