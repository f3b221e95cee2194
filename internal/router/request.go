package router

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"streambox/internal/httputil"
)

// Action names one navigation handler.
type Action string

const (
	ActionHub             Action = "hub"
	ActionMoviesMenu      Action = "movies_menu"
	ActionSeriesMenu      Action = "series_menu"
	ActionLogin           Action = "login"
	ActionLogout          Action = "logout"
	ActionCategories      Action = "categories"
	ActionMovies          Action = "movies"
	ActionMovieDetail     Action = "movie_detail"
	ActionSearch          Action = "search"
	ActionSearchResults   Action = "search_results"
	ActionFavorites       Action = "favorites"
	ActionToggleFavorite  Action = "toggle_favorite"
	ActionHistory         Action = "history"
	ActionClearHistory    Action = "clear_history"
	ActionRecommendations Action = "recommendations"
	ActionFilter          Action = "filter"
	ActionFilterSelect    Action = "filter_select"
)

// Parameter keys.
const (
	ParamAction   = "action"
	ParamPage     = "page"
	ParamQuery    = "query"
	ParamCategory = "category"
	ParamMovieID  = "movie_id"
)

// Request is one parsed navigation request. It is never modified after
// parsing; With returns a copy.
type Request struct {
	action Action
	params map[string]string
}

// ParseRequest parses a raw request such as "?action=movies&page=2". A
// leading "scheme://host/path" prefix is ignored. Repeated keys keep their
// first value. A missing action means ActionHub.
func ParseRequest(raw string) (Request, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	} else if strings.Contains(raw, "://") {
		raw = ""
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return Request{}, fmt.Errorf("parsing request %q: %w", raw, err)
	}

	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	action := Action(params[ParamAction])
	delete(params, ParamAction)
	if action == "" {
		action = ActionHub
	}
	return Request{action: action, params: params}, nil
}

// NewRequest builds a request from an action and key/value pairs.
func NewRequest(action Action, kv ...string) Request {
	return Request{action: action}.With(kv...)
}

func (r Request) Action() Action { return r.action }

// Get returns a parameter, or "" when absent.
func (r Request) Get(key string) string { return r.params[key] }

// Page returns the 1-based page parameter. Missing or invalid values are 1.
func (r Request) Page() int {
	n, err := strconv.Atoi(r.params[ParamPage])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Int returns a required numeric parameter.
func (r Request) Int(key string) (int, error) {
	v, ok := r.params[key]
	if !ok || v == "" {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	if err := httputil.ValidateNumericID(v); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, key, v)
	}
	return n, nil
}

// With returns a copy of r with the given key/value pairs set. Empty values
// remove the key.
func (r Request) With(kv ...string) Request {
	params := make(map[string]string, len(r.params)+len(kv)/2)
	for k, v := range r.params {
		params[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			delete(params, kv[i])
			continue
		}
		params[kv[i]] = kv[i+1]
	}
	return Request{action: r.action, params: params}
}

// URL encodes the request onto base, e.g. "streambox://?action=movies&page=2".
func (r Request) URL(base string) string {
	values := url.Values{ParamAction: {string(r.action)}}
	for k, v := range r.params {
		values.Set(k, v)
	}
	return base + "?" + values.Encode()
}

func (r Request) String() string { return r.URL("") }
