package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"streambox/internal/httputil"
)

// maxAttempts bounds how often one logical call hits its endpoint: the
// original attempt plus a single retry after a successful recovery.
const maxAttempts = 2

// Authenticator recovers an expired session.
type Authenticator interface {
	Refresh(ctx context.Context) bool
	LoginWithConfig(ctx context.Context) LoginResult
}

// recoveryStep is one stage of the 401 cascade.
type recoveryStep int

const (
	stepRefresh recoveryStep = iota
	stepLogin
	stepExhausted
)

// Executor issues authenticated API calls.
type Executor struct {
	baseURL string
	client  *http.Client
	tokens  TokenStore
	auth    Authenticator
	logger  *slog.Logger
}

// NewExecutor creates an executor for baseURL (no trailing slash).
func NewExecutor(baseURL string, client *http.Client, tokens TokenStore, auth Authenticator, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		baseURL: baseURL,
		client:  client,
		tokens:  tokens,
		auth:    auth,
		logger:  logger,
	}
}

// Do performs method on path and decodes the JSON response into out (which
// may be nil). Transport failures return *NetworkError and non-401 error
// statuses *RemoteError, both without recovery. A 401 runs the refresh then
// re-login cascade; after a successful step the request is retried once. When
// the cascade or the retry budget runs out Do returns *AuthError.
func (e *Executor) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	requestID := uuid.NewString()
	logger := e.logger.With("method", method, "path", path, "request_id", requestID)

	step := stepRefresh
	for attempt := 1; ; attempt++ {
		status, data, err := e.send(ctx, method, path, query, body, requestID)
		if err != nil {
			logger.Warn("request failed", "attempt", attempt, "error", err)
			return &NetworkError{Method: method, Path: path, Err: err}
		}

		if status != http.StatusUnauthorized {
			if status < 200 || status > 299 {
				return &RemoteError{
					Method:  method,
					Path:    path,
					Status:  status,
					Message: httputil.ErrorMessage(data),
				}
			}
			return decode(method, path, status, data, out)
		}

		logger.Info("got 401, recovering session", "attempt", attempt)

		var recovered bool
		var reason string
		recovered, reason, step = e.recover(ctx, step, logger)
		if !recovered || attempt >= maxAttempts {
			if recovered {
				reason = "still unauthorized after retry"
			}
			logger.Warn("session could not be recovered", "reason", reason)
			return &AuthError{Message: SessionExpiredMessage, Reason: reason}
		}
	}
}

// recover runs cascade steps starting at step until one succeeds. It returns
// the step to resume from on a later 401, so a step that already ran is never
// repeated within one logical call.
func (e *Executor) recover(ctx context.Context, step recoveryStep, logger *slog.Logger) (bool, string, recoveryStep) {
	reason := "no recovery left"
	for step != stepExhausted {
		switch step {
		case stepRefresh:
			step = stepLogin
			if e.auth.Refresh(ctx) {
				return true, "", step
			}
			reason = "refresh failed"
			logger.Info("refresh failed, attempting re-login")
		case stepLogin:
			step = stepExhausted
			res := e.auth.LoginWithConfig(ctx)
			if res.OK {
				return true, "", step
			}
			reason = "re-login failed: " + res.Message
		}
	}
	return false, reason, step
}

func (e *Executor) send(ctx context.Context, method, path string, query url.Values, body any, requestID string) (int, []byte, error) {
	req, err := httputil.NewJSONRequest(ctx, method, httputil.BuildURL(e.baseURL+path, query), body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.tokens.Load().AccessToken)
	req.Header.Set("X-Request-ID", requestID)

	e.logger.Debug("api request", "method", method, "url", req.URL.String())

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := httputil.ReadBody(resp)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

func decode(method, path string, status int, data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		var syntaxErr *json.SyntaxError
		msg := "invalid response body"
		if errors.As(err, &syntaxErr) {
			msg = "response is not JSON"
		}
		return &RemoteError{Method: method, Path: path, Status: status, Message: msg}
	}
	return nil
}
