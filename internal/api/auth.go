// Package api talks to the StreamBox REST API: it owns the login and refresh
// primitives and the executor that attaches bearer tokens and recovers from
// expired sessions.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"streambox/internal/credentials"
	"streambox/internal/httputil"
)

// TokenStore is the persistence the auth layer needs.
type TokenStore interface {
	Load() credentials.Pair
	Save(access, refresh string) error
	Clear() error
}

// LoginResult reports the outcome of a login attempt without failing.
type LoginResult struct {
	OK      bool
	Message string
}

const (
	loginSucceededMessage  = "Login successful"
	missingSettingsMessage = "Fill in email and password in settings"
)

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Auth implements login, refresh and logout against the API.
type Auth struct {
	baseURL  string
	email    string
	password string
	client   *http.Client
	tokens   TokenStore
	logger   *slog.Logger
}

// NewAuth creates the auth primitives. email and password are the configured
// account used for LoginWithConfig and for re-login during recovery.
func NewAuth(baseURL, email, password string, client *http.Client, tokens TokenStore, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{
		baseURL:  baseURL,
		email:    email,
		password: password,
		client:   client,
		tokens:   tokens,
		logger:   logger,
	}
}

// LoginWithConfig logs in with the configured account.
func (a *Auth) LoginWithConfig(ctx context.Context) LoginResult {
	return a.Login(ctx, a.email, a.password)
}

// Login exchanges email and password for a new token pair and persists it.
func (a *Auth) Login(ctx context.Context, email, password string) LoginResult {
	if email == "" || password == "" {
		return LoginResult{Message: missingSettingsMessage}
	}

	body := map[string]string{"email": email, "password": password}
	tokens, err := a.postTokens(ctx, "/auth/login", "", body)
	if err != nil {
		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) {
			a.logger.Warn("login rejected", "status", remoteErr.Status, "message", remoteErr.Message)
			if remoteErr.Message != "" {
				return LoginResult{Message: remoteErr.Message}
			}
			return LoginResult{Message: fmt.Sprintf("Login failed (HTTP %d)", remoteErr.Status)}
		}
		a.logger.Warn("login request failed", "error", err)
		return LoginResult{Message: "Login failed: server unreachable"}
	}

	if err := a.tokens.Save(tokens.AccessToken, tokens.RefreshToken); err != nil {
		a.logger.Error("persisting tokens after login failed", "error", err)
	}
	a.logger.Info("login successful")
	return LoginResult{OK: true, Message: loginSucceededMessage}
}

// Refresh obtains a new token pair with the stored refresh token. Any failure
// clears the stored credentials so the next step starts from a clean
// logged-out state. It returns false without a request when no refresh token
// is stored.
func (a *Auth) Refresh(ctx context.Context) bool {
	refresh := a.tokens.Load().RefreshToken
	if refresh == "" {
		a.logger.Debug("no refresh token stored")
		return false
	}

	tokens, err := a.postTokens(ctx, "/auth/refresh", refresh, nil)
	if err == nil {
		if err := a.tokens.Save(tokens.AccessToken, tokens.RefreshToken); err != nil {
			a.logger.Error("persisting refreshed tokens failed", "error", err)
		}
		a.logger.Info("token refresh successful")
		return true
	}

	a.logger.Warn("token refresh failed", "error", err)
	if err := a.tokens.Clear(); err != nil {
		a.logger.Error("clearing tokens after failed refresh", "error", err)
	}
	return false
}

// Logout forgets the stored tokens.
func (a *Auth) Logout() error {
	return a.tokens.Clear()
}

// IsLoggedIn reports whether an access token is stored.
func (a *Auth) IsLoggedIn() bool {
	return a.tokens.Load().AccessToken != ""
}

// postTokens POSTs to a token endpoint and decodes the returned pair. A
// non-2xx status or an incomplete pair comes back as *RemoteError; anything
// else is a transport failure.
func (a *Auth) postTokens(ctx context.Context, path, bearer string, body any) (tokenResponse, error) {
	var out tokenResponse

	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, a.baseURL+path, body)
	if err != nil {
		return out, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	data, err := httputil.ReadBody(resp)
	if err != nil {
		return out, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &RemoteError{
			Method:  http.MethodPost,
			Path:    path,
			Status:  resp.StatusCode,
			Message: httputil.ErrorMessage(data),
		}
	}

	if err := json.Unmarshal(data, &out); err != nil || out.AccessToken == "" || out.RefreshToken == "" {
		return out, &RemoteError{
			Method:  http.MethodPost,
			Path:    path,
			Status:  resp.StatusCode,
			Message: "incomplete token response",
		}
	}
	return out, nil
}
