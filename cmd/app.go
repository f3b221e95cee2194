package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"streambox/internal/api"
	"streambox/internal/config"
	"streambox/internal/credentials"
	"streambox/internal/httputil"
	"streambox/internal/player"
	"streambox/internal/provider"
	"streambox/internal/router"
	"streambox/internal/store"
	"streambox/internal/ui"
)

// itemBaseURL prefixes the requests carried by listing items.
const itemBaseURL = "streambox://"

// newRouter wires the per-invocation dependency graph: credentials, the
// authenticated executor, the catalog, the local store and the player.
func newRouter(cfg *config.Config, logger *slog.Logger, presenter ui.Presenter) (*router.Router, error) {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}
	fs := afero.NewOsFs()
	client := httputil.NewClient()
	base := cfg.APIBase()

	if !cfg.HasCredentials() {
		logger.Debug("no account configured, expired sessions cannot be renewed by re-login")
	}

	tokens := credentials.NewStore(fs, dataDir, logger)
	auth := api.NewAuth(base, cfg.Email, cfg.Password, client, tokens, logger)
	executor := api.NewExecutor(base, client, tokens, auth, logger)

	p := player.New(cfg.Player)
	if !p.Available() {
		logger.Warn("player not found in PATH", "player", p.Name())
	}

	return router.New(router.Deps{
		Catalog:      provider.NewStreamBox(executor, cfg.ItemsPerPage, logger),
		Store:        store.New(fs, dataDir, logger),
		Session:      auth,
		Presenter:    presenter,
		Player:       p,
		Logger:       logger,
		BaseURL:      itemBaseURL,
		HistoryLimit: cfg.HistoryLimit,
	}), nil
}
