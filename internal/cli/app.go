package cli

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cetrics/nexdawn-storefront/internal/api"
	"github.com/cetrics/nexdawn-storefront/internal/cart"
	"github.com/cetrics/nexdawn-storefront/internal/notifications"
	"github.com/cetrics/nexdawn-storefront/internal/session"
	"github.com/cetrics/nexdawn-storefront/internal/wishlist"
	"github.com/cetrics/nexdawn-storefront/pkg/config"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/logger"
	"github.com/cetrics/nexdawn-storefront/pkg/storage"
	"github.com/cetrics/nexdawn-storefront/pkg/storage/filekv"
	"github.com/cetrics/nexdawn-storefront/pkg/storage/gormkv"
	"github.com/cetrics/nexdawn-storefront/pkg/storage/rediskv"
)

// app bundles the wired client stack for command handlers.
type app struct {
	cfg      *config.Config
	logg     *logger.Logger
	store    storage.KV
	guard    *session.Guard
	client   *api.Client
	cart     *cart.Store
	wishlist *wishlist.Store
	ledger   *notifications.Ledger
	feed     *notifications.Feed
}

func newApp(ctx context.Context) (*app, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logg := logger.New(logger.Options{
		ServiceName: "nexdawn-storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	guard, err := session.NewGuard(ctx, session.GuardParams{
		Store: store,
		OnExpired: func() {
			logg.Warn(ctx, "session expired, please log in again")
		},
	})
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.ClientParams{
		BaseURL:    cfg.API.BaseURL,
		Guard:      guard,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Logger:     logg,
	})
	if err != nil {
		return nil, err
	}

	cartStore, err := cart.NewStore(ctx, cart.StoreParams{Storage: store})
	if err != nil {
		return nil, err
	}
	wishlistStore, err := wishlist.NewStore(ctx, wishlist.StoreParams{Storage: store})
	if err != nil {
		return nil, err
	}
	ledger, err := notifications.NewLedger(ctx, notifications.LedgerParams{Storage: store})
	if err != nil {
		return nil, err
	}
	feedParams := notifications.FeedParams{
		Ledger:   ledger,
		Budgets:  client,
		Products: client,
	}
	// The all-orders endpoint is admin-gated; only admins get pending-order
	// alerts.
	if guard.IsAdmin() {
		feedParams.Orders = client
	}
	feed, err := notifications.NewFeed(feedParams)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logg:     logg,
		store:    store,
		guard:    guard,
		client:   client,
		cart:     cartStore,
		wishlist: wishlistStore,
		ledger:   ledger,
		feed:     feed,
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		return storage.NewMemory(), nil
	case config.StorageBackendFile:
		return filekv.New(cfg.Storage.StateDir)
	case config.StorageBackendRedis:
		return rediskv.New(ctx, cfg.Redis, cfg.App.Env)
	case config.StorageBackendSQLite:
		path, err := expandHome(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create state directory")
		}
		return gormkv.New(path)
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown storage backend "+cfg.Storage.Backend)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve home directory")
	}
	return filepath.Join(home, path[2:]), nil
}

// requireLogin bails out early for commands that need a session.
func (a *app) requireLogin() error {
	if !a.guard.IsAuthenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in, run: storefront login")
	}
	return nil
}
