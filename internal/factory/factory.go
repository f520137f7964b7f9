package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/knockout/internal/config"
	"github.com/mcoot/knockout/internal/dependencies/clock"
	"github.com/mcoot/knockout/internal/dependencies/idgen"
	"github.com/mcoot/knockout/internal/dispatch"
	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/services/auth"
	"github.com/mcoot/knockout/internal/services/knockout"
	"github.com/mcoot/knockout/internal/storage"
	"github.com/mcoot/knockout/internal/storage/memory"
	redisstorage "github.com/mcoot/knockout/internal/storage/redis"
	"github.com/mcoot/knockout/internal/web/sse"
)

// How often expired bridge tokens are dropped from the auth cache
const authCleanupInterval = time.Minute

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	IDs    idgen.Generator
	Server host.Server

	// Services
	Hub         *sse.Hub
	Presenter   host.Presenter
	AuthService *auth.Service
	Controller  *knockout.Controller
	Loop        *dispatch.Loop

	logger    *slog.Logger
	startOnce sync.Once
	started   bool
	stop      context.CancelFunc
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RelayURL is the base URL of the host-side query relay
	RelayURL string
	// RelayToken is sent to the relay with every query (optional)
	RelayToken string
	// BridgeTokenHash is the bcrypt hash of the token the relay must present
	// on callbacks. If empty, callbacks are not authenticated.
	BridgeTokenHash string
	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
	// Settings are the initial knockout settings (optional)
	// If nil, config.DefaultSettings() is used
	Settings *config.Settings
}

// ConfigFrom maps daemon configuration onto a factory Config
func ConfigFrom(c config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger:          logger,
		StorageType:     c.StorageType,
		RelayURL:        c.RelayURL,
		RelayToken:      c.RelayToken,
		BridgeTokenHash: c.BridgeTokenHash,
		Settings:        &c.Settings,
	}
	if c.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// dependencies are the parts of an App that tests replace
type dependencies struct {
	storage    storage.Storage
	server     host.Server
	clock      clock.Clock
	ids        idgen.Generator
	auth       *auth.Service
	presenters []host.Presenter // Shown alongside the SSE presenter
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	if cfg.RelayURL == "" {
		return nil, errors.New("RelayURL required")
	}

	// Create external dependencies
	clk := clock.New()
	server := host.NewClient(host.NewHTTPQuerier(cfg.RelayURL, cfg.RelayToken), logger)

	authService, err := auth.New(cfg.BridgeTokenHash, clk, cfg.AuthConfig)
	if err != nil {
		return nil, err
	}

	settings := config.DefaultSettings()
	if cfg.Settings != nil {
		settings = *cfg.Settings
	}

	return newWithDependencies(dependencies{
		storage: store,
		server:  server,
		clock:   clk,
		ids:     idgen.New(),
		auth:    authService,
	}, settings, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(deps dependencies, settings config.Settings, logger *slog.Logger) *App {
	hub := sse.NewHub(logger)

	var presenter host.Presenter = sse.NewPresenter(hub, logger)
	if len(deps.presenters) > 0 {
		presenter = append(host.Fanout{presenter}, deps.presenters...)
	}

	controller := knockout.NewController(deps.server, presenter, deps.storage, deps.clock, deps.ids, settings, logger)
	loop := dispatch.New(controller, logger)

	return &App{
		Storage:     deps.storage,
		Clock:       deps.clock,
		IDs:         deps.ids,
		Server:      deps.server,
		Hub:         hub,
		Presenter:   presenter,
		AuthService: deps.auth,
		Controller:  controller,
		Loop:        loop,
		logger:      logger,
	}
}

// Start runs the background goroutines: the SSE hub, the dispatch loop and
// auth cache cleanup. They stop when ctx is cancelled or Close is called.
func (a *App) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		ctx, a.stop = context.WithCancel(ctx)
		a.started = true

		go a.Hub.Run()
		go a.Loop.Run(ctx)
		go a.cleanAuthCache(ctx)
	})
}

func (a *App) cleanAuthCache(ctx context.Context) {
	ticker := time.NewTicker(authCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.AuthService.CleanExpired()
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the background goroutines and releases storage
func (a *App) Close() error {
	if a.started {
		a.stop()
		a.Loop.Close()
	}
	a.Hub.Close()

	if closer, ok := a.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Error("failed to close storage", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}
