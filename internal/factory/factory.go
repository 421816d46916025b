package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mcoot/dombot/internal/command"
	"github.com/mcoot/dombot/internal/config"
	"github.com/mcoot/dombot/internal/dependencies/clock"
	"github.com/mcoot/dombot/internal/dependencies/gamequery"
	"github.com/mcoot/dombot/internal/nations"
	"github.com/mcoot/dombot/internal/services/registration"
	"github.com/mcoot/dombot/internal/services/servers"
	"github.com/mcoot/dombot/internal/storage"
	"github.com/mcoot/dombot/internal/storage/memory"
	redisstorage "github.com/mcoot/dombot/internal/storage/redis"
	sqlitestorage "github.com/mcoot/dombot/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock       clock.Clock
	Catalog     *nations.Catalog
	QueryClient gamequery.Client

	// Services
	RegistrationService *registration.Service
	ServersService      *servers.Service
	CommandAdapter      *command.Adapter
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Tracer wraps registrations in spans (optional)
	// If nil, a no-op tracer is used
	Tracer trace.Tracer
	// StorageType selects the storage backend, one of the config.Storage* values
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// QueryTimeout bounds each game server query
	// If zero, defaults to registration.DefaultQueryTimeout
	QueryTimeout time.Duration
	// RosterCacheTTL keeps live rosters for this long; zero disables the cache
	RosterCacheTTL time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	queryTimeout := cfg.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = registration.DefaultQueryTimeout
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	catalog := nations.Default()
	var query gamequery.Client = gamequery.NewDom5Client(catalog, queryTimeout)
	if cfg.RosterCacheTTL > 0 {
		query = gamequery.NewCachedClient(query, cfg.RosterCacheTTL, logger)
	}

	return newWithDependencies(store, clock.New(), catalog, query, tracer, logger, queryTimeout), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case config.StorageSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlitestorage.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	catalog *nations.Catalog,
	query gamequery.Client,
	tracer trace.Tracer,
	logger *slog.Logger,
	queryTimeout time.Duration,
) *App {
	registrationService := registration.NewService(store, catalog, query, clk, tracer, logger, queryTimeout)
	serversService := servers.NewService(store, clk, logger)
	commandAdapter := command.NewAdapter(registrationService, serversService, catalog, logger)

	return &App{
		Storage:             store,
		Clock:               clk,
		Catalog:             catalog,
		QueryClient:         query,
		RegistrationService: registrationService,
		ServersService:      serversService,
		CommandAdapter:      commandAdapter,
	}
}

// Close releases the storage backend if it holds connections
func (a *App) Close() error {
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
