package fx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/sp3dr4/bizsearch/config"
	"github.com/sp3dr4/bizsearch/internal/application"
	"github.com/sp3dr4/bizsearch/internal/domain"
	cacheImpl "github.com/sp3dr4/bizsearch/internal/infrastructure/cache"
	"github.com/sp3dr4/bizsearch/internal/infrastructure/googlemaps"
	memoryRepo "github.com/sp3dr4/bizsearch/internal/infrastructure/memory"
	postgresRepo "github.com/sp3dr4/bizsearch/internal/infrastructure/postgres"
	redisCache "github.com/sp3dr4/bizsearch/internal/infrastructure/redis"
	sqliteRepo "github.com/sp3dr4/bizsearch/internal/infrastructure/sqlite"
	"github.com/sp3dr4/bizsearch/internal/pkg/auth"
	"github.com/sp3dr4/bizsearch/internal/pkg/logging"
	"github.com/sp3dr4/bizsearch/internal/pkg/metrics"
)

const defaultJWTSecret = "change-me"

// ProvideLogger creates and configures the application logger
func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)
	return logger
}

// ProvideRepository creates the appropriate repository based on configuration
func ProvideRepository(cfg *config.Config, logger *slog.Logger) (domain.Repository, error) {
	switch cfg.Database.Type {
	case "", "memory":
		logger.Info("Using in-memory repository")
		return memoryRepo.NewRepository(), nil

	case "sqlite":
		dbURL := cfg.GetDatabaseURL()
		logger.Info("Using SQLite repository", "path", dbURL)

		// Create data directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(dbURL), 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}

		db, err := sqlx.Connect("sqlite3", dbURL+"?_foreign_keys=on&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}

		if err := runMigrations(db, "sqlite3", "sqlite"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return sqliteRepo.NewRepository(db), nil

	case "postgres":
		logger.Info("Using PostgreSQL repository")

		db, err := sqlx.Connect("postgres", cfg.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}

		if err := runMigrations(db, "postgres", "postgres"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return postgresRepo.NewRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

// runMigrations runs database migrations
func runMigrations(db *sqlx.DB, driverName, migrationDir string) error {
	var driver database.Driver
	var err error

	switch driverName {
	case "sqlite3":
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	case "postgres":
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	default:
		return fmt.Errorf("unsupported driver: %s", driverName)
	}

	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := fmt.Sprintf("file://migrations/%s", migrationDir)
	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		driverName,
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Migrations completed successfully")
	return nil
}

// ProvideRedisClient returns nil unless the cache is backed by Redis
func ProvideRedisClient(cfg *config.Config) *goredis.Client {
	if !cfg.Cache.Enabled || cfg.Cache.Backend != "redis" {
		return nil
	}
	return redisCache.NewClient(cfg.Redis)
}

// ProvideCache selects the search cache backend
func ProvideCache(cfg *config.Config, client *goredis.Client, logger *slog.Logger) (domain.SearchCache, error) {
	if !cfg.Cache.Enabled {
		logger.Info("Search cache disabled")
		return cacheImpl.NewNoOpCache(), nil
	}

	ttl := config.Duration(cfg.Cache.TTL, memoryRepo.DefaultTTL)

	switch cfg.Cache.Backend {
	case "", "memory":
		logger.Info("Using in-memory search cache", "ttl", ttl.String(), "capacity", cfg.Cache.Capacity)
		return memoryRepo.NewSearchCache(ttl, cfg.Cache.Capacity), nil

	case "redis":
		if client == nil {
			return nil, errors.New("redis cache selected but no redis client configured")
		}
		logger.Info("Using Redis search cache", "addr", cfg.Redis.Addr, "ttl", ttl.String())
		return redisCache.NewSearchCache(client, ttl, cfg.Cache.KeyPrefix, logger), nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Cache.Backend)
	}
}

// ProvidePlacesClient creates the Google Maps client backing geocoding,
// place search and photo URLs
func ProvidePlacesClient(cfg *config.Config, logger *slog.Logger) *googlemaps.Client {
	if cfg.Places.APIKey == "" {
		logger.Warn("places.api_key is empty; upstream lookups will be rejected")
	}
	return googlemaps.NewClient(googlemaps.Options{
		APIKey:        cfg.Places.APIKey,
		BaseURL:       cfg.Places.BaseURL,
		PhotoMaxWidth: cfg.Places.PhotoMaxWidth,
		Timeout:       config.Duration(cfg.Places.Timeout, 10*time.Second),
	})
}

func ProvideGeocoder(client *googlemaps.Client) domain.Geocoder { return client }

func ProvidePlaces(client *googlemaps.Client) domain.PlacesClient { return client }

func ProvidePhotoURLBuilder(client *googlemaps.Client) domain.PhotoURLBuilder { return client }

// ProvideMetricsRegistry returns a Prometheus registry, or a no-op one when metrics are disabled
func ProvideMetricsRegistry(cfg *config.Config) (metrics.Registry, error) {
	if !cfg.Metrics.Enabled {
		return metrics.NewNoOpRegistry(), nil
	}
	return metrics.NewPrometheusRegistry(cfg.Metrics)
}

func ProvideTokenManager(cfg *config.Config, logger *slog.Logger) (*auth.TokenManager, error) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		return nil, errors.New("auth.jwt_secret must be set")
	}
	if secret == defaultJWTSecret {
		logger.Warn("Using the default JWT secret; set auth.jwt_secret in production")
	}
	return auth.NewTokenManager(secret, config.Duration(cfg.Auth.TokenTTL, 24*time.Hour)), nil
}

func ProvideSearchOptions(cfg *config.Config) application.SearchOptions {
	return application.SearchOptions{
		RadiusMeters:      cfg.Places.RadiusMeters,
		PlaceType:         cfg.Places.PlaceType,
		DefaultLimit:      cfg.Search.DefaultLimit,
		MaxLimit:          cfg.Search.MaxLimit,
		DetailConcurrency: cfg.Places.DetailConcurrency,
		HistoryTimeout:    config.Duration(cfg.Search.HistoryTimeout, application.DefaultHistoryTimeout),
	}
}

func ProvideHistoryService(repo domain.Repository) *application.HistoryService {
	return application.NewHistoryService(repo)
}

func ProvideAuthService(cfg *config.Config, repo domain.Repository, tokens *auth.TokenManager, logger *slog.Logger) *application.AuthService {
	return application.NewAuthService(repo, tokens, logger).WithHashCost(cfg.Auth.BcryptCost)
}

// SearchServiceParams holds the collaborators of the search orchestrator
type SearchServiceParams struct {
	fx.In

	Cache    domain.SearchCache
	Geocoder domain.Geocoder
	Places   domain.PlacesClient
	Photos   domain.PhotoURLBuilder
	History  *application.HistoryService
	Metrics  metrics.Registry
	Logger   *slog.Logger
	Options  application.SearchOptions
}

func ProvideSearchService(p SearchServiceParams) *application.SearchService {
	return application.NewSearchService(p.Cache, p.Geocoder, p.Places, p.Photos, p.History, p.Metrics, p.Logger, p.Options)
}

// RepositoryParams holds the parameters needed for repository lifecycle management
type RepositoryParams struct {
	fx.In

	Repository domain.Repository
	Logger     *slog.Logger
}

// RegisterRepositoryHooks registers repository lifecycle hooks with FX
func RegisterRepositoryHooks(lc fx.Lifecycle, params RepositoryParams) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := params.Repository.Close(); err != nil {
				params.Logger.Error("Failed to close repository resources", "error", err)
				return err
			}
			params.Logger.Info("Repository resources closed successfully")
			return nil
		},
	})
}

// CacheParams holds the parameters needed for cache lifecycle management
type CacheParams struct {
	fx.In

	Client *goredis.Client
	Cache  domain.SearchCache
	Logger *slog.Logger
}

// RegisterCacheHooks checks Redis on start and closes the client on stop
func RegisterCacheHooks(lc fx.Lifecycle, params CacheParams) {
	if params.Client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// An unreachable Redis only degrades caching; searches still work.
			if err := params.Cache.Ping(ctx); err != nil {
				params.Logger.Warn("Redis cache unreachable at startup", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := params.Client.Close(); err != nil {
				params.Logger.Error("Failed to close Redis client", "error", err)
				return err
			}
			return nil
		},
	})
}

// RegisterSearchHooks drains in-flight history writes on shutdown
func RegisterSearchHooks(lc fx.Lifecycle, service *application.SearchService, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := service.Wait(ctx); err != nil {
				logger.Warn("Pending search history writes abandoned", "error", err)
			}
			return nil
		},
	})
}
