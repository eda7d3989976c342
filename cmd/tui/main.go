package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fixnear/internal/api"
	"fixnear/internal/bookings"
	"fixnear/internal/config"
	"fixnear/internal/events"
	"fixnear/internal/logging"
	"fixnear/internal/metrics"
	"fixnear/internal/repository"
	"fixnear/internal/session"
	"fixnear/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg); err != nil {
		return err
	}

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	redisClient := initRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	store := buildSessionStore(cfg, redisClient, logger)

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, nil, logging.Component(logger, "api-client"))
	client.UseRateLimit(cfg.Backend.RateLimitRPS, cfg.Backend.RateLimitBurst)
	if redisClient != nil {
		client.UseRedisCache(redisClient, cfg.Redis.CacheTTL)
	}

	bus := events.NewEventBus()

	manager := session.NewManager(client, store, bus, cfg.Session.ValidationInterval, logging.Component(logger, "session"))
	client.SetTokenSource(manager)

	if err := manager.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("Could not restore saved session")
	}
	go manager.Run(ctx)

	customer := bookings.NewTracker(client, bus, cfg.UI.CustomerFilter, logging.Component(logger, "customer-tracker"))
	provider := bookings.NewTracker(client, bus, cfg.UI.ProviderFilter, logging.Component(logger, "provider-tracker"))

	model := ui.NewModel(ui.Deps{
		Client:    client,
		Session:   manager,
		Customer:  customer,
		Provider:  provider,
		Bus:       bus,
		ExportDir: cfg.Exports.Path,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info().
		Str("environment", cfg.App.Environment).
		Str("backend", cfg.Backend.BaseURL).
		Msg("Starting FixNear")

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Exports.Path}
	if cfg.Session.Store == "file" {
		dirs = append(dirs, filepath.Dir(cfg.Session.FilePath))
	}
	if cfg.Logging.Output == "file" {
		dirs = append(dirs, filepath.Dir(cfg.Logging.FilePath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, continuing without it")
		_ = redisClient.Close()
		return nil
	}

	logger.Info().Str("address", cfg.Redis.Address).Msg("Connected to Redis")
	return redisClient
}

// buildSessionStore wires the configured store; a redis store always keeps a
// file fallback so an expiring cache cannot silently log the user out.
func buildSessionStore(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) repository.SessionRepository {
	fileStore := repository.NewFileSessionRepository(cfg.Session.FilePath)

	switch cfg.Session.Store {
	case "redis":
		if redisClient == nil {
			logger.Warn().Msg("Redis store configured but unreachable, using file store")
			return fileStore
		}
		redisStore := repository.NewRedisSessionRepository(redisClient, cfg.Session.Profile, 0)
		return repository.NewFailoverSessionRepository(redisStore, fileStore, logger)
	case "memory":
		return repository.NewMemorySessionRepository()
	default:
		return fileStore
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		logger.Info().Int("port", port).Msg("Metrics server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()
}
