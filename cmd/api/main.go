package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"renthub/internal/api"
	"renthub/internal/config"
	"renthub/internal/database"
	"renthub/internal/domain"
	"renthub/internal/events"
	"renthub/internal/export"
	"renthub/internal/google"
	"renthub/internal/logging"
	"renthub/internal/metrics"
	"renthub/internal/models"
	"renthub/internal/notify"
	"renthub/internal/repository"
	"renthub/internal/service"
	"renthub/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
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
		defer (func() { _ = closer.Close() })()
	}

	listings, err := loadListings(&logger)
	if err != nil {
		return err
	}

	db, err := initDatabase(cfg, listings, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	windowCache := buildWindowCache(redisClient, &logger)

	sheetsService := initGoogleSheets(cfg, &logger)

	syncWorker := startSyncWorker(ctx, db, sheetsService, redisClient, &logger)

	eventBus := events.NewEventBus()
	if notifier := initTelegram(cfg, &logger); notifier != nil {
		notifier.Subscribe(eventBus)
	}

	availabilitySvc := service.NewAvailabilityService(
		db, windowCache,
		time.Duration(cfg.Availability.CacheTTLSeconds)*time.Second,
		cfg.Availability.MaxWindowDays,
		&logger,
	)
	quoteSvc := service.NewQuoteService(db, availabilitySvc, cfg.Fees, &logger)
	bookingSvc := service.NewBookingService(
		db, availabilitySvc, eventBus, syncWorker,
		cfg.Fees, cfg.Booking.MaxAdvanceDays, cfg.Booking.MaxStayDays,
		&logger,
	)
	listingSvc := service.NewListingService(db, availabilitySvc, eventBus, &logger)
	exporter := export.NewExporter(db, cfg.Exports.Path, &logger)

	httpServer := api.NewHTTPServer(&cfg.API, db, listingSvc, availabilitySvc, quoteSvc, bookingSvc, exporter, &logger)

	startMetrics(ctx, cfg, &logger)
	startBackups(ctx, cfg, &logger)

	return serve(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func loadListings(logger *zerolog.Logger) ([]models.Listing, error) {
	listingsPath := os.Getenv("LISTINGS_PATH")
	if listingsPath == "" {
		listingsPath = "configs/listings.yaml"
	}
	data, err := os.ReadFile(listingsPath)
	if err != nil {
		logger.Error().Err(err).Str("listings_path", listingsPath).Msg("read listings")
		return nil, err
	}

	var seed struct {
		Listings []models.Listing `yaml:"listings"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		logger.Error().Err(err).Str("listings_path", listingsPath).Msg("parse listings")
		return nil, err
	}

	if err := config.ValidateListings(seed.Listings); err != nil {
		return nil, fmt.Errorf("validate listings: %w", err)
	}

	return seed.Listings, nil
}

func initDatabase(cfg *config.Config, listings []models.Listing, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	if err := db.SyncListings(context.Background(), listings); err != nil {
		db.Close()
		return nil, fmt.Errorf("sync listings: %w", err)
	}
	db.SetListings(listings)

	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildWindowCache returns redis-backed caching with in-memory failover, or
// plain in-memory when redis is absent.
func buildWindowCache(redisClient *redis.Client, logger *zerolog.Logger) domain.WindowCache {
	memory := repository.NewMemoryWindowCache()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverWindowCache(repository.NewRedisWindowCache(redisClient), memory, logger)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.BookingSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.BookingSpreadSheetID,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sheetsService.TestConnection(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("google sheets unreachable, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func startSyncWorker(ctx context.Context, db *database.DB, sheets *google.SheetsService, redisClient *redis.Client, logger *zerolog.Logger) domain.SyncWorker {
	if sheets == nil {
		return nil
	}
	w := worker.NewSyncWorker(db, sheets, redisClient, worker.RetryPolicy{}, logger)
	go w.Start(ctx)
	return w
}

func initTelegram(cfg *config.Config, logger *zerolog.Logger) *notify.TelegramNotifier {
	if cfg.Telegram.BotToken == "" {
		return nil
	}
	notifier, err := notify.NewTelegramNotifier(cfg.Telegram, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return nil
	}
	logger.Info().Int("manager_chats", len(cfg.Telegram.ManagerChatIDs)).Msg("telegram notifier ready")
	return notifier
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startBackups(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Backup.Enabled {
		return
	}
	backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	go backup.Start(ctx)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
