package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"renthub/internal/config"
	"renthub/internal/database"
	"renthub/internal/domain"
	"renthub/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingExporter produces an xlsx report for a date range.
type BookingExporter interface {
	ExportBookings(ctx context.Context, startDate, endDate time.Time) (string, error)
}

// HTTPServer exposes the availability, quote and booking operations over HTTP.
type HTTPServer struct {
	cfg          *config.APIConfig
	db           *database.DB
	listings     domain.ListingService
	availability domain.AvailabilityService
	quotes       domain.QuoteService
	bookings     domain.BookingService
	exporter     BookingExporter
	server       *http.Server
	auth         *HTTPAuth
	logger       *zerolog.Logger
}

func NewHTTPServer(
	cfg *config.APIConfig,
	db *database.DB,
	listings domain.ListingService,
	availability domain.AvailabilityService,
	quotes domain.QuoteService,
	bookings domain.BookingService,
	exporter BookingExporter,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:          cfg,
		db:           db,
		listings:     listings,
		availability: availability,
		quotes:       quotes,
		bookings:     bookings,
		exporter:     exporter,
		logger:       logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.HandleFunc("/readyz", srv.handleReadyz)
	mux.HandleFunc("/api/v1/listings", srv.handleListings)
	mux.HandleFunc("/api/v1/listings/", srv.handleListingActions)
	mux.HandleFunc("/api/v1/availability/", srv.handleAvailability)
	mux.HandleFunc("/api/v1/quotes", srv.handleQuotes)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/api/v1/renters/", srv.handleRenterBookings)
	mux.HandleFunc("/api/v1/exports/bookings", srv.handleExportBookings)

	handler := srv.loggingMiddleware(corsMiddleware(srv.auth.Wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Api-Key, X-Api-Extra")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		metrics.IncHTTP(r.URL.Path)
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
