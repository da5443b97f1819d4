package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"renthub/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	mu             sync.RWMutex
	listingsCache  map[int64]*models.Listing
	sortedListings []*models.Listing
	logger         *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if logger != nil {
		logger.Info().Str("path", path).Msg("database initialized")
	}
	return &DB{
		DB:            db,
		listingsCache: make(map[int64]*models.Listing),
		logger:        logger,
	}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS listings (
            id INTEGER PRIMARY KEY,
            owner_id INTEGER NOT NULL,
            name TEXT NOT NULL,
            description TEXT,
            daily_rate_cents INTEGER NOT NULL,
            weekly_rate_cents INTEGER NOT NULL DEFAULT 0,
            monthly_rate_cents INTEGER NOT NULL DEFAULT 0,
            security_deposit_cents INTEGER NOT NULL DEFAULT 0,
            sort_order INTEGER NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            reference TEXT NOT NULL,
            listing_id INTEGER NOT NULL,
            listing_name TEXT NOT NULL,
            renter_id INTEGER NOT NULL,
            renter_name TEXT NOT NULL,
            phone TEXT,
            start_date DATETIME NOT NULL,
            end_date DATETIME NOT NULL,
            duration_days INTEGER NOT NULL,
            base_cents INTEGER NOT NULL DEFAULT 0,
            service_fee_cents INTEGER NOT NULL DEFAULT 0,
            insurance_fee_cents INTEGER NOT NULL DEFAULT 0,
            delivery_fee_cents INTEGER NOT NULL DEFAULT 0,
            security_deposit_cents INTEGER NOT NULL DEFAULT 0,
            points_discount_cents INTEGER NOT NULL DEFAULT 0,
            total_renter_pays_cents INTEGER NOT NULL DEFAULT 0,
            platform_commission_cents INTEGER NOT NULL DEFAULT 0,
            owner_earns_cents INTEGER NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'pending',
            comment TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            version INTEGER NOT NULL DEFAULT 1
        )`,
		`CREATE TABLE IF NOT EXISTS blocked_dates (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            listing_id INTEGER NOT NULL,
            date DATETIME NOT NULL,
            reason TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(listing_id, date)
        )`,
		`CREATE TABLE IF NOT EXISTS sync_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            booking_id INTEGER NOT NULL,
            payload TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_listing_id ON bookings(listing_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_dates ON bookings(start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_renter_id ON bookings(renter_id)`,
		`CREATE INDEX IF NOT EXISTS idx_blocked_dates_listing ON blocked_dates(listing_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_queue_status ON sync_queue(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}
