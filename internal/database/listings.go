package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"renthub/internal/models"
)

// SyncListings upserts the seeded listings into the database and refreshes
// the in-memory cache used by availability checks.
func (db *DB) SyncListings(ctx context.Context, listings []models.Listing) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO listings (
				id, owner_id, name, description, daily_rate_cents, weekly_rate_cents,
				monthly_rate_cents, security_deposit_cents, sort_order, is_active, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				owner_id = excluded.owner_id,
				name = excluded.name,
				description = excluded.description,
				daily_rate_cents = excluded.daily_rate_cents,
				weekly_rate_cents = excluded.weekly_rate_cents,
				monthly_rate_cents = excluded.monthly_rate_cents,
				security_deposit_cents = excluded.security_deposit_cents,
				sort_order = excluded.sort_order,
				is_active = excluded.is_active,
				updated_at = excluded.updated_at`

	now := time.Now()
	for i := range listings {
		l := &listings[i]
		_, err := tx.ExecContext(ctx, query,
			l.ID, l.OwnerID, l.Name, l.Description,
			l.Rates.DailyRateCents, l.Rates.WeeklyRateCents, l.Rates.MonthlyRateCents,
			l.SecurityDepositCents, l.SortOrder, l.IsActive, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert listing %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit listings sync: %w", err)
	}

	db.SetListings(listings)
	return nil
}

// SetListings replaces the in-memory listing cache.
func (db *DB) SetListings(listings []models.Listing) {
	cache := make(map[int64]*models.Listing, len(listings))
	sorted := make([]*models.Listing, 0, len(listings))
	for i := range listings {
		l := listings[i]
		cache[l.ID] = &l
		sorted = append(sorted, &l)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SortOrder == sorted[j].SortOrder {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	db.mu.Lock()
	db.listingsCache = cache
	db.sortedListings = sorted
	db.mu.Unlock()
}

// GetActiveListings returns cached listings ordered by sort order.
func (db *DB) GetActiveListings(ctx context.Context) ([]*models.Listing, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	listings := make([]*models.Listing, 0, len(db.sortedListings))
	for _, l := range db.sortedListings {
		if l.IsActive {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

func (db *DB) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	db.mu.RLock()
	l, ok := db.listingsCache[id]
	db.mu.RUnlock()
	if ok {
		return l, nil
	}

	query := `SELECT id, owner_id, name, description, daily_rate_cents, weekly_rate_cents,
	                 monthly_rate_cents, security_deposit_cents, sort_order, is_active,
	                 created_at, updated_at
              FROM listings WHERE id = ?`
	var listing models.Listing
	err := db.QueryRowContext(ctx, query, id).Scan(
		&listing.ID, &listing.OwnerID, &listing.Name, &listing.Description,
		&listing.Rates.DailyRateCents, &listing.Rates.WeeklyRateCents, &listing.Rates.MonthlyRateCents,
		&listing.SecurityDepositCents, &listing.SortOrder, &listing.IsActive,
		&listing.CreatedAt, &listing.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	db.mu.Lock()
	db.listingsCache[listing.ID] = &listing
	db.mu.Unlock()

	return &listing, nil
}

func (db *DB) DeactivateListing(ctx context.Context, id int64) error {
	query := `UPDATE listings SET is_active = 0, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to deactivate listing: %w", err)
	}

	db.mu.Lock()
	if l, ok := db.listingsCache[id]; ok {
		l.IsActive = false
	}
	db.mu.Unlock()
	return nil
}

// BlockDates marks owner-blocked days for a listing. Existing blocks for the
// same day are kept as-is.
func (db *DB) BlockDates(ctx context.Context, listingID int64, dates []time.Time, reason string) error {
	query := `INSERT INTO blocked_dates (listing_id, date, reason)
              VALUES (?, ?, ?)
              ON CONFLICT(listing_id, date) DO NOTHING`
	for _, d := range dates {
		if _, err := db.ExecContext(ctx, query, listingID, d.Format("2006-01-02"), reason); err != nil {
			return fmt.Errorf("failed to block date %s: %w", d.Format("2006-01-02"), err)
		}
	}
	return nil
}

func (db *DB) UnblockDates(ctx context.Context, listingID int64, dates []time.Time) error {
	query := `DELETE FROM blocked_dates WHERE listing_id = ? AND date(date) = date(?)`
	for _, d := range dates {
		if _, err := db.ExecContext(ctx, query, listingID, d.Format("2006-01-02")); err != nil {
			return fmt.Errorf("failed to unblock date %s: %w", d.Format("2006-01-02"), err)
		}
	}
	return nil
}
