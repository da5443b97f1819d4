package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"renthub/internal/models"
)

const bookingColumns = `id, reference, listing_id, listing_name, renter_id, renter_name, phone,
                 date(start_date), date(end_date), duration_days,
                 base_cents, service_fee_cents, insurance_fee_cents, delivery_fee_cents,
                 security_deposit_cents, points_discount_cents, total_renter_pays_cents,
                 platform_commission_cents, owner_earns_cents,
                 status, comment, created_at, updated_at, version`

// GetAvailabilityForRange derives per-day records for the inclusive window
// [start, end]. Only non-available days are materialized: pending bookings
// surface as tentative, confirmed as booked, owner blocks as blocked.
func (db *DB) GetAvailabilityForRange(ctx context.Context, listingID int64, start, end time.Time) ([]models.AvailabilityRecord, error) {
	statuses, err := db.dayStatuses(ctx, db.DB, listingID, start, end)
	if err != nil {
		return nil, err
	}

	records := make([]models.AvailabilityRecord, 0, len(statuses))
	for day, status := range statuses {
		records = append(records, models.AvailabilityRecord{Date: day, Status: status})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

// CheckRangeAvailability returns the days inside [start, end] that are not
// bookable. An empty result means the range is free.
func (db *DB) CheckRangeAvailability(ctx context.Context, listingID int64, start, end time.Time) ([]time.Time, error) {
	return db.conflictingDays(ctx, db.DB, listingID, start, end)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (db *DB) dayStatuses(ctx context.Context, q querier, listingID int64, start, end time.Time) (map[time.Time]string, error) {
	startStr := start.Format("2006-01-02")
	endStr := end.Format("2006-01-02")

	statuses := make(map[time.Time]string)

	// Bookings overlapping the window. Pending holds the dates too, so a
	// second renter cannot race a pending request.
	bookingQuery := `SELECT date(start_date), date(end_date), status
              FROM bookings
              WHERE listing_id = ?
                AND status IN (?, ?)
                AND date(start_date) <= ? AND date(end_date) >= ?`
	rows, err := q.QueryContext(ctx, bookingQuery, listingID,
		models.StatusPending, models.StatusConfirmed, endStr, startStr)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sStr, eStr, status string
		if err := rows.Scan(&sStr, &eStr, &status); err != nil {
			return nil, fmt.Errorf("failed to scan booking range: %w", err)
		}
		bs, err1 := time.Parse("2006-01-02", sStr)
		be, err2 := time.Parse("2006-01-02", eStr)
		if err1 != nil || err2 != nil {
			continue
		}

		dayStatus := models.DateBooked
		if status == models.StatusPending {
			dayStatus = models.DateTentative
		}
		for d := clampDay(bs, start); !d.After(be) && !d.After(end); d = d.AddDate(0, 0, 1) {
			// Confirmed wins over tentative when both cover a day.
			if statuses[d] != models.DateBooked {
				statuses[d] = dayStatus
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	blockedQuery := `SELECT date(date) FROM blocked_dates
              WHERE listing_id = ? AND date(date) BETWEEN ? AND ?`
	blockedRows, err := q.QueryContext(ctx, blockedQuery, listingID, startStr, endStr)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked dates: %w", err)
	}
	defer blockedRows.Close()

	for blockedRows.Next() {
		var dStr string
		if err := blockedRows.Scan(&dStr); err != nil {
			return nil, fmt.Errorf("failed to scan blocked date: %w", err)
		}
		d, err := time.Parse("2006-01-02", dStr)
		if err != nil {
			continue
		}
		if statuses[d] != models.DateBooked {
			statuses[d] = models.DateBlocked
		}
	}
	if err := blockedRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blocked dates: %w", err)
	}

	return statuses, nil
}

func (db *DB) conflictingDays(ctx context.Context, q querier, listingID int64, start, end time.Time) ([]time.Time, error) {
	statuses, err := db.dayStatuses(ctx, q, listingID, start, end)
	if err != nil {
		return nil, err
	}

	var days []time.Time
	for d := range statuses {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

func clampDay(d, floor time.Time) time.Time {
	if d.Before(floor) {
		return floor
	}
	return d
}

// CreateBookingWithLock re-checks the range inside a transaction before
// inserting. This is the authoritative conflict check: whatever the client
// computed, overlaps are rejected here.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	conflicts, err := db.conflictingDays(ctx, tx, booking.ListingID, booking.StartDate, booking.EndDate)
	if err != nil {
		return fmt.Errorf("failed to check availability in tx: %w", err)
	}
	if len(conflicts) > 0 {
		return &RangeConflictError{Dates: conflicts}
	}

	query := `INSERT INTO bookings (
				reference, listing_id, listing_name, renter_id, renter_name, phone,
				start_date, end_date, duration_days,
				base_cents, service_fee_cents, insurance_fee_cents, delivery_fee_cents,
				security_deposit_cents, points_discount_cents, total_renter_pays_cents,
				platform_commission_cents, owner_earns_cents,
				status, comment, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		booking.Reference,
		booking.ListingID,
		booking.ListingName,
		booking.RenterID,
		booking.RenterName,
		booking.Phone,
		booking.StartDate.Format("2006-01-02"),
		booking.EndDate.Format("2006-01-02"),
		booking.Duration,
		booking.Pricing.BaseCents,
		booking.Pricing.ServiceFeeCents,
		booking.Pricing.InsuranceFeeCents,
		booking.Pricing.DeliveryFeeCents,
		booking.Pricing.SecurityDepositCents,
		booking.Pricing.PointsDiscountCents,
		booking.Pricing.TotalRenterPaysCents,
		booking.Pricing.PlatformCommissionCents,
		booking.Pricing.OwnerEarnsCents,
		booking.Status,
		booking.Comment,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE date(start_date) <= ? AND date(end_date) >= ?
              ORDER BY start_date ASC`
	rows, err := db.QueryContext(ctx, query, endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (db *DB) GetRenterBookings(ctx context.Context, renterID int64) ([]*models.Booking, error) {
	// Bookings ending within the last 2 weeks plus all future ones.
	twoWeeksAgo := time.Now().AddDate(0, 0, -14).Format("2006-01-02")
	query := `SELECT ` + bookingColumns + `
              FROM bookings WHERE renter_id = ? AND date(end_date) >= ? ORDER BY start_date DESC`
	rows, err := db.QueryContext(ctx, query, renterID, twoWeeksAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to get renter bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	var startStr, endStr string
	err := row.Scan(
		&b.ID, &b.Reference, &b.ListingID, &b.ListingName, &b.RenterID, &b.RenterName, &b.Phone,
		&startStr, &endStr, &b.Duration,
		&b.Pricing.BaseCents, &b.Pricing.ServiceFeeCents, &b.Pricing.InsuranceFeeCents,
		&b.Pricing.DeliveryFeeCents, &b.Pricing.SecurityDepositCents, &b.Pricing.PointsDiscountCents,
		&b.Pricing.TotalRenterPaysCents, &b.Pricing.PlatformCommissionCents, &b.Pricing.OwnerEarnsCents,
		&b.Status, &b.Comment, &b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}

	b.StartDate, err = time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking start date %s: %w", startStr, err)
	}
	b.EndDate, err = time.Parse("2006-01-02", endStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking end date %s: %w", endStr, err)
	}
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}
