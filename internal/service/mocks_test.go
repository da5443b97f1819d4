package service

import (
	"context"
	"time"

	"renthub/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) CreateBookingWithLock(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) UpdateBookingStatusWithVersion(ctx context.Context, id, v int64, s string) error {
	return m.Called(ctx, id, v, s).Error(0)
}
func (m *mockRepo) GetBookingsByDateRange(ctx context.Context, s, e time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetRenterBookings(ctx context.Context, renterID int64) ([]*models.Booking, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetAvailabilityForRange(ctx context.Context, listingID int64, s, e time.Time) ([]models.AvailabilityRecord, error) {
	args := m.Called(ctx, listingID, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailabilityRecord), args.Error(1)
}
func (m *mockRepo) CheckRangeAvailability(ctx context.Context, listingID int64, s, e time.Time) ([]time.Time, error) {
	args := m.Called(ctx, listingID, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}
func (m *mockRepo) GetActiveListings(ctx context.Context) ([]*models.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}
func (m *mockRepo) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}
func (m *mockRepo) DeactivateListing(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) BlockDates(ctx context.Context, listingID int64, dates []time.Time, reason string) error {
	return m.Called(ctx, listingID, dates, reason).Error(0)
}
func (m *mockRepo) UnblockDates(ctx context.Context, listingID int64, dates []time.Time) error {
	return m.Called(ctx, listingID, dates).Error(0)
}
func (m *mockRepo) SetListings(listings []models.Listing) {
	m.Called(listings)
}

type mockAvailability struct {
	mock.Mock
}

func (m *mockAvailability) GetWindow(ctx context.Context, listingID int64, s, e time.Time) (*models.AvailabilityWindow, error) {
	args := m.Called(ctx, listingID, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailabilityWindow), args.Error(1)
}
func (m *mockAvailability) Invalidate(ctx context.Context, listingID int64) error {
	return m.Called(ctx, listingID).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockSyncWorker struct {
	mock.Mock
}

func (m *mockSyncWorker) EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.Booking, status string) error {
	return m.Called(ctx, taskType, bookingID, booking, status).Error(0)
}

func testListing() *models.Listing {
	return &models.Listing{
		ID:      1,
		OwnerID: 100,
		Name:    "Canon EOS R5",
		Rates: models.RateSchedule{
			DailyRateCents:  5000,
			WeeklyRateCents: 30000,
		},
		SecurityDepositCents: 20000,
		IsActive:             true,
	}
}
