package worker

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"renthub/internal/database"
	"renthub/internal/models"

	"github.com/rs/zerolog"
)

func TestProcessTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{}, nil)

	booking := testWorkerBooking(1)

	ctx := context.Background()
	if err := worker.EnqueueTask(ctx, TaskUpsert, booking.ID, booking, ""); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != models.SyncCompleted {
		t.Fatalf("expected status=completed, got %s", status)
	}
	if retryCount != 0 {
		t.Fatalf("expected retry_count=0, got %d", retryCount)
	}
	if nextRetry.Valid {
		t.Fatalf("expected next_retry_at NULL on success")
	}
	if sheets.upsertCalls != 1 {
		t.Fatalf("expected upsert call, got %d", sheets.upsertCalls)
	}
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{err: errors.New("boom")}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{MaxRetries: 3, InitialDelay: time.Second}, nil)

	ctx := context.Background()
	if err := worker.EnqueueTask(ctx, TaskUpsert, 2, testWorkerBooking(2), ""); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != models.SyncRetry {
		t.Fatalf("expected status=retry, got %s", status)
	}
	if retryCount != 1 {
		t.Fatalf("expected retry_count=1, got %d", retryCount)
	}
	if !nextRetry.Valid || nextRetry.Time.Before(time.Now()) {
		t.Fatalf("expected next_retry_at in future, got %v", nextRetry)
	}
}

func TestProcessTaskFail(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{err: errors.New("fatal")}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{MaxRetries: 1}, nil)

	ctx := context.Background()
	worker.EnqueueTask(ctx, TaskUpsert, 3, testWorkerBooking(3), "")
	task, _ := worker.tryLocalQueue()
	worker.processTask(ctx, &task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	if status != models.SyncFailed {
		t.Fatalf("expected status=failed, got %s", status)
	}
}

func TestHandleTask(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	worker := NewSyncWorker(db, sheets, nil, RetryPolicy{MaxRetries: 3}, nil)

	ctx := context.Background()

	t.Run("Upsert", func(t *testing.T) {
		err := worker.handleTask(ctx, TaskUpsert, syncTaskPayload{Booking: testWorkerBooking(1)})
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if sheets.upsertCalls != 1 {
			t.Fatalf("expected 1 upsert call, got %d", sheets.upsertCalls)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		err := worker.handleTask(ctx, TaskDelete, syncTaskPayload{BookingID: 123})
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if sheets.deleteCalls != 1 {
			t.Fatalf("expected 1 delete call, got %d", sheets.deleteCalls)
		}
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		err := worker.handleTask(ctx, TaskUpdateStatus, syncTaskPayload{BookingID: 123, Status: "confirmed"})
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if sheets.statusCalls != 1 {
			t.Fatalf("expected 1 status call, got %d", sheets.statusCalls)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		err := worker.handleTask(ctx, "bogus", syncTaskPayload{BookingID: 1})
		if err == nil {
			t.Fatalf("expected error for unknown task type")
		}
	})
}

func TestRetryPolicyNormalize(t *testing.T) {
	policy := RetryPolicy{}.normalize()
	if policy.MaxRetries != 5 || policy.InitialDelay != 2*time.Second ||
		policy.MaxDelay != time.Minute || policy.BackoffFactor != 2 {
		t.Fatalf("unexpected defaults: %+v", policy)
	}

	partial := RetryPolicy{MaxRetries: 3}.normalize()
	if partial.MaxRetries != 3 {
		t.Fatalf("normalize clobbered configured MaxRetries: %+v", partial)
	}
	if partial.InitialDelay != 2*time.Second {
		t.Fatalf("normalize left InitialDelay zero: %+v", partial)
	}
}

func TestRetryPolicyExhausted(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3}.normalize()
	if policy.Exhausted(2) {
		t.Fatalf("attempt 2 of 3 should not be exhausted")
	}
	if !policy.Exhausted(3) {
		t.Fatalf("attempt 3 of 3 should be exhausted")
	}
}

func TestNewSyncWorkerNormalizesRetryPolicy(t *testing.T) {
	w := NewSyncWorker(nil, nil, nil, RetryPolicy{}, nil)
	if w.retryPolicy.MaxRetries != 5 || w.retryPolicy.BackoffFactor != 2 {
		t.Fatalf("expected normalized policy, got %+v", w.retryPolicy)
	}
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}
	d1 := policy.NextDelay(1)
	d2 := policy.NextDelay(2)
	d3 := policy.NextDelay(5)

	if d1 != time.Second {
		t.Fatalf("attempt1 expected 1s, got %s", d1)
	}
	if d2 != 2*time.Second {
		t.Fatalf("attempt2 expected 2s, got %s", d2)
	}
	if d3 != 5*time.Second {
		t.Fatalf("attempt5 expected capped 5s, got %s", d3)
	}
}

func TestEnqueueTaskValidation(t *testing.T) {
	db := newTestDB(t)
	worker := NewSyncWorker(db, &fakeSheets{}, nil, RetryPolicy{}, nil)

	ctx := context.Background()
	booking := testWorkerBooking(1)

	t.Run("ValidTask", func(t *testing.T) {
		if err := worker.EnqueueTask(ctx, TaskUpsert, 1, booking, ""); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	})

	t.Run("EmptyTaskType", func(t *testing.T) {
		if err := worker.EnqueueTask(ctx, "", 1, booking, ""); err == nil {
			t.Fatalf("expected error for empty task type")
		}
	})

	t.Run("MissingBookingID", func(t *testing.T) {
		if err := worker.EnqueueTask(ctx, TaskUpsert, 0, nil, ""); err == nil {
			t.Fatalf("expected error for missing booking id")
		}
	})
}

func TestDecodePayload(t *testing.T) {
	worker := NewSyncWorker(nil, nil, nil, RetryPolicy{}, nil)

	t.Run("ValidPayload", func(t *testing.T) {
		decoded, err := worker.decodePayload(`{"booking_id":123,"status":"confirmed"}`)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.BookingID != 123 || decoded.Status != "confirmed" {
			t.Fatalf("unexpected decoded payload: %+v", decoded)
		}
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		if _, err := worker.decodePayload(`invalid json`); err == nil {
			t.Fatalf("expected error for invalid json")
		}
	})
}

// Helpers

type fakeSheets struct {
	err         error
	upsertCalls int
	deleteCalls int
	statusCalls int
}

func (f *fakeSheets) UpsertBooking(ctx context.Context, b *models.Booking) error {
	f.upsertCalls++
	return f.err
}

func (f *fakeSheets) DeleteBookingRow(ctx context.Context, id int64) error {
	f.deleteCalls++
	return f.err
}

func (f *fakeSheets) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	f.statusCalls++
	return f.err
}

func testWorkerBooking(id int64) *models.Booking {
	now := time.Now()
	return &models.Booking{
		ID:          id,
		Reference:   "BK-TEST",
		ListingID:   10,
		ListingName: "camera",
		RenterID:    1,
		RenterName:  "tester",
		Phone:       "+100",
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, 2),
		Duration:    3,
		Status:      "pending",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.db")
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	db, err := database.NewDB(path, &logger)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func loadTaskStatus(t *testing.T, db *database.DB, id int64) (status string, retryCount int, nextRetry sql.NullTime) {
	t.Helper()
	row := db.QueryRowContext(context.Background(), `SELECT status, retry_count, next_retry_at FROM sync_queue WHERE id = ?`, id)
	if err := row.Scan(&status, &retryCount, &nextRetry); err != nil {
		t.Fatalf("scan task: %v", err)
	}
	return status, retryCount, nextRetry
}
