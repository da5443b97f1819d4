package database

import (
	"context"
	"testing"
	"time"

	"renthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncQueueLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	task := &models.SyncTask{
		TaskType:  "booking_upsert",
		BookingID: 1,
		Payload:   `{"booking_id":1}`,
	}
	require.NoError(t, db.CreateSyncTask(ctx, task))
	assert.NotZero(t, task.ID)
	// Empty status defaults to pending on insert.
	assert.Equal(t, models.SyncPending, task.Status)

	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "booking_upsert", pending[0].TaskType)

	// Retry pushes the task beyond the visibility horizon.
	nextRetry := time.Now().Add(time.Hour)
	require.NoError(t, db.UpdateSyncTaskStatus(ctx, task.ID, models.SyncRetry, "sheets unavailable", &nextRetry))

	pending, err = db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, db.UpdateSyncTaskStatus(ctx, task.ID, models.SyncFailed, "gave up", nil))

	failed, err := db.GetFailedSyncTasks(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].RetryCount)
	require.NotNil(t, failed[0].LastError)
	assert.Equal(t, "gave up", *failed[0].LastError)
	assert.NotNil(t, failed[0].ProcessedAt)
}

func TestGetPendingSyncTasksRespectsLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		task := &models.SyncTask{TaskType: "booking_upsert", BookingID: int64(i + 1), Status: models.SyncPending}
		require.NoError(t, db.CreateSyncTask(ctx, task))
	}

	pending, err := db.GetPendingSyncTasks(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}
