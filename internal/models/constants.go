package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
	StatusCompleted = "completed"
)

const (
	DateAvailable = "available"
	DateBooked    = "booked"
	DateBlocked   = "blocked"
	DateTentative = "tentative"
)

const (
	SelectionEmpty         = "empty"
	SelectionStartSelected = "start_selected"
	SelectionRangeComplete = "range_complete"
)

const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"
)

// Lifecycle of a sync_queue task.
const (
	SyncPending   = "pending"
	SyncRetry     = "retry"
	SyncCompleted = "completed"
	SyncFailed    = "failed"
)

const (
	// WindowCacheTTL lifetime of a cached availability window
	WindowCacheTTL = 5 * 60 // 5 minutes in seconds

	// DefaultMaxWindowDays longest availability window a single request may ask for
	DefaultMaxWindowDays = 92

	// DefaultMaxAdvanceDays booking horizon
	DefaultMaxAdvanceDays = 365

	// DefaultMaxStayDays longest single rental
	DefaultMaxStayDays = 90

	// WorkerQueueSize sync worker in-memory queue size
	WorkerQueueSize = 128

	// DefaultExportRangeMonths default export window around today
	DefaultExportRangeMonthsBefore = 1
	DefaultExportRangeMonthsAfter  = 2
)
