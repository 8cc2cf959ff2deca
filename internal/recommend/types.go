package recommend

import "context"

// Worker is a service-worker record as returned to callers of the engine.
type Worker struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name,omitempty"`
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
	Location     string  `json:"location,omitempty"`
	HourlyRate   float64 `json:"hourly_rate"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
	Available    bool    `json:"available"`
	// BookingCount is set only by the collaborative path: the number of
	// bookings similar users made with this worker.
	BookingCount int `json:"booking_count,omitempty"`
}

// HistoryRow is one (category, location) group of a user's completed or
// confirmed bookings.
type HistoryRow struct {
	CategoryID   int64
	Location     string
	HourlyRate   float64
	BookingCount int
	AvgRating    float64
}

// DataStore is the read side of the marketplace database consumed by the engine.
type DataStore interface {
	// BookingHistory returns the user's completed/confirmed bookings grouped
	// by worker category and location.
	BookingHistory(ctx context.Context, userID int64) ([]HistoryRow, error)
	// AvailableWorkers returns every worker accepting bookings.
	AvailableWorkers(ctx context.Context) ([]Worker, error)
	// PopularWorkers returns available workers by rating, then review count.
	PopularWorkers(ctx context.Context, limit int) ([]Worker, error)
	// SimilarUsers returns users sharing the most booked workers with userID.
	SimilarUsers(ctx context.Context, userID int64, limit int) ([]int64, error)
	// WorkersBookedBy returns available workers booked by userIDs and never
	// booked by excludeUserID, most booked first.
	WorkersBookedBy(ctx context.Context, userIDs []int64, excludeUserID int64, limit int) ([]Worker, error)
}
