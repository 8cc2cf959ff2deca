package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/spigell/sewalink/internal/recommend"
)

const workerColumns = "w.id, w.name, w.category_id, c.name AS category_name, w.location, " +
	"w.hourly_rate, w.rating, w.reviews_count, w.available"

var _ recommend.DataStore = (*Store)(nil)

type workerRow struct {
	ID           int64
	Name         string
	CategoryID   int64
	CategoryName string
	Location     string
	HourlyRate   float64
	Rating       float64
	ReviewsCount int
	Available    bool
	BookingCount int64
}

func (r workerRow) toWorker() recommend.Worker {
	return recommend.Worker{
		ID:           r.ID,
		Name:         r.Name,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		Location:     r.Location,
		HourlyRate:   r.HourlyRate,
		Rating:       r.Rating,
		ReviewsCount: r.ReviewsCount,
		Available:    r.Available,
		BookingCount: int(r.BookingCount),
	}
}

func toWorkers(rows []workerRow) []recommend.Worker {
	out := make([]recommend.Worker, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toWorker())
	}
	return out
}

type historyRow struct {
	CategoryID   int64
	HourlyRate   float64
	Location     string
	BookingCount int64
	AvgRating    float64
}

// BookingHistory aggregates the user's completed and confirmed bookings by
// worker category and location. Bookings without a review count as rating 0.
func (s *Store) BookingHistory(ctx context.Context, userID int64) ([]recommend.HistoryRow, error) {
	var rows []historyRow
	err := s.db.WithContext(ctx).
		Table("bookings b").
		Select("w.category_id AS category_id, AVG(w.hourly_rate) AS hourly_rate, w.location AS location, "+
			"COUNT(*) AS booking_count, AVG(COALESCE(r.rating, 0)) AS avg_rating").
		Joins("JOIN workers w ON b.worker_id = w.id").
		Joins("LEFT JOIN reviews r ON r.booking_id = b.id").
		Where("b.user_id = ? AND b.status IN ?", userID, preferenceStatuses).
		Group("w.category_id, w.location").
		Order("w.category_id, w.location").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query booking history: %w", err)
	}

	out := make([]recommend.HistoryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, recommend.HistoryRow{
			CategoryID:   row.CategoryID,
			Location:     row.Location,
			HourlyRate:   row.HourlyRate,
			BookingCount: int(row.BookingCount),
			AvgRating:    row.AvgRating,
		})
	}

	s.logger.Debug("loaded booking history", zap.Int64("user_id", userID), zap.Int("groups", len(out)))
	return out, nil
}

// AvailableWorkers returns all workers accepting bookings, by id.
func (s *Store) AvailableWorkers(ctx context.Context) ([]recommend.Worker, error) {
	var rows []workerRow
	err := s.workers(ctx).
		Where("w.available = ?", true).
		Order("w.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query available workers: %w", err)
	}

	return toWorkers(rows), nil
}

// PopularWorkers returns available workers by rating, then review count, then id.
func (s *Store) PopularWorkers(ctx context.Context, limit int) ([]recommend.Worker, error) {
	var rows []workerRow
	err := s.workers(ctx).
		Where("w.available = ?", true).
		Order("w.rating DESC, w.reviews_count DESC, w.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query popular workers: %w", err)
	}

	return toWorkers(rows), nil
}

// SimilarUsers returns the users whose bookings share the most workers with
// userID's bookings. Every pair of bookings on a common worker counts once.
func (s *Store) SimilarUsers(ctx context.Context, userID int64, limit int) ([]int64, error) {
	var rows []struct {
		UserID int64
		Shared int64
	}
	err := s.db.WithContext(ctx).
		Table("bookings b1").
		Select("b2.user_id AS user_id, COUNT(*) AS shared").
		Joins("JOIN bookings b2 ON b1.worker_id = b2.worker_id").
		Joins("JOIN users u2 ON b2.user_id = u2.id").
		Where("b1.user_id = ? AND b2.user_id <> ?", userID, userID).
		Group("b2.user_id").
		Order("shared DESC, b2.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query similar users: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	return ids, nil
}

// WorkersBookedBy returns available workers booked by any of userIDs that
// excludeUserID never booked, ordered by booking count, rating and id.
func (s *Store) WorkersBookedBy(ctx context.Context, userIDs []int64, excludeUserID int64, limit int) ([]recommend.Worker, error) {
	if len(userIDs) == 0 {
		return []recommend.Worker{}, nil
	}

	var rows []workerRow
	err := s.db.WithContext(ctx).
		Table("bookings b").
		Select(workerColumns+", COUNT(*) AS booking_count").
		Joins("JOIN workers w ON b.worker_id = w.id").
		Joins("JOIN categories c ON w.category_id = c.id").
		Where("b.user_id IN ?", userIDs).
		Where("w.id NOT IN (SELECT worker_id FROM bookings WHERE user_id = ?)", excludeUserID).
		Where("w.available = ?", true).
		Group("w.id, w.name, w.category_id, c.name, w.location, w.hourly_rate, w.rating, w.reviews_count, w.available").
		Order("booking_count DESC, w.rating DESC, w.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query workers booked by similar users: %w", err)
	}

	return toWorkers(rows), nil
}

func (s *Store) workers(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("workers w").
		Select(workerColumns).
		Joins("JOIN categories c ON w.category_id = c.id")
}
