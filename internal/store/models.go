package store

import "time"

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusDeclined  = "declined"
)

// preferenceStatuses are the booking statuses that count as a preference signal.
var preferenceStatuses = []string{StatusCompleted, StatusConfirmed}

// ValidStatus reports whether status is a known booking status.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusDeclined:
		return true
	default:
		return false
	}
}

type Category struct {
	ID          int64     `gorm:"primaryKey" mapstructure:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" mapstructure:"name"`
	Description string    `mapstructure:"description"`
	CreatedAt   time.Time `mapstructure:"-"`
	UpdatedAt   time.Time `mapstructure:"-"`
}

type User struct {
	ID        int64     `gorm:"primaryKey" mapstructure:"id"`
	Name      string    `gorm:"size:100;not null" mapstructure:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" mapstructure:"email"`
	Phone     string    `gorm:"size:20" mapstructure:"phone"`
	Address   string    `mapstructure:"address"`
	CreatedAt time.Time `mapstructure:"-"`
	UpdatedAt time.Time `mapstructure:"-"`
}

type Worker struct {
	ID            int64     `gorm:"primaryKey" mapstructure:"id"`
	Name          string    `gorm:"size:100;not null" mapstructure:"name"`
	Email         string    `gorm:"size:255" mapstructure:"email"`
	Phone         string    `gorm:"size:20" mapstructure:"phone"`
	CategoryID    int64     `gorm:"not null;index" mapstructure:"category_id"`
	Location      string    `gorm:"size:255;not null" mapstructure:"location"`
	Introduction  string    `mapstructure:"introduction"`
	Experience    string    `gorm:"size:50" mapstructure:"experience"`
	HourlyRate    float64   `gorm:"not null" mapstructure:"hourly_rate"`
	Available     bool      `gorm:"not null;index" mapstructure:"available"`
	Rating        float64   `gorm:"not null" mapstructure:"rating"`
	ReviewsCount  int       `gorm:"not null" mapstructure:"reviews_count"`
	TotalBookings int       `mapstructure:"total_bookings"`
	ResponseRate  int       `mapstructure:"response_rate"`
	Verified      bool      `mapstructure:"verified"`
	CreatedAt     time.Time `mapstructure:"-"`
	UpdatedAt     time.Time `mapstructure:"-"`
}

type Booking struct {
	ID                 int64     `gorm:"primaryKey" mapstructure:"id"`
	UserID             int64     `gorm:"not null;index:idx_bookings_user_status" mapstructure:"user_id"`
	WorkerID           int64     `gorm:"not null;index" mapstructure:"worker_id"`
	ServiceDescription string    `mapstructure:"service_description"`
	PreferredDate      string    `gorm:"size:10" mapstructure:"preferred_date"`
	PreferredTime      string    `gorm:"size:8" mapstructure:"preferred_time"`
	Address            string    `mapstructure:"address"`
	Notes              string    `mapstructure:"notes"`
	Status             string    `gorm:"size:16;not null;index:idx_bookings_user_status" mapstructure:"status"`
	EstimatedDuration  int       `mapstructure:"estimated_duration"`
	CreatedAt          time.Time `mapstructure:"-"`
	UpdatedAt          time.Time `mapstructure:"-"`
}

type Review struct {
	ID        int64     `gorm:"primaryKey" mapstructure:"id"`
	BookingID int64     `gorm:"not null;uniqueIndex" mapstructure:"booking_id"`
	UserID    int64     `gorm:"not null" mapstructure:"user_id"`
	WorkerID  int64     `gorm:"not null;index" mapstructure:"worker_id"`
	Rating    int       `gorm:"not null" mapstructure:"rating"`
	Comment   string    `mapstructure:"comment"`
	CreatedAt time.Time `mapstructure:"-"`
}

func allModels() []any {
	return []any{
		&Category{},
		&User{},
		&Worker{},
		&Booking{},
		&Review{},
	}
}
