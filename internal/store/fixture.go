package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixture is a set of marketplace rows loaded by the seed command.
type Fixture struct {
	Categories []Category `mapstructure:"categories"`
	Users      []User     `mapstructure:"users"`
	Workers    []Worker   `mapstructure:"workers"`
	Bookings   []Booking  `mapstructure:"bookings"`
	Reviews    []Review   `mapstructure:"reviews"`
}

// SeedResult counts the rows inserted per table.
type SeedResult struct {
	Categories int
	Users      int
	Workers    int
	Bookings   int
	Reviews    int
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %q: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixture %q: %w", path, err)
	}

	fixture, err := DecodeFixture(raw)
	if err != nil {
		return nil, fmt.Errorf("decode fixture %q: %w", path, err)
	}

	return fixture, nil
}

// DecodeFixture converts generic YAML/JSON data into a Fixture. Scalars are
// weakly typed, so "4.5" decodes into a float rating and "1" into true.
// Unknown keys are rejected.
func DecodeFixture(raw map[string]any) (*Fixture, error) {
	var fixture Fixture

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &fixture,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return &fixture, nil
}

// Validate checks value ranges and that every reference points at a row of
// the same fixture.
func (f *Fixture) Validate() error {
	var errs []error

	categories := make(map[int64]bool, len(f.Categories))
	for _, c := range f.Categories {
		categories[c.ID] = true
	}

	users := make(map[int64]bool, len(f.Users))
	for _, u := range f.Users {
		users[u.ID] = true
	}

	workers := make(map[int64]bool, len(f.Workers))
	for _, w := range f.Workers {
		workers[w.ID] = true
		if !categories[w.CategoryID] {
			errs = append(errs, fmt.Errorf("worker %d: unknown category %d", w.ID, w.CategoryID))
		}
		if w.Rating < 0 || w.Rating > 5 {
			errs = append(errs, fmt.Errorf("worker %d: rating %.1f out of range 0-5", w.ID, w.Rating))
		}
		if w.HourlyRate < 0 {
			errs = append(errs, fmt.Errorf("worker %d: negative hourly rate", w.ID))
		}
	}

	bookings := make(map[int64]bool, len(f.Bookings))
	for _, b := range f.Bookings {
		bookings[b.ID] = true
		if !users[b.UserID] {
			errs = append(errs, fmt.Errorf("booking %d: unknown user %d", b.ID, b.UserID))
		}
		if !workers[b.WorkerID] {
			errs = append(errs, fmt.Errorf("booking %d: unknown worker %d", b.ID, b.WorkerID))
		}
		if !ValidStatus(b.Status) {
			errs = append(errs, fmt.Errorf("booking %d: invalid status %q", b.ID, b.Status))
		}
	}

	for _, r := range f.Reviews {
		if !bookings[r.BookingID] {
			errs = append(errs, fmt.Errorf("review %d: unknown booking %d", r.ID, r.BookingID))
		}
		if r.Rating < 1 || r.Rating > 5 {
			errs = append(errs, fmt.Errorf("review %d: rating %d out of range 1-5", r.ID, r.Rating))
		}
	}

	return errors.Join(errs...)
}

// Seed validates the fixture and inserts it in one transaction.
func (s *Store) Seed(ctx context.Context, f *Fixture) (*SeedResult, error) {
	if f == nil {
		return &SeedResult{}, nil
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insert(tx, "categories", f.Categories); err != nil {
			return err
		}
		if err := insert(tx, "users", f.Users); err != nil {
			return err
		}
		if err := insert(tx, "workers", f.Workers); err != nil {
			return err
		}
		if err := insert(tx, "bookings", f.Bookings); err != nil {
			return err
		}
		return insert(tx, "reviews", f.Reviews)
	})
	if err != nil {
		return nil, err
	}

	result := &SeedResult{
		Categories: len(f.Categories),
		Users:      len(f.Users),
		Workers:    len(f.Workers),
		Bookings:   len(f.Bookings),
		Reviews:    len(f.Reviews),
	}

	s.logger.Info("seeded marketplace",
		zap.Int("categories", result.Categories),
		zap.Int("users", result.Users),
		zap.Int("workers", result.Workers),
		zap.Int("bookings", result.Bookings),
		zap.Int("reviews", result.Reviews),
	)

	return result, nil
}

func insert[T any](tx *gorm.DB, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}
