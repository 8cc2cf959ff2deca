package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleFixture = `
categories:
  - id: 7
    name: Electrician
users:
  - id: 1
    name: Sita
    email: sita@example.com
workers:
  - id: 10
    name: Bijay Thapa
    category_id: "7"
    location: Kathmandu
    hourly_rate: 800
    rating: "4.5"
    reviews_count: 3
    available: 1
  - id: 11
    name: Deepa Rai
    category_id: 7
    location: Lalitpur
    hourly_rate: "1250.50"
    rating: 4
    available: false
bookings:
  - id: 100
    user_id: 1
    worker_id: 10
    status: completed
    preferred_date: "2024-05-01"
    preferred_time: "10:30"
reviews:
  - id: 1000
    booking_id: 100
    user_id: 1
    worker_id: 10
    rating: "5"
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadFixtureWeakTypes(t *testing.T) {
	fixture, err := LoadFixture(writeFixture(t, sampleFixture))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	if len(fixture.Workers) != 2 {
		t.Fatalf("expected 2 workers, got %d", len(fixture.Workers))
	}

	w := fixture.Workers[0]
	if w.CategoryID != 7 || w.Rating != 4.5 || !w.Available || w.HourlyRate != 800 {
		t.Fatalf("unexpected first worker: %+v", w)
	}

	if fixture.Workers[1].HourlyRate != 1250.50 || fixture.Workers[1].Available {
		t.Fatalf("unexpected second worker: %+v", fixture.Workers[1])
	}

	b := fixture.Bookings[0]
	if b.PreferredDate != "2024-05-01" || b.PreferredTime != "10:30" || b.Status != StatusCompleted {
		t.Fatalf("unexpected booking: %+v", b)
	}

	if fixture.Reviews[0].Rating != 5 {
		t.Fatalf("expected review rating 5, got %d", fixture.Reviews[0].Rating)
	}

	if err := fixture.Validate(); err != nil {
		t.Fatalf("expected valid fixture: %v", err)
	}
}

func TestLoadFixtureRejectsUnknownKeys(t *testing.T) {
	content := strings.Replace(sampleFixture, "    reviews_count: 3\n", "    reviews_total: 3\n", 1)

	_, err := LoadFixture(writeFixture(t, content))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "reviews_total") {
		t.Fatalf("expected unknown key in error: %v", err)
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSeedFromFile(t *testing.T) {
	s := openTestStore(t)

	fixture, err := LoadFixture(writeFixture(t, sampleFixture))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	result, err := s.Seed(context.Background(), fixture)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if result.Workers != 2 || result.Bookings != 1 || result.Reviews != 1 {
		t.Fatalf("unexpected seed result: %+v", result)
	}

	workers, err := s.AvailableWorkers(context.Background())
	if err != nil {
		t.Fatalf("available workers: %v", err)
	}
	if len(workers) != 1 || workers[0].ID != 10 {
		t.Fatalf("expected only worker 10 available, got %+v", workers)
	}

	history, err := s.BookingHistory(context.Background(), 1)
	if err != nil {
		t.Fatalf("booking history: %v", err)
	}
	if len(history) != 1 || history[0].AvgRating != 5 {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestBundledFixtureSeeds(t *testing.T) {
	fixture, err := LoadFixture(filepath.Join("..", "..", "fixtures", "marketplace.yaml"))
	if err != nil {
		t.Fatalf("load bundled fixture: %v", err)
	}

	s := openTestStore(t)
	result, err := s.Seed(context.Background(), fixture)
	if err != nil {
		t.Fatalf("seed bundled fixture: %v", err)
	}

	if result.Workers != 5 || result.Bookings != 5 || result.Reviews != 2 {
		t.Fatalf("unexpected seed counts: %+v", result)
	}

	available, err := s.AvailableWorkers(context.Background())
	if err != nil {
		t.Fatalf("available workers: %v", err)
	}
	if len(available) != 4 {
		t.Fatalf("expected 4 available workers, got %d", len(available))
	}
}
