package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/sewalink/internal/logger"
	"github.com/spigell/sewalink/internal/recommend"
	"github.com/spigell/sewalink/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(store.Config{
		Driver: store.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "sewalink.db"),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	ctx := context.Background()
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	_, err = s.Seed(ctx, &store.Fixture{
		Categories: []store.Category{{ID: 1, Name: "Electrician"}, {ID: 2, Name: "Plumber"}},
		Users:      []store.User{{ID: 1, Name: "Sita", Email: "sita@example.com"}},
		Workers: []store.Worker{
			{ID: 1, Name: "Bijay", CategoryID: 1, Location: "Kathmandu", HourlyRate: 800, Rating: 4.0, ReviewsCount: 3, Available: true},
			{ID: 2, Name: "Deepak", CategoryID: 1, Location: "Kathmandu", HourlyRate: 900, Rating: 4.9, ReviewsCount: 10, Available: true},
			{ID: 3, Name: "Kiran", CategoryID: 2, Location: "Pokhara", HourlyRate: 400, Rating: 4.5, ReviewsCount: 7, Available: true},
		},
		Bookings: []store.Booking{{ID: 1, UserID: 1, WorkerID: 1, Status: store.StatusCompleted}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	return s
}

// brokenStore fails every query except, optionally, the popularity list.
type brokenStore struct {
	err     error
	popular []recommend.Worker
}

func (b *brokenStore) BookingHistory(context.Context, int64) ([]recommend.HistoryRow, error) {
	return nil, b.err
}

func (b *brokenStore) AvailableWorkers(context.Context) ([]recommend.Worker, error) {
	return nil, b.err
}

func (b *brokenStore) PopularWorkers(context.Context, int) ([]recommend.Worker, error) {
	if b.popular == nil {
		return nil, b.err
	}
	return b.popular, nil
}

func (b *brokenStore) SimilarUsers(context.Context, int64, int) ([]int64, error) {
	return nil, b.err
}

func (b *brokenStore) WorkersBookedBy(context.Context, []int64, int64, int) ([]recommend.Worker, error) {
	return nil, b.err
}

func decodeWorkers(t *testing.T, out *bytes.Buffer) []int64 {
	t.Helper()

	var workers []recommend.Worker
	if err := json.Unmarshal(out.Bytes(), &workers); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}

	ids := make([]int64, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	return ids
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecommenderRun(t *testing.T) {
	s := seededStore(t)
	engine := recommend.New(s, zap.NewNop())

	tests := []struct {
		name string
		req  request
		want []int64
	}{
		{
			name: "content ranks by similarity and rating",
			req:  request{Strategy: recommend.StrategyContent, UserID: 1},
			want: []int64{2, 1, 3},
		},
		{
			name: "popular honours limit",
			req:  request{Strategy: recommend.StrategyPopular, Limit: 2},
			want: []int64{2, 3},
		},
		{
			name: "anonymous content request is empty",
			req:  request{Strategy: recommend.StrategyContent},
			want: []int64{},
		},
		{
			name: "collaborative without similar users is empty",
			req:  request{Strategy: recommend.StrategyCollaborative, UserID: 1},
			want: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := &recommender{engine: engine, logger: zap.NewNop(), out: &out}

			if err := r.run(context.Background(), tt.req); err != nil {
				t.Fatalf("run: %v", err)
			}

			if got := decodeWorkers(t, &out); !sameIDs(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRecommenderExplain(t *testing.T) {
	var out bytes.Buffer
	r := &recommender{engine: recommend.New(seededStore(t), zap.NewNop()), logger: zap.NewNop(), out: &out}

	err := r.run(context.Background(), request{Strategy: recommend.StrategyContent, UserID: 1, Limit: 1, Explain: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var ranking recommend.Ranking
	if err := json.Unmarshal(out.Bytes(), &ranking); err != nil {
		t.Fatalf("decode ranking: %v", err)
	}

	if ranking.Fallback || len(ranking.Workers) != 1 {
		t.Fatalf("unexpected ranking: %+v", ranking)
	}

	top := ranking.Workers[0]
	if top.Worker.ID != 2 || top.Similarity < 0.999 || top.Score <= top.Similarity {
		t.Fatalf("unexpected top worker: %+v", top)
	}
}

func TestRecommenderLogsRequestFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var out bytes.Buffer
	r := &recommender{engine: recommend.New(seededStore(t), zap.NewNop()), logger: zap.New(core), out: &out}

	if err := r.run(context.Background(), request{Strategy: recommend.StrategyContent, UserID: 1, Limit: 2}); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries := logs.FilterMessage("recommended workers").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if id, ok := fields[logger.FieldRequestID].(string); !ok || id == "" {
		t.Fatalf("expected a request id, got %v", fields[logger.FieldRequestID])
	}
	if fields[logger.FieldStrategy] != "content" {
		t.Fatalf("unexpected strategy field %v", fields[logger.FieldStrategy])
	}
	if fields[logger.FieldUserID] != int64(1) || fields["count"] != int64(2) {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestRecommenderFallbackOnError(t *testing.T) {
	boom := errors.New("database is gone")
	popular := []recommend.Worker{{ID: 9}, {ID: 4}}

	tests := []struct {
		name     string
		req      request
		fallback bool
		popular  []recommend.Worker
		want     []int64
		wantErr  string
	}{
		{
			name:    "disabled returns the error",
			req:     request{Strategy: recommend.StrategyContent, UserID: 1},
			popular: popular,
			wantErr: "content recommendations: get booking history: database is gone",
		},
		{
			name:     "enabled serves popular workers",
			req:      request{Strategy: recommend.StrategyCollaborative, UserID: 1},
			fallback: true,
			popular:  popular,
			want:     []int64{9, 4},
		},
		{
			name:     "popular strategy never falls back",
			req:      request{Strategy: recommend.StrategyPopular},
			fallback: true,
			wantErr:  "popular recommendations",
		},
		{
			name:     "failing fallback reports both errors",
			req:      request{Strategy: recommend.StrategyContent, UserID: 1},
			fallback: true,
			wantErr:  "popular fallback after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := &recommender{
				engine:          recommend.New(&brokenStore{err: boom, popular: tt.popular}, zap.NewNop()),
				logger:          zap.NewNop(),
				out:             &out,
				fallbackOnError: tt.fallback,
			}

			err := r.run(context.Background(), tt.req)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, boom) {
					t.Fatalf("expected the store error to be wrapped, got %v", err)
				}
				if out.Len() != 0 {
					t.Fatalf("expected no output, got %q", out.String())
				}
				return
			}

			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := decodeWorkers(t, &out); !sameIDs(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRecommenderExplainFallback(t *testing.T) {
	var out bytes.Buffer
	r := &recommender{
		engine:          recommend.New(&brokenStore{err: errors.New("timeout"), popular: []recommend.Worker{{ID: 5}}}, zap.NewNop()),
		logger:          zap.NewNop(),
		out:             &out,
		fallbackOnError: true,
	}

	if err := r.run(context.Background(), request{Strategy: recommend.StrategyContent, UserID: 3, Explain: true}); err != nil {
		t.Fatalf("run: %v", err)
	}

	var ranking recommend.Ranking
	if err := json.Unmarshal(out.Bytes(), &ranking); err != nil {
		t.Fatalf("decode ranking: %v", err)
	}

	if !ranking.Fallback || len(ranking.Workers) != 1 || ranking.Workers[0].Worker.ID != 5 {
		t.Fatalf("unexpected ranking: %+v", ranking)
	}
}

func TestResolvePassword(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "password")
	if err := os.WriteFile(file, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("write password file: %v", err)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	tests := []struct {
		name    string
		cfg     DatabaseConfig
		want    string
		wantErr bool
	}{
		{name: "nothing configured", cfg: DatabaseConfig{}, want: ""},
		{name: "inline value", cfg: DatabaseConfig{Password: " inline "}, want: "inline"},
		{name: "file wins", cfg: DatabaseConfig{Password: "inline", PasswordFile: file}, want: "from-file"},
		{name: "empty file", cfg: DatabaseConfig{PasswordFile: empty}, wantErr: true},
		{name: "missing file", cfg: DatabaseConfig{PasswordFile: filepath.Join(dir, "nope")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePassword(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPromptExitIsNotAStrategy(t *testing.T) {
	if _, err := recommend.ParseStrategy(PromptExit); !errors.Is(err, recommend.ErrUnknownStrategy) {
		t.Fatalf("exit must not parse as a strategy, got %v", err)
	}
}
