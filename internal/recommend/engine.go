package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/sewalink/internal/utils"
)

const (
	// DefaultLimit is used when a caller passes a non-positive limit.
	DefaultLimit = 3
	// RatingBoostWeight is the share of the score given to the worker rating.
	RatingBoostWeight = 0.3
	// MaxRating is the top of the rating scale.
	MaxRating = 5.0

	similarUsersLimit = 5
	logPreviewLength  = 40
)

var errNoStore = errors.New("data store is required")

// ScoredWorker is a candidate with the parts of its score.
type ScoredWorker struct {
	Worker     Worker  `json:"worker"`
	Similarity float64 `json:"similarity"`
	Boost      float64 `json:"boost"`
	Score      float64 `json:"score"`
}

// Ranking is the outcome of the content-based path. Fallback is set when the
// user had no history and Workers came from the popularity list unscored.
type Ranking struct {
	Workers  []ScoredWorker `json:"workers"`
	Fallback bool           `json:"fallback"`
}

// Engine computes worker recommendations. It holds no per-user state; every
// call reads fresh rows from the store.
type Engine struct {
	store  DataStore
	logger *zap.Logger
}

// New creates an engine reading from store. A nil logger is replaced by a no-op one.
func New(store DataStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		store:  store,
		logger: logger,
	}
}

// BuildUserPreferenceVector reads the user's booking history and folds it into
// a preference vector. An empty vector means the user has no usable history.
func (e *Engine) BuildUserPreferenceVector(ctx context.Context, userID int64) (FeatureVector, error) {
	if e.store == nil {
		return nil, errNoStore
	}

	history, err := e.store.BookingHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get booking history: %w", err)
	}

	vector := UserPreferenceVector(history)

	e.logger.Debug("built user preference vector",
		zap.Int64("user_id", userID),
		zap.Int("history_groups", len(history)),
		zap.Int("features", len(vector)),
	)

	return vector, nil
}

// RecommendedWorkers returns up to limit workers ranked for the user. A zero
// userID yields no recommendations; a user without history gets the
// popularity list.
func (e *Engine) RecommendedWorkers(ctx context.Context, userID int64, limit int) ([]Worker, error) {
	ranking, err := e.Explain(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	workers := make([]Worker, 0, len(ranking.Workers))
	for _, scored := range ranking.Workers {
		workers = append(workers, scored.Worker)
	}

	return workers, nil
}

// Explain ranks workers like RecommendedWorkers but keeps the score breakdown.
func (e *Engine) Explain(ctx context.Context, userID int64, limit int) (*Ranking, error) {
	limit = normalizeLimit(limit)
	if userID <= 0 {
		return &Ranking{Workers: []ScoredWorker{}}, nil
	}

	userVector, err := e.BuildUserPreferenceVector(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(userVector) == 0 {
		e.logger.Debug("no booking history, falling back to popular workers", zap.Int64("user_id", userID))

		popular, err := e.PopularWorkers(ctx, limit)
		if err != nil {
			return nil, err
		}

		scored := make([]ScoredWorker, 0, len(popular))
		for _, w := range popular {
			scored = append(scored, ScoredWorker{Worker: w})
		}
		return &Ranking{Workers: scored, Fallback: true}, nil
	}

	candidates, err := e.store.AvailableWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("get available workers: %w", err)
	}

	scored := make([]ScoredWorker, 0, len(candidates))
	for _, w := range candidates {
		s := Score(userVector, w)
		e.logger.Debug("scored worker",
			zap.Int64("worker_id", w.ID),
			zap.String("location", utils.TruncateForLog(w.Location, logPreviewLength)),
			zap.Float64("similarity", s.Similarity),
			zap.Float64("score", s.Score),
		)
		scored = append(scored, s)
	}

	// Ties keep the store's row order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	e.logger.Debug("ranked workers",
		zap.Int64("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(scored)),
	)

	return &Ranking{Workers: scored}, nil
}

// PopularWorkers returns available workers ordered by rating and review count.
func (e *Engine) PopularWorkers(ctx context.Context, limit int) ([]Worker, error) {
	if e.store == nil {
		return nil, errNoStore
	}

	workers, err := e.store.PopularWorkers(ctx, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("get popular workers: %w", err)
	}

	return workers, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
