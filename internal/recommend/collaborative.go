package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CollaborativeRecommendations suggests workers booked by the users whose
// bookings overlap most with userID's, skipping workers userID already booked.
// It is independent of the content-based path.
func (e *Engine) CollaborativeRecommendations(ctx context.Context, userID int64, limit int) ([]Worker, error) {
	limit = normalizeLimit(limit)
	if userID <= 0 {
		return []Worker{}, nil
	}
	if e.store == nil {
		return nil, errNoStore
	}

	similar, err := e.store.SimilarUsers(ctx, userID, similarUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("get similar users: %w", err)
	}

	if len(similar) == 0 {
		e.logger.Debug("no similar users found", zap.Int64("user_id", userID))
		return []Worker{}, nil
	}

	workers, err := e.store.WorkersBookedBy(ctx, similar, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get workers booked by similar users: %w", err)
	}

	e.logger.Debug("collaborative recommendations",
		zap.Int64("user_id", userID),
		zap.Int64s("similar_users", similar),
		zap.Int("returned", len(workers)),
	)

	return workers, nil
}
