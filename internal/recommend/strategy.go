package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Strategy names a recommendation entry point.
type Strategy string

const (
	StrategyContent       Strategy = "content"
	StrategyCollaborative Strategy = "collaborative"
	StrategyPopular       Strategy = "popular"
)

// ErrUnknownStrategy is returned for strategy names the engine does not serve.
var ErrUnknownStrategy = errors.New("unknown recommendation strategy")

// Strategies lists the supported strategies, content first.
func Strategies() []Strategy {
	return []Strategy{StrategyContent, StrategyCollaborative, StrategyPopular}
}

// ParseStrategy maps a case-insensitive name to a Strategy. An empty name is content.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StrategyContent, nil
	}

	for _, s := range Strategies() {
		if string(s) == name {
			return s, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
}

// Recommend dispatches to the entry point of the given strategy.
func (e *Engine) Recommend(ctx context.Context, strategy Strategy, userID int64, limit int) ([]Worker, error) {
	switch strategy {
	case StrategyContent:
		return e.RecommendedWorkers(ctx, userID, limit)
	case StrategyCollaborative:
		return e.CollaborativeRecommendations(ctx, userID, limit)
	case StrategyPopular:
		return e.PopularWorkers(ctx, limit)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
}
