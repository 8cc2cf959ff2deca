package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sewalink/internal/logger"
	"github.com/spigell/sewalink/internal/recommend"
	"github.com/spigell/sewalink/internal/secrets"
	"github.com/spigell/sewalink/internal/store"
)

// bootstrap builds the logger and loads the config, exiting on failure.
func bootstrap() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Database == nil {
		logger.Fatal("database configuration is required")
	}

	if config.Recommend == nil {
		config.Recommend = &RecommendConfig{Limit: recommend.DefaultLimit}
	}

	logger.Debug("starting with config",
		zap.String("version", version),
		zap.String("driver", config.Database.Driver),
		zap.Int("limit", config.Recommend.Limit),
		zap.String("strategy", config.Recommend.Strategy),
	)

	return logger, config
}

func openStore(cfg *DatabaseConfig, logger *zap.Logger) (*store.Store, error) {
	password, err := resolvePassword(cfg)
	if err != nil {
		return nil, err
	}

	return store.Open(store.Config{
		Driver:        cfg.Driver,
		DSN:           cfg.DSN,
		Password:      password,
		SlowThreshold: cfg.SlowThreshold,
	}, logger)
}

// resolvePassword returns an empty password when none is configured; the DSN
// may carry its own.
func resolvePassword(cfg *DatabaseConfig) (string, error) {
	src := secrets.Source{
		Name:  "database password",
		Value: cfg.Password,
		File:  cfg.PasswordFile,
	}

	if !src.IsSet() {
		return "", nil
	}

	return secrets.Load(src)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// request is one invocation of a recommendation strategy.
type request struct {
	Strategy recommend.Strategy
	UserID   int64
	Limit    int
	Explain  bool
}

// recommender runs requests against the engine and prints the result.
type recommender struct {
	engine          *recommend.Engine
	logger          *zap.Logger
	out             io.Writer
	fallbackOnError bool
}

func (r *recommender) run(ctx context.Context, req request) error {
	reqLogger := logger.WithRecommendation(r.logger, uuid.NewString(), string(req.Strategy), req.UserID, req.Limit)

	if req.UserID <= 0 && req.Strategy != recommend.StrategyPopular {
		reqLogger.Info("no user given, anonymous requests get no recommendations")
	}

	if req.Explain {
		if req.Strategy == recommend.StrategyContent {
			return r.explain(ctx, reqLogger, req)
		}
		reqLogger.Warn("explain is only supported for the content strategy, ignoring")
	}

	workers, err := r.engine.Recommend(ctx, req.Strategy, req.UserID, req.Limit)
	if err != nil {
		workers, err = r.fallback(ctx, reqLogger, req, err)
		if err != nil {
			return err
		}
	}

	reqLogger.Info("recommended workers", zap.Int("count", len(workers)))

	return printJSON(r.out, workers)
}

func (r *recommender) explain(ctx context.Context, reqLogger *zap.Logger, req request) error {
	ranking, err := r.engine.Explain(ctx, req.UserID, req.Limit)
	if err != nil {
		workers, err := r.fallback(ctx, reqLogger, req, err)
		if err != nil {
			return err
		}
		ranking = &recommend.Ranking{Fallback: true}
		for _, w := range workers {
			ranking.Workers = append(ranking.Workers, recommend.ScoredWorker{Worker: w})
		}
	}

	reqLogger.Info("ranked workers",
		zap.Int("count", len(ranking.Workers)),
		zap.Bool("fallback", ranking.Fallback),
	)

	return printJSON(r.out, ranking)
}

// fallback degrades a failed request to the popularity list when enabled.
func (r *recommender) fallback(ctx context.Context, reqLogger *zap.Logger, req request, cause error) ([]recommend.Worker, error) {
	if !r.fallbackOnError || req.Strategy == recommend.StrategyPopular {
		return nil, fmt.Errorf("%s recommendations: %w", req.Strategy, cause)
	}

	reqLogger.Warn("recommendation failed, falling back to popular workers", zap.Error(cause))

	workers, err := r.engine.PopularWorkers(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("popular fallback after %v: %w", cause, err)
	}

	return workers, nil
}
