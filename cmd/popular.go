package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/sewalink/internal/recommend"
)

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most popular available workers",
	Run: func(cmd *cobra.Command, _ []string) {
		runPopular(cmd)
	},
}

func init() {
	rootCmd.AddCommand(popularCmd)

	popularCmd.Flags().IntP("limit", "l", 0, "maximum number of workers (default from config, 3)")
}

func runPopular(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := bootstrap()

	limit := config.Recommend.Limit
	if cmd.Flags().Changed("limit") {
		limit, _ = cmd.Flags().GetInt("limit")
	}

	s, err := openStore(config.Database, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer s.Close()

	r := &recommender{
		engine: recommend.New(s, logger),
		logger: logger,
		out:    cmd.OutOrStdout(),
	}

	if err := r.run(ctx, request{Strategy: recommend.StrategyPopular, Limit: limit}); err != nil {
		logger.Fatal("listing popular workers", zap.Error(err))
	}
}
