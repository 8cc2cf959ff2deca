package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/sewalink/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load marketplace rows from a YAML fixture",
	Run: func(cmd *cobra.Command, _ []string) {
		runSeed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringP("file", "f", "", "fixture file with categories, users, workers, bookings and reviews")
	seedCmd.Flags().Bool("migrate-only", false, "only create or update the schema")
}

func runSeed(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := bootstrap()

	file, _ := cmd.Flags().GetString("file")
	migrateOnly, _ := cmd.Flags().GetBool("migrate-only")

	if file == "" && !migrateOnly {
		logger.Fatal("fixture file is required", zap.String("hint", "pass --file or --migrate-only"))
	}

	s, err := openStore(config.Database, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		logger.Fatal("migrating the schema", zap.Error(err))
	}

	logger.Info("schema is up to date", zap.String("driver", config.Database.Driver))

	if migrateOnly {
		return
	}

	fixture, err := store.LoadFixture(file)
	if err != nil {
		logger.Fatal("loading the fixture", zap.Error(err), zap.String("file", file))
	}

	if _, err := s.Seed(ctx, fixture); err != nil {
		logger.Fatal("seeding the store", zap.Error(err), zap.String("file", file))
	}
}
