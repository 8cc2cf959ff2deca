package cmd

import (
	"context"
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sewalink/internal/recommend"
)

const PromptExit = "exit"

var errExit = errors.New("exit requested")

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend workers for a customer",
	Run: func(cmd *cobra.Command, _ []string) {
		runRecommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().Int64P("user", "u", 0, "customer id to recommend workers for")
	recommendCmd.Flags().IntP("limit", "l", 0, "maximum number of workers (default from config, 3)")
	recommendCmd.Flags().StringP("strategy", "s", "", "content, collaborative or popular")
	recommendCmd.Flags().Bool("explain", false, "print the score breakdown (content strategy only)")
	recommendCmd.Flags().BoolP("interactive", "i", false, "pick strategies from a prompt until exit")
	recommendCmd.Flags().Bool("fallback-on-error", false, "print popular workers when the chosen strategy fails")

	viper.BindPFlag("recommend.limit", recommendCmd.Flags().Lookup("limit"))
	viper.BindPFlag("recommend.strategy", recommendCmd.Flags().Lookup("strategy"))
	viper.BindPFlag("recommend.fallback-on-error", recommendCmd.Flags().Lookup("fallback-on-error"))
}

func runRecommend(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := bootstrap()

	strategy, err := recommend.ParseStrategy(config.Recommend.Strategy)
	if err != nil {
		logger.Fatal("parsing strategy", zap.Error(err), zap.Any("supported", recommend.Strategies()))
	}

	userID, _ := cmd.Flags().GetInt64("user")
	explain, _ := cmd.Flags().GetBool("explain")
	interactive, _ := cmd.Flags().GetBool("interactive")

	s, err := openStore(config.Database, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer s.Close()

	r := &recommender{
		engine:          recommend.New(s, logger),
		logger:          logger,
		out:             cmd.OutOrStdout(),
		fallbackOnError: config.Recommend.FallbackOnError,
	}

	req := request{
		Strategy: strategy,
		UserID:   userID,
		Limit:    config.Recommend.Limit,
		Explain:  explain,
	}

	if !interactive {
		if err := r.run(ctx, req); err != nil {
			logger.Fatal("recommending workers", zap.Error(err))
		}
		return
	}

	for {
		if err := promptStrategy(&req); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		// A failed strategy is reported, the session goes on.
		if err := r.run(ctx, req); err != nil {
			logger.Error("recommending workers", zap.Error(err))
		}
	}
}

// promptStrategy asks for the next strategy and stores it in req.
func promptStrategy(req *request) error {
	items := make([]string, 0, len(recommend.Strategies())+1)
	for _, s := range recommend.Strategies() {
		items = append(items, string(s))
	}

	prompt := promptui.Select{
		Label: "Strategy",
		Items: append(items, PromptExit),
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return err
	}

	if selected == PromptExit {
		return errExit
	}

	strategy, err := recommend.ParseStrategy(selected)
	if err != nil {
		return err
	}

	req.Strategy = strategy
	return nil
}
