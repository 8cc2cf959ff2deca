package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/sewalink/internal/recommend"
	"github.com/spigell/sewalink/internal/store"
)

const (
	app       = "sewalink"
	envPrefix = "SEWALINK"
)

type Config struct {
	Database  *DatabaseConfig  `mapstructure:"database"`
	Recommend *RecommendConfig `mapstructure:"recommend"`
}

type DatabaseConfig struct {
	Driver        string        `mapstructure:"driver"`
	DSN           string        `mapstructure:"dsn"`
	Password      string        `mapstructure:"password"`
	PasswordFile  string        `mapstructure:"password-file"`
	SlowThreshold time.Duration `mapstructure:"slow-threshold"`
}

type RecommendConfig struct {
	Limit           int    `mapstructure:"limit"`
	Strategy        string `mapstructure:"strategy"`
	FallbackOnError bool   `mapstructure:"fallback-on-error"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "sewalink recommends local service workers to customers from their booking history",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("database.driver", store.DriverSQLite)
	viper.SetDefault("database.dsn", "sewalink.db")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.password-file", "")
	viper.SetDefault("database.slow-threshold", time.Second)
	viper.SetDefault("recommend.limit", recommend.DefaultLimit)
	viper.SetDefault("recommend.strategy", string(recommend.StrategyContent))
	viper.SetDefault("recommend.fallback-on-error", false)

	if err := viper.BindEnv("database.password-file", "SEWALINK_DATABASE_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding SEWALINK_DATABASE_PASSWORD_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is sewalink.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("db-driver", "", "database driver: sqlite or postgres")
	rootCmd.PersistentFlags().String("db-dsn", "", "database DSN (sqlite file path or postgres URL)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("database.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	viper.BindPFlag("database.dsn", rootCmd.PersistentFlags().Lookup("db-dsn"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine, defaults and env cover everything.
	// An explicit or broken config file is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
