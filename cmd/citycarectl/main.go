package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hash-621/TEAM202507-01-Final/pkg/config"
)

const envPrefix = "CITYCARE"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree around one viper instance. Flags win over
// CITYCARE_* environment variables, which win over the config file, which wins
// over the service's own environment defaults.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "citycarectl",
		Short:         "Operator tool for the facility recommender",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("timezone", "", "IANA timezone for business hours (default Asia/Seoul)")

	_ = v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("timezone", root.PersistentFlags().Lookup("timezone"))

	root.AddCommand(classifyCmd())
	root.AddCommand(hoursCmd(v))
	root.AddCommand(recommendCmd(v))
	root.AddCommand(cacheCmd(v))

	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	level, err := zerolog.ParseLevel(v.GetString("log.level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	// stdout carries command output; logs go to stderr
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("service", "citycarectl").
		Logger()

	return nil
}

// loadConfig starts from the service configuration and overlays every key set
// through flags, CITYCARE_* variables or the config file.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	overlayString(v, "timezone", &cfg.App.Timezone)
	overlayInt(v, "recommend.top_n", &cfg.Recommend.TopN)

	overlayString(v, "directory.base_url", &cfg.Directory.BaseURL)
	overlayInt(v, "directory.timeout_seconds", &cfg.Directory.TimeoutSeconds)

	overlayString(v, "geolocation.provider", &cfg.Geolocation.Provider)
	overlayString(v, "geolocation.api_key", &cfg.Geolocation.APIKey)
	overlayInt(v, "geolocation.max_concurrency", &cfg.Geolocation.MaxConcurrency)
	overlayString(v, "geolocation.cache_backend", &cfg.Geolocation.CacheBackend)

	overlayString(v, "redis.host", &cfg.Redis.Host)
	overlayInt(v, "redis.port", &cfg.Redis.Port)
	overlayString(v, "redis.password", &cfg.Redis.Password)

	overlayString(v, "database.host", &cfg.Database.Host)
	overlayInt(v, "database.port", &cfg.Database.Port)
	overlayString(v, "database.user", &cfg.Database.User)
	overlayString(v, "database.password", &cfg.Database.Password)
	overlayString(v, "database.name", &cfg.Database.Database)
	overlayString(v, "database.sslmode", &cfg.Database.SSLMode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlayString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
}

func overlayInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func printJSON(cmd *cobra.Command, value interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
