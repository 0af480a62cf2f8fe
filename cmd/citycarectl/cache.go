package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/cache"
	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/database"
	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/directory"
	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/providers/geolocation"
	"github.com/Hash-621/TEAM202507-01-Final/internal/application/services"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/clients/postgres"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/clients/redis"
	"github.com/Hash-621/TEAM202507-01-Final/pkg/config"
)

func cacheCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the durable geocode cache",
	}

	cmd.AddCommand(cachePurgeCmd(v), cacheWarmCmd(v))
	return cmd
}

func cachePurgeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired rows from the PostgreSQL geocode cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			client, err := postgres.NewClient(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer client.Close()

			adapter := database.NewGeocodeCacheAdapter(client, nil)
			if err := adapter.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			removed, err := adapter.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired geocode entries\n", removed)
			return nil
		},
	}
}

func cacheWarmCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm [domain...]",
		Short: "Geocode every directory address into the configured cache",
		Example: `  citycarectl cache warm --backend redis
  citycarectl cache warm hospital --backend postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			domains, err := parseDomains(args)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.Geolocation.CacheBackend == "none" {
				return fmt.Errorf("no geocode cache backend configured; pass --backend redis or --backend postgres")
			}

			backend, closeBackend, err := openCacheBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeBackend()

			base, err := geolocation.NewProvider(&cfg.Geolocation)
			if err != nil {
				return err
			}
			geocoder := geolocation.NewCachedProvider(base, backend, cfg.Geolocation.CacheTTLSeconds())

			warmer := services.NewCacheWarmingService(
				directory.NewHTTPClient(cfg.Directory.BaseURL, cfg.Directory.Timeout()),
				services.NewGeocodeOrchestrator(geocoder, cfg.Geolocation.MaxConcurrency, nil),
			)
			results, warmErr := warmer.WarmCache(cmd.Context(), domains...)
			if err := printJSON(cmd, results); err != nil {
				return err
			}
			return warmErr
		},
	}

	cmd.Flags().String("backend", "", "geocode cache backend (redis or postgres)")
	_ = v.BindPFlag("geolocation.cache_backend", cmd.Flags().Lookup("backend"))

	return cmd
}

func parseDomains(args []string) ([]entities.Domain, error) {
	if len(args) == 0 {
		return []entities.Domain{entities.DomainHospital, entities.DomainRestaurant}, nil
	}
	domains := make([]entities.Domain, 0, len(args))
	for _, raw := range args {
		domain, ok := entities.ParseDomain(raw)
		if !ok {
			return nil, fmt.Errorf("unknown domain %q", raw)
		}
		domains = append(domains, domain)
	}
	return domains, nil
}

// openCacheBackend connects the configured cache; the returned func releases it
func openCacheBackend(ctx context.Context, cfg *config.Config) (providers.CacheProvider, func(), error) {
	switch cfg.Geolocation.CacheBackend {
	case "redis":
		client, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisAdapter(client, nil), func() { _ = client.Close() }, nil
	case "postgres":
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		adapter := database.NewGeocodeCacheAdapter(client, nil)
		if err := adapter.EnsureSchema(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		return adapter, func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported geocode cache backend %q", cfg.Geolocation.CacheBackend)
	}
}
