package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/packdex/packdex/pkg/archive"
	"github.com/packdex/packdex/pkg/builder"
	"github.com/packdex/packdex/pkg/cache"
	"github.com/packdex/packdex/pkg/registry"
)

// newService assembles the full build core from configuration over the
// given cache backend. The returned cleanup closes the archive connection
// when one was configured.
func (c *CLI) newService(ctx context.Context, cfg Config, store cache.Cache) (*builder.Service, func(), error) {
	client := registry.NewClient(store, nil)

	search := registry.NewSearch(client, cfg.Search.URLTemplate)
	counts := registry.NewFileCounts(client, cfg.Search.URLTemplate)
	descriptors := registry.NewDescriptors(client, cfg.Repo.BaseURL, cfg.Repo.GuessBase, c.Logger)

	enricher := builder.NewEnricher(store, counts, c.Logger)
	scheduler := builder.NewScheduler(enricher, cfg.Build.BatchSize, c.Logger)

	b := builder.New(builder.Config{
		Search:         search,
		Scheduler:      scheduler,
		Resolver:       descriptors,
		Types:          cfg.Types,
		ReservedPrefix: cfg.Build.ReservedPrefix,
		Logger:         c.Logger,
	})

	cleanup := func() {}
	var snapshots builder.Archive
	if cfg.Mongo.URI != "" {
		store, err := archive.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		snapshots = store
		cleanup = func() { _ = store.Close(context.Background()) }
	}

	svc := builder.NewService(store, builder.NewCoordinator(), b, snapshots, cfg.Build.CatalogTTL.Duration, c.Logger)
	return svc, cleanup, nil
}

// newCache selects the cache backend: Redis when configured, otherwise
// the given fallback constructor.
func (c *CLI) newCache(ctx context.Context, cfg Config, fallback func() (cache.Cache, error)) (cache.Cache, error) {
	if cfg.Redis.Addr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return fallback()
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/packdex/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
