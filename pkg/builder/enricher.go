package builder

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/packdex/packdex/pkg/cache"
	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/registry"
)

// CountFetcher retrieves the file count of one published artifact version.
// The upstream service is a separate call per version and is expected to
// be flaky for long-tail versions; callers must tolerate per-call failure.
type CountFetcher interface {
	Count(ctx context.Context, groupID, artifactID, version string) (int, error)
}

// Enricher resolves file counts for an artifact's versions through the
// durable cache. Counts of published versions never change, so cache
// entries are stored without expiry and failed lookups are never cached.
type Enricher struct {
	cache  cache.Cache
	counts CountFetcher
	logger *log.Logger
}

// NewEnricher creates an enricher over the given cache and count fetcher.
// A nil logger discards output.
func NewEnricher(c cache.Cache, counts CountFetcher, logger *log.Logger) *Enricher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Enricher{cache: c, counts: counts, logger: logger}
}

// Enrich returns one record per version, sorted newest-first. A failed
// count lookup is logged and recorded with a zero count rather than
// failing the artifact; the error return is reserved for context
// cancellation.
func (e *Enricher) Enrich(ctx context.Context, key catalog.ArtifactKey, versions []string) ([]catalog.VersionRecord, error) {
	records := make([]catalog.VersionRecord, 0, len(versions))
	for _, version := range versions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, catalog.VersionRecord{
			Version:   version,
			FileCount: e.fileCount(ctx, key, version),
		})
	}
	catalog.SortVersionsDesc(records)
	return records, nil
}

func (e *Enricher) fileCount(ctx context.Context, key catalog.ArtifactKey, version string) int {
	cacheKey := cache.CountKey(key.GroupID, key.ArtifactID, version)

	var count int
	if hit, _ := cache.GetJSON(ctx, e.cache, cacheKey, &count); hit {
		return count
	}

	// Transient upstream failures (5xx) are retried with backoff before
	// the version degrades to the sentinel.
	err := registry.RetryWithBackoff(ctx, func() error {
		n, err := e.counts.Count(ctx, key.GroupID, key.ArtifactID, version)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		e.logger.Warn("file count lookup failed",
			"artifact", key.String(), "version", version, "err", err)
		return 0
	}
	_ = cache.SetJSON(ctx, e.cache, cacheKey, count, cache.TTLForever)
	return count
}
