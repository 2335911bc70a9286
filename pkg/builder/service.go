package builder

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/packdex/packdex/pkg/cache"
	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/observability"
)

// Archive persists successful catalog snapshots. It is the stale-read
// fallback while a rebuild is in flight and an audit trail of what was
// published when. Implementations must tolerate concurrent use.
type Archive interface {
	Save(ctx context.Context, typeName, buildID string, c catalog.Catalog) error
	Latest(ctx context.Context, typeName string) (catalog.Catalog, time.Time, error)
}

// Service serves catalogs through the ephemeral snapshot cache and the
// single-flight coordinator. Reads hit the cache; a miss triggers exactly
// one rebuild per package type, with concurrent callers failing fast with
// [ErrBuildInProgress].
type Service struct {
	cache   cache.Cache
	coord   *Coordinator
	builder *Builder
	archive Archive // optional, nil disables snapshots
	ttl     time.Duration
	logger  *log.Logger
}

// NewService wires the service. A ttl of 0 uses [cache.TTLCatalog];
// archive may be nil; a nil logger discards output.
func NewService(c cache.Cache, coord *Coordinator, b *Builder, archive Archive, ttl time.Duration, logger *log.Logger) *Service {
	if c == nil {
		c = cache.NewNullCache()
	}
	if coord == nil {
		coord = NewCoordinator()
	}
	if ttl <= 0 {
		ttl = cache.TTLCatalog
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{cache: c, coord: coord, builder: b, archive: archive, ttl: ttl, logger: logger}
}

// Types returns the configured package types.
func (s *Service) Types() []catalog.PackageType { return s.builder.Types() }

// Catalog returns the catalog for pt, serving the cached snapshot when
// fresh and rebuilding otherwise. While another caller's rebuild for the
// same type is running, it fails with [ErrBuildInProgress] instead of
// waiting or duplicating the work.
func (s *Service) Catalog(ctx context.Context, pt catalog.PackageType) (catalog.Catalog, error) {
	var cached catalog.Catalog
	if hit, _ := cache.GetJSON(ctx, s.cache, cache.CatalogKey(pt.Name), &cached); hit {
		observability.Build().OnSnapshotHit(ctx, pt.Name)
		return cached, nil
	}
	return s.Rebuild(ctx, pt)
}

// Rebuild builds the catalog for pt under the single-flight guard,
// refreshes the snapshot cache on success, and archives the snapshot.
// A failed build leaves any previous cached snapshot untouched.
func (s *Service) Rebuild(ctx context.Context, pt catalog.PackageType) (catalog.Catalog, error) {
	return s.coord.Run(ctx, pt, func(ctx context.Context) (catalog.Catalog, error) {
		buildID := uuid.NewString()
		start := time.Now()
		s.logger.Info("rebuilding catalog", "type", pt.Name, "build_id", buildID)
		observability.Build().OnBuildStart(ctx, pt.Name, buildID)

		built, err := s.builder.Build(ctx, pt)
		observability.Build().OnBuildComplete(ctx, pt.Name, buildID, len(built), time.Since(start), err)
		if err != nil {
			s.logger.Error("catalog build failed", "type", pt.Name, "build_id", buildID, "err", err)
			return nil, err
		}

		if err := cache.SetJSON(ctx, s.cache, cache.CatalogKey(pt.Name), built, s.ttl); err != nil {
			s.logger.Warn("snapshot cache write failed", "type", pt.Name, "err", err)
		}
		if s.archive != nil {
			if err := s.archive.Save(ctx, pt.Name, buildID, built); err != nil {
				s.logger.Warn("snapshot archive failed", "type", pt.Name, "err", err)
			}
		}
		return built, nil
	})
}

// Stale returns the last archived snapshot for a type, for serving while
// a rebuild is in flight. Without an archive, or without a snapshot, it
// returns an empty catalog and a zero time.
func (s *Service) Stale(ctx context.Context, typeName string) (catalog.Catalog, time.Time, error) {
	if s.archive == nil {
		return nil, time.Time{}, nil
	}
	return s.archive.Latest(ctx, typeName)
}

// All unions the catalogs of every configured type, in type order. Types
// whose rebuild is currently in flight are served from the archive when
// possible and skipped otherwise; any other failure aborts.
func (s *Service) All(ctx context.Context) (catalog.Catalog, error) {
	var result catalog.Catalog
	for _, pt := range s.builder.Types() {
		c, err := s.Catalog(ctx, pt)
		if errors.Is(err, ErrBuildInProgress) {
			if stale, _, serr := s.Stale(ctx, pt.Name); serr == nil && stale != nil {
				result = append(result, stale...)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, c...)
	}
	return result, nil
}
