// Package builder implements the catalog-build core: single-flight
// coordination per package type, batched concurrent version enrichment,
// and the assembly of search results into a sorted catalog.
//
// Failure policy: only build-wide failures (the search service
// unreachable or returning an unparseable result set) abort a build.
// Per-artifact and per-version failures degrade in place — sentinel file
// counts, artifactId fallback names, guessed URLs — and never abort
// sibling artifacts.
package builder

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/registry"
)

// SearchClient queries the upstream search service for artifact versions.
type SearchClient interface {
	Artifacts(ctx context.Context, query string) ([]registry.Doc, error)
}

// NameResolver resolves display name and source URL for one artifact
// version. Implementations never fail; they degrade to fallbacks.
type NameResolver interface {
	ResolveNameAndURL(ctx context.Context, groupID, artifactID, version string) (name, url string)
}

// Builder assembles the catalog for a package type.
type Builder struct {
	search         SearchClient
	scheduler      *Scheduler
	resolver       NameResolver
	types          []catalog.PackageType
	reservedPrefix string
	logger         *log.Logger
}

// Config wires a Builder's collaborators.
type Config struct {
	Search         SearchClient
	Scheduler      *Scheduler
	Resolver       NameResolver
	Types          []catalog.PackageType // defaults to catalog.DefaultTypes
	ReservedPrefix string                // artifactId prefix excluded from catalogs
	Logger         *log.Logger
}

// New creates a Builder from cfg.
func New(cfg Config) *Builder {
	types := cfg.Types
	if len(types) == 0 {
		types = catalog.DefaultTypes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		search:         cfg.Search,
		scheduler:      cfg.Scheduler,
		resolver:       cfg.Resolver,
		types:          types,
		reservedPrefix: cfg.ReservedPrefix,
		logger:         logger,
	}
}

// Types returns the configured package types.
func (b *Builder) Types() []catalog.PackageType { return b.types }

// Build assembles the catalog for one package type: search, group by
// artifact, enrich versions in batches, resolve names and URLs from the
// newest version, sort.
func (b *Builder) Build(ctx context.Context, pt catalog.PackageType) (catalog.Catalog, error) {
	start := time.Now()

	docs, err := b.search.Artifacts(ctx, pt.Query)
	if err != nil {
		return nil, err
	}

	grouped := b.group(docs)
	enriched, err := b.scheduler.Process(ctx, grouped)
	if err != nil {
		return nil, err
	}

	result := make(catalog.Catalog, 0, len(enriched))
	for key, records := range enriched {
		if len(records) == 0 {
			continue
		}
		newest := records[0].Version
		name, url := b.resolver.ResolveNameAndURL(ctx, key.GroupID, key.ArtifactID, newest)
		result = append(result, catalog.Package{
			Type:     pt.Name,
			Key:      key,
			Name:     name,
			URL:      url,
			Versions: records,
		})
	}
	result.Sort()

	b.logger.Info("built catalog",
		"type", pt.Name,
		"packages", len(result),
		"versions", len(docs),
		"duration", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// BuildAll unions the catalogs of all configured package types, in type
// order; entries are not re-sorted across types.
func (b *Builder) BuildAll(ctx context.Context) (catalog.Catalog, error) {
	var result catalog.Catalog
	for _, pt := range b.types {
		c, err := b.Build(ctx, pt)
		if err != nil {
			return nil, err
		}
		result = append(result, c...)
	}
	return result, nil
}

// group folds search docs into version lists keyed by artifact, dropping
// reserved-prefix artifacts and duplicate versions.
func (b *Builder) group(docs []registry.Doc) map[catalog.ArtifactKey][]string {
	grouped := make(map[catalog.ArtifactKey][]string)
	seen := make(map[catalog.ArtifactKey]map[string]struct{})

	for _, doc := range docs {
		if b.reservedPrefix != "" && strings.HasPrefix(doc.ArtifactID, b.reservedPrefix) {
			continue
		}
		key := catalog.ArtifactKey{GroupID: doc.GroupID, ArtifactID: doc.ArtifactID}
		if seen[key] == nil {
			seen[key] = make(map[string]struct{})
		}
		if _, dup := seen[key][doc.Version]; dup {
			continue
		}
		seen[key][doc.Version] = struct{}{}
		grouped[key] = append(grouped[key], doc.Version)
	}
	return grouped
}
