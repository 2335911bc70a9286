package builder

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/packdex/packdex/pkg/catalog"
)

// DefaultBatchSize is the number of artifacts enriched concurrently before
// the next batch starts.
const DefaultBatchSize = 100

// VersionEnricher produces the enriched version records for one artifact.
type VersionEnricher interface {
	// Enrich returns one record per input version, sorted newest-first.
	// It only fails on context cancellation; per-version upstream
	// failures degrade to sentinel records instead.
	Enrich(ctx context.Context, key catalog.ArtifactKey, versions []string) ([]catalog.VersionRecord, error)
}

// Scheduler drives version enrichment in bounded batches. Batches run
// strictly sequentially; within a batch every artifact is enriched
// concurrently. This caps the number of outstanding upstream calls at
// batch size times the average version count per artifact, instead of the
// full catalog size.
type Scheduler struct {
	enricher  VersionEnricher
	batchSize int
	logger    *log.Logger
}

// NewScheduler creates a scheduler over the given enricher.
// A batchSize of 0 uses [DefaultBatchSize]. A nil logger discards output.
func NewScheduler(enricher VersionEnricher, batchSize int, logger *log.Logger) *Scheduler {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{enricher: enricher, batchSize: batchSize, logger: logger}
}

// Process enriches every artifact in the input mapping and folds the
// results into a single mapping with exactly the input's keys. Batch
// order is deterministic (keys sorted by coordinate); completion order
// within a batch is not, results are joined by key. The only failure mode
// is context cancellation.
func (s *Scheduler) Process(ctx context.Context, artifacts map[catalog.ArtifactKey][]string) (map[catalog.ArtifactKey][]catalog.VersionRecord, error) {
	keys := make([]catalog.ArtifactKey, 0, len(artifacts))
	for key := range artifacts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	out := make(map[catalog.ArtifactKey][]catalog.VersionRecord, len(artifacts))
	var mu sync.Mutex

	for start := 0; start < len(keys); start += s.batchSize {
		batch := keys[start:min(start+s.batchSize, len(keys))]
		s.logger.Debug("enriching batch", "artifacts", len(batch), "done", start, "total", len(keys))

		g, gctx := errgroup.WithContext(ctx)
		for _, key := range batch {
			g.Go(func() error {
				records, err := s.enricher.Enrich(gctx, key, artifacts[key])
				if err != nil {
					return err
				}
				mu.Lock()
				out[key] = records
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
