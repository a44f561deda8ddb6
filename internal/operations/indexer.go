package operations

import (
	"context"
	"time"

	"outofschool/internal/constants"
	"outofschool/internal/errors"
	"outofschool/internal/logger"
	"outofschool/internal/metrics"
)

// ReindexStats summarizes an index rebuild
type ReindexStats struct {
	Indexed  int           `json:"indexed"`
	Removed  int           `json:"removed"`
	Batches  int           `json:"batches"`
	Duration time.Duration `json:"duration"`
}

// Indexer keeps the search index in line with the relational catalog
type Indexer struct {
	source    WorkshopSource
	index     IndexWriter
	batchSize int
	metrics   *metrics.Metrics
}

// NewIndexer creates a new Indexer. A batchSize of zero uses the default.
func NewIndexer(source WorkshopSource, index IndexWriter, batchSize int, m *metrics.Metrics) *Indexer {
	if batchSize <= 0 {
		batchSize = constants.DefaultReindexBatchSize
	}
	return &Indexer{
		source:    source,
		index:     index,
		batchSize: batchSize,
		metrics:   m,
	}
}

// Reindex streams every workshop into the index in id order and then drops
// indexed documents that no longer exist in the catalog.
func (ix *Indexer) Reindex(ctx context.Context) (ReindexStats, error) {
	stats, err := ix.reindex(ctx)
	if err != nil {
		ix.metrics.RecordReindex(outcomeOf(err), 0)
		logger.WithContext(ctx).WithError(err).WithFields(logger.Fields{
			"indexed": stats.Indexed,
			"batches": stats.Batches,
		}).Error("Search index rebuild failed")
		return stats, err
	}

	ix.metrics.RecordReindex(metrics.OutcomeSuccess, stats.Indexed)
	logger.WithContext(ctx).WithFields(logger.Fields{
		"indexed":  stats.Indexed,
		"removed":  stats.Removed,
		"batches":  stats.Batches,
		"duration": stats.Duration.String(),
	}).Info("Search index rebuilt")
	return stats, nil
}

func (ix *Indexer) reindex(ctx context.Context) (ReindexStats, error) {
	var stats ReindexStats
	start := time.Now()
	seen := make(map[string]struct{})

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return stats, errors.Cancelled("reindex", err)
		}

		batch, err := ix.source.WorkshopBatch(ctx, after, ix.batchSize)
		if err != nil {
			return stats, err
		}
		if len(batch) == 0 {
			break
		}

		if err := ix.index.Upsert(ctx, batch...); err != nil {
			return stats, err
		}
		for _, w := range batch {
			seen[w.ID] = struct{}{}
		}
		stats.Indexed += len(batch)
		stats.Batches++
		after = batch[len(batch)-1].ID

		logger.WithContext(ctx).WithFields(logger.Fields{
			"batch":   stats.Batches,
			"indexed": stats.Indexed,
		}).Debug("Indexed workshop batch")

		if len(batch) < ix.batchSize {
			break
		}
	}

	existing, err := ix.index.IDs(ctx)
	if err != nil {
		return stats, err
	}
	var stale []string
	for _, id := range existing {
		if _, ok := seen[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := ix.index.Delete(ctx, stale...); err != nil {
		return stats, err
	}
	stats.Removed = len(stale)
	stats.Duration = time.Since(start)
	return stats, nil
}

// IndexWorkshop reindexes one workshop. A workshop missing from the catalog
// is removed from the index.
func (ix *Indexer) IndexWorkshop(ctx context.Context, id string) error {
	w, err := ix.source.Workshop(ctx, id)
	if errors.HasCode(err, errors.ErrNotFound) {
		return ix.RemoveWorkshop(ctx, id)
	}
	if err != nil {
		return err
	}

	if err := ix.index.Upsert(ctx, w); err != nil {
		return err
	}
	logger.WithContext(ctx).WithField("workshop_id", id).Debug("Workshop indexed")
	return nil
}

// RemoveWorkshop deletes one workshop from the index
func (ix *Indexer) RemoveWorkshop(ctx context.Context, id string) error {
	if err := ix.index.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithContext(ctx).WithField("workshop_id", id).Debug("Workshop removed from index")
	return nil
}

func outcomeOf(err error) string {
	switch {
	case errors.IsCancelled(err):
		return metrics.OutcomeCancelled
	case errors.IsStorage(err):
		return metrics.OutcomeStorage
	default:
		return metrics.OutcomeOtherError
	}
}
