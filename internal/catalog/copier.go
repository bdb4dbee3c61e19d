// Package catalog copies the storefront wine catalog between databases.
package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trogers1052/wine-investment-service/internal/models"
)

// DefaultPageSize is the number of rows read from the source per query
const DefaultPageSize = 100

// Source is the database wines are copied from
type Source interface {
	CountWines(ctx context.Context) (int, error)
	ListCatalogWines(ctx context.Context, afterID, limit int) ([]*models.CatalogWine, error)
}

// Target is the database wines are copied into
type Target interface {
	CountWines(ctx context.Context) (int, error)
	InsertCatalogWine(ctx context.Context, w *models.CatalogWine) (bool, error)
	ResetWineSequence(ctx context.Context) error
}

// CopySummary reports the outcome of a copy
type CopySummary struct {
	SourceCount int
	TargetCount int
	Inserted    int
	Existing    int
	Duration    time.Duration
}

// Copier copies every source row into the target, keeping ids. Rows whose id
// already exists in the target are left untouched.
type Copier struct {
	source   Source
	target   Target
	pageSize int
	logger   *zap.Logger
}

// NewCopier creates a Copier. A pageSize below 1 uses DefaultPageSize.
func NewCopier(source Source, target Target, pageSize int, logger *zap.Logger) *Copier {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Copier{source: source, target: target, pageSize: pageSize, logger: logger}
}

// Copy runs the copy and resets the target's id sequence afterwards
func (c *Copier) Copy(ctx context.Context) (CopySummary, error) {
	started := time.Now()
	var summary CopySummary

	total, err := c.source.CountWines(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to count source wines: %w", err)
	}
	summary.SourceCount = total
	c.logger.Info("Copying catalog", zap.Int("source_wines", total), zap.Int("page_size", c.pageSize))

	afterID, done := 0, 0
	for {
		page, err := c.source.ListCatalogWines(ctx, afterID, c.pageSize)
		if err != nil {
			return summary, fmt.Errorf("failed to read source wines after id %d: %w", afterID, err)
		}

		for _, w := range page {
			inserted, err := c.target.InsertCatalogWine(ctx, w)
			if err != nil {
				return summary, err
			}
			if inserted {
				summary.Inserted++
			} else {
				summary.Existing++
			}
		}
		done += len(page)

		if len(page) > 0 {
			afterID = page[len(page)-1].ID
			c.logger.Info("Copied page",
				zap.Int("copied", done),
				zap.Int("total", total),
				zap.Float64("percent", percent(done, total)),
			)
		}
		if len(page) < c.pageSize {
			break
		}
	}

	if err := c.target.ResetWineSequence(ctx); err != nil {
		return summary, err
	}

	summary.TargetCount, err = c.target.CountWines(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to count target wines: %w", err)
	}
	summary.Duration = time.Since(started)

	c.logger.Info("Catalog copy complete",
		zap.Int("source_wines", summary.SourceCount),
		zap.Int("target_wines", summary.TargetCount),
		zap.Int("inserted", summary.Inserted),
		zap.Int("already_present", summary.Existing),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func percent(done, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(done*1000/total) / 10
}
