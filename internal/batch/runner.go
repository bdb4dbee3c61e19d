// Package batch drives investment synthesis over the whole catalog.
package batch

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/trogers1052/wine-investment-service/internal/database"
	"github.com/trogers1052/wine-investment-service/internal/investment"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

// Store is the catalog the batch reads wines from and writes profiles to
type Store interface {
	CountWines(ctx context.Context) (int, error)
	ListWines(ctx context.Context, afterID, limit int) ([]*models.Wine, error)
	UpdateInvestmentProfile(ctx context.Context, id int, p *models.InvestmentProfile) error
}

// Publisher announces investment changes
type Publisher interface {
	PublishProfileUpdated(ctx context.Context, runID string, wineID int, p *models.InvestmentProfile) error
	PublishBatchCompleted(ctx context.Context, summary models.BatchSummary) error
}

// Checkpoint remembers which wines a run has already written
type Checkpoint interface {
	IsDone(ctx context.Context, runID string, wineID int) (bool, error)
	MarkDone(ctx context.Context, runID string, wineID int) error
}

// Config controls a batch run
type Config struct {
	RunID    string // generated when empty
	Seed     int64  // 0 seeds from the clock
	Workers  int
	PageSize int

	MaxRetries           int // 0 uses the default, negative disables retries
	RetryInitialInterval time.Duration

	// ContinueOnError logs and counts failed rows instead of aborting the run
	ContinueOnError bool
	ProgressEvery   int
}

const (
	defaultWorkers       = 4
	defaultPageSize      = 500
	defaultMaxRetries    = 3
	defaultRetryInterval = 200 * time.Millisecond
	defaultProgressEvery = 500
)

func (c Config) withDefaults() Config {
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryInitialInterval <= 0 {
		c.RetryInitialInterval = defaultRetryInterval
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = defaultProgressEvery
	}
	return c
}

// Runner synthesizes and persists investment profiles for every wine
type Runner struct {
	store      Store
	publisher  Publisher
	checkpoint Checkpoint
	logger     *zap.Logger
	transient  func(error) bool
	cfg        Config
}

// Option customizes a Runner
type Option func(*Runner)

// WithPublisher publishes an event per updated wine and one per run
func WithPublisher(p Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// WithCheckpoint skips wines already written under the same run id
func WithCheckpoint(c Checkpoint) Option {
	return func(r *Runner) { r.checkpoint = c }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithTransientClassifier decides which store errors are retried
func WithTransientClassifier(fn func(error) bool) Option {
	return func(r *Runner) { r.transient = fn }
}

// NewRunner creates a Runner over store
func NewRunner(store Store, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		store:     store,
		logger:    zap.NewNop(),
		transient: database.IsTransient,
		cfg:       cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// RunID returns the id of the run this Runner performs
func (r *Runner) RunID() string {
	return r.cfg.RunID
}

type counters struct {
	fetched atomic.Int64
	updated atomic.Int64
	grade   atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

// Run processes every wine in the catalog. By default the first row that
// cannot be written aborts the run; rows written before that stay written.
// The returned summary reflects whatever was processed, even on error.
func (r *Runner) Run(ctx context.Context) (models.BatchSummary, error) {
	started := time.Now()
	log := r.logger.With(zap.String("run_id", r.cfg.RunID))

	expected, err := r.store.CountWines(ctx)
	if err != nil {
		log.Warn("Could not count wines before run", zap.Error(err))
	}
	log.Info("Starting investment synthesis",
		zap.Int("wines", expected),
		zap.Int("workers", r.cfg.Workers),
		zap.Int("page_size", r.cfg.PageSize),
		zap.Int64("seed", r.cfg.Seed),
	)

	var c counters
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan *models.Wine)

	g.Go(func() error {
		defer close(jobs)
		return r.produce(gctx, jobs, &c)
	})

	for i := 0; i < r.cfg.Workers; i++ {
		g.Go(func() error {
			for w := range jobs {
				err := r.process(gctx, w, &c, log, expected)
				if err == nil {
					continue
				}
				if r.cfg.ContinueOnError && gctx.Err() == nil {
					c.failed.Add(1)
					log.Error("Skipping wine after failed update", zap.Int("wine_id", w.ID), zap.Error(err))
					continue
				}
				return err
			}
			return nil
		})
	}

	runErr := g.Wait()

	summary := models.BatchSummary{
		RunID:           r.cfg.RunID,
		Total:           int(c.fetched.Load()),
		Updated:         int(c.updated.Load()),
		InvestmentGrade: int(c.grade.Load()),
		Skipped:         int(c.skipped.Load()),
		Failed:          int(c.failed.Load()),
		StartedAt:       started,
		Duration:        time.Since(started),
	}

	if runErr != nil {
		log.Error("Investment synthesis aborted",
			zap.Int("updated", summary.Updated),
			zap.Int("total", summary.Total),
			zap.Error(runErr),
		)
		return summary, runErr
	}

	log.Info("Investment synthesis complete",
		zap.Int("total", summary.Total),
		zap.Int("updated", summary.Updated),
		zap.Int("investment_grade", summary.InvestmentGrade),
		zap.Int("regular", summary.Regular()),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration),
	)

	if r.publisher != nil {
		if err := r.publisher.PublishBatchCompleted(ctx, summary); err != nil {
			log.Warn("Failed to publish batch completion", zap.Error(err))
		}
	}

	return summary, nil
}

// produce pages through the catalog by id and feeds the workers
func (r *Runner) produce(ctx context.Context, jobs chan<- *models.Wine, c *counters) error {
	afterID := 0
	for {
		var page []*models.Wine
		err := r.retry(ctx, func() error {
			var err error
			page, err = r.store.ListWines(ctx, afterID, r.cfg.PageSize)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to fetch wines after id %d: %w", afterID, err)
		}

		for _, w := range page {
			c.fetched.Add(1)
			select {
			case jobs <- w:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if len(page) < r.cfg.PageSize {
			return nil
		}
		afterID = page[len(page)-1].ID
	}
}

func (r *Runner) process(ctx context.Context, w *models.Wine, c *counters, log *zap.Logger, expected int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.checkpoint != nil {
		done, err := r.checkpoint.IsDone(ctx, r.cfg.RunID, w.ID)
		if err != nil {
			log.Warn("Checkpoint read failed, recomputing wine", zap.Int("wine_id", w.ID), zap.Error(err))
		} else if done {
			c.skipped.Add(1)
			return nil
		}
	}

	profile := investment.Synthesize(w, r.rngFor(w.ID))

	err := r.retry(ctx, func() error {
		return r.store.UpdateInvestmentProfile(ctx, w.ID, profile)
	})
	if err != nil {
		return fmt.Errorf("failed to update wine %d: %w", w.ID, err)
	}

	if profile.IsInvestmentGrade {
		c.grade.Add(1)
	}
	if n := c.updated.Add(1); n%int64(r.cfg.ProgressEvery) == 0 {
		log.Info("Processed wines", zap.Int64("processed", n), zap.Int("total", expected))
	}

	if r.checkpoint != nil {
		if err := r.checkpoint.MarkDone(ctx, r.cfg.RunID, w.ID); err != nil {
			log.Warn("Failed to record checkpoint", zap.Int("wine_id", w.ID), zap.Error(err))
		}
	}
	if r.publisher != nil {
		if err := r.publisher.PublishProfileUpdated(ctx, r.cfg.RunID, w.ID, profile); err != nil {
			log.Warn("Failed to publish investment update", zap.Int("wine_id", w.ID), zap.Error(err))
		}
	}

	return nil
}

// rngFor gives each wine its own source so results do not depend on which
// worker handles it or in what order.
func (r *Runner) rngFor(wineID int) *rand.Rand {
	return rand.New(rand.NewSource(r.cfg.Seed + int64(wineID)))
}
