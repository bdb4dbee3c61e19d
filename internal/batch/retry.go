package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrRetriesExhausted marks a transient failure that outlived its retries
var ErrRetriesExhausted = errors.New("retries exhausted")

const maxRetryInterval = 5 * time.Second

// retry runs op, retrying transient failures with exponential backoff.
// Non-transient errors are returned after the first attempt.
func (r *Runner) retry(ctx context.Context, op func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.cfg.RetryInitialInterval
	exp.MaxInterval = maxRetryInterval
	exp.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.cfg.MaxRetries)), ctx)

	err := backoff.RetryNotify(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !r.transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		r.logger.Warn("Transient store error, retrying", zap.Duration("backoff", wait), zap.Error(err))
	})

	if err != nil && ctx.Err() == nil && r.transient(err) {
		return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, r.cfg.MaxRetries+1, err)
	}
	return err
}
