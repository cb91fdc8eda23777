package docstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/logger"
)

// retryPolicy reruns store operations that fail with a retryable error
// (timeouts and connection failures), doubling the delay between attempts.
type retryPolicy struct {
	retries int
	backoff time.Duration
	logger  *zap.Logger
}

// do runs fn at most retries+1 times. It stops early on success, on an error
// that is not retryable, or when ctx is done, and returns the last error.
func (p retryPolicy) do(ctx context.Context, op string, fn func(context.Context) error) error {
	delay := p.backoff
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil || !errors.IsRetryable(err) || attempt >= p.retries {
			return err
		}

		logger.OrGlobal(p.logger).Warn("retrying store operation",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		delay *= 2
	}
}
