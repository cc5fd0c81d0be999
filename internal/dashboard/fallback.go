package dashboard

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var errDegraded = errors.New("read degraded to fallback")

// WithFallback runs read under timeout. On timeout or error it logs and
// returns fallback together with errDegraded, so callers can tell a real
// zero from a substituted one.
func WithFallback[T any](ctx context.Context, timeout time.Duration, log *zap.Logger, name string, fallback T, read func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := read(ctx)
		done <- outcome{value, err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			log.Warn("Dashboard read failed, using fallback", zap.String("read", name), zap.Error(out.err))
			return fallback, errDegraded
		}
		return out.value, nil
	case <-ctx.Done():
		log.Warn("Dashboard read timed out, using fallback", zap.String("read", name), zap.Duration("timeout", timeout))
		return fallback, errDegraded
	}
}
