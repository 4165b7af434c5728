package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// MaxRetries : chaque opération logique (page ou annuaire) est retentée 2 fois au plus.
const MaxRetries = 2

type RetryPolicy struct {
	MaxRetries int
	Interval   time.Duration // premier délai, exponentiel ensuite
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: MaxRetries, Interval: 300 * time.Millisecond}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	if p.Interval <= 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	b.MaxInterval = 10 * p.Interval
	return b
}

// retry exécute op au plus MaxRetries+1 fois.
func retry[T any](ctx context.Context, p RetryPolicy, name string, op func() (T, error)) (T, error) {
	tries := uint(max(p.MaxRetries, 0) + 1)
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(p.backOff()),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("🔁 Retrying upstream fetch", "operation", name, "error", err, "backoff", next)
		}),
	)
}
