package monitor

import (
	"context"
	"errors"
	"time"

	"poolmon/internal/chain"
)

const defaultRetryBackoff = 100 * time.Millisecond

// retryPolicy bounds how often a failed contract call is attempted again.
// The delay doubles after every failed attempt.
type retryPolicy struct {
	maxRetries int
	backoff    time.Duration
}

// retryable reports whether another attempt could succeed. A reply that
// arrived but could not be decoded, or a call the reader refuses to encode,
// fails the same way every time.
func retryable(err error) bool {
	return !errors.Is(err, ErrMalformedResponse) &&
		!errors.Is(err, chain.ErrUnsupportedCall) &&
		!errors.Is(err, context.Canceled)
}

// run invokes call until it succeeds, fails with a non-retryable error, the
// retry budget is spent, or ctx is done. onFailure sees every failed attempt
// and whether it was the last one.
func (p retryPolicy) run(ctx context.Context, call func(context.Context) error, onFailure func(attempt int, final bool, err error)) error {
	delay := p.backoff
	if delay <= 0 {
		delay = defaultRetryBackoff
	}

	for attempt := 1; ; attempt++ {
		err := call(ctx)
		if err == nil {
			return nil
		}

		final := attempt > p.maxRetries || !retryable(err) || ctx.Err() != nil
		if onFailure != nil {
			onFailure(attempt, final, err)
		}
		if final {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
