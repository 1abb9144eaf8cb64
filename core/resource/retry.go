package resource

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/AkmalxonWeBd/education-platform/core"
)

// RetryPolicy controls automatic retries of queries. The zero value never retries:
// a failed query stays rejected until it is explicitly re-queried.
type RetryPolicy struct {
	MaxRetries      uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (p RetryPolicy) do(ctx context.Context, fn func() (Response, error)) (Response, error) {
	if p.MaxRetries == 0 {
		return fn()
	}

	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return backoff.Retry(ctx, func() (Response, error) {
		resp, err := fn()
		if err != nil && !retryable(err) {
			return resp, backoff.Permanent(err)
		}
		return resp, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(p.MaxRetries+1))
}

// retryable: network failures and 5xx. 4xx answers will not change by asking again.
func retryable(err error) bool {
	if core.IsNetworkError(err) {
		return true
	}
	if herr, ok := core.AsHTTPError(err); ok {
		return herr.Temporary()
	}
	return false
}
