package embedding

import (
	"context"
	"time"
)

type retryProvider struct {
	inner   EmbeddingProvider
	retries int
	wait    time.Duration
}

// WithRetry re-issues a batch up to retries extra times when the failure is
// transient. Auth, bad-request and malformed-response errors return at once.
func WithRetry(p EmbeddingProvider, retries int, wait time.Duration) EmbeddingProvider {
	if retries <= 0 {
		return p
	}
	return &retryProvider{inner: p, retries: retries, wait: wait}
}

func (r *retryProvider) Embed(ctx context.Context, texts []string) (*BatchResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 && r.wait > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.wait):
			}
		}

		res, err := r.inner.Embed(ctx, texts)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !IsTransient(err) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}
