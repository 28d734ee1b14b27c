package embedding

import (
	"context"
	"time"

	"course-qa-be/internal/pkg/logger"
)

type loggingProvider struct {
	inner EmbeddingProvider
	log   logger.ILogger
	name  string
}

// WithLogging records every batch call (size, model, latency, cache hits or
// failure) on log, normally the isolated embedding log.
func WithLogging(p EmbeddingProvider, log logger.ILogger, name string) EmbeddingProvider {
	if log == nil {
		return p
	}
	return &loggingProvider{inner: p, log: log, name: name}
}

func (l *loggingProvider) Embed(ctx context.Context, texts []string) (*BatchResponse, error) {
	start := time.Now()
	res, err := l.inner.Embed(ctx, texts)
	if err != nil {
		l.log.Error("EMBEDDING", "Batch embedding failed", map[string]interface{}{
			"provider":   l.name,
			"batch_size": len(texts),
			"elapsed_ms": time.Since(start).Milliseconds(),
			"transient":  IsTransient(err),
			"error":      err.Error(),
		})
		return nil, err
	}

	l.log.Info("EMBEDDING", "Batch embedded", map[string]interface{}{
		"provider":   l.name,
		"model":      res.Meta.Model,
		"batch_size": len(texts),
		"latency_ms": res.Meta.LatencyMs,
		"cache_hits": res.Meta.CacheHits,
	})
	return res, nil
}
