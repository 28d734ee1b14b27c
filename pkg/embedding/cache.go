package embedding

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// CachedProvider keeps vectors per model and text hash in an in-process cache
// (L1) and, when configured, Redis (L2). Only misses are sent to the inner
// provider, in a single batch.
type CachedProvider struct {
	inner     EmbeddingProvider
	local     *cache.Cache
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	model     string
}

func NewCachedProvider(inner EmbeddingProvider, local *cache.Cache, rdb *redis.Client, ttl time.Duration, namespace string) *CachedProvider {
	if local == nil {
		local = cache.New(ttl, 10*time.Minute)
	}
	if namespace == "" {
		namespace = "embedding"
	}
	return &CachedProvider{
		inner:     inner,
		local:     local,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		model:     ModelOf(inner),
	}
}

// WithModel sets the model id that keys the cache and is reported on cache hits.
func (c *CachedProvider) WithModel(model string) *CachedProvider {
	c.model = model
	return c
}

func (c *CachedProvider) key(hash string) string {
	return c.namespace + ":" + c.model + ":" + hash
}

func (c *CachedProvider) Embed(ctx context.Context, texts []string) (*BatchResponse, error) {
	hashes := hashAll(texts)
	vectors := make([][]float32, len(texts))

	var missIdx []int
	for i, h := range hashes {
		if v, ok := c.lookup(ctx, h); ok {
			vectors[i] = v
			continue
		}
		missIdx = append(missIdx, i)
	}

	meta := Meta{Model: c.model, Hashes: hashes, CacheHits: len(texts) - len(missIdx)}
	if len(missIdx) == 0 {
		return &BatchResponse{Vectors: vectors, Meta: meta}, nil
	}

	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = texts[i]
	}

	res, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(res.Vectors) != len(missTexts) {
		return nil, &ProviderError{Provider: "cache", Kind: ErrMalformedResponse, Body: "inner provider vector count mismatch"}
	}

	for j, i := range missIdx {
		vectors[i] = res.Vectors[j]
		c.store(ctx, hashes[i], res.Vectors[j])
	}

	if res.Meta.Model != "" {
		meta.Model = res.Meta.Model
	}
	meta.LatencyMs = res.Meta.LatencyMs
	return &BatchResponse{Vectors: vectors, Meta: meta}, nil
}

func (c *CachedProvider) lookup(ctx context.Context, hash string) ([]float32, bool) {
	if x, found := c.local.Get(c.key(hash)); found {
		return x.([]float32), true
	}
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key(hash)).Bytes()
	if err != nil {
		// redis down degrades to a miss
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil || len(vec) == 0 {
		return nil, false
	}
	c.local.Set(c.key(hash), vec, cache.DefaultExpiration)
	return vec, true
}

func (c *CachedProvider) store(ctx context.Context, hash string, vec []float32) {
	c.local.Set(c.key(hash), vec, cache.DefaultExpiration)
	if c.rdb == nil {
		return
	}
	if data, err := json.Marshal(vec); err == nil {
		c.rdb.Set(ctx, c.key(hash), data, c.ttl)
	}
}
