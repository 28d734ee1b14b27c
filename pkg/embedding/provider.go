package embedding

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EmbeddingProvider turns a batch of texts into vectors with one remote call.
// Vectors[i] always corresponds to texts[i].
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) (*BatchResponse, error)
}

type BatchResponse struct {
	Vectors [][]float32
	Meta    Meta
}

// Meta describes one embedding call for the coverage audit trail.
type Meta struct {
	Model     string   `json:"model"`
	LatencyMs int64    `json:"latency_ms"`
	Hashes    []string `json:"hashes"`
	CacheHits int      `json:"cache_hits,omitempty"`
}

// ModelNamer is implemented by providers that know their model id before any call.
type ModelNamer interface {
	ModelName() string
}

// ModelOf returns the model id of p, or "" when p does not report one.
func ModelOf(p EmbeddingProvider) string {
	if m, ok := p.(ModelNamer); ok {
		return m.ModelName()
	}
	return ""
}

var (
	ErrAuth              = errors.New("embedding provider rejected credentials")
	ErrTransient         = errors.New("embedding provider temporarily unavailable")
	ErrBadRequest        = errors.New("embedding request rejected")
	ErrMalformedResponse = errors.New("embedding response malformed")
)

// ProviderError carries the provider response that caused a failure. It
// unwraps to one of the Err* kinds above and to the transport cause, if any.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Kind       error
	Cause      error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s embeddings: %v: %v", e.Provider, e.Kind, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s embeddings error %d: %s", e.Provider, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s embeddings: %v: %s", e.Provider, e.Kind, e.Body)
	}
}

func (e *ProviderError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewStatusError classifies a non-2xx response.
func NewStatusError(provider string, status int, body []byte) *ProviderError {
	kind := ErrBadRequest
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrAuth
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		kind = ErrTransient
	}
	return &ProviderError{
		Provider:   provider,
		StatusCode: status,
		Body:       truncateBody(body),
		Kind:       kind,
	}
}

func newTransportError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrTransient, Cause: err}
}

func newMalformedError(provider string, detail string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrMalformedResponse, Body: detail}
}

// IsTransient reports whether retrying the same request may succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// HashText is the per-item fingerprint recorded in Meta.Hashes and used as
// the cache key.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

func hashAll(texts []string) []string {
	hashes := make([]string, len(texts))
	for i, t := range texts {
		hashes[i] = HashText(t)
	}
	return hashes
}

func trimAll(texts []string) []string {
	clean := make([]string, len(texts))
	for i, t := range texts {
		clean[i] = strings.TrimSpace(t)
	}
	return clean
}

func truncateBody(b []byte) string {
	const max = 800
	if len(b) > max {
		return string(b[:max])
	}
	return string(b)
}

// postJSON sends payload and decodes a 2xx body into out.
func postJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers map[string]string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return newTransportError(provider, err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return newTransportError(provider, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return NewStatusError(provider, res.StatusCode, resBytes)
	}

	if err := json.Unmarshal(resBytes, out); err != nil {
		return newMalformedError(provider, truncateBody(resBytes))
	}
	return nil
}

func checkVectors(provider string, vectors [][]float32, want int) error {
	if len(vectors) != want {
		return newMalformedError(provider, fmt.Sprintf("expected %d vectors, got %d", want, len(vectors)))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return newMalformedError(provider, fmt.Sprintf("empty vector at index %d", i))
		}
	}
	return nil
}
