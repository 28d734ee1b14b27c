package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/model"
	"course-qa-be/internal/pkg/logger"
	"course-qa-be/internal/repository/unitofwork"
	"course-qa-be/pkg/coverage"
	"course-qa-be/pkg/database"
	"course-qa-be/pkg/embedding"
	"course-qa-be/pkg/events"
	"course-qa-be/pkg/storage"
	"course-qa-be/pkg/textextract"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return unitofwork.NewRepositoryFactory(db)
}

func createCourse(t *testing.T, f unitofwork.RepositoryFactory, code, guide string) *entity.Course {
	t.Helper()
	ctx := context.Background()
	c := &entity.Course{CourseCode: code, Title: "Course " + code, GuideText: guide}
	require.NoError(t, f.NewUnitOfWork(ctx).CourseRepository().Create(ctx, c))
	return c
}

func createPlan(t *testing.T, f unitofwork.RepositoryFactory, p *entity.WeeklyPlan) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.NewUnitOfWork(ctx).WeeklyPlanRepository().Upsert(ctx, p))
}

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// sameVectorProvider embeds every text to one vector, so every phrase is a
// perfect semantic match.
type sameVectorProvider struct{}

func (sameVectorProvider) Embed(_ context.Context, texts []string) (*embedding.BatchResponse, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.6, 0.8}
	}
	return &embedding.BatchResponse{Vectors: vectors, Meta: embedding.Meta{Model: "same-vector"}}, nil
}

type failingProvider struct{}

func (failingProvider) Embed(context.Context, []string) (*embedding.BatchResponse, error) {
	return nil, &embedding.ProviderError{Provider: "test", Kind: embedding.ErrTransient, Cause: errors.New("connection refused")}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type recordingQueue struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (q *recordingQueue) Publish(_ context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return nil
}

type uploadFixture struct {
	factory   unitofwork.RepositoryFactory
	service   *weeklyUploadService
	events    *recordingPublisher
	queue     *recordingQueue
	storeRoot string
}

func newUploadFixture(t *testing.T, provider embedding.EmbeddingProvider) *uploadFixture {
	t.Helper()
	f := newTestFactory(t)
	root := t.TempDir()
	engine := coverage.NewEngine(
		coverage.NewSemanticComparator(provider, coverage.DefaultSemanticOptions()),
		coverage.Weights{},
	)
	pub := &recordingPublisher{}
	queue := &recordingQueue{}

	svc := NewWeeklyUploadService(
		f,
		storage.NewLocalStorage(root),
		textextract.NewExtractor(0),
		engine,
		pub,
		queue,
		logger.NewNopLogger(),
		WeeklyUploadConfig{},
	).(*weeklyUploadService)
	svc.now = func() time.Time { return fixedNow }

	return &uploadFixture{factory: f, service: svc, events: pub, queue: queue, storeRoot: root}
}
