package implementation_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/model"
	"course-qa-be/internal/repository/specification"
	"course-qa-be/internal/repository/unitofwork"
	"course-qa-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return unitofwork.NewRepositoryFactory(db)
}

func seedCourse(t *testing.T, uow unitofwork.UnitOfWork, code string) *entity.Course {
	t.Helper()
	c := &entity.Course{CourseCode: code, Title: "Course " + code}
	require.NoError(t, uow.CourseRepository().Create(context.Background(), c))
	require.NotEqual(t, uuid.Nil, c.Id)
	return c
}

func TestCourseRepository_FindByIdOrCode(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)
	course := seedCourse(t, uow, "CS101")

	t.Run("by code", func(t *testing.T) {
		got, err := uow.CourseRepository().FindByIdOrCode(ctx, "CS101")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, course.Id, got.Id)
	})

	t.Run("by id with surrounding space", func(t *testing.T) {
		got, err := uow.CourseRepository().FindByIdOrCode(ctx, "  "+course.Id.String()+" ")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "CS101", got.CourseCode)
	})

	t.Run("unknown key", func(t *testing.T) {
		got, err := uow.CourseRepository().FindByIdOrCode(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = uow.CourseRepository().FindByIdOrCode(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("empty key", func(t *testing.T) {
		got, err := uow.CourseRepository().FindByIdOrCode(ctx, "   ")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCourseRepository_UpdateGuide(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)
	course := seedCourse(t, uow, "MA201")

	course.GuideText = "Week 1: limits"
	require.NoError(t, uow.CourseRepository().Update(ctx, course))

	got, err := uow.CourseRepository().FindOne(ctx, specification.ByID{ID: course.Id})
	require.NoError(t, err)
	assert.Equal(t, "Week 1: limits", got.GuideText)
}

func TestWeeklyPlanRepository_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)
	course := seedCourse(t, uow, "CS102")

	first := &entity.WeeklyPlan{CourseId: course.Id, WeekNumber: 3, PlannedTopics: "recursion"}
	require.NoError(t, uow.WeeklyPlanRepository().Upsert(ctx, first))

	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	second := &entity.WeeklyPlan{CourseId: course.Id, WeekNumber: 3, PlannedTopics: "sorting", PlannedEndDate: &end}
	require.NoError(t, uow.WeeklyPlanRepository().Upsert(ctx, second))

	assert.Equal(t, first.Id, second.Id)

	all, err := uow.WeeklyPlanRepository().FindAll(ctx, specification.ByCourseID{CourseID: course.Id})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "sorting", all[0].PlannedTopics)
	require.NotNil(t, all[0].PlannedEndDate)
	assert.True(t, end.Equal(*all[0].PlannedEndDate))
}

func TestWeeklyPlanRepository_DeleteThenCreateBulk(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)
	course := seedCourse(t, uow, "CS103")
	other := seedCourse(t, uow, "CS104")

	require.NoError(t, uow.WeeklyPlanRepository().Upsert(ctx, &entity.WeeklyPlan{CourseId: other.Id, WeekNumber: 1, PlannedTopics: "keep"}))
	require.NoError(t, uow.WeeklyPlanRepository().CreateBulk(ctx, []*entity.WeeklyPlan{
		{CourseId: course.Id, WeekNumber: 1, PlannedTopics: "a"},
		{CourseId: course.Id, WeekNumber: 2, PlannedTopics: "b"},
	}))
	require.NoError(t, uow.WeeklyPlanRepository().CreateBulk(ctx, nil))

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.WeeklyPlanRepository().DeleteByCourseId(ctx, course.Id))
	require.NoError(t, uow.WeeklyPlanRepository().CreateBulk(ctx, []*entity.WeeklyPlan{
		{CourseId: course.Id, WeekNumber: 1, PlannedTopics: "c"},
	}))
	require.NoError(t, uow.Commit())

	mine, err := uow.WeeklyPlanRepository().FindAll(ctx, specification.ByCourseID{CourseID: course.Id})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "c", mine[0].PlannedTopics)

	theirs, err := uow.WeeklyPlanRepository().FindAll(ctx, specification.ByCourseID{CourseID: other.Id})
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestWeeklyExecutionRepository_UpsertKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)
	course := seedCourse(t, uow, "CS105")

	firstUpload := uuid.New()
	first := &entity.WeeklyExecution{
		CourseId:       course.Id,
		WeekNumber:     5,
		CoverageScore:  0.4,
		CoverageStatus: entity.CoverageStatusBehind,
		ScoringMode:    "hybrid",
		MissingTerms:   []string{"heap sort"},
		EvidenceLinks:  []string{"a.zip"},
		UploadId:       &firstUpload,
		LastUpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, uow.WeeklyExecutionRepository().Upsert(ctx, first))

	secondUpload := uuid.New()
	second := &entity.WeeklyExecution{
		CourseId:        course.Id,
		WeekNumber:      5,
		CoverageScore:   0.9,
		CoveragePercent: 90,
		CoverageStatus:  entity.CoverageStatusOnTrack,
		ScoringMode:     "lexical_only",
		MissingTerms:    nil,
		EvidenceLinks:   []string{"b.zip"},
		UploadId:        &secondUpload,
		LastUpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, uow.WeeklyExecutionRepository().Upsert(ctx, second))

	rows, err := uow.WeeklyExecutionRepository().FindAll(ctx, specification.ByCourseID{CourseID: course.Id})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, first.Id, got.Id)
	assert.Equal(t, entity.CoverageStatusOnTrack, got.CoverageStatus)
	assert.Equal(t, "lexical_only", got.ScoringMode)
	assert.InDelta(t, 90.0, got.CoveragePercent, 1e-9)
	assert.Equal(t, []string{}, got.MissingTerms)
	assert.Equal(t, []string{"b.zip"}, got.EvidenceLinks)
	require.NotNil(t, got.UploadId)
	assert.Equal(t, secondUpload, *got.UploadId)
}

func TestDeviationLogRepository_DeleteUnresolvedByTypes(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)
	course := seedCourse(t, uow, "CS106")
	other := seedCourse(t, uow, "CS107")

	resolvedAt := time.Now().UTC()
	require.NoError(t, uow.DeviationLogRepository().CreateBulk(ctx, []*entity.DeviationLog{
		{CourseId: course.Id, WeekNumber: 1, Type: entity.DeviationTypeMissingContent},
		{CourseId: course.Id, WeekNumber: 2, Type: entity.DeviationTypeLateDelivery},
		{CourseId: course.Id, WeekNumber: 3, Type: entity.DeviationTypeCoverageLow},
		{CourseId: course.Id, WeekNumber: 4, Type: entity.DeviationTypeMissingContent, Resolved: true, ResolvedAt: &resolvedAt},
		{CourseId: other.Id, WeekNumber: 1, Type: entity.DeviationTypeMissingContent},
	}))

	require.NoError(t, uow.DeviationLogRepository().DeleteUnresolvedByTypes(ctx, course.Id, []entity.DeviationType{
		entity.DeviationTypeMissingContent,
		entity.DeviationTypeLateDelivery,
	}))

	left, err := uow.DeviationLogRepository().FindAll(ctx,
		specification.ByCourseID{CourseID: course.Id},
		specification.OrderBy{Field: "week_number"},
	)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, entity.DeviationTypeCoverageLow, left[0].Type)
	assert.True(t, left[1].Resolved)

	untouched, err := uow.DeviationLogRepository().FindAll(ctx, specification.ByCourseID{CourseID: other.Id})
	require.NoError(t, err)
	assert.Len(t, untouched, 1)
}

func TestUploadRepository_ChunksInOrder(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)
	course := seedCourse(t, uow, "CS108")

	upload := &entity.Upload{
		CourseId:         course.Id,
		WeekNo:           2,
		FilenameOriginal: "week2.zip",
		Manifest:         []entity.ManifestEntry{{Path: "slides.pdf", Ext: ".pdf", Chars: 120}},
	}
	require.NoError(t, uow.UploadRepository().Create(ctx, upload))
	require.NotEqual(t, uuid.Nil, upload.Id)

	require.NoError(t, uow.UploadRepository().CreateText(ctx, &entity.UploadText{UploadId: upload.Id, Text: "stacks and queues", TextChars: 17}))
	require.NoError(t, uow.UploadRepository().CreateChunks(ctx, []*entity.UploadChunk{
		{UploadId: upload.Id, ChunkIndex: 1, Content: "queues"},
		{UploadId: upload.Id, ChunkIndex: 0, Content: "stacks"},
	}))

	got, err := uow.UploadRepository().FindOne(ctx, specification.ByID{ID: upload.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Manifest, 1)
	assert.Equal(t, "slides.pdf", got.Manifest[0].Path)

	chunks, err := uow.UploadRepository().FindChunks(ctx, specification.ByUploadID{UploadID: upload.Id})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "stacks", chunks[0].Content)
	assert.Equal(t, "queues", chunks[1].Content)
	assert.Nil(t, chunks[0].Embedding)
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.CourseRepository().Create(ctx, &entity.Course{CourseCode: "TX1", Title: "tx"}))
	require.NoError(t, uow.Rollback())

	got, err := uow.CourseRepository().FindByIdOrCode(ctx, "TX1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
