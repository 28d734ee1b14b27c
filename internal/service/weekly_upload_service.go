package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"course-qa-be/internal/dto"
	"course-qa-be/internal/entity"
	"course-qa-be/internal/pkg/apperr"
	"course-qa-be/internal/pkg/logger"
	"course-qa-be/internal/repository/specification"
	"course-qa-be/internal/repository/unitofwork"
	"course-qa-be/pkg/archive"
	"course-qa-be/pkg/coverage"
	"course-qa-be/pkg/events"
	"course-qa-be/pkg/storage"
	"course-qa-be/pkg/syllabus"
	"course-qa-be/pkg/textextract"
	"course-qa-be/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxReportedTerms     = 200
	maxReportedErrors    = 5
	deliveredTopicsChars = 2000
	coverageLowNote      = "Auto-generated from weekly ZIP upload coverage check"
)

type IWeeklyUploadService interface {
	HandleWeeklyZipUpload(ctx context.Context, req *dto.WeeklyUploadRequest) (*dto.WeeklyUploadResponse, error)
}

type WeeklyUploadConfig struct {
	MaxFiles       int
	MaxTextChars   int
	OnTrackPercent float64
}

type weeklyUploadService struct {
	uowFactory       unitofwork.RepositoryFactory
	storage          *storage.LocalStorage
	extractor        textextract.Extractor
	engine           *coverage.Engine
	eventPublisher   EventPublisher
	publisherService IPublisherService
	logger           logger.ILogger
	cfg              WeeklyUploadConfig
	tracer           trace.Tracer
	now              func() time.Time
}

func NewWeeklyUploadService(
	uowFactory unitofwork.RepositoryFactory,
	storage *storage.LocalStorage,
	extractor textextract.Extractor,
	engine *coverage.Engine,
	eventPublisher EventPublisher,
	publisherService IPublisherService,
	logger logger.ILogger,
	cfg WeeklyUploadConfig,
) IWeeklyUploadService {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = archive.DefaultMaxEntries
	}
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = 80000
	}
	if cfg.OnTrackPercent <= 0 {
		cfg.OnTrackPercent = coverage.DefaultOnTrackPercent
	}
	return &weeklyUploadService{
		uowFactory:       uowFactory,
		storage:          storage,
		extractor:        extractor,
		engine:           engine,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		logger:           logger,
		cfg:              cfg,
		tracer:           otel.Tracer("weekly-upload"),
		now:              time.Now,
	}
}

// bundle is the delivered side of one upload after extraction.
type bundle struct {
	manifest  []entity.ManifestEntry
	text      string
	filesSeen int
	filesUsed int
	errors    []string
	needsOcr  bool
}

func (s *weeklyUploadService) HandleWeeklyZipUpload(ctx context.Context, req *dto.WeeklyUploadRequest) (*dto.WeeklyUploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HandleWeeklyZipUpload", trace.WithAttributes(
		attribute.String("course.key", req.CourseKey),
		attribute.Int("week", req.WeekNo),
		attribute.Int("zip.bytes", len(req.ZipBytes)),
	))
	defer span.End()

	res, err := s.handle(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("coverage.status", res.Status),
		attribute.Float64("coverage.percent", res.CoveragePercent),
		attribute.String("coverage.mode", res.ScoringMode),
	)
	return res, nil
}

func (s *weeklyUploadService) handle(ctx context.Context, req *dto.WeeklyUploadRequest) (*dto.WeeklyUploadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	course, err := findCourse(ctx, uow, req.CourseKey)
	if err != nil {
		return nil, err
	}
	if !syllabus.ValidWeek(req.WeekNo) {
		return nil, apperr.ErrInvalidWeek
	}
	if len(req.ZipBytes) == 0 {
		return nil, apperr.ErrEmptyUpload
	}

	now := s.now()
	loc, err := s.storage.SaveWeeklyZip(course.Id.String(), req.WeekNo, req.ZipFilename, req.ZipBytes, now)
	if err != nil {
		return nil, err
	}

	b, err := s.extract(ctx, req.ZipBytes, loc.ExtractedDir)
	if err != nil {
		return nil, err
	}
	if b.text == "" {
		msg := "no text extracted from upload"
		if len(b.errors) > 0 {
			msg = fmt.Sprintf("%s; errors: %s", msg, strings.Join(firstN(b.errors, maxReportedErrors), "; "))
		}
		return nil, apperr.ErrNoTextExtracted.With("%s", msg)
	}

	plan, err := s.resolvePlan(ctx, uow, course, req.WeekNo)
	if err != nil {
		return nil, err
	}

	result, err := s.score(ctx, plan.Text, b.text)
	if err != nil {
		return nil, err
	}

	percent := result.Percent()
	status := coverage.Status(percent, s.cfg.OnTrackPercent)

	upload := &entity.Upload{
		CourseId:         course.Id,
		WeekNo:           req.WeekNo,
		UploaderId:       req.UploaderId,
		FilenameOriginal: req.ZipFilename,
		FilenameStored:   loc.StoredName,
		StoragePath:      s.storage.RelativePath(loc.ZipPath),
		Ext:              ".zip",
		FileTypeGuess:    "zip",
		Bytes:            int64(len(req.ZipBytes)),
		Manifest:         b.manifest,
	}
	if err := s.persist(ctx, uow, course, upload, b, plan, result, status, now); err != nil {
		return nil, err
	}

	s.logger.Info("UPLOAD", "Weekly upload scored", map[string]interface{}{
		"course_code":  course.CourseCode,
		"week":         req.WeekNo,
		"upload_id":    upload.Id.String(),
		"percent":      percent,
		"status":       status,
		"mode":         result.Mode,
		"files_seen":   b.filesSeen,
		"files_used":   b.filesUsed,
		"plan_source":  plan.Source,
		"missing_size": len(result.MissingTerms),
	})

	s.announce(ctx, course, req.WeekNo, upload.Id, result, percent, status)

	return &dto.WeeklyUploadResponse{
		CourseId:         course.Id,
		CourseCode:       course.CourseCode,
		WeekNo:           req.WeekNo,
		CoverageScore:    result.Score,
		CoveragePercent:  percent,
		Status:           status,
		MissingTerms:     firstN(result.MissingTerms, maxReportedTerms),
		MatchedTerms:     firstN(result.MatchedTerms, maxReportedTerms),
		UploadId:         upload.Id,
		FilesSeen:        b.filesSeen,
		FilesUsed:        b.filesUsed,
		ScoringMode:      result.Mode,
		LexicalCoverage:  result.LexicalCoverage,
		SemanticCoverage: result.SemanticCoverage,
		PlanSource:       plan.Source,
		PlanConfidence:   plan.Confidence,
		PlanTextLen:      utf8.RuneCountInString(plan.Text),
		DeliveredTextLen: utf8.RuneCountInString(b.text),
		ManifestErrors:   firstN(b.errors, maxReportedErrors),
	}, nil
}

func (s *weeklyUploadService) extract(ctx context.Context, data []byte, dest string) (*bundle, error) {
	_, span := s.tracer.Start(ctx, "extract")
	defer span.End()

	entries, err := archive.SafeExtract(data, dest, archive.ExtractOptions{MaxEntries: s.cfg.MaxFiles})
	if err != nil {
		if errors.Is(err, archive.ErrUnreadableArchive) {
			return nil, apperr.ErrUnreadableZip.With("%s", err.Error())
		}
		return nil, err
	}

	b := &bundle{manifest: make([]entity.ManifestEntry, 0, len(entries))}
	var texts []string
	for _, e := range entries {
		b.filesSeen++
		ext := strings.ToLower(filepath.Ext(e.Name))
		item := entity.ManifestEntry{Path: e.Name, Ext: ext}

		switch {
		case e.Skipped != "":
			item.Skipped = e.Skipped
		case !textextract.Allowed(ext):
			item.Skipped = "unsupported extension"
		default:
			ex := s.extractor.Extract(e.Path)
			text := utils.CleanText(ex.Text)
			item.Chars = utf8.RuneCountInString(text)
			item.Pages = ex.Pages
			item.Error = ex.Error
			if ex.Error != "" {
				b.errors = append(b.errors, fmt.Sprintf("%s: %s", e.Name, ex.Error))
				if ext == ".pdf" && text == "" {
					b.needsOcr = true
				}
			}
			if text != "" {
				texts = append(texts, text)
				b.filesUsed++
			}
		}
		b.manifest = append(b.manifest, item)
	}

	b.text = utils.CompactText(strings.Join(texts, "\n\n"), s.cfg.MaxTextChars)
	span.SetAttributes(attribute.Int("files.seen", b.filesSeen), attribute.Int("files.used", b.filesUsed))
	return b, nil
}

func (s *weeklyUploadService) resolvePlan(ctx context.Context, uow unitofwork.UnitOfWork, course *entity.Course, week int) (syllabus.PlanText, error) {
	plan, err := uow.WeeklyPlanRepository().FindOne(ctx,
		specification.ByCourseID{CourseID: course.Id},
		specification.ByWeek{Week: week},
	)
	if err != nil {
		return syllabus.PlanText{}, err
	}

	planned := ""
	if plan != nil {
		planned = plan.PlannedTopics
	}

	pt := syllabus.ResolvePlanText(planned, course.GuideText, week)
	if pt.Empty() {
		return pt, apperr.ErrNoPlanText.With("no planned topics for %s week %d", course.CourseCode, week)
	}
	return pt, nil
}

// score runs the hybrid engine and keeps its lexical-only result when the
// semantic pass fails, unless the request itself was cancelled.
func (s *weeklyUploadService) score(ctx context.Context, planText, deliveredText string) (*coverage.Result, error) {
	ctx, span := s.tracer.Start(ctx, "score")
	defer span.End()

	result, err := s.engine.CompareWeek(ctx, planText, deliveredText)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	span.RecordError(err)
	s.logger.Warn("UPLOAD", "Semantic scoring failed, using lexical only", map[string]interface{}{
		"error": err.Error(),
	})
	return result, nil
}

type auditDocument struct {
	UploadId       uuid.UUID              `json:"upload_id"`
	PlanSource     string                 `json:"plan_source"`
	PlanConfidence string                 `json:"plan_confidence"`
	PlanText       string                 `json:"plan_text"`
	Coverage       *coverage.Result       `json:"coverage"`
	CoveragePct    float64                `json:"coverage_percent"`
	Status         string                 `json:"status"`
	Manifest       []entity.ManifestEntry `json:"manifest"`
}

func (s *weeklyUploadService) persist(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	course *entity.Course,
	upload *entity.Upload,
	b *bundle,
	plan syllabus.PlanText,
	result *coverage.Result,
	status string,
	now time.Time,
) error {
	_, span := s.tracer.Start(ctx, "persist")
	defer span.End()

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UploadRepository().Create(ctx, upload); err != nil {
		return fmt.Errorf("create upload: %w", err)
	}

	if err := uow.UploadRepository().CreateText(ctx, &entity.UploadText{
		UploadId:      upload.Id,
		Text:          b.text,
		TextChars:     utf8.RuneCountInString(b.text),
		NeedsOcr:      b.needsOcr,
		ParseWarnings: b.errors,
	}); err != nil {
		return fmt.Errorf("create upload text: %w", err)
	}

	if err := uow.UploadRepository().CreateChunks(ctx, s.chunksFor(upload.Id, b.text, result)); err != nil {
		return fmt.Errorf("create upload chunks: %w", err)
	}

	percent := result.Percent()
	missing := firstN(result.MissingTerms, maxReportedTerms)
	uploadId := upload.Id
	if err := uow.WeeklyExecutionRepository().Upsert(ctx, &entity.WeeklyExecution{
		CourseId:        course.Id,
		WeekNumber:      upload.WeekNo,
		DeliveredTopics: utils.Truncate(b.text, deliveredTopicsChars),
		CoverageScore:   result.Score,
		CoveragePercent: percent,
		CoverageStatus:  entity.CoverageStatus(status),
		ScoringMode:     result.Mode,
		MatchedTerms:    firstN(result.MatchedTerms, maxReportedTerms),
		MissingTerms:    missing,
		EvidenceLinks:   []string{upload.StoragePath},
		UploadId:        &uploadId,
		LastUpdatedAt:   now,
	}); err != nil {
		return fmt.Errorf("upsert weekly execution: %w", err)
	}

	if status == coverage.StatusBehind {
		details, err := json.Marshal(map[string]interface{}{
			"coverage_percent": percent,
			"missing_terms":    missing,
			"upload_id":        upload.Id,
			"note":             coverageLowNote,
		})
		if err != nil {
			return err
		}
		if err := uow.DeviationLogRepository().Create(ctx, &entity.DeviationLog{
			CourseId:   course.Id,
			WeekNumber: upload.WeekNo,
			Type:       entity.DeviationTypeCoverageLow,
			Details:    string(details),
		}); err != nil {
			return fmt.Errorf("create deviation: %w", err)
		}
	}

	auditJson, err := json.Marshal(auditDocument{
		UploadId:       upload.Id,
		PlanSource:     plan.Source,
		PlanConfidence: plan.Confidence,
		PlanText:       plan.Text,
		Coverage:       result,
		CoveragePct:    percent,
		Status:         status,
		Manifest:       b.manifest,
	})
	if err != nil {
		return err
	}
	if err := uow.ExecutionAuditRepository().Create(ctx, &entity.ExecutionAudit{
		CourseId:        course.Id,
		WeekNumber:      upload.WeekNo,
		UploadId:        upload.Id,
		CoverageScore:   result.Score,
		CoveragePercent: percent,
		Status:          entity.CoverageStatus(status),
		ScoringMode:     result.Mode,
		PlanSource:      plan.Source,
		AuditJson:       auditJson,
	}); err != nil {
		return fmt.Errorf("create execution audit: %w", err)
	}

	return uow.Commit()
}

// chunksFor keeps the chunks the semantic pass embedded, with their vectors.
// Lexical-only results store the same chunking without vectors.
func (s *weeklyUploadService) chunksFor(uploadId uuid.UUID, text string, result *coverage.Result) []*entity.UploadChunk {
	contents := result.Chunks
	vectors := result.ChunkVectors
	if len(contents) == 0 {
		opts := s.engine.Options()
		contents = coverage.ExtractDeliveredChunks(text, opts.MaxChunks, opts.ChunkChars)
		vectors = nil
	}

	model := ""
	if a := result.Audit.Semantic; a != nil && a.EmbedMeta != nil && a.EmbedMeta.Delivered != nil {
		model = a.EmbedMeta.Delivered.Model
	}

	chunks := make([]*entity.UploadChunk, len(contents))
	for i, c := range contents {
		chunk := &entity.UploadChunk{UploadId: uploadId, ChunkIndex: i, Content: c}
		if len(vectors) == len(contents) {
			chunk.Embedding = vectors[i]
			chunk.EmbeddingModel = model
		}
		chunks[i] = chunk
	}
	return chunks
}

// announce is best effort: the upload is already committed.
func (s *weeklyUploadService) announce(ctx context.Context, course *entity.Course, week int, uploadId uuid.UUID, result *coverage.Result, percent float64, status string) {
	if s.eventPublisher != nil {
		body := events.CoverageScore{
			CourseId:        course.Id.String(),
			CourseCode:      course.CourseCode,
			WeekNo:          week,
			UploadId:        uploadId.String(),
			CoverageScore:   result.Score,
			CoveragePercent: percent,
			Status:          status,
			ScoringMode:     result.Mode,
			MissingCount:    len(result.MissingTerms),
		}
		at := s.now()
		if err := s.eventPublisher.Publish(ctx, events.NewWeeklyUploadScored(body, at)); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", events.TypeWeeklyUploadScored, err)
		}
		if status == coverage.StatusBehind {
			if err := s.eventPublisher.Publish(ctx, events.NewCoverageLow(body, at)); err != nil {
				fmt.Printf("[WARN] Failed to publish %s event: %v\n", events.TypeCoverageLow, err)
			}
		}
	}

	if s.publisherService != nil {
		payload, err := json.Marshal(dto.PublishDeviationSweepMessage{CourseId: course.Id, WeekNo: week})
		if err == nil {
			err = s.publisherService.Publish(ctx, payload)
		}
		if err != nil {
			fmt.Printf("[WARN] Failed to queue deviation sweep: %v\n", err)
		}
	}
}

func firstN(s []string, n int) []string {
	if s == nil {
		return []string{}
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
