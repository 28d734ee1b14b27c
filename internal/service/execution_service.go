package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"course-qa-be/internal/dto"
	"course-qa-be/internal/entity"
	"course-qa-be/internal/pkg/apperr"
	"course-qa-be/internal/pkg/logger"
	"course-qa-be/internal/repository/specification"
	"course-qa-be/internal/repository/unitofwork"
	"course-qa-be/pkg/syllabus"

	"github.com/google/uuid"
)

type IExecutionService interface {
	ListWeeks(ctx context.Context, courseKey string) (*dto.CourseExecutionResponse, error)
	ListDeviations(ctx context.Context, courseKey string, includeResolved bool) ([]dto.DeviationResponse, error)
	ResolveDeviation(ctx context.Context, id uuid.UUID, userId *uuid.UUID) (*dto.DeviationResponse, error)
	ListAudits(ctx context.Context, courseKey string, week int) ([]dto.ExecutionAuditResponse, error)
	RefreshDeviations(ctx context.Context, courseKey string) (*dto.RefreshDeviationsResponse, error)
	RefreshDeviationsForCourse(ctx context.Context, courseId uuid.UUID) (*dto.RefreshDeviationsResponse, error)
}

type executionService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewExecutionService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IExecutionService {
	return &executionService{
		uowFactory: uowFactory,
		logger:     logger,
		now:        time.Now,
	}
}

// ListWeeks returns weeks 1..16; weeks never uploaded report no_upload.
func (s *executionService) ListWeeks(ctx context.Context, courseKey string) (*dto.CourseExecutionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := findCourse(ctx, uow, courseKey)
	if err != nil {
		return nil, err
	}

	plans, execs, err := s.loadWeeks(ctx, uow, course.Id)
	if err != nil {
		return nil, err
	}

	weeks := make([]dto.WeekExecutionResponse, 0, syllabus.MaxWeek)
	for w := syllabus.MinWeek; w <= syllabus.MaxWeek; w++ {
		row := dto.WeekExecutionResponse{
			WeekNumber:     w,
			CoverageStatus: string(entity.CoverageStatusNoUpload),
			MatchedTerms:   []string{},
			MissingTerms:   []string{},
			EvidenceLinks:  []string{},
		}
		if p, ok := plans[w]; ok {
			row.PlannedTopics = p.PlannedTopics
			row.PlannedStartDate = p.PlannedStartDate
			row.PlannedEndDate = p.PlannedEndDate
		}
		if e, ok := execs[w]; ok {
			updated := e.LastUpdatedAt
			row.DeliveredTopics = e.DeliveredTopics
			row.CoverageScore = e.CoverageScore
			row.CoveragePercent = e.CoveragePercent
			row.CoverageStatus = string(e.CoverageStatus)
			row.ScoringMode = e.ScoringMode
			row.MatchedTerms = e.MatchedTerms
			row.MissingTerms = e.MissingTerms
			row.EvidenceLinks = e.EvidenceLinks
			row.UploadId = e.UploadId
			row.LastUpdatedAt = &updated
		}
		weeks = append(weeks, row)
	}

	return &dto.CourseExecutionResponse{
		CourseId:   course.Id,
		CourseCode: course.CourseCode,
		Title:      course.Title,
		Weeks:      weeks,
	}, nil
}

func (s *executionService) ListDeviations(ctx context.Context, courseKey string, includeResolved bool) ([]dto.DeviationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := findCourse(ctx, uow, courseKey)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{specification.ByCourseID{CourseID: course.Id}}
	if !includeResolved {
		specs = append(specs, specification.Unresolved{})
	}
	specs = append(specs,
		specification.OrderBy{Field: "week_number"},
		specification.OrderBy{Field: "created_at", Desc: true},
	)

	logs, err := uow.DeviationLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]dto.DeviationResponse, len(logs))
	for i, l := range logs {
		res[i] = toDeviationResponse(l)
	}
	return res, nil
}

// ResolveDeviation marks a deviation resolved. Resolving twice keeps the
// first resolution.
func (s *executionService) ResolveDeviation(ctx context.Context, id uuid.UUID, userId *uuid.UUID) (*dto.DeviationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	log, err := uow.DeviationLogRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, apperr.ErrDeviationNotFound
	}

	if !log.Resolved {
		now := s.now()
		log.Resolved = true
		log.ResolvedAt = &now
		log.ResolvedBy = userId
		if err := uow.DeviationLogRepository().Update(ctx, log); err != nil {
			return nil, err
		}
	}

	res := toDeviationResponse(log)
	return &res, nil
}

func (s *executionService) ListAudits(ctx context.Context, courseKey string, week int) ([]dto.ExecutionAuditResponse, error) {
	if !syllabus.ValidWeek(week) {
		return nil, apperr.ErrInvalidWeek
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := findCourse(ctx, uow, courseKey)
	if err != nil {
		return nil, err
	}

	audits, err := uow.ExecutionAuditRepository().FindAll(ctx,
		specification.ByCourseID{CourseID: course.Id},
		specification.ByWeek{Week: week},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ExecutionAuditResponse, len(audits))
	for i, a := range audits {
		res[i] = dto.ExecutionAuditResponse{
			Id:              a.Id,
			WeekNumber:      a.WeekNumber,
			UploadId:        a.UploadId,
			CoverageScore:   a.CoverageScore,
			CoveragePercent: a.CoveragePercent,
			Status:          string(a.Status),
			ScoringMode:     a.ScoringMode,
			PlanSource:      a.PlanSource,
			Audit:           rawJSON(a.AuditJson),
			CreatedAt:       a.CreatedAt,
		}
	}
	return res, nil
}

func (s *executionService) RefreshDeviations(ctx context.Context, courseKey string) (*dto.RefreshDeviationsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := findCourse(ctx, uow, courseKey)
	if err != nil {
		return nil, err
	}
	return s.RefreshDeviationsForCourse(ctx, course.Id)
}

// RefreshDeviationsForCourse recomputes the schedule deviations:
// missing_content for weeks whose plan has ended without an upload, and
// late_delivery for uploads after the planned end. Only unresolved rows of
// those two types are replaced.
func (s *executionService) RefreshDeviationsForCourse(ctx context.Context, courseId uuid.UUID) (*dto.RefreshDeviationsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, execs, err := s.loadWeeks(ctx, uow, courseId)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := &dto.RefreshDeviationsResponse{CourseId: courseId}
	var logs []*entity.DeviationLog

	for w := syllabus.MinWeek; w <= syllabus.MaxWeek; w++ {
		plan, ok := plans[w]
		if !ok || plan.PlannedEndDate == nil {
			continue
		}
		end := *plan.PlannedEndDate

		exe, delivered := execs[w]
		if !delivered || exe.CoverageStatus == entity.CoverageStatusNoUpload {
			if end.Before(now) {
				logs = append(logs, &entity.DeviationLog{
					CourseId:   courseId,
					WeekNumber: w,
					Type:       entity.DeviationTypeMissingContent,
					Details: detailsJSON(map[string]interface{}{
						"planned_end_date": end.UTC().Format(time.RFC3339),
						"note":             "No weekly execution record found for this week.",
					}),
				})
				res.MissingContent++
			}
			continue
		}

		if exe.LastUpdatedAt.After(end) {
			logs = append(logs, &entity.DeviationLog{
				CourseId:   courseId,
				WeekNumber: w,
				Type:       entity.DeviationTypeLateDelivery,
				Details: detailsJSON(map[string]interface{}{
					"planned_end_date": end.UTC().Format(time.RFC3339),
					"delivered_at":     exe.LastUpdatedAt.UTC().Format(time.RFC3339),
					"days_late":        math.Ceil(exe.LastUpdatedAt.Sub(end).Hours() / 24),
				}),
			})
			res.LateDelivery++
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DeviationLogRepository().DeleteUnresolvedByTypes(ctx, courseId, []entity.DeviationType{
		entity.DeviationTypeMissingContent,
		entity.DeviationTypeLateDelivery,
	}); err != nil {
		return nil, err
	}
	if err := uow.DeviationLogRepository().CreateBulk(ctx, logs); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("DEVIATION", "Deviations refreshed", map[string]interface{}{
		"course_id":       courseId.String(),
		"missing_content": res.MissingContent,
		"late_delivery":   res.LateDelivery,
	})
	return res, nil
}

func (s *executionService) loadWeeks(ctx context.Context, uow unitofwork.UnitOfWork, courseId uuid.UUID) (map[int]*entity.WeeklyPlan, map[int]*entity.WeeklyExecution, error) {
	planList, err := uow.WeeklyPlanRepository().FindAll(ctx, specification.ByCourseID{CourseID: courseId})
	if err != nil {
		return nil, nil, err
	}
	execList, err := uow.WeeklyExecutionRepository().FindAll(ctx, specification.ByCourseID{CourseID: courseId})
	if err != nil {
		return nil, nil, err
	}

	plans := make(map[int]*entity.WeeklyPlan, len(planList))
	for _, p := range planList {
		plans[p.WeekNumber] = p
	}
	execs := make(map[int]*entity.WeeklyExecution, len(execList))
	for _, e := range execList {
		execs[e.WeekNumber] = e
	}
	return plans, execs, nil
}

func toDeviationResponse(l *entity.DeviationLog) dto.DeviationResponse {
	return dto.DeviationResponse{
		Id:         l.Id,
		CourseId:   l.CourseId,
		WeekNumber: l.WeekNumber,
		Type:       string(l.Type),
		Details:    rawJSON([]byte(l.Details)),
		Resolved:   l.Resolved,
		ResolvedAt: l.ResolvedAt,
		ResolvedBy: l.ResolvedBy,
		CreatedAt:  l.CreatedAt,
	}
}

func detailsJSON(v map[string]interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// rawJSON passes stored JSON through; anything else is sent as a JSON string.
func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return json.RawMessage(quoted)
}
