package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"course-qa-be/internal/dto"
	"course-qa-be/internal/entity"
	"course-qa-be/internal/pkg/apperr"
	"course-qa-be/internal/pkg/logger"
	"course-qa-be/internal/repository/unitofwork"
	"course-qa-be/pkg/syllabus"
	"course-qa-be/pkg/utils"
)

const weekLength = 7 * 24 * time.Hour

type IWeeklyPlanService interface {
	UpsertWeeklyPlan(ctx context.Context, courseKey string, week int, req *dto.UpsertWeeklyPlanRequest) (*dto.WeeklyPlanResponse, error)
	SetCourseGuide(ctx context.Context, courseKey string, guideText string) (*dto.CourseResponse, error)
	GenerateFromGuide(ctx context.Context, courseKey string, weeks int) (*dto.GenerateWeeklyPlansResponse, error)
}

type weeklyPlanService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewWeeklyPlanService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IWeeklyPlanService {
	return &weeklyPlanService{
		uowFactory: uowFactory,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *weeklyPlanService) UpsertWeeklyPlan(ctx context.Context, courseKey string, week int, req *dto.UpsertWeeklyPlanRequest) (*dto.WeeklyPlanResponse, error) {
	if !syllabus.ValidWeek(week) {
		return nil, apperr.ErrInvalidWeek
	}
	if req.PlannedStartDate != nil && req.PlannedEndDate != nil && req.PlannedEndDate.Before(*req.PlannedStartDate) {
		return nil, apperr.ErrInvalidInput.With("planned_end_date is before planned_start_date")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := findCourse(ctx, uow, courseKey)
	if err != nil {
		return nil, err
	}

	plan := &entity.WeeklyPlan{
		CourseId:           course.Id,
		WeekNumber:         week,
		PlannedTopics:      utils.CleanText(req.PlannedTopics),
		PlannedAssessments: utils.CleanText(req.PlannedAssessments),
		PlannedStartDate:   req.PlannedStartDate,
		PlannedEndDate:     req.PlannedEndDate,
	}
	if err := uow.WeeklyPlanRepository().Upsert(ctx, plan); err != nil {
		return nil, err
	}

	res := toWeeklyPlanResponse(plan)
	return &res, nil
}

func (s *weeklyPlanService) SetCourseGuide(ctx context.Context, courseKey string, guideText string) (*dto.CourseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := findCourse(ctx, uow, courseKey)
	if err != nil {
		return nil, err
	}

	course.GuideText = utils.CleanText(guideText)
	if err := uow.CourseRepository().Update(ctx, course); err != nil {
		return nil, err
	}

	return &dto.CourseResponse{
		Id:         course.Id,
		CourseCode: course.CourseCode,
		Title:      course.Title,
		GuideChars: utf8.RuneCountInString(course.GuideText),
	}, nil
}

// GenerateFromGuide replaces the course's weekly plans with one block of the
// guide per week, scheduled in consecutive weeks starting now.
func (s *weeklyPlanService) GenerateFromGuide(ctx context.Context, courseKey string, weeks int) (*dto.GenerateWeeklyPlansResponse, error) {
	if weeks <= 0 {
		weeks = syllabus.MaxWeek
	}
	if !syllabus.ValidWeek(weeks) {
		return nil, apperr.ErrInvalidWeek
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, err := findCourse(ctx, uow, courseKey)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(course.GuideText) == "" {
		return nil, apperr.ErrNoGuideText
	}

	blocks := syllabus.SplitGuide(course.GuideText, weeks)
	today := s.now().UTC()

	plans := make([]*entity.WeeklyPlan, weeks)
	for i := range plans {
		start := today.Add(time.Duration(i) * weekLength)
		end := start.Add(weekLength - time.Second)
		plans[i] = &entity.WeeklyPlan{
			CourseId:         course.Id,
			WeekNumber:       i + 1,
			PlannedTopics:    blocks[i],
			PlannedStartDate: &start,
			PlannedEndDate:   &end,
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.WeeklyPlanRepository().DeleteByCourseId(ctx, course.Id); err != nil {
		return nil, err
	}
	if err := uow.WeeklyPlanRepository().CreateBulk(ctx, plans); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("PLAN", "Weekly plans generated from guide", map[string]interface{}{
		"course_code": course.CourseCode,
		"weeks":       weeks,
	})

	res := &dto.GenerateWeeklyPlansResponse{
		CourseId: course.Id,
		Created:  len(plans),
		Plans:    make([]dto.WeeklyPlanResponse, len(plans)),
	}
	for i, p := range plans {
		res.Plans[i] = toWeeklyPlanResponse(p)
	}
	return res, nil
}

func toWeeklyPlanResponse(p *entity.WeeklyPlan) dto.WeeklyPlanResponse {
	return dto.WeeklyPlanResponse{
		Id:                 p.Id,
		CourseId:           p.CourseId,
		WeekNumber:         p.WeekNumber,
		PlannedTopics:      p.PlannedTopics,
		PlannedAssessments: p.PlannedAssessments,
		PlannedStartDate:   p.PlannedStartDate,
		PlannedEndDate:     p.PlannedEndDate,
	}
}
