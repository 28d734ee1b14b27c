package mapper

import (
	"time"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/model"
)

type WeeklyPlanMapper struct{}

func NewWeeklyPlanMapper() *WeeklyPlanMapper {
	return &WeeklyPlanMapper{}
}

func (m *WeeklyPlanMapper) ToEntity(p *model.WeeklyPlan) *entity.WeeklyPlan {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.WeeklyPlan{
		Id:                 p.Id,
		CourseId:           p.CourseId,
		WeekNumber:         p.WeekNumber,
		PlannedTopics:      p.PlannedTopics,
		PlannedAssessments: p.PlannedAssessments,
		PlannedStartDate:   p.PlannedStartDate,
		PlannedEndDate:     p.PlannedEndDate,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *WeeklyPlanMapper) ToModel(p *entity.WeeklyPlan) *model.WeeklyPlan {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.WeeklyPlan{
		Id:                 p.Id,
		CourseId:           p.CourseId,
		WeekNumber:         p.WeekNumber,
		PlannedTopics:      p.PlannedTopics,
		PlannedAssessments: p.PlannedAssessments,
		PlannedStartDate:   p.PlannedStartDate,
		PlannedEndDate:     p.PlannedEndDate,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *WeeklyPlanMapper) ToEntities(plans []*model.WeeklyPlan) []*entity.WeeklyPlan {
	entities := make([]*entity.WeeklyPlan, len(plans))
	for i, p := range plans {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *WeeklyPlanMapper) ToModels(plans []*entity.WeeklyPlan) []*model.WeeklyPlan {
	models := make([]*model.WeeklyPlan, len(plans))
	for i, p := range plans {
		models[i] = m.ToModel(p)
	}
	return models
}

type WeeklyExecutionMapper struct{}

func NewWeeklyExecutionMapper() *WeeklyExecutionMapper {
	return &WeeklyExecutionMapper{}
}

func (m *WeeklyExecutionMapper) ToEntity(e *model.WeeklyExecution) *entity.WeeklyExecution {
	if e == nil {
		return nil
	}
	return &entity.WeeklyExecution{
		Id:              e.Id,
		CourseId:        e.CourseId,
		WeekNumber:      e.WeekNumber,
		DeliveredTopics: e.DeliveredTopics,
		CoverageScore:   e.CoverageScore,
		CoveragePercent: e.CoveragePercent,
		CoverageStatus:  entity.CoverageStatus(e.CoverageStatus),
		ScoringMode:     e.ScoringMode,
		MatchedTerms:    stringsFromJSON(e.MatchedTerms),
		MissingTerms:    stringsFromJSON(e.MissingTerms),
		EvidenceLinks:   stringsFromJSON(e.EvidenceLinks),
		UploadId:        e.UploadId,
		LastUpdatedAt:   e.LastUpdatedAt,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *WeeklyExecutionMapper) ToModel(e *entity.WeeklyExecution) *model.WeeklyExecution {
	if e == nil {
		return nil
	}
	return &model.WeeklyExecution{
		Id:              e.Id,
		CourseId:        e.CourseId,
		WeekNumber:      e.WeekNumber,
		DeliveredTopics: e.DeliveredTopics,
		CoverageScore:   e.CoverageScore,
		CoveragePercent: e.CoveragePercent,
		CoverageStatus:  string(e.CoverageStatus),
		ScoringMode:     e.ScoringMode,
		MatchedTerms:    toJSON(nonNilStrings(e.MatchedTerms)),
		MissingTerms:    toJSON(nonNilStrings(e.MissingTerms)),
		EvidenceLinks:   toJSON(nonNilStrings(e.EvidenceLinks)),
		UploadId:        e.UploadId,
		LastUpdatedAt:   e.LastUpdatedAt,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *WeeklyExecutionMapper) ToEntities(execs []*model.WeeklyExecution) []*entity.WeeklyExecution {
	entities := make([]*entity.WeeklyExecution, len(execs))
	for i, e := range execs {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

type DeviationLogMapper struct{}

func NewDeviationLogMapper() *DeviationLogMapper {
	return &DeviationLogMapper{}
}

func (m *DeviationLogMapper) ToEntity(d *model.DeviationLog) *entity.DeviationLog {
	if d == nil {
		return nil
	}
	return &entity.DeviationLog{
		Id:         d.Id,
		CourseId:   d.CourseId,
		WeekNumber: d.WeekNumber,
		Type:       entity.DeviationType(d.Type),
		Details:    d.Details,
		Resolved:   d.Resolved,
		ResolvedAt: d.ResolvedAt,
		ResolvedBy: d.ResolvedBy,
		CreatedAt:  d.CreatedAt,
	}
}

func (m *DeviationLogMapper) ToModel(d *entity.DeviationLog) *model.DeviationLog {
	if d == nil {
		return nil
	}
	return &model.DeviationLog{
		Id:         d.Id,
		CourseId:   d.CourseId,
		WeekNumber: d.WeekNumber,
		Type:       string(d.Type),
		Details:    d.Details,
		Resolved:   d.Resolved,
		ResolvedAt: d.ResolvedAt,
		ResolvedBy: d.ResolvedBy,
		CreatedAt:  d.CreatedAt,
	}
}

func (m *DeviationLogMapper) ToEntities(logs []*model.DeviationLog) []*entity.DeviationLog {
	entities := make([]*entity.DeviationLog, len(logs))
	for i, d := range logs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func (m *DeviationLogMapper) ToModels(logs []*entity.DeviationLog) []*model.DeviationLog {
	models := make([]*model.DeviationLog, len(logs))
	for i, d := range logs {
		models[i] = m.ToModel(d)
	}
	return models
}

type ExecutionAuditMapper struct{}

func NewExecutionAuditMapper() *ExecutionAuditMapper {
	return &ExecutionAuditMapper{}
}

func (m *ExecutionAuditMapper) ToEntity(a *model.ExecutionAudit) *entity.ExecutionAudit {
	if a == nil {
		return nil
	}
	return &entity.ExecutionAudit{
		Id:              a.Id,
		CourseId:        a.CourseId,
		WeekNumber:      a.WeekNumber,
		UploadId:        a.UploadId,
		CoverageScore:   a.CoverageScore,
		CoveragePercent: a.CoveragePercent,
		Status:          entity.CoverageStatus(a.Status),
		ScoringMode:     a.ScoringMode,
		PlanSource:      a.PlanSource,
		AuditJson:       []byte(a.AuditJson),
		CreatedAt:       a.CreatedAt,
	}
}

func (m *ExecutionAuditMapper) ToModel(a *entity.ExecutionAudit) *model.ExecutionAudit {
	if a == nil {
		return nil
	}
	return &model.ExecutionAudit{
		Id:              a.Id,
		CourseId:        a.CourseId,
		WeekNumber:      a.WeekNumber,
		UploadId:        a.UploadId,
		CoverageScore:   a.CoverageScore,
		CoveragePercent: a.CoveragePercent,
		Status:          string(a.Status),
		ScoringMode:     a.ScoringMode,
		PlanSource:      a.PlanSource,
		AuditJson:       a.AuditJson,
		CreatedAt:       a.CreatedAt,
	}
}

func (m *ExecutionAuditMapper) ToEntities(audits []*model.ExecutionAudit) []*entity.ExecutionAudit {
	entities := make([]*entity.ExecutionAudit, len(audits))
	for i, a := range audits {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
