package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WeeklyPlan struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseId           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_plans_course_week"`
	WeekNumber         int       `gorm:"not null;uniqueIndex:idx_weekly_plans_course_week"`
	PlannedTopics      string    `gorm:"type:text"`
	PlannedAssessments string    `gorm:"type:text"`
	PlannedStartDate   *time.Time
	PlannedEndDate     *time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (WeeklyPlan) TableName() string {
	return "weekly_plans"
}

func (p *WeeklyPlan) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	return nil
}

// WeeklyExecution is the current coverage state of one (course, week). The
// unique index backs the ON CONFLICT upsert.
type WeeklyExecution struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CourseId        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_executions_course_week"`
	WeekNumber      int            `gorm:"not null;uniqueIndex:idx_weekly_executions_course_week"`
	DeliveredTopics string         `gorm:"type:text"`
	CoverageScore   float64        `gorm:"not null;default:0"`
	CoveragePercent float64        `gorm:"not null;default:0"`
	CoverageStatus  string         `gorm:"type:varchar(20);not null"`
	ScoringMode     string         `gorm:"type:varchar(20)"`
	MatchedTerms    datatypes.JSON `gorm:"type:jsonb"`
	MissingTerms    datatypes.JSON `gorm:"type:jsonb"`
	EvidenceLinks   datatypes.JSON `gorm:"type:jsonb"`
	UploadId        *uuid.UUID     `gorm:"type:uuid"`
	LastUpdatedAt   time.Time      `gorm:"not null"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (WeeklyExecution) TableName() string {
	return "weekly_executions"
}

func (e *WeeklyExecution) BeforeCreate(tx *gorm.DB) error {
	if e.Id == uuid.Nil {
		e.Id = uuid.New()
	}
	return nil
}

type DeviationLog struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseId   uuid.UUID `gorm:"type:uuid;not null;index"`
	WeekNumber int       `gorm:"not null;index"`
	Type       string    `gorm:"type:varchar(40);not null;index"`
	Details    string    `gorm:"type:text"`
	Resolved   bool      `gorm:"not null;default:false"`
	ResolvedAt *time.Time
	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index"`
}

func (DeviationLog) TableName() string {
	return "deviation_logs"
}

func (d *DeviationLog) BeforeCreate(tx *gorm.DB) error {
	if d.Id == uuid.Nil {
		d.Id = uuid.New()
	}
	return nil
}

// ExecutionAudit keeps every scored upload, including the full coverage audit.
type ExecutionAudit struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CourseId        uuid.UUID      `gorm:"type:uuid;not null;index:idx_execution_audits_course_week"`
	WeekNumber      int            `gorm:"not null;index:idx_execution_audits_course_week"`
	UploadId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	CoverageScore   float64        `gorm:"not null"`
	CoveragePercent float64        `gorm:"not null"`
	Status          string         `gorm:"type:varchar(20);not null"`
	ScoringMode     string         `gorm:"type:varchar(20);not null"`
	PlanSource      string         `gorm:"type:varchar(80)"`
	AuditJson       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index"`
}

func (ExecutionAudit) TableName() string {
	return "execution_audits"
}

func (a *ExecutionAudit) BeforeCreate(tx *gorm.DB) error {
	if a.Id == uuid.Nil {
		a.Id = uuid.New()
	}
	return nil
}
