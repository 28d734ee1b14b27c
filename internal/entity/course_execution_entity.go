package entity

import (
	"time"

	"github.com/google/uuid"
)

type CoverageStatus string

const (
	CoverageStatusOnTrack  CoverageStatus = "on_track"
	CoverageStatusBehind   CoverageStatus = "behind"
	CoverageStatusNoUpload CoverageStatus = "no_upload"
)

type DeviationType string

const (
	DeviationTypeCoverageLow    DeviationType = "coverage_low"
	DeviationTypeMissingContent DeviationType = "missing_content"
	DeviationTypeLateDelivery   DeviationType = "late_delivery"
)

type WeeklyPlan struct {
	Id                 uuid.UUID
	CourseId           uuid.UUID
	WeekNumber         int
	PlannedTopics      string
	PlannedAssessments string
	PlannedStartDate   *time.Time
	PlannedEndDate     *time.Time
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

type WeeklyExecution struct {
	Id              uuid.UUID
	CourseId        uuid.UUID
	WeekNumber      int
	DeliveredTopics string
	CoverageScore   float64
	CoveragePercent float64
	CoverageStatus  CoverageStatus
	ScoringMode     string
	MatchedTerms    []string
	MissingTerms    []string
	EvidenceLinks   []string
	UploadId        *uuid.UUID
	LastUpdatedAt   time.Time
	CreatedAt       time.Time
}

type DeviationLog struct {
	Id         uuid.UUID
	CourseId   uuid.UUID
	WeekNumber int
	Type       DeviationType
	Details    string
	Resolved   bool
	ResolvedAt *time.Time
	ResolvedBy *uuid.UUID
	CreatedAt  time.Time
}

type ExecutionAudit struct {
	Id              uuid.UUID
	CourseId        uuid.UUID
	WeekNumber      int
	UploadId        uuid.UUID
	CoverageScore   float64
	CoveragePercent float64
	Status          CoverageStatus
	ScoringMode     string
	PlanSource      string
	AuditJson       []byte
	CreatedAt       time.Time
}
