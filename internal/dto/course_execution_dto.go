package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type WeekExecutionResponse struct {
	WeekNumber       int        `json:"week_number"`
	PlannedTopics    string     `json:"planned_topics"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	DeliveredTopics  string     `json:"delivered_topics"`
	CoverageScore    float64    `json:"coverage_score"`
	CoveragePercent  float64    `json:"coverage_percent"`
	CoverageStatus   string     `json:"coverage_status"`
	ScoringMode      string     `json:"scoring_mode,omitempty"`
	MatchedTerms     []string   `json:"matched_terms"`
	MissingTerms     []string   `json:"missing_terms"`
	EvidenceLinks    []string   `json:"evidence_links"`
	UploadId         *uuid.UUID `json:"upload_id"`
	LastUpdatedAt    *time.Time `json:"last_updated_at"`
}

type CourseExecutionResponse struct {
	CourseId   uuid.UUID               `json:"course_id"`
	CourseCode string                  `json:"course_code"`
	Title      string                  `json:"title"`
	Weeks      []WeekExecutionResponse `json:"weeks"`
}

type DeviationResponse struct {
	Id         uuid.UUID       `json:"id"`
	CourseId   uuid.UUID       `json:"course_id"`
	WeekNumber int             `json:"week_number"`
	Type       string          `json:"type"`
	Details    json.RawMessage `json:"details"`
	Resolved   bool            `json:"resolved"`
	ResolvedAt *time.Time      `json:"resolved_at"`
	ResolvedBy *uuid.UUID      `json:"resolved_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

type RefreshDeviationsResponse struct {
	CourseId       uuid.UUID `json:"course_id"`
	MissingContent int       `json:"missing_content"`
	LateDelivery   int       `json:"late_delivery"`
}

type ExecutionAuditResponse struct {
	Id              uuid.UUID       `json:"id"`
	WeekNumber      int             `json:"week_number"`
	UploadId        uuid.UUID       `json:"upload_id"`
	CoverageScore   float64         `json:"coverage_score"`
	CoveragePercent float64         `json:"coverage_percent"`
	Status          string          `json:"status"`
	ScoringMode     string          `json:"scoring_mode"`
	PlanSource      string          `json:"plan_source"`
	Audit           json.RawMessage `json:"audit"`
	CreatedAt       time.Time       `json:"created_at"`
}
