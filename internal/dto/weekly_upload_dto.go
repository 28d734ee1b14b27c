package dto

import "github.com/google/uuid"

type WeeklyUploadRequest struct {
	CourseKey   string
	WeekNo      int
	UploaderId  *uuid.UUID
	ZipBytes    []byte
	ZipFilename string
}

type WeeklyUploadResponse struct {
	CourseId         uuid.UUID `json:"course_id"`
	CourseCode       string    `json:"course_code"`
	WeekNo           int       `json:"week_no"`
	CoverageScore    float64   `json:"coverage_score"`
	CoveragePercent  float64   `json:"coverage_percent"`
	Status           string    `json:"status"`
	MissingTerms     []string  `json:"missing_terms"`
	MatchedTerms     []string  `json:"matched_terms"`
	UploadId         uuid.UUID `json:"upload_id"`
	FilesSeen        int       `json:"files_seen"`
	FilesUsed        int       `json:"files_used"`
	ScoringMode      string    `json:"scoring_mode"`
	LexicalCoverage  float64   `json:"lexical_coverage"`
	SemanticCoverage float64   `json:"semantic_coverage"`
	PlanSource       string    `json:"plan_source"`
	PlanConfidence   string    `json:"plan_confidence"`
	PlanTextLen      int       `json:"plan_text_len"`
	DeliveredTextLen int       `json:"delivered_text_len"`
	ManifestErrors   []string  `json:"manifest_errors"`
}

// PublishDeviationSweepMessage is queued after each scored upload.
type PublishDeviationSweepMessage struct {
	CourseId uuid.UUID `json:"course_id"`
	WeekNo   int       `json:"week_no"`
}
