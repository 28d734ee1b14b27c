package events

import "time"

const (
	TypeWeeklyUploadScored = "WEEKLY_UPLOAD_SCORED"
	TypeCoverageLow        = "COVERAGE_LOW"
)

// CoverageScore is the common body of the coverage events.
type CoverageScore struct {
	CourseId        string
	CourseCode      string
	WeekNo          int
	UploadId        string
	CoverageScore   float64
	CoveragePercent float64
	Status          string
	ScoringMode     string
	MissingCount    int
}

func (s CoverageScore) payload() map[string]interface{} {
	return map[string]interface{}{
		"course_id":        s.CourseId,
		"course_code":      s.CourseCode,
		"week_no":          s.WeekNo,
		"upload_id":        s.UploadId,
		"coverage_score":   s.CoverageScore,
		"coverage_percent": s.CoveragePercent,
		"status":           s.Status,
		"scoring_mode":     s.ScoringMode,
		"missing_count":    s.MissingCount,
	}
}

func NewWeeklyUploadScored(s CoverageScore, at time.Time) BaseEvent {
	return BaseEvent{Type: TypeWeeklyUploadScored, Data: s.payload(), OccurredAt: at}
}

func NewCoverageLow(s CoverageScore, at time.Time) BaseEvent {
	return BaseEvent{Type: TypeCoverageLow, Data: s.payload(), OccurredAt: at}
}
