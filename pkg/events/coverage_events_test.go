package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoverageEvents(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s := CoverageScore{CourseId: "c1", CourseCode: "CS101", WeekNo: 3, CoveragePercent: 42.5, Status: "behind"}

	low := NewCoverageLow(s, at)
	assert.Equal(t, TypeCoverageLow, low.EventType())
	assert.Equal(t, at, low.Timestamp())
	assert.Equal(t, 3, low.Payload()["week_no"])
	assert.Equal(t, "CS101", low.Payload()["course_code"])

	scored := NewWeeklyUploadScored(s, at)
	assert.Equal(t, TypeWeeklyUploadScored, scored.EventType())
	assert.Equal(t, 42.5, scored.Payload()["coverage_percent"])
}
