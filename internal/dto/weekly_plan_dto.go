package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertWeeklyPlanRequest struct {
	PlannedTopics      string     `json:"planned_topics" validate:"required"`
	PlannedAssessments string     `json:"planned_assessments"`
	PlannedStartDate   *time.Time `json:"planned_start_date"`
	PlannedEndDate     *time.Time `json:"planned_end_date"`
}

type WeeklyPlanResponse struct {
	Id                 uuid.UUID  `json:"id"`
	CourseId           uuid.UUID  `json:"course_id"`
	WeekNumber         int        `json:"week_number"`
	PlannedTopics      string     `json:"planned_topics"`
	PlannedAssessments string     `json:"planned_assessments"`
	PlannedStartDate   *time.Time `json:"planned_start_date"`
	PlannedEndDate     *time.Time `json:"planned_end_date"`
}

type SetCourseGuideRequest struct {
	GuideText string `json:"guide_text" validate:"required"`
}

type CourseResponse struct {
	Id         uuid.UUID `json:"id"`
	CourseCode string    `json:"course_code"`
	Title      string    `json:"title"`
	GuideChars int       `json:"guide_chars"`
}

type GenerateWeeklyPlansRequest struct {
	Weeks int `json:"weeks" validate:"omitempty,min=1,max=16"`
}

type GenerateWeeklyPlansResponse struct {
	CourseId uuid.UUID            `json:"course_id"`
	Created  int                  `json:"created"`
	Plans    []WeeklyPlanResponse `json:"plans"`
}
