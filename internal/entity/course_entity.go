package entity

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	Id         uuid.UUID
	CourseCode string
	Title      string
	GuideText  string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
