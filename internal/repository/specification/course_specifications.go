package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCourseID struct {
	CourseID uuid.UUID
}

func (s ByCourseID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("course_id = ?", s.CourseID)
}

type ByCourseCode struct {
	Code string
}

func (s ByCourseCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("course_code = ?", s.Code)
}

// ByIDOrCode matches a course whose id or course code equals the key.
type ByIDOrCode struct {
	ID   uuid.UUID
	Code string
}

func (s ByIDOrCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ? OR course_code = ?", s.ID, s.Code)
}

type ByWeek struct {
	Week int
}

func (s ByWeek) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("week_number = ?", s.Week)
}

type ByUploadID struct {
	UploadID uuid.UUID
}

func (s ByUploadID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("upload_id = ?", s.UploadID)
}
