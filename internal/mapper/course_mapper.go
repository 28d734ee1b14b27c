package mapper

import (
	"time"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/model"
)

type CourseMapper struct{}

func NewCourseMapper() *CourseMapper {
	return &CourseMapper{}
}

func (m *CourseMapper) ToEntity(c *model.Course) *entity.Course {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	guide := ""
	if c.GuideText != nil {
		guide = *c.GuideText
	}

	return &entity.Course{
		Id:         c.Id,
		CourseCode: c.CourseCode,
		Title:      c.Title,
		GuideText:  guide,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *CourseMapper) ToModel(c *entity.Course) *model.Course {
	if c == nil {
		return nil
	}

	var guide *string
	if c.GuideText != "" {
		g := c.GuideText
		guide = &g
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Course{
		Id:         c.Id,
		CourseCode: c.CourseCode,
		Title:      c.Title,
		GuideText:  guide,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *CourseMapper) ToEntities(courses []*model.Course) []*entity.Course {
	entities := make([]*entity.Course, len(courses))
	for i, c := range courses {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
