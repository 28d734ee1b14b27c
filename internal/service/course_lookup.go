package service

import (
	"context"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/pkg/apperr"
	"course-qa-be/internal/repository/unitofwork"
)

func findCourse(ctx context.Context, uow unitofwork.UnitOfWork, key string) (*entity.Course, error) {
	course, err := uow.CourseRepository().FindByIdOrCode(ctx, key)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperr.ErrCourseNotFound.With("course not found: %s", key)
	}
	return course, nil
}
