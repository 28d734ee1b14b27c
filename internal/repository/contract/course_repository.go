package contract

import (
	"context"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/repository/specification"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	Update(ctx context.Context, course *entity.Course) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Course, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Course, error)
	// FindByIdOrCode resolves a route key that may be either a UUID or a course code.
	FindByIdOrCode(ctx context.Context, key string) (*entity.Course, error)
}
