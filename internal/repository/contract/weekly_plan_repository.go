package contract

import (
	"context"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WeeklyPlanRepository interface {
	Upsert(ctx context.Context, plan *entity.WeeklyPlan) error
	CreateBulk(ctx context.Context, plans []*entity.WeeklyPlan) error
	DeleteByCourseId(ctx context.Context, courseId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WeeklyPlan, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyPlan, error)
}
