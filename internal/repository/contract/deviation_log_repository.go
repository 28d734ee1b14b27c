package contract

import (
	"context"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DeviationLogRepository interface {
	Create(ctx context.Context, log *entity.DeviationLog) error
	CreateBulk(ctx context.Context, logs []*entity.DeviationLog) error
	Update(ctx context.Context, log *entity.DeviationLog) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DeviationLog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DeviationLog, error)
	DeleteUnresolvedByTypes(ctx context.Context, courseId uuid.UUID, types []entity.DeviationType) error
}
