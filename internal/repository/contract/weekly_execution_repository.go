package contract

import (
	"context"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/repository/specification"
)

type WeeklyExecutionRepository interface {
	// Upsert inserts or overwrites the row for (course, week) in one statement.
	Upsert(ctx context.Context, execution *entity.WeeklyExecution) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WeeklyExecution, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyExecution, error)
}
