package contract

import (
	"context"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/repository/specification"
)

type ExecutionAuditRepository interface {
	Create(ctx context.Context, audit *entity.ExecutionAudit) error
	// FindAll returns newest first.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExecutionAudit, error)
}
