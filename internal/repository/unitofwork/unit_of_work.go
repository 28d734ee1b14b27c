package unitofwork

import (
	"context"

	"course-qa-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CourseRepository() contract.CourseRepository
	WeeklyPlanRepository() contract.WeeklyPlanRepository
	WeeklyExecutionRepository() contract.WeeklyExecutionRepository
	DeviationLogRepository() contract.DeviationLogRepository
	UploadRepository() contract.UploadRepository
	ExecutionAuditRepository() contract.ExecutionAuditRepository
}
