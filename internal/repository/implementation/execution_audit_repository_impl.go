package implementation

import (
	"context"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/mapper"
	"course-qa-be/internal/model"
	"course-qa-be/internal/repository/contract"
	"course-qa-be/internal/repository/scope"
	"course-qa-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ExecutionAuditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExecutionAuditMapper
}

func NewExecutionAuditRepository(db *gorm.DB) contract.ExecutionAuditRepository {
	return &ExecutionAuditRepositoryImpl{
		db:     db,
		mapper: mapper.NewExecutionAuditMapper(),
	}
}

func (r *ExecutionAuditRepositoryImpl) Create(ctx context.Context, audit *entity.ExecutionAudit) error {
	m := r.mapper.ToModel(audit)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*audit = *r.mapper.ToEntity(m)
	return nil
}

func (r *ExecutionAuditRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExecutionAudit, error) {
	var models []*model.ExecutionAudit
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Scopes(scope.OrderByCreatedDesc).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
