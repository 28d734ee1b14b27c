package implementation

import (
	"context"
	"errors"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/mapper"
	"course-qa-be/internal/model"
	"course-qa-be/internal/repository/contract"
	"course-qa-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeviationLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DeviationLogMapper
}

func NewDeviationLogRepository(db *gorm.DB) contract.DeviationLogRepository {
	return &DeviationLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewDeviationLogMapper(),
	}
}

func (r *DeviationLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DeviationLogRepositoryImpl) Create(ctx context.Context, log *entity.DeviationLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *DeviationLogRepositoryImpl) CreateBulk(ctx context.Context, logs []*entity.DeviationLog) error {
	if len(logs) == 0 {
		return nil
	}
	models := r.mapper.ToModels(logs)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*logs[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DeviationLogRepositoryImpl) Update(ctx context.Context, log *entity.DeviationLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *DeviationLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DeviationLog, error) {
	var m model.DeviationLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DeviationLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DeviationLog, error) {
	var models []*model.DeviationLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DeviationLogRepositoryImpl) DeleteUnresolvedByTypes(ctx context.Context, courseId uuid.UUID, types []entity.DeviationType) error {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByCourseID{CourseID: courseId},
		specification.Unresolved{},
		specification.ByDeviationTypes{Types: names},
	)
	return query.Delete(&model.DeviationLog{}).Error
}
