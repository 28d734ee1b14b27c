package implementation

import (
	"context"
	"errors"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/mapper"
	"course-qa-be/internal/model"
	"course-qa-be/internal/repository/contract"
	"course-qa-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyExecutionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WeeklyExecutionMapper
}

func NewWeeklyExecutionRepository(db *gorm.DB) contract.WeeklyExecutionRepository {
	return &WeeklyExecutionRepositoryImpl{
		db:     db,
		mapper: mapper.NewWeeklyExecutionMapper(),
	}
}

func (r *WeeklyExecutionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

var executionUpsertColumns = []string{
	"delivered_topics",
	"coverage_score",
	"coverage_percent",
	"coverage_status",
	"scoring_mode",
	"matched_terms",
	"missing_terms",
	"evidence_links",
	"upload_id",
	"last_updated_at",
	"updated_at",
}

func (r *WeeklyExecutionRepositoryImpl) Upsert(ctx context.Context, execution *entity.WeeklyExecution) error {
	m := r.mapper.ToModel(execution)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "week_number"}},
		DoUpdates: clause.AssignmentColumns(executionUpsertColumns),
	}).Create(m).Error
	if err != nil {
		return err
	}

	saved, err := r.FindOne(ctx,
		specification.ByCourseID{CourseID: execution.CourseId},
		specification.ByWeek{Week: execution.WeekNumber},
	)
	if err != nil {
		return err
	}
	if saved != nil {
		*execution = *saved
	}
	return nil
}

func (r *WeeklyExecutionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WeeklyExecution, error) {
	var m model.WeeklyExecution
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WeeklyExecutionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyExecution, error) {
	var models []*model.WeeklyExecution
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
