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
	"gorm.io/gorm/clause"
)

type WeeklyPlanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WeeklyPlanMapper
}

func NewWeeklyPlanRepository(db *gorm.DB) contract.WeeklyPlanRepository {
	return &WeeklyPlanRepositoryImpl{
		db:     db,
		mapper: mapper.NewWeeklyPlanMapper(),
	}
}

func (r *WeeklyPlanRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WeeklyPlanRepositoryImpl) Upsert(ctx context.Context, plan *entity.WeeklyPlan) error {
	m := r.mapper.ToModel(plan)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "course_id"}, {Name: "week_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"planned_topics", "planned_assessments", "planned_start_date", "planned_end_date", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	// the conflict path keeps the existing id, so read the row back
	saved, err := r.FindOne(ctx, specification.ByCourseID{CourseID: plan.CourseId}, specification.ByWeek{Week: plan.WeekNumber})
	if err != nil {
		return err
	}
	if saved != nil {
		*plan = *saved
	}
	return nil
}

func (r *WeeklyPlanRepositoryImpl) CreateBulk(ctx context.Context, plans []*entity.WeeklyPlan) error {
	if len(plans) == 0 {
		return nil
	}
	models := r.mapper.ToModels(plans)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*plans[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *WeeklyPlanRepositoryImpl) DeleteByCourseId(ctx context.Context, courseId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseId).Delete(&model.WeeklyPlan{}).Error
}

func (r *WeeklyPlanRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WeeklyPlan, error) {
	var m model.WeeklyPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WeeklyPlanRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyPlan, error) {
	var models []*model.WeeklyPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
