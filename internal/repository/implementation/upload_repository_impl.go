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
)

type UploadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UploadMapper
}

func NewUploadRepository(db *gorm.DB) contract.UploadRepository {
	return &UploadRepositoryImpl{
		db:     db,
		mapper: mapper.NewUploadMapper(),
	}
}

func (r *UploadRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UploadRepositoryImpl) Create(ctx context.Context, upload *entity.Upload) error {
	m := r.mapper.ToModel(upload)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*upload = *r.mapper.ToEntity(m)
	return nil
}

func (r *UploadRepositoryImpl) CreateText(ctx context.Context, text *entity.UploadText) error {
	m := r.mapper.TextToModel(text)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*text = *r.mapper.TextToEntity(m)
	return nil
}

func (r *UploadRepositoryImpl) CreateChunks(ctx context.Context, chunks []*entity.UploadChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ChunksToModels(chunks)
	if err := r.db.WithContext(ctx).CreateInBatches(&models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ChunkToEntity(m)
	}
	return nil
}

func (r *UploadRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Upload, error) {
	var m model.Upload
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UploadRepositoryImpl) FindChunks(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadChunk, error) {
	var models []*model.UploadChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("chunk_index ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChunksToEntities(models), nil
}
