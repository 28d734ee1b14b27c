package contract

import (
	"context"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/repository/specification"
)

type UploadRepository interface {
	Create(ctx context.Context, upload *entity.Upload) error
	CreateText(ctx context.Context, text *entity.UploadText) error
	CreateChunks(ctx context.Context, chunks []*entity.UploadChunk) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Upload, error)
	FindChunks(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadChunk, error)
}
