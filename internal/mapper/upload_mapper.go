package mapper

import (
	"encoding/json"

	"course-qa-be/internal/entity"
	"course-qa-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type UploadMapper struct{}

func NewUploadMapper() *UploadMapper {
	return &UploadMapper{}
}

func (m *UploadMapper) ToEntity(u *model.Upload) *entity.Upload {
	if u == nil {
		return nil
	}

	manifest := []entity.ManifestEntry{}
	if len(u.ParseLog) > 0 {
		_ = json.Unmarshal(u.ParseLog, &manifest)
	}

	return &entity.Upload{
		Id:               u.Id,
		CourseId:         u.CourseId,
		WeekNo:           u.WeekNo,
		UploaderId:       u.UploaderId,
		FilenameOriginal: u.FilenameOriginal,
		FilenameStored:   u.FilenameStored,
		StoragePath:      u.StoragePath,
		Ext:              u.Ext,
		FileTypeGuess:    u.FileTypeGuess,
		Bytes:            u.Bytes,
		Manifest:         manifest,
		CreatedAt:        u.CreatedAt,
	}
}

func (m *UploadMapper) ToModel(u *entity.Upload) *model.Upload {
	if u == nil {
		return nil
	}

	manifest := u.Manifest
	if manifest == nil {
		manifest = []entity.ManifestEntry{}
	}

	return &model.Upload{
		Id:               u.Id,
		CourseId:         u.CourseId,
		WeekNo:           u.WeekNo,
		UploaderId:       u.UploaderId,
		FilenameOriginal: u.FilenameOriginal,
		FilenameStored:   u.FilenameStored,
		StoragePath:      u.StoragePath,
		Ext:              u.Ext,
		FileTypeGuess:    u.FileTypeGuess,
		Bytes:            u.Bytes,
		ParseLog:         toJSON(manifest),
		CreatedAt:        u.CreatedAt,
	}
}

func (m *UploadMapper) TextToEntity(t *model.UploadText) *entity.UploadText {
	if t == nil {
		return nil
	}
	return &entity.UploadText{
		Id:            t.Id,
		UploadId:      t.UploadId,
		Text:          t.Text,
		TextChars:     t.TextChars,
		NeedsOcr:      t.NeedsOcr,
		ParseWarnings: stringsFromJSON(t.ParseWarnings),
		CreatedAt:     t.CreatedAt,
	}
}

func (m *UploadMapper) TextToModel(t *entity.UploadText) *model.UploadText {
	if t == nil {
		return nil
	}
	return &model.UploadText{
		Id:            t.Id,
		UploadId:      t.UploadId,
		Text:          t.Text,
		TextChars:     t.TextChars,
		NeedsOcr:      t.NeedsOcr,
		ParseWarnings: toJSON(nonNilStrings(t.ParseWarnings)),
		CreatedAt:     t.CreatedAt,
	}
}

func (m *UploadMapper) ChunkToEntity(c *model.UploadChunk) *entity.UploadChunk {
	if c == nil {
		return nil
	}
	var vec []float32
	if c.Embedding != nil {
		vec = c.Embedding.Slice()
	}
	return &entity.UploadChunk{
		Id:             c.Id,
		UploadId:       c.UploadId,
		ChunkIndex:     c.ChunkIndex,
		Content:        c.Content,
		Embedding:      vec,
		EmbeddingModel: c.EmbeddingModel,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *UploadMapper) ChunkToModel(c *entity.UploadChunk) *model.UploadChunk {
	if c == nil {
		return nil
	}
	var vec *pgvector.Vector
	if len(c.Embedding) > 0 {
		v := pgvector.NewVector(c.Embedding)
		vec = &v
	}
	return &model.UploadChunk{
		Id:             c.Id,
		UploadId:       c.UploadId,
		ChunkIndex:     c.ChunkIndex,
		Content:        c.Content,
		Embedding:      vec,
		EmbeddingModel: c.EmbeddingModel,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *UploadMapper) ChunksToModels(chunks []*entity.UploadChunk) []*model.UploadChunk {
	models := make([]*model.UploadChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ChunkToModel(c)
	}
	return models
}

func (m *UploadMapper) ChunksToEntities(chunks []*model.UploadChunk) []*entity.UploadChunk {
	entities := make([]*entity.UploadChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ChunkToEntity(c)
	}
	return entities
}
