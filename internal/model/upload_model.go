package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Upload struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CourseId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	WeekNo           int            `gorm:"not null;index"`
	UploaderId       *uuid.UUID     `gorm:"type:uuid"`
	FilenameOriginal string         `gorm:"type:varchar(255)"`
	FilenameStored   string         `gorm:"type:varchar(255)"`
	StoragePath      string         `gorm:"type:text"`
	Ext              string         `gorm:"type:varchar(10)"`
	FileTypeGuess    string         `gorm:"type:varchar(40)"`
	Bytes            int64          `gorm:"not null;default:0"`
	ParseLog         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
}

func (Upload) TableName() string {
	return "uploads"
}

func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.Id == uuid.Nil {
		u.Id = uuid.New()
	}
	return nil
}

type UploadText struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UploadId      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Text          string         `gorm:"type:text"`
	TextChars     int            `gorm:"not null;default:0"`
	NeedsOcr      bool           `gorm:"not null;default:false"`
	ParseWarnings datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (UploadText) TableName() string {
	return "upload_texts"
}

func (t *UploadText) BeforeCreate(tx *gorm.DB) error {
	if t.Id == uuid.Nil {
		t.Id = uuid.New()
	}
	return nil
}

// UploadChunk is one delivered chunk with the vector the semantic pass used.
// Dimension is left open since it depends on the embedding model.
type UploadChunk struct {
	Id             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UploadId       uuid.UUID        `gorm:"type:uuid;not null;index"`
	ChunkIndex     int              `gorm:"not null;default:0"`
	Content        string           `gorm:"type:text"`
	Embedding      *pgvector.Vector `gorm:"type:vector"`
	EmbeddingModel string           `gorm:"type:varchar(100)"`
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
}

func (UploadChunk) TableName() string {
	return "upload_chunks"
}

func (c *UploadChunk) BeforeCreate(tx *gorm.DB) error {
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	return nil
}
