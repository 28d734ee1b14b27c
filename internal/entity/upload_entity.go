package entity

import (
	"time"

	"github.com/google/uuid"
)

// ManifestEntry records what happened to one archive member.
type ManifestEntry struct {
	Path    string `json:"path"`
	Ext     string `json:"ext"`
	Chars   int    `json:"chars"`
	Pages   int    `json:"pages,omitempty"`
	Error   string `json:"error,omitempty"`
	Skipped string `json:"skipped,omitempty"`
}

type Upload struct {
	Id               uuid.UUID
	CourseId         uuid.UUID
	WeekNo           int
	UploaderId       *uuid.UUID
	FilenameOriginal string
	FilenameStored   string
	StoragePath      string
	Ext              string
	FileTypeGuess    string
	Bytes            int64
	Manifest         []ManifestEntry
	CreatedAt        time.Time
}

type UploadText struct {
	Id            uuid.UUID
	UploadId      uuid.UUID
	Text          string
	TextChars     int
	NeedsOcr      bool
	ParseWarnings []string
	CreatedAt     time.Time
}

type UploadChunk struct {
	Id             uuid.UUID
	UploadId       uuid.UUID
	ChunkIndex     int
	Content        string
	Embedding      []float32
	EmbeddingModel string
	CreatedAt      time.Time
}
