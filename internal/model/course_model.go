package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseCode string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Title      string    `gorm:"type:varchar(255);not null"`
	GuideText  *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	return nil
}
