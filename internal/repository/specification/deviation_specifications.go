package specification

import "gorm.io/gorm"

type Unresolved struct{}

func (s Unresolved) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("resolved = ?", false)
}

type ByDeviationTypes struct {
	Types []string
}

func (s ByDeviationTypes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type IN ?", s.Types)
}
