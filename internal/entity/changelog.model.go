package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Changelog records one review-state transition of a dataset version.
type Changelog struct {
	gorm.Model
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DatasetID  uuid.UUID `gorm:"type:uuid;index" json:"dataset_id"`
	VersionID  uuid.UUID `gorm:"type:uuid;index" json:"version_id"`
	ChangeType string    `gorm:"type:varchar(100)" json:"change_type"`
	OldValue   string    `gorm:"type:varchar(100)" json:"old_value"`
	NewValue   string    `gorm:"type:varchar(100)" json:"new_value"`
	Comments   string    `gorm:"type:text" json:"comments"`
}

func (c *Changelog) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
