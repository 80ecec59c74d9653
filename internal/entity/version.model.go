package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VersionStatus is the review state of a single dataset version.
type VersionStatus string

const (
	StatusDraft     VersionStatus = "draft"
	StatusReview    VersionStatus = "review"
	StatusPublished VersionStatus = "published"
	StatusRejected  VersionStatus = "rejected"
)

// Valid reports whether s is one of the four known statuses.
func (s VersionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s VersionStatus) Terminal() bool {
	return s == StatusPublished || s == StatusRejected
}

type DatasetVersion struct {
	gorm.Model
	ID            uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	DatasetID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_version_number_dataset" json:"dataset_id"`
	VersionNumber int           `gorm:"not null;uniqueIndex:idx_version_number_dataset" json:"version_number"`
	FilePath      string        `gorm:"type:text;not null" json:"file_path"`
	FileSize      int64         `gorm:"type:bigint" json:"file_size"`
	RowCount      int           `gorm:"type:bigint" json:"row_count"`
	Status        VersionStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Comments      string        `gorm:"type:text" json:"comments"`

	Metadata *MetadataRecord `gorm:"foreignKey:VersionID" json:"metadata,omitempty"`
}

func (v *DatasetVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
