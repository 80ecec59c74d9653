package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Language declares which language mode a metadata record is written in.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageBoth    Language = "both"
)

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageArabic, LanguageBoth:
		return true
	}
	return false
}

// MetadataRecord is the descriptive record attached to one dataset version.
// At most one record exists per version; re-saving replaces the prior one.
type MetadataRecord struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	VersionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"version_id"`

	Title             string     `gorm:"type:varchar(255)" json:"title"`
	TitleArabic       string     `gorm:"type:varchar(255)" json:"title_arabic"`
	Description       string     `gorm:"type:text" json:"description"`
	DescriptionArabic string     `gorm:"type:text" json:"description_arabic"`
	Category          string     `gorm:"type:varchar(100);not null;default:'General'" json:"category"`
	Tags              StringList `gorm:"type:text" json:"tags"`
	TagsArabic        StringList `gorm:"type:text" json:"tags_arabic"`
	Language          Language   `gorm:"type:varchar(10);not null" json:"language"`
}

func (m *MetadataRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
