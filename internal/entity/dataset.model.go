package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is an ordered list of strings stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Dataset is the long-lived tabular resource. Columns is the schema
// established by version 1 and is never mutated afterwards; FileSize and
// RowCount mirror the latest version.
type Dataset struct {
	gorm.Model
	ID       uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Filename string     `gorm:"type:varchar(255);not null" json:"filename"`
	FileSize int64      `gorm:"type:bigint" json:"file_size"`
	RowCount int        `gorm:"type:bigint" json:"row_count"`
	Columns  StringList `gorm:"type:text;not null" json:"columns"`

	Versions []DatasetVersion `gorm:"foreignKey:DatasetID" json:"versions,omitempty"`
}

func (d *Dataset) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
