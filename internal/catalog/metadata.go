package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/entity"
	"github.com/qurtubah/bayanat/internal/metadata"
)

// MetadataInput carries the contributor-supplied (or AI-seeded) fields of a
// metadata save.
type MetadataInput struct {
	Title             string          `json:"title"`
	TitleArabic       string          `json:"title_arabic"`
	Description       string          `json:"description"`
	DescriptionArabic string          `json:"description_arabic"`
	Category          string          `json:"category"`
	Tags              []string        `json:"tags"`
	TagsArabic        []string        `json:"tags_arabic"`
	Language          entity.Language `json:"language"`
}

// SaveMetadata validates and stores the metadata record for a version,
// replacing any prior record. Completeness is re-checked on every save; an
// en or both mode violation rejects the save, while the permissive ar mode
// lets the save through and only blocks the later submit.
func SaveMetadata(ctx context.Context, app *appcontext.Context, versionID uuid.UUID, input MetadataInput) (*entity.MetadataRecord, error) {
	version, err := GetVersionByID(app, versionID)
	if err != nil {
		return nil, err
	}
	if version.Status.Terminal() {
		return nil, ErrVersionImmutable
	}

	if !input.Language.Valid() {
		return nil, metadata.ErrUnknownLanguage
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = metadata.DefaultCategory
	}

	record := &entity.MetadataRecord{
		VersionID:         versionID,
		Title:             input.Title,
		TitleArabic:       input.TitleArabic,
		Description:       input.Description,
		DescriptionArabic: input.DescriptionArabic,
		Category:          category,
		Tags:              entity.StringList(input.Tags),
		TagsArabic:        entity.StringList(input.TagsArabic),
		Language:          input.Language,
	}

	if err := metadata.Validate(record); err != nil {
		if metadata.BlocksSave(record, err) {
			return nil, err
		}
	}

	err = app.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("version_id = ?", versionID).Delete(&entity.MetadataRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	app.Cache.InvalidateDataset(ctx, version.DatasetID)

	return record, nil
}

// MetadataForVersion returns the active metadata record for a version, or
// nil when none has been saved yet.
func MetadataForVersion(app *appcontext.Context, versionID uuid.UUID) (*entity.MetadataRecord, error) {
	var record entity.MetadataRecord
	err := app.DB.Where("version_id = ?", versionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, Error.Wrap(err)
	}
	return &record, nil
}
