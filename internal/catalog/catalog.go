// Package catalog owns the dataset aggregate: the immutable column schema
// established by the first upload and the append-only chain of versions
// behind it.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/entity"
	"github.com/qurtubah/bayanat/internal/filestore"
	"github.com/qurtubah/bayanat/internal/ingest"
)

// CreateDataset ingests the first upload of a new dataset. The extracted
// columns become the dataset's canonical schema and version 1 starts in
// draft.
func CreateDataset(ctx context.Context, app *appcontext.Context, filename string, data []byte) (*entity.Dataset, *entity.DatasetVersion, error) {
	schema, err := ingest.Extract(data, filename)
	if err != nil {
		return nil, nil, err
	}

	dataset := &entity.Dataset{
		ID:       uuid.New(),
		Filename: filename,
		FileSize: schema.FileSize,
		RowCount: schema.RowCount,
		Columns:  entity.StringList(schema.Columns),
	}

	path, err := storeBytes(ctx, app, objectKey(dataset.ID, 1, filename), data)
	if err != nil {
		return nil, nil, err
	}

	version := &entity.DatasetVersion{
		DatasetID:     dataset.ID,
		VersionNumber: 1,
		FilePath:      path,
		FileSize:      schema.FileSize,
		RowCount:      schema.RowCount,
		Status:        entity.StatusDraft,
	}

	err = app.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dataset).Error; err != nil {
			return err
		}
		return tx.Create(version).Error
	})
	if err != nil {
		// The version row never existed, so only the stored bytes can be
		// orphaned. Remove them best-effort.
		if delErr := app.Files.Delete(ctx, path); delErr != nil {
			app.Logger.Warn("failed to clean up orphaned object",
				zap.String("path", path), zap.Error(delErr))
		}
		return nil, nil, Error.Wrap(err)
	}

	return dataset, version, nil
}

// AppendVersion ingests a replacement upload for an existing dataset. The
// upload's column set must equal the canonical set (order is irrelevant);
// on match the next version number is assigned under the per-dataset lock.
func AppendVersion(ctx context.Context, app *appcontext.Context, datasetID uuid.UUID, filename string, data []byte) (*entity.DatasetVersion, error) {
	schema, err := ingest.Extract(data, filename)
	if err != nil {
		return nil, err
	}

	datasetLocks.Lock(datasetID)
	defer datasetLocks.Unlock(datasetID)

	var dataset entity.Dataset
	if err := app.DB.First(&dataset, "id = ?", datasetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, Error.Wrap(err)
	}

	if mismatch := compareColumnSets(dataset.Columns, schema.Columns); mismatch != nil {
		return nil, mismatch
	}

	var next int
	if err := app.DB.Model(&entity.DatasetVersion{}).
		Where("dataset_id = ?", datasetID).
		Select("COALESCE(MAX(version_number), 0) + 1").
		Scan(&next).Error; err != nil {
		return nil, Error.Wrap(err)
	}

	path, err := storeBytes(ctx, app, objectKey(datasetID, next, filename), data)
	if err != nil {
		return nil, err
	}

	version := &entity.DatasetVersion{
		DatasetID:     datasetID,
		VersionNumber: next,
		FilePath:      path,
		FileSize:      schema.FileSize,
		RowCount:      schema.RowCount,
		Status:        entity.StatusDraft,
	}

	err = app.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		// Refresh the dataset's cached attributes only when the new version
		// actually changed them, so watchers see no spurious updates.
		updates := map[string]interface{}{}
		if dataset.RowCount != schema.RowCount {
			updates["row_count"] = schema.RowCount
		}
		if dataset.FileSize != schema.FileSize {
			updates["file_size"] = schema.FileSize
		}
		if dataset.Filename != filename {
			updates["filename"] = filename
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&entity.Dataset{}).Where("id = ?", datasetID).Updates(updates).Error
	})
	if err != nil {
		if delErr := app.Files.Delete(ctx, path); delErr != nil {
			app.Logger.Warn("failed to clean up orphaned object",
				zap.String("path", path), zap.Error(delErr))
		}
		return nil, Error.Wrap(err)
	}

	app.Cache.InvalidateDataset(ctx, datasetID)

	return version, nil
}

// GetDataset returns a dataset with its versions and each version's latest
// metadata record, newest version last.
func GetDataset(ctx context.Context, app *appcontext.Context, datasetID uuid.UUID) (*entity.Dataset, error) {
	var cached entity.Dataset
	if app.Cache.GetDataset(ctx, datasetID, &cached) {
		return &cached, nil
	}

	var dataset entity.Dataset
	err := app.DB.
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number ASC")
		}).
		Preload("Versions.Metadata").
		First(&dataset, "id = ?", datasetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, Error.Wrap(err)
	}

	app.Cache.SetDataset(ctx, datasetID, &dataset)
	return &dataset, nil
}

// ListDatasets returns every dataset without version preloads.
func ListDatasets(app *appcontext.Context) ([]entity.Dataset, error) {
	var datasets []entity.Dataset
	if err := app.DB.Order("created_at DESC").Find(&datasets).Error; err != nil {
		return nil, Error.Wrap(err)
	}
	return datasets, nil
}

// LatestVersion returns the version with the highest number.
func LatestVersion(app *appcontext.Context, datasetID uuid.UUID) (*entity.DatasetVersion, error) {
	var version entity.DatasetVersion
	err := app.DB.
		Where("dataset_id = ?", datasetID).
		Order("version_number DESC").
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, Error.Wrap(err)
	}
	return &version, nil
}

// FindVersion returns the version with the given number.
func FindVersion(app *appcontext.Context, datasetID uuid.UUID, versionNumber int) (*entity.DatasetVersion, error) {
	var version entity.DatasetVersion
	err := app.DB.
		Where("dataset_id = ? AND version_number = ?", datasetID, versionNumber).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, Error.Wrap(err)
	}
	return &version, nil
}

// GetVersionByID returns a version by its opaque id.
func GetVersionByID(app *appcontext.Context, versionID uuid.UUID) (*entity.DatasetVersion, error) {
	var version entity.DatasetVersion
	if err := app.DB.First(&version, "id = ?", versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, Error.Wrap(err)
	}
	return &version, nil
}

// GetVersionFile reads a version's raw bytes back out of the file store.
// A missing object is a state error, not an infrastructure one; only
// transient read failures are retried.
func GetVersionFile(ctx context.Context, app *appcontext.Context, version *entity.DatasetVersion) ([]byte, error) {
	data, err := app.Files.Get(ctx, version.FilePath)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, filestore.ErrNotFound) {
		return nil, err
	}
	app.Logger.Warn("file store get failed, retrying once",
		zap.String("path", version.FilePath), zap.Error(err))

	data, err = app.Files.Get(ctx, version.FilePath)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return nil, err
		}
		app.Logger.Error("file store get failed after retry",
			zap.String("path", version.FilePath), zap.Error(err))
		return nil, ErrStorageUnavailable
	}
	return data, nil
}

// storeBytes puts the upload into the file store, retrying a failure once
// before reporting the store unavailable. The caller creates the version row
// only after this succeeds.
func storeBytes(ctx context.Context, app *appcontext.Context, key string, data []byte) (string, error) {
	path, err := app.Files.Put(ctx, key, data)
	if err == nil {
		return path, nil
	}
	app.Logger.Warn("file store put failed, retrying once",
		zap.String("key", key), zap.Error(err))

	path, err = app.Files.Put(ctx, key, data)
	if err != nil {
		app.Logger.Error("file store put failed after retry",
			zap.String("key", key), zap.Error(err))
		return "", ErrStorageUnavailable
	}
	return path, nil
}

func objectKey(datasetID uuid.UUID, versionNumber int, filename string) string {
	return fmt.Sprintf("datasets/%s/v%d/%s", datasetID, versionNumber, filename)
}

// compareColumnSets returns nil when the two column lists contain the same
// set of names, otherwise a SchemaMismatchError naming the symmetric
// difference.
func compareColumnSets(canonical, uploaded []string) *SchemaMismatchError {
	canonicalSet := make(map[string]bool, len(canonical))
	for _, col := range canonical {
		canonicalSet[col] = true
	}
	uploadedSet := make(map[string]bool, len(uploaded))
	for _, col := range uploaded {
		uploadedSet[col] = true
	}

	var mismatch SchemaMismatchError
	for _, col := range canonical {
		if !uploadedSet[col] && !contains(mismatch.Missing, col) {
			mismatch.Missing = append(mismatch.Missing, col)
		}
	}
	for _, col := range uploaded {
		if !canonicalSet[col] && !contains(mismatch.Extra, col) {
			mismatch.Extra = append(mismatch.Extra, col)
		}
	}

	if len(mismatch.Missing) == 0 && len(mismatch.Extra) == 0 {
		return nil
	}
	return &mismatch
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
