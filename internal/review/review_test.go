package review

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/catalog"
	"github.com/qurtubah/bayanat/internal/entity"
	"github.com/qurtubah/bayanat/internal/filestore"
)

func newTestContext(t *testing.T) *appcontext.Context {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Dataset{},
		&entity.DatasetVersion{},
		&entity.MetadataRecord{},
		&entity.Changelog{},
	))

	return &appcontext.Context{
		DB:     db,
		Logger: zap.NewNop(),
		Files:  filestore.NewMemoryStore(),
	}
}

func newDraftVersion(t *testing.T, app *appcontext.Context) *entity.DatasetVersion {
	t.Helper()
	_, version, err := catalog.CreateDataset(context.Background(), app, "a.csv", []byte("Name,Age\nAlice,30\nBob,25\n"))
	require.NoError(t, err)
	return version
}

func saveCompleteMetadata(t *testing.T, app *appcontext.Context, version *entity.DatasetVersion) {
	t.Helper()
	_, err := catalog.SaveMetadata(context.Background(), app, version.ID, catalog.MetadataInput{
		Title:       "Population by district",
		Description: "Annual resident counts per district.",
		Language:    entity.LanguageEnglish,
	})
	require.NoError(t, err)
}

func TestSubmitRequiresMetadata(t *testing.T) {
	app := newTestContext(t)
	version := newDraftVersion(t, app)

	_, err := Submit(context.Background(), app, version.ID)
	require.ErrorIs(t, err, ErrMetadataIncomplete)
}

func TestSubmitRequiresCompleteMetadata(t *testing.T) {
	app := newTestContext(t)
	version := newDraftVersion(t, app)

	// ar mode saves an incomplete record without blocking; submit still
	// refuses it.
	_, err := catalog.SaveMetadata(context.Background(), app, version.ID, catalog.MetadataInput{
		Language: entity.LanguageArabic,
	})
	require.NoError(t, err)

	_, err = Submit(context.Background(), app, version.ID)
	require.ErrorIs(t, err, ErrMetadataIncomplete)
}

func TestSubmitThenApprove(t *testing.T) {
	app := newTestContext(t)
	version := newDraftVersion(t, app)
	saveCompleteMetadata(t, app, version)

	submitted, err := Submit(context.Background(), app, version.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusReview, submitted.Status)

	published, err := Approve(context.Background(), app, version.ID, "")
	require.NoError(t, err)
	require.Equal(t, entity.StatusPublished, published.Status)

	var reloaded entity.DatasetVersion
	require.NoError(t, app.DB.First(&reloaded, "id = ?", version.ID).Error)
	require.Equal(t, entity.StatusPublished, reloaded.Status)
	require.Empty(t, reloaded.Comments)
}

func TestRejectRequiresComments(t *testing.T) {
	app := newTestContext(t)
	version := newDraftVersion(t, app)
	saveCompleteMetadata(t, app, version)

	_, err := Submit(context.Background(), app, version.ID)
	require.NoError(t, err)

	_, err = Reject(context.Background(), app, version.ID, "")
	require.ErrorIs(t, err, ErrCommentsRequired)

	_, err = Reject(context.Background(), app, version.ID, "   ")
	require.ErrorIs(t, err, ErrCommentsRequired)

	rejected, err := Reject(context.Background(), app, version.ID, "missing units column")
	require.NoError(t, err)
	require.Equal(t, entity.StatusRejected, rejected.Status)
	require.Equal(t, "missing units column", rejected.Comments)
}

func TestApproveFromDraftIsInvalid(t *testing.T) {
	app := newTestContext(t)
	version := newDraftVersion(t, app)

	_, err := Approve(context.Background(), app, version.ID, "")
	require.Error(t, err)

	var transition *InvalidTransitionError
	require.True(t, errors.As(err, &transition))
	require.Equal(t, entity.StatusDraft, transition.From)
	require.Equal(t, entity.StatusPublished, transition.To)
}

func TestTerminalStatesAcceptNoTransitions(t *testing.T) {
	app := newTestContext(t)
	version := newDraftVersion(t, app)
	saveCompleteMetadata(t, app, version)

	_, err := Submit(context.Background(), app, version.ID)
	require.NoError(t, err)
	_, err = Approve(context.Background(), app, version.ID, "looks good")
	require.NoError(t, err)

	_, err = Submit(context.Background(), app, version.ID)
	var transition *InvalidTransitionError
	require.True(t, errors.As(err, &transition))

	_, err = Reject(context.Background(), app, version.ID, "too late")
	require.True(t, errors.As(err, &transition))
	require.Equal(t, entity.StatusPublished, transition.From)
}

func TestTransitionWritesChangelog(t *testing.T) {
	app := newTestContext(t)
	version := newDraftVersion(t, app)
	saveCompleteMetadata(t, app, version)

	_, err := Submit(context.Background(), app, version.ID)
	require.NoError(t, err)
	_, err = Reject(context.Background(), app, version.ID, "headers are swapped")
	require.NoError(t, err)

	var entries []entity.Changelog
	require.NoError(t, app.DB.Where("version_id = ?", version.ID).Order("created_at ASC").Find(&entries).Error)
	require.Len(t, entries, 2)

	require.Equal(t, string(entity.StatusDraft), entries[0].OldValue)
	require.Equal(t, string(entity.StatusReview), entries[0].NewValue)
	require.Equal(t, string(entity.StatusReview), entries[1].OldValue)
	require.Equal(t, string(entity.StatusRejected), entries[1].NewValue)
	require.Equal(t, "headers are swapped", entries[1].Comments)
}

func TestSubmitUnknownVersion(t *testing.T) {
	app := newTestContext(t)

	_, err := Submit(context.Background(), app, newDraftVersion(t, app).DatasetID)
	require.ErrorIs(t, err, catalog.ErrVersionNotFound)
}

func TestSecondVersionStartsOverInDraft(t *testing.T) {
	app := newTestContext(t)
	version := newDraftVersion(t, app)
	saveCompleteMetadata(t, app, version)

	_, err := Submit(context.Background(), app, version.ID)
	require.NoError(t, err)
	_, err = Approve(context.Background(), app, version.ID, "")
	require.NoError(t, err)

	next, err := catalog.AppendVersion(context.Background(), app, version.DatasetID, "a.csv", []byte("Age,Name\n31,Alice\n"))
	require.NoError(t, err)
	require.Equal(t, 2, next.VersionNumber)
	require.Equal(t, entity.StatusDraft, next.Status)
}
