// Package review is the state machine that moves a dataset version from
// draft through review to a terminal published or rejected outcome. All
// transition legality is decided in one place; handlers never compare
// statuses themselves.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/catalog"
	"github.com/qurtubah/bayanat/internal/entity"
	"github.com/qurtubah/bayanat/internal/keymutex"
	"github.com/qurtubah/bayanat/internal/metadata"
	"github.com/qurtubah/bayanat/internal/services"
)

// Error is the error class for review workflow failures.
var Error = errs.Class("review")

var (
	// ErrMetadataIncomplete blocks a submit when the version has no metadata
	// record or the record fails its language-mode completeness rule.
	ErrMetadataIncomplete = Error.New("metadata is missing or incomplete")
	// ErrCommentsRequired blocks a reject without a non-empty comment.
	ErrCommentsRequired = Error.New("comments are required to reject a version")
)

// InvalidTransitionError reports a transition the state machine does not
// permit. It is an expected, reported condition, never a silent no-op.
type InvalidTransitionError struct {
	From entity.VersionStatus
	To   entity.VersionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// transitions is the whole state machine: draft -> review -> published or
// rejected, nothing else. New revisions start over as a fresh version in
// draft, appended through the catalog.
var transitions = map[entity.VersionStatus][]entity.VersionStatus{
	entity.StatusDraft:  {entity.StatusReview},
	entity.StatusReview: {entity.StatusPublished, entity.StatusRejected},
}

func canTransition(from, to entity.VersionStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// versionLocks serializes transitions per version so a version can never be
// approved and rejected concurrently.
var versionLocks = keymutex.New()

// Submit moves a draft version into review. The version must carry a
// metadata record satisfying its language-mode completeness rule.
func Submit(ctx context.Context, app *appcontext.Context, versionID uuid.UUID) (*entity.DatasetVersion, error) {
	versionLocks.Lock(versionID)
	defer versionLocks.Unlock(versionID)

	version, err := catalog.GetVersionByID(app, versionID)
	if err != nil {
		return nil, err
	}
	if !canTransition(version.Status, entity.StatusReview) {
		return nil, &InvalidTransitionError{From: version.Status, To: entity.StatusReview}
	}

	record, err := catalog.MetadataForVersion(app, versionID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrMetadataIncomplete
	}
	if err := metadata.Validate(record); err != nil {
		app.Logger.Info("submit blocked by incomplete metadata",
			zap.String("version_id", versionID.String()), zap.Error(err))
		return nil, ErrMetadataIncomplete
	}

	return applyTransition(ctx, app, version, entity.StatusReview, "")
}

// Approve publishes a version under review. Comments are optional.
func Approve(ctx context.Context, app *appcontext.Context, versionID uuid.UUID, comments string) (*entity.DatasetVersion, error) {
	versionLocks.Lock(versionID)
	defer versionLocks.Unlock(versionID)

	version, err := catalog.GetVersionByID(app, versionID)
	if err != nil {
		return nil, err
	}
	if !canTransition(version.Status, entity.StatusPublished) {
		return nil, &InvalidTransitionError{From: version.Status, To: entity.StatusPublished}
	}

	version, err = applyTransition(ctx, app, version, entity.StatusPublished, comments)
	if err != nil {
		return nil, err
	}

	notifyDecision(ctx, app, version, "published", comments)
	return version, nil
}

// Reject turns down a version under review. Comments must be non-empty so
// the contributor knows what to fix in the next revision.
func Reject(ctx context.Context, app *appcontext.Context, versionID uuid.UUID, comments string) (*entity.DatasetVersion, error) {
	if strings.TrimSpace(comments) == "" {
		return nil, ErrCommentsRequired
	}

	versionLocks.Lock(versionID)
	defer versionLocks.Unlock(versionID)

	version, err := catalog.GetVersionByID(app, versionID)
	if err != nil {
		return nil, err
	}
	if !canTransition(version.Status, entity.StatusRejected) {
		return nil, &InvalidTransitionError{From: version.Status, To: entity.StatusRejected}
	}

	version, err = applyTransition(ctx, app, version, entity.StatusRejected, comments)
	if err != nil {
		return nil, err
	}

	notifyDecision(ctx, app, version, "rejected", comments)
	return version, nil
}

// applyTransition persists the status change and its changelog entry in one
// transaction.
func applyTransition(ctx context.Context, app *appcontext.Context, version *entity.DatasetVersion, to entity.VersionStatus, comments string) (*entity.DatasetVersion, error) {
	from := version.Status

	err := app.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		if strings.TrimSpace(comments) != "" {
			updates["comments"] = comments
		}
		if err := tx.Model(&entity.DatasetVersion{}).Where("id = ?", version.ID).Updates(updates).Error; err != nil {
			return err
		}

		changelog := entity.Changelog{
			DatasetID:  version.DatasetID,
			VersionID:  version.ID,
			ChangeType: "status",
			OldValue:   string(from),
			NewValue:   string(to),
			Comments:   comments,
		}
		return tx.Create(&changelog).Error
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	version.Status = to
	if strings.TrimSpace(comments) != "" {
		version.Comments = comments
	}

	app.Cache.InvalidateDataset(ctx, version.DatasetID)

	app.Logger.Info("version status changed",
		zap.String("version_id", version.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	return version, nil
}

// notifyDecision sends the contributor notification and, for published
// versions, the broker event. Both are best-effort; a delivery failure never
// rolls the decision back.
func notifyDecision(ctx context.Context, app *appcontext.Context, version *entity.DatasetVersion, decision, comments string) {
	var dataset entity.Dataset
	if err := app.DB.First(&dataset, "id = ?", version.DatasetID).Error; err != nil {
		app.Logger.Warn("failed to load dataset for notification", zap.Error(err))
		return
	}

	if app.NotifyEmail != "" {
		if err := services.SendReviewDecisionEmail(app.NotifyEmail, dataset.Filename, version.VersionNumber, decision, comments); err != nil {
			app.Logger.Warn("failed to send review decision email", zap.Error(err))
		}
	}

	if decision == "published" && app.Events != nil {
		event := services.VersionPublishedEvent{
			DatasetID:     dataset.ID,
			VersionID:     version.ID,
			VersionNumber: version.VersionNumber,
			Filename:      dataset.Filename,
			PublishedAt:   time.Now(),
		}
		if err := app.Events.PublishVersionPublished(ctx, event); err != nil {
			app.Logger.Warn("failed to publish version event", zap.Error(err))
		}
	}
}
