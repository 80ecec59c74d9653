package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/catalog"
	"github.com/qurtubah/bayanat/internal/filestore"
	"github.com/qurtubah/bayanat/internal/ingest"
	"github.com/qurtubah/bayanat/internal/metadata"
	"github.com/qurtubah/bayanat/internal/review"
)

// writeError maps core errors onto the HTTP surface. Validation errors are
// reported verbatim with enough detail to fix the input; state errors come
// back as conflicts or not-found; infrastructure errors surface a generic
// message with the cause logged, never exposed.
func writeError(ctx *appcontext.Context, c *gin.Context, err error) {
	var (
		tooLarge   *ingest.TooLargeError
		parseErr   *ingest.ParseError
		mismatch   *catalog.SchemaMismatchError
		incomplete *metadata.IncompleteError
		transition *review.InvalidTransitionError
	)

	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file format, only csv, xls and xlsx are accepted"})

	case errors.Is(err, ingest.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})

	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     err.Error(),
			"limit":     tooLarge.Limit,
			"file_size": tooLarge.Size,
		})

	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "row": parseErr.Row})

	case errors.Is(err, ingest.ErrNoColumns):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no columns found in file"})

	case errors.As(err, &mismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           err.Error(),
			"missing_columns": mismatch.Missing,
			"extra_columns":   mismatch.Extra,
		})

	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          err.Error(),
			"missing_fields": incomplete.MissingFields,
		})

	case errors.Is(err, metadata.ErrUnknownLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "language must be one of en, ar, both"})

	case errors.Is(err, review.ErrMetadataIncomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "metadata is missing or incomplete for this version"})

	case errors.Is(err, review.ErrCommentsRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "comments are required to reject a version"})

	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"from":  string(transition.From),
			"to":    string(transition.To),
		})

	case errors.Is(err, catalog.ErrVersionImmutable):
		c.JSON(http.StatusConflict, gin.H{"error": "metadata cannot be edited after review is complete"})

	case errors.Is(err, catalog.ErrDatasetNotFound),
		errors.Is(err, catalog.ErrVersionNotFound),
		errors.Is(err, filestore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})

	case errors.Is(err, catalog.ErrStorageUnavailable):
		ctx.Logger.Error("file storage unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage is temporarily unavailable"})

	default:
		ctx.Logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
