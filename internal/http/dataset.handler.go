package http

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/catalog"
	"github.com/qurtubah/bayanat/internal/ingest"
)

// CreateDataset ingests the first upload of a new dataset and returns the
// dataset together with its draft version 1.
func CreateDataset(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename, data, ok := readUpload(ctx, c)
		if !ok {
			return
		}

		dataset, version, err := catalog.CreateDataset(c.Request.Context(), ctx, filename, data)
		if err != nil {
			writeError(ctx, c, err)
			return
		}

		ctx.Logger.Info("dataset created",
			zap.String("dataset_id", dataset.ID.String()),
			zap.String("filename", dataset.Filename),
			zap.Int("row_count", dataset.RowCount))

		c.JSON(http.StatusCreated, gin.H{"dataset": dataset, "version": version})
	}
}

func ListDatasets(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasets, err := catalog.ListDatasets(ctx)
		if err != nil {
			writeError(ctx, c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"datasets": datasets})
	}
}

func GetDataset(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset ID"})
			return
		}

		dataset, err := catalog.GetDataset(c.Request.Context(), ctx, datasetID)
		if err != nil {
			writeError(ctx, c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"dataset": dataset})
	}
}

// DownloadVersionFile streams the raw bytes of one version back to the
// caller.
func DownloadVersionFile(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset ID"})
			return
		}
		versionNumber, err := strconv.Atoi(c.Param("versionNumber"))
		if err != nil || versionNumber < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
			return
		}

		version, err := catalog.FindVersion(ctx, datasetID, versionNumber)
		if err != nil {
			writeError(ctx, c, err)
			return
		}

		data, err := catalog.GetVersionFile(c.Request.Context(), ctx, version)
		if err != nil {
			writeError(ctx, c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(version.FilePath)))
		c.Data(http.StatusOK, "application/octet-stream", data)
	}
}

// readUpload pulls the multipart "file" field out of the request. The size
// cap is enforced before the body is read so an oversized upload never gets
// buffered in full.
func readUpload(ctx *appcontext.Context, c *gin.Context) (string, []byte, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		ctx.Logger.Error("failed to get file from request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to get file from request"})
		return "", nil, false
	}

	if file.Size > ingest.MaxFileSize {
		writeError(ctx, c, &ingest.TooLargeError{Size: file.Size, Limit: ingest.MaxFileSize})
		return "", nil, false
	}

	src, err := file.Open()
	if err != nil {
		ctx.Logger.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open uploaded file"})
		return "", nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		ctx.Logger.Error("failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return "", nil, false
	}

	return file.Filename, data, true
}
