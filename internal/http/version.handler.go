package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/catalog"
)

// AppendVersion ingests a replacement file for an existing dataset. The
// upload must carry the dataset's established column set.
func AppendVersion(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset ID"})
			return
		}

		filename, data, ok := readUpload(ctx, c)
		if !ok {
			return
		}

		version, err := catalog.AppendVersion(c.Request.Context(), ctx, datasetID, filename, data)
		if err != nil {
			writeError(ctx, c, err)
			return
		}

		ctx.Logger.Info("version appended",
			zap.String("dataset_id", datasetID.String()),
			zap.Int("version_number", version.VersionNumber))

		c.JSON(http.StatusCreated, gin.H{"version": version})
	}
}
