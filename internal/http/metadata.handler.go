package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/catalog"
)

// SaveMetadata stores the descriptive record for a version, replacing any
// prior record.
func SaveMetadata(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		versionID, err := uuid.Parse(c.Param("versionID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version ID"})
			return
		}

		var input catalog.MetadataInput
		if err := c.ShouldBindJSON(&input); err != nil {
			ctx.Logger.Error("failed to bind metadata input", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		record, err := catalog.SaveMetadata(c.Request.Context(), ctx, versionID, input)
		if err != nil {
			writeError(ctx, c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"metadata": record})
	}
}
