package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/catalog"
)

// SuggestMetadata asks the AI collaborator for candidate metadata describing
// a dataset. The candidate is returned to the contributor for editing; it is
// never stored directly.
func SuggestMetadata(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctx.Suggest == nil {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "metadata suggestions are not configured"})
			return
		}

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

		suggestion, err := ctx.Suggest.SuggestMetadata(c.Request.Context(), dataset.Filename, dataset.Columns, dataset.RowCount)
		if err != nil {
			ctx.Logger.Error("metadata suggestion failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate metadata suggestions"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
	}
}
