package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/review"
)

type reviewInput struct {
	Comments string `json:"comments"`
}

// SubmitVersion moves a draft version into review.
func SubmitVersion(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		versionID, err := uuid.Parse(c.Param("versionID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version ID"})
			return
		}

		version, err := review.Submit(c.Request.Context(), ctx, versionID)
		if err != nil {
			writeError(ctx, c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"version": version})
	}
}

// ApproveVersion publishes a version under review.
func ApproveVersion(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		versionID, err := uuid.Parse(c.Param("versionID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version ID"})
			return
		}

		var input reviewInput
		_ = c.ShouldBindJSON(&input) // comments are optional on approve

		version, err := review.Approve(c.Request.Context(), ctx, versionID, input.Comments)
		if err != nil {
			writeError(ctx, c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"version": version})
	}
}

// RejectVersion turns down a version under review with mandatory comments.
func RejectVersion(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		versionID, err := uuid.Parse(c.Param("versionID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version ID"})
			return
		}

		var input reviewInput
		_ = c.ShouldBindJSON(&input)

		version, err := review.Reject(c.Request.Context(), ctx, versionID, input.Comments)
		if err != nil {
			writeError(ctx, c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"version": version})
	}
}
