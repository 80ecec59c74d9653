package http

import (
	"github.com/gin-gonic/gin"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/http/middleware"
)

type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware())

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	h.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := h.engine.Group("/api/v1")
	h.setupDatasetRoutes(v1)
	h.setupVersionRoutes(v1)
}

func (h *APIService) setupDatasetRoutes(group *gin.RouterGroup) {
	datasets := group.Group("/datasets")

	datasets.POST("", CreateDataset(h.context))
	datasets.GET("", ListDatasets(h.context))
	datasets.GET("/:datasetID", GetDataset(h.context))
	datasets.POST("/:datasetID/versions", AppendVersion(h.context))
	datasets.GET("/:datasetID/versions/:versionNumber/file", DownloadVersionFile(h.context))
	datasets.POST("/:datasetID/suggest", SuggestMetadata(h.context))
}

func (h *APIService) setupVersionRoutes(group *gin.RouterGroup) {
	versions := group.Group("/versions")

	versions.PUT("/:versionID/metadata", SaveMetadata(h.context))
	versions.POST("/:versionID/submit", SubmitVersion(h.context))
	versions.POST("/:versionID/approve", ApproveVersion(h.context))
	versions.POST("/:versionID/reject", RejectVersion(h.context))
}
