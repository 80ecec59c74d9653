package appcontext

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qurtubah/bayanat/internal/cache"
	"github.com/qurtubah/bayanat/internal/filestore"
	"github.com/qurtubah/bayanat/internal/services"
)

type Context struct {
	DB     *gorm.DB
	Logger *zap.Logger

	Files filestore.Store
	Cache *cache.Cache

	Suggest *services.SuggestService
	Events  *services.EventPublisher

	// NotifyEmail receives review-decision notifications. Empty disables
	// mail entirely.
	NotifyEmail string
}
