package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/qurtubah/bayanat/internal/appcontext"
	"github.com/qurtubah/bayanat/internal/cache"
	"github.com/qurtubah/bayanat/internal/entity"
	"github.com/qurtubah/bayanat/internal/filestore"
	"github.com/qurtubah/bayanat/internal/services"
)

func InitContext() (*appcontext.Context, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Warn("No .env file found, using environment variables")
	}

	logger, err := InitLogger()
	if err != nil {
		return nil, err
	}

	db, err := InitDB()
	if err != nil {
		return nil, err
	}

	files, err := InitFileStore(logger)
	if err != nil {
		return nil, err
	}

	ctx := &appcontext.Context{
		DB:     db,
		Logger: logger,

		Files:       files,
		NotifyEmail: os.Getenv("NOTIFY_EMAIL"),
	}

	// The cache, the suggestion service and the event publisher are all
	// optional; the service runs without any of them.
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c, err := cache.New(addr, os.Getenv("REDIS_PASSWORD"), getEnvAsInt("REDIS_DB", 0))
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			ctx.Cache = c
		}
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		ctx.Suggest = services.NewSuggestService(apiKey, os.Getenv("OPENAI_ENDPOINT"), os.Getenv("OPENAI_MODEL"))
	}

	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		publisher, err := services.NewEventPublisher(amqpURL, getEnv("AMQP_EXCHANGE", "bayanat.events"), logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, running without events", zap.Error(err))
		} else {
			ctx.Events = publisher
		}
	}

	return ctx, nil
}

func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(&entity.Dataset{}, &entity.DatasetVersion{}, &entity.MetadataRecord{}, &entity.Changelog{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func InitFileStore(logger *zap.Logger) (filestore.Store, error) {
	backend := getEnv("STORAGE_BACKEND", "gcs")
	ctx := context.Background()

	switch backend {
	case "gcs":
		bucketName := os.Getenv("GCS_BUCKET_NAME")
		if bucketName == "" {
			return nil, fmt.Errorf("GCS_BUCKET_NAME environment variable is not set")
		}
		return filestore.NewGCSStore(ctx, bucketName)

	case "minio":
		return filestore.NewMinioStore(ctx,
			getEnv("MINIO_ENDPOINT", "localhost:9000"),
			getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			getEnv("MINIO_SECRET_KEY", "minioadmin"),
			getEnv("MINIO_BUCKET_NAME", "bayanat"),
			getEnvAsBool("MINIO_USE_SSL", false),
		)

	case "memory":
		logger.Warn("using in-memory file store, uploads will not survive a restart")
		return filestore.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
