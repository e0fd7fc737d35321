package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	_ "drawing-service/docs"
	"drawing-service/internal/config"
	"drawing-service/internal/extraction"
	"drawing-service/internal/handlers"
	"drawing-service/internal/metrics"
	"drawing-service/internal/models"
	"drawing-service/internal/normalizer"
	"drawing-service/internal/repository"
	"drawing-service/internal/services"
	"drawing-service/internal/services/cache"
	"drawing-service/internal/services/caches"
	"drawing-service/internal/storage"
)

// @title Drawing Viewer API
// @version 1.0
// @description Drawing catalog, revision history and viewer sessions for construction drawing sets.
// @BasePath /api
func main() {
	ctx := context.Background()
	cfg := InitConfig()
	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	var minioClient *minio.Client
	if cfg.AssetBackend == config.AssetBackendMinio {
		minioClient = InitMinIOClient(ctx, cfg)
	}
	SeedAssets(ctx, cfg, minioClient)

	var store storage.AssetStore = storage.NewDirStore(cfg.AssetDir)
	if minioClient != nil {
		store = storage.NewMinioStore(minioClient, cfg.MinioBucket)
	}

	var redisClient *storage.RedisClient
	if cfg.RedisAddress != "" {
		redisClient = InitRedisClient(ctx, cfg)
		defer redisClient.Close()
	}

	var snapshots repository.SnapshotRepository
	if cfg.DatabaseEnabled() {
		db := ConnectDatabase(cfg)
		MigrateDatabase(db)
		snapshots = repository.NewSnapshotRepository(db)
	}

	metadata := services.NewMetadataService(
		NewMetadataSource(cfg, store, snapshots),
		normalizer.New(cfg.CollationLocale),
		snapshots,
		m,
	)
	metadata.Start(ctx)

	assets := services.NewAssetService(store, services.NewCacheStrategy(CacheLayers(ctx, cfg, redisClient)...), m)

	var sessions repository.SessionRepository
	if redisClient != nil {
		sessions = repository.NewRedisSessionRepository(redisClient.Client())
	} else {
		memorySessions := repository.NewMemorySessionRepository()
		go purgeSessions(ctx, memorySessions)
		sessions = memorySessions
	}
	viewer := services.NewViewerService(metadata, sessions, cfg.SessionTTL, m)

	app := fiber.New(fiber.Config{AppName: "drawing-service"})
	app.Use(recover.New())
	app.Use(logger.New())

	//Register Prometheus metrics endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := handlers.SetupRoutes(app, handlers.Handlers{
		Drawings: handlers.NewDrawingHandler(metadata, assets, cfg.MetadataKey),
		Viewer:   handlers.NewViewerHandler(viewer),
		Assets:   handlers.NewAssetHandler(assets, cfg.MetadataKey),
		Cache:    handlers.NewCacheHandler(assets, metadata),
		Metadata: metadata,
	})
	api.Get("/swagger/*", swagger.HandlerDefault)

	routes := app.GetRoutes()
	log.Println("Registered routes:")
	for _, r := range routes {
		log.Printf("  %s %s\n", r.Method, r.Path)
	}

	log.Printf("Server listening on port %s", cfg.AppPort)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	return cfg
}

func ConnectDatabase(cfg *config.Config) *gorm.DB {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	return db
}

func MigrateDatabase(db *gorm.DB) {
	err := db.AutoMigrate(&models.MetadataSnapshot{})
	if err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
}

func InitMinIOClient(ctx context.Context, cfg *config.Config) *minio.Client {
	minioClient, err := storage.NewMinioClient(ctx, cfg)
	if err != nil {
		log.Fatalf("MinIO client initialization failed: %v", err)
	}
	return minioClient
}

func InitRedisClient(ctx context.Context, cfg *config.Config) *storage.RedisClient {
	client, err := storage.NewRedisClient(ctx, cfg.RedisAddress)
	if err != nil {
		log.Fatalf("Redis client initialization failed: %v", err)
	}
	return client
}

// SeedAssets extracts ASSET_ARCHIVE into the asset directory and, for the
// minio backend, uploads the extracted files to the bucket.
func SeedAssets(ctx context.Context, cfg *config.Config, minioClient *minio.Client) {
	if cfg.AssetArchive == "" {
		return
	}
	files, err := extraction.ExtractArchive(ctx, cfg.AssetArchive, cfg.AssetDir)
	if err != nil {
		log.Fatalf("Archive extraction failed: %v", err)
	}
	log.Printf("Extracted %d files from %s into %s", len(files), cfg.AssetArchive, cfg.AssetDir)

	if minioClient != nil {
		if _, err := storage.SeedBucket(ctx, minioClient, cfg.MinioBucket, cfg.AssetDir); err != nil {
			log.Fatalf("Bucket seeding failed: %v", err)
		}
	}
}

func NewMetadataSource(cfg *config.Config, store storage.AssetStore, snapshots repository.SnapshotRepository) services.MetadataSource {
	switch cfg.MetadataSource {
	case config.MetadataSourceHTTP:
		return services.NewHTTPSource(cfg.MetadataURL, cfg.FetchTimeout)
	case config.MetadataSourcePostgres:
		return services.NewSnapshotSource(snapshots)
	default:
		return services.NewStoreSource(store, cfg.MetadataKey)
	}
}

// CacheLayers builds the asset cache layers, fastest first. The disk layer
// only pays off in front of a remote backend.
func CacheLayers(ctx context.Context, cfg *config.Config, redisClient *storage.RedisClient) []cache.CacheLayer {
	memory := caches.NewMemoryCache(cfg.CacheMaxBytes, services.SmallFileThreshold, cfg.CacheTTL)
	go memory.RunCleanup(ctx, 10*time.Minute)
	layers := []cache.CacheLayer{memory}

	if cfg.AssetBackend == config.AssetBackendMinio {
		files, err := caches.NewFileSystemCache(cfg.CacheDir, 4*cfg.CacheMaxBytes, services.MediumFileThreshold, cfg.CacheTTL)
		if err != nil {
			log.Printf("File cache disabled: %v", err)
		} else {
			go files.RunCleanup(ctx, 10*time.Minute)
			layers = append(layers, files)
		}
	}
	if redisClient != nil {
		layers = append(layers, caches.NewRedisCache(redisClient, services.LargeFileThreshold, cfg.CacheTTL))
	}
	return layers
}

func purgeSessions(ctx context.Context, sessions *repository.MemorySessionRepository) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.PurgeExpired(); n > 0 {
				log.Printf("Purged %d expired viewer sessions", n)
			}
		}
	}
}
