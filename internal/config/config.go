package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	AssetBackendDir   = "dir"
	AssetBackendMinio = "minio"

	MetadataSourceStore    = "store"
	MetadataSourceHTTP     = "http"
	MetadataSourcePostgres = "postgres"
)

// Config holds all configuration values from environment.
type Config struct {
	AppPort string

	// Asset store holding metadata.json and drawings/
	AssetBackend string
	AssetDir     string
	AssetArchive string

	// Where the metadata document is fetched from
	MetadataSource string
	MetadataURL    string
	MetadataKey    string
	FetchTimeout   time.Duration

	CollationLocale string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool

	// Optional snapshot database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Optional Redis for sessions and the asset cache
	RedisAddress string

	SessionTTL    time.Duration
	CacheMaxBytes int64
	CacheTTL      time.Duration
	// Local disk cache in front of the minio backend
	CacheDir string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first; variables already set win.
func LoadConfig() (*Config, error) {
	loadDotEnv(".env")

	minioSSL := false
	if sslEnv := os.Getenv("MINIO_SSL"); sslEnv != "" {
		val, err := strconv.ParseBool(sslEnv)
		if err != nil {
			return nil, fmt.Errorf("invalid MINIO_SSL value: %v", err)
		}
		minioSSL = val
	}
	fetchTimeout, err := getEnvAsInt("FETCH_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvAsInt("SESSION_TTL_MINUTES", 120)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvAsInt("CACHE_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cacheMaxBytes, err := getEnvAsInt("CACHE_MAX_BYTES", 256<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppPort:         getEnv("VIEWER_PORT", "8080"),
		AssetBackend:    getEnv("ASSET_BACKEND", AssetBackendDir),
		AssetDir:        getEnv("ASSET_DIR", "./data"),
		AssetArchive:    os.Getenv("ASSET_ARCHIVE"),
		MetadataSource:  getEnv("METADATA_SOURCE", MetadataSourceStore),
		MetadataURL:     os.Getenv("METADATA_URL"),
		MetadataKey:     getEnv("METADATA_KEY", "metadata.json"),
		FetchTimeout:    time.Duration(fetchTimeout) * time.Second,
		CollationLocale: getEnv("COLLATION_LOCALE", "ko"),
		MinioEndpoint:   os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:  os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:  os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:     os.Getenv("MINIO_BUCKET"),
		MinioSSL:        minioSSL,
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		RedisAddress:    os.Getenv("REDIS_ADDRESS"),
		SessionTTL:      time.Duration(sessionTTL) * time.Minute,
		CacheMaxBytes:   int64(cacheMaxBytes),
		CacheTTL:        time.Duration(cacheTTL) * time.Minute,
		CacheDir:        getEnv("CACHE_DIR", filepath.Join(os.TempDir(), "drawing-cache")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends are fully configured.
func (c *Config) Validate() error {
	switch c.AssetBackend {
	case AssetBackendDir:
		if c.AssetDir == "" {
			return fmt.Errorf("ASSET_DIR is required for the dir backend")
		}
	case AssetBackendMinio:
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "" {
			return fmt.Errorf("minio configuration is incomplete")
		}
	default:
		return fmt.Errorf("unknown ASSET_BACKEND %q", c.AssetBackend)
	}

	switch c.MetadataSource {
	case MetadataSourceStore:
	case MetadataSourceHTTP:
		if c.MetadataURL == "" {
			return fmt.Errorf("METADATA_URL is required for the http metadata source")
		}
	case MetadataSourcePostgres:
		if !c.DatabaseEnabled() {
			return fmt.Errorf("database configuration is incomplete")
		}
	default:
		return fmt.Errorf("unknown METADATA_SOURCE %q", c.MetadataSource)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if c.CacheMaxBytes <= 0 {
		return fmt.Errorf("CACHE_MAX_BYTES must be positive")
	}
	return nil
}

// DatabaseEnabled reports whether snapshot storage is configured.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != "" && c.DBUser != "" && c.DBName != ""
}

// ConnectDatabase initializes a GORM database connection to PostgreSQL.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("Warning: Error loading %s file: %v", path, err)
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %v", key, err)
	}
	return n, nil
}
