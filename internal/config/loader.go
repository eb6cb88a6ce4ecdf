package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// Load loads configuration from a .env file, environment variables and an
// optional config.yaml, in increasing order of precedence for the first two.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/vizboard")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Server
	cfg.Server.Host = v.GetString("server_host")
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.Env = v.GetString("server_env")
	cfg.Server.Version = v.GetString("server_version")
	cfg.Server.CORSOrigins = v.GetStringSlice("server_cors_origins")

	// PostgreSQL
	cfg.Postgres.Host = v.GetString("postgres_host")
	cfg.Postgres.Port = v.GetInt("postgres_port")
	cfg.Postgres.User = v.GetString("postgres_user")
	cfg.Postgres.Password = v.GetString("postgres_password")
	cfg.Postgres.Database = v.GetString("postgres_db")
	cfg.Postgres.SSLMode = v.GetString("postgres_ssl_mode")
	cfg.Postgres.MaxConns = v.GetInt32("postgres_max_conns")
	cfg.Postgres.MinConns = v.GetInt32("postgres_min_conns")

	// Redis
	cfg.Redis.Host = v.GetString("redis_host")
	cfg.Redis.Port = v.GetInt("redis_port")
	cfg.Redis.Password = v.GetString("redis_password")
	cfg.Redis.DB = v.GetInt("redis_db")

	// Storage
	cfg.Storage.Driver = strings.ToLower(v.GetString("storage_driver"))
	cfg.Storage.Folder = v.GetString("storage_folder")
	cfg.Storage.URLExpiry = v.GetDuration("storage_url_expiry")
	cfg.Storage.MinIOEndpoint = v.GetString("minio_endpoint")
	cfg.Storage.MinIOAccessKey = v.GetString("minio_access_key")
	cfg.Storage.MinIOSecretKey = v.GetString("minio_secret_key")
	cfg.Storage.MinIOUseSSL = v.GetBool("minio_use_ssl")
	cfg.Storage.MinIOBucket = v.GetString("minio_bucket")
	cfg.Storage.MinIORegion = v.GetString("minio_region")
	cfg.Storage.CloudinaryCloudName = v.GetString("cloudinary_cloud_name")
	cfg.Storage.CloudinaryAPIKey = v.GetString("cloudinary_api_key")
	cfg.Storage.CloudinaryAPISecret = v.GetString("cloudinary_api_secret")

	// Upload
	cfg.Upload.MaxSizeMB = v.GetInt("upload_max_size_mb")
	cfg.Upload.FormField = v.GetString("upload_form_field")
	cfg.Upload.Extensions = v.GetStringSlice("upload_extensions")

	// JWT
	cfg.JWT.Secret = v.GetString("jwt_secret")
	cfg.JWT.Issuer = v.GetString("jwt_issuer")

	// Rate Limiting
	cfg.RateLimit.Enabled = v.GetBool("rate_limit_enabled")
	cfg.RateLimit.RequestsPerMinute = v.GetInt("rate_limit_requests_per_minute")

	// Worker
	cfg.Worker.Queue = v.GetString("worker_queue")
	cfg.Worker.MaintenanceQueue = v.GetString("worker_maintenance_queue")
	cfg.Worker.MaxRetry = v.GetInt("worker_max_retry")
	cfg.Worker.Concurrency = v.GetInt("worker_concurrency")

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")

	// Sentry
	cfg.Sentry.DSN = v.GetString("sentry_dsn")
	cfg.Sentry.TracesSampleRate = v.GetFloat64("sentry_traces_sample_rate")

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8080)
	v.SetDefault("server_env", "development")
	v.SetDefault("server_version", "dev")
	v.SetDefault("server_cors_origins", []string{"*"})

	// PostgreSQL defaults
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "vizboard")
	v.SetDefault("postgres_password", "vizboard")
	v.SetDefault("postgres_db", "vizboard")
	v.SetDefault("postgres_ssl_mode", "disable")
	v.SetDefault("postgres_max_conns", 25)
	v.SetDefault("postgres_min_conns", 5)

	// Redis defaults
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	// Storage defaults
	v.SetDefault("storage_driver", StorageDriverCloudinary)
	v.SetDefault("storage_folder", "vizboard")
	v.SetDefault("storage_url_expiry", 15*time.Minute)
	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "vizboard")
	v.SetDefault("minio_secret_key", "vizboard123")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_bucket", "vizboard-datasets")
	v.SetDefault("minio_region", "us-east-1")

	// Upload defaults
	v.SetDefault("upload_max_size_mb", 10)
	v.SetDefault("upload_form_field", "file")
	v.SetDefault("upload_extensions", []string{".csv", ".tsv", ".xls", ".xlsx", ".json"})

	// JWT defaults
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_issuer", "vizboard")

	// Rate limiting defaults
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_requests_per_minute", 600)

	// Worker defaults
	v.SetDefault("worker_queue", "visualization")
	v.SetDefault("worker_maintenance_queue", "maintenance")
	v.SetDefault("worker_concurrency", 4)
	v.SetDefault("worker_max_retry", 3)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// Sentry defaults
	v.SetDefault("sentry_traces_sample_rate", 0.1)
}

func validate(cfg *Config) error {
	if cfg.JWT.Secret == defaultJWTSecret && cfg.IsProduction() {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	switch cfg.Storage.Driver {
	case StorageDriverMinIO:
		if cfg.Storage.MinIOEndpoint == "" || cfg.Storage.MinIOBucket == "" {
			return fmt.Errorf("minio storage requires an endpoint and a bucket")
		}
	case StorageDriverCloudinary:
		if cfg.IsProduction() && (cfg.Storage.CloudinaryCloudName == "" || cfg.Storage.CloudinaryAPIKey == "" || cfg.Storage.CloudinaryAPISecret == "") {
			return fmt.Errorf("cloudinary storage requires cloud name and API credentials in production")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("upload_max_size_mb must be positive, got %d", cfg.Upload.MaxSizeMB)
	}
	if len(cfg.Upload.Extensions) == 0 {
		return fmt.Errorf("upload_extensions must not be empty")
	}
	if cfg.Worker.Queue == cfg.Worker.MaintenanceQueue {
		return fmt.Errorf("worker_queue and worker_maintenance_queue must differ")
	}

	return nil
}
