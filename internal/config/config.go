package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Storage drivers
const (
	StorageDriverCloudinary = "cloudinary"
	StorageDriverMinIO      = "minio"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Upload    UploadConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
	Log       LogConfig
	Sentry    SentryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Env         string   `mapstructure:"env"`
	Version     string   `mapstructure:"version"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// DSN returns the PostgreSQL connection string
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// StorageConfig selects and configures the object store datasets are kept in.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Folder string `mapstructure:"folder"`

	MinIOEndpoint  string `mapstructure:"minio_endpoint"`
	MinIOAccessKey string `mapstructure:"minio_access_key"`
	MinIOSecretKey string `mapstructure:"minio_secret_key"`
	MinIOUseSSL    bool   `mapstructure:"minio_use_ssl"`
	MinIOBucket    string `mapstructure:"minio_bucket"`
	MinIORegion    string `mapstructure:"minio_region"`

	CloudinaryCloudName string `mapstructure:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `mapstructure:"cloudinary_api_key"`
	CloudinaryAPISecret string `mapstructure:"cloudinary_api_secret"`

	URLExpiry time.Duration `mapstructure:"url_expiry"`
}

// ProviderName is the label storage failures are reported under.
func (c StorageConfig) ProviderName() string {
	if c.Driver == StorageDriverMinIO {
		return "MinIO"
	}
	return "Cloudinary"
}

// UploadConfig bounds what the dataset upload endpoint accepts.
type UploadConfig struct {
	MaxSizeMB  int      `mapstructure:"max_size_mb"`
	FormField  string   `mapstructure:"form_field"`
	Extensions []string `mapstructure:"extensions"`
}

// MaxBytes returns the upload size limit in bytes
func (c UploadConfig) MaxBytes() int64 {
	return int64(c.MaxSizeMB) << 20
}

// JWTConfig holds JWT verification configuration. Tokens are issued elsewhere.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

// WorkerConfig holds background job configuration
type WorkerConfig struct {
	// Queue receives visualization jobs for the external generator
	Queue string `mapstructure:"queue"`
	// MaintenanceQueue receives jobs this service processes itself
	MaintenanceQueue string `mapstructure:"maintenance_queue"`
	MaxRetry         int    `mapstructure:"max_retry"`
	Concurrency      int    `mapstructure:"concurrency"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SentryConfig holds error tracking configuration
type SentryConfig struct {
	DSN              string  `mapstructure:"dsn"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate"`
}

// Enabled reports whether Sentry reporting is configured
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// IsDevelopment returns true if running in development mode
func (c Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c Config) String() string {
	return fmt.Sprintf("env=%s addr=%s storage=%s", c.Server.Env, c.Server.Addr(), c.Storage.Driver)
}
