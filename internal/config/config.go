package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/brand-admin/pkg/config"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Handle strategies accepted by HANDLE_STRATEGY.
const (
	HandleStrategySlug   = "slug"
	HandleStrategyLegacy = "legacy"
)

// Config holds all configuration for the brand admin service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// HTTP server
	HTTPPort        int           `env:"ADMIN_HTTP_PORT" envDefault:"8012" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	JWTSecret       string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production" validate:"required"`

	// Catalog service (brand creation)
	CatalogServiceURL string `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:8001" validate:"required,url"`
	CatalogBrandsPath string `env:"CATALOG_BRANDS_PATH" envDefault:"/brands" validate:"startswith=/"`
	CatalogAPIToken   string `env:"CATALOG_API_TOKEN"`

	// Media service (image upload)
	MediaServiceURL string `env:"MEDIA_SERVICE_URL" envDefault:"http://localhost:8011" validate:"required,url"`
	MediaUploadPath string `env:"MEDIA_UPLOAD_PATH" envDefault:"/api/v1/media" validate:"startswith=/"`
	MediaOwnerType  string `env:"MEDIA_OWNER_TYPE" envDefault:"brand" validate:"required"`

	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"30s"`

	// Brand form behaviour
	HandleStrategy string        `env:"HANDLE_STRATEGY" envDefault:"slug" validate:"oneof=slug legacy"`
	AdminBrandPath string        `env:"ADMIN_BRAND_PATH" envDefault:"/admin/brands" validate:"startswith=/"`
	FormSessionTTL time.Duration `env:"FORM_SESSION_TTL" envDefault:"24h"`
	MaxImageSize   int64         `env:"MAX_IMAGE_SIZE" envDefault:"10485760" validate:"gt=0"`
	MaxImages      int           `env:"MAX_IMAGES" envDefault:"10" validate:"gt=0"`

	// Submit rate limiting (per client IP)
	SubmitRateLimitRPS   float64 `env:"SUBMIT_RATE_LIMIT_RPS" envDefault:"2" validate:"gt=0"`
	SubmitRateLimitBurst int     `env:"SUBMIT_RATE_LIMIT_BURST" envDefault:"5" validate:"gt=0"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost" validate:"required"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379" validate:"gte=1,lte=65535"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`

	// Kafka
	KafkaBrokers        []string      `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	EventPublishTimeout time.Duration `env:"EVENT_PUBLISH_TIMEOUT" envDefault:"5s"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0" validate:"gte=0,lte=1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load brand-admin config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate covers the rules struct tags cannot express.
func (c *Config) validate() error {
	if c.Environment != "development" && c.Environment != "test" && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed from the default in %q environment", c.Environment)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.FormSessionTTL <= 0 {
		return fmt.Errorf("FORM_SESSION_TTL must be positive, got %s", c.FormSessionTTL)
	}
	return nil
}

// CatalogBrandsURL is the absolute URL brands are created at.
func (c *Config) CatalogBrandsURL() string {
	return strings.TrimRight(c.CatalogServiceURL, "/") + c.CatalogBrandsPath
}

// MediaUploadURL is the absolute URL images are uploaded to.
func (c *Config) MediaUploadURL() string {
	return strings.TrimRight(c.MediaServiceURL, "/") + c.MediaUploadPath
}
