// Package config loads runtime settings from the environment (and an
// optional .env file). Every external credential is optional: a missing
// value switches the matching component into its degraded mode instead of
// stopping the process.
package config

import (
	"log"
	"os"
	"time"

	"farmertwin/utils"

	"github.com/joho/godotenv"
)

const devSecretKey = "default-dev-secret-key-change-in-prod"

const (
	defaultRateLimit      = 2
	defaultRateBurst      = 5
	defaultKeepAlive      = 15 * time.Second
	defaultMaxUploadBytes = 5 << 20
)

type AuthConfig struct {
	SecretKey  string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	RedisURL   string
}

type AIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	RateLimit float64
	RateBurst int
}

type GeoConfig struct {
	NominatimURL string
	OverpassURL  string
	ORSBaseURL   string
	ORSAPIKey    string
}

type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subject         string
	NATSURL         string
	NATSSubject     string
	KeepAlive       time.Duration
}

type StorageConfig struct {
	UploadDir      string
	MaxUploadBytes int64
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
}

// Config is the full runtime configuration of the server.
type Config struct {
	Port              string
	GinMode           string
	LogLevel          string
	HTTPClientTimeout time.Duration

	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Geo      GeoConfig
	Push     PushConfig
	Storage  StorageConfig
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg := &Config{
		Port:              utils.GetEnvAsString("PORT", "5000"),
		GinMode:           utils.GetEnvAsString("GIN_MODE", "release"),
		LogLevel:          utils.GetEnvAsString("LOG_LEVEL", "info"),
		HTTPClientTimeout: utils.GetEnvAsDuration("HTTP_CLIENT_TIMEOUT", 30*time.Second),
		Database:          LoadDatabaseConfig(),
		Auth: AuthConfig{
			SecretKey:  utils.GetEnvAsString("JWT_SECRET_KEY", ""),
			Issuer:     utils.GetEnvAsString("JWT_ISSUER", "farmer-twin"),
			AccessTTL:  utils.GetEnvAsDuration("JWT_ACCESS_TTL", 60*time.Minute),
			RefreshTTL: utils.GetEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			RedisURL:   utils.GetEnvAsString("REDIS_URL", ""),
		},
		AI: AIConfig{
			APIKey:    utils.GetEnvAsString("OPENAI_API_KEY", ""),
			BaseURL:   utils.GetEnvAsString("OPENAI_BASE_URL", ""),
			Model:     utils.GetEnvAsString("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimit: utils.GetEnvAsFloat("AI_RATE_LIMIT", defaultRateLimit),
			RateBurst: utils.GetEnvAsInt("AI_RATE_BURST", defaultRateBurst),
		},
		Geo: GeoConfig{
			NominatimURL: utils.GetEnvAsString("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
			OverpassURL:  utils.GetEnvAsString("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			ORSBaseURL:   utils.GetEnvAsString("ORS_BASE_URL", "https://api.openrouteservice.org"),
			ORSAPIKey:    utils.GetEnvAsString("ORS_API_KEY", ""),
		},
		Push: PushConfig{
			VAPIDPublicKey:  utils.GetEnvAsString("VAPID_PUBLIC_KEY", ""),
			VAPIDPrivateKey: utils.GetEnvAsString("VAPID_PRIVATE_KEY", ""),
			Subject:         utils.GetEnvAsString("VAPID_SUBJECT", "admin@farmer.ai"),
			NATSURL:         utils.GetEnvAsString("NATS_URL", ""),
			NATSSubject:     utils.GetEnvAsString("NATS_SUBJECT", "intrusion.alerts"),
			KeepAlive:       utils.GetEnvAsDuration("KEEPALIVE_INTERVAL", defaultKeepAlive),
		},
		Storage: StorageConfig{
			UploadDir:      utils.GetEnvAsString("UPLOAD_DIR", "static/uploads"),
			MaxUploadBytes: int64(utils.GetEnvAsInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
			S3Bucket:       utils.GetEnvAsString("S3_BUCKET", ""),
			S3Region:       utils.GetEnvAsString("S3_REGION", "us-east-1"),
			S3Endpoint:     utils.GetEnvAsString("S3_ENDPOINT", ""),
			S3AccessKey:    utils.GetEnvAsString("S3_ACCESS_KEY", ""),
			S3SecretKey:    utils.GetEnvAsString("S3_SECRET_KEY", ""),
			S3PublicURL:    utils.GetEnvAsString("S3_PUBLIC_URL", ""),
		},
	}

	if cfg.Auth.SecretKey == "" {
		log.Println("Warning: JWT_SECRET_KEY not set, using insecure development default")
		cfg.Auth.SecretKey = devSecretKey
	}

	// Non-positive values fall back to the defaults.
	if cfg.AI.RateLimit <= 0 {
		log.Printf("Warning: AI_RATE_LIMIT must be positive, using %d", defaultRateLimit)
		cfg.AI.RateLimit = defaultRateLimit
	}
	if cfg.AI.RateBurst <= 0 {
		log.Printf("Warning: AI_RATE_BURST must be positive, using %d", defaultRateBurst)
		cfg.AI.RateBurst = defaultRateBurst
	}
	if cfg.Push.KeepAlive <= 0 {
		log.Printf("Warning: KEEPALIVE_INTERVAL must be positive, using %s", defaultKeepAlive)
		cfg.Push.KeepAlive = defaultKeepAlive
	}
	if cfg.Storage.MaxUploadBytes <= 0 {
		log.Printf("Warning: MAX_UPLOAD_BYTES must be positive, using %d", defaultMaxUploadBytes)
		cfg.Storage.MaxUploadBytes = defaultMaxUploadBytes
	}

	return cfg
}
