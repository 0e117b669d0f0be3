// Package config loads the service configuration from the environment,
// with optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/logx"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full service configuration
type Config struct {
	ListenAddr string

	// Request store
	StoreDriver string
	MongoURI    string
	MongoDB     string
	PostgresDSN string

	// WhatsApp Cloud API
	WhatsAppAccessToken   string
	WhatsAppPhoneNumberID string
	WhatsAppAppSecret     string
	WhatsAppVerifyToken   string

	// Admin surface
	AdminUser string
	AdminPass string
	JWTSecret string
	JWTTTL    time.Duration

	// Optional S3 media archive; disabled when the bucket is empty
	S3Bucket string
	S3Prefix string
	S3Region string

	Pricing         dialogx.Pricing
	DispatchTimeout time.Duration
}

// Load reads the configuration, loading .env first when present
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logx.Debug("config: no .env file loaded: %v", err)
	}

	defaults := dialogx.DefaultPricing()

	cfg := Config{
		ListenAddr: env("LISTEN_ADDR", ":8080"),

		StoreDriver: env("STORE_DRIVER", DriverMongo),
		MongoURI:    env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     env("MONGO_DB", "riderbot"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		WhatsAppAccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppAppSecret:     os.Getenv("WHATSAPP_APP_SECRET"),
		WhatsAppVerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),

		AdminUser: env("ADMIN_USER", "admin"),
		AdminPass: os.Getenv("ADMIN_PASS"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    envDuration("JWT_TTL", 12*time.Hour),

		S3Bucket: os.Getenv("S3_MEDIA_BUCKET"),
		S3Prefix: env("S3_MEDIA_PREFIX", "media/"),
		S3Region: os.Getenv("AWS_REGION"),

		Pricing: dialogx.Pricing{
			TPL:               envInt("PRICE_TPL", defaults.TPL),
			RegTransport:      envInt("PRICE_REG_TRANSPORT", defaults.RegTransport),
			RoadsideTransport: envInt("PRICE_ROADSIDE_TRANSPORT", defaults.RoadsideTransport),
		},

		DispatchTimeout: envDuration("DISPATCH_TIMEOUT", 30*time.Second),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == DriverPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("config: STORE_DRIVER=postgres requires POSTGRES_DSN")
	}
	// WhatsApp credentials are deliberately not checked here: only the
	// provider needs them, and commands like export run without one.
	// serve validates them when it builds the provider.
	if c.AdminPass != "" && c.JWTSecret == "" {
		return fmt.Errorf("config: admin surface enabled but JWT_SECRET is empty")
	}
	return nil
}

// AdminEnabled reports whether the admin surface should be mounted
func (c Config) AdminEnabled() bool {
	return c.AdminPass != "" && c.JWTSecret != ""
}

// ArchiveEnabled reports whether resolved media is archived to S3
func (c Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logx.Warn("config: %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logx.Warn("config: %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}
