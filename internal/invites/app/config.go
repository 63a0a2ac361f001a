package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	httpapi "github.com/aussiebroadwan/futurgenie/internal/invites/http"
	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/pkg/httpx"
	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseFile  string        // Optional: path to SQLite database file (default: ./invites.db)
	TokenTTL      time.Duration // Optional: invitation lifetime (default: 720h)
	PublicBaseURL string        // Optional: prefix for invite_url, the secret is appended

	MasterKeyPath string // Optional: file holding the sealing master key
	MasterKey     string // Optional: sealing master key material, used when no path is set

	JWTAlgorithm string   // Optional: HS256 or EdDSA (default: HS256)
	JWTSecret    string   // Required for HS256: shared secret with the identity provider
	JWKSURL      string   // Required for EdDSA: identity provider key set
	JWTIssuer    string   // Optional: expected iss claim
	JWTAudience  []string // Optional: accepted aud values (default: authenticated)

	OnboardingToken string   // Optional: if set, required to onboard a school
	CORSOrigins     []string // Optional: browser origins allowed to call the API

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	ExpiredRetention     time.Duration // How long expired invitations are kept (default: 168h)

	RateLimits httpapi.RateLimits
}

// LoadConfig reads the optional env file named by INVITES_ENV_FILE (default
// .env) and then the environment. Variables already set win over the file.
func LoadConfig() (Config, error) {
	if err := loadEnvFile(getEnvOrDefault("INVITES_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{
		DatabaseFile:  getEnvOrDefault("INVITES_DATABASE_FILE", "invites.db"),
		TokenTTL:      getEnvDurationOrDefault("INVITES_TOKEN_TTL", service.DefaultTokenTTL),
		PublicBaseURL: os.Getenv("INVITES_PUBLIC_BASE_URL"),

		MasterKeyPath: os.Getenv("INVITES_MASTER_KEY_PATH"),
		MasterKey:     os.Getenv("INVITES_MASTER_KEY"),

		JWTAlgorithm: getEnvOrDefault("INVITES_JWT_ALGORITHM", jwtx.AlgHS256),
		JWTSecret:    os.Getenv("INVITES_JWT_SECRET"),
		JWKSURL:      os.Getenv("INVITES_JWKS_URL"),
		JWTIssuer:    os.Getenv("INVITES_JWT_ISSUER"),
		JWTAudience:  splitList(getEnvOrDefault("INVITES_JWT_AUDIENCE", "authenticated")),

		OnboardingToken: os.Getenv("INVITES_ONBOARDING_TOKEN"),
		CORSOrigins:     splitList(os.Getenv("INVITES_CORS_ORIGINS")),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		ExpiredRetention:     getEnvDurationOrDefault("INVITES_EXPIRED_RETENTION", service.DefaultExpiredRetention),

		// httpx reads RATELIMIT_* at init, before the env file was loaded.
		RateLimits: httpapi.RateLimits{
			Redeem:  httpx.ParseRateLimitFromEnv("REDEEM", httpx.RedeemLimit),
			Onboard: httpx.ParseRateLimitFromEnv("ONBOARD", httpx.OnboardLimit),
			Write:   httpx.ParseRateLimitFromEnv("WRITE", httpx.WriteLimit),
			Read:    httpx.ParseRateLimitFromEnv("READ", httpx.ReadLimit),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	alg, err := jwtx.NormaliseAlgorithm(c.JWTAlgorithm)
	if err != nil {
		return err
	}
	c.JWTAlgorithm = alg

	switch alg {
	case jwtx.AlgHS256:
		if c.JWTSecret == "" {
			return errors.New("config: INVITES_JWT_SECRET is required for HS256")
		}
	case jwtx.AlgEdDSA:
		if c.JWKSURL == "" {
			return errors.New("config: INVITES_JWKS_URL is required for EdDSA")
		}
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: INVITES_TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT out of range: %d", c.Port)
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
