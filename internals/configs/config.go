package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"diemdanh_backend/internals/helpers/logging"
)

var (
	JWTSecret        string
	JWTAccessTTL     time.Duration
	GoogleClientID   string
	NationalIDPepper string
	CorsOrigins      []string
	AppTimezone      string
	AutoMigrate      bool
	CookieSecure     bool
	// TrustedProxies are the IPs/CIDRs whose X-Forwarded-For is honoured; empty trusts none.
	TrustedProxies   []string
)

const (
	defaultAccessTTL = 12 * time.Hour
	defaultTimezone  = "Asia/Ho_Chi_Minh"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			logging.Warn().Msg("⚠️ .env not found, using system environment")
		} else {
			logging.Info().Msg("✅ .env loaded")
		}
	}

	logging.Init(logging.Config{
		Level:  GetEnv("LOG_LEVEL", "info"),
		Format: GetEnv("LOG_FORMAT", "json"),
	})

	JWTSecret = strings.TrimSpace(GetEnv("JWT_SECRET"))
	JWTAccessTTL = GetDuration("JWT_ACCESS_TTL", defaultAccessTTL)
	GoogleClientID = strings.TrimSpace(GetEnv("GOOGLE_CLIENT_ID"))
	NationalIDPepper = GetEnv("NATIONAL_ID_PEPPER")
	CorsOrigins = splitList(GetEnv("CORS_ORIGINS", "http://localhost:3000"))
	AppTimezone = GetEnv("APP_TIMEZONE", defaultTimezone)
	AutoMigrate = GetBool("DB_AUTOMIGRATE", false)
	CookieSecure = GetBool("COOKIE_SECURE", os.Getenv("APP_ENV") == "production")
	TrustedProxies = splitList(GetEnv("TRUSTED_PROXIES"))

	required := map[string]string{
		"JWT_SECRET":         JWTSecret,
		"GOOGLE_CLIENT_ID":   GoogleClientID,
		"NATIONAL_ID_PEPPER": NationalIDPepper,
	}
	for k, v := range required {
		if v == "" {
			logging.Error().Str("key", k).Msg("❌ required env is not set")
		}
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func GetDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Location returns the display timezone, UTC when APP_TIMEZONE is unknown.
func Location() *time.Location {
	if loc, err := time.LoadLocation(AppTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func splitList(s string) []string {
	out := make([]string, 0, 4)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
