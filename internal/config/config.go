package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/grocery-api/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string

	TaxRateBps        int64
	VolumeTiers       []pricing.Tier
	Coupons           string
	LoyaltyEarnUnit   int64
	LoyaltyEarnOnBill bool

	EnableCoupons     bool
	EnablePoints      bool
	EnableAdminUpdate bool

	SeedFile            string
	CatalogCacheTTL     time.Duration
	CatalogDefaultLimit int
	CatalogMaxLimit     int

	IdempotencyTTL  time.Duration
	CheckoutLockTTL time.Duration
	RateLimit       string
	BodyLimitBytes  int64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	tiers, err := parseTiers(valueOrDefault(k.String("PRICING_VOLUME_TIERS"), "3000:1500,1000:1000"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		TaxRateBps:        int64(intOrDefault(k.String("PRICING_TAX_RATE_BPS"), 500)),
		VolumeTiers:       tiers,
		Coupons:           valueOrDefault(k.String("PRICING_COUPONS"), "SAVE10:1000,FRESH5:500,FESTIVE20:2000"),
		LoyaltyEarnUnit:   int64(intOrDefault(k.String("LOYALTY_EARN_UNIT"), 100)),
		LoyaltyEarnOnBill: strings.EqualFold(valueOrDefault(k.String("LOYALTY_EARN_BASE"), "pretax"), "final"),

		EnableCoupons:     boolOrDefault(k.String("FEATURE_COUPONS"), true),
		EnablePoints:      boolOrDefault(k.String("FEATURE_POINTS"), true),
		EnableAdminUpdate: boolOrDefault(k.String("FEATURE_ADMIN_UPDATE"), true),

		SeedFile:            strings.TrimSpace(k.String("CATALOG_SEED_FILE")),
		CatalogCacheTTL:     parseDuration(k.String("CATALOG_CACHE_TTL"), "5s"),
		CatalogDefaultLimit: intOrDefault(k.String("CATALOG_DEFAULT_LIMIT"), 20),
		CatalogMaxLimit:     intOrDefault(k.String("CATALOG_MAX_LIMIT"), 100),

		IdempotencyTTL:  parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),
		CheckoutLockTTL: parseDuration(k.String("CHECKOUT_LOCK_TTL"), "5s"),
		RateLimit:       valueOrDefault(k.String("RATE_LIMIT"), "300-M"),
		BodyLimitBytes:  int64(intOrDefault(k.String("SECURE_BODY_LIMIT_BYTES"), 1<<20)),
	}

	if cfg.TaxRateBps < 0 || cfg.TaxRateBps >= 10_000 {
		return nil, fmt.Errorf("PRICING_TAX_RATE_BPS out of range: %d", cfg.TaxRateBps)
	}
	if cfg.LoyaltyEarnUnit <= 0 {
		return nil, fmt.Errorf("LOYALTY_EARN_UNIT must be positive: %d", cfg.LoyaltyEarnUnit)
	}
	if cfg.CatalogDefaultLimit > cfg.CatalogMaxLimit {
		cfg.CatalogDefaultLimit = cfg.CatalogMaxLimit
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func parseTiers(spec string) ([]pricing.Tier, error) {
	var tiers []pricing.Tier
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		minPart, ratePart, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("PRICING_VOLUME_TIERS: malformed entry %q", entry)
		}
		minSubtotal, err := strconv.ParseInt(strings.TrimSpace(minPart), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("PRICING_VOLUME_TIERS: threshold in %q: %w", entry, err)
		}
		rate, err := strconv.ParseInt(strings.TrimSpace(ratePart), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("PRICING_VOLUME_TIERS: rate in %q: %w", entry, err)
		}
		if rate <= 0 || rate >= 10_000 {
			return nil, fmt.Errorf("PRICING_VOLUME_TIERS: rate in %q must be between 0 and 10000 bps", entry)
		}
		tiers = append(tiers, pricing.Tier{MinSubtotal: minSubtotal, RateBps: rate})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinSubtotal > tiers[j].MinSubtotal })
	return tiers, nil
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func intOrDefault(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

func boolOrDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
