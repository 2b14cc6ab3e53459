package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grocery-api/internal/pricing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":             "",
		"PORT":                "",
		"PRICING_TAX_RATE_BPS": "",
		"PRICING_VOLUME_TIERS": "",
		"LOYALTY_EARN_UNIT":   "",
		"LOYALTY_EARN_BASE":   "",
		"FEATURE_COUPONS":     "",
		"CATALOG_CACHE_TTL":   "",
		"RATE_LIMIT":          "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, int64(500), cfg.TaxRateBps)
	require.Equal(t, []pricing.Tier{{MinSubtotal: 3000, RateBps: 1500}, {MinSubtotal: 1000, RateBps: 1000}}, cfg.VolumeTiers)
	require.Equal(t, int64(100), cfg.LoyaltyEarnUnit)
	require.False(t, cfg.LoyaltyEarnOnBill)
	require.True(t, cfg.EnableCoupons)
	require.True(t, cfg.EnablePoints)
	require.Equal(t, 5*time.Second, cfg.CatalogCacheTTL)
	require.Equal(t, "300-M", cfg.RateLimit)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":              "production",
		"PORT":                 "9090",
		"PRICING_TAX_RATE_BPS": "1800",
		"PRICING_VOLUME_TIERS": "500:200,5000:2500",
		"LOYALTY_EARN_BASE":    "final",
		"FEATURE_POINTS":       "off",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"CATALOG_CACHE_TTL":    "30s",
	})
	require.NoError(t, err)

	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, int64(1800), cfg.TaxRateBps)
	// Tiers are ordered highest threshold first regardless of input order.
	require.Equal(t, []pricing.Tier{{MinSubtotal: 5000, RateBps: 2500}, {MinSubtotal: 500, RateBps: 200}}, cfg.VolumeTiers)
	require.True(t, cfg.LoyaltyEarnOnBill)
	require.False(t, cfg.EnablePoints)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := LoadForTests(map[string]string{"PRICING_TAX_RATE_BPS": "10000"})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{
		"PRICING_TAX_RATE_BPS": "",
		"PRICING_VOLUME_TIERS": "1000",
	})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{
		"PRICING_TAX_RATE_BPS": "",
		"PRICING_VOLUME_TIERS": "1000:0",
	})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{
		"PRICING_TAX_RATE_BPS": "",
		"PRICING_VOLUME_TIERS": "",
		"LOYALTY_EARN_UNIT":    "0",
	})
	require.Error(t, err)
}

func TestMustLoadPanicsOnInvalidEnv(t *testing.T) {
	t.Setenv("PRICING_TAX_RATE_BPS", "10000")
	require.Panics(t, func() { MustLoad() })
}

func TestParseTiersEmptySpecEntries(t *testing.T) {
	tiers, err := parseTiers(" 1000:1000 , , 3000:1500 ")
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	require.Equal(t, int64(3000), tiers[0].MinSubtotal)
}
