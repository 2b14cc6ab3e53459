package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/grocery-api/internal/cart"
	"github.com/noah-isme/grocery-api/internal/catalog"
	"github.com/noah-isme/grocery-api/internal/checkout"
	"github.com/noah-isme/grocery-api/internal/common"
	"github.com/noah-isme/grocery-api/internal/config"
	"github.com/noah-isme/grocery-api/internal/coupon"
	"github.com/noah-isme/grocery-api/internal/events"
	"github.com/noah-isme/grocery-api/internal/health"
	"github.com/noah-isme/grocery-api/internal/lock"
	"github.com/noah-isme/grocery-api/internal/obs"
	"github.com/noah-isme/grocery-api/internal/order"
	"github.com/noah-isme/grocery-api/internal/ratelimit"
	"github.com/noah-isme/grocery-api/internal/security"
	"github.com/noah-isme/grocery-api/internal/store"
	"github.com/noah-isme/grocery-api/internal/user"
	"github.com/noah-isme/grocery-api/internal/wishlist"
)

func main() {
	cfg := config.MustLoad()

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "grocery")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "grocery-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Without an external redis the API embeds one in-process, keeping all
	// state transient inside a single process.
	redisURL := cfg.RedisURL
	if redisURL == "" {
		embedded, err := miniredis.Run()
		if err != nil {
			logger.Fatal().Err(err).Msg("start embedded redis")
		}
		defer embedded.Close()
		redisURL = "redis://" + embedded.Addr()
		logger.Info().Str("addr", embedded.Addr()).Msg("using embedded redis")
	}
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if tracingEnabled {
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	st := store.New()
	seed := catalog.DefaultSeed()
	if cfg.SeedFile != "" {
		seed, err = catalog.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("load catalog seed")
		}
	}
	st.Seed(seed)
	logger.Info().Int("products", len(seed)).Msg("catalog seeded")

	coupons, err := coupon.Parse(cfg.Coupons)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse coupon table")
	}

	catalogCache := catalog.NewCache(redisClient, cfg.CatalogCacheTTL)
	bus := &events.Bus{
		Journal:   events.NewLog(1024),
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}, catalogCache},
	}

	validate := validator.New()
	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Store:            st,
		Cache:            catalogCache,
		Events:           bus,
		Validate:         validate,
		DefaultLimit:     cfg.CatalogDefaultLimit,
		MaxLimit:         cfg.CatalogMaxLimit,
		AllowAdminUpdate: cfg.EnableAdminUpdate,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogService})

	userSvc := &user.Service{Store: st, Events: bus, AllowAdmin: cfg.EnableAdminUpdate}
	userHandler := &user.Handler{Svc: userSvc}

	cartSvc := &cart.Service{Store: st, Events: bus}
	cartHandler := &cart.Handler{Svc: cartSvc}

	checkoutSvc := &checkout.Service{
		Store:       st,
		Coupons:     coupons,
		Locks:       &lock.Locker{R: redisClient},
		LockTTL:     cfg.CheckoutLockTTL,
		Tiers:       cfg.VolumeTiers,
		TaxBps:      cfg.TaxRateBps,
		EarnUnit:    cfg.LoyaltyEarnUnit,
		EarnOnBill:  cfg.LoyaltyEarnOnBill,
		AllowCoupon: cfg.EnableCoupons,
		AllowPoints: cfg.EnablePoints,
		Events:      bus,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	orderHandler := &order.Handler{Store: st}

	wishlistSvc := &wishlist.Service{Store: st, Events: bus}
	wishlistHandler := &wishlist.Handler{Svc: wishlistSvc}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{
		Enable:     envBool("SECURE_HEADERS", true),
		EnableHSTS: envBool("SECURE_HSTS", false),
	}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)
	if rateMW, err := ratelimit.Middleware(cfg.RateLimit, envBool("RATE_LIMIT_TRUST_FORWARD", false)); err != nil {
		logger.Error().Err(err).Msg("initialise rate limiter")
	} else {
		r.Use(rateMW)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Total-Count"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		pprofUser := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pprofPass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), pprofUser, pprofPass))
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{redis: redisClient},
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		common.JSON(w, http.StatusOK, map[string]any{"message": "Welcome to Grocery Store API"})
	})

	r.Get("/products", catalogHandler.Products)
	r.Put("/products/{name}", catalogHandler.Update)

	r.Post("/users/{id}", userHandler.Create)
	r.Get("/users/{id}", userHandler.Profile)

	r.Get("/cart/{userID}", cartHandler.Get)
	r.Group(func(g chi.Router) {
		g.Use(idem.Middleware)
		g.Post("/cart/{userID}/{product}/{qty}", cartHandler.Add)
		g.Delete("/cart/{userID}/{product}", cartHandler.Remove)
		g.Post("/checkout/{userID}", checkoutHandler.Checkout)
	})

	r.Get("/orders/{userID}", orderHandler.List)
	r.Get("/wishlist/{userID}", wishlistHandler.List)
	r.Post("/wishlist/{userID}/{product}", wishlistHandler.Add)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	redis *redis.Client
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
