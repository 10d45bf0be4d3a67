package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/auth"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/cart"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/catalog"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/media"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/order"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/payment"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/subscription"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/user"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/database"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/identity"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/logging"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/telemetry"
)

const (
	checkoutKeyTTL = 10 * time.Minute
	cartIdleAfter  = 6 * time.Hour
	cartPruneEvery = 15 * time.Minute
)

func main() {
	log := logging.For("api")
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file, using process environment")
	}
	logging.Setup(os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "qrmenu-api", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry setup failed")
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, 5); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	log.Info().Msg("successfully connected to the database")

	loc := shopLocation(env("SHOP_TIMEZONE", "Asia/Kolkata"))
	baseURL := env("PUBLIC_BASE_URL", "http://localhost:8080")
	uploadDir := env("UPLOAD_DIR", "./uploads")

	// ── Collaborators ───────────────────────────────────────
	var (
		overrides override.Store = override.NewMemoryStore()
		guard     order.Guard    = order.NoGuard{}
	)
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, overrides degrade to canonical values")
		}
		overrides = override.NewRedisStore(rdb)
		guard = order.NewRedisGuard(rdb, checkoutKeyTTL)
	}

	var publisher order.Publisher = order.NopPublisher{}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		publisher = order.NewKafkaPublisher(order.NewKafkaWriter(brokers, env("KAFKA_ORDER_TOPIC", "menu-orders")))
	}
	defer publisher.Close()

	if err := identity.CheckSecret(os.Getenv("JWT_SECRET")); err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET must be set")
	}
	tokens := identity.NewIssuer(os.Getenv("JWT_SECRET"))
	requireUser := tokens.Middleware

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// ── Identity & shops ────────────────────────────────────
	userService := user.NewService(user.NewPostgresRepository(db))
	user.NewHandler(userService, requireUser).RegisterRoutes(router)

	shopService := shop.NewService(shop.NewPostgresRepository(db), overrides)
	shop.NewHandler(shopService, requireUser, baseURL, loc).RegisterRoutes(router)

	authService := auth.NewService(userService, shopService, tokens)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog & media ─────────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db), overrides)
	catalog.NewHandler(catalogService, shopService, requireUser).RegisterRoutes(router)

	media.NewHandler(media.NewLocalStorage(uploadDir), requireUser, baseURL, uploadDir).RegisterRoutes(router)

	// ── Cart & checkout ─────────────────────────────────────
	sessions := cart.NewSessions()
	go sessions.PruneLoop(ctx, cartPruneEvery, cartIdleAfter)
	cart.NewHandler(sessions, shopService, catalogService, loc).RegisterRoutes(router)

	orderService := order.NewService(publisher, guard, loc)
	order.NewHandler(orderService, shopService, sessions).RegisterRoutes(router)

	// ── Plans & payments ────────────────────────────────────
	subscription.NewHandler().RegisterRoutes(router)

	gateway := payment.NewRazorpayGateway(
		os.Getenv("RAZORPAY_KEY_ID"),
		os.Getenv("RAZORPAY_KEY_SECRET"),
		os.Getenv("RAZORPAY_BASE_URL"),
		&http.Client{Timeout: 15 * time.Second},
	)
	paymentService := payment.NewService(payment.NewPostgresRepository(db), gateway, shopService)
	payment.NewHandler(paymentService, shopService, requireUser, os.Getenv("RAZORPAY_WEBHOOK_SECRET")).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	port := env("APP_PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           otelhttp.NewHandler(router, "qrmenu-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("QR menu API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// shopLocation resolves the shop time zone, falling back to IST.
func shopLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log := logging.For("api")
		log.Warn().Err(err).Str("zone", name).Msg("unknown SHOP_TIMEZONE, using IST")
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}
