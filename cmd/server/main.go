package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"roadtrip-planner/internal/adapters/cache"
	"roadtrip-planner/internal/adapters/opendatasoft"
	"roadtrip-planner/internal/adapters/ors"
	"roadtrip-planner/internal/adapters/repositories"
	"roadtrip-planner/internal/api"
	"roadtrip-planner/internal/config"
	"roadtrip-planner/internal/platform/db"
	"roadtrip-planner/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS, OpenDataSoft) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logger := newLogger()
	slog.SetDefault(logger)

	port := config.Get("PORT", "8080")
	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		logger.Error("ORS_API_KEY is required")
		os.Exit(1)
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		logger.Error("database open failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pg.Close()

	if err := repositories.InitSchema(pg); err != nil {
		logger.Error("schema init failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Route legs are cached in Redis when configured; without it the
	// routing provider just calls out every time.
	var routeCache *cache.RedisRouteCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		ttl := config.GetDuration("ROUTE_CACHE_TTL", 24*time.Hour)
		routeCache = cache.NewRedisRouteCache(rdb, ttl)
		defer rdb.Close()
	}

	orsClient, err := ors.NewClient(orsKey)
	if err != nil {
		logger.Error("ors client init failed", slog.Any("error", err))
		os.Exit(1)
	}

	geocoder := ors.NewGeocoder(orsClient, cache.NewPGGeocodeCache(pg), logger)
	routing := ors.NewRoutingProvider(orsClient, routeCache, logger)
	places := ors.NewPlacesProvider(orsClient)

	citySource := opendatasoft.NewClient(
		os.Getenv("OPENDATASOFT_API_KEY"),
		config.Get("REGION_TIMEZONE_PREFIX", "Europe/"),
		logger,
	)

	catalog := services.NewCityCatalog(citySource, places, logger)
	planner := services.NewTripPlanner(
		geocoder,
		services.NewCorridorDiscovery(catalog, logger),
		services.NewRouteBuilder(logger),
		services.NewDayAllocator(logger),
		services.NewRouteSegmenter(routing, logger),
		logger,
	)

	router := api.NewRouter(planner, repositories.NewPGTripRepository(pg))

	// Write timeout leaves room for cold-cache planning runs that fan out
	// to external providers.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server listening", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if strings.EqualFold(config.Get("LOG_LEVEL", "info"), "debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
