package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/assistant"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/catalog"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/chat"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/config"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/geo"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/guardrails"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/metrics"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/store"
	handler "github.com/FahadImdad/khaadi-ai-chat-store/internal/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	log.Info().
		Int("port", cfg.Server.Port).
		Str("assistant_mode", cfg.Assistant.Mode).
		Msg("starting khaadi chat store")

	ctx := context.Background()

	// Load the product catalog: file, then URL, then the embedded set.
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}
	log.Info().Int("products", cat.Len()).Msg("catalog loaded")

	// Geo resolver for geocoding and weather lookups
	resolver := geo.New(cfg.Geo.GeocodingURL, cfg.Geo.WeatherURL, cfg.Geo.Timeout)

	// Assistant adapter (backend RPC, local OpenAI agent, or mock)
	asst, err := assistant.New(cfg, cat.FormatForPrompt(), resolver.CurrentWeather, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize assistant")
	}

	// Input guardrails
	guard, err := guardrails.NewEngine(ctx, guardrails.DefaultPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize guardrails")
	}

	// Durable order store
	orders, err := store.NewSQLiteOrderStore(cfg.Store.OrdersDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize order store")
	}
	defer orders.Close()

	// Session snapshot store: redis when configured, in-memory otherwise
	var sessions store.SessionStore
	if cfg.Store.RedisAddr != "" {
		sessions = store.NewRedisStore(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		log.Info().Str("addr", cfg.Store.RedisAddr).Msg("using redis session store")
	} else {
		sessions = store.NewMemoryStore()
	}
	defer sessions.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	orch := chat.NewOrchestrator(chat.Options{
		Catalog:      cat,
		Geo:          resolver,
		Assistant:    asst,
		Guard:        guard,
		Orders:       orders,
		Metrics:      m,
		Logger:       log,
		StartDelay:   cfg.Stream.StartDelay,
		WordInterval: cfg.Stream.WordInterval,
	})
	manager := chat.NewManager(orch, sessions, log)

	h := handler.NewHandler(manager, cat, orders, reg, log)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down server gracefully")
	}
	manager.CloseAll()

	log.Info().Msg("stopped")
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	if cfg.Catalog.URL != "" {
		client := &http.Client{Timeout: 15 * time.Second}
		return catalog.FetchURL(ctx, client, cfg.Catalog.URL)
	}
	return catalog.Default()
}
