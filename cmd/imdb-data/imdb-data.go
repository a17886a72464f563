package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/imdb-data/internal/business"
	"github.com/Agurato/imdb-data/internal/infrastructure"
	"github.com/Agurato/imdb-data/internal/service/server"
)

// Environment variables names
const (
	EnvListenAddr   = "LISTEN_ADDR"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogPretty    = "LOG_PRETTY"
	EnvIMDbBaseURL  = "IMDB_BASE_URL"
	EnvUserAgent    = "USER_AGENT"
	EnvFetchTimeout = "FETCH_TIMEOUT"
	EnvFetchRate    = "FETCH_RATE"
	EnvCachePath    = "CACHE_PATH"
	EnvCacheTTL     = "CACHE_TTL"
	EnvCastLimit    = "CAST_LIMIT"
	EnvReviewLimit  = "REVIEW_LIMIT"
	EnvSearchLimit  = "SEARCH_LIMIT"
)

const (
	defaultListenAddr = ":8080"
	defaultCacheTTL   = time.Hour
	shutdownTimeout   = 10 * time.Second
)

func main() {
	godotenv.Load()

	setupLogger()

	opts := []infrastructure.Option{
		infrastructure.WithTimeout(envDuration(EnvFetchTimeout, infrastructure.DefaultTimeout)),
		infrastructure.WithRate(envFloat(EnvFetchRate, infrastructure.DefaultRate)),
	}
	if baseURL := os.Getenv(EnvIMDbBaseURL); baseURL != "" {
		opts = append(opts, infrastructure.WithBaseURL(baseURL))
	}
	if userAgent := os.Getenv(EnvUserAgent); userAgent != "" {
		opts = append(opts, infrastructure.WithUserAgent(userAgent))
	}
	if cachePath := os.Getenv(EnvCachePath); cachePath != "" {
		opts = append(opts, infrastructure.WithCache(infrastructure.NewCache(cachePath, envDuration(EnvCacheTTL, defaultCacheTTL))))
	}
	imdb := infrastructure.NewIMDbClient(opts...)

	assembler := business.NewAssembler(business.Caps{
		Cast:    envInt(EnvCastLimit, business.DefaultCastLimit),
		Reviews: envInt(EnvReviewLimit, business.DefaultReviewLimit),
		Search:  envInt(EnvSearchLimit, business.DefaultSearchLimit),
	})
	cm := business.NewCatalogManager(imdb, assembler)

	mainHandler := server.NewMainHandler()
	catalogHandler := server.NewCatalogHandler(cm)
	router := server.NewServer(mainHandler, catalogHandler)

	addr := os.Getenv(EnvListenAddr)
	if addr == "" {
		addr = defaultListenAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		caps := assembler.Caps()
		log.Info().Str("addr", addr).Int("cast", caps.Cast).Int("reviews", caps.Reviews).Int("search", caps.Search).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Could not shut down server gracefully")
	}
}

func setupLogger() {
	level, err := zerolog.ParseLevel(os.Getenv(EnvLogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if os.Getenv(EnvLogPretty) == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func envInt(name string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(name), 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return value
}
