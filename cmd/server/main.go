package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"clipserver/internal/clip"
	"clipserver/internal/platform/config"
	"clipserver/internal/platform/logger"
	"clipserver/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

// defaultAllowedHosts are the source domains clip requests may target when
// ALLOWED_HOSTS is unset. Subdomains of each entry are allowed too.
var defaultAllowedHosts = []string{"youtube.com", "youtu.be", "music.youtube.com"}

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	outputDir := config.GetEnv("OUTPUT_DIR", filepath.Join(os.TempDir(), "clipserver"))
	allowedHosts := config.GetEnvList("ALLOWED_HOSTS", defaultAllowedHosts)

	log := logger.New(logLevel, logFormat)

	// Environment overrides are read once here and threaded into the
	// downloader, so extraction behavior does not depend on ad-hoc env
	// reads at request time.
	downloader := clip.NewDownloader(clip.Config{
		Binary:       config.GetEnv("YTDLP_BIN", "yt-dlp"),
		OutputDir:    outputDir,
		Timeout:      config.GetEnvDuration("CLIP_TIMEOUT", 15*time.Minute),
		UserAgent:    config.GetEnv("USER_AGENT", ""),
		CookieHeader: config.GetEnv("COOKIE_HEADER", ""),
		CookiesFile:  config.GetEnv("COOKIES_FILE", ""),
		Logger:       log,
	})

	met := metrics.New()
	h := clip.NewHandler(downloader, log, met, allowedHosts, outputDir, filepath.Join(outputDir, "cookies"))

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", met.Handler().ServeHTTP)
	r.Get("/healthz", h.Health)
	r.Get("/api/clip", h.ExtractClip)
	r.Post("/api/clip", h.ExtractClip)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"output_dir", outputDir,
		"allowed_hosts", allowedHosts,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
