package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"hiringapi/internal/config"
	"hiringapi/internal/httpapi"
	"hiringapi/internal/ingest"
	"hiringapi/internal/metrics"
	"hiringapi/internal/metrics/datadog"
	"hiringapi/internal/metrics/prompush"
	"hiringapi/internal/schema"
	"hiringapi/internal/storage"
	_ "hiringapi/internal/storage/all"
)

func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s %s", r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

// setupMetrics installs a metrics backend when one is configured; otherwise
// the no-op backend stays in place.
func setupMetrics(logger *log.Logger, cfg config.Config) {
	switch {
	case cfg.PushgatewayURL != "":
		b, err := prompush.NewBackend("hiringapi", cfg.PushgatewayURL)
		if err != nil {
			logger.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		logger.Printf("metrics: pushgateway url=%s", cfg.PushgatewayURL)
		metrics.SetBackend(b)

	case cfg.DDAgentAddr != "":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      cfg.DDAgentAddr,
			Namespace: "hiringapi.",
		})
		if err != nil {
			logger.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		logger.Printf("metrics: datadog addr=%s", cfg.DDAgentAddr)
		metrics.SetBackend(b)
	}
}

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	repo, err := storage.Open(ctx, storage.Config{
		DSN:       cfg.DBURL,
		ChunkSize: cfg.ChunkSize,
	})
	if err != nil {
		logger.Fatalf("storage error: %v", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx, schema.All()); err != nil {
		logger.Fatalf("schema error: %v", err)
	}

	setupMetrics(logger, cfg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			logger.Printf("metrics: flush error: %v", err)
		}
	}()

	pipe, err := ingest.NewPipeline(repo, cfg.ChunkSize)
	if err != nil {
		logger.Fatalf("pipeline error: %v", err)
	}

	api := httpapi.NewServer(repo, pipe, logger)
	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(api)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           loggingMiddleware(logger, handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Printf("starting server, listening to port %s...", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server failed: %v", err)
	}
}
