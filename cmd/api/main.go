//	@title			Mediary API
//	@version		1.0
//	@description	Media ingestion service: durably stores submitted media with a derived variant and resolves external avatar URLs with hash-based dedup.
//
//	@host		localhost:8081
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/mediary/service/internal/avatar"
	"github.com/mediary/service/internal/config"
	"github.com/mediary/service/internal/generate"
	"github.com/mediary/service/internal/ingest"
	"github.com/mediary/service/internal/logger"
	appMiddleware "github.com/mediary/service/internal/middleware"
	"github.com/mediary/service/internal/storage"
	"github.com/mediary/service/internal/web"

	_ "github.com/mediary/service/docs/swagger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Error("object storage init failed", "error", err)
		os.Exit(1)
	}

	// Wire dependencies: gateways → services → handlers
	videoBackend := generate.NewVideoBackend(log, cfg.ScratchDir)
	dispatcher := generate.NewDispatcher(generate.NewImageBackend(), videoBackend)
	webClient := web.NewClient(log, cfg.IPFSGatewayURL)

	ingestSvc := ingest.NewService(log, store, dispatcher)
	ingestHandler := ingest.NewHandler(ingestSvc)

	avatarSvc := avatar.NewService(log, webClient, ingestSvc)
	avatarHandler := avatar.NewHandler(avatarSvc)

	// Scratch-space reclamation runs for the lifetime of the process.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper := generate.NewSweeper(log, videoBackend, cfg.SweepStaleAfter)
	go sweeper.Run(sweepCtx)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI, served at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))
		r.Post("/images", ingestHandler.Upload)
		r.Get("/images/{id}", ingestHandler.Get)
		r.Post("/avatars", avatarHandler.Resolve)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down gracefully")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
