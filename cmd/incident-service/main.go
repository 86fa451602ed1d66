package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/netanyamuni/incident-backend/internal/incident/handler"
	"github.com/netanyamuni/incident-backend/internal/incident/service"
	"github.com/netanyamuni/incident-backend/internal/incident/transform"
	"github.com/netanyamuni/incident-backend/internal/incident/validate"
	"github.com/netanyamuni/incident-backend/internal/sharepoint"
	"github.com/netanyamuni/incident-backend/pkg/config"
	"github.com/netanyamuni/incident-backend/pkg/httputil"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

func main() {
	// Load configuration, fail fast on invalid environment
	cfg, err := config.LoadWithValidation("incident-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("incident-service", cfg.Server.Environment).SetLevel(cfg.Log.Level)
	log.Info().Bool("debug", cfg.Debug).Msg("starting Incident Service")

	// Select the submission backend once at startup
	var submitter sharepoint.Submitter
	if cfg.Debug {
		log.Info().Msg("debug mode enabled, using mock SharePoint submitter")
		submitter = sharepoint.NewMockClient(log)
	} else {
		log.Info().Str("endpoint", cfg.SharePoint.EndpointURL).Msg("using production SharePoint client")
		submitter = sharepoint.NewClient(sharepoint.Options{
			EndpointURL:      cfg.SharePoint.EndpointURL,
			Timeout:          cfg.SharePoint.Timeout,
			MaxRetries:       cfg.SharePoint.MaxRetries,
			BackoffFactor:    cfg.SharePoint.BackoffFactor,
			EstablishSession: cfg.SharePoint.EstablishSession,
		}, log)
	}

	// Initialize services
	transformer := transform.NewTransformer(transform.DefaultConfig(), log)
	fileValidator := validate.NewFileValidator()
	incidentService := service.NewIncidentService(transformer, fileValidator, submitter, cfg.Debug, log)

	// Initialize handlers
	incidentHandler := handler.NewIncidentHandler(incidentService, cfg.Debug, log)
	healthHandler := handler.NewHealthHandler(cfg.SharePoint.EndpointURL, cfg.Debug, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.CorrelationID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	// Health checks
	r.Get("/health", healthHandler.Health)
	r.Get("/health/detailed", healthHandler.Detailed)

	// Incident API
	r.Route("/incidents", func(r chi.Router) {
		r.Post("/submit", incidentHandler.Submit)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
