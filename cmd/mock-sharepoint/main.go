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

	"github.com/netanyamuni/incident-backend/internal/mocksp"
	"github.com/netanyamuni/incident-backend/pkg/config"
	"github.com/netanyamuni/incident-backend/pkg/httputil"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load("mock-sharepoint")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("mock-sharepoint", cfg.Server.Environment).SetLevel(cfg.Log.Level)
	log.Info().Msg("starting Mock SharePoint Service")

	// Mock state is owned here and handed to the server; it lives for
	// the process lifetime and resets only via POST /admin/reset.
	store := mocksp.NewStore()
	server := mocksp.NewServer(store, log)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httputil.CorrelationID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	server.Routes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
