package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/veldtlabs/hexrift/internal/auth"
	"github.com/veldtlabs/hexrift/internal/config"
	"github.com/veldtlabs/hexrift/internal/handler"
	"github.com/veldtlabs/hexrift/internal/logger"
	"github.com/veldtlabs/hexrift/internal/middleware"
	"github.com/veldtlabs/hexrift/internal/repository"
	"github.com/veldtlabs/hexrift/internal/repository/postgres"
	"github.com/veldtlabs/hexrift/internal/scheduler"
	"github.com/veldtlabs/hexrift/internal/tuning"
)

func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Config load failed")
	}
	log.Info().Str("port", cfg.Port).Dur("tickInterval", cfg.TickInterval).Msg("Config loaded")

	// Balance tuning
	balance, err := tuning.LoadFile(cfg.BalanceFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.BalanceFile).Msg("Balance tuning failed")
	}

	// Database (optional: without it finished matches are simply not archived)
	var matchRepo repository.MatchRepository
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Database unavailable, match archiving disabled")
	} else {
		defer db.Close()
		matchRepo = postgres.NewMatchRepo(db)
	}

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)

	// WebSocket hub and scheduler
	wsHub := handler.NewHub()
	sched := scheduler.New(wsHub, matchRepo, balance, cfg.TickInterval)

	// Handlers
	authHandler := handler.NewAuthHandler(jwtMgr)
	matchHandler := handler.NewMatchHandler(matchRepo, sched)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr, sched, cfg.ActionRate, cfg.ActionBurst)

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("POST /auth/guest", authHandler.GuestLogin)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("GET /matches", matchHandler.ListRecent)
	api.HandleFunc("GET /matches/stats", matchHandler.Stats)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
