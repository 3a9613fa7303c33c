package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/galera-volei/galera-system/config"
	"github.com/galera-volei/galera-system/db"
	"github.com/galera-volei/galera-system/handlers"
	"github.com/galera-volei/galera-system/realtime"
	"github.com/galera-volei/galera-system/repositories"
	"github.com/galera-volei/galera-system/routes"
	"github.com/galera-volei/galera-system/services"
)

// How often pending invites are swept for expiry.
const sweepInterval = time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	hub := realtime.NewHub(logger)
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	matchService := services.NewMatchService(matchRepo, userRepo, hub)
	inviteService := services.NewInviteService(inviteRepo, matchRepo, userRepo)
	logger.Info("services initialized")

	// Sweep overdue invites so that expiry shows up even without reads.
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			expired, err := inviteService.ExpireOverdue(context.Background())
			if err != nil {
				logger.Error("invite expiry sweep failed", slog.Any("error", err))
			} else if expired > 0 {
				logger.Info("invites expired", slog.Int64("count", expired))
			}
			<-ticker.C
		}
	}()

	router := routes.InitRoutes(routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Matches:   handlers.NewMatchHandler(matchService),
		Invites:   handlers.NewInviteHandler(inviteService),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
	}, []byte(cfg.JWTSecretKey), cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
