package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptolotto/internal/config"
	"cryptolotto/internal/handlers"
	"cryptolotto/internal/preferences"
	"cryptolotto/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	defer logger.Init("cryptolotto", cfg.Verbose, false, io.Discard).Close()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Open the device preference store shared by all sessions.
	prefs, err := preferences.Open(ctx, cfg.PreferenceOptions())
	if err != nil {
		logger.Fatalf("Failed to open %s preference store: %v", cfg.Preferences.Backend, err)
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			logger.Errorf("Failed to close preference store: %v", err)
		}
	}()

	// 2. Session registry, every new session gets a freshly seeded store.
	sessions := services.NewSessionService(services.SeededStoreFactory(
		services.WithPreferences(prefs),
		services.WithCreationFee(cfg.Lottery.CreationFee),
		services.WithDefaultTicketPrice(cfg.Lottery.DefaultTicketPrice),
	))

	// 3. HTTP handler and router.
	httpHandler, err := handlers.NewHTTPHandler(sessions, cfg.Session.Cookie)
	if err != nil {
		logger.Fatalf("Failed to create HTTP handler: %v", err)
	}
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.NewRouter(httpHandler, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 4. Background janitor for idle sessions.
	go runJanitor(ctx, sessions, cfg.Session.JanitorInterval, cfg.Session.IdleTimeout)

	// 5. Serve until a signal arrives.
	go func() {
		logger.Infof("Server starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Failed to run server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}

func runJanitor(ctx context.Context, sessions *services.SessionService, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := sessions.CleanUpInactiveSessions(maxIdle)
			logger.Infof("Performed cleanup of inactive sessions, removed %d, %d left", removed, sessions.Count())
		}
	}
}
