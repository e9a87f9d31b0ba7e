package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/luminary-backend/internal/adapter/postgres"
	"github.com/heartmarshall/luminary-backend/internal/adapter/postgres/conversation"
	"github.com/heartmarshall/luminary-backend/internal/adapter/postgres/memory"
	"github.com/heartmarshall/luminary-backend/internal/adapter/postgres/message"
	"github.com/heartmarshall/luminary-backend/internal/adapter/postgres/wellness"
	"github.com/heartmarshall/luminary-backend/internal/auth"
	"github.com/heartmarshall/luminary-backend/internal/config"
	"github.com/heartmarshall/luminary-backend/internal/realtime"
	"github.com/heartmarshall/luminary-backend/internal/service/coach"
	"github.com/heartmarshall/luminary-backend/internal/transport/middleware"
	"github.com/heartmarshall/luminary-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires the coach service and serves HTTP until ctx is
// cancelled, then drains in-flight requests and background work.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.String("llm_model", cfg.LLM.Model),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	streamer, err := newStreamer(logger, cfg.LLM)
	if err != nil {
		return err
	}

	// Validate has already checked the zone name.
	loc, err := time.LoadLocation(cfg.Coach.Timezone)
	if err != nil {
		return fmt.Errorf("coach timezone: %w", err)
	}

	hub := realtime.NewHub(0)
	coachSvc := coach.NewService(
		logger,
		conversation.New(pool),
		message.New(pool),
		memory.New(pool),
		wellness.New(pool),
		postgres.NewTxManager(pool),
		streamer,
		nil,
		hub,
		coach.Config{
			Model:              cfg.LLM.Model,
			MaxTokens:          cfg.LLM.MaxTokens,
			Temperature:        cfg.LLM.Temperature,
			HistoryLimit:       cfg.Coach.HistoryLimit,
			MemoryLimit:        cfg.Coach.MemoryLimit,
			StreakLookbackDays: cfg.Coach.StreakLookback,
			Location:           loc,
			ExtractionTimeout:  cfg.Coach.ExtractionTimeout,
		},
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	coachHandler := rest.NewCoachHandler(coachSvc, hub, logger, strings.Split(cfg.CORS.AllowedOrigins, ","))
	router := newRouter(routerDeps{
		logger:        logger,
		cfg:           cfg,
		health:        rest.NewHealthHandler(pool, coachSvc, cfg.LLM.Provider, BuildVersion()),
		coach:         coachHandler,
		verifier:      auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience),
		limiter:       limiter,
		chatPerMinute: cfg.RateLimit.ChatPerMinute,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	srv.RegisterOnShutdown(coachHandler.Shutdown)

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("shutting down", slog.Int("active_turns", coachSvc.ActiveTurns()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Streams still running past the deadline are cut off; their turns
		// are cancelled and store nothing.
		logger.Warn("graceful shutdown timed out", slog.String("error", err.Error()))
		_ = srv.Close()
	}

	coachSvc.Wait()
	logger.Info("stopped")
	return nil
}
