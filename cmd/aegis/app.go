package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aegis/internal/config"
	"aegis/internal/facade"
	"aegis/internal/handlers"
	"aegis/internal/logging"
	"aegis/internal/middleware"
	"aegis/web"
)

type App struct {
	cfg         *config.Config
	logger      *logging.Logger
	facade      *facade.Facade
	sampler     *facade.Sampler
	authService *middleware.AuthService
	wsHub       *middleware.Hub
	rateLimiter *middleware.RateLimiter
	static      *handlers.StaticHandlers
}

func newApp(cfg *config.Config, logger *logging.Logger) (*App, error) {
	f := facade.New(facade.Options{
		Agent:  cfg.Agent.DisplayName(),
		Logger: logger,
	})
	hub := middleware.NewHub(logger)

	app := &App{
		cfg:         cfg,
		logger:      logger,
		facade:      f,
		sampler:     facade.NewSampler(f, hub, cfg.PollInterval),
		authService: middleware.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		wsHub:       hub,
		rateLimiter: middleware.PerMinute(cfg.RateLimitPerMinute, burstFor(cfg.RateLimitPerMinute)),
	}

	if !cfg.Development() {
		bundle := web.Bundle()
		if cfg.StaticDir != "" {
			dir, err := handlers.StaticDir(cfg.StaticDir)
			if err != nil {
				return nil, err
			}
			bundle = dir
		}
		static, err := handlers.NewStaticHandlers(bundle)
		if err != nil {
			return nil, err
		}
		app.static = static
	}
	return app, nil
}

func burstFor(perMinute int) int {
	if b := perMinute / 6; b > 10 {
		return b
	}
	return 10
}

func (a *App) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(a.logger, a.cfg.Development()))

	// Security middleware
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	apiHandlers := handlers.NewAPIHandlers(a.facade, a.logger)

	r.GET("/healthz", apiHandlers.Healthz)
	r.GET("/version", apiHandlers.VersionGET)

	api := r.Group("/api")
	api.Use(a.authService.RequireAPIAuth())
	{
		api.GET("/status", apiHandlers.StatusGET)
		api.GET("/analysis", apiHandlers.AnalysisGET)
		api.POST("/execute", apiHandlers.ExecutePOST)
	}

	// WebSocket endpoint
	r.GET("/ws", a.rateLimiter.Middleware(), a.wsHub.HandleWebSocket())

	if a.static != nil {
		r.NoRoute(a.rateLimiter.Middleware(), a.static.Serve)
	} else {
		r.NoRoute(handlers.APINotFound)
	}
	return r
}

// serve runs the HTTP server until ctx is cancelled, then shuts down with a
// five second grace period.
func (a *App) serve(ctx context.Context) error {
	go a.wsHub.Run()
	a.sampler.Start()

	srv := &http.Server{
		Addr:           a.cfg.ListenAddr(),
		Handler:        a.setupRouter(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   a.cfg.Chat.Timeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
		ErrorLog:       log.New(a.logger.Writer(), "", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Writef("Starting %s on %s (mode %s)", a.cfg.Agent.DisplayName(), srv.Addr, a.cfg.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		a.stop()
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Write("Shutting down server...")
	a.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Write("Server exited")
	return nil
}

func (a *App) stop() {
	a.sampler.Stop()
	a.wsHub.Stop()
	a.rateLimiter.Stop()
}
