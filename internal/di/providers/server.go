package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"lms/internal/api"
	"lms/internal/config"
	"lms/internal/httpx"
	"lms/internal/logger"
)

// RateLimiterHandle stops the limiter's cleanup goroutine on shutdown.
type RateLimiterHandle struct {
	*httpx.RateLimitMiddleware
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideAuthRateLimiter provides the limiter in front of login and register.
func ProvideAuthRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &RateLimiterHandle{httpx.NewRateLimitMiddleware(cfg.Limits.AuthRPS, cfg.Limits.AuthBurst)}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	pool := do.MustInvoke[*PoolHandle](i)
	services := do.MustInvoke[*api.Services](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewRouter(services.Handlers(), api.Options{
		Log:            log.Logger,
		JWTSecret:      cfg.Auth.JWTSecret,
		Revocations:    services.Sessions,
		DB:             pool,
		AuthLimiter:    limiter.RateLimitMiddleware,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		EnableHSTS:     cfg.Server.EnableHSTS,
		MaxBodyBytes:   cfg.Limits.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
