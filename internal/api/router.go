// Package api assembles the HTTP router for the library service.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lms/internal/auth"
	"lms/internal/book"
	"lms/internal/borrow"
	"lms/internal/fine"
	"lms/internal/httpx"
	"lms/internal/notification"
	"lms/internal/request"
	"lms/internal/stats"
	"lms/internal/user"
)

// Handlers groups the feature handlers mounted under /api/v1.
type Handlers struct {
	Auth         *auth.HTTPHandler
	User         *user.HTTPHandler
	Book         *book.HTTPHandler
	Borrow       *borrow.HTTPHandler
	Fine         *fine.HTTPHandler
	Request      *request.HTTPHandler
	Notification *notification.HTTPHandler
	Stats        *stats.HTTPHandler
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Log            *slog.Logger
	JWTSecret      string
	Revocations    httpx.Revocations
	DB             Pinger
	AuthLimiter    *httpx.RateLimitMiddleware
	AllowedOrigins []string
	EnableHSTS     bool
	MaxBodyBytes   int64
}

func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLogMiddleware(opts.Log))
	r.Use(httpx.RecoveryMiddleware(opts.Log))
	r.Use(httpx.SecurityHeadersMiddleware(opts.EnableHSTS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.MaxBodyBytes > 0 {
		r.Use(httpx.RequestSizeLimitMiddleware(opts.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := opts.DB.Ping(ctx); err != nil {
				httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Database not ready", nil)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	requireAuth := httpx.AuthMiddleware(opts.JWTSecret, opts.Revocations)
	librarianOnly := httpx.RequireRole(user.RoleLibrarian)
	studentOnly := httpx.RequireRole(user.RoleStudent)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.AuthLimiter != nil {
				r.Use(opts.AuthLimiter.Middleware)
			}
			r.Post("/auth/login", h.Auth.Login)
			r.With(httpx.OptionalAuthMiddleware(opts.JWTSecret, opts.Revocations)).Post("/auth/register", h.User.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/users/me", h.User.GetCurrentUser)

			r.Route("/students", func(r chi.Router) {
				r.With(librarianOnly).Get("/", h.Stats.Students)
				r.With(librarianOnly).Post("/", h.User.CreateStudent)
				r.Get("/{id}/borrows", h.Borrow.ListForStudent)
			})

			r.Route("/books", func(r chi.Router) {
				r.Get("/", h.Book.List)
				r.Get("/{id}", h.Book.Get)
				r.Group(func(r chi.Router) {
					r.Use(librarianOnly)
					r.Post("/", h.Book.Create)
					r.Put("/{id}", h.Book.Update)
					r.Delete("/{id}", h.Book.Delete)
				})
			})

			borrows := func(r chi.Router) {
				r.Get("/", h.Borrow.List)
				r.Post("/", h.Borrow.Issue)
				r.Get("/{id}", h.Borrow.Get)
				r.Put("/{id}", h.Borrow.Transition)
			}
			r.Route("/borrows", borrows)
			r.Route("/borrowed-books", borrows)

			r.Route("/fines", func(r chi.Router) {
				r.Get("/", h.Fine.List)
				r.With(librarianOnly).Post("/", h.Fine.Create)
				r.Put("/{id}", h.Fine.Update)
			})

			r.Route("/book-requests", func(r chi.Router) {
				r.Get("/", h.Request.List)
				r.With(studentOnly).Post("/", h.Request.Create)
				r.With(librarianOnly).Put("/{id}", h.Request.Decide)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.With(librarianOnly).Post("/", h.Notification.Create)
				r.Put("/read-all", h.Notification.MarkAllRead)
				r.Put("/{id}/read", h.Notification.MarkRead)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Use(librarianOnly)
				r.Get("/stats", h.Stats.Library)
				r.Get("/program-stats", h.Stats.Programs)
				r.Get("/borrowing-trends", h.Stats.Trends)
				r.Get("/borrow-stats", h.Stats.Borrows)
			})
		})
	})

	return r
}
