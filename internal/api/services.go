package api

import (
	"log/slog"
	"time"

	"lms/internal/auth"
	"lms/internal/book"
	"lms/internal/borrow"
	"lms/internal/fine"
	"lms/internal/notification"
	"lms/internal/reminder"
	"lms/internal/request"
	"lms/internal/session"
	"lms/internal/stats"
	"lms/internal/user"
)

// Repositories is the storage the services are built on. Postgres in
// production, memstore in tests.
type Repositories struct {
	Users         user.Repository
	Revocations   session.RevocationRepository
	Books         book.Repository
	Borrows       borrow.Repository
	Fines         fine.Repository
	Requests      request.Repository
	Notifications notification.Repository
	Stats         stats.Repository
}

type Settings struct {
	JWTSecret     string
	TokenTTL      time.Duration
	Loan          borrow.Policy
	Fine          fine.Policy
	DueSoonWindow time.Duration
	// Metadata is optional. When set, new books get a blank description or
	// cover filled by ISBN.
	Metadata book.MetadataSource
	Log      *slog.Logger
}

type Services struct {
	Users         *user.Service
	Sessions      *session.Service
	Auth          *auth.Service
	Books         *book.Service
	Borrows       *borrow.Service
	Fines         *fine.Service
	Requests      *request.Service
	Notifications *notification.Service
	Stats         *stats.Service
	Reminder      *reminder.Sweeper
}

// NewServices builds the service graph and connects the borrow lifecycle to
// fines and notifications.
func NewServices(repos Repositories, s Settings) *Services {
	out := &Services{
		Users:         user.NewService(repos.Users),
		Sessions:      session.NewService(repos.Revocations),
		Books:         book.NewService(repos.Books),
		Notifications: notification.NewService(repos.Notifications),
		Stats:         stats.NewService(repos.Stats, s.DueSoonWindow),
	}
	if s.Metadata != nil {
		out.Books.WithMetadata(s.Metadata, s.Log.With("component", "book"))
	}
	out.Auth = auth.NewService(s.JWTSecret, s.TokenTTL, out.Users, out.Sessions)

	out.Borrows = borrow.NewService(repos.Borrows, out.Users, s.Loan, s.Log.With("component", "borrow"))
	out.Borrows.SetNotifier(out.Notifications)

	out.Fines = fine.NewService(repos.Fines, out.Borrows, s.Fine, out.Notifications, s.Log.With("component", "fine"))
	out.Borrows.SetReturnHook(out.Fines)

	out.Requests = request.NewService(repos.Requests, out.Books, out.Borrows, out.Notifications, s.Log.With("component", "request"))
	out.Reminder = reminder.NewSweeper(out.Borrows, out.Notifications, out.Fines, s.DueSoonWindow, s.Log.With("component", "reminder"))
	return out
}

// SetClock replaces the time source of every time-dependent service.
func (s *Services) SetClock(now func() time.Time) {
	s.Borrows.SetClock(now)
	s.Fines.SetClock(now)
	s.Requests.SetClock(now)
	s.Stats.SetClock(now)
	s.Reminder.SetClock(now)
}

func (s *Services) Handlers() Handlers {
	return Handlers{
		Auth:         auth.NewHTTPHandler(s.Auth),
		User:         user.NewHTTPHandler(s.Users),
		Book:         book.NewHTTPHandler(s.Books),
		Borrow:       borrow.NewHTTPHandler(s.Borrows),
		Fine:         fine.NewHTTPHandler(s.Fines),
		Request:      request.NewHTTPHandler(s.Requests),
		Notification: notification.NewHTTPHandler(s.Notifications),
		Stats:        stats.NewHTTPHandler(s.Stats),
	}
}
