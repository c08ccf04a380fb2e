package request

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lms/internal/apperr"
	"lms/internal/borrow"
	"lms/internal/id"
	"lms/internal/notification"
	"lms/internal/user"
)

type Service struct {
	repo     Repository
	books    BookLookup
	issuer   Issuer
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, books BookLookup, issuer Issuer, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		books:    books,
		issuer:   issuer,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create files a pending request by userID for bookID.
func (s *Service) Create(ctx context.Context, userID, bookID string) (Request, error) {
	if bookID == "" {
		return Request{}, apperr.Validation("book_id is required")
	}
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return Request{}, err
	}
	pending, err := s.repo.List(ctx, Query{UserID: userID, BookID: bookID, Status: StatusPending})
	if err != nil {
		return Request{}, err
	}
	if len(pending) > 0 {
		return Request{}, ErrDuplicate
	}

	req := Request{
		UserID:      userID,
		BookID:      bookID,
		Status:      StatusPending,
		RequestDate: s.now(),
	}
	if req.ID, err = id.Generate(id.Request); err != nil {
		return Request{}, err
	}
	if err := s.repo.Create(ctx, &req); err != nil {
		return Request{}, err
	}
	s.log.Info("book requested", "request_id", req.ID, "user_id", userID, "book_id", bookID)
	return req, nil
}

// Approve accepts a pending request and issues the book. If the issue
// fails the request goes back to pending and the issue error is returned.
func (s *Service) Approve(ctx context.Context, id, librarianID string, dueDate *time.Time) (Request, error) {
	now := s.now()
	req, err := s.repo.Update(ctx, id, func(r *Request) error {
		return r.Approve(librarianID, now)
	})
	if err != nil {
		return Request{}, err
	}

	rec, err := s.issuer.Issue(ctx, borrow.IssueInput{
		UserID:      req.UserID,
		BookID:      req.BookID,
		LibrarianID: librarianID,
		DueDate:     dueDate,
		Remarks:     "Issued from book request " + req.ID,
	})
	if err != nil {
		if _, rerr := s.repo.Update(ctx, id, func(r *Request) error { return r.reopen() }); rerr != nil {
			s.log.Error("reopen book request", "request_id", id, "error", rerr)
		}
		return Request{}, err
	}

	req, err = s.repo.Update(ctx, id, func(r *Request) error {
		r.BorrowID = rec.ID
		return nil
	})
	if err != nil {
		return Request{}, err
	}

	s.log.Info("book request approved", "request_id", req.ID, "borrow_id", rec.ID)
	s.notify(ctx, req.UserID, notification.TypeRequestApproved, "Book request approved",
		fmt.Sprintf("Your request was approved. The book is due on %s.", rec.DueDate.Format("2006-01-02")))
	return req, nil
}

// Reject declines a pending request.
func (s *Service) Reject(ctx context.Context, id, librarianID string) (Request, error) {
	now := s.now()
	req, err := s.repo.Update(ctx, id, func(r *Request) error {
		return r.Reject(librarianID, now)
	})
	if err != nil {
		return Request{}, err
	}

	s.log.Info("book request rejected", "request_id", req.ID)
	s.notify(ctx, req.UserID, notification.TypeRequestRejected, "Book request rejected",
		"Your book request was rejected.")
	return req, nil
}

// List returns requests. Students see only their own.
func (s *Service) List(ctx context.Context, q Query, actor user.Actor) ([]Detail, error) {
	if !actor.IsLibrarian() {
		q.UserID = actor.ID
	}
	switch q.Status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		return nil, apperr.Validationf("unknown status %q", q.Status)
	}
	items, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Detail{}
	}
	return items, nil
}

func (s *Service) notify(ctx context.Context, userID string, kind notification.Type, title, description string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, title, description); err != nil {
		s.log.Warn("notification failed", "user_id", userID, "type", kind, "error", err)
	}
}
