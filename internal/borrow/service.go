package borrow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lms/internal/apperr"
	"lms/internal/id"
	"lms/internal/notification"
	"lms/internal/user"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo     Repository
	users    UserLookup
	policy   Policy
	log      *slog.Logger
	hook     ReturnHook
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, users UserLookup, policy Policy, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// SetReturnHook registers the callback run after each return.
func (s *Service) SetReturnHook(h ReturnHook) {
	s.hook = h
}

// SetNotifier registers where borrow notifications are sent.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Policy returns the loan terms the service was built with.
func (s *Service) Policy() Policy {
	return s.policy
}

// Issue creates a borrow record and takes one copy of the book. With a
// librarian id the record starts borrowed; without one it is a pending
// reservation awaiting approval.
func (s *Service) Issue(ctx context.Context, in IssueInput) (Record, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.BookID = strings.TrimSpace(in.BookID)
	if in.UserID == "" || in.BookID == "" {
		return Record{}, apperr.Validation("user_id and book_id are required")
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return Record{}, err
	}

	now := s.now()
	rec := Record{
		UserID:       in.UserID,
		BookID:       in.BookID,
		BorrowedDate: now,
		Status:       StatusPending,
		Remarks:      strings.TrimSpace(in.Remarks),
	}
	if in.LibrarianID != "" {
		due := now.Add(s.policy.LoanPeriod)
		if in.DueDate != nil {
			if !in.DueDate.After(now) {
				return Record{}, apperr.ValidationFields("Invalid due date", []apperr.FieldError{
					{Field: "due_date", Message: "must be in the future"},
				})
			}
			due = *in.DueDate
		}
		rec.Status = StatusBorrowed
		rec.LibrarianID = in.LibrarianID
		rec.DueDate = &due
	}

	var err error
	if rec.ID, err = id.Generate(id.Borrow); err != nil {
		return Record{}, err
	}
	if err := s.repo.Create(ctx, &rec); err != nil {
		return Record{}, err
	}

	s.log.Info("borrow issued", "borrow_id", rec.ID, "user_id", rec.UserID, "book_id", rec.BookID, "status", rec.Status)
	if rec.Status == StatusBorrowed {
		s.notify(ctx, rec.UserID, notification.TypeBorrow, "Book issued",
			fmt.Sprintf("Your book is due on %s.", rec.DueDate.Format(dateLayout)))
	}
	return rec, nil
}

// Approve turns a pending reservation into a loan.
func (s *Service) Approve(ctx context.Context, id, librarianID string) (Record, error) {
	now := s.now()
	rec, err := s.repo.Update(ctx, id, func(r *Record) error {
		return r.Approve(librarianID, now, s.policy.LoanPeriod)
	})
	if err != nil {
		return Record{}, err
	}

	s.log.Info("borrow approved", "borrow_id", rec.ID, "librarian_id", librarianID)
	s.notify(ctx, rec.UserID, notification.TypeBorrow, "Borrow approved",
		fmt.Sprintf("Your borrow was approved. Due on %s.", rec.DueDate.Format(dateLayout)))
	return rec, nil
}

// Cancel releases a pending reservation and its copy. Students may cancel
// their own; a librarian cancelling someone else's reservation rejects it and
// the student is told.
func (s *Service) Cancel(ctx context.Context, id string, actor user.Actor, remarks string) (Record, error) {
	now := s.now()
	rec, err := s.repo.Update(ctx, id, func(r *Record) error {
		if !actor.CanAccess(r.UserID) {
			return apperr.Forbidden("You can only cancel your own reservations")
		}
		return r.Cancel(now, strings.TrimSpace(remarks))
	})
	if err != nil {
		return Record{}, err
	}

	s.log.Info("borrow cancelled", "borrow_id", rec.ID, "by", actor.ID)
	if actor.ID != rec.UserID {
		s.notify(ctx, rec.UserID, notification.TypeBorrow, "Reservation rejected",
			"Your reservation was rejected by the library.")
	}
	return rec, nil
}

// Renew extends a loan. Students may renew only their own records. A
// non-positive extension uses the policy's renewal period.
func (s *Service) Renew(ctx context.Context, id string, actor user.Actor, extension time.Duration) (Record, error) {
	if extension <= 0 {
		extension = s.policy.RenewalPeriod
	}
	rec, err := s.repo.Update(ctx, id, func(r *Record) error {
		if !actor.CanAccess(r.UserID) {
			return apperr.Forbidden("You can only renew your own books")
		}
		return r.Renew(extension, s.policy.MaxRenewals)
	})
	if err != nil {
		return Record{}, err
	}

	s.log.Info("borrow renewed", "borrow_id", rec.ID, "renewal_count", rec.RenewalCount)
	return rec, nil
}

// Return closes a loan, puts the copy back and runs the return hook.
func (s *Service) Return(ctx context.Context, id string) (Record, error) {
	now := s.now()
	rec, err := s.repo.Update(ctx, id, func(r *Record) error {
		return r.MarkReturned(now)
	})
	if err != nil {
		return Record{}, err
	}

	s.log.Info("borrow returned", "borrow_id", rec.ID, "days_late", rec.DaysLate(now))
	if s.hook != nil {
		if err := s.hook.OnReturned(ctx, rec); err != nil {
			s.log.Error("return hook failed", "borrow_id", rec.ID, "error", err)
		}
	}
	return rec, nil
}

// Get returns a record with its book and student. Students see only their own.
func (s *Service) Get(ctx context.Context, id string, actor user.Actor) (Detail, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if !actor.CanAccess(d.UserID) {
		return Detail{}, apperr.Forbidden("You can only view your own borrow records")
	}
	d.Decorate(s.now())
	return d, nil
}

// GetRecord returns the stored record without joins or derived status.
func (s *Service) GetRecord(ctx context.Context, id string) (Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns matching records. Students are restricted to their own.
func (s *Service) List(ctx context.Context, q Query, actor user.Actor) ([]Detail, int, error) {
	if !actor.IsLibrarian() {
		q.UserID = actor.ID
	}
	switch q.Status {
	case "", StatusPending, StatusBorrowed, StatusReturned, StatusCancelled, StatusOverdue:
	default:
		return nil, 0, apperr.Validationf("unknown status %q", q.Status)
	}
	q.Now = s.now()

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].Decorate(q.Now)
	}
	return items, total, nil
}

// ListOpen returns every borrowed record, overdue or not.
func (s *Service) ListOpen(ctx context.Context) ([]Detail, error) {
	return s.repo.ListOpen(ctx)
}

func (s *Service) notify(ctx context.Context, userID string, kind notification.Type, title, description string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, title, description); err != nil {
		s.log.Warn("notification failed", "user_id", userID, "type", kind, "error", err)
	}
}
