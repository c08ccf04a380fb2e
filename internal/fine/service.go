package fine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lms/internal/apperr"
	"lms/internal/borrow"
	"lms/internal/id"
	"lms/internal/notification"
	"lms/internal/user"
)

type Service struct {
	repo     Repository
	records  Records
	policy   Policy
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, records Records, policy Policy, notifier Notifier, log *slog.Logger) *Service {
	if policy.Mode == "" {
		policy.Mode = ModeManual
	}
	return &Service{
		repo:     repo,
		records:  records,
		policy:   policy,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for overdue checks and payment dates.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Policy returns the fine mode and rate the service charges with.
func (s *Service) Policy() Policy {
	return s.policy
}

// AccruedSoFar is what a still-borrowed record would be charged if returned at now.
func (s *Service) AccruedSoFar(rec borrow.Record, now time.Time) int64 {
	if s.policy.Mode != ModePerDiem {
		return 0
	}
	return s.policy.Amount(rec.DaysLate(now))
}

// Create records a fine against an overdue or late-returned borrow record.
func (s *Service) Create(ctx context.Context, in CreateInput) (Fine, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	var fields []apperr.FieldError
	if in.Amount <= 0 {
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if in.Reason == "" {
		fields = append(fields, apperr.FieldError{Field: "reason", Message: "This field is required"})
	}
	if len(fields) > 0 {
		return Fine{}, apperr.ValidationFields("Invalid fine", fields)
	}

	rec, err := s.records.GetRecord(ctx, in.BorrowedBookID)
	if err != nil {
		return Fine{}, err
	}
	if rec.UserID != in.UserID {
		return Fine{}, apperr.Validation("Borrow record does not belong to this user")
	}
	if !rec.IsOverdue(s.now()) && !rec.ReturnedLate() {
		return Fine{}, apperr.InvalidStatef("borrow record %s is neither overdue nor returned late", rec.ID)
	}

	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in CreateInput) (Fine, error) {
	f := Fine{
		UserID:         in.UserID,
		BorrowedBookID: in.BorrowedBookID,
		Amount:         in.Amount,
		Reason:         in.Reason,
		Status:         StatusPending,
	}
	var err error
	if f.ID, err = id.Generate(id.Fine); err != nil {
		return Fine{}, err
	}
	if err := s.repo.Create(ctx, &f); err != nil {
		return Fine{}, err
	}

	s.log.Info("fine accrued", "fine_id", f.ID, "user_id", f.UserID, "borrow_id", f.BorrowedBookID, "amount", f.Amount)
	if s.notifier != nil {
		err := s.notifier.Notify(ctx, f.UserID, notification.TypeFine, "Fine issued",
			fmt.Sprintf("A fine of %d has been added: %s", f.Amount, f.Reason))
		if err != nil {
			s.log.Warn("notification failed", "user_id", f.UserID, "error", err)
		}
	}
	return f, nil
}

// OnReturned charges a per-diem fine for a late return. It does nothing
// under the manual policy.
func (s *Service) OnReturned(ctx context.Context, rec borrow.Record) error {
	if s.policy.Mode != ModePerDiem || !rec.ReturnedLate() {
		return nil
	}
	days := rec.DaysLate(*rec.ReturnedDate)
	amount := s.policy.Amount(days)
	if amount <= 0 {
		return nil
	}
	_, err := s.create(ctx, CreateInput{
		UserID:         rec.UserID,
		BorrowedBookID: rec.ID,
		Amount:         amount,
		Reason:         fmt.Sprintf("Late return: %d day(s)", days),
	})
	return err
}

// Pay settles a fine. Students may pay only their own.
func (s *Service) Pay(ctx context.Context, id string, actor user.Actor) (Fine, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return Fine{}, err
	}
	if !actor.CanAccess(f.UserID) {
		return Fine{}, apperr.Forbidden("You can only pay your own fines")
	}

	paid, err := s.repo.Pay(ctx, id, s.now())
	if err != nil {
		return Fine{}, err
	}
	s.log.Info("fine paid", "fine_id", paid.ID, "user_id", paid.UserID)
	return paid, nil
}

// List returns fines and the unpaid total. Students see only their own.
func (s *Service) List(ctx context.Context, userID string, actor user.Actor) (Listing, error) {
	if !actor.IsLibrarian() {
		userID = actor.ID
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return Listing{}, err
	}

	out := Listing{Fines: items}
	if out.Fines == nil {
		out.Fines = []Detail{}
	}
	for _, f := range items {
		if f.Status == StatusPending {
			out.UnpaidTotal += f.Amount
		}
	}
	return out, nil
}
