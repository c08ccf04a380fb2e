// Package reminder notifies borrowers about books that are due soon or overdue.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lms/internal/borrow"
	"lms/internal/notification"
)

//go:generate mockgen -source=reminder.go -destination=mock_reminder_test.go -package=reminder

type OpenLoans interface {
	ListOpen(ctx context.Context) ([]borrow.Detail, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID string, kind notification.Type, title, description string) error
}

// Accrual reports the fine a loan has built up so far.
type Accrual interface {
	AccruedSoFar(rec borrow.Record, now time.Time) int64
}

// Result counts the notifications sent by one sweep.
type Result struct {
	DueSoon int `json:"due_soon"`
	Overdue int `json:"overdue"`
	Failed  int `json:"failed"`
}

type Sweeper struct {
	loans    OpenLoans
	notifier Notifier
	accrual  Accrual
	window   time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewSweeper(loans OpenLoans, notifier Notifier, accrual Accrual, window time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{
		loans:    loans,
		notifier: notifier,
		accrual:  accrual,
		window:   window,
		log:      log,
		now:      time.Now,
	}
}

func (s *Sweeper) SetClock(now func() time.Time) {
	s.now = now
}

// Sweep sends one notification per open loan that is due soon or overdue.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	loans, err := s.loans.ListOpen(ctx)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	var res Result
	for _, d := range loans {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var (
			kind        notification.Type
			title, desc string
		)
		switch {
		case d.Record.IsOverdue(now):
			days := d.DaysLate(now)
			kind, title = notification.TypeOverdue, "Book overdue"
			desc = fmt.Sprintf("%q is %d day(s) overdue.", d.BookTitle, days)
			if s.accrual != nil {
				if amount := s.accrual.AccruedSoFar(d.Record, now); amount > 0 {
					desc += fmt.Sprintf(" Fine accrued so far: %d.", amount)
				}
			}
		case d.IsDueSoon(now, s.window):
			kind, title = notification.TypeDueReminder, "Book due soon"
			desc = fmt.Sprintf("%q is due on %s.", d.BookTitle, d.DueDate.Format("2006-01-02"))
		default:
			continue
		}

		if err := s.notifier.Notify(ctx, d.UserID, kind, title, desc); err != nil {
			res.Failed++
			s.log.Warn("reminder failed", "borrow_id", d.ID, "user_id", d.UserID, "error", err)
			continue
		}
		if kind == notification.TypeOverdue {
			res.Overdue++
		} else {
			res.DueSoon++
		}
	}

	s.log.Info("reminder sweep finished", "due_soon", res.DueSoon, "overdue", res.Overdue, "failed", res.Failed)
	return res, nil
}
