package borrow

import (
	"math"
	"time"

	"lms/internal/apperr"
)

// Status is the stored lifecycle state of a borrow record. StatusOverdue is
// never stored; it is derived from a borrowed record whose due date passed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusBorrowed  Status = "borrowed"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
	StatusOverdue   Status = "overdue"
)

var (
	ErrNotFound             = apperr.NotFound("Borrow record not found")
	ErrDuplicateReservation = apperr.AlreadyExists("You already have a pending reservation for this book")
)

// HoldsCopy reports whether a record in this state keeps a copy out of the
// available pool. Leaving such a state puts the copy back.
func (s Status) HoldsCopy() bool {
	return s == StatusPending || s == StatusBorrowed
}

// Record is one loan of one copy of a book.
type Record struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	BookID       string     `json:"book_id"`
	LibrarianID  string     `json:"librarian_id,omitempty"`
	BorrowedDate time.Time  `json:"borrowed_date"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
	RenewalCount int        `json:"renewal_count"`
	Status       Status     `json:"status"`
	Remarks      string     `json:"remarks,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsOverdue reports whether a borrowed record is past its due date at now.
func (r Record) IsOverdue(now time.Time) bool {
	return r.Status == StatusBorrowed && r.DueDate != nil && now.After(*r.DueDate)
}

// EffectiveStatus is the status shown to clients.
func (r Record) EffectiveStatus(now time.Time) Status {
	if r.IsOverdue(now) {
		return StatusOverdue
	}
	return r.Status
}

// IsDueSoon reports a borrowed record due within window of now and not yet overdue.
func (r Record) IsDueSoon(now time.Time, window time.Duration) bool {
	if r.Status != StatusBorrowed || r.DueDate == nil || r.IsOverdue(now) {
		return false
	}
	return r.DueDate.Sub(now) <= window
}

// DaysLate counts started days between the due date and at. Zero when not late.
func (r Record) DaysLate(at time.Time) int {
	if r.DueDate == nil || !at.After(*r.DueDate) {
		return 0
	}
	return int(math.Ceil(at.Sub(*r.DueDate).Hours() / 24))
}

// ReturnedLate reports a returned record brought back after its due date.
func (r Record) ReturnedLate() bool {
	return r.Status == StatusReturned && r.ReturnedDate != nil && r.DaysLate(*r.ReturnedDate) > 0
}

// Approve moves a pending reservation to borrowed.
func (r *Record) Approve(librarianID string, now time.Time, loanPeriod time.Duration) error {
	if r.Status != StatusPending {
		return apperr.InvalidStatef("cannot approve a %s borrow record", r.Status)
	}
	r.Status = StatusBorrowed
	r.LibrarianID = librarianID
	r.BorrowedDate = now
	if r.DueDate == nil {
		due := now.Add(loanPeriod)
		r.DueDate = &due
	}
	return nil
}

// Renew extends the due date of a borrowed record.
func (r *Record) Renew(extension time.Duration, maxRenewals int) error {
	if r.Status != StatusBorrowed {
		return apperr.InvalidStatef("cannot renew a %s borrow record", r.Status)
	}
	if r.RenewalCount >= maxRenewals {
		return apperr.RenewalLimitf("renewal limit of %d reached", maxRenewals)
	}
	r.RenewalCount++
	due := r.BorrowedDate
	if r.DueDate != nil {
		due = *r.DueDate
	}
	due = due.Add(extension)
	r.DueDate = &due
	return nil
}

// MarkReturned closes a borrowed record.
func (r *Record) MarkReturned(now time.Time) error {
	if r.Status != StatusBorrowed {
		return apperr.InvalidStatef("cannot return a %s borrow record", r.Status)
	}
	r.Status = StatusReturned
	r.ReturnedDate = &now
	return nil
}

// Cancel withdraws a pending reservation before it is approved.
func (r *Record) Cancel(now time.Time, remarks string) error {
	if r.Status != StatusPending {
		return apperr.InvalidStatef("cannot cancel a %s borrow record", r.Status)
	}
	r.Status = StatusCancelled
	r.ReturnedDate = &now
	if remarks != "" {
		r.Remarks = remarks
	}
	return nil
}

// Detail is a record joined with its book and student.
type Detail struct {
	Record
	BookTitle      string `json:"book_title"`
	BookAuthor     string `json:"book_author"`
	BookISBN       string `json:"book_isbn"`
	BookCoverImage string `json:"book_cover_image,omitempty"`
	StudentName    string `json:"student_name"`
	StudentProgram string `json:"student_program,omitempty"`
	StudentID      string `json:"student_id,omitempty"`
	IsOverdue      bool   `json:"is_overdue"`
	DaysOverdue    int    `json:"days_overdue,omitempty"`
}

// Decorate fills the derived fields and replaces Status with the effective one.
func (d *Detail) Decorate(now time.Time) {
	d.IsOverdue = d.Record.IsOverdue(now)
	if d.IsOverdue {
		d.DaysOverdue = d.DaysLate(now)
	}
	d.Status = d.EffectiveStatus(now)
}

// Query filters borrow listings. Status may be any stored status or
// StatusOverdue; StatusBorrowed then excludes overdue records.
type Query struct {
	UserID  string
	BookID  string
	Search  string
	Status  Status
	Program string
	Now     time.Time
	Limit   int
	Offset  int
}

// IssueInput describes a new loan. A LibrarianID makes it a direct issue.
type IssueInput struct {
	UserID      string
	BookID      string
	LibrarianID string
	DueDate     *time.Time
	Remarks     string
}

// Policy holds the loan terms.
type Policy struct {
	LoanPeriod    time.Duration
	RenewalPeriod time.Duration
	MaxRenewals   int
}

func DefaultPolicy() Policy {
	return Policy{
		LoanPeriod:    14 * 24 * time.Hour,
		RenewalPeriod: 14 * 24 * time.Hour,
		MaxRenewals:   3,
	}
}
