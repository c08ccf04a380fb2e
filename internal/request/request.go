package request

import (
	"time"

	"lms/internal/apperr"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrNotFound  = apperr.NotFound("Book request not found")
	ErrDuplicate = apperr.AlreadyExists("You already have a pending request for this book")
)

// Request is a student's ask for a book, decided by a librarian. An
// approved request points at the borrow record it produced.
type Request struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	BookID       string     `json:"book_id"`
	Status       Status     `json:"status"`
	RequestDate  time.Time  `json:"request_date"`
	ApprovedDate *time.Time `json:"approved_date,omitempty"`
	ApprovedBy   string     `json:"approved_by,omitempty"`
	BorrowID     string     `json:"borrow_id,omitempty"`
}

func (r *Request) decide(to Status, librarianID string, now time.Time) error {
	if r.Status != StatusPending {
		return apperr.InvalidStatef("book request is already %s", r.Status)
	}
	r.Status = to
	r.ApprovedBy = librarianID
	r.ApprovedDate = &now
	return nil
}

func (r *Request) Approve(librarianID string, now time.Time) error {
	return r.decide(StatusApproved, librarianID, now)
}

func (r *Request) Reject(librarianID string, now time.Time) error {
	return r.decide(StatusRejected, librarianID, now)
}

// reopen undoes an approval whose issue failed.
func (r *Request) reopen() error {
	if r.Status != StatusApproved || r.BorrowID != "" {
		return apperr.InvalidStatef("book request is %s", r.Status)
	}
	r.Status = StatusPending
	r.ApprovedBy = ""
	r.ApprovedDate = nil
	return nil
}

type Detail struct {
	Request
	BookTitle   string `json:"book_title"`
	BookAuthor  string `json:"book_author"`
	StudentName string `json:"student_name"`
}

type Query struct {
	UserID string
	BookID string
	Status Status
}
