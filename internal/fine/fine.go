package fine

import (
	"time"

	"lms/internal/apperr"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

var ErrNotFound = apperr.NotFound("Fine not found")

// Fine is a charge against a student for one borrow record. Amount is in
// the smallest currency unit and never changes after creation.
type Fine struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	BorrowedBookID string     `json:"borrowed_book_id"`
	Amount         int64      `json:"amount"`
	Reason         string     `json:"reason"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

// Detail is a fine joined with its borrow record, book and student.
type Detail struct {
	Fine
	BookTitle    string     `json:"book_title"`
	StudentName  string     `json:"student_name"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
}

// Listing is a list of fines with the sum still owed.
type Listing struct {
	Fines       []Detail `json:"fines"`
	UnpaidTotal int64    `json:"unpaid_total"`
}

type CreateInput struct {
	UserID         string
	BorrowedBookID string
	Amount         int64
	Reason         string
}

// Mode selects how late returns are charged.
type Mode string

const (
	// ModeManual leaves every fine to a librarian.
	ModeManual Mode = "manual"
	// ModePerDiem charges PerDiemRate per started day late on return.
	ModePerDiem Mode = "per_diem"
)

type Policy struct {
	Mode        Mode
	PerDiemRate int64
}

// Amount is the per-diem charge for daysLate started days.
func (p Policy) Amount(daysLate int) int64 {
	if daysLate <= 0 {
		return 0
	}
	return int64(daysLate) * p.PerDiemRate
}
