package stats

// KnownPrograms always appear in program stats, even with no books.
var KnownPrograms = []string{"MBA", "MBAIT", "MBAFC", "MBA GLM"}

type LibraryStats struct {
	TotalBooks      int   `json:"total_books"`
	AvailableBooks  int   `json:"available_books"`
	BorrowedBooks   int   `json:"borrowed_books"`
	OverdueBooks    int   `json:"overdue_books"`
	TotalStudents   int   `json:"total_students"`
	ActiveStudents  int   `json:"active_students"`
	PendingRequests int   `json:"pending_requests"`
	TotalFines      int64 `json:"total_fines"`
}

type ProgramCount struct {
	Program string `json:"program"`
	Count   int    `json:"count"`
}

// BorrowCounts is the raw input of BorrowedBookStats.
type BorrowCounts struct {
	Borrowed        int
	Overdue         int
	DueSoon         int
	PendingBorrows  int
	PendingRequests int
}

type BorrowedBookStats struct {
	TotalBorrowedBooks int `json:"total_borrowed_books"`
	TotalOverdueBooks  int `json:"total_overdue_books"`
	PendingRequests    int `json:"pending_requests"`
	DueSoon            int `json:"due_soon"`
}

type MonthCount struct {
	Month string `json:"month"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type StudentStatus string

const (
	StudentOverdue  StudentStatus = "overdue"
	StudentActive   StudentStatus = "active"
	StudentInactive StudentStatus = "inactive"
)

// StudentSummary is a student with their borrowing activity.
type StudentSummary struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	FullName      string        `json:"full_name"`
	Email         string        `json:"email"`
	Program       string        `json:"program,omitempty"`
	StudentID     string        `json:"student_id,omitempty"`
	BorrowedCount int           `json:"borrowed_count"`
	OverdueCount  int           `json:"overdue_count"`
	Fines         int64         `json:"fines"`
	Status        StudentStatus `json:"status"`
}

type StudentQuery struct {
	Search  string
	Program string
}
