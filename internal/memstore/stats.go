package memstore

import (
	"context"
	"sort"
	"time"

	"lms/internal/borrow"
	"lms/internal/fine"
	"lms/internal/request"
	"lms/internal/stats"
	"lms/internal/user"
)

// Stats implements stats.Repository by scanning the maps.
type Stats struct{ s *Store }

func (r *Stats) LibraryStats(_ context.Context, now time.Time) (stats.LibraryStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out stats.LibraryStats
	out.TotalBooks = len(r.s.books)
	for _, b := range r.s.books {
		out.AvailableBooks += b.AvailableCopies
	}

	active := map[string]bool{}
	for _, rec := range r.s.borrows {
		if rec.Status != borrow.StatusBorrowed {
			continue
		}
		out.BorrowedBooks++
		if rec.IsOverdue(now) {
			out.OverdueBooks++
		}
		active[rec.UserID] = true
	}
	out.ActiveStudents = len(active)

	for _, u := range r.s.users {
		if u.Role == user.RoleStudent {
			out.TotalStudents++
		}
	}
	for _, req := range r.s.requests {
		if req.Status == request.StatusPending {
			out.PendingRequests++
		}
	}
	for _, f := range r.s.fines {
		if f.Status == fine.StatusPending {
			out.TotalFines += f.Amount
		}
	}
	return out, nil
}

func (r *Stats) BooksPerProgram(_ context.Context) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := map[string]int{}
	for _, b := range r.s.books {
		out[b.Program]++
	}
	return out, nil
}

func (r *Stats) BorrowCounts(_ context.Context, now, dueSoonUntil time.Time) (stats.BorrowCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var c stats.BorrowCounts
	for _, rec := range r.s.borrows {
		switch rec.Status {
		case borrow.StatusPending:
			c.PendingBorrows++
		case borrow.StatusBorrowed:
			c.Borrowed++
			if rec.IsOverdue(now) {
				c.Overdue++
			} else if rec.DueDate != nil && !rec.DueDate.After(dueSoonUntil) {
				c.DueSoon++
			}
		}
	}
	for _, req := range r.s.requests {
		if req.Status == request.StatusPending {
			c.PendingRequests++
		}
	}
	return c, nil
}

func (r *Stats) IssuedPerMonth(_ context.Context, since time.Time) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := map[string]int{}
	for _, rec := range r.s.borrows {
		issued := rec.Status == borrow.StatusBorrowed || rec.Status == borrow.StatusReturned
		if !issued || rec.BorrowedDate.Before(since) {
			continue
		}
		out[rec.BorrowedDate.UTC().Format("2006-01")]++
	}
	return out, nil
}

func (r *Stats) Students(_ context.Context, q stats.StudentQuery, now time.Time) ([]stats.StudentSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byUser := map[string]*stats.StudentSummary{}
	var out []stats.StudentSummary
	for _, u := range r.s.users {
		if u.Role != user.RoleStudent {
			continue
		}
		if q.Program != "" && u.Program != q.Program {
			continue
		}
		if q.Search != "" && !contains(u.FullName, q.Search) && !contains(u.Username, q.Search) &&
			!contains(u.StudentID, q.Search) && !contains(u.Email, q.Search) {
			continue
		}
		out = append(out, stats.StudentSummary{
			ID: u.ID, Username: u.Username, FullName: u.FullName, Email: u.Email, Program: u.Program, StudentID: u.StudentID,
		})
	}
	for i := range out {
		byUser[out[i].ID] = &out[i]
	}

	for _, rec := range r.s.borrows {
		s, ok := byUser[rec.UserID]
		if !ok || rec.Status != borrow.StatusBorrowed {
			continue
		}
		s.BorrowedCount++
		if rec.IsOverdue(now) {
			s.OverdueCount++
		}
	}
	for _, f := range r.s.fines {
		if s, ok := byUser[f.UserID]; ok && f.Status == fine.StatusPending {
			s.Fines += f.Amount
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
