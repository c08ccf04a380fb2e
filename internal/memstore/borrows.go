package memstore

import (
	"context"
	"sort"

	"lms/internal/apperr"
	"lms/internal/book"
	"lms/internal/borrow"
	"lms/internal/user"
)

// Borrows implements borrow.Repository.
type Borrows struct{ s *Store }

func (r *Borrows) Create(_ context.Context, rec *borrow.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[rec.UserID]; !ok {
		return user.ErrNotFound
	}
	b, ok := r.s.books[rec.BookID]
	if !ok {
		return book.ErrNotFound
	}
	if rec.Status == borrow.StatusPending {
		for _, other := range r.s.borrows {
			if other.Status == borrow.StatusPending && other.UserID == rec.UserID && other.BookID == rec.BookID {
				return borrow.ErrDuplicateReservation
			}
		}
	}
	if b.AvailableCopies == 0 {
		return apperr.OutOfStockf("no copies of %q are available", b.Title)
	}
	if _, err := r.s.adjustLocked(rec.BookID, -1); err != nil {
		return err
	}
	rec.CreatedAt = r.s.now()
	r.s.borrows[rec.ID] = *rec
	return nil
}

func (r *Borrows) Get(_ context.Context, id string) (borrow.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.borrows[id]
	if !ok {
		return borrow.Record{}, borrow.ErrNotFound
	}
	return rec, nil
}

func (s *Store) borrowDetailLocked(rec borrow.Record) borrow.Detail {
	d := borrow.Detail{Record: rec}
	if b, ok := s.books[rec.BookID]; ok {
		d.BookTitle, d.BookAuthor, d.BookISBN, d.BookCoverImage = b.Title, b.Author, b.ISBN, b.CoverImage
	}
	if u, ok := s.users[rec.UserID]; ok {
		d.StudentName, d.StudentProgram, d.StudentID = u.FullName, u.Program, u.StudentID
	}
	return d
}

func (r *Borrows) GetDetail(_ context.Context, id string) (borrow.Detail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.borrows[id]
	if !ok {
		return borrow.Detail{}, borrow.ErrNotFound
	}
	return r.s.borrowDetailLocked(rec), nil
}

func matchesStatus(rec borrow.Record, q borrow.Query) bool {
	switch q.Status {
	case "":
		return true
	case borrow.StatusOverdue:
		return rec.IsOverdue(q.Now)
	case borrow.StatusBorrowed:
		return rec.Status == borrow.StatusBorrowed && !rec.IsOverdue(q.Now)
	default:
		return rec.Status == q.Status
	}
}

func (r *Borrows) List(_ context.Context, q borrow.Query) ([]borrow.Detail, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []borrow.Detail{}
	for _, rec := range r.s.borrows {
		if q.UserID != "" && rec.UserID != q.UserID {
			continue
		}
		if q.BookID != "" && rec.BookID != q.BookID {
			continue
		}
		if !matchesStatus(rec, q) {
			continue
		}
		d := r.s.borrowDetailLocked(rec)
		if q.Program != "" && d.StudentProgram != q.Program {
			continue
		}
		if q.Search != "" && !contains(d.BookTitle, q.Search) && !contains(d.StudentName, q.Search) && !contains(d.StudentID, q.Search) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BorrowedDate.Equal(out[j].BorrowedDate) {
			return out[i].BorrowedDate.After(out[j].BorrowedDate)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, q.Limit, q.Offset), len(out), nil
}

func (r *Borrows) ListOpen(_ context.Context) ([]borrow.Detail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []borrow.Detail{}
	for _, rec := range r.s.borrows {
		if rec.Status == borrow.StatusBorrowed {
			out = append(out, r.s.borrowDetailLocked(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate == nil || out[j].DueDate == nil {
			return out[j].DueDate == nil && out[i].DueDate != nil
		}
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out, nil
}

func (r *Borrows) Update(_ context.Context, id string, fn func(*borrow.Record) error) (borrow.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.borrows[id]
	if !ok {
		return borrow.Record{}, borrow.ErrNotFound
	}
	before := rec.Status
	if err := fn(&rec); err != nil {
		return borrow.Record{}, err
	}
	if before.HoldsCopy() && !rec.Status.HoldsCopy() {
		if _, err := r.s.adjustLocked(rec.BookID, 1); err != nil {
			return borrow.Record{}, err
		}
	}
	r.s.borrows[id] = rec
	return rec, nil
}
