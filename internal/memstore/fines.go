package memstore

import (
	"context"
	"sort"
	"time"

	"lms/internal/apperr"
	"lms/internal/borrow"
	"lms/internal/fine"
)

// Fines implements fine.Repository.
type Fines struct{ s *Store }

func (r *Fines) Create(_ context.Context, f *fine.Fine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.borrows[f.BorrowedBookID]; !ok {
		return borrow.ErrNotFound
	}
	f.CreatedAt = r.s.now()
	r.s.fines[f.ID] = *f
	return nil
}

func (r *Fines) Get(_ context.Context, id string) (fine.Fine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.fines[id]
	if !ok {
		return fine.Fine{}, fine.ErrNotFound
	}
	return f, nil
}

func (r *Fines) Pay(_ context.Context, id string, paidAt time.Time) (fine.Fine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.fines[id]
	if !ok {
		return fine.Fine{}, fine.ErrNotFound
	}
	if f.Status != fine.StatusPending {
		return fine.Fine{}, apperr.InvalidStatef("fine %s is already paid", id)
	}
	f.Status = fine.StatusPaid
	f.PaidAt = &paidAt
	r.s.fines[id] = f
	return f, nil
}

func (r *Fines) List(_ context.Context, userID string) ([]fine.Detail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []fine.Detail
	for _, f := range r.s.fines {
		if userID != "" && f.UserID != userID {
			continue
		}
		d := fine.Detail{Fine: f}
		if rec, ok := r.s.borrows[f.BorrowedBookID]; ok {
			d.DueDate, d.ReturnedDate = rec.DueDate, rec.ReturnedDate
			d.BookTitle = r.s.books[rec.BookID].Title
		}
		d.StudentName = r.s.users[f.UserID].FullName
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
