package memstore

import (
	"context"
	"sort"

	"lms/internal/book"
	"lms/internal/request"
)

// Requests implements request.Repository.
type Requests struct{ s *Store }

func (r *Requests) Create(_ context.Context, req *request.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[req.BookID]; !ok {
		return book.ErrNotFound
	}
	for _, existing := range r.s.requests {
		if existing.UserID == req.UserID && existing.BookID == req.BookID && existing.Status == request.StatusPending {
			return request.ErrDuplicate
		}
	}
	r.s.requests[req.ID] = *req
	return nil
}

func (r *Requests) Get(_ context.Context, id string) (request.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	return req, nil
}

func (r *Requests) List(_ context.Context, q request.Query) ([]request.Detail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []request.Detail
	for _, req := range r.s.requests {
		if q.UserID != "" && req.UserID != q.UserID {
			continue
		}
		if q.BookID != "" && req.BookID != q.BookID {
			continue
		}
		if q.Status != "" && req.Status != q.Status {
			continue
		}
		b := r.s.books[req.BookID]
		out = append(out, request.Detail{
			Request:     req,
			BookTitle:   b.Title,
			BookAuthor:  b.Author,
			StudentName: r.s.users[req.UserID].FullName,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestDate.Equal(out[j].RequestDate) {
			return out[i].RequestDate.After(out[j].RequestDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *Requests) Update(_ context.Context, id string, fn func(*request.Request) error) (request.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	if err := fn(&req); err != nil {
		return request.Request{}, err
	}
	r.s.requests[id] = req
	return req, nil
}
