package memstore

import (
	"context"
	"sort"

	"lms/internal/book"
)

// Books implements book.Repository.
type Books struct{ s *Store }

func (r *Books) isbnTaken(isbn, exceptID string) bool {
	for _, b := range r.s.books {
		if b.ISBN == isbn && b.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *Books) Create(_ context.Context, b *book.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.isbnTaken(b.ISBN, "") {
		return book.ErrDuplicateISBN
	}
	b.CreatedAt = r.s.now()
	b.UpdatedAt = b.CreatedAt
	r.s.books[b.ID] = *b
	return nil
}

func (r *Books) Get(_ context.Context, id string) (book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (r *Books) Update(_ context.Context, id string, fn func(*book.Book) error) (book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	if err := fn(&b); err != nil {
		return book.Book{}, err
	}
	if r.isbnTaken(b.ISBN, id) {
		return book.Book{}, book.ErrDuplicateISBN
	}
	b.UpdatedAt = r.s.now()
	r.s.books[id] = b
	return b, nil
}

func (r *Books) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return book.ErrNotFound
	}
	for _, rec := range r.s.borrows {
		if rec.BookID == id {
			return book.ErrHasHistory
		}
	}
	// book_requests cascade in Postgres too.
	for reqID, req := range r.s.requests {
		if req.BookID == id {
			delete(r.s.requests, reqID)
		}
	}
	delete(r.s.books, id)
	return nil
}

func (r *Books) List(_ context.Context, q book.Query) ([]book.Book, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []book.Book{}
	for _, b := range r.s.books {
		if q.Program != "" && b.Program != q.Program {
			continue
		}
		if q.Category != "" && b.Category != q.Category {
			continue
		}
		if q.Title != "" && !contains(b.Title, q.Title) {
			continue
		}
		if q.Search != "" && !contains(b.Title, q.Search) && !contains(b.Author, q.Search) && !contains(b.ISBN, q.Search) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, q.Limit, q.Offset), len(out), nil
}

func (r *Books) AdjustAvailability(_ context.Context, id string, delta int) (book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.adjustLocked(id, delta)
}

func (s *Store) adjustLocked(id string, delta int) (book.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	if err := b.Adjust(delta); err != nil {
		return book.Book{}, err
	}
	b.UpdatedAt = s.now()
	s.books[id] = b
	return b, nil
}
