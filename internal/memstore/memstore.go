// Package memstore keeps every repository in process memory behind a single
// mutex. Each check-then-mutate sequence runs under that lock.
package memstore

import (
	"strings"
	"sync"
	"time"

	"lms/internal/book"
	"lms/internal/borrow"
	"lms/internal/fine"
	"lms/internal/notification"
	"lms/internal/request"
	"lms/internal/user"
)

type revocation struct {
	userID    string
	expiresAt time.Time
}

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users         map[string]user.User
	revoked       map[string]revocation
	books         map[string]book.Book
	borrows       map[string]borrow.Record
	fines         map[string]fine.Fine
	requests      map[string]request.Request
	notifications map[string]notification.Notification
}

func New() *Store {
	return &Store{
		now:           time.Now,
		users:         map[string]user.User{},
		revoked:       map[string]revocation{},
		books:         map[string]book.Book{},
		borrows:       map[string]borrow.Record{},
		fines:         map[string]fine.Fine{},
		requests:      map[string]request.Request{},
		notifications: map[string]notification.Notification{},
	}
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Users() *Users                 { return &Users{s} }
func (s *Store) Revocations() *Revocations     { return &Revocations{s} }
func (s *Store) Books() *Books                 { return &Books{s} }
func (s *Store) Borrows() *Borrows             { return &Borrows{s} }
func (s *Store) Fines() *Fines                 { return &Fines{s} }
func (s *Store) Requests() *Requests           { return &Requests{s} }
func (s *Store) Notifications() *Notifications { return &Notifications{s} }
func (s *Store) Stats() *Stats                 { return &Stats{s} }

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
