package memstore

import (
	"context"
	"strings"
	"time"

	"lms/internal/user"
)

// Users implements user.Repository.
type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return user.ErrAlreadyExists
		}
	}
	u.CreatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

// Revocations implements session.RevocationRepository.
type Revocations struct{ s *Store }

func (r *Revocations) Add(_ context.Context, jti, userID string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[jti] = revocation{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *Revocations) Exists(_ context.Context, jti string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.revoked[jti]
	return ok, nil
}

func (r *Revocations) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	var n int64
	for jti, rev := range r.s.revoked {
		if !rev.expiresAt.After(now) {
			delete(r.s.revoked, jti)
			n++
		}
	}
	return n, nil
}
