package memstore

import (
	"context"
	"sort"

	"lms/internal/notification"
)

// Notifications implements notification.Repository.
type Notifications struct{ s *Store }

func (r *Notifications) Create(_ context.Context, n *notification.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.CreatedAt = r.s.now()
	n.IsRead = false
	r.s.notifications[n.ID] = *n
	return nil
}

func olderThan(a notification.Notification, after *notification.Cursor) bool {
	if a.CreatedAt.Equal(after.CreatedAt) {
		return a.ID < after.ID
	}
	return a.CreatedAt.Before(after.CreatedAt)
}

func (r *Notifications) List(_ context.Context, userID string, unreadOnly bool, after *notification.Cursor, limit int) ([]notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []notification.Notification
	for _, n := range r.s.notifications {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		if after != nil && !olderThan(n, after) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Notifications) MarkRead(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return nil
}

func (r *Notifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.s.notifications[id] = n
			count++
		}
	}
	return count, nil
}

func (r *Notifications) UnreadCount(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
