package notification

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=notification

// Repository stores per-user notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// List returns up to limit notifications older than after, newest first.
	List(ctx context.Context, userID string, unreadOnly bool, after *Cursor, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}
