package borrow

import (
	"context"

	"lms/internal/notification"
	"lms/internal/user"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=borrow

// Repository stores borrow records. Create and the transition to returned
// adjust the book's available copies in the same transaction.
type Repository interface {
	// Create takes one copy of the book and inserts the record.
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (Record, error)
	GetDetail(ctx context.Context, id string) (Detail, error)
	List(ctx context.Context, q Query) ([]Detail, int, error)
	// ListOpen returns every record in StatusBorrowed, overdue or not.
	ListOpen(ctx context.Context) ([]Detail, error)
	// Update locks the record, applies fn and saves the result.
	Update(ctx context.Context, id string, fn func(*Record) error) (Record, error)
}

// UserLookup resolves the borrower.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// ReturnHook runs after a record has been returned.
type ReturnHook interface {
	OnReturned(ctx context.Context, rec Record) error
}

// Notifier delivers feed notifications.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind notification.Type, title, description string) error
}
