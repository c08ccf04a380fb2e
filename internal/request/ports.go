package request

import (
	"context"

	"lms/internal/book"
	"lms/internal/borrow"
	"lms/internal/notification"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=request

type Repository interface {
	// Create fails with ErrDuplicate when the user already has a pending
	// request for the book.
	Create(ctx context.Context, req *Request) error
	Get(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, q Query) ([]Detail, error)
	// Update locks the request, applies fn and saves the result.
	Update(ctx context.Context, id string, fn func(*Request) error) (Request, error)
}

type BookLookup interface {
	Get(ctx context.Context, id string) (book.Book, error)
}

// Issuer turns an approved request into a loan.
type Issuer interface {
	Issue(ctx context.Context, in borrow.IssueInput) (borrow.Record, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID string, kind notification.Type, title, description string) error
}
