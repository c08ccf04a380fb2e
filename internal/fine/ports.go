package fine

import (
	"context"
	"time"

	"lms/internal/borrow"
	"lms/internal/notification"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=fine

type Repository interface {
	Create(ctx context.Context, f *Fine) error
	Get(ctx context.Context, id string) (Fine, error)
	// Pay marks a pending fine paid; a fine that is not pending is an invalid state.
	Pay(ctx context.Context, id string, paidAt time.Time) (Fine, error)
	// List returns fines for userID, or every fine when userID is empty.
	List(ctx context.Context, userID string) ([]Detail, error)
}

// Records looks up borrow records.
type Records interface {
	GetRecord(ctx context.Context, id string) (borrow.Record, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID string, kind notification.Type, title, description string) error
}
