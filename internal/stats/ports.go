package stats

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=stats

// Repository computes read-side aggregates over the library stores.
type Repository interface {
	LibraryStats(ctx context.Context, now time.Time) (LibraryStats, error)
	BooksPerProgram(ctx context.Context) (map[string]int, error)
	BorrowCounts(ctx context.Context, now time.Time, dueSoonUntil time.Time) (BorrowCounts, error)
	// IssuedPerMonth counts loans by "2006-01" month of borrowed_date since since.
	IssuedPerMonth(ctx context.Context, since time.Time) (map[string]int, error)
	Students(ctx context.Context, q StudentQuery, now time.Time) ([]StudentSummary, error)
}
