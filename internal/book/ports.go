package book

import (
	"context"

	"lms/internal/platform/openlibrary"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	Get(ctx context.Context, id string) (Book, error)
	// Update loads the book under lock, applies fn and saves the result.
	Update(ctx context.Context, id string, fn func(*Book) error) (Book, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q Query) ([]Book, int, error)
	AdjustAvailability(ctx context.Context, id string, delta int) (Book, error)
}

// Metadata is what a MetadataSource knows about an ISBN.
type Metadata = openlibrary.Metadata

// MetadataSource looks up descriptive fields for a new title.
type MetadataSource interface {
	LookupISBN(ctx context.Context, isbn string) (Metadata, error)
}
