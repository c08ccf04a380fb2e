package book

import (
	"context"
	"log/slog"

	"lms/internal/id"
)

// Service provides book-related business logic.
type Service struct {
	repo     Repository
	metadata MetadataSource
	log      *slog.Logger
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithMetadata makes Create fill a blank description or cover image from src.
func (s *Service) WithMetadata(src MetadataSource, log *slog.Logger) *Service {
	s.metadata = src
	s.log = log
	return s
}

// Create validates the input and stores a new book.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	b, err := in.build()
	if err != nil {
		return Book{}, err
	}
	s.fillMetadata(ctx, &b)
	if b.ID, err = id.Generate(id.Book); err != nil {
		return Book{}, err
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Update applies a partial update to the book.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	return s.repo.Update(ctx, id, in.Apply)
}

// Delete removes the book. A book that was ever borrowed is kept so its loan
// and fine history stays intact.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns a page of books matching the query and the total match count.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

// AdjustAvailability adds delta to the available copies.
func (s *Service) AdjustAvailability(ctx context.Context, id string, delta int) (Book, error) {
	return s.repo.AdjustAvailability(ctx, id, delta)
}

// fillMetadata never fails the create; a lookup error only leaves fields blank.
func (s *Service) fillMetadata(ctx context.Context, b *Book) {
	if s.metadata == nil || (b.Description != "" && b.CoverImage != "") {
		return
	}
	m, err := s.metadata.LookupISBN(ctx, b.ISBN)
	if err != nil {
		s.log.Warn("isbn metadata lookup failed", "isbn", b.ISBN, "error", err)
		return
	}
	if b.Description == "" {
		b.Description = m.Description
	}
	if b.CoverImage == "" {
		b.CoverImage = m.CoverURL
	}
}
