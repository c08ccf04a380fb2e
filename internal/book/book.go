package book

import (
	"fmt"
	"strings"
	"time"

	"lms/internal/apperr"
)

var (
	ErrNotFound      = apperr.NotFound("Book not found")
	ErrDuplicateISBN = apperr.AlreadyExists("A book with this ISBN already exists")
	ErrHasHistory    = apperr.New(apperr.CodeConflict, "Book has borrow history and cannot be deleted")
)

// Book is a catalogue title with its copy counts.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Category        string    `json:"category"`
	Program         string    `json:"program"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Description     string    `json:"description,omitempty"`
	CoverImage      string    `json:"cover_image,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CopiesOut is the number of copies currently lent or reserved.
func (b Book) CopiesOut() int {
	return b.TotalCopies - b.AvailableCopies
}

// CreateInput holds the fields of a new book. AvailableCopies defaults to TotalCopies.
type CreateInput struct {
	Title           string
	Author          string
	ISBN            string
	Category        string
	Program         string
	TotalCopies     int
	AvailableCopies *int
	Description     string
	CoverImage      string
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title           *string
	Author          *string
	ISBN            *string
	Category        *string
	Program         *string
	TotalCopies     *int
	AvailableCopies *int
	Description     *string
	CoverImage      *string
}

// Query defines filters and pagination for listing books.
type Query struct {
	Program  string
	Category string
	Search   string
	Title    string
	Limit    int
	Offset   int
}

func checkCopies(total, available int) error {
	var fields []apperr.FieldError
	if total < 1 {
		fields = append(fields, apperr.FieldError{Field: "total_copies", Message: "must be at least 1"})
	}
	if available < 0 || available > total {
		fields = append(fields, apperr.FieldError{Field: "available_copies", Message: "must be between 0 and total_copies"})
	}
	if len(fields) > 0 {
		return apperr.ValidationFields("Invalid copy counts", fields)
	}
	return nil
}

func (in CreateInput) build() (Book, error) {
	b := Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		ISBN:        strings.TrimSpace(in.ISBN),
		Category:    strings.TrimSpace(in.Category),
		Program:     strings.TrimSpace(in.Program),
		TotalCopies: in.TotalCopies,
		Description: strings.TrimSpace(in.Description),
		CoverImage:  strings.TrimSpace(in.CoverImage),
	}
	b.AvailableCopies = b.TotalCopies
	if in.AvailableCopies != nil {
		b.AvailableCopies = *in.AvailableCopies
	}

	var fields []apperr.FieldError
	for _, f := range []struct{ name, value string }{
		{"title", b.Title}, {"author", b.Author}, {"isbn", b.ISBN}, {"category", b.Category}, {"program", b.Program},
	} {
		if f.value == "" {
			fields = append(fields, apperr.FieldError{Field: f.name, Message: "This field is required"})
		}
	}
	if len(fields) > 0 {
		return Book{}, apperr.ValidationFields("Missing required fields", fields)
	}
	if err := checkCopies(b.TotalCopies, b.AvailableCopies); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Apply merges the patch into b. The number of copies out never changes
// here: it is owned by open borrow records, so AvailableCopies may only
// restate total minus copies out.
func (in UpdateInput) Apply(b *Book) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&b.Title, in.Title)
	set(&b.Author, in.Author)
	set(&b.ISBN, in.ISBN)
	set(&b.Category, in.Category)
	set(&b.Program, in.Program)
	set(&b.Description, in.Description)
	set(&b.CoverImage, in.CoverImage)

	out := b.CopiesOut()
	total := b.TotalCopies
	if in.TotalCopies != nil {
		total = *in.TotalCopies
	}
	available := total - out
	if in.AvailableCopies != nil && *in.AvailableCopies != available {
		return apperr.ValidationFields("Invalid copy counts", []apperr.FieldError{
			{Field: "available_copies", Message: fmt.Sprintf("must equal total_copies minus the %d copies on loan", out)},
		})
	}
	if err := checkCopies(total, available); err != nil {
		return err
	}
	b.TotalCopies, b.AvailableCopies = total, available
	return nil
}

// Adjust moves AvailableCopies by delta, refusing to leave [0, TotalCopies].
func (b *Book) Adjust(delta int) error {
	next := b.AvailableCopies + delta
	if next < 0 || next > b.TotalCopies {
		return apperr.Conflictf("available copies of %s would become %d (total %d)", b.ID, next, b.TotalCopies)
	}
	b.AvailableCopies = next
	return nil
}
