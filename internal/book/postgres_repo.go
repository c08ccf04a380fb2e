package book

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lms/internal/apperr"
	"lms/internal/platform/pg"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = `id, title, author, isbn, category, program, total_copies, available_copies,
	description, cover_image, created_at, updated_at`

var bookSelect = []any{
	"id", "title", "author", "isbn", "category", "program", "total_copies", "available_copies",
	"description", "cover_image", "created_at", "updated_at",
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.Program, &b.TotalCopies, &b.AvailableCopies,
		&b.Description, &b.CoverImage, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO books (id, title, author, isbn, category, program, total_copies, available_copies, description, cover_image)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ID, b.Title, b.Author, b.ISBN, b.Category, b.Program, b.TotalCopies, b.AvailableCopies, b.Description, b.CoverImage,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if pg.IsUniqueViolation(err) {
		return ErrDuplicateISBN
	}
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanBook(r.db.QueryRow(timeoutCtx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
}

// LockForUpdate reads the book inside tx holding a row lock until commit.
func LockForUpdate(ctx context.Context, q pg.Querier, id string) (Book, error) {
	return scanBook(q.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id))
}

func (r *PostgresRepo) Update(ctx context.Context, id string, fn func(*Book) error) (Book, error) {
	const query = `
	UPDATE books SET title = $2, author = $3, isbn = $4, category = $5, program = $6,
		total_copies = $7, available_copies = $8, description = $9, cover_image = $10, updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out Book
	err := pg.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		b, err := LockForUpdate(timeoutCtx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&b); err != nil {
			return err
		}
		err = tx.QueryRow(timeoutCtx, query,
			b.ID, b.Title, b.Author, b.ISBN, b.Category, b.Program, b.TotalCopies, b.AvailableCopies, b.Description, b.CoverImage,
		).Scan(&b.UpdatedAt)
		if pg.IsUniqueViolation(err) {
			return ErrDuplicateISBN
		}
		out = b
		return err
	})
	return out, err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if pg.IsForeignKeyViolation(err) {
		return ErrHasHistory
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	ds := pg.Dialect.From("books")
	if q.Program != "" {
		ds = ds.Where(goqu.C("program").Eq(q.Program))
	}
	if q.Category != "" {
		ds = ds.Where(goqu.C("category").Eq(q.Category))
	}
	if q.Title != "" {
		ds = ds.Where(goqu.C("title").ILike(pg.ContainsPattern(q.Title)))
	}
	if q.Search != "" {
		pattern := pg.ContainsPattern(q.Search)
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
			goqu.C("isbn").ILike(pattern),
		))
	}

	countSQL, countArgs, err := pg.Build(ds.Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return nil, 0, err
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var total int
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	ds = ds.Select(bookSelect...).Order(goqu.C("title").Asc(), goqu.C("id").Asc())
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}
	if q.Offset > 0 {
		ds = ds.Offset(uint(q.Offset))
	}
	dataSQL, args, err := pg.Build(ds)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(timeoutCtx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) AdjustAvailability(ctx context.Context, id string, delta int) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return AdjustAvailabilityTx(timeoutCtx, r.db, id, delta)
}

// AdjustAvailabilityTx applies delta with a single conditional UPDATE so it
// can run inside a caller's transaction.
func AdjustAvailabilityTx(ctx context.Context, q pg.Querier, id string, delta int) (Book, error) {
	const query = `
	UPDATE books SET available_copies = available_copies + $2, updated_at = NOW()
	WHERE id = $1 AND available_copies + $2 BETWEEN 0 AND total_copies
	RETURNING ` + bookColumns

	b, err := scanBook(q.QueryRow(ctx, query, id, delta))
	if !errors.Is(err, ErrNotFound) {
		return b, err
	}

	current, err := scanBook(q.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		return Book{}, err
	}
	if err := current.Adjust(delta); err != nil {
		return Book{}, err
	}
	return Book{}, apperr.Conflictf("available copies of %s changed concurrently", id)
}
