package borrow

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lms/internal/apperr"
	"lms/internal/book"
	"lms/internal/platform/pg"
	"lms/internal/user"
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

const recordColumns = `id, user_id, book_id, COALESCE(librarian_id, ''), borrowed_date, due_date, returned_date,
	renewal_count, status, remarks, created_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.BookID, &rec.LibrarianID, &rec.BorrowedDate, &rec.DueDate, &rec.ReturnedDate,
		&rec.RenewalCount, &rec.Status, &rec.Remarks, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

var detailSelect = []any{
	goqu.I("bb.id"), goqu.I("bb.user_id"), goqu.I("bb.book_id"), goqu.COALESCE(goqu.I("bb.librarian_id"), ""),
	goqu.I("bb.borrowed_date"), goqu.I("bb.due_date"), goqu.I("bb.returned_date"), goqu.I("bb.renewal_count"),
	goqu.I("bb.status"), goqu.I("bb.remarks"), goqu.I("bb.created_at"),
	goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.isbn"), goqu.I("b.cover_image"),
	goqu.I("u.full_name"), goqu.I("u.program"), goqu.I("u.student_id"),
}

func scanDetail(row pgx.Row) (Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.UserID, &d.BookID, &d.LibrarianID, &d.BorrowedDate, &d.DueDate, &d.ReturnedDate, &d.RenewalCount,
		&d.Status, &d.Remarks, &d.CreatedAt,
		&d.BookTitle, &d.BookAuthor, &d.BookISBN, &d.BookCoverImage,
		&d.StudentName, &d.StudentProgram, &d.StudentID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	return d, nil
}

func detailDataset() *goqu.SelectDataset {
	return pg.Dialect.From(goqu.T("borrowed_books").As("bb")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("bb.book_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("bb.user_id"))))
}

func (r *PostgresRepo) Create(ctx context.Context, rec *Record) error {
	const insert = `
	INSERT INTO borrowed_books (id, user_id, book_id, librarian_id, borrowed_date, due_date, renewal_count, status, remarks)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
	RETURNING created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pg.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		b, err := book.LockForUpdate(timeoutCtx, tx, rec.BookID)
		if err != nil {
			return err
		}
		if b.AvailableCopies == 0 {
			return apperr.OutOfStockf("no copies of %q are available", b.Title)
		}
		if _, err := book.AdjustAvailabilityTx(timeoutCtx, tx, rec.BookID, -1); err != nil {
			return err
		}

		err = tx.QueryRow(timeoutCtx, insert,
			rec.ID, rec.UserID, rec.BookID, rec.LibrarianID, rec.BorrowedDate, rec.DueDate, rec.RenewalCount, rec.Status, rec.Remarks,
		).Scan(&rec.CreatedAt)
		switch {
		case pg.IsForeignKeyViolation(err):
			return user.ErrNotFound
		case pg.IsUniqueViolation(err):
			return ErrDuplicateReservation
		}
		return err
	})
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Record, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanRecord(r.db.QueryRow(timeoutCtx, `SELECT `+recordColumns+` FROM borrowed_books WHERE id = $1`, id))
}

func (r *PostgresRepo) GetDetail(ctx context.Context, id string) (Detail, error) {
	query, args, err := pg.Build(detailDataset().Select(detailSelect...).Where(goqu.I("bb.id").Eq(id)))
	if err != nil {
		return Detail{}, err
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanDetail(r.db.QueryRow(timeoutCtx, query, args...))
}

func filters(q Query) []exp.Expression {
	var where []exp.Expression
	if q.UserID != "" {
		where = append(where, goqu.I("bb.user_id").Eq(q.UserID))
	}
	if q.BookID != "" {
		where = append(where, goqu.I("bb.book_id").Eq(q.BookID))
	}
	if q.Program != "" {
		where = append(where, goqu.I("u.program").Eq(q.Program))
	}
	if q.Search != "" {
		pattern := pg.ContainsPattern(q.Search)
		where = append(where, goqu.Or(
			goqu.I("b.title").ILike(pattern),
			goqu.I("u.full_name").ILike(pattern),
			goqu.I("u.student_id").ILike(pattern),
		))
	}
	switch q.Status {
	case "":
	case StatusOverdue:
		where = append(where, goqu.I("bb.status").Eq(StatusBorrowed), goqu.I("bb.due_date").Lt(q.Now))
	case StatusBorrowed:
		where = append(where, goqu.I("bb.status").Eq(StatusBorrowed), goqu.Or(
			goqu.I("bb.due_date").IsNull(),
			goqu.I("bb.due_date").Gte(q.Now),
		))
	default:
		where = append(where, goqu.I("bb.status").Eq(q.Status))
	}
	return where
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Detail, int, error) {
	ds := detailDataset().Where(filters(q)...)

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

	ds = ds.Select(detailSelect...).Order(goqu.I("bb.borrowed_date").Desc(), goqu.I("bb.id").Desc())
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}
	if q.Offset > 0 {
		ds = ds.Offset(uint(q.Offset))
	}
	items, err := r.queryDetails(timeoutCtx, ds)
	return items, total, err
}

func (r *PostgresRepo) ListOpen(ctx context.Context) ([]Detail, error) {
	ds := detailDataset().Select(detailSelect...).
		Where(goqu.I("bb.status").Eq(StatusBorrowed)).
		Order(goqu.I("bb.due_date").Asc())
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.queryDetails(timeoutCtx, ds)
}

func (r *PostgresRepo) queryDetails(ctx context.Context, ds *goqu.SelectDataset) ([]Detail, error) {
	query, args, err := pg.Build(ds)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id string, fn func(*Record) error) (Record, error) {
	const update = `
	UPDATE borrowed_books SET librarian_id = NULLIF($2, ''), borrowed_date = $3, due_date = $4, returned_date = $5,
		renewal_count = $6, status = $7, remarks = $8
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out Record
	err := pg.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		rec, err := scanRecord(tx.QueryRow(timeoutCtx, `SELECT `+recordColumns+` FROM borrowed_books WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		before := rec.Status
		if err := fn(&rec); err != nil {
			return err
		}

		if _, err := tx.Exec(timeoutCtx, update,
			rec.ID, rec.LibrarianID, rec.BorrowedDate, rec.DueDate, rec.ReturnedDate, rec.RenewalCount, rec.Status, rec.Remarks,
		); err != nil {
			return err
		}
		if before.HoldsCopy() && !rec.Status.HoldsCopy() {
			if _, err := book.AdjustAvailabilityTx(timeoutCtx, tx, rec.BookID, 1); err != nil {
				return err
			}
		}
		out = rec
		return nil
	})
	return out, err
}
