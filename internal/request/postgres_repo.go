package request

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lms/internal/book"
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

const requestColumns = `id, user_id, book_id, status, request_date, approved_date, COALESCE(approved_by, ''), COALESCE(borrow_id, '')`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.UserID, &req.BookID, &req.Status, &req.RequestDate, &req.ApprovedDate, &req.ApprovedBy, &req.BorrowID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	return req, nil
}

func (r *PostgresRepo) Create(ctx context.Context, req *Request) error {
	const query = `
	INSERT INTO book_requests (id, user_id, book_id, status, request_date)
	VALUES ($1, $2, $3, $4, $5)
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, req.ID, req.UserID, req.BookID, req.Status, req.RequestDate)
	switch {
	case pg.IsUniqueViolation(err):
		return ErrDuplicate
	case pg.IsForeignKeyViolation(err):
		return book.ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Request, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanRequest(r.db.QueryRow(timeoutCtx, `SELECT `+requestColumns+` FROM book_requests WHERE id = $1`, id))
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Detail, error) {
	ds := pg.Dialect.From(goqu.T("book_requests").As("br")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("br.book_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("br.user_id")))).
		Select(
			goqu.I("br.id"), goqu.I("br.user_id"), goqu.I("br.book_id"), goqu.I("br.status"), goqu.I("br.request_date"),
			goqu.I("br.approved_date"), goqu.COALESCE(goqu.I("br.approved_by"), ""), goqu.COALESCE(goqu.I("br.borrow_id"), ""),
			goqu.I("b.title"), goqu.I("b.author"), goqu.I("u.full_name"),
		).
		Order(goqu.I("br.request_date").Desc(), goqu.I("br.id").Desc())
	if q.UserID != "" {
		ds = ds.Where(goqu.I("br.user_id").Eq(q.UserID))
	}
	if q.BookID != "" {
		ds = ds.Where(goqu.I("br.book_id").Eq(q.BookID))
	}
	if q.Status != "" {
		ds = ds.Where(goqu.I("br.status").Eq(q.Status))
	}

	query, args, err := pg.Build(ds)
	if err != nil {
		return nil, err
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.BookID, &d.Status, &d.RequestDate, &d.ApprovedDate, &d.ApprovedBy, &d.BorrowID,
			&d.BookTitle, &d.BookAuthor, &d.StudentName,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id string, fn func(*Request) error) (Request, error) {
	const update = `
	UPDATE book_requests SET status = $2, approved_date = $3, approved_by = NULLIF($4, ''), borrow_id = NULLIF($5, '')
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out Request
	err := pg.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		req, err := scanRequest(tx.QueryRow(timeoutCtx, `SELECT `+requestColumns+` FROM book_requests WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(&req); err != nil {
			return err
		}
		if _, err := tx.Exec(timeoutCtx, update, req.ID, req.Status, req.ApprovedDate, req.ApprovedBy, req.BorrowID); err != nil {
			return err
		}
		out = req
		return nil
	})
	return out, err
}
