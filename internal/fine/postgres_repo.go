package fine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lms/internal/apperr"
	"lms/internal/borrow"
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

const fineColumns = `id, user_id, borrowed_book_id, amount, reason, status, created_at, paid_at`

func scanFine(row pgx.Row) (Fine, error) {
	var f Fine
	err := row.Scan(&f.ID, &f.UserID, &f.BorrowedBookID, &f.Amount, &f.Reason, &f.Status, &f.CreatedAt, &f.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Fine{}, ErrNotFound
		}
		return Fine{}, err
	}
	return f, nil
}

func (r *PostgresRepo) Create(ctx context.Context, f *Fine) error {
	const query = `
	INSERT INTO fines (id, user_id, borrowed_book_id, amount, reason, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, f.ID, f.UserID, f.BorrowedBookID, f.Amount, f.Reason, f.Status).Scan(&f.CreatedAt)
	if pg.IsForeignKeyViolation(err) {
		return borrow.ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Fine, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanFine(r.db.QueryRow(timeoutCtx, `SELECT `+fineColumns+` FROM fines WHERE id = $1`, id))
}

func (r *PostgresRepo) Pay(ctx context.Context, id string, paidAt time.Time) (Fine, error) {
	const query = `
	UPDATE fines SET status = 'paid', paid_at = $2
	WHERE id = $1 AND status = 'pending'
	RETURNING ` + fineColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	f, err := scanFine(r.db.QueryRow(timeoutCtx, query, id, paidAt))
	if !errors.Is(err, ErrNotFound) {
		return f, err
	}
	if _, err := r.Get(ctx, id); err != nil {
		return Fine{}, err
	}
	return Fine{}, apperr.InvalidStatef("fine %s is already paid", id)
}

func (r *PostgresRepo) List(ctx context.Context, userID string) ([]Detail, error) {
	ds := pg.Dialect.From(goqu.T("fines").As("f")).
		Join(goqu.T("borrowed_books").As("bb"), goqu.On(goqu.I("bb.id").Eq(goqu.I("f.borrowed_book_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("bb.book_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("f.user_id")))).
		Select(
			goqu.I("f.id"), goqu.I("f.user_id"), goqu.I("f.borrowed_book_id"), goqu.I("f.amount"), goqu.I("f.reason"),
			goqu.I("f.status"), goqu.I("f.created_at"), goqu.I("f.paid_at"),
			goqu.I("b.title"), goqu.I("u.full_name"), goqu.I("bb.due_date"), goqu.I("bb.returned_date"),
		).
		Order(goqu.I("f.created_at").Desc(), goqu.I("f.id").Desc())
	if userID != "" {
		ds = ds.Where(goqu.I("f.user_id").Eq(userID))
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
			&d.ID, &d.UserID, &d.BorrowedBookID, &d.Amount, &d.Reason, &d.Status, &d.CreatedAt, &d.PaidAt,
			&d.BookTitle, &d.StudentName, &d.DueDate, &d.ReturnedDate,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
