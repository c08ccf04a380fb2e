package stats

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"

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

func (r *PostgresRepo) LibraryStats(ctx context.Context, now time.Time) (LibraryStats, error) {
	const query = `
	SELECT
		(SELECT COUNT(*) FROM books),
		(SELECT COALESCE(SUM(available_copies), 0) FROM books),
		(SELECT COUNT(*) FROM borrowed_books WHERE status = 'borrowed'),
		(SELECT COUNT(*) FROM borrowed_books WHERE status = 'borrowed' AND due_date < $1),
		(SELECT COUNT(*) FROM users WHERE role = 'student'),
		(SELECT COUNT(DISTINCT user_id) FROM borrowed_books WHERE status = 'borrowed'),
		(SELECT COUNT(*) FROM book_requests WHERE status = 'pending'),
		(SELECT COALESCE(SUM(amount), 0)::bigint FROM fines WHERE status = 'pending')
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var s LibraryStats
	err := r.db.QueryRow(timeoutCtx, query, now).Scan(
		&s.TotalBooks, &s.AvailableBooks, &s.BorrowedBooks, &s.OverdueBooks,
		&s.TotalStudents, &s.ActiveStudents, &s.PendingRequests, &s.TotalFines,
	)
	return s, err
}

func (r *PostgresRepo) BooksPerProgram(ctx context.Context) (map[string]int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT program, COUNT(*) FROM books GROUP BY program`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var program string
		var n int
		if err := rows.Scan(&program, &n); err != nil {
			return nil, err
		}
		out[program] = n
	}
	return out, rows.Err()
}

func (r *PostgresRepo) BorrowCounts(ctx context.Context, now, dueSoonUntil time.Time) (BorrowCounts, error) {
	const query = `
	SELECT
		COUNT(*) FILTER (WHERE status = 'borrowed'),
		COUNT(*) FILTER (WHERE status = 'borrowed' AND due_date < $1),
		COUNT(*) FILTER (WHERE status = 'borrowed' AND due_date >= $1 AND due_date <= $2),
		COUNT(*) FILTER (WHERE status = 'pending'),
		(SELECT COUNT(*) FROM book_requests WHERE status = 'pending')
	FROM borrowed_books
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var c BorrowCounts
	err := r.db.QueryRow(timeoutCtx, query, now, dueSoonUntil).Scan(
		&c.Borrowed, &c.Overdue, &c.DueSoon, &c.PendingBorrows, &c.PendingRequests,
	)
	return c, err
}

func (r *PostgresRepo) IssuedPerMonth(ctx context.Context, since time.Time) (map[string]int, error) {
	const query = `
	SELECT to_char(date_trunc('month', borrowed_date AT TIME ZONE 'UTC'), 'YYYY-MM'), COUNT(*)
	FROM borrowed_books
	WHERE status IN ('borrowed', 'returned') AND borrowed_date >= $1
	GROUP BY 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var month string
		var n int
		if err := rows.Scan(&month, &n); err != nil {
			return nil, err
		}
		out[month] = n
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Students(ctx context.Context, q StudentQuery, now time.Time) ([]StudentSummary, error) {
	ds := pg.Dialect.From(goqu.T("users").As("u")).
		LeftJoin(goqu.T("borrowed_books").As("bb"), goqu.On(goqu.I("bb.user_id").Eq(goqu.I("u.id")))).
		Select(
			goqu.I("u.id"), goqu.I("u.username"), goqu.I("u.full_name"), goqu.I("u.email"),
			goqu.I("u.program"), goqu.I("u.student_id"),
			goqu.L(`COUNT(bb.id) FILTER (WHERE bb.status = 'borrowed')`),
			goqu.L(`COUNT(bb.id) FILTER (WHERE bb.status = 'borrowed' AND bb.due_date < ?)`, now),
			goqu.L(`COALESCE((SELECT SUM(f.amount) FROM fines f WHERE f.user_id = u.id AND f.status = 'pending'), 0)::bigint`),
		).
		Where(goqu.I("u.role").Eq("student")).
		GroupBy(goqu.I("u.id")).
		Order(goqu.I("u.full_name").Asc(), goqu.I("u.id").Asc())
	if q.Program != "" {
		ds = ds.Where(goqu.I("u.program").Eq(q.Program))
	}
	if q.Search != "" {
		pattern := pg.ContainsPattern(q.Search)
		ds = ds.Where(goqu.Or(
			goqu.I("u.full_name").ILike(pattern),
			goqu.I("u.username").ILike(pattern),
			goqu.I("u.student_id").ILike(pattern),
			goqu.I("u.email").ILike(pattern),
		))
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

	var out []StudentSummary
	for rows.Next() {
		var s StudentSummary
		if err := rows.Scan(
			&s.ID, &s.Username, &s.FullName, &s.Email, &s.Program, &s.StudentID,
			&s.BorrowedCount, &s.OverdueCount, &s.Fines,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
