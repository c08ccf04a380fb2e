package notification

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

func (r *PostgresRepo) Create(ctx context.Context, n *Notification) error {
	const query = `
	INSERT INTO notifications (id, user_id, title, description, type)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING is_read, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, n.ID, n.UserID, n.Title, n.Description, n.Type).Scan(&n.IsRead, &n.CreatedAt)
}

func (r *PostgresRepo) List(ctx context.Context, userID string, unreadOnly bool, after *Cursor, limit int) ([]Notification, error) {
	ds := pg.Dialect.From("notifications").
		Select("id", "user_id", "title", "description", "type", "is_read", "created_at").
		Where(goqu.C("user_id").Eq(userID))
	if unreadOnly {
		ds = ds.Where(goqu.C("is_read").IsFalse())
	}
	if after != nil {
		ds = ds.Where(goqu.L("(created_at, id) < (?, ?)", after.CreatedAt, after.ID))
	}
	ds = ds.Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).Limit(uint(limit))

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

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) MarkRead(ctx context.Context, id, userID string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	return n, err
}
