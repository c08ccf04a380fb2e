package providers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"

	"lms/internal/api"
	"lms/internal/book"
	"lms/internal/borrow"
	"lms/internal/config"
	"lms/internal/fine"
	"lms/internal/logger"
	"lms/internal/notification"
	"lms/internal/platform/pg"
	"lms/internal/request"
	"lms/internal/session"
	"lms/internal/stats"
	"lms/internal/user"
)

// PoolHandle wraps the connection pool with shutdown capability.
type PoolHandle struct {
	*pgxpool.Pool
}

// Shutdown implements do.Shutdownable.
func (h *PoolHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvidePool opens and pings the Postgres pool.
func ProvidePool(i do.Injector) (*PoolHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	pool, err := pg.Open(context.Background(), cfg.DB.DSN, pingTimeout)
	if err != nil {
		return nil, err
	}
	log.Info("Database connection OK", "dsn", pg.RedactDSN(cfg.DB.DSN))
	return &PoolHandle{Pool: pool}, nil
}

// ProvideRepositories provides the Postgres-backed repositories.
func ProvideRepositories(i do.Injector) (api.Repositories, error) {
	cfg := do.MustInvoke[*config.Config](i)
	pool := do.MustInvoke[*PoolHandle](i).Pool
	timeout := cfg.DB.Timeout

	return api.Repositories{
		Users:         user.NewPostgresRepo(pool, timeout),
		Revocations:   session.NewPostgresRepo(pool, timeout),
		Books:         book.NewPostgresRepo(pool, timeout),
		Borrows:       borrow.NewPostgresRepo(pool, timeout),
		Fines:         fine.NewPostgresRepo(pool, timeout),
		Requests:      request.NewPostgresRepo(pool, timeout),
		Notifications: notification.NewPostgresRepo(pool, timeout),
		Stats:         stats.NewPostgresRepo(pool, timeout),
	}, nil
}
