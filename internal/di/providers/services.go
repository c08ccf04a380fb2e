package providers

import (
	"time"

	"github.com/samber/do/v2"

	"lms/internal/api"
	"lms/internal/borrow"
	"lms/internal/config"
	"lms/internal/fine"
	"lms/internal/logger"
	"lms/internal/platform/openlibrary"
)

const day = 24 * time.Hour

// Settings maps the configuration onto the service settings.
func Settings(cfg *config.Config, log *logger.Logger) api.Settings {
	return api.Settings{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.AccessTokenTTL,
		Loan: borrow.Policy{
			LoanPeriod:    time.Duration(cfg.Loan.LoanPeriodDays) * day,
			RenewalPeriod: time.Duration(cfg.Loan.RenewalDays) * day,
			MaxRenewals:   cfg.Loan.MaxRenewals,
		},
		Fine: fine.Policy{
			Mode:        fine.Mode(cfg.Fine.Policy),
			PerDiemRate: int64(cfg.Fine.PerDiemRate),
		},
		DueSoonWindow: time.Duration(cfg.Loan.DueSoonDays) * day,
		Log:           log.Logger,
	}
}

// ProvideServices provides the wired service graph.
func ProvideServices(i do.Injector) (*api.Services, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	repos := do.MustInvoke[api.Repositories](i)

	settings := Settings(cfg, log)
	if cfg.Metadata.Enabled {
		settings.Metadata = openlibrary.NewClient(openlibrary.Options{
			BaseURL:    cfg.Metadata.BaseURL,
			Timeout:    cfg.Metadata.Timeout,
			MaxRetries: cfg.Metadata.MaxRetries,
		})
	}
	return api.NewServices(repos, settings), nil
}
