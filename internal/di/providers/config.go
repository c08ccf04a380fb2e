package providers

import (
	"os"

	"github.com/samber/do/v2"

	"lms/internal/config"
	"lms/internal/logger"
)

// Args holds the command-line arguments handed to config.Load.
type Args []string

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	args, err := do.Invoke[Args](i)
	if err != nil {
		args = Args(os.Args[1:])
	}
	return config.Load(args)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.LogLevel),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting library service",
		"environment", cfg.App.Environment,
		"log_level", cfg.LogLevel,
		"fine_policy", cfg.Fine.Policy,
	)
	return log, nil
}
