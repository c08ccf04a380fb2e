// Package di provides dependency injection configuration for the library service.
package di

import (
	"github.com/samber/do/v2"

	"lms/internal/api"
	"lms/internal/config"
	"lms/internal/di/providers"
	"lms/internal/logger"
)

// NewContainer creates the DI container for the given command-line arguments.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.Args(args))

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvidePool)
	do.Provide(injector, providers.ProvideRepositories)

	// Business services
	do.Provide(injector, providers.ProvideServices)

	// Server
	do.Provide(injector, providers.ProvideAuthRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// BootstrapServices initializes everything up to the service graph.
func BootstrapServices(injector *do.RootScope) (*api.Services, error) {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return nil, err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[*providers.PoolHandle](injector); err != nil {
		return nil, err
	}
	return do.Invoke[*api.Services](injector)
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := BootstrapServices(injector); err != nil {
		return err
	}
	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}
