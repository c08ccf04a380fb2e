// Command remind runs one reminder sweep over open loans and purges expired
// token revocations. Schedule it with cron or a Kubernetes CronJob.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"lms/internal/di"
	"lms/internal/logger"
)

func main() {
	injector := di.NewContainer(os.Args[1:])
	defer func() { _ = injector.Shutdown() }()

	services, err := di.BootstrapServices(injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := services.Reminder.Sweep(ctx)
	if err != nil {
		log.Error("Reminder sweep failed", "error", err)
		stop()
		_ = injector.Shutdown()
		os.Exit(1)
	}

	purged, err := services.Sessions.Cleanup(ctx)
	if err != nil {
		log.Warn("Revocation cleanup failed", "error", err)
	}
	log.Info("Done", "due_soon", res.DueSoon, "overdue", res.Overdue, "failed", res.Failed, "revocations_purged", purged)
}
