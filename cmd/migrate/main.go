// Command migrate applies the goose migrations under db/migrations.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"lms/internal/logger"
	"lms/internal/platform/pg"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	log := logger.New(logger.Config{Level: logger.ParseLevel(os.Getenv("LOG_LEVEL"))})
	loadEnvFiles()

	dir := migrationsDir()
	if *command == "create" {
		if *name == "" {
			log.Error("Name is required for 'create' command")
			os.Exit(2)
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Error("Failed to create migration", "error", err)
			os.Exit(1)
		}
		log.Info("Migration created", "name", *name, "dir", dir)
		return
	}

	dsn := databaseDSN()
	pool, err := pg.Open(context.Background(), dsn, 5*time.Second)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("Failed to set dialect", "error", err)
		os.Exit(1)
	}

	switch *command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "status":
		err = goose.Status(db, dir)
	default:
		log.Error("Unknown command, use: up, down, status, create", "command", *command)
		os.Exit(2)
	}
	if err != nil {
		log.Error("Migration failed", "command", *command, "dsn", pg.RedactDSN(dsn), "error", err)
		os.Exit(1)
	}
	log.Info("Migration finished", "command", *command)
}
