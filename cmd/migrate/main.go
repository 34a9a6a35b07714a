package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/infrastructure/config"
	"github.com/oms/backend/internal/infrastructure/logger"
	"github.com/oms/backend/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if migrationsPath == "" {
		migrationsPath = defaultMigrationsPath
	}
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}
	migrationsPath = absPath

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}

	switch command {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}
	case "steps":
		if len(args) < 2 {
			log.Fatal("steps requires an argument, e.g. 'steps 1' or 'steps -1'")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid steps argument", zap.Error(err))
		}
		if err := migrator.Steps(n); err != nil {
			log.Fatal("Migration steps failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		log.Info("Current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
	case "force":
		if len(args) < 2 {
			log.Fatal("force requires a version argument, e.g. 'force 1'")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version argument", zap.Error(err))
		}
		if err := migrator.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: migrate [flags] <command>

Commands:
  up              Apply all pending migrations
  down            Roll back all migrations
  steps <n>       Apply n migrations (negative rolls back)
  version         Print the current migration version
  force <v>       Set the migration version without running migrations

Flags:
  -path <dir>     Migrations directory (default: ./migrations)
  -log-level <l>  Log level (debug, info, warn, error)`)
}
