// Command migrate manages the marketplace database schema.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/migration"
	"github.com/marketplace/backend/migrations"
	"go.uber.org/zap"
)

const usage = `Marketplace schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down -confirm         Roll back every migration
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the applied version
  status                Show the applied version and pending count
  force <version>       Record a version without running it
  drop -confirm         Drop every table
  create <name> [desc]  Write a new migration pair into -dir
  list                  List migrations

Flags:
  -dir string           Read migrations from this directory instead of the embedded set
  -log-level string     debug, info, warn or error (default info)

Connection settings come from config.toml, .env and MKT_DATABASE_* variables.`

func main() {
	dir := flag.String("dir", "", "migrations directory (default: embedded)")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log, *dir, args[0], args[1:]); err != nil {
		log.Error("migrate failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, dir, command string, args []string) error {
	source := fs.FS(migrations.FS)
	if dir != "" {
		source = os.DirFS(dir)
	}

	switch command {
	case "create":
		if dir == "" {
			dir = "migrations"
		}
		if len(args) == 0 {
			return errors.New("usage: migrate create <name> [description]")
		}
		desc := ""
		if len(args) > 1 {
			desc = args[1]
		}
		f, err := migration.Create(dir, args[0], desc, time.Now())
		if err != nil {
			return err
		}
		log.Info("migration created", zap.String("up", f.UpPath), zap.String("down", f.DownPath))
		return nil

	case "list":
		all, err := migration.List(source)
		if err != nil {
			return err
		}
		for _, m := range all {
			fmt.Printf("%d  %s\n", m.Version, m.Name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, source, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() { _ = m.Close() }()

	switch command {
	case "up":
		return m.Up()
	case "down":
		if !confirmed(args) {
			return errors.New("refusing to roll back everything without -confirm")
		}
		return m.Down()
	case "step":
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		n, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.New("version must not be negative")
		}
		return m.GoTo(uint(n))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	case "status":
		st, err := m.Status(source)
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t pending=%d\n", st.Version, st.Dirty, st.Pending)
		return nil
	case "force":
		n, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return m.Force(n)
	case "drop":
		if !confirmed(args) {
			return errors.New("refusing to drop without -confirm")
		}
		return m.Drop()
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func intArg(args []string, form string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: migrate %s", form)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}
	return n, nil
}

func confirmed(args []string) bool {
	for _, a := range args {
		if a == "-confirm" || a == "--confirm" {
			return true
		}
	}
	return false
}
