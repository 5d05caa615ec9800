// Command migrate creates the products and loyalty tables for the configured
// store backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/jackc/pgx/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/procat-batch/internal/config"
	"github.com/light-bringer/procat-batch/internal/pkg/logging"
	"github.com/light-bringer/procat-batch/internal/platform/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (defaults to $BATCH_CONFIG)")
	migrationsDir := flag.String("migrations", "migrations", "Directory holding one folder of .sql files per backend")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := migrate(context.Background(), cfg, *migrationsDir, logger); err != nil {
		logger.Error("migration failed", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
}

func migrate(ctx context.Context, cfg config.Config, dir string, logger *slog.Logger) error {
	switch cfg.Backend {
	case config.BackendSpanner, config.BackendPostgres:
	default:
		return fmt.Errorf("backend %q has no schema to migrate", cfg.Backend)
	}

	stmts, err := loadDDL(filepath.Join(dir, cfg.Backend))
	if err != nil {
		return err
	}

	if cfg.Backend == config.BackendSpanner {
		return migrateSpanner(ctx, cfg.SpannerDatabase, stmts, logger)
	}
	return migratePostgres(ctx, cfg.Postgres, stmts, logger)
}

// migrateSpanner creates the database with the schema, or applies the schema
// to an existing database. All DDL is IF NOT EXISTS, so reruns are no-ops.
func migrateSpanner(ctx context.Context, name string, stmts []string, logger *slog.Logger) error {
	db, err := parseDatabaseName(name)
	if err != nil {
		return err
	}

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		logger.Info("using Spanner emulator", "host", host)
		if err := ensureEmulatorInstance(ctx, db); err != nil {
			return err
		}
	}

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer admin.Close()

	created, err := admin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          db.instancePath(),
		CreateStatement: "CREATE DATABASE `" + db.database + "`",
		ExtraStatements: stmts,
	})
	if err == nil {
		_, err = created.Wait(ctx)
	}
	switch status.Code(err) {
	case codes.OK:
		logger.Info("database created", "database", name, "statements", len(stmts))
		return nil
	case codes.AlreadyExists:
	default:
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}

	update, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   name,
		Statements: stmts,
	})
	if err != nil {
		return fmt.Errorf("failed to update schema of %s: %w", name, err)
	}
	if err := update.Wait(ctx); err != nil {
		return fmt.Errorf("failed to update schema of %s: %w", name, err)
	}

	logger.Info("schema updated", "database", name, "statements", len(stmts))
	return nil
}

// ensureEmulatorInstance creates the instance on the emulator, which starts
// empty.
func ensureEmulatorInstance(ctx context.Context, db spannerDatabase) error {
	admin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer admin.Close()

	op, err := admin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + db.project,
		InstanceId: db.instance,
		Instance: &instancepb.Instance{
			Config:      "projects/" + db.project + "/instanceConfigs/emulator-config",
			DisplayName: db.instance,
			NodeCount:   1,
		},
	})
	if err == nil {
		_, err = op.Wait(ctx)
	}
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("failed to create instance %s: %w", db.instancePath(), err)
	}
	return nil
}

func migratePostgres(ctx context.Context, cfg postgres.Config, stmts []string, logger *slog.Logger) error {
	pool, err := postgres.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	defer pool.Close()

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply %q: %w", firstLine(stmt), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("schema updated", "backend", config.BackendPostgres, "statements", len(stmts))
	return nil
}

type spannerDatabase struct {
	project, instance, database string
}

func (d spannerDatabase) instancePath() string {
	return "projects/" + d.project + "/instances/" + d.instance
}

// parseDatabaseName splits projects/P/instances/I/databases/D.
func parseDatabaseName(name string) (spannerDatabase, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" ||
		parts[1] == "" || parts[3] == "" || parts[5] == "" {
		return spannerDatabase{}, fmt.Errorf("invalid Spanner database name %q", name)
	}
	return spannerDatabase{project: parts[1], instance: parts[3], database: parts[5]}, nil
}

// loadDDL reads every .sql file of dir in lexical order.
func loadDDL(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var stmts []string
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		stmts = append(stmts, splitStatements(string(content))...)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("no DDL statements found in %s", dir)
	}
	return stmts, nil
}

// splitStatements drops -- comment lines and splits on semicolons.
func splitStatements(sql string) []string {
	var b strings.Builder
	for line := range strings.Lines(sql) {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
	}

	var stmts []string
	for stmt := range strings.SplitSeq(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
