package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medicare/billing-console/internal/config"
	"github.com/medicare/billing-console/internal/domain/report"
	"github.com/medicare/billing-console/internal/platform/apiclient"
	"github.com/medicare/billing-console/internal/platform/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "console-server",
		Short: "Hospital billing console backend",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the console API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return logger
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the console's own tables (sessions, audit trail)",
	}

	// migrate up
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closeFn, err := openMigrator(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := migrator.Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	// migrate status
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closeFn, err := openMigrator(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatuses(cmd, statuses)
			return nil
		},
	})

	return cmd
}

func printStatuses(cmd *cobra.Command, statuses []db.MigrationStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(out, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func openMigrator(ctx context.Context) (*db.Migrator, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for migrations")
	}
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return nil, nil, err
	}
	return db.NewMigrator(pool, db.Migrations()), pool.Close, nil
}

// reportCmd fetches a report section with a bearer token and prints it as
// JSON. It goes through the same service as GET /api/reports.
func reportCmd() *cobra.Command {
	var from, to, token string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a date-ranged report from the billing API",
	}
	cmd.PersistentFlags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CONSOLE_API_TOKEN"), "Bearer token for the billing API")

	section := func(name string, run func(ctx context.Context, svc *report.Service, r report.Range) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: "Print the " + name + " report",
			RunE: func(cmd *cobra.Command, args []string) error {
				if token == "" {
					return fmt.Errorf("--token is required")
				}
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				client := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout))
				svc := report.NewService(report.NewAPIRepo(client), zerolog.Nop())

				ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.APITimeout+5*time.Second)
				defer cancel()
				ctx = apiclient.WithToken(ctx, token)

				result, err := run(ctx, svc, report.Range{From: from, To: to})
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			},
		}
	}

	cmd.AddCommand(section(report.SectionBilling, func(ctx context.Context, svc *report.Service, r report.Range) (any, error) {
		return svc.Billing(ctx, r)
	}))
	cmd.AddCommand(section(report.SectionPayments, func(ctx context.Context, svc *report.Service, r report.Range) (any, error) {
		return svc.Payments(ctx, r)
	}))
	cmd.AddCommand(section(report.SectionInsurance, func(ctx context.Context, svc *report.Service, r report.Range) (any, error) {
		return svc.Insurance(ctx, r)
	}))
	cmd.AddCommand(section("all", func(ctx context.Context, svc *report.Service, r report.Range) (any, error) {
		return svc.All(ctx, r)
	}))

	return cmd
}
