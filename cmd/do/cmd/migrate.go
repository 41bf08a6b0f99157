package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/onyxhabits/onyx/internal/config"
	"github.com/onyxhabits/onyx/internal/db"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator) error {
			return m.Up(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator) error {
			return m.Down(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator) error {
			status, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range status {
				applied := "pending"
				if s.State == goose.StateApplied {
					applied = s.AppliedAt.Local().Format(time.DateTime)
				}
				fmt.Printf("%-40s %s\n", s.Source.Path, applied)
			}

			version, err := m.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Println("schema version:", version)
			return nil
		}),
	})

	return cmd
}

func withMigrator(fn func(ctx context.Context, m *db.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		driver, connection := config.LoadDatabase()

		database, err := db.Init(driver, connection)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(database) }()

		migrator, err := db.NewMigrator(database.DB, driver)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), migrator)
	}
}
