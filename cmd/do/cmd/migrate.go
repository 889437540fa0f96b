package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/tagbox/internal/config"
	"github.com/templui/tagbox/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations (uses DB_DRIVER and DB_CONNECTION)",
	}

	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", db.RunMigrations),
		migrateSubcommand("down", "Roll back the most recent migration", db.MigrateDown),
		migrateSubcommand("status", "Show applied and pending migrations", db.MigrationStatus),
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(func(database *sql.DB, driver string) error {
					version, err := db.Version(database, driver)
					if err != nil {
						return err
					}
					fmt.Println(version)
					return nil
				})
			},
		},
	)
	return cmd
}

func migrateSubcommand(use, short string, fn func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(fn)
		},
	}
}

func withDatabase(fn func(database *sql.DB, driver string) error) error {
	driver, connection := config.LoadDatabase()

	database, err := db.Init(driver, connection)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(database.DB, driver)
}
