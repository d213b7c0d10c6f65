package main

import (
	"errors"

	"harambee_billing/internal/config"
	"harambee_billing/internal/infrastructure/database"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var errMigrateBackend = errors.New("migrations only apply to LEDGER_BACKEND=postgres; dynamodb tables are provisioned by infrastructure code")

func migrateCmd(rt *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the postgres ledger schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openMigrationDB(cmd, rt)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.MigrateUp(db); err != nil {
				return err
			}
			rt.log.Info("[migrate] schema up to date")
			return nil
		},
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			db, err := openMigrationDB(cmd, rt)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.MigrateDown(db, steps); err != nil {
				return err
			}
			rt.log.WithField("steps", steps).Info("[migrate] rolled back")
			return nil
		},
	}
	down.Flags().IntP("steps", "n", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func openMigrationDB(cmd *cobra.Command, rt *cliEnv) (*sqlx.DB, error) {
	if rt.cfg.LedgerBackend != config.BackendPostgres {
		return nil, errMigrateBackend
	}
	return database.ConnectPostgres(cmd.Context(), rt.cfg.DatabaseURL)
}
