package main

import (
	"fmt"

	"harambee_billing/internal/infrastructure/database"
	"harambee_billing/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func sweepCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire stale pending intents once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeLedger, err := openLedger(cmd.Context(), rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer closeLedger()

			n, err := usecase.NewIntentExpiryUseCase(repo, rt.cfg.IntentTimeout, rt.log).ExpireStale(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d intent(s)\n", n)
			return nil
		},
	}
}

func seedCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample campaigns if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeLedger, err := openLedger(cmd.Context(), rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer closeLedger()

			for _, c := range database.SampleCampaigns() {
				created, err := repo.SeedCampaign(cmd.Context(), c)
				if err != nil {
					return fmt.Errorf("seed %s: %w", c.ID, err)
				}
				rt.log.WithFields(logrus.Fields{"campaign_id": c.ID, "created": created}).Info("[seed] campaign")
			}
			return nil
		},
	}
}
