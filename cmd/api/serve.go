package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"harambee_billing/internal/adapter/http/handlers"
	"harambee_billing/internal/adapter/http/middleware"
	"harambee_billing/internal/adapter/http/routes"
	"harambee_billing/internal/infrastructure/metrics"
	"harambee_billing/internal/usecase"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func serveCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the intent expiry sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *cliEnv) error {
	cfg, log := rt.cfg, rt.log

	repo, closeLedger, err := openLedger(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLedger()

	guard, memGuard, redisClient := openGuard(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}
	mpesa, gateway := openGateway(cfg, log)

	reconciliation := usecase.NewReconciliationUseCase(repo, gateway, guard, usecase.ReconciliationOptions{
		MinAmount:      cfg.DonationMinAmount,
		MaxAmount:      cfg.DonationMaxAmount,
		GatewayTimeout: cfg.GatewayTimeout,
	}, log)
	expiry := usecase.NewIntentExpiryUseCase(repo, cfg.IntentTimeout, log)

	checks := map[string]handlers.HealthCheck{"database": repo.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router, err := routes.NewRouter(routes.Dependencies{
		Reconciliation: reconciliation,
		PaymentStatus:  usecase.NewPaymentStatusUseCase(repo),
		Campaigns:      usecase.NewCampaignUseCase(repo),
		Health:         handlers.NewHealthHandler(mpesa.Mode(), checks),
		CallbackOrigin: middleware.CallbackOriginConfig{Token: cfg.CallbackToken, AllowedNets: cfg.CallbackAllowedCIDRs},
		TrustedProxies: cfg.TrustedProxies,
		Log:            log,
	})
	if err != nil {
		return err
	}

	scheduler := cron.New(
		cron.WithLogger(cron.PrintfLogger(log)),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
	)
	if _, err := scheduler.AddFunc(cfg.ExpirySweepSchedule, func() {
		if n, err := expiry.ExpireStale(ctx); err == nil {
			metrics.RecordExpired(n)
		}
		if memGuard != nil {
			memGuard.Prune()
		}
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	return routes.Run(ctx, router, net.JoinHostPort("", cfg.HTTPPort), log)
}
