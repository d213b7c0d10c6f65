package main

import (
	"context"
	"fmt"

	"harambee_billing/internal/adapter/persistence/repository"
	"harambee_billing/internal/adapter/ratelimit"
	"harambee_billing/internal/config"
	"harambee_billing/internal/infrastructure/cache"
	"harambee_billing/internal/infrastructure/database"
	"harambee_billing/internal/infrastructure/payments"
	"harambee_billing/internal/usecase/interfaces"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type ledger interface {
	interfaces.ILedgerRepository
	repository.CampaignSeeder
}

func openLedger(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (ledger, func(), error) {
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Info("[ledger] using postgres backend")
		return repository.NewLedgerPostgresRepository(db), func() { _ = db.Close() }, nil

	case config.BackendDynamoDB:
		client, err := database.ConnectDynamoDB(ctx, database.DynamoDBOptions{
			Region:          cfg.DynamoDB.Region,
			Endpoint:        cfg.DynamoDB.Endpoint,
			AccessKeyID:     cfg.DynamoDB.AccessKeyID,
			SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		log.WithField("region", cfg.DynamoDB.Region).Info("[ledger] using dynamodb backend")
		return repository.NewLedgerDynamoRepository(client, repository.LedgerTables{
			Campaigns:    cfg.DynamoDB.CampaignsTable,
			Intents:      cfg.DynamoDB.IntentsTable,
			Correlations: cfg.DynamoDB.CorrelationsTable,
			Donations:    cfg.DynamoDB.DonationsTable,
		}), func() {}, nil

	default:
		log.Warn("[ledger] using in-memory backend; data is lost on restart")
		return repository.NewLedgerMemoryRepository(database.SampleCampaigns()...), func() {}, nil
	}
}

// openGuard prefers the shared Redis window. Without Redis the per-process
// window is used; the returned memory guard needs periodic Prune calls.
func openGuard(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (interfaces.IAdmissionGuard, *ratelimit.MemorySlidingWindow, *redis.Client) {
	if cfg.RedisURL != "" {
		client, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		if err == nil {
			log.Info("[ratelimit][redis] using shared sliding window")
			return ratelimit.NewRedisSlidingWindow(client, cfg.RateLimitMax, cfg.RateLimitWindow, log), nil, client
		}
		log.WithError(err).Warn("[ratelimit][redis] unavailable; falling back to in-process window")
	}
	mem := ratelimit.NewMemorySlidingWindow(cfg.RateLimitMax, cfg.RateLimitWindow)
	return mem, mem, nil
}

func openGateway(cfg config.Config, log logrus.FieldLogger) (*payments.MpesaGateway, interfaces.IPaymentGateway) {
	gw, err := payments.NewMpesaGateway(payments.MpesaConfig{
		ConsumerKey:       cfg.Mpesa.ConsumerKey,
		ConsumerSecret:    cfg.Mpesa.ConsumerSecret,
		Passkey:           cfg.Mpesa.Passkey,
		ShortCode:         cfg.Mpesa.ShortCode,
		CallbackURL:       cfg.Mpesa.CallbackURL,
		Environment:       cfg.Mpesa.Environment,
		BaseURL:           cfg.Mpesa.BaseURL,
		Timeout:           cfg.GatewayTimeout,
		RequestsPerSecond: cfg.GatewayRPS,
		MockMode:          cfg.PaymentGatewayMock,
	}, log)
	if err != nil {
		log.WithError(err).Error("[payment][gateway] M-Pesa gateway not configured; donations will be refused")
		return nil, nil
	}
	return gw, gw
}
