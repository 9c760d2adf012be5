package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/paymentd/config"
	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/data"
	"github.com/ledgerline/paymentd/internal/notify/webhook"
	"github.com/ledgerline/paymentd/internal/service"
)

// ServiceDeps contains the external dependencies for service construction.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the constructed services.
type ServiceContainer struct {
	Payments   *service.PaymentService
	Processor  *service.Processor
	Dispatcher *service.Dispatcher
	Receiver   *service.Receiver
}

// NewServices wires stores and services according to the configuration.
func NewServices(deps *ServiceDeps) ServiceContainer {
	cfg := deps.Config
	logger := deps.Logger

	repo := buildPaymentRepo(cfg, deps.DB)
	index := buildIndex(cfg, deps.DB, deps.RedisClient)
	dedup := buildDedup(cfg, deps.RedisClient)

	var notifier core.Notifier
	if cfg.Webhook.URL != "" {
		client, err := webhook.NewClient(webhook.Config{
			EndpointURL: cfg.Webhook.URL,
			MaxAttempts: cfg.Webhook.MaxAttempts,
			Backoff:     cfg.Webhook.Backoff,
			Timeout:     cfg.Webhook.Timeout,
			BodyExpr:    cfg.Webhook.BodyExpr,
			Logger:      logger,
		})
		if err != nil {
			// Config sanitization keeps these inputs valid; an invalid URL
			// is a deployment mistake worth failing fast on.
			panic(err)
		}
		notifier = client
	} else if logger != nil {
		logger.Warn("webhook url not configured; terminal events will not be delivered")
	}

	processor := service.MustNewProcessor(service.ProcessorOptions{
		Repo: repo,
		Performer: service.NewSimulatedProvider(service.SimulatedProviderOptions{
			Delay:       cfg.Processor.Delay,
			FailureRate: cfg.Processor.FailureRate,
		}),
		Notifier: notifier,
		Logger:   logger,
	})

	dispatcher := service.MustNewDispatcher(service.DispatcherOptions{
		Processor: processor,
		Workers:   cfg.Processor.Workers,
		QueueSize: cfg.Processor.QueueSize,
		Logger:    logger,
	})

	payments := service.MustNewPaymentService(service.PaymentServiceOptions{
		Repo:      repo,
		Index:     index,
		Scheduler: dispatcher,
		Logger:    logger,
	})

	receiver := service.MustNewReceiver(service.ReceiverOptions{
		Dedup:  dedup,
		Logger: logger,
	})

	return ServiceContainer{
		Payments:   payments,
		Processor:  processor,
		Dispatcher: dispatcher,
		Receiver:   receiver,
	}
}

func buildPaymentRepo(cfg *config.AppConfig, db *sql.DB) core.PaymentRepository {
	if cfg.Store.Payments == config.StoreBackendPostgres && db != nil {
		return data.NewPaymentRepo(db)
	}
	return data.NewMemoryPaymentRepo()
}

func buildIndex(cfg *config.AppConfig, db *sql.DB, rc redis.UniversalClient) core.IdempotencyIndex {
	switch cfg.Store.Index {
	case config.StoreBackendPostgres:
		if db != nil {
			return data.NewPGIdempotencyIndex(db)
		}
	case config.StoreBackendRedis:
		if rc != nil {
			return data.NewRedisIdempotencyIndex(rc)
		}
	}
	return data.NewMemoryIdempotencyIndex()
}

func buildDedup(cfg *config.AppConfig, rc redis.UniversalClient) core.EventDedup {
	if cfg.Store.Dedup == config.StoreBackendRedis && rc != nil {
		return data.NewRedisEventDedup(rc)
	}
	return data.NewMemoryEventDedup()
}
