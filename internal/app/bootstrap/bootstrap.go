package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	aggregatepoll "agora/contexts/campus-election/aggregate-poll"
	pollpostgres "agora/contexts/campus-election/aggregate-poll/adapters/postgres"
	pollworkers "agora/contexts/campus-election/aggregate-poll/application/workers"
	credentialservice "agora/contexts/campus-election/credential-service"
	credentialpostgres "agora/contexts/campus-election/credential-service/adapters/postgres"
	credentialworkers "agora/contexts/campus-election/credential-service/application/workers"
	electionservice "agora/contexts/campus-election/election-service"
	electionmemory "agora/contexts/campus-election/election-service/adapters/memory"
	electionpostgres "agora/contexts/campus-election/election-service/adapters/postgres"
	electionworkers "agora/contexts/campus-election/election-service/application/workers"
	"agora/internal/platform/config"
	"agora/internal/platform/db"
	"agora/internal/platform/httpserver"
	"agora/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres           *db.Postgres
	credentialRelay    credentialworkers.OutboxRelay
	electionRelay      electionworkers.OutboxRelay
	pollRelay          pollworkers.OutboxRelay
	credentialConsumer electionworkers.CredentialLifecycleConsumer
	cfg                config.Config
	pollInterval       time.Duration
	logger             *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	credentialRepo := credentialpostgres.NewRepository(pg.DB, logger)
	credentialModule := credentialservice.NewModule(credentialservice.Dependencies{
		Credentials: credentialRepo,
		Outbox:      credentialRepo,
		Clock:       credentialpostgres.SystemClock{},
		IDGen:       credentialpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	// The election ledger lives in memory while its storage rollout is
	// pending. The outbox and the credential standing projection are
	// postgres-backed so the worker process can relay the events and keep the
	// projection current.
	electionStore := electionmemory.NewStore()
	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	electionModule := electionservice.NewModule(electionservice.Dependencies{
		Election:    electionStore,
		Credentials: electionRepo,
		Outbox:      electionRepo,
		Clock:       electionpostgres.SystemClock{},
		IDGen:       electionpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	pollRepo := pollpostgres.NewRepository(pg.DB, logger)
	pollModule := aggregatepoll.NewModule(aggregatepoll.Dependencies{
		Polls:  pollRepo,
		Outbox: pollRepo,
		Clock:  pollpostgres.SystemClock{},
		IDGen:  pollpostgres.UUIDGenerator{},
		Logger: logger,
	})

	server := httpserver.New(credentialModule, electionModule, pollModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	credentialRepo := credentialpostgres.NewRepository(pg.DB, logger)
	pollRepo := pollpostgres.NewRepository(pg.DB, logger)
	electionRepo := electionpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		credentialRelay: credentialworkers.OutboxRelay{
			Outbox:    credentialRepo,
			Publisher: kafka,
			Clock:     credentialpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		electionRelay: electionworkers.OutboxRelay{
			Outbox:    electionRepo,
			Publisher: kafka,
			Clock:     electionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		pollRelay: pollworkers.OutboxRelay{
			Outbox:    pollRepo,
			Publisher: kafka,
			Clock:     pollpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		credentialConsumer: electionworkers.CredentialLifecycleConsumer{
			Subscriber:    kafka,
			Dedup:         electionRepo,
			Credentials:   electionRepo,
			Clock:         electionpostgres.SystemClock{},
			ConsumerGroup: "election-service-credential-cg",
			DedupTTL:      7 * 24 * time.Hour,
			Logger:        logger,
		},
		cfg:          cfg,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.cfg.EnableCredentialProjection {
		if err := w.credentialConsumer.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.cfg.EnableCredentialOutboxRelay {
			if err := w.credentialRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnableElectionOutboxRelay {
			if err := w.electionRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnablePollOutboxRelay {
			if err := w.pollRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
