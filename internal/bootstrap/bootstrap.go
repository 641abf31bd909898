package bootstrap

import (
	"context"
	"fmt"

	"github.com/amoghlakshman/cafe-insights/internal/config"
	"github.com/amoghlakshman/cafe-insights/internal/core/ports"
	"github.com/amoghlakshman/cafe-insights/internal/core/usecase"
	"github.com/amoghlakshman/cafe-insights/internal/infrastructure/dataset"
	"github.com/amoghlakshman/cafe-insights/internal/infrastructure/ml"
	"github.com/amoghlakshman/cafe-insights/internal/infrastructure/queue/nats"
	"github.com/amoghlakshman/cafe-insights/internal/infrastructure/reference"
	"github.com/amoghlakshman/cafe-insights/internal/infrastructure/repository/postgres"
	"github.com/amoghlakshman/cafe-insights/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Audit ports.PredictionLog

	PredictUC  *usecase.PredictUseCase
	PersonaUC  *usecase.PersonaMatchUseCase
	EstimateUC *usecase.SpendEstimateUseCase
	InsightsUC *usecase.InsightsUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, observer usecase.PredictObserver) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	audit := postgres.NewPredictionRepository(db)
	if err := audit.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	referenceTables, err := reference.New()
	if err != nil {
		return nil, fmt.Errorf("load reference tables: %w", err)
	}

	sources := []ports.DatasetSource{
		dataset.NewFileSource("primary_file", cfg.DataPathPrimary),
		dataset.NewFileSource("secondary_file", cfg.DataPathSecondary),
		dataset.NewRemoteSource(cfg.DataRemoteURL, cfg.DataFetchTimeout, executor),
	}
	trainer := ml.NewTrainer(ml.TrainerConfig{
		Neighbors: cfg.KNNNeighbors,
		SampleCap: cfg.TrainSampleCap,
		Seed:      cfg.TrainSeed,
	})

	predictUC := usecase.NewPredictUseCase(sources, trainer, usecase.NewFallbackScorer(), queue, observer)

	return &App{
		Config: cfg,
		Queue:  queue,
		Audit:  audit,

		PredictUC:  predictUC,
		PersonaUC:  usecase.NewPersonaMatchUseCase(),
		EstimateUC: usecase.NewSpendEstimateUseCase(),
		InsightsUC: usecase.NewInsightsUseCase(referenceTables),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
