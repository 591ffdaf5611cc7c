package main

import (
	main_config "github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/events"
	"github.com/rahulnikam/fraud-detection-app/internal/features"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/metrics"
	"github.com/rahulnikam/fraud-detection-app/internal/repositories"
	"github.com/rahulnikam/fraud-detection-app/internal/scheduler"
	"github.com/rahulnikam/fraud-detection-app/internal/storage"
	"github.com/rahulnikam/fraud-detection-app/internal/training"
	"go.uber.org/fx"
)

func main() {
	fx.New(CreateApp()).Run()
}

func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(
			logging.NewZapLogger,
			logging.NewKafkaLogger,
			logging.NewKafkaErrorLogger,
			storage.NewStorage,
			metrics.NewRetrainMetrics,
			metrics.NewServer,
			scheduler.NewDaemon,

			fx.Annotate(repositories.NewTransactionsRepository, fx.As(new(training.TransactionsRepository))),
			fx.Annotate(features.NewEngine, fx.As(new(training.FeatureEngine))),
			fx.Annotate(events.NewRetrainPublisher, fx.As(new(training.RetrainPublisher))),
			fx.Annotate(training.NewTrainer, fx.As(new(scheduler.RetrainJob))),
		),
		fx.Supply(
			main_config.MustNewConfig(),
		),
		fx.Invoke(
			startDaemon,
			startMetricsServer,
		),
	)
}

func startDaemon(*scheduler.Daemon)      {}
func startMetricsServer(*metrics.Server) {}
