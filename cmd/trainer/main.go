package main

import (
	"context"

	main_config "github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/events"
	"github.com/rahulnikam/fraud-detection-app/internal/features"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/repositories"
	"github.com/rahulnikam/fraud-detection-app/internal/storage"
	"github.com/rahulnikam/fraud-detection-app/internal/training"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
			training.NewTrainer,

			fx.Annotate(repositories.NewTransactionsRepository, fx.As(new(training.TransactionsRepository))),
			fx.Annotate(features.NewEngine, fx.As(new(training.FeatureEngine))),
			fx.Annotate(events.NewRetrainPublisher, fx.As(new(training.RetrainPublisher))),
		),
		fx.Supply(
			main_config.MustNewConfig(),
		),
		fx.Invoke(
			runTrainer,
		),
	)
}

// runTrainer executes a single fetch->enrich->train->persist cycle and exits
// with a non-zero code on any fatal error.
func runTrainer(lc fx.Lifecycle, trainer *training.Trainer, shutdowner fx.Shutdowner, lg *logging.ZapLogger) {
	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if _, err := trainer.Run(context.Background()); err != nil {
						lg.ErrorCtx(context.Background(), "retrain run finished error", zap.Error(err))
						shutdowner.Shutdown(fx.ExitCode(1))
						return
					}

					shutdowner.Shutdown(fx.ExitCode(0))
				}()

				return nil
			},
		},
	)
}
