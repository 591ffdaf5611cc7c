package main

import (
	"context"

	main_config "github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/repositories"
	"github.com/rahulnikam/fraud-detection-app/internal/seed"
	"github.com/rahulnikam/fraud-detection-app/internal/storage"
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
			storage.NewStorage,
			seed.NewGenerator,

			fx.Annotate(repositories.NewTransactionsRepository, fx.As(new(seed.TransactionsRepository))),
		),
		fx.Supply(
			main_config.MustNewConfig(),
		),
		fx.Invoke(
			runGenerator,
		),
	)
}

func runGenerator(lc fx.Lifecycle, generator *seed.Generator, shutdowner fx.Shutdowner, lg *logging.ZapLogger) {
	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if _, err := generator.Generate(context.Background()); err != nil {
						lg.ErrorCtx(context.Background(), "seed transactions finished error", zap.Error(err))
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
