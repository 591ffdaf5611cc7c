package metrics

import (
	"context"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Server exposes the retrain metrics over HTTP for scraping.
type Server struct {
	cfg *config.Config
	srv *http.Server
}

func NewServer(lc fx.Lifecycle, cfg *config.Config, lg *logging.ZapLogger, m *RetrainMetrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	srv := &Server{
		cfg: cfg,
		srv: &http.Server{Addr: cfg.MetricsServerAddress, Handler: mux},
	}

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				lis, err := net.Listen("tcp", cfg.MetricsServerAddress)
				if err != nil {
					return err
				}

				lg.InfoCtx(ctx, "metrics server started", zap.String("address", cfg.MetricsServerAddress))
				go srv.srv.Serve(lis)

				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.srv.Shutdown(ctx)
			},
		},
	)

	return srv
}
