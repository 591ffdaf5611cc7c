package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RetrainPublisher announces completed retrains on a Kafka topic so model
// consumers can reload the artifact. When no brokers are configured the
// publisher is a no-op.
type RetrainPublisher struct {
	lg     *logging.ZapLogger
	writer *kafka.Writer
}

func NewRetrainPublisher(
	lc fx.Lifecycle,
	cfg *config.Config,
	lg *logging.ZapLogger,
	logger *logging.KafkaLogger,
	errLogger *logging.KafkaErrorLogger,
) *RetrainPublisher {
	pub := &RetrainPublisher{lg: lg}

	if len(cfg.KafkaBrokers) == 0 {
		lg.DebugCtx(context.Background(), "no kafka brokers configured, retrain events disabled")
		return pub
	}

	pub.writer = &kafka.Writer{
		Addr:        kafka.TCP(cfg.KafkaBrokers...),
		Topic:       cfg.KafkaRetrainTopic,
		Balancer:    &kafka.LeastBytes{},
		Logger:      logger,
		ErrorLogger: errLogger,
	}

	lc.Append(
		fx.Hook{
			OnStop: func(ctx context.Context) error {
				return pub.writer.Close()
			},
		},
	)

	return pub
}

func (pub *RetrainPublisher) PublishRetrain(ctx context.Context, event *models.RetrainEvent) error {
	if pub.writer == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal retrain event error %w", err)
	}

	if err := pub.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.UUID), Value: payload}); err != nil {
		return fmt.Errorf("events: write retrain event error %w", err)
	}

	pub.lg.InfoCtx(ctx, "retrain event published", zap.String("event_uuid", event.UUID), zap.String("model_version", event.ModelVersion))

	return nil
}
