package training

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/models"
	"go.uber.org/zap"
)

var ErrNoTrainingData = errors.New("training: no transactions to train on")

type TransactionsRepository interface {
	All(ctx context.Context) (*models.TransactionSnapshot, error)
}

type FeatureEngine interface {
	Enrich(snapshot *models.TransactionSnapshot) ([]models.EnrichedTransaction, error)
}

type RetrainPublisher interface {
	PublishRetrain(ctx context.Context, event *models.RetrainEvent) error
}

// Trainer runs one full retrain cycle: fetch the transactions snapshot,
// derive features, stratified-split, oversample the training partition, fit
// the forest, evaluate on the held-out partition and persist the artifact.
type Trainer struct {
	cfg          *config.Config
	lg           *logging.ZapLogger
	transactions TransactionsRepository
	engine       FeatureEngine
	publisher    RetrainPublisher
}

type RunSummary struct {
	ModelVersion string
	RowsTotal    int
	RowsTrain    int
	RowsTest     int
	Report       *Report
	Duration     time.Duration
}

func NewTrainer(
	cfg *config.Config,
	lg *logging.ZapLogger,
	transactions TransactionsRepository,
	engine FeatureEngine,
	publisher RetrainPublisher,
) *Trainer {
	return &Trainer{
		cfg:          cfg,
		lg:           lg,
		transactions: transactions,
		engine:       engine,
		publisher:    publisher,
	}
}

// Run is reproducible: every randomized stage (split, oversampling, forest
// construction) derives from the configured seed, so identical input yields
// identical evaluation metrics. No artifact is written when any stage fails.
func (t *Trainer) Run(ctx context.Context) (*RunSummary, error) {
	started := time.Now()
	ctx = t.lg.WithContextFields(ctx, zap.String("name", "trainer"))

	snapshot, err := t.transactions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("trainer: fetch transactions error %w", err)
	}

	t.lg.DebugCtx(ctx, "transactions snapshot loaded", zap.Int("rows", len(snapshot.Transactions)))

	enriched, err := t.engine.Enrich(snapshot)
	if err != nil {
		return nil, fmt.Errorf("trainer: feature derivation error %w", err)
	}

	if len(enriched) == 0 {
		return nil, ErrNoTrainingData
	}

	encoder := FitOneHot(enriched)
	dataset := BuildDataset(enriched, encoder)

	rng := rand.New(rand.NewSource(t.cfg.TrainSeed))
	train, test, err := StratifiedSplit(dataset, t.cfg.TestSplitPercent, rng)
	if err != nil {
		return nil, fmt.Errorf("trainer: split error %w", err)
	}

	train = OversampleMinority(train, rng)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("trainer: run cancelled before fit %w", err)
	}

	t.lg.DebugCtx(
		ctx,
		"fitting random forest",
		zap.Int("train_rows", len(train.Y)),
		zap.Int("test_rows", len(test.Y)),
		zap.Int("features", len(train.FeatureNames)),
	)

	forest := TrainForest(train, ForestConfig{
		Trees:    t.cfg.ForestTrees,
		MaxDepth: t.cfg.ForestMaxDepth,
		Seed:     t.cfg.TrainSeed,
	})

	report := EvaluateReport(test.Y, forest.PredictBatch(test.X))

	artifact := &Artifact{
		ModelVersion: uuid.NewString(),
		TrainedAt:    time.Now().UTC(),
		Seed:         t.cfg.TrainSeed,
		Schema: Schema{
			FeatureNames: dataset.FeatureNames,
			Categorical:  encoder,
		},
		Forest: forest,
		Report: report,
	}

	if err := artifact.Save(t.cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("trainer: persist artifact error %w", err)
	}

	summary := &RunSummary{
		ModelVersion: artifact.ModelVersion,
		RowsTotal:    len(enriched),
		RowsTrain:    len(train.Y),
		RowsTest:     len(test.Y),
		Report:       report,
		Duration:     time.Since(started),
	}

	t.publish(ctx, summary)

	t.lg.InfoCtx(
		ctx,
		"model retrained",
		zap.String("model_version", summary.ModelVersion),
		zap.String("model_path", t.cfg.ModelPath),
		zap.Float64("accuracy", report.Accuracy),
		zap.Any("classes", report.Classes),
		zap.Duration("duration", summary.Duration),
	)

	return summary, nil
}

// publish emits the retrain-completed event. Failures are logged only: the
// artifact is already durable and the next cycle republishes fresher state.
func (t *Trainer) publish(ctx context.Context, summary *RunSummary) {
	f1 := map[string]float64{}
	for class, m := range summary.Report.Classes {
		f1[class] = m.F1
	}

	err := t.publisher.PublishRetrain(ctx, &models.RetrainEvent{
		UUID:         uuid.NewString(),
		ModelVersion: summary.ModelVersion,
		ModelPath:    t.cfg.ModelPath,
		TrainedAt:    time.Now().UTC(),
		RowsTotal:    summary.RowsTotal,
		RowsTrain:    summary.RowsTrain,
		RowsTest:     summary.RowsTest,
		F1ByClass:    f1,
	})
	if err != nil {
		t.lg.ErrorCtx(ctx, "publish retrain event error", zap.Error(err))
	}
}
