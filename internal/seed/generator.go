package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/models"
	"go.uber.org/zap"
)

var txTypes = []string{"NEFT", "RTGS", "UPI", "IMPS", "QuickPay"}
var channels = []string{"MobileApp", "Web", "ATM", "Branch"}
var locations = []string{"Mumbai", "Delhi", "Pune", "Chennai", "Bangalore", "Hyderabad", "Kolkata", "Ahmedabad"}

const fraudRate = 0.02

type TransactionsRepository interface {
	BulkInsert(ctx context.Context, in []models.Transaction) (int64, error)
}

// Generator fills the transactions table with synthetic rows matching the
// upstream data profile, for local development and model smoke testing.
type Generator struct {
	cfg          *config.Config
	lg           *logging.ZapLogger
	transactions TransactionsRepository
}

func NewGenerator(cfg *config.Config, lg *logging.ZapLogger, transactions TransactionsRepository) *Generator {
	return &Generator{cfg: cfg, lg: lg, transactions: transactions}
}

func (g *Generator) Generate(ctx context.Context) (int64, error) {
	rng := rand.New(rand.NewSource(g.cfg.SeedGeneratorSeed))
	rows := GenerateTransactions(rng, g.cfg.SeedRecordsCount, time.Now())

	inserted, err := g.transactions.BulkInsert(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("seed: insert synthetic transactions error %w", err)
	}

	g.lg.InfoCtx(ctx, "synthetic transactions inserted", zap.Int64("count", inserted))

	return inserted, nil
}

// GenerateTransactions produces count synthetic rows: 100 accounts, 300
// beneficiaries, amounts between 100 and 200000, timestamps uniform over the
// trailing 60 days and a 2% fraud rate.
func GenerateTransactions(rng *rand.Rand, count int, now time.Time) []models.Transaction {
	devices := make([]string, 0, 100)
	for i := 1; i <= 100; i++ {
		devices = append(devices, fmt.Sprintf("DEV%d", 1000+i))
	}

	start := now.AddDate(0, 0, -60)

	rows := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		ts := start.
			AddDate(0, 0, rng.Intn(60)).
			Add(time.Duration(rng.Intn(86400)) * time.Second)

		rows = append(rows, models.Transaction{
			AccountID:     int64(1001 + rng.Intn(100)),
			BeneficiaryID: int64(2001 + rng.Intn(300)),
			Amount:        math.Round((100+rng.Float64()*(200000-100))*100) / 100,
			TxType:        txTypes[rng.Intn(len(txTypes))],
			Channel:       channels[rng.Intn(len(channels))],
			Timestamp:     ts.Format("2006-01-02 15:04:05"),
			DeviceID:      devices[rng.Intn(len(devices))],
			Location:      locations[rng.Intn(len(locations))],
			IsFraud:       rng.Float64() < fraudRate,
		})
	}

	return rows
}
