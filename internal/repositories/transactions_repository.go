package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/models"
	"github.com/rahulnikam/fraud-detection-app/internal/storage"
)

type TransactionsRepository struct {
	strg TransactionsStorage
	lg   *logging.ZapLogger
}

type TransactionsStorage interface {
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func NewTransactionsRepository(strg *storage.Storage, lg *logging.ZapLogger) *TransactionsRepository {
	return &TransactionsRepository{strg: strg.DB, lg: lg}
}

// All reads the full transactions table. The returned snapshot carries the
// column names of the read so downstream feature derivation can verify its
// required columns are present.
func (rep *TransactionsRepository) All(ctx context.Context) (*models.TransactionSnapshot, error) {
	rows, err := rep.strg.Query(
		ctx,
		`
			SELECT txn_id, account_id, COALESCE(beneficiary_id, 0) AS beneficiary_id,
			       amount, COALESCE(tx_type, '') AS tx_type, COALESCE(channel, '') AS channel,
			       COALESCE(timestamp, '') AS timestamp, COALESCE(device_id, '') AS device_id,
			       COALESCE(location, '') AS location, COALESCE(is_fraud, FALSE) AS is_fraud
			FROM transactions
			ORDER BY txn_id ASC
		`,
	)
	if err != nil {
		return nil, fmt.Errorf("transactions_repository: fetch transactions error %w", err)
	}
	defer rows.Close()

	snapshot := &models.TransactionSnapshot{
		Columns:      make([]string, 0, len(rows.FieldDescriptions())),
		Transactions: []models.Transaction{},
	}
	for _, fd := range rows.FieldDescriptions() {
		snapshot.Columns = append(snapshot.Columns, fd.Name)
	}

	for rows.Next() {
		t := models.Transaction{}
		if err := rows.Scan(
			&t.TxnID,
			&t.AccountID,
			&t.BeneficiaryID,
			&t.Amount,
			&t.TxType,
			&t.Channel,
			&t.Timestamp,
			&t.DeviceID,
			&t.Location,
			&t.IsFraud,
		); err != nil {
			return nil, fmt.Errorf("transactions_repository: scan transactions error %w", err)
		}

		snapshot.Transactions = append(snapshot.Transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transactions_repository: iterate transactions error %w", err)
	}

	return snapshot, nil
}

func (rep *TransactionsRepository) Count(ctx context.Context) (int64, error) {
	row := rep.strg.QueryRow(ctx, `SELECT count(*) FROM transactions`)

	var result int64
	if err := row.Scan(&result); err != nil {
		return 0, fmt.Errorf("transactions_repository: count transactions error %w", err)
	}

	return result, nil
}

func (rep *TransactionsRepository) BulkInsert(ctx context.Context, in []models.Transaction) (int64, error) {
	rows := make([][]any, 0, len(in))
	for _, t := range in {
		rows = append(rows, []any{
			t.AccountID, t.BeneficiaryID, t.Amount, t.TxType,
			t.Channel, t.Timestamp, t.DeviceID, t.Location, t.IsFraud,
		})
	}

	inserted, err := rep.strg.CopyFrom(
		ctx,
		pgx.Identifier{"transactions"},
		[]string{"account_id", "beneficiary_id", "amount", "tx_type", "channel", "timestamp", "device_id", "location", "is_fraud"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("transactions_repository: bulk insert error %w", err)
	}

	return inserted, nil
}
