package models

import "time"

// Transaction is one row of the historical transactions table. Timestamp is
// kept raw: upstream writers are not trusted to produce parseable values, so
// parsing happens during feature derivation and a bad value degrades a single
// row instead of failing the fetch.
type Transaction struct {
	TxnID         int64
	AccountID     int64
	BeneficiaryID int64
	Amount        float64
	TxType        string
	Channel       string
	Timestamp     string
	DeviceID      string
	Location      string
	IsFraud       bool
}

// TransactionSnapshot is a full read of the transactions table together with
// the column names the read actually returned.
type TransactionSnapshot struct {
	Columns      []string
	Transactions []Transaction
}

// EnrichedTransaction is a transaction plus derived feature fields. Pointer
// fields are nil when the row's timestamp did not parse.
type EnrichedTransaction struct {
	Transaction

	OccurredAt *time.Time
	Hour       *int
	// DayOfWeek uses 0=Monday .. 6=Sunday.
	DayOfWeek   *int
	IsHighValue int
	// TxCount24h holds the account's total transaction count. The name is
	// historical and kept for model schema compatibility.
	TxCount24h      int
	AvgTxAmount     float64
	UniqueDevices   int
	UniqueLocations int
	Tx24hWindow     *int
}
