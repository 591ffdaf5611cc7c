// Package features derives the model's behavioral and temporal features from
// a snapshot of the transactions table. The derivation is pure: no I/O, the
// input snapshot is never mutated, and identical input produces identical
// output.
package features

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rahulnikam/fraud-detection-app/internal/models"
)

var RequiredColumns = []string{
	"txn_id", "account_id", "amount", "timestamp",
	"tx_type", "channel", "device_id", "location",
}

// SchemaError reports required columns absent from the input snapshot.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("features: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

const windowSize = 24 * time.Hour

const highValueFactor = 3.0

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Enrich returns one enriched row per input row, in input order.
//
// Rows whose timestamp does not parse keep their place in every groupwise
// aggregate (total count, mean amount, device and location cardinality, the
// global high-value mean) but are excluded from the 24h rolling window; their
// Hour, DayOfWeek and Tx24hWindow stay nil.
func (e *Engine) Enrich(snapshot *models.TransactionSnapshot) ([]models.EnrichedTransaction, error) {
	if err := e.validateColumns(snapshot.Columns); err != nil {
		return nil, err
	}

	out := make([]models.EnrichedTransaction, len(snapshot.Transactions))

	var amountSum float64
	for i, t := range snapshot.Transactions {
		out[i].Transaction = t
		amountSum += t.Amount

		ts, ok := parseTimestamp(t.Timestamp)
		if !ok {
			continue
		}

		hour := ts.Hour()
		dow := mondayIndexed(ts.Weekday())
		out[i].OccurredAt = &ts
		out[i].Hour = &hour
		out[i].DayOfWeek = &dow
	}

	if len(out) == 0 {
		return out, nil
	}

	meanAmount := amountSum / float64(len(out))
	groups := e.groupByAccount(out)

	for i := range out {
		if out[i].Amount > meanAmount*highValueFactor {
			out[i].IsHighValue = 1
		}

		g := groups[out[i].AccountID]
		out[i].TxCount24h = g.count
		out[i].AvgTxAmount = g.amountSum / float64(g.count)
		out[i].UniqueDevices = len(g.devices)
		out[i].UniqueLocations = len(g.locations)
	}

	for _, g := range groups {
		e.slidingWindowCounts(out, g.timedIdx)
	}

	return out, nil
}

type accountGroup struct {
	count     int
	amountSum float64
	devices   map[string]struct{}
	locations map[string]struct{}
	// indexes into the output slice for rows with a parsed timestamp
	timedIdx []int
}

// groupByAccount builds every per-account aggregate in one pass.
func (e *Engine) groupByAccount(rows []models.EnrichedTransaction) map[int64]*accountGroup {
	groups := map[int64]*accountGroup{}

	for i, r := range rows {
		g, ok := groups[r.AccountID]
		if !ok {
			g = &accountGroup{
				devices:   map[string]struct{}{},
				locations: map[string]struct{}{},
			}
			groups[r.AccountID] = g
		}

		g.count++
		g.amountSum += r.Amount
		g.devices[r.DeviceID] = struct{}{}
		g.locations[r.Location] = struct{}{}

		if r.OccurredAt != nil {
			g.timedIdx = append(g.timedIdx, i)
		}
	}

	return groups
}

// slidingWindowCounts fills Tx24hWindow for one account: rows sorted by
// timestamp ascending (ties broken by txn_id), one forward sweep with a
// trailing two-pointer window. The window is (t-24h, t]: a row exactly 24
// hours older falls outside it.
func (e *Engine) slidingWindowCounts(rows []models.EnrichedTransaction, timedIdx []int) {
	sort.Slice(timedIdx, func(a, b int) bool {
		ta, tb := rows[timedIdx[a]].OccurredAt, rows[timedIdx[b]].OccurredAt
		if ta.Equal(*tb) {
			return rows[timedIdx[a]].TxnID < rows[timedIdx[b]].TxnID
		}
		return ta.Before(*tb)
	})

	lo := 0
	for hi, idx := range timedIdx {
		windowStart := rows[idx].OccurredAt.Add(-windowSize)
		for !rows[timedIdx[lo]].OccurredAt.After(windowStart) {
			lo++
		}

		count := hi - lo + 1
		rows[idx].Tx24hWindow = &count
	}
}

func (e *Engine) validateColumns(columns []string) error {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}

	missing := []string{}
	for _, c := range RequiredColumns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}

	return nil
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

// mondayIndexed converts Go's Sunday-based weekday to 0=Monday .. 6=Sunday.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
