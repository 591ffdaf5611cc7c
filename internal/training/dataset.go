package training

import (
	"github.com/rahulnikam/fraud-detection-app/internal/models"
)

// Numeric feature columns, in design-matrix order. Identifier of the row
// (txn_id) and the raw timestamp are dropped; time-derived and window
// features that are undefined for a row encode as -1.
var NumericColumns = []string{
	"account_id", "beneficiary_id", "amount",
	"hour", "day_of_week", "is_high_value",
	"tx_count_24h", "avg_tx_amount",
	"unique_devices", "unique_locations", "tx_24h_window",
}

// Dataset is a design matrix with a binary label vector (1 = fraud).
type Dataset struct {
	FeatureNames []string
	X            [][]float64
	Y            []int
}

func BuildDataset(rows []models.EnrichedTransaction, enc *OneHotEncoder) *Dataset {
	d := &Dataset{
		FeatureNames: append(append([]string{}, NumericColumns...), enc.FeatureNames()...),
		X:            make([][]float64, 0, len(rows)),
		Y:            make([]int, 0, len(rows)),
	}

	for i := range rows {
		d.X = append(d.X, EncodeFeatures(&rows[i], enc))

		label := 0
		if rows[i].IsFraud {
			label = 1
		}
		d.Y = append(d.Y, label)
	}

	return d
}

// EncodeFeatures builds one feature vector in the schema's column order.
// Shared with inference, which encodes unlabeled rows the same way.
func EncodeFeatures(r *models.EnrichedTransaction, enc *OneHotEncoder) []float64 {
	features := []float64{
		float64(r.AccountID),
		float64(r.BeneficiaryID),
		r.Amount,
		undefinedOr(r.Hour),
		undefinedOr(r.DayOfWeek),
		float64(r.IsHighValue),
		float64(r.TxCount24h),
		r.AvgTxAmount,
		float64(r.UniqueDevices),
		float64(r.UniqueLocations),
		undefinedOr(r.Tx24hWindow),
	}

	return append(features, enc.Transform(r)...)
}

func undefinedOr(v *int) float64 {
	if v == nil {
		return -1
	}

	return float64(*v)
}

func (d *Dataset) subset(idx []int) *Dataset {
	sub := &Dataset{
		FeatureNames: d.FeatureNames,
		X:            make([][]float64, 0, len(idx)),
		Y:            make([]int, 0, len(idx)),
	}

	for _, i := range idx {
		sub.X = append(sub.X, d.X[i])
		sub.Y = append(sub.Y, d.Y[i])
	}

	return sub
}

func (d *Dataset) classIndexes() map[int][]int {
	byClass := map[int][]int{}
	for i, y := range d.Y {
		byClass[y] = append(byClass[y], i)
	}

	return byClass
}
