package training_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulnikam/fraud-detection-app/internal/models"
	"github.com/rahulnikam/fraud-detection-app/internal/training"
)

func encoderRows() []models.EnrichedTransaction {
	mk := func(txType, channel, location, device string) models.EnrichedTransaction {
		return models.EnrichedTransaction{Transaction: models.Transaction{
			TxType: txType, Channel: channel, Location: location, DeviceID: device,
		}}
	}

	return []models.EnrichedTransaction{
		mk("UPI", "Web", "Pune", "D2"),
		mk("NEFT", "ATM", "Mumbai", "D1"),
		mk("UPI", "Web", "Mumbai", "D1"),
	}
}

func TestFitOneHot_SortedVocabularies(t *testing.T) {
	enc := training.FitOneHot(encoderRows())

	assert.Equal(t, []string{"NEFT", "UPI"}, enc.Categories["tx_type"])
	assert.Equal(t, []string{"ATM", "Web"}, enc.Categories["channel"])
	assert.Equal(t, []string{"Mumbai", "Pune"}, enc.Categories["location"])
	assert.Equal(t, []string{"D1", "D2"}, enc.Categories["device_id"])

	assert.Equal(t, []string{
		"tx_type=NEFT", "tx_type=UPI",
		"channel=ATM", "channel=Web",
		"location=Mumbai", "location=Pune",
		"device_id=D1", "device_id=D2",
	}, enc.FeatureNames())
}

func TestOneHotTransform(t *testing.T) {
	enc := training.FitOneHot(encoderRows())

	rows := encoderRows()
	encoded := enc.Transform(&rows[0])
	assert.Equal(t, []float64{0, 1, 0, 1, 0, 1, 0, 1}, encoded)
}

func TestOneHotTransform_UnknownCategoryIsAllZeros(t *testing.T) {
	enc := training.FitOneHot(encoderRows())

	unknown := models.EnrichedTransaction{Transaction: models.Transaction{
		TxType: "RTGS", Channel: "Branch", Location: "Delhi", DeviceID: "D9",
	}}

	for _, v := range enc.Transform(&unknown) {
		assert.Equal(t, 0.0, v)
	}
}

func TestBuildDataset(t *testing.T) {
	hour := 9
	dow := 2
	window := 3
	row := models.EnrichedTransaction{
		Transaction: models.Transaction{
			TxnID: 17, AccountID: 101, BeneficiaryID: 202, Amount: 1500,
			TxType: "UPI", Channel: "Web", Location: "Pune", DeviceID: "D2",
			IsFraud: true,
		},
		Hour: &hour, DayOfWeek: &dow, IsHighValue: 1,
		TxCount24h: 5, AvgTxAmount: 1200.5, UniqueDevices: 2, UniqueLocations: 1,
		Tx24hWindow: &window,
	}

	enc := training.FitOneHot([]models.EnrichedTransaction{row})
	d := training.BuildDataset([]models.EnrichedTransaction{row}, enc)

	require.Len(t, d.X, 1)
	require.Len(t, d.Y, 1)
	assert.Equal(t, 1, d.Y[0])

	numeric := d.X[0][:len(training.NumericColumns)]
	assert.Equal(t, []float64{101, 202, 1500, 9, 2, 1, 5, 1200.5, 2, 1, 3}, numeric)
	assert.Len(t, d.FeatureNames, len(d.X[0]))
}

func TestBuildDataset_UndefinedTimeFeaturesEncodeAsMinusOne(t *testing.T) {
	row := models.EnrichedTransaction{
		Transaction: models.Transaction{AccountID: 1, Amount: 10, TxType: "UPI", Channel: "Web", Location: "Pune", DeviceID: "D1"},
	}

	enc := training.FitOneHot([]models.EnrichedTransaction{row})
	d := training.BuildDataset([]models.EnrichedTransaction{row}, enc)

	// hour, day_of_week, tx_24h_window
	assert.Equal(t, -1.0, d.X[0][3])
	assert.Equal(t, -1.0, d.X[0][4])
	assert.Equal(t, -1.0, d.X[0][10])
}
