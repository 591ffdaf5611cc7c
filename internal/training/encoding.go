package training

import (
	"sort"

	"github.com/rahulnikam/fraud-detection-app/internal/models"
)

// Categorical columns encoded one-hot, in design-matrix order.
var CategoricalColumns = []string{"tx_type", "channel", "location", "device_id"}

// OneHotEncoder maps categorical transaction attributes to indicator
// features. Vocabularies are sorted so the encoded column order is a pure
// function of the training data. The encoder is persisted with the model so
// an inference process encodes with the identical schema; values unseen at
// fit time encode as all zeros.
type OneHotEncoder struct {
	Categories map[string][]string `json:"categories"`
}

func FitOneHot(rows []models.EnrichedTransaction) *OneHotEncoder {
	seen := map[string]map[string]struct{}{}
	for _, c := range CategoricalColumns {
		seen[c] = map[string]struct{}{}
	}

	for _, r := range rows {
		seen["tx_type"][r.TxType] = struct{}{}
		seen["channel"][r.Channel] = struct{}{}
		seen["location"][r.Location] = struct{}{}
		seen["device_id"][r.DeviceID] = struct{}{}
	}

	enc := &OneHotEncoder{Categories: map[string][]string{}}
	for _, c := range CategoricalColumns {
		vocab := make([]string, 0, len(seen[c]))
		for v := range seen[c] {
			vocab = append(vocab, v)
		}
		sort.Strings(vocab)
		enc.Categories[c] = vocab
	}

	return enc
}

func (enc *OneHotEncoder) FeatureNames() []string {
	names := []string{}
	for _, c := range CategoricalColumns {
		for _, v := range enc.Categories[c] {
			names = append(names, c+"="+v)
		}
	}

	return names
}

func (enc *OneHotEncoder) Transform(r *models.EnrichedTransaction) []float64 {
	values := map[string]string{
		"tx_type":   r.TxType,
		"channel":   r.Channel,
		"location":  r.Location,
		"device_id": r.DeviceID,
	}

	encoded := []float64{}
	for _, c := range CategoricalColumns {
		for _, v := range enc.Categories[c] {
			if values[c] == v {
				encoded = append(encoded, 1)
			} else {
				encoded = append(encoded, 0)
			}
		}
	}

	return encoded
}
