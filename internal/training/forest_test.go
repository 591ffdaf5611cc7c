package training_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulnikam/fraud-detection-app/internal/training"
)

// separableDataset is trivially separable on the second feature.
func separableDataset(n int) *training.Dataset {
	d := &training.Dataset{FeatureNames: []string{"noise", "signal"}}
	for i := 0; i < n; i++ {
		noise := float64(i % 7)
		if i%2 == 0 {
			d.X = append(d.X, []float64{noise, float64(i % 5)})
			d.Y = append(d.Y, 0)
		} else {
			d.X = append(d.X, []float64{noise, float64(100 + i%5)})
			d.Y = append(d.Y, 1)
		}
	}

	return d
}

func TestTrainForest_SeparableData(t *testing.T) {
	d := separableDataset(60)

	forest := training.TrainForest(d, training.ForestConfig{Trees: 15, MaxDepth: 4, Seed: 42})

	preds := forest.PredictBatch(d.X)
	for i := range d.Y {
		assert.Equal(t, d.Y[i], preds[i], "row %d", i)
	}
}

func TestTrainForest_Deterministic(t *testing.T) {
	cfg := training.ForestConfig{Trees: 10, MaxDepth: 5, Seed: 42}

	first := training.TrainForest(separableDataset(40), cfg)
	second := training.TrainForest(separableDataset(40), cfg)

	require.Equal(t, first, second)
}

func TestTrainForest_DifferentSeedsDiffer(t *testing.T) {
	first := training.TrainForest(separableDataset(40), training.ForestConfig{Trees: 10, MaxDepth: 5, Seed: 1})
	second := training.TrainForest(separableDataset(40), training.ForestConfig{Trees: 10, MaxDepth: 5, Seed: 2})

	assert.NotEqual(t, first, second)
}

func TestForestPredict_PureLeafOnUniformData(t *testing.T) {
	d := &training.Dataset{FeatureNames: []string{"f"}}
	for i := 0; i < 10; i++ {
		d.X = append(d.X, []float64{1})
		d.Y = append(d.Y, 1)
	}

	forest := training.TrainForest(d, training.ForestConfig{Trees: 3, MaxDepth: 3, Seed: 1})

	assert.Equal(t, 1, forest.Predict([]float64{1}))
}

func TestTrainForest_RespectsTreeCount(t *testing.T) {
	forest := training.TrainForest(separableDataset(20), training.ForestConfig{Trees: 7, MaxDepth: 3, Seed: 1})

	assert.Len(t, forest.Trees, 7)
	assert.Equal(t, 2, forest.Features)
}
