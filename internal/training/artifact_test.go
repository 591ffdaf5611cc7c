package training_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulnikam/fraud-detection-app/internal/training"
)

func sampleArtifact(t *testing.T) *training.Artifact {
	t.Helper()

	d := separableDataset(30)
	forest := training.TrainForest(d, training.ForestConfig{Trees: 5, MaxDepth: 3, Seed: 42})

	return &training.Artifact{
		ModelVersion: "8f14e45f-ea8b-4b6a-9d5c-111111111111",
		TrainedAt:    time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC),
		Seed:         42,
		Schema: training.Schema{
			FeatureNames: d.FeatureNames,
			Categorical:  &training.OneHotEncoder{Categories: map[string][]string{"tx_type": {"NEFT", "UPI"}}},
		},
		Forest: forest,
		Report: training.EvaluateReport(d.Y, forest.PredictBatch(d.X)),
	}
}

func TestArtifactSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "nested", "random_forest.json")

	artifact := sampleArtifact(t)
	require.NoError(t, artifact.Save(path))

	loaded, err := training.LoadArtifact(path)
	require.NoError(t, err)

	assert.Equal(t, artifact.ModelVersion, loaded.ModelVersion)
	assert.Equal(t, artifact.Seed, loaded.Seed)
	assert.Equal(t, artifact.Schema, loaded.Schema)
	assert.Equal(t, artifact.Report, loaded.Report)

	// the reloaded forest predicts identically
	probe := []float64{3, 102}
	assert.Equal(t, artifact.Forest.Predict(probe), loaded.Forest.Predict(probe))
}

func TestArtifactSave_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "random_forest.json")

	require.NoError(t, sampleArtifact(t).Save(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "random_forest.json", entries[0].Name())
}

func TestArtifactSave_OverwritesPreviousVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "random_forest.json")

	first := sampleArtifact(t)
	require.NoError(t, first.Save(path))

	second := sampleArtifact(t)
	second.ModelVersion = "00000000-0000-0000-0000-222222222222"
	require.NoError(t, second.Save(path))

	loaded, err := training.LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, second.ModelVersion, loaded.ModelVersion)
}

func TestArtifactSave_UnwritableTarget(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := sampleArtifact(t).Save(filepath.Join(blocker, "sub", "random_forest.json"))
	require.Error(t, err)
}

func TestLoadArtifact_MissingFile(t *testing.T) {
	_, err := training.LoadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
