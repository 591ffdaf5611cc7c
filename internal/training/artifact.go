package training

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Schema is everything an inference process needs to rebuild the design
// matrix the model was trained on.
type Schema struct {
	FeatureNames []string       `json:"feature_names"`
	Categorical  *OneHotEncoder `json:"categorical"`
}

// Artifact is the persisted output of one training run.
type Artifact struct {
	ModelVersion string    `json:"model_version"`
	TrainedAt    time.Time `json:"trained_at"`
	Seed         int64     `json:"seed"`
	Schema       Schema    `json:"schema"`
	Forest       *Forest   `json:"forest"`
	Report       *Report   `json:"report"`
}

// Save writes the artifact to path, creating intermediate directories. The
// write goes to a temp file in the target directory first and is renamed into
// place, so a concurrent reader never sees a partial artifact.
func (a *Artifact) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("training: create artifact directory error %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("training: create artifact temp file error %w", err)
	}

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(a); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("training: encode artifact error %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("training: close artifact temp file error %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("training: rename artifact error %w", err)
	}

	return nil
}

func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("training: open artifact error %w", err)
	}
	defer f.Close()

	a := &Artifact{}
	if err := json.NewDecoder(f).Decode(a); err != nil {
		return nil, fmt.Errorf("training: decode artifact error %w", err)
	}

	return a, nil
}
