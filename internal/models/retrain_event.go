package models

import "time"

// RetrainEvent is published after a successful retrain cycle.
type RetrainEvent struct {
	UUID         string             `json:"uuid"`
	ModelVersion string             `json:"model_version"`
	ModelPath    string             `json:"model_path"`
	TrainedAt    time.Time          `json:"trained_at"`
	RowsTotal    int                `json:"rows_total"`
	RowsTrain    int                `json:"rows_train"`
	RowsTest     int                `json:"rows_test"`
	F1ByClass    map[string]float64 `json:"f1_by_class"`
}
