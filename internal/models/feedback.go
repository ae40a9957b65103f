package models

import "time"

// FeedbackRecord represents a single entry in the feedback table.
// Feedback is an append-only log: records are never updated or deleted,
// the retraining pipeline only ever reads them in bulk.
type FeedbackRecord struct {
	ID int64 `db:"id" json:"id"`

	// Original input text the prediction was made for
	Text string `db:"text" json:"text"`

	// Label the model produced at inference time. Advisory only, it is
	// stored for auditing and never re-validated against the schema.
	ModelPrediction string `db:"model_prediction" json:"model_prediction"`

	// Corrected label supplied by a human rater
	HumanLabel string `db:"human_label" json:"human_label"`

	// Model version that was active when the feedback was recorded
	ModelVersion int `db:"model_version" json:"model_version"`

	// Stamped by the store at the moment of acceptance, not by the caller
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TrainingPair is the projection of a feedback record consumed by the
// retraining pipeline: just the text and the human-asserted label name.
type TrainingPair struct {
	Text  string `db:"text" json:"text"`
	Label string `db:"human_label" json:"label"`
}
