package models

// ClassMetrics holds per-class evaluation results.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Metrics is the full evaluation record for one model version.
// The JSON shape is the on-disk/API contract; the confusion matrix is a
// square matrix ordered by label schema index, rows are true labels and
// columns are predicted labels.
type Metrics struct {
	Accuracy        float64                 `json:"accuracy"`
	F1Macro         float64                 `json:"f1_macro"`
	F1Weighted      float64                 `json:"f1_weighted"`
	PerClass        map[string]ClassMetrics `json:"per_class"`
	ConfusionMatrix [][]int                 `json:"confusion_matrix"`
	LabelNames      []string                `json:"label_names"`
}

// MetricsSummary is the condensed view used when comparing versions.
type MetricsSummary struct {
	Accuracy   float64 `json:"accuracy"`
	F1Macro    float64 `json:"f1_macro"`
	F1Weighted float64 `json:"f1_weighted"`
}
