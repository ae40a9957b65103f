// Package corpus loads the original labeled train/test split consumed
// by baseline training and retraining.
package corpus

// Dataset is the original corpus: texts plus integer label ids indexing
// LabelNames, already split into train and test partitions.
type Dataset struct {
	TrainTexts  []string
	TrainLabels []int
	TestTexts   []string
	TestLabels  []int
	LabelNames  []string
}

// Source provides the corpus. The CSV loader is the production
// implementation; tests substitute in-memory sources.
type Source interface {
	Load() (*Dataset, error)
}
