package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVSource reads the AG News CSV export: one row per sample with a
// 1-based class index followed by title and description columns.
type CSVSource struct {
	TrainPath string
	TestPath  string

	// Labels is the ordered schema the class indices map into. Defaults
	// to the AG News categories.
	Labels []string
}

// NewCSVSource creates a source for the given train/test CSV files with
// the AG News label schema.
func NewCSVSource(trainPath, testPath string) *CSVSource {
	return &CSVSource{
		TrainPath: trainPath,
		TestPath:  testPath,
		Labels:    []string{"World", "Sports", "Business", "Sci/Tech"},
	}
}

// Load reads both partitions and validates every label id against the
// schema.
func (s *CSVSource) Load() (*Dataset, error) {
	trainTexts, trainLabels, err := s.readFile(s.TrainPath)
	if err != nil {
		return nil, fmt.Errorf("train corpus: %w", err)
	}
	testTexts, testLabels, err := s.readFile(s.TestPath)
	if err != nil {
		return nil, fmt.Errorf("test corpus: %w", err)
	}
	return &Dataset{
		TrainTexts:  trainTexts,
		TrainLabels: trainLabels,
		TestTexts:   testTexts,
		TestLabels:  testLabels,
		LabelNames:  append([]string(nil), s.Labels...),
	}, nil
}

func (s *CSVSource) readFile(path string) ([]string, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var texts []string
	var labels []int
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		line++
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("row %d: expected class and text columns, got %d", line, len(row))
		}

		classIndex, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: bad class index %q: %w", line, row[0], err)
		}
		// CSV classes are 1-based, label ids are 0-based schema indices.
		label := classIndex - 1
		if label < 0 || label >= len(s.Labels) {
			return nil, nil, fmt.Errorf("row %d: class index %d outside schema of %d labels", line, classIndex, len(s.Labels))
		}

		texts = append(texts, strings.Join(row[1:], " "))
		labels = append(labels, label)
	}
	return texts, labels, nil
}
