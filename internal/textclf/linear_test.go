package textclf

import (
	"math"
	"reflect"
	"testing"
)

// toyRows builds a linearly separable two-feature problem: class 0
// fires feature 0, class 1 fires feature 1.
func toyRows() ([]Vector, []int) {
	var rows []Vector
	var labels []int
	for i := 0; i < 20; i++ {
		rows = append(rows, Vector{Indices: []int{0}, Values: []float64{1}})
		labels = append(labels, 0)
		rows = append(rows, Vector{Indices: []int{1}, Values: []float64{1}})
		labels = append(labels, 1)
	}
	return rows, labels
}

func TestFitLearnsSeparableData(t *testing.T) {
	rows, labels := toyRows()
	c := NewLinearClassifier(2, 2)
	if err := c.Fit(rows, labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds := c.Predict([]Vector{
		{Indices: []int{0}, Values: []float64{1}},
		{Indices: []int{1}, Values: []float64{1}},
	})
	if preds[0] != 0 || preds[1] != 1 {
		t.Errorf("predictions = %v, want [0 1]", preds)
	}
}

func TestPredictProbaSumsToOne(t *testing.T) {
	rows, labels := toyRows()
	c := NewLinearClassifier(2, 2)
	if err := c.Fit(rows, labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for _, probs := range c.PredictProba(rows) {
		sum := 0.0
		for _, p := range probs {
			if p < 0 || p > 1 {
				t.Fatalf("probability %f outside [0,1]", p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("probabilities sum to %f, want 1", sum)
		}
	}
}

func TestFitIsDeterministic(t *testing.T) {
	rows, labels := toyRows()

	a := NewLinearClassifier(2, 2)
	b := NewLinearClassifier(2, 2)
	if err := a.Fit(rows, labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := b.Fit(rows, labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if !reflect.DeepEqual(a.Weights, b.Weights) || !reflect.DeepEqual(a.Bias, b.Bias) {
		t.Error("two fits on identical input produced different parameters")
	}
}

func TestFitRejectsBadInput(t *testing.T) {
	c := NewLinearClassifier(2, 2)

	if err := c.Fit(nil, nil); err == nil {
		t.Error("empty training set accepted")
	}
	if err := c.Fit([]Vector{{}}, []int{0, 1}); err == nil {
		t.Error("row/label length mismatch accepted")
	}
	if err := c.Fit([]Vector{{}}, []int{5}); err == nil {
		t.Error("out-of-range label accepted")
	}
}
