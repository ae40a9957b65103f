package evaluation

import (
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluateKnownExample(t *testing.T) {
	labels := []string{"World", "Sports", "Business"}
	trueLabels := []int{0, 0, 1, 1, 2, 0}
	predLabels := []int{0, 1, 1, 1, 2, 0}

	m, err := Evaluate(trueLabels, predLabels, labels)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if !almostEqual(m.Accuracy, 5.0/6.0) {
		t.Errorf("accuracy = %f, want %f", m.Accuracy, 5.0/6.0)
	}

	wantConfusion := [][]int{
		{2, 1, 0},
		{0, 2, 0},
		{0, 0, 1},
	}
	if !reflect.DeepEqual(m.ConfusionMatrix, wantConfusion) {
		t.Errorf("confusion matrix = %v, want %v", m.ConfusionMatrix, wantConfusion)
	}

	world := m.PerClass["World"]
	if !almostEqual(world.Precision, 1) || !almostEqual(world.Recall, 2.0/3.0) || world.Support != 3 {
		t.Errorf("World metrics = %+v", world)
	}
	sports := m.PerClass["Sports"]
	if !almostEqual(sports.Precision, 2.0/3.0) || !almostEqual(sports.Recall, 1) || sports.Support != 2 {
		t.Errorf("Sports metrics = %+v", sports)
	}

	if !almostEqual(m.F1Macro, (0.8+0.8+1)/3) {
		t.Errorf("f1_macro = %f", m.F1Macro)
	}
	if !almostEqual(m.F1Weighted, (0.8*3+0.8*2+1)/6) {
		t.Errorf("f1_weighted = %f", m.F1Weighted)
	}
}

func TestConfusionRowSumsEqualSupport(t *testing.T) {
	labels := []string{"a", "b", "c", "d"}
	trueLabels := []int{0, 1, 2, 0, 1, 2, 3, 3, 1}
	predLabels := []int{0, 2, 2, 1, 1, 0, 3, 0, 1}

	m, err := Evaluate(trueLabels, predLabels, labels)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	for k, name := range labels {
		rowSum := 0
		for _, n := range m.ConfusionMatrix[k] {
			rowSum += n
		}
		if rowSum != m.PerClass[name].Support {
			t.Errorf("row %d sum = %d, support = %d", k, rowSum, m.PerClass[name].Support)
		}
	}
}

func TestZeroSupportLabelsAreReported(t *testing.T) {
	labels := []string{"World", "Sports", "Business", "Sci/Tech"}
	trueLabels := []int{0, 0, 1}
	predLabels := []int{0, 0, 1}

	m, err := Evaluate(trueLabels, predLabels, labels)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	for _, name := range []string{"Business", "Sci/Tech"} {
		c, ok := m.PerClass[name]
		if !ok {
			t.Fatalf("zero-support label %q omitted", name)
		}
		if c.Precision != 0 || c.Recall != 0 || c.F1 != 0 || c.Support != 0 {
			t.Errorf("zero-support label %q = %+v, want all zeros", name, c)
		}
	}
	if len(m.ConfusionMatrix) != 4 || len(m.ConfusionMatrix[0]) != 4 {
		t.Errorf("confusion matrix not %dx%d", 4, 4)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	labels := []string{"a", "b"}
	trueLabels := []int{0, 1, 1, 0}
	predLabels := []int{0, 1, 0, 0}

	a, err := Evaluate(trueLabels, predLabels, labels)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	b, err := Evaluate(trueLabels, predLabels, labels)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different metrics")
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	if _, err := Evaluate([]int{0}, []int{0, 1}, []string{"a"}); err == nil {
		t.Error("length mismatch accepted")
	}
	if _, err := Evaluate([]int{0}, []int{0}, nil); err == nil {
		t.Error("empty schema accepted")
	}
	if _, err := Evaluate([]int{2}, []int{0}, []string{"a", "b"}); err == nil {
		t.Error("out-of-schema true label accepted")
	}
	if _, err := Evaluate([]int{0}, []int{2}, []string{"a", "b"}); err == nil {
		t.Error("out-of-schema predicted label accepted")
	}
}
