// Package evaluation computes classification metrics for one model
// version. The engine is stateless; persistence of the resulting record
// is owned by the metrics repository.
package evaluation

import (
	"fmt"

	"github.com/joshibibhushan/HumanLoopML/internal/models"
)

// Evaluate computes accuracy, macro and weighted F1, per-class
// precision/recall/F1/support and the confusion matrix for a prediction
// run. Every label in labelNames gets a per-class entry even with zero
// support. The confusion matrix is ordered by schema index, rows are
// true labels and columns are predicted labels.
func Evaluate(trueLabels, predLabels []int, labelNames []string) (*models.Metrics, error) {
	if len(trueLabels) != len(predLabels) {
		return nil, fmt.Errorf("evaluation: %d true labels but %d predictions", len(trueLabels), len(predLabels))
	}
	n := len(labelNames)
	if n == 0 {
		return nil, fmt.Errorf("evaluation: empty label schema")
	}

	confusion := make([][]int, n)
	for i := range confusion {
		confusion[i] = make([]int, n)
	}
	correct := 0
	for i, yt := range trueLabels {
		yp := predLabels[i]
		if yt < 0 || yt >= n {
			return nil, fmt.Errorf("evaluation: true label %d at row %d outside schema of %d labels", yt, i, n)
		}
		if yp < 0 || yp >= n {
			return nil, fmt.Errorf("evaluation: predicted label %d at row %d outside schema of %d labels", yp, i, n)
		}
		confusion[yt][yp]++
		if yt == yp {
			correct++
		}
	}

	accuracy := 0.0
	if len(trueLabels) > 0 {
		accuracy = float64(correct) / float64(len(trueLabels))
	}

	perClass := make(map[string]models.ClassMetrics, n)
	f1Sum, f1WeightedSum := 0.0, 0.0
	totalSupport := 0
	for k, name := range labelNames {
		support := 0
		predicted := 0
		for j := 0; j < n; j++ {
			support += confusion[k][j]
			predicted += confusion[j][k]
		}
		tp := confusion[k][k]

		precision := safeDiv(float64(tp), float64(predicted))
		recall := safeDiv(float64(tp), float64(support))
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		perClass[name] = models.ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}
		f1Sum += f1
		f1WeightedSum += f1 * float64(support)
		totalSupport += support
	}

	return &models.Metrics{
		Accuracy:        accuracy,
		F1Macro:         f1Sum / float64(n),
		F1Weighted:      safeDiv(f1WeightedSum, float64(totalSupport)),
		PerClass:        perClass,
		ConfusionMatrix: confusion,
		LabelNames:      append([]string(nil), labelNames...),
	}, nil
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
