package textclf

import (
	"fmt"
	"math"
	"math/rand"
)

// LinearClassifier is a multinomial logistic regression model trained
// with stochastic gradient descent. Fields are exported for gob
// serialization by the model registry.
type LinearClassifier struct {
	NumClasses  int
	NumFeatures int
	Weights     [][]float64 // [class][feature]
	Bias        []float64

	Epochs    int
	LearnRate float64
	L2        float64
	Seed      int64
}

// NewLinearClassifier returns an untrained classifier with the default
// hyperparameters used by both baseline training and retraining.
func NewLinearClassifier(numClasses, numFeatures int) *LinearClassifier {
	return &LinearClassifier{
		NumClasses:  numClasses,
		NumFeatures: numFeatures,
		Epochs:      10,
		LearnRate:   0.5,
		L2:          1e-5,
		Seed:        42,
	}
}

// Fit trains the classifier on sparse feature rows and integer label
// ids. Sample order is shuffled per epoch with a fixed seed, so training
// is deterministic for identical inputs.
func (c *LinearClassifier) Fit(rows []Vector, labels []int) error {
	if len(rows) == 0 {
		return fmt.Errorf("classifier: empty training set")
	}
	if len(rows) != len(labels) {
		return fmt.Errorf("classifier: %d rows but %d labels", len(rows), len(labels))
	}
	for i, y := range labels {
		if y < 0 || y >= c.NumClasses {
			return fmt.Errorf("classifier: label %d at row %d outside [0,%d)", y, i, c.NumClasses)
		}
	}

	c.Weights = make([][]float64, c.NumClasses)
	for k := range c.Weights {
		c.Weights[k] = make([]float64, c.NumFeatures)
	}
	c.Bias = make([]float64, c.NumClasses)

	rng := rand.New(rand.NewSource(c.Seed))
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < c.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		// Step size shrinks each epoch so later passes fine-tune.
		lr := c.LearnRate / (1 + float64(epoch))
		for _, idx := range order {
			c.step(rows[idx], labels[idx], lr)
		}
	}
	return nil
}

func (c *LinearClassifier) step(row Vector, label int, lr float64) {
	probs := softmax(c.scores(row))
	for k := 0; k < c.NumClasses; k++ {
		grad := probs[k]
		if k == label {
			grad -= 1
		}
		c.Bias[k] -= lr * grad
		w := c.Weights[k]
		for i, fi := range row.Indices {
			w[fi] -= lr * (grad*row.Values[i] + c.L2*w[fi])
		}
	}
}

// Predict returns the most probable label id for each row.
func (c *LinearClassifier) Predict(rows []Vector) []int {
	preds := make([]int, len(rows))
	for i, row := range rows {
		best, bestScore := 0, math.Inf(-1)
		for k, s := range c.scores(row) {
			if s > bestScore {
				best, bestScore = k, s
			}
		}
		preds[i] = best
	}
	return preds
}

// PredictProba returns the per-class probability distribution for each
// row. Rows sum to 1.
func (c *LinearClassifier) PredictProba(rows []Vector) [][]float64 {
	probs := make([][]float64, len(rows))
	for i, row := range rows {
		probs[i] = softmax(c.scores(row))
	}
	return probs
}

func (c *LinearClassifier) scores(row Vector) []float64 {
	scores := make([]float64, c.NumClasses)
	for k := 0; k < c.NumClasses; k++ {
		s := c.Bias[k]
		w := c.Weights[k]
		for i, fi := range row.Indices {
			if fi < len(w) {
				s += w[fi] * row.Values[i]
			}
		}
		scores[k] = s
	}
	return scores
}

func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	probs := make([]float64, len(scores))
	sum := 0.0
	for k, s := range scores {
		probs[k] = math.Exp(s - maxScore)
		sum += probs[k]
	}
	for k := range probs {
		probs[k] /= sum
	}
	return probs
}
