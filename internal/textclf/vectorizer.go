package textclf

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Vector is a sparse feature row. Indices are sorted ascending and map
// into the vectorizer vocabulary.
type Vector struct {
	Indices []int
	Values  []float64
}

// TFIDFVectorizer converts raw text into L2-normalized TF-IDF features
// over word unigrams and bigrams. All fields are exported so fitted
// vectorizers can be gob-encoded by the model registry.
type TFIDFVectorizer struct {
	// MaxFeatures caps the vocabulary size; terms with the highest
	// document frequency are kept.
	MaxFeatures int

	// MinDocFreq drops terms that appear in fewer documents.
	MinDocFreq int

	// MaxDocShare drops terms that appear in more than this share of
	// documents (corpus-wide boilerplate).
	MaxDocShare float64

	Vocabulary map[string]int
	IDF        []float64
}

// NewTFIDFVectorizer returns a vectorizer with the defaults used by the
// baseline model: 10000 features, minimum document frequency 2, maximum
// document share 0.95.
func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		MaxFeatures: 10000,
		MinDocFreq:  2,
		MaxDocShare: 0.95,
	}
}

// Fitted reports whether the vectorizer carries a learned vocabulary.
func (v *TFIDFVectorizer) Fitted() bool {
	return len(v.Vocabulary) > 0
}

// FitTransform learns the vocabulary and IDF weights from texts and
// returns their feature rows.
func (v *TFIDFVectorizer) FitTransform(texts []string) []Vector {
	docTerms := make([][]string, len(texts))
	docFreq := make(map[string]int)
	for i, text := range texts {
		terms := extractTerms(text)
		docTerms[i] = terms
		for _, t := range uniqueTerms(terms) {
			docFreq[t]++
		}
	}

	maxDF := int(v.MaxDocShare * float64(len(texts)))
	if maxDF < 1 {
		maxDF = 1
	}
	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= v.MinDocFreq && df <= maxDF {
			candidates = append(candidates, term)
		}
	}

	// Keep the most frequent terms, ties broken alphabetically so the
	// fitted vocabulary is deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		if docFreq[candidates[i]] != docFreq[candidates[j]] {
			return docFreq[candidates[i]] > docFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if v.MaxFeatures > 0 && len(candidates) > v.MaxFeatures {
		candidates = candidates[:v.MaxFeatures]
	}
	sort.Strings(candidates)

	v.Vocabulary = make(map[string]int, len(candidates))
	v.IDF = make([]float64, len(candidates))
	n := float64(len(texts))
	for i, term := range candidates {
		v.Vocabulary[term] = i
		// Smoothed IDF, never zero so every vocabulary term contributes.
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	rows := make([]Vector, len(texts))
	for i, terms := range docTerms {
		rows[i] = v.vectorize(terms)
	}
	return rows
}

// Transform maps texts into the already-fitted feature space. Terms
// outside the vocabulary are ignored, keeping the feature space stable
// across model versions.
func (v *TFIDFVectorizer) Transform(texts []string) []Vector {
	rows := make([]Vector, len(texts))
	for i, text := range texts {
		rows[i] = v.vectorize(extractTerms(text))
	}
	return rows
}

func (v *TFIDFVectorizer) vectorize(terms []string) Vector {
	counts := make(map[int]float64)
	for _, t := range terms {
		if idx, ok := v.Vocabulary[t]; ok {
			counts[idx]++
		}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	norm := 0.0
	for _, idx := range vec.Indices {
		w := counts[idx] * v.IDF[idx]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// extractTerms lowercases text and produces word unigrams plus bigrams.
// Single-character tokens carry no signal and are dropped.
func extractTerms(text string) []string {
	tokens := tokenize(text)
	terms := make([]string, 0, len(tokens)*2)
	for i, tok := range tokens {
		terms = append(terms, tok)
		if i+1 < len(tokens) {
			terms = append(terms, tok+" "+tokens[i+1])
		}
	}
	return terms
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
