package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/happyhackingspace/campo/internal/textutil"
	"github.com/happyhackingspace/campo/internal/vectorizer"
)

// Model is a trained multinomial logistic-regression classifier over signal
// text, together with the vocabulary used to vectorize it. The triple is
// loaded and replaced atomically; it is never partially updated.
type Model struct {
	Classes   []FieldType                 `json:"classes"`
	Coef      [][]float64                 `json:"coef"`      // [numClasses][numFeatures]
	Intercept []float64                   `json:"intercept"` // [numClasses]
	Vocab     *vectorizer.CountVectorizer `json:"vocab"`
}

// Vectorize converts signal text to a unit-length feature vector over the
// model's vocabulary. The result is all-zero when no token is recognized.
func (m *Model) Vectorize(text string) vectorizer.SparseVector {
	sv := m.Vocab.Transform(textutil.Normalize(text))
	sv.Normalize()
	return sv
}

// Scores returns softmax probabilities per class for a feature vector.
func (m *Model) Scores(sv vectorizer.SparseVector) []float64 {
	logits := make([]float64, len(m.Classes))
	for c := range m.Classes {
		logits[c] = sv.Dot(m.Coef[c]) + m.Intercept[c]
	}
	return softmax(logits)
}

// Best returns the arg-max class and its score.
func (m *Model) Best(sv vectorizer.SparseVector) (FieldType, float64) {
	probs := m.Scores(sv)
	bestIdx := 0
	for i, p := range probs {
		if p > probs[bestIdx] {
			bestIdx = i
		}
	}
	return m.Classes[bestIdx], probs[bestIdx]
}

// SaveModel serializes the model to a JSON file.
func SaveModel(m *Model, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadModelFile deserializes a model from a JSON file.
func LoadModelFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalModel(data)
}

// UnmarshalModel deserializes a model from JSON bytes.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Classes) == 0 || m.Vocab == nil {
		return nil, fmt.Errorf("model is incomplete")
	}
	if len(m.Coef) != len(m.Classes) || len(m.Intercept) != len(m.Classes) {
		return nil, fmt.Errorf("model shape mismatch: %d classes, %d coef rows, %d intercepts",
			len(m.Classes), len(m.Coef), len(m.Intercept))
	}
	return &m, nil
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
