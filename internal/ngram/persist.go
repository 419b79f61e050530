package ngram

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// triKeySep joins the two context words of a trigram key on disk.
// Tokens come from whitespace splitting, so a tab can never appear
// inside one.
const triKeySep = "\t"

type modelState struct {
	Lambda1      float64                       `json:"lambda1"`
	Lambda2      float64                       `json:"lambda2"`
	Lambda3      float64                       `json:"lambda3"`
	UnigramProbs map[string]float64            `json:"unigram_probs"`
	BigramProbs  map[string]map[string]float64 `json:"bigram_probs"`
	TrigramProbs map[string]map[string]float64 `json:"trigram_probs"`
	VocabSize    int                           `json:"vocab_size"`
	TotalTokens  int                           `json:"total_tokens"`
}

// Save serializes the model to path as JSON.
func (m *Model) Save(path string) error {
	if !m.Trained() {
		return ErrNotTrained
	}
	state := modelState{
		Lambda1:      m.lambda1,
		Lambda2:      m.lambda2,
		Lambda3:      m.lambda3,
		UnigramProbs: m.uniProbs,
		BigramProbs:  m.biProbs,
		TrigramProbs: make(map[string]map[string]float64, len(m.triProbs)),
		VocabSize:    m.vocabSize,
		TotalTokens:  m.totalTokens,
	}
	for ctx, nexts := range m.triProbs {
		state.TrigramProbs[ctx.W1+triKeySep+ctx.W2] = nexts
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("ngram: encode state: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load restores a model from path, re-validating the interpolation
// weights and reconstructing the composite trigram context keys.
func (m *Model) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var state modelState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("ngram: decode state: %w", err)
	}
	if err := validateWeights(state.Lambda1, state.Lambda2, state.Lambda3); err != nil {
		return err
	}

	triProbs := make(map[Bigram]map[string]float64, len(state.TrigramProbs))
	for key, nexts := range state.TrigramProbs {
		w1, w2, ok := strings.Cut(key, triKeySep)
		if !ok {
			return fmt.Errorf("ngram: malformed trigram context key %q", key)
		}
		triProbs[Bigram{W1: w1, W2: w2}] = nexts
	}

	m.lambda1 = state.Lambda1
	m.lambda2 = state.Lambda2
	m.lambda3 = state.Lambda3
	m.uniProbs = state.UnigramProbs
	m.biProbs = state.BigramProbs
	m.triProbs = triProbs
	m.vocabSize = state.VocabSize
	m.totalTokens = state.TotalTokens
	return nil
}
