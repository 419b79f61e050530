// Package ngram implements an interpolated trigram language model.
// Unigram, bigram and trigram MLE tables are mixed with fixed weights
// (Jelinek-Mercer interpolation); all three orders always contribute,
// this is not a back-off model. State is immutable after Train or Load
// and safe for concurrent readers.
package ngram

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrNotTrained     = errors.New("ngram: model not trained")
	ErrCorpusTooShort = errors.New("ngram: corpus too short for a trigram model")
	ErrSeedTooShort   = errors.New("ngram: seed must contain at least 2 tokens")
	ErrWeights        = errors.New("ngram: interpolation weights must be non-negative and sum to 1")
)

const weightTolerance = 1e-6

// Bigram is the two-token context keying the trigram table.
type Bigram struct {
	W1 string
	W2 string
}

// Model is an interpolated trigram language model.
type Model struct {
	lambda1 float64 // unigram weight
	lambda2 float64 // bigram weight
	lambda3 float64 // trigram weight

	uniProbs map[string]float64
	biProbs  map[string]map[string]float64
	triProbs map[Bigram]map[string]float64

	vocabSize   int
	totalTokens int
}

// New constructs a model with the given interpolation weights. The
// weights must be non-negative and sum to 1 within tolerance.
func New(lambda1, lambda2, lambda3 float64) (*Model, error) {
	if err := validateWeights(lambda1, lambda2, lambda3); err != nil {
		return nil, err
	}
	return &Model{lambda1: lambda1, lambda2: lambda2, lambda3: lambda3}, nil
}

// Default returns a model with the standard weights (0.1, 0.3, 0.6).
func Default() *Model {
	m, err := New(0.1, 0.3, 0.6)
	if err != nil {
		panic(err)
	}
	return m
}

func validateWeights(l1, l2, l3 float64) error {
	if l1 < 0 || l2 < 0 || l3 < 0 {
		return ErrWeights
	}
	if math.Abs(l1+l2+l3-1.0) > weightTolerance {
		return fmt.Errorf("%w: got %.4f + %.4f + %.4f", ErrWeights, l1, l2, l3)
	}
	return nil
}

// Trained reports whether the model holds probability tables.
func (m *Model) Trained() bool { return len(m.uniProbs) > 0 }

// VocabSize returns the number of distinct training tokens.
func (m *Model) VocabSize() int { return m.vocabSize }

// TotalTokens returns the training corpus length in tokens.
func (m *Model) TotalTokens() int { return m.totalTokens }

// ContextCount returns the number of observed trigram contexts.
func (m *Model) ContextCount() int { return len(m.triProbs) }

// Weights returns the interpolation weights (unigram, bigram, trigram).
func (m *Model) Weights() (float64, float64, float64) {
	return m.lambda1, m.lambda2, m.lambda3
}

// Train builds the probability tables from a whitespace-tokenized
// corpus. Contexts never observed get no entry at all; lookups treat
// absence as "fall through to the lower order".
func (m *Model) Train(corpus string) error {
	toks := strings.Fields(corpus)
	if len(toks) < 3 {
		return fmt.Errorf("%w: got %d tokens, need at least 3", ErrCorpusTooShort, len(toks))
	}

	uniCounts := make(map[string]int)
	biCounts := make(map[Bigram]int)
	triCounts := make(map[Bigram]map[string]int)

	for _, tok := range toks {
		uniCounts[tok]++
	}
	for i := 0; i < len(toks)-1; i++ {
		biCounts[Bigram{W1: toks[i], W2: toks[i+1]}]++
	}
	for i := 0; i < len(toks)-2; i++ {
		ctx := Bigram{W1: toks[i], W2: toks[i+1]}
		if triCounts[ctx] == nil {
			triCounts[ctx] = make(map[string]int)
		}
		triCounts[ctx][toks[i+2]]++
	}

	m.totalTokens = len(toks)
	m.vocabSize = len(uniCounts)

	m.uniProbs = make(map[string]float64, len(uniCounts))
	for tok, cnt := range uniCounts {
		m.uniProbs[tok] = float64(cnt) / float64(m.totalTokens)
	}

	biTotals := make(map[string]int)
	for bg, cnt := range biCounts {
		biTotals[bg.W1] += cnt
	}
	m.biProbs = make(map[string]map[string]float64)
	for bg, cnt := range biCounts {
		if m.biProbs[bg.W1] == nil {
			m.biProbs[bg.W1] = make(map[string]float64)
		}
		m.biProbs[bg.W1][bg.W2] = float64(cnt) / float64(biTotals[bg.W1])
	}

	m.triProbs = make(map[Bigram]map[string]float64, len(triCounts))
	for ctx, nexts := range triCounts {
		total := 0
		for _, cnt := range nexts {
			total += cnt
		}
		probs := make(map[string]float64, len(nexts))
		for w3, cnt := range nexts {
			probs[w3] = float64(cnt) / float64(total)
		}
		m.triProbs[ctx] = probs
	}
	return nil
}

// Prob returns the interpolated probability P(w3 | w1, w2). Unseen w3
// falls back to a uniform unigram estimate; an unseen bigram context
// falls back to that same unigram estimate; an unseen trigram context
// contributes zero.
func (m *Model) Prob(w1, w2, w3 string) float64 {
	pUni, ok := m.uniProbs[w3]
	if !ok {
		pUni = 1.0 / float64(max(m.vocabSize, 1))
	}
	pBi := pUni
	if nexts, ok := m.biProbs[w2]; ok {
		if p, ok := nexts[w3]; ok {
			pBi = p
		}
	}
	pTri := 0.0
	if nexts, ok := m.triProbs[Bigram{W1: w1, W2: w2}]; ok {
		pTri = nexts[w3]
	}
	return m.lambda3*pTri + m.lambda2*pBi + m.lambda1*pUni
}

// Perplexity evaluates the model on a held-out corpus. Probabilities
// are floored at 1e-10 before taking the log so unseen trigrams cannot
// yield an infinite result. Lower is better.
func (m *Model) Perplexity(testCorpus string) (float64, error) {
	if !m.Trained() {
		return 0, ErrNotTrained
	}
	toks := strings.Fields(testCorpus)
	if len(toks) < 3 {
		return 0, fmt.Errorf("%w: got %d tokens, need at least 3", ErrCorpusTooShort, len(toks))
	}

	const floor = 1e-10
	logSum := 0.0
	count := 0
	for i := 0; i < len(toks)-2; i++ {
		p := m.Prob(toks[i], toks[i+1], toks[i+2])
		logSum += math.Log(math.Max(p, floor))
		count++
	}
	return math.Exp(-logSum / float64(count)), nil
}
