package ngram

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const storyCorpus = "ایک دن بچہ باہر گیا <EOS> ایک دن بارش ہوئی <EOS> بچہ خوش ہوا <EOP> ایک دن بچہ سویا <EOT>"

func trainedModel(t *testing.T) *Model {
	t.Helper()
	m := Default()
	if err := m.Train(storyCorpus); err != nil {
		t.Fatalf("Train: %v", err)
	}
	return m
}

func TestWeightValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		l1, l2, l3 float64
		wantErr    bool
	}{
		{name: "default", l1: 0.1, l2: 0.3, l3: 0.6},
		{name: "uniform thirds", l1: 1.0 / 3, l2: 1.0 / 3, l3: 1.0 / 3},
		{name: "does not sum to one", l1: 0.2, l2: 0.2, l3: 0.2, wantErr: true},
		{name: "negative weight", l1: -0.5, l2: 0.5, l3: 1.0, wantErr: true},
		{name: "sum above one", l1: 0.5, l2: 0.5, l3: 0.5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.l1, tt.l2, tt.l3)
			if tt.wantErr {
				if !errors.Is(err, ErrWeights) {
					t.Fatalf("New(%g,%g,%g) = %v, want ErrWeights", tt.l1, tt.l2, tt.l3, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%g,%g,%g): %v", tt.l1, tt.l2, tt.l3, err)
			}
		})
	}
}

func TestTrainRejectsShortCorpus(t *testing.T) {
	t.Parallel()
	m := Default()
	if err := m.Train("ایک دن"); !errors.Is(err, ErrCorpusTooShort) {
		t.Fatalf("Train on 2 tokens = %v, want ErrCorpusTooShort", err)
	}
	if m.Trained() {
		t.Fatal("model must not be trained after a failed Train")
	}
}

func TestInterpolatedProb(t *testing.T) {
	t.Parallel()
	m := Default()
	if err := m.Train("a b c a b d"); err != nil {
		t.Fatalf("Train: %v", err)
	}

	// P(c|a,b) = 0.6*P_tri + 0.3*P_bi + 0.1*P_uni
	//          = 0.6*0.5 + 0.3*0.5 + 0.1*(1/6)
	want := 0.6*0.5 + 0.3*0.5 + 0.1/6
	if got := m.Prob("a", "b", "c"); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Prob(c|a,b) = %v, want %v", got, want)
	}

	// Unseen trigram context: only unigram and bigram-fallback terms
	// remain, both resolving to the unigram estimate.
	pUni := 2.0 / 6.0
	want = 0.3*pUni + 0.1*pUni
	if got := m.Prob("x", "y", "a"); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Prob(a|x,y) = %v, want %v", got, want)
	}

	// Fully unseen token: uniform 1/vocabSize fallback everywhere but
	// the trigram term.
	uniform := 1.0 / 4.0
	want = 0.3*uniform + 0.1*uniform
	if got := m.Prob("x", "y", "zz"); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Prob(zz|x,y) = %v, want %v", got, want)
	}
}

func TestPerplexitySanity(t *testing.T) {
	t.Parallel()
	m := trainedModel(t)

	onTrain, err := m.Perplexity(storyCorpus)
	if err != nil {
		t.Fatalf("Perplexity on training corpus: %v", err)
	}
	if math.IsInf(onTrain, 0) || math.IsNaN(onTrain) {
		t.Fatalf("perplexity on training corpus not finite: %v", onTrain)
	}

	unseen := strings.Repeat("qqq www eee rrr ", len(strings.Fields(storyCorpus))/4)
	onRandom, err := m.Perplexity(unseen)
	if err != nil {
		t.Fatalf("Perplexity on unseen corpus: %v", err)
	}
	if onTrain >= onRandom {
		t.Fatalf("perplexity on training corpus (%v) not below unseen corpus (%v)", onTrain, onRandom)
	}
}

func TestPerplexityErrors(t *testing.T) {
	t.Parallel()
	if _, err := Default().Perplexity(storyCorpus); !errors.Is(err, ErrNotTrained) {
		t.Fatalf("Perplexity before training = %v, want ErrNotTrained", err)
	}
	m := trainedModel(t)
	if _, err := m.Perplexity("ایک دن"); !errors.Is(err, ErrCorpusTooShort) {
		t.Fatalf("Perplexity on 2 tokens = %v, want ErrCorpusTooShort", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	m := trainedModel(t)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Default()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.VocabSize() != m.VocabSize() {
		t.Fatalf("vocab size after load = %d, want %d", loaded.VocabSize(), m.VocabSize())
	}
	if loaded.ContextCount() != m.ContextCount() {
		t.Fatalf("context count after load = %d, want %d", loaded.ContextCount(), m.ContextCount())
	}
	toks := strings.Fields(storyCorpus)
	for i := 0; i < len(toks)-2; i++ {
		want := m.Prob(toks[i], toks[i+1], toks[i+2])
		got := loaded.Prob(toks[i], toks[i+1], toks[i+2])
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("Prob(%q|%q,%q) after load = %v, want %v", toks[i+2], toks[i], toks[i+1], got, want)
		}
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.json")
	bad := map[string]any{
		"lambda1":       0.2,
		"lambda2":       0.2,
		"lambda3":       0.2,
		"unigram_probs": map[string]float64{"a": 1.0},
		"bigram_probs":  map[string]map[string]float64{},
		"trigram_probs": map[string]map[string]float64{},
		"vocab_size":    1,
		"total_tokens":  1,
	}
	data, err := json.Marshal(bad)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m := Default()
	if err := m.Load(path); !errors.Is(err, ErrWeights) {
		t.Fatalf("Load with bad weights = %v, want ErrWeights", err)
	}
}
