package ngram

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/qalam-lab/qissa/internal/tokens"
)

// Candidate is one entry of a next-token distribution.
type Candidate struct {
	Token string
	Prob  float64
}

// Distribution returns the renormalized interpolated distribution over
// every candidate continuation of (w1, w2): tokens seen after this
// exact trigram context, tokens seen after w2 as a bigram context, and
// the full unigram vocabulary. Candidates come back sorted by token
// string so seeded sampling is reproducible across runs.
func (m *Model) Distribution(w1, w2 string) ([]Candidate, error) {
	if !m.Trained() {
		return nil, ErrNotTrained
	}

	seen := make(map[string]struct{}, m.vocabSize)
	for w3 := range m.triProbs[Bigram{W1: w1, W2: w2}] {
		seen[w3] = struct{}{}
	}
	for w3 := range m.biProbs[w2] {
		seen[w3] = struct{}{}
	}
	for w3 := range m.uniProbs {
		seen[w3] = struct{}{}
	}

	cands := make([]Candidate, 0, len(seen))
	for w3 := range seen {
		cands = append(cands, Candidate{Token: w3})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].Token < cands[j].Token })

	total := 0.0
	for i := range cands {
		p := m.Prob(w1, w2, cands[i].Token)
		cands[i].Prob = p
		total += p
	}
	if total > 0 {
		for i := range cands {
			cands[i].Prob /= total
		}
	}
	return cands, nil
}

// GenerateOptions controls sampling. Zero values select the defaults:
// 300 draws, temperature 1, no top-k filtering, time-seeded randomness.
type GenerateOptions struct {
	MaxLength   int
	Temperature float64
	TopK        int
	Seed        *int64
}

// Generate extends seed by stochastic sampling, one token at a time,
// until the end-of-text token is drawn or MaxLength draws have been
// made. The returned slice is seed plus everything generated. Each call
// owns its rand.Rand, so concurrent generations never share cursor
// state.
func (m *Model) Generate(seed []string, opts GenerateOptions) ([]string, error) {
	if !m.Trained() {
		return nil, ErrNotTrained
	}
	if len(seed) < 2 {
		return nil, ErrSeedTooShort
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = 300
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 1.0
	}

	source := time.Now().UnixNano()
	if opts.Seed != nil {
		source = *opts.Seed
	}
	rng := rand.New(rand.NewSource(source))

	out := append([]string(nil), seed...)
	for step := 0; step < opts.MaxLength; step++ {
		cands, err := m.Distribution(out[len(out)-2], out[len(out)-1])
		if err != nil {
			return nil, err
		}
		if len(cands) == 0 {
			break
		}

		if opts.Temperature != 1.0 {
			applyTemperature(cands, opts.Temperature)
		}
		if opts.TopK > 0 && opts.TopK < len(cands) {
			cands = topK(cands, opts.TopK)
		}

		next := sample(rng, cands)
		out = append(out, next)
		if next == tokens.EOT {
			break
		}
	}
	return out, nil
}

// applyTemperature raises every probability to 1/temp and renormalizes.
// Temperatures below 1 sharpen the distribution toward the mode, above
// 1 flatten it.
func applyTemperature(cands []Candidate, temp float64) {
	inv := 1.0 / temp
	total := 0.0
	for i := range cands {
		cands[i].Prob = math.Pow(cands[i].Prob, inv)
		total += cands[i].Prob
	}
	if total > 0 {
		for i := range cands {
			cands[i].Prob /= total
		}
	}
}

// topK keeps the k highest-probability candidates and renormalizes.
// Equal probabilities rank by token string so filtering stays
// deterministic.
func topK(cands []Candidate, k int) []Candidate {
	sorted := append([]Candidate(nil), cands...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Prob != sorted[j].Prob {
			return sorted[i].Prob > sorted[j].Prob
		}
		return sorted[i].Token < sorted[j].Token
	})
	sorted = sorted[:k]

	total := 0.0
	for i := range sorted {
		total += sorted[i].Prob
	}
	if total > 0 {
		for i := range sorted {
			sorted[i].Prob /= total
		}
	}
	return sorted
}

// sample draws one token by cumulative weight.
func sample(rng *rand.Rand, cands []Candidate) string {
	r := rng.Float64()
	c := 0.0
	for i := range cands {
		c += cands[i].Prob
		if r <= c {
			return cands[i].Token
		}
	}
	return cands[len(cands)-1].Token
}
