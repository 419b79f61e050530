// Package bpe implements a subword vocabulary codec trained by greedy
// byte-pair merging over a frequency-weighted word multiset. Merge rules
// are ordered and replayed in training order during encoding; control
// tokens stay atomic throughout.
package bpe

import (
	"errors"
	"sort"
	"strings"

	"github.com/qalam-lab/qissa/internal/tokens"
)

// EndOfWord is the synthetic marker appended to every word's initial
// character sequence so word-final subwords stay distinguishable.
const EndOfWord = "</w>"

var ErrNotTrained = errors.New("bpe: codec not trained")

// Pair is an adjacent symbol pair eligible for merging.
type Pair struct {
	Left  string
	Right string
}

// Merge is a learned rule replacing Pair with its concatenation.
type Merge struct {
	Pair   Pair
	Merged string
}

// Codec holds a trained subword vocabulary. State is immutable after
// Train or Load and safe for concurrent readers.
type Codec struct {
	vocab     map[string]struct{}
	merges    []Merge
	tokenToID map[string]int
	idToToken []string
}

func New() *Codec {
	return &Codec{vocab: make(map[string]struct{})}
}

// Trained reports whether the codec has a usable vocabulary.
func (c *Codec) Trained() bool { return len(c.tokenToID) > 0 }

// VocabSize returns the number of tokens in the vocabulary.
func (c *Codec) VocabSize() int { return len(c.vocab) }

// MergeCount returns the number of learned merge rules.
func (c *Codec) MergeCount() int { return len(c.merges) }

// Merges returns the learned merge rules in training order. The slice
// is a copy; mutating it does not affect the codec.
func (c *Codec) Merges() []Merge {
	return append([]Merge(nil), c.merges...)
}

// Train learns merge rules from corpus until the vocabulary would reach
// targetVocabSize. When the target is at or below the initial character
// inventory no merges run and the codec still trains successfully.
func (c *Codec) Train(corpus string, targetVocabSize int) error {
	safe, placeholders := tokens.Protect(corpus)

	// Frequency-weighted multiset of symbol sequences, keyed by the
	// space-joined symbols. Control tokens are single atomic symbols.
	weighted := make(map[string]int)
	for _, word := range strings.Fields(safe) {
		if orig, ok := placeholders[word]; ok {
			weighted[orig]++
			continue
		}
		weighted[wordKey(word)]++
	}

	inventory := make(map[string]struct{})
	for seq := range weighted {
		for _, sym := range strings.Fields(seq) {
			inventory[sym] = struct{}{}
		}
	}

	numMerges := targetVocabSize - len(inventory)
	c.merges = nil
	for i := 0; i < numMerges; i++ {
		best, ok := bestPair(weighted)
		if !ok {
			break
		}
		merged := best.Left + best.Right
		weighted = applyMerge(weighted, best, merged)
		inventory[merged] = struct{}{}
		c.merges = append(c.merges, Merge{Pair: best, Merged: merged})
	}

	c.vocab = inventory
	for _, tok := range tokens.All {
		c.vocab[tok] = struct{}{}
	}
	c.buildIndex()
	return nil
}

func wordKey(word string) string {
	var b strings.Builder
	for _, r := range word {
		b.WriteString(string(r))
		b.WriteByte(' ')
	}
	b.WriteString(EndOfWord)
	return b.String()
}

// bestPair returns the most frequent adjacent symbol pair across the
// weighted sequences, skipping any pair touching a control token.
// Frequency ties break to the lexicographically smallest pair so that
// training is reproducible regardless of map iteration order.
func bestPair(weighted map[string]int) (Pair, bool) {
	counts := make(map[Pair]int)
	for seq, freq := range weighted {
		syms := strings.Fields(seq)
		for i := 0; i < len(syms)-1; i++ {
			p := Pair{Left: syms[i], Right: syms[i+1]}
			if tokens.IsControl(p.Left) || tokens.IsControl(p.Right) {
				continue
			}
			counts[p] += freq
		}
	}
	if len(counts) == 0 {
		return Pair{}, false
	}
	var best Pair
	bestFreq := -1
	for p, freq := range counts {
		if freq > bestFreq || (freq == bestFreq && lessPair(p, best)) {
			best = p
			bestFreq = freq
		}
	}
	return best, true
}

func lessPair(a, b Pair) bool {
	if a.Left != b.Left {
		return a.Left < b.Left
	}
	return a.Right < b.Right
}

// applyMerge rewrites every weighted sequence, replacing non-overlapping
// left-to-right occurrences of pair with merged. Rewriting can collapse
// two distinct keys into one, so frequencies are summed.
func applyMerge(weighted map[string]int, pair Pair, merged string) map[string]int {
	out := make(map[string]int, len(weighted))
	for seq, freq := range weighted {
		syms := mergePair(strings.Fields(seq), pair, merged)
		out[strings.Join(syms, " ")] += freq
	}
	return out
}

// mergePair performs a single linear scan over the symbol slice. This is
// adjacency over symbols, not substring matching, so a pair can never
// match across symbol boundaries.
func mergePair(syms []string, pair Pair, merged string) []string {
	out := make([]string, 0, len(syms))
	for i := 0; i < len(syms); i++ {
		if i < len(syms)-1 && syms[i] == pair.Left && syms[i+1] == pair.Right {
			out = append(out, merged)
			i++
			continue
		}
		out = append(out, syms[i])
	}
	return out
}

// buildIndex assigns ids by lexicographic vocabulary order. Two codecs
// trained on identical input therefore agree on every id.
func (c *Codec) buildIndex() {
	sorted := make([]string, 0, len(c.vocab))
	for tok := range c.vocab {
		sorted = append(sorted, tok)
	}
	sort.Strings(sorted)

	c.idToToken = sorted
	c.tokenToID = make(map[string]int, len(sorted))
	for id, tok := range sorted {
		c.tokenToID[tok] = id
	}
}
