package bpe

import (
	"strings"

	"github.com/qalam-lab/qissa/internal/tokens"
)

// Encode converts text into token ids. Control tokens map directly to
// their ids; every other word starts as characters plus the end-of-word
// marker and has the merge rules replayed in training order. Symbols
// outside the vocabulary fall back to id 0 rather than failing.
func (c *Codec) Encode(text string) ([]int, error) {
	if !c.Trained() {
		return nil, ErrNotTrained
	}
	var ids []int
	for _, part := range tokens.Split(text) {
		if part.Control {
			ids = append(ids, c.id(part.Text))
			continue
		}
		for _, word := range strings.Fields(part.Text) {
			for _, sym := range c.tokenizeWord(word) {
				ids = append(ids, c.id(sym))
			}
		}
	}
	return ids, nil
}

func (c *Codec) tokenizeWord(word string) []string {
	syms := make([]string, 0, len(word)+1)
	for _, r := range word {
		syms = append(syms, string(r))
	}
	syms = append(syms, EndOfWord)
	for _, m := range c.merges {
		syms = mergePair(syms, m.Pair, m.Merged)
	}
	return syms
}

func (c *Codec) id(tok string) int {
	if id, ok := c.tokenToID[tok]; ok {
		return id
	}
	return 0
}

// Decode maps ids back to text. Word boundaries collapse to single
// spaces, so decoding is lossy with respect to original whitespace.
func (c *Codec) Decode(ids []int) (string, error) {
	if !c.Trained() {
		return "", ErrNotTrained
	}
	toks := make([]string, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(c.idToToken) {
			continue
		}
		toks = append(toks, c.idToToken[id])
	}
	text := strings.Join(toks, " ")
	text = strings.ReplaceAll(text, " "+EndOfWord, "")
	text = strings.ReplaceAll(text, EndOfWord, "")
	return strings.TrimSpace(text), nil
}
