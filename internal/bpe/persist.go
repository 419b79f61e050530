package bpe

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// codecState mirrors the on-disk format:
//
//	{"vocab": [token, ...], "merges": [[[left, right], merged], ...]}
//
// Merge order is significant and preserved exactly. The id maps are
// never persisted; they are rebuilt from the sorted vocabulary on load
// so that a reloaded codec always reproduces training-time ids.
type codecState struct {
	Vocab  []string          `json:"vocab"`
	Merges []json.RawMessage `json:"merges"`
}

// Save writes the codec state to path as JSON.
func (c *Codec) Save(path string) error {
	if !c.Trained() {
		return ErrNotTrained
	}
	state := codecState{
		Vocab:  make([]string, 0, len(c.vocab)),
		Merges: make([]json.RawMessage, 0, len(c.merges)),
	}
	for tok := range c.vocab {
		state.Vocab = append(state.Vocab, tok)
	}
	for _, m := range c.merges {
		raw, err := json.Marshal([]any{[2]string{m.Pair.Left, m.Pair.Right}, m.Merged})
		if err != nil {
			return fmt.Errorf("bpe: encode merge rule: %w", err)
		}
		state.Merges = append(state.Merges, raw)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("bpe: encode state: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load restores a codec from path, rebuilding the id maps from the
// vocabulary alone.
func (c *Codec) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var state codecState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("bpe: decode state: %w", err)
	}

	c.vocab = make(map[string]struct{}, len(state.Vocab))
	for _, tok := range state.Vocab {
		c.vocab[tok] = struct{}{}
	}

	c.merges = make([]Merge, 0, len(state.Merges))
	for i, raw := range state.Merges {
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil || len(parts) != 2 {
			return fmt.Errorf("bpe: merge rule %d malformed", i)
		}
		var pair [2]string
		var merged string
		if err := json.Unmarshal(parts[0], &pair); err != nil {
			return fmt.Errorf("bpe: merge rule %d pair: %w", i, err)
		}
		if err := json.Unmarshal(parts[1], &merged); err != nil {
			return fmt.Errorf("bpe: merge rule %d target: %w", i, err)
		}
		c.merges = append(c.merges, Merge{Pair: Pair{Left: pair[0], Right: pair[1]}, Merged: merged})
	}

	c.buildIndex()
	return nil
}
