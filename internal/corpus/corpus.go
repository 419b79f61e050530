// Package corpus loads training text, either as a preprocessed plain
// text file or as the scraped JSON story list produced by the crawler.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// Load reads a corpus file, dispatching on extension: .json files are
// treated as a story list, everything else as plain text.
func Load(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadStories(path)
	}
	return LoadText(path)
}

// LoadText reads a preprocessed plain-text corpus.
func LoadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// LoadStories reads the scraped story list: a JSON array whose entries
// are either raw strings or objects carrying the text under
// "full_text", "story" or "text". Stories are joined by single spaces.
func LoadStories(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("corpus: parse stories json: %w", err)
	}
	list, ok := payload.([]any)
	if !ok {
		return "", fmt.Errorf("corpus: stories json must be an array")
	}

	texts := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			texts = append(texts, v)
		case map[string]any:
			if text := storyText(v); text != "" {
				texts = append(texts, text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(texts, " ")), nil
}

func storyText(obj map[string]any) string {
	for _, key := range []string{"full_text", "story", "text"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
