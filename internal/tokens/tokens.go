// Package tokens defines the reserved control tokens shared by the
// subword codec and the trigram model, plus helpers for keeping them
// atomic through whitespace-based text processing.
package tokens

import (
	"fmt"
	"strings"
)

const (
	// EOT marks the end of a story.
	EOT = "<EOT>"
	// EOP marks the end of a paragraph.
	EOP = "<EOP>"
	// EOS marks the end of a sentence.
	EOS = "<EOS>"
)

// All lists the reserved control tokens. Longest-first is not needed
// here because no control token is a prefix of another.
var All = []string{EOS, EOP, EOT}

// IsControl reports whether tok is a reserved control token.
func IsControl(tok string) bool {
	switch tok {
	case EOT, EOP, EOS:
		return true
	}
	return false
}

// Protect replaces every control-token occurrence in corpus with a
// space-padded placeholder so that whitespace splitting cannot fragment
// it. The returned map goes placeholder -> original token.
func Protect(corpus string) (string, map[string]string) {
	placeholders := make(map[string]string, len(All))
	safe := corpus
	for i, tok := range All {
		placeholder := fmt.Sprintf("CTRL%dPLACEHOLDER", i)
		placeholders[placeholder] = tok
		safe = strings.ReplaceAll(safe, tok, " "+placeholder+" ")
	}
	return safe, placeholders
}

// Part is a span of text that is either a single control token or a run
// of ordinary text between control tokens.
type Part struct {
	Text    string
	Control bool
}

// Split cuts text on control-token boundaries, keeping each control
// token as its own part. Ordinary spans keep their original content.
func Split(text string) []Part {
	if !strings.ContainsRune(text, '<') {
		return []Part{{Text: text}}
	}
	var parts []Part
	var buf strings.Builder
	for i := 0; i < len(text); {
		match := ""
		for _, tok := range All {
			if i+len(tok) <= len(text) && text[i:i+len(tok)] == tok {
				match = tok
				break
			}
		}
		if match != "" {
			if buf.Len() > 0 {
				parts = append(parts, Part{Text: buf.String()})
				buf.Reset()
			}
			parts = append(parts, Part{Text: match, Control: true})
			i += len(match)
			continue
		}
		buf.WriteByte(text[i])
		i++
	}
	if buf.Len() > 0 {
		parts = append(parts, Part{Text: buf.String()})
	}
	return parts
}
