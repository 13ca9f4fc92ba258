// Package brand normalizes TV brand identifiers for display. The backend
// stores library brands as lowercase slugs ("lg", "samsung-frame"); output
// shows them in title case with well-known initialisms preserved.
package brand

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// initialisms are brand names rendered in full caps rather than title case.
var initialisms = map[string]string{
	"lg":  "LG",
	"tcl": "TCL",
	"jvc": "JVC",
	"rca": "RCA",
	"nec": "NEC",
}

// DisplayName converts a brand slug into a readable name.
func DisplayName(slug string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range strings.TrimSpace(slug) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	name := strings.TrimSpace(cleaned.String())
	if name == "" {
		return "Unknown"
	}

	words := strings.Fields(name)
	titler := cases.Title(language.Und)
	for i, word := range words {
		if caps, ok := initialisms[strings.ToLower(word)]; ok {
			words[i] = caps
			continue
		}
		words[i] = titler.String(word)
	}
	return strings.Join(words, " ")
}
