package card

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/text/unicode/norm"
)

// Wrap greedily breaks text into lines whose measured width does not exceed
// maxWidth. Words are never split, so a single word wider than maxWidth is
// returned as its own over-wide line. The result always has at least one
// element; blank text yields a single empty line.
func Wrap(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	currentLine := words[0]
	for _, word := range words[1:] {
		testLine := currentLine + " " + word
		if w, _ := Measure(face, testLine); w <= maxWidth {
			currentLine = testLine
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	lines = append(lines, currentLine)

	return lines
}

// normalizeText composes text to NFC so precomposed and decomposed accents
// measure and render the same.
func normalizeText(s string) string {
	return norm.NFC.String(s)
}
