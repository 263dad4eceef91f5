// merge.go - Merge batch.json entries onto batch defaults.
package card

import (
	"path/filepath"
)

// MergeCards combines batch defaults with each card. Non-empty card fields win;
// a card with a background image ignores the default color and vice versa.
func MergeCards(batch *Batch) []CardData {
	if batch == nil {
		return nil
	}

	result := make([]CardData, 0, len(batch.Cards))
	for _, c := range batch.Cards {
		merged := batch.Defaults
		mergeCardData(&merged, c)
		result = append(result, merged)
	}
	return result
}

// mergeCardData overlays non-empty fields of over onto base.
func mergeCardData(base *CardData, over CardData) {
	if over.Quote != "" {
		base.Quote = over.Quote
	}
	if over.Author != "" {
		base.Author = over.Author
	}
	if over.Background != "" {
		base.Background = over.Background
		base.Color = ""
	}
	if over.Color != "" {
		base.Color = over.Color
		if over.Background == "" {
			base.Background = ""
		}
	}
	if over.Output != "" {
		base.Output = over.Output
	}
}

// resolveCardPaths makes relative background and output paths absolute using baseDir.
func resolveCardPaths(c *CardData, baseDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	c.Background = resolve(c.Background)
	c.Output = resolve(c.Output)
}
