package card

import (
	"golang.org/x/image/font"
)

// Measure returns the pixel extent of text's ink bounding box in face.
func Measure(face font.Face, text string) (width, height int) {
	if text == "" {
		return 0, 0
	}
	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil()
}

// inkOffset is how far the ink box starts from the pen position, so a line can
// be drawn with its ink at an exact x.
func inkOffset(face font.Face, text string) int {
	if text == "" {
		return 0
	}
	bounds, _ := font.BoundString(face, text)
	return bounds.Min.X.Floor()
}
