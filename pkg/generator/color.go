// color.go - Unified color parsing and solid image creation.
package generator

import (
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"
)

// ParseColor parses a color string. Accepts "#rrggbb", "#rrggbbaa", "random", or "".
// Empty string is treated as "random", which is always opaque.
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" || s == "random" {
		buf := make([]byte, 3)
		if _, err := rand.Read(buf); err != nil {
			return color.NRGBA{}, fmt.Errorf("random color: %w", err)
		}
		return color.NRGBA{R: buf[0], G: buf[1], B: buf[2], A: 255}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}

	var ch [4]uint8
	ch[3] = 255
	names := [4]string{"red", "green", "blue", "alpha"}
	for i := 0; i*2 < len(hex); i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid %s channel in %q: %w", names[i], s, err)
		}
		ch[i] = uint8(v)
	}

	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// NewSolidImage creates a uniform solid-color image using draw.Draw (O(1) fill).
func NewSolidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}
