// Package generator writes rendered cards to disk or to a writer, and builds
// solid-colour stand-in backgrounds.
package generator

import (
	"image"
	"io"
	"strings"
)

// Encoder writes an image in one raster format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// EncoderFunc adapts a plain function to Encoder.
type EncoderFunc func(w io.Writer, img image.Image) error

// Encode calls f(w, img).
func (f EncoderFunc) Encode(w io.Writer, img image.Image) error { return f(w, img) }

// encoders maps a lower-case file extension to its encoder.
var encoders = map[string]Encoder{
	".png":  EncoderFunc(encodePNG),
	".jpg":  EncoderFunc(encodeJPEG),
	".jpeg": EncoderFunc(encodeJPEG),
	".bmp":  EncoderFunc(encodeBMP),
	".tif":  EncoderFunc(encodeTIFF),
	".tiff": EncoderFunc(encodeTIFF),
}

// EncoderFor returns the encoder registered for ext (".png", ".jpg", ...).
func EncoderFor(ext string) (Encoder, bool) {
	e, ok := encoders[strings.ToLower(ext)]
	return e, ok
}

// Extensions lists the supported output extensions.
func Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}
}
