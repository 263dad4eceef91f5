package generator

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
)

// Config holds parameters for media generation.
type Config struct {
	Width  int         // Pixel width (default: 1080)
	Height int         // Pixel height (default: 1920)
	Color  string      // Hex "#rrggbb" or "random"
	Image  image.Image // Pre-rendered image; overrides Width/Height/Color
}

// Generate creates an output file. The format is inferred from the file
// extension: .png, .jpg/.jpeg, .bmp or .tif/.tiff.
//
// If cfg.Image is nil, a solid-color image is created from cfg.Color/Width/Height.
func Generate(output string, cfg Config) error {
	ext := filepath.Ext(output)
	enc, ok := EncoderFor(ext)
	if !ok {
		return fmt.Errorf("unsupported format %q: use one of %s", ext, strings.Join(Extensions(), ", "))
	}

	img, err := resolveImage(cfg)
	if err != nil {
		return err
	}
	return writeFile(output, img, enc)
}

// GenerateToWriter writes media to an io.Writer in the format named by ext.
// This is useful for in-memory generation (HTTP responses, WASM).
func GenerateToWriter(w io.Writer, ext string, cfg Config) error {
	enc, ok := EncoderFor(ext)
	if !ok {
		return fmt.Errorf("unsupported format %q: use one of %s", ext, strings.Join(Extensions(), ", "))
	}

	img, err := resolveImage(cfg)
	if err != nil {
		return err
	}
	return enc.Encode(w, img)
}

// resolveImage returns the source image from config, creating a solid-color
// image if none is provided.
func resolveImage(cfg Config) (image.Image, error) {
	if cfg.Image != nil {
		return cfg.Image, nil
	}

	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 1080
	}
	if h <= 0 {
		h = 1920
	}

	c, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}

	return NewSolidImage(w, h, c), nil
}
