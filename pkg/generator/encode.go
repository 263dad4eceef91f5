// encode.go - Raster writers for every supported output format.
package generator

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// JPEGQuality is used for .jpg/.jpeg output.
const JPEGQuality = 92

// writeFile encodes img to a file at the given path.
func writeFile(output string, img image.Image, enc Encoder) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}

	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}
	return nil
}

// encodePNG writes a PNG. Fully opaque images are stored as 24-bit RGB.
func encodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

func encodeJPEG(w io.Writer, img image.Image) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("encode JPEG: %w", err)
	}
	return nil
}

func encodeBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("encode BMP: %w", err)
	}
	return nil
}

func encodeTIFF(w io.Writer, img image.Image) error {
	if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("encode TIFF: %w", err)
	}
	return nil
}
