// background.go - Cover-crop and blur of arbitrary source photos to the card canvas.
package card

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidBackground is returned when the background cannot be used: it
// fails to decode, has no pixels, or is larger than allowed.
var ErrInvalidBackground = errors.New("invalid background image")

// BackgroundOptions sizes the processed background.
type BackgroundOptions struct {
	Width      int
	Height     int
	BlurRadius float64 // Gaussian sigma; <= 0 disables the blur
}

// DefaultBackgroundOptions returns the canvas size with a radius-10 blur.
func DefaultBackgroundOptions() BackgroundOptions {
	return BackgroundOptions{Width: CanvasWidth, Height: CanvasHeight, BlurRadius: 10}
}

// ProcessBackground crops the centre of src to the target aspect ratio and
// scales it to cover the target, then blurs the result. The crop happens in
// source pixels, so memory stays proportional to the source and the target
// whatever the aspect ratio. The output is always exactly opts.Width x opts.Height.
func ProcessBackground(src image.Image, opts BackgroundOptions) (*image.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no image", ErrInvalidBackground)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrInvalidBackground, b.Dx(), b.Dy())
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", opts.Width, opts.Height)
	}

	cropped := imaging.Crop(src, coverCrop(b, opts.Width, opts.Height))
	resized := imaging.Resize(cropped, opts.Width, opts.Height, imaging.Lanczos)

	if opts.BlurRadius <= 0 {
		return resized, nil
	}
	return imaging.Blur(resized, opts.BlurRadius), nil
}

// coverCrop returns the centred region of src with the aspect ratio of
// dstW x dstH, as large as src allows. Scaling that region to dstW x dstH is
// the same as scaling src to cover the target and cropping the centre.
func coverCrop(src image.Rectangle, dstW, dstH int) image.Rectangle {
	srcW, srcH := src.Dx(), src.Dy()

	if srcW*dstH > srcH*dstW {
		w := min(max(int(math.Round(float64(srcH)*float64(dstW)/float64(dstH))), 1), srcW)
		left := src.Min.X + (srcW-w)/2
		return image.Rect(left, src.Min.Y, left+w, src.Max.Y)
	}
	h := min(max(int(math.Round(float64(srcW)*float64(dstH)/float64(dstW))), 1), srcH)
	top := src.Min.Y + (srcH-h)/2
	return image.Rect(src.Min.X, top, src.Max.X, top+h)
}

// LoadBackground decodes a background photo (PNG, JPEG, GIF, BMP, TIFF or WebP),
// honouring EXIF orientation. Images with more than maxPixels pixels are
// rejected before being decoded; maxPixels <= 0 disables the check.
func LoadBackground(r io.Reader, maxPixels int) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read background: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackground, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrInvalidBackground, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidBackground, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackground, err)
	}
	return img, nil
}

// LoadBackgroundFile opens path and decodes it with LoadBackground.
func LoadBackgroundFile(path string, maxPixels int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()

	img, err := LoadBackground(f, maxPixels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
