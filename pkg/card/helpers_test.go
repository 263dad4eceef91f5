package card

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// goRegular returns a scalable provider over the embedded Go Regular font so
// tests never depend on system fonts.
func goRegular(t testing.TB) FontProvider {
	t.Helper()
	fp, err := NewScalableFontProvider("goregular", goregular.TTF, EngineOpenType, 72)
	if err != nil {
		t.Fatalf("NewScalableFontProvider: %v", err)
	}
	return fp
}

func goRegularFace(t testing.TB, size float64) font.Face {
	t.Helper()
	face, err := goRegular(t).Face(RoleTitle, size)
	if err != nil {
		t.Fatalf("Face(%v): %v", size, err)
	}
	t.Cleanup(func() { face.Close() })
	return face
}

// fastConfig is the default config without blur, to keep renders cheap.
func fastConfig() *Config {
	cfg := DefaultConfig()
	cfg.Background.BlurRadius = 0
	return cfg
}

func newTestRenderer(t testing.TB, cfg *Config) *Renderer {
	t.Helper()
	r, err := NewRenderer(cfg, goRegular(t))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}
