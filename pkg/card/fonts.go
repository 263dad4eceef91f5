// fonts.go - Font resolution with scalable TTF/OTF support and a fixed-glyph fallback.
// A FontProvider is selected once from an explicit search-path list; the renderer
// never branches on whether a font file was found.
package card

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font engines.
const (
	EngineOpenType = "opentype"
	EngineFreeType = "freetype"
)

// Font fallbacks used when no search path yields a font.
const (
	FallbackBuiltin  = "builtin"
	FallbackEmbedded = "embedded"
)

// DefaultSearchPaths are tried in order when the config does not name any.
var DefaultSearchPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"C:/Windows/Fonts/arial.ttf",
}

// FontProvider hands out faces for a logical text role at a pixel size.
// Returned faces are owned by the caller, which must not share them across
// goroutines.
type FontProvider interface {
	Face(role Role, size float64) (font.Face, error)
	// Scalable reports whether Face honours the requested size.
	Scalable() bool
	Name() string
}

// NewFontProvider tries cfg.Path and then cfg.SearchPaths in order and returns
// a scalable provider for the first font that loads. When none does, the
// configured fallback is used; a missing font is not an error.
func NewFontProvider(cfg FontConfig) (FontProvider, error) {
	candidates := make([]string, 0, len(cfg.SearchPaths)+1)
	if cfg.Path != "" {
		candidates = append(candidates, cfg.Path)
	}
	candidates = append(candidates, cfg.SearchPaths...)

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				Logger().Warn("could not read font, skipping", "path", path, "err", err)
			}
			continue
		}
		fp, err := NewScalableFontProvider(path, data, cfg.Engine, cfg.DPI)
		if err != nil {
			Logger().Warn("could not parse font, skipping", "path", path, "err", err)
			continue
		}
		Logger().Info("using scalable font", "path", path, "engine", engineOrDefault(cfg.Engine))
		return fp, nil
	}

	switch cfg.Fallback {
	case FallbackEmbedded:
		Logger().Info("no font file found, using embedded Go Regular")
		return NewScalableFontProvider("goregular", goregular.TTF, cfg.Engine, cfg.DPI)
	case "", FallbackBuiltin:
		Logger().Info("no font file found, using builtin glyphs")
		return NewBuiltinFontProvider(), nil
	default:
		return nil, fmt.Errorf("unknown font fallback %q: use %q or %q", cfg.Fallback, FallbackBuiltin, FallbackEmbedded)
	}
}

// scalableProvider creates faces at any size from one parsed font.
type scalableProvider struct {
	name    string
	newFace func(size float64) (font.Face, error)
}

// NewScalableFontProvider parses TTF/OTF data with the given engine
// ("opentype" by default, or "freetype"). dpi <= 0 means 72, so sizes are pixels.
func NewScalableFontProvider(name string, data []byte, engine string, dpi float64) (FontProvider, error) {
	if dpi <= 0 {
		dpi = 72
	}

	switch engineOrDefault(engine) {
	case EngineOpenType:
		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		return &scalableProvider{
			name: name,
			newFace: func(size float64) (font.Face, error) {
				face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
					Size:    size,
					DPI:     dpi,
					Hinting: font.HintingFull,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create font face: %w", err)
				}
				return face, nil
			},
		}, nil

	case EngineFreeType:
		parsed, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		return &scalableProvider{
			name: name,
			newFace: func(size float64) (font.Face, error) {
				return truetype.NewFace(parsed, &truetype.Options{
					Size:    size,
					DPI:     dpi,
					Hinting: font.HintingFull,
				}), nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown font engine %q: use %q or %q", engine, EngineOpenType, EngineFreeType)
	}
}

func (p *scalableProvider) Face(role Role, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid %s font size %v", role, size)
	}
	return p.newFace(size)
}

func (p *scalableProvider) Scalable() bool { return true }
func (p *scalableProvider) Name() string   { return p.name }

// builtinProvider always returns the 7x13 fixed glyph set, ignoring size.
type builtinProvider struct{}

// NewBuiltinFontProvider returns the provider used when no font file exists.
func NewBuiltinFontProvider() FontProvider { return builtinProvider{} }

func (builtinProvider) Face(Role, float64) (font.Face, error) { return basicfont.Face7x13, nil }
func (builtinProvider) Scalable() bool                        { return false }
func (builtinProvider) Name() string                          { return "builtin" }

// faceSize is the pixel size face actually draws at: requested for scalable
// providers, the face's own line height otherwise.
func faceSize(fp FontProvider, face font.Face, requested float64) float64 {
	if fp.Scalable() {
		return requested
	}
	return float64(face.Metrics().Height.Ceil())
}

func engineOrDefault(engine string) string {
	if engine == "" {
		return EngineOpenType
	}
	return engine
}
