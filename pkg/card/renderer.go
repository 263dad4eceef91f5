// renderer.go - Card composition: blurred background, contrast panel, auto-fitted
// quote, author line and footer caption, all drawn with an offset shadow.
// Layout is computed first (Plan) and then painted (Render).
package card

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/xob0t/quotestencil/pkg/generator"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Renderer composes cards. It is safe for concurrent use: every call gets its
// own canvas and faces.
type Renderer struct {
	cfg     *Config
	fonts   FontProvider
	palette palette
}

type palette struct {
	panel                color.NRGBA
	title, titleShadow   color.NRGBA
	author, authorShadow color.NRGBA
	footer, footerShadow color.NRGBA
}

// NewRenderer creates a renderer for cfg using fonts for every text role.
// A nil cfg means DefaultConfig().
func NewRenderer(cfg *Config, fonts FontProvider) (*Renderer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if fonts == nil {
		return nil, fmt.Errorf("renderer: nil font provider")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	p, err := newPalette(cfg)
	if err != nil {
		return nil, err
	}

	return &Renderer{cfg: cfg, fonts: fonts, palette: p}, nil
}

// NewRendererFromConfig resolves the font provider from cfg.Font and creates a renderer.
func NewRendererFromConfig(cfg *Config) (*Renderer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	fonts, err := NewFontProvider(cfg.Font)
	if err != nil {
		return nil, err
	}
	return NewRenderer(cfg, fonts)
}

// Config returns the renderer's configuration. Callers must not modify it.
func (r *Renderer) Config() *Config { return r.cfg }

// Fonts returns the font provider in use.
func (r *Renderer) Fonts() FontProvider { return r.fonts }

// Region returns the text-safe rectangle inside the canvas.
func (r *Renderer) Region() image.Rectangle {
	l := r.cfg.Layout
	return image.Rect(l.MarginX, l.MarginTop, CanvasWidth-l.MarginX, CanvasHeight-l.MarginBottom)
}

// Render composes a card from a quote, an author and a background image of any
// size. The result is CanvasWidth x CanvasHeight and fully opaque.
func (r *Renderer) Render(quote, author string, bg image.Image) (*image.RGBA, error) {
	base, err := ProcessBackground(bg, BackgroundOptions{
		Width:      CanvasWidth,
		Height:     CanvasHeight,
		BlurRadius: r.cfg.Background.BlurRadius,
	})
	if err != nil {
		return nil, err
	}

	pc, err := r.plan(quote, author)
	if err != nil {
		return nil, err
	}
	defer pc.close()

	canvas := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), base, base.Bounds().Min, draw.Over)
	draw.Draw(canvas, pc.layout.Panel, &image.Uniform{r.palette.panel}, image.Point{}, draw.Over)

	for _, p := range pc.layout.Lines {
		switch p.Role {
		case RoleTitle:
			drawShadowed(canvas, pc.title.Face, p, r.palette.title, r.palette.titleShadow, r.cfg.Title.ShadowOffset)
		case RoleAuthor:
			drawShadowed(canvas, pc.author, p, r.palette.author, r.palette.authorShadow, r.cfg.Author.ShadowOffset)
		case RoleFooter:
			drawShadowed(canvas, pc.footer, p, r.palette.footer, r.palette.footerShadow, r.cfg.Footer.ShadowOffset)
		}
	}

	return canvas, nil
}

// RenderCard renders one batch entry, loading its background from disk or
// falling back to a solid color.
func (r *Renderer) RenderCard(data CardData) (*image.RGBA, error) {
	var bg image.Image
	if data.Background != "" {
		img, err := LoadBackgroundFile(data.Background, r.cfg.Background.MaxSourcePixels)
		if err != nil {
			return nil, err
		}
		bg = img
	} else {
		c, err := generator.ParseColor(data.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBackground, err)
		}
		bg = generator.NewSolidImage(CanvasWidth, CanvasHeight, c)
	}
	return r.Render(data.Quote, data.Author, bg)
}

// Plan computes where every line of the card goes without drawing anything.
func (r *Renderer) Plan(quote, author string) (*CardLayout, error) {
	pc, err := r.plan(quote, author)
	if err != nil {
		return nil, err
	}
	pc.close()
	return &pc.layout, nil
}

// AuthorLabel returns the attribution text drawn for author.
func (r *Renderer) AuthorLabel(author string) string {
	a := strings.TrimSpace(normalizeText(author))
	if a == "" {
		a = r.cfg.Author.Default
	}
	return r.cfg.Author.Prefix + a
}

// plannedCard holds a layout plus the faces needed to paint it.
type plannedCard struct {
	layout CardLayout
	title  *TextBlock
	author font.Face
	footer font.Face
}

func (pc *plannedCard) close() {
	pc.title.Face.Close()
	pc.author.Close()
	pc.footer.Close()
}

func (r *Renderer) plan(quote, author string) (*plannedCard, error) {
	l := r.cfg.Layout
	region := r.Region()

	opts := r.fitOptions(region)
	block, err := Fit(r.fonts, normalizeText(quote), opts)
	if err != nil {
		return nil, fmt.Errorf("fit title: %w", err)
	}
	if block.Overflow {
		Logger().Debug("title overflows text region", "size", block.Size, "lines", len(block.Lines))
	}

	authorFace, err := r.fonts.Face(RoleAuthor, r.cfg.Author.Size)
	if err != nil {
		block.Face.Close()
		return nil, err
	}
	footerFace, err := r.fonts.Face(RoleFooter, r.cfg.Footer.Size)
	if err != nil {
		block.Face.Close()
		authorFace.Close()
		return nil, err
	}

	pc := &plannedCard{
		title:  block,
		author: authorFace,
		footer: footerFace,
		layout: CardLayout{
			Region:     region,
			Panel:      region.Inset(-l.PanelPadding),
			TitleSize:  block.Size,
			LineHeight: block.LineHeight,
			Overflow:   block.Overflow,
		},
	}

	// Overflowing blocks start above the region; that is accepted.
	y := region.Min.Y + floorDiv(region.Dy()-len(block.Lines)*block.LineHeight, 2)
	for _, line := range block.Lines {
		pc.layout.Lines = append(pc.layout.Lines, centered(RoleTitle, block.Face, line, y, block.Size))
		y += block.LineHeight
	}

	pc.layout.Lines = append(pc.layout.Lines,
		centered(RoleAuthor, authorFace, r.AuthorLabel(author), y+l.AuthorGap, faceSize(r.fonts, authorFace, r.cfg.Author.Size)),
		centered(RoleFooter, footerFace, normalizeText(r.cfg.Footer.Text), CanvasHeight-l.FooterOffset, faceSize(r.fonts, footerFace, r.cfg.Footer.Size)),
	)

	return pc, nil
}

func (r *Renderer) fitOptions(region image.Rectangle) FitOptions {
	l := r.cfg.Layout
	t := r.cfg.Title
	return FitOptions{
		MaxSize:       t.MaxSize,
		MinSize:       t.MinSize,
		Step:          t.Step,
		AreaWidth:     region.Dx(),
		AreaHeight:    region.Dy(),
		InnerPadding:  l.InnerPadding,
		BottomReserve: l.BottomReserve,
		Leading:       l.Leading,
		StrictWidth:   t.StrictWidth == nil || *t.StrictWidth,
	}
}

// centered places text horizontally centred on the full canvas width.
func centered(role Role, face font.Face, text string, y int, size float64) Placement {
	w, h := Measure(face, text)
	return Placement{
		Role:   role,
		Text:   text,
		X:      floorDiv(CanvasWidth-w, 2),
		Y:      y,
		Width:  w,
		Height: h,
		Size:   size,
	}
}

// drawShadowed draws p.Text twice: shadow offset down-right, then the fill.
func drawShadowed(dst draw.Image, face font.Face, p Placement, fill, shadow color.Color, offset int) {
	if p.Text == "" {
		return
	}
	if offset != 0 {
		drawString(dst, face, p.Text, p.X+offset, p.Y+offset, shadow)
	}
	drawString(dst, face, p.Text, p.X, p.Y, fill)
}

// drawString draws text with its ink starting at x and its line box top at y.
func drawString(dst draw.Image, face font.Face, text string, x, y int, col color.Color) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x-inkOffset(face, text), y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
}

func newPalette(cfg *Config) (palette, error) {
	var p palette
	fields := []struct {
		dst  *color.NRGBA
		name string
		hex  string
	}{
		{&p.panel, "layout.panelColor", cfg.Layout.PanelColor},
		{&p.title, "title.color", cfg.Title.Color},
		{&p.titleShadow, "title.shadowColor", cfg.Title.ShadowColor},
		{&p.author, "author.color", cfg.Author.Color},
		{&p.authorShadow, "author.shadowColor", cfg.Author.ShadowColor},
		{&p.footer, "footer.color", cfg.Footer.Color},
		{&p.footerShadow, "footer.shadowColor", cfg.Footer.ShadowColor},
	}
	for _, f := range fields {
		c, err := parseConfigColor(f.hex)
		if err != nil {
			return palette{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// parseConfigColor rejects "random", which only makes sense for backgrounds.
func parseConfigColor(hex string) (color.NRGBA, error) {
	if !strings.HasPrefix(hex, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", hex)
	}
	return generator.ParseColor(hex)
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
