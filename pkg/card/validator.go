// validator.go - Validate configs and batch files.
package card

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateConfig reports geometry and sizes that cannot produce a card.
func ValidateConfig(cfg *Config) error {
	var errs []error
	l := cfg.Layout

	if l.MarginX < 0 || l.MarginTop < 0 || l.MarginBottom < 0 {
		errs = append(errs, fmt.Errorf("layout margins must not be negative"))
	}
	if 2*l.MarginX >= CanvasWidth {
		errs = append(errs, fmt.Errorf("layout.marginX %d leaves no width on a %dpx canvas", l.MarginX, CanvasWidth))
	}
	if l.MarginTop+l.MarginBottom >= CanvasHeight {
		errs = append(errs, fmt.Errorf("layout margins %d+%d leave no height on a %dpx canvas", l.MarginTop, l.MarginBottom, CanvasHeight))
	}

	spacing := []struct {
		name  string
		value int
	}{
		{"layout.panelPadding", l.PanelPadding},
		{"layout.innerPadding", l.InnerPadding},
		{"layout.bottomReserve", l.BottomReserve},
		{"layout.leading", l.Leading},
		{"layout.authorGap", l.AuthorGap},
		{"title.shadowOffset", cfg.Title.ShadowOffset},
		{"author.shadowOffset", cfg.Author.ShadowOffset},
		{"footer.shadowOffset", cfg.Footer.ShadowOffset},
	}
	for _, f := range spacing {
		if f.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", f.name, f.value))
		}
	}
	if l.FooterOffset <= 0 || l.FooterOffset > CanvasHeight {
		errs = append(errs, fmt.Errorf("layout.footerOffset %d puts the footer off a %dpx canvas", l.FooterOffset, CanvasHeight))
	}

	t := cfg.Title
	if t.Step <= 0 {
		errs = append(errs, fmt.Errorf("title.step must be positive, got %v", t.Step))
	}
	if t.MinSize <= 0 || t.MinSize > t.MaxSize {
		errs = append(errs, fmt.Errorf("title size range [%v, %v] is empty", t.MinSize, t.MaxSize))
	}
	if cfg.Author.Size <= 0 {
		errs = append(errs, fmt.Errorf("author.size must be positive, got %v", cfg.Author.Size))
	}
	if cfg.Footer.Size <= 0 {
		errs = append(errs, fmt.Errorf("footer.size must be positive, got %v", cfg.Footer.Size))
	}
	if cfg.Background.BlurRadius < 0 {
		errs = append(errs, fmt.Errorf("background.blurRadius must not be negative"))
	}

	switch cfg.Font.Fallback {
	case "", FallbackBuiltin, FallbackEmbedded:
	default:
		errs = append(errs, fmt.Errorf("font.fallback %q: use %q or %q", cfg.Font.Fallback, FallbackBuiltin, FallbackEmbedded))
	}
	switch cfg.Font.Engine {
	case "", EngineOpenType, EngineFreeType:
	default:
		errs = append(errs, fmt.Errorf("font.engine %q: use %q or %q", cfg.Font.Engine, EngineOpenType, EngineFreeType))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ConfigWarnings returns non-fatal oddities in cfg, for graceful degradation.
func ConfigWarnings(cfg *Config) []string {
	var warnings []string
	l := cfg.Layout

	if l.PanelPadding > l.MarginX || l.PanelPadding > l.MarginTop {
		warnings = append(warnings, fmt.Sprintf("panelPadding %d reaches past the canvas edge — panel will be clipped", l.PanelPadding))
	}
	if l.FooterOffset > l.MarginBottom-l.PanelPadding {
		warnings = append(warnings, fmt.Sprintf("footerOffset %d puts the footer over the text panel", l.FooterOffset))
	}
	if l.InnerPadding >= CanvasWidth-2*l.MarginX {
		warnings = append(warnings, fmt.Sprintf("innerPadding %d leaves no wrap width — every word gets its own line", l.InnerPadding))
	}
	if cfg.Background.MaxSourcePixels <= 0 {
		warnings = append(warnings, "background.maxSourcePixels is unbounded — huge photos are decoded in full")
	}
	if cfg.Font.Path == "" && len(cfg.Font.SearchPaths) == 0 && cfg.Font.Fallback != FallbackEmbedded {
		warnings = append(warnings, "no font paths configured — cards will use the builtin fixed-size glyphs")
	}

	return warnings
}

// ValidateBatch checks batch entries after merging. Returns warnings (never
// fatal errors); entries that cannot render fail individually later.
func ValidateBatch(cards []CardData) []string {
	var warnings []string
	seen := make(map[string]int, len(cards))

	for i, c := range cards {
		if strings.TrimSpace(c.Quote) == "" {
			warnings = append(warnings, fmt.Sprintf("card %d has an empty quote", i))
		}
		if c.Output == "" {
			warnings = append(warnings, fmt.Sprintf("card %d has no output path — skipped", i))
			continue
		}
		if prev, ok := seen[c.Output]; ok {
			warnings = append(warnings, fmt.Sprintf("cards %d and %d both write %q — the later one wins", prev, i, c.Output))
		}
		seen[c.Output] = i
		if c.Background == "" && c.Color == "" {
			warnings = append(warnings, fmt.Sprintf("card %d has neither background nor color — using a random color", i))
		}
	}

	return warnings
}

// FormatConfig returns a human-readable description of cfg.
func FormatConfig(cfg *Config, fonts FontProvider) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Config: %s (v%s)", cfg.Meta.Name, cfg.Meta.Version)
	if cfg.Meta.Author != "" {
		fmt.Fprintf(&b, " by %s", cfg.Meta.Author)
	}
	b.WriteString("\n")
	if cfg.Meta.Description != "" {
		b.WriteString(cfg.Meta.Description + "\n")
	}
	b.WriteString("\n")

	l := cfg.Layout
	fmt.Fprintf(&b, "  %-12s %dx%d\n", "canvas:", CanvasWidth, CanvasHeight)
	fmt.Fprintf(&b, "  %-12s x=%d y=%d w=%d h=%d\n", "text region:",
		l.MarginX, l.MarginTop, CanvasWidth-2*l.MarginX, CanvasHeight-l.MarginTop-l.MarginBottom)
	fmt.Fprintf(&b, "  %-12s %v..%v step %v\n", "title size:", cfg.Title.MinSize, cfg.Title.MaxSize, cfg.Title.Step)
	fmt.Fprintf(&b, "  %-12s %v (default %q)\n", "author size:", cfg.Author.Size, cfg.Author.Default)
	fmt.Fprintf(&b, "  %-12s %v %q\n", "footer:", cfg.Footer.Size, cfg.Footer.Text)
	fmt.Fprintf(&b, "  %-12s %v\n", "blur:", cfg.Background.BlurRadius)
	if fonts != nil {
		kind := "fixed"
		if fonts.Scalable() {
			kind = "scalable"
		}
		fmt.Fprintf(&b, "  %-12s %s (%s)\n", "font:", fonts.Name(), kind)
	}

	return b.String()
}
