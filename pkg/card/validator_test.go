package card

import (
	"strings"
	"testing"
)

func TestValidateConfigJoinsProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title.Step = -1
	cfg.Author.Size = 0
	cfg.Font.Fallback = "papyrus"

	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"title.step", "author.size", "font.fallback"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateConfigGeometry(t *testing.T) {
	tests := map[string]func(*Config){
		"negative margin":         func(c *Config) { c.Layout.MarginTop = -1 },
		"no height":               func(c *Config) { c.Layout.MarginTop, c.Layout.MarginBottom = 1000, 920 },
		"footer size":             func(c *Config) { c.Footer.Size = -2 },
		"negative blur":           func(c *Config) { c.Background.BlurRadius = -3 },
		"negative leading":        func(c *Config) { c.Layout.Leading = -8 },
		"negative inner padding":  func(c *Config) { c.Layout.InnerPadding = -1 },
		"negative bottom reserve": func(c *Config) { c.Layout.BottomReserve = -120 },
		"negative author gap":     func(c *Config) { c.Layout.AuthorGap = -20 },
		"negative panel padding":  func(c *Config) { c.Layout.PanelPadding = -5 },
		"negative shadow":         func(c *Config) { c.Title.ShadowOffset = -2 },
		"negative author shadow":  func(c *Config) { c.Author.ShadowOffset = -1 },
		"negative footer shadow":  func(c *Config) { c.Footer.ShadowOffset = -1 },
		"footer below canvas":     func(c *Config) { c.Layout.FooterOffset = 0 },
		"negative footer offset":  func(c *Config) { c.Layout.FooterOffset = -60 },
		"footer above canvas":     func(c *Config) { c.Layout.FooterOffset = CanvasHeight + 1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			if err := ValidateConfig(cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigWarnings(t *testing.T) {
	if w := ConfigWarnings(DefaultConfig()); len(w) != 0 {
		t.Errorf("default config warnings: %v", w)
	}

	cfg := DefaultConfig()
	cfg.Layout.FooterOffset = 300
	cfg.Background.MaxSourcePixels = 0
	cfg.Font.SearchPaths = nil

	w := ConfigWarnings(cfg)
	if len(w) != 3 {
		t.Fatalf("warnings = %v, want 3", w)
	}
}

func TestValidateBatch(t *testing.T) {
	cards := []CardData{
		{Quote: "a", Color: "#000000", Output: "a.png"},
		{Quote: " ", Color: "#000000", Output: "b.png"},
		{Quote: "c", Color: "#000000"},
		{Quote: "d", Output: "a.png", Background: "bg.jpg"},
		{Quote: "e", Output: "e.png"},
	}

	w := ValidateBatch(cards)
	wants := []string{"card 1 has an empty quote", "card 2 has no output", "cards 0 and 3", "card 4 has neither"}
	if len(w) != len(wants) {
		t.Fatalf("warnings = %q, want %d", w, len(wants))
	}
	for i, want := range wants {
		if !strings.Contains(w[i], want) {
			t.Errorf("warning %d = %q, want it to contain %q", i, w[i], want)
		}
	}
}

func TestFormatConfig(t *testing.T) {
	out := FormatConfig(DefaultConfig(), NewBuiltinFontProvider())
	for _, want := range []string{"1080x1920", "30..110 step 2", "builtin (fixed)", `"@elizeu.dev"`} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatConfig output missing %q:\n%s", want, out)
		}
	}
}
