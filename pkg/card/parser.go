// parser.go - Config defaults, JSON parsing and example generation.
package card

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultConfig returns the stock card: 80/160/220 margins, a 110..30 title
// search in steps of 2, a 40px author line and a 28px footer.
func DefaultConfig() *Config {
	return &Config{
		Meta: Meta{
			Name:    "Default",
			Version: "1.0",
		},
		Font: FontConfig{
			SearchPaths: append([]string(nil), DefaultSearchPaths...),
			Fallback:    FallbackBuiltin,
			Engine:      EngineOpenType,
			DPI:         72,
		},
		Background: BackgroundConfig{
			BlurRadius:      10,
			MaxSourcePixels: 100_000_000,
		},
		Layout: LayoutConfig{
			MarginX:       80,
			MarginTop:     160,
			MarginBottom:  220,
			PanelPadding:  20,
			PanelColor:    "#00000078",
			InnerPadding:  40,
			BottomReserve: 120,
			Leading:       8,
			AuthorGap:     20,
			FooterOffset:  60,
		},
		Title: TitleStyle{
			TextColors: TextColors{Color: "#ffffff", ShadowColor: "#000000b4", ShadowOffset: 2},
			MaxSize:    110,
			MinSize:    30,
			Step:       2,
		},
		Author: AuthorStyle{
			TextColors: TextColors{Color: "#f0f0f0", ShadowColor: "#000000b4", ShadowOffset: 1},
			Size:       40,
			Prefix:     "— ",
			Default:    "Anônimo",
		},
		Footer: FooterStyle{
			TextColors: TextColors{Color: "#ffffff", ShadowColor: "#000000b4", ShadowOffset: 1},
			Size:       28,
			Text:       "@elizeu.dev",
		},
	}
}

// ParseConfig overlays a JSON document on DefaultConfig. Fields absent from
// the document keep their defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	return cfg, nil
}

// ParseConfigFile loads a standalone config JSON file.
func ParseConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// GetExampleJSON returns a sample config.json and batch.json for quotestencil init.
func GetExampleJSON() (configJSON, batchJSON string) {
	configJSON = `{
  "meta": {
    "name": "Story Card",
    "version": "1.0",
    "author": "quotestencil",
    "description": "Blurred photo, centred quote, footer handle"
  },
  "font": {
    "searchPaths": [
      "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
      "/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
      "C:/Windows/Fonts/arial.ttf"
    ],
    "fallback": "embedded",
    "engine": "opentype"
  },
  "background": { "blurRadius": 10 },
  "layout": {
    "marginX": 80, "marginTop": 160, "marginBottom": 220,
    "panelPadding": 20,
    "panelColor": "#00000078"
  },
  "title": { "maxSize": 110, "minSize": 30, "step": 2, "color": "#ffffff" },
  "author": { "size": 40, "default": "Anônimo" },
  "footer": { "size": 28, "text": "@elizeu.dev" }
}`

	batchJSON = `{
  "defaults": {
    "author": "",
    "color": "#1a1a2e"
  },
  "cards": [
    {
      "quote": "A jornada de mil milhas começa com um único passo.",
      "author": "Lao Tsé",
      "output": "lao-tse.png"
    },
    {
      "quote": "Conhece-te a ti mesmo.",
      "output": "socrates.png"
    }
  ]
}`
	return
}
