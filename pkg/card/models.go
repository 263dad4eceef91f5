// Package card renders 1080x1920 quote cards: a cover-cropped, blurred
// background photo with an auto-sized quote, an author line and a footer caption.
package card

import (
	"image"

	"golang.org/x/image/font"
)

// Canvas dimensions are fixed for every card.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1920
)

// ── Config types ──

// Config is the top-level structure of a config.json file.
type Config struct {
	Meta       Meta             `json:"meta"`
	Font       FontConfig       `json:"font"`
	Background BackgroundConfig `json:"background"`
	Layout     LayoutConfig     `json:"layout"`
	Title      TitleStyle       `json:"title"`
	Author     AuthorStyle      `json:"author"`
	Footer     FooterStyle      `json:"footer"`
}

// Meta holds config metadata.
type Meta struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// FontConfig specifies where scalable fonts are looked up and what happens
// when none is found.
type FontConfig struct {
	Path        string   `json:"path"`        // explicit TTF/OTF, tried before SearchPaths
	SearchPaths []string `json:"searchPaths"` // first existing file wins
	Fallback    string   `json:"fallback"`    // "builtin" (fixed glyphs) or "embedded" (Go Regular)
	Engine      string   `json:"engine"`      // "opentype" or "freetype"
	DPI         float64  `json:"dpi"`
}

// BackgroundConfig controls the cover-crop and blur of the source photo.
type BackgroundConfig struct {
	BlurRadius      float64 `json:"blurRadius"`
	MaxSourcePixels int     `json:"maxSourcePixels"` // 0 = unbounded
}

// LayoutConfig holds the fixed geometry of the card, in pixels.
type LayoutConfig struct {
	MarginX       int    `json:"marginX"`
	MarginTop     int    `json:"marginTop"`
	MarginBottom  int    `json:"marginBottom"`
	PanelPadding  int    `json:"panelPadding"`
	PanelColor    string `json:"panelColor"`    // "#rrggbbaa"
	InnerPadding  int    `json:"innerPadding"`  // subtracted from region width before wrapping
	BottomReserve int    `json:"bottomReserve"` // subtracted from region height when fitting
	Leading       int    `json:"leading"`
	AuthorGap     int    `json:"authorGap"`
	FooterOffset  int    `json:"footerOffset"` // distance of the footer top from the bottom edge
}

// TextColors is shared by every text role.
type TextColors struct {
	Color        string `json:"color"`
	ShadowColor  string `json:"shadowColor"`
	ShadowOffset int    `json:"shadowOffset"`
}

// TitleStyle configures the auto-fitted quote.
type TitleStyle struct {
	TextColors
	MaxSize     float64 `json:"maxSize"`
	MinSize     float64 `json:"minSize"`
	Step        float64 `json:"step"`
	StrictWidth *bool   `json:"strictWidth,omitempty"` // nil = true
}

// AuthorStyle configures the attribution line.
type AuthorStyle struct {
	TextColors
	Size    float64 `json:"size"`
	Prefix  string  `json:"prefix"`
	Default string  `json:"default"` // used when the author is blank
}

// FooterStyle configures the fixed caption.
type FooterStyle struct {
	TextColors
	Size float64 `json:"size"`
	Text string  `json:"text"`
}

// ── Batch types ──

// CardData is one card request. Used both as defaults and per card in batch.json.
type CardData struct {
	Quote      string `json:"quote,omitempty"`
	Author     string `json:"author,omitempty"`
	Background string `json:"background,omitempty"` // image path
	Color      string `json:"color,omitempty"`      // solid background when no image is given
	Output     string `json:"output,omitempty"`
}

// Batch is the top-level structure of batch.json.
type Batch struct {
	Defaults CardData   `json:"defaults"`
	Cards    []CardData `json:"cards"`
}

// ── Layout results ──

// TextBlock is a wrapped, auto-fitted run of lines sharing one face and pitch.
type TextBlock struct {
	Lines      []string
	Face       font.Face
	Size       float64 // size the face draws at, which is fixed for non-scalable providers
	LineHeight int
	Overflow   bool // no candidate size satisfied the bounds
}

// Role identifies which part of the card a placement belongs to.
type Role string

const (
	RoleTitle  Role = "title"
	RoleAuthor Role = "author"
	RoleFooter Role = "footer"
)

// Placement is a single line of text positioned on the canvas.
// X, Y is the top-left corner of the line's box.
type Placement struct {
	Role   Role    `json:"role"`
	Text   string  `json:"text"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Size   float64 `json:"size"`
}

// CardLayout is everything Render draws, computed without touching pixels.
type CardLayout struct {
	Region     image.Rectangle `json:"region"`
	Panel      image.Rectangle `json:"panel"`
	TitleSize  float64         `json:"titleSize"`
	LineHeight int             `json:"lineHeight"`
	Overflow   bool            `json:"overflow"`
	Lines      []Placement     `json:"lines"`
}
