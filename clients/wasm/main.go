//go:build js && wasm

// quotestencil WASM - Client-side card renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o quotestencil.wasm ./clients/wasm/
package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/xob0t/quotestencil/pkg/card"
	"github.com/xob0t/quotestencil/pkg/generator"
)

// In-memory asset store (replaces server-side asset manager).
var (
	assetsMu sync.RWMutex
	assets   = make(map[string]assetEntry)
)

type assetEntry struct {
	Data []byte
	Mime string
}

// Parsed fonts, keyed by "fontID|engine|dpi". The empty ID is the embedded
// Go Regular font.
var fonts = card.NewFontCache()

func main() {
	fmt.Println("quotestencil WASM loaded")

	// Register JS-callable functions.
	js.Global().Set("goRenderCard", js.FuncOf(renderCard))
	js.Global().Set("goRegisterAsset", js.FuncOf(registerAsset))
	js.Global().Set("goRemoveAsset", js.FuncOf(removeAsset))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// resolveAsset returns the raw bytes stored under id, nil otherwise.
func resolveAsset(id string) []byte {
	assetsMu.RLock()
	defer assetsMu.RUnlock()
	if a, ok := assets[id]; ok {
		return a.Data
	}
	return nil
}

// goRegisterAsset(id, base64Data, mime) - store an asset in Go memory.
func registerAsset(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf("error: need id, base64Data, mime")
	}
	id := args[0].String()
	b64 := args[1].String()
	mimeType := args[2].String()

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}

	assetsMu.Lock()
	assets[id] = assetEntry{Data: data, Mime: mimeType}
	assetsMu.Unlock()

	return js.ValueOf("ok")
}

// goRemoveAsset(id) - remove an asset from Go memory.
func removeAsset(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need id")
	}
	id := args[0].String()
	assetsMu.Lock()
	delete(assets, id)
	assetsMu.Unlock()
	fonts.Forget(id + "|")
	return js.ValueOf("ok")
}

// goRenderCard(configJSON, quote, author, backgroundID, fontID) - render and
// return base64 PNG. configJSON and fontID may be empty.
func renderCard(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return js.ValueOf("error: need configJSON, quote, author, backgroundID")
	}

	cfg := card.DefaultConfig()
	if s := args[0].String(); s != "" {
		var err error
		if cfg, err = card.ParseConfig([]byte(s)); err != nil {
			return js.ValueOf("error: " + err.Error())
		}
	}

	fontID := ""
	if len(args) > 4 {
		fontID = args[4].String()
	}
	fp, err := fontProvider(fontID, cfg.Font)
	if err != nil {
		return js.ValueOf("error: font: " + err.Error())
	}

	renderer, err := card.NewRenderer(cfg, fp)
	if err != nil {
		return js.ValueOf("error: renderer: " + err.Error())
	}

	bgData := resolveAsset(args[3].String())
	if bgData == nil {
		return js.ValueOf("error: unknown background asset " + args[3].String())
	}
	bg, err := card.LoadBackground(bytes.NewReader(bgData), cfg.Background.MaxSourcePixels)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}

	img, err := renderer.Render(args[1].String(), args[2].String(), bg)
	if err != nil {
		return js.ValueOf("error: render: " + err.Error())
	}

	var buf bytes.Buffer
	if err := generator.GenerateToWriter(&buf, ".png", generator.Config{Image: img}); err != nil {
		return js.ValueOf("error: encode: " + err.Error())
	}

	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// fontProvider returns the cached provider for fontID, parsing the font on
// first use. No filesystem in the browser: only uploaded or embedded fonts.
func fontProvider(fontID string, fc card.FontConfig) (card.FontProvider, error) {
	data := resolveAsset(fontID)
	if data == nil {
		fontID = ""
	}

	key := fmt.Sprintf("%s|%s|%v", fontID, fc.Engine, fc.DPI)
	return fonts.Get(key, func() (card.FontProvider, error) {
		if fontID == "" {
			return card.NewFontProvider(card.FontConfig{Fallback: card.FallbackEmbedded, Engine: fc.Engine, DPI: fc.DPI})
		}
		return card.NewScalableFontProvider(fontID, data, fc.Engine, fc.DPI)
	})
}
