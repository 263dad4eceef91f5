// Package server provides the quotestencil web form and HTTP API.
package server

import (
	"bytes"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/xob0t/quotestencil/pkg/card"
	"github.com/xob0t/quotestencil/pkg/generator"
)

//go:embed web/*
var webContent embed.FS

// maxUploadBytes caps multipart bodies (photo plus form fields).
const maxUploadBytes = 64 << 20

// ── Asset Manager ──

type asset struct {
	Name string
	Data []byte
	Mime string
}

type assetManager struct {
	mu     sync.RWMutex
	assets map[string]*asset
}

func newAssetManager() *assetManager {
	return &assetManager{assets: make(map[string]*asset)}
}

func (am *assetManager) add(name string, data []byte, mimeType string) string {
	id := randomID()
	am.mu.Lock()
	am.assets[id] = &asset{Name: name, Data: data, Mime: mimeType}
	am.mu.Unlock()
	return id
}

func (am *assetManager) get(id string) (*asset, bool) {
	am.mu.RLock()
	a, ok := am.assets[id]
	am.mu.RUnlock()
	return a, ok
}

func (am *assetManager) listAll() []map[string]interface{} {
	am.mu.RLock()
	defer am.mu.RUnlock()
	result := make([]map[string]interface{}, 0, len(am.assets))
	for id, a := range am.assets {
		result = append(result, map[string]interface{}{
			"id":   id,
			"name": a.Name,
			"mime": a.Mime,
			"size": len(a.Data),
		})
	}
	return result
}

func (am *assetManager) remove(id string) bool {
	am.mu.Lock()
	defer am.mu.Unlock()
	if _, ok := am.assets[id]; !ok {
		return false
	}
	delete(am.assets, id)
	return true
}

func randomID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ── Server ──

type srv struct {
	assets   *assetManager
	renderer *card.Renderer
	log      *slog.Logger
}

// RunServe starts the web UI server.
func RunServe(args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		port       string
		configPath string
		open       bool
	)
	flags.StringVar(&port, "port", "8080", "Listen port")
	flags.StringVar(&port, "p", "8080", "Listen port")
	flags.StringVar(&configPath, "config", "", "Path to .qcbundle or config JSON (optional)")
	flags.BoolVar(&open, "open", false, "Open the UI in a browser")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, cleanup, err := card.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer cleanup()

	renderer, err := card.NewRendererFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	card.SetLogger(logger)

	handler, err := NewHandler(renderer, logger)
	if err != nil {
		return err
	}

	addr := ":" + port
	logger.Info("quotestencil UI listening", "url", "http://localhost"+addr, "font", renderer.Fonts().Name())

	if open {
		go openBrowser("http://localhost" + addr)
	}

	return http.ListenAndServe(addr, handler)
}

// NewHandler returns the HTTP API and static UI backed by renderer.
func NewHandler(renderer *card.Renderer, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = card.Logger()
	}
	s := &srv{
		assets:   newAssetManager(),
		renderer: renderer,
		log:      logger,
	}

	webFS, err := fs.Sub(webContent, "web")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}

	mux := http.NewServeMux()

	// API routes.
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("POST /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("POST /api/upload/image", s.handleUploadImage)
	mux.HandleFunc("GET /api/assets/{id}", s.handleGetAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)
	mux.HandleFunc("GET /api/assets", s.handleListAssets)

	// Static files.
	mux.Handle("/", http.FileServer(http.FS(webFS)))

	return mux, nil
}

// ── Render (core) ──

// handleRender expects a multipart form with quote, author, and either an
// "image" file or a "background" asset ID or a "color". The "format" field
// picks the output extension (default .png).
func (s *srv) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	quote := r.FormValue("quote")
	if strings.TrimSpace(quote) == "" {
		http.Error(w, "quote is required", http.StatusBadRequest)
		return
	}

	ext := r.FormValue("format")
	if ext == "" {
		ext = ".png"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if _, ok := generator.EncoderFor(ext); !ok {
		http.Error(w, fmt.Sprintf("unsupported format %q", ext), http.StatusBadRequest)
		return
	}

	bg, err := s.background(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := s.renderer.Render(quote, r.FormValue("author"), bg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, card.ErrInvalidBackground) {
			status = http.StatusBadRequest
		}
		http.Error(w, "render: "+err.Error(), status)
		return
	}

	var buf bytes.Buffer
	if err := generator.GenerateToWriter(&buf, ext, generator.Config{Image: img}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("card rendered", "bytes", buf.Len(), "format", ext)
	ct := mime.TypeByExtension(ext)
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quote%s"`, ext))
	w.Write(buf.Bytes())
}

// background resolves the request's background: uploaded file, stored asset,
// or solid color, in that order.
func (s *srv) background(r *http.Request) (image.Image, error) {
	maxPixels := s.renderer.Config().Background.MaxSourcePixels

	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()
		return card.LoadBackground(file, maxPixels)
	}

	if id := r.FormValue("background"); id != "" {
		a, ok := s.assets.get(id)
		if !ok {
			return nil, fmt.Errorf("unknown background asset %q", id)
		}
		return card.LoadBackground(bytes.NewReader(a.Data), maxPixels)
	}

	if c := r.FormValue("color"); c != "" {
		col, err := generator.ParseColor(c)
		if err != nil {
			return nil, err
		}
		return generator.NewSolidImage(card.CanvasWidth, card.CanvasHeight, col), nil
	}

	return nil, fmt.Errorf("background is required (image, background or color)")
}

func (s *srv) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quote  string `json:"quote"`
		Author string `json:"author"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}

	layout, err := s.renderer.Plan(req.Quote, req.Author)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(layout)
}

func (s *srv) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"config":   s.renderer.Config(),
		"font":     s.renderer.Fonts().Name(),
		"scalable": s.renderer.Fonts().Scalable(),
		"warnings": card.ConfigWarnings(s.renderer.Config()),
	})
}

// ── Assets ──

func (s *srv) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Reject undecodable images up front rather than at render time.
	if _, err := card.LoadBackground(bytes.NewReader(data), s.renderer.Config().Background.MaxSourcePixels); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	id := s.assets.add(header.Filename, data, mimeType)
	s.log.Info("background uploaded", "id", id, "name", header.Filename, "bytes", len(data))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id, "name": header.Filename})
}

func (s *srv) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, ok := s.assets.get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", a.Mime)
	w.Write(a.Data)
}

func (s *srv) handleListAssets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.assets.listAll())
}

func (s *srv) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.assets.remove(id) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted", "id": id})
}

// ── Helpers ──

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Start()
}
