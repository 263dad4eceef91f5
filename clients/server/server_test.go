package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xob0t/quotestencil/pkg/card"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := card.DefaultConfig()
	cfg.Background.BlurRadius = 0

	fonts, err := card.NewScalableFontProvider("goregular", goregular.TTF, card.EngineOpenType, 72)
	if err != nil {
		t.Fatal(err)
	}
	renderer, err := card.NewRenderer(cfg, fonts)
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewHandler(renderer, nil)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// multipartBody builds a form from fields plus an optional file part.
func multipartBody(t *testing.T, fields map[string]string, fileField string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "photo.png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func post(t *testing.T, url string, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeCard(t *testing.T, resp *http.Response) image.Image {
	t.Helper()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != card.CanvasWidth || b.Dy() != card.CanvasHeight {
		t.Fatalf("card size = %v", b)
	}
	return img
}

func TestRenderWithColor(t *testing.T) {
	ts := newTestServer(t)
	body, ct := multipartBody(t, map[string]string{"quote": "Conhece-te a ti mesmo.", "color": "#1a1a2e"}, "", nil)
	resp := post(t, ts.URL+"/api/render", body, ct)
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("content type = %q", got)
	}
	decodeCard(t, resp)
}

func TestRenderWithUploadedImage(t *testing.T) {
	ts := newTestServer(t)
	body, ct := multipartBody(t, map[string]string{"quote": "A jornada de mil milhas.", "author": "Lao Tsé"}, "image", pngBytes(t, 400, 300))
	decodeCard(t, post(t, ts.URL+"/api/render", body, ct))
}

func TestRenderExtremeAspectImage(t *testing.T) {
	ts := newTestServer(t)
	for _, size := range [][2]int{{20000, 2}, {2, 20000}} {
		photo := pngBytes(t, size[0], size[1])

		body, ct := multipartBody(t, map[string]string{"quote": "Conhece-te a ti mesmo."}, "image", photo)
		decodeCard(t, post(t, ts.URL+"/api/render", body, ct))

		body, ct = multipartBody(t, nil, "file", photo)
		if resp := post(t, ts.URL+"/api/upload/image", body, ct); resp.StatusCode != http.StatusOK {
			t.Errorf("%v upload: status = %d", size, resp.StatusCode)
		}
	}
}

func TestRenderBadRequests(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		fields map[string]string
		file   []byte
	}{
		{"missing quote", map[string]string{"color": "#000000"}, nil},
		{"no background", map[string]string{"quote": "q"}, nil},
		{"bad color", map[string]string{"quote": "q", "color": "azul"}, nil},
		{"unknown asset", map[string]string{"quote": "q", "background": "deadbeef"}, nil},
		{"bad format", map[string]string{"quote": "q", "color": "#000000", "format": "gif"}, nil},
		{"undecodable image", map[string]string{"quote": "q"}, []byte("not an image")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileField := ""
			if tt.file != nil {
				fileField = "image"
			}
			body, ct := multipartBody(t, tt.fields, fileField, tt.file)
			if resp := post(t, ts.URL+"/api/render", body, ct); resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestUploadThenRenderByID(t *testing.T) {
	ts := newTestServer(t)

	body, ct := multipartBody(t, nil, "file", pngBytes(t, 64, 64))
	resp := post(t, ts.URL+"/api/upload/image", body, ct)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	var up struct{ ID string }
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil || up.ID == "" {
		t.Fatalf("upload response: %+v, %v", up, err)
	}

	body, ct = multipartBody(t, map[string]string{"quote": "q", "background": up.ID, "format": "jpg"}, "", nil)
	resp = post(t, ts.URL+"/api/render", body, ct)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/jpeg" {
		t.Fatalf("render by id: status %d, type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	listResp, err := http.Get(ts.URL + "/api/assets")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var list []map[string]any
	json.NewDecoder(listResp.Body).Decode(&list)
	if len(list) != 1 {
		t.Errorf("assets = %v", list)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/assets/"+up.ID, nil)
	for i, want := range []int{http.StatusOK, http.StatusNotFound} {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("delete #%d: status = %d, want %d", i+1, resp.StatusCode, want)
		}
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	ts := newTestServer(t)
	body, ct := multipartBody(t, nil, "file", []byte("%PDF-1.4"))
	if resp := post(t, ts.URL+"/api/upload/image", body, ct); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPlan(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/api/plan", bytes.NewBufferString(`{"quote": "Conhece-te a ti mesmo."}`), "application/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var layout card.CardLayout
	if err := json.NewDecoder(resp.Body).Decode(&layout); err != nil {
		t.Fatal(err)
	}
	if layout.TitleSize != 110 {
		t.Errorf("title size = %v, want 110", layout.TitleSize)
	}
	var author string
	for _, p := range layout.Lines {
		if p.Role == card.RoleAuthor {
			author = p.Text
		}
	}
	if author != "— Anônimo" {
		t.Errorf("author = %q", author)
	}

	if resp := post(t, ts.URL+"/api/plan", bytes.NewBufferString("{"), "application/json"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d, want 400", resp.StatusCode)
	}
}

func TestConfigAndIndex(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/config")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got struct {
		Font     string
		Scalable bool
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Font != "goregular" || !got.Scalable {
		t.Errorf("config = %+v", got)
	}

	index, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer index.Body.Close()
	var page bytes.Buffer
	page.ReadFrom(index.Body)
	if index.StatusCode != http.StatusOK || !strings.Contains(page.String(), "/api/render") {
		t.Errorf("index: status %d", index.StatusCode)
	}
}

func TestAssetManager(t *testing.T) {
	am := newAssetManager()
	id := am.add("a.png", []byte{1, 2}, "image/png")
	if a, ok := am.get(id); !ok || a.Name != "a.png" {
		t.Fatalf("get(%s) = %+v, %v", id, a, ok)
	}
	if !am.remove(id) || am.remove(id) {
		t.Error("remove should succeed once")
	}
	if _, ok := am.get(id); ok {
		t.Error("asset still present after remove")
	}
}
