package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/rothko/pkg/cache"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/gallery"
	"github.com/matzehuels/rothko/pkg/observability"
	"github.com/matzehuels/rothko/pkg/pipeline"
	"github.com/matzehuels/rothko/pkg/render/sink"
)

var testDefaults = Defaults{Pattern: "quad", Width: 400, Height: 400, Scale: 1}

func newTestServer(t *testing.T, store gallery.Store) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{
		Runner:   pipeline.NewRunner(fc, nil, nil),
		Gallery:  store,
		Defaults: testDefaults,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body io.Reader, header http.Header) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res, data
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	return do(t, http.MethodGet, url, nil, nil)
}

func decodeError(t *testing.T, data []byte) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("error body %q: %v", data, err)
	}
	return body
}

func TestNewRequiresRunner(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New without runner succeeded")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	res, data := get(t, ts.URL+"/healthz")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if res.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", res.Header.Get("Content-Type"))
	}
	if strings.TrimSpace(string(data)) != `{"status":"ok"}` {
		t.Errorf("body = %s", data)
	}
	if _, err := uuid.Parse(res.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q is not a uuid", res.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t, nil)
	id := uuid.NewString()

	res, _ := do(t, http.MethodGet, ts.URL+"/healthz", nil, http.Header{RequestIDHeader: {id}})
	if got := res.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	res, _ = do(t, http.MethodGet, ts.URL+"/healthz", nil, http.Header{RequestIDHeader: {"not-a-uuid"}})
	if got := res.Header.Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("non-uuid request id was echoed")
	}
}

func TestVersion(t *testing.T) {
	ts := newTestServer(t, nil)
	_, data := get(t, ts.URL+"/version")
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["version"] == "" {
		t.Errorf("version body = %s", data)
	}
}

func TestPatterns(t *testing.T) {
	ts := newTestServer(t, nil)
	_, data := get(t, ts.URL+"/v1/patterns")
	var got struct {
		Patterns []patternInfo `json:"patterns"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := []patternInfo{
		{"quad", "whole-canvas"},
		{"circle", "half-canvas"},
		{"triangle", "half-canvas"},
	}
	if len(got.Patterns) != len(want) {
		t.Fatalf("patterns = %+v", got.Patterns)
	}
	for i := range want {
		if got.Patterns[i] != want[i] {
			t.Errorf("patterns[%d] = %+v, want %+v", i, got.Patterns[i], want[i])
		}
	}
}

func TestComposition(t *testing.T) {
	ts := newTestServer(t, nil)
	url := ts.URL + "/v1/compositions?seed=test&count=3"

	res, data := get(t, url)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", res.StatusCode, data)
	}
	c, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if c.RootHash != 3556498 || len(c.Shapes) != 3 || c.Shapes[0].Color != "#30775c" {
		t.Errorf("composition = %+v", c)
	}
	if res.Header.Get(RootHeader) != "3556498" {
		t.Errorf("%s = %q", RootHeader, res.Header.Get(RootHeader))
	}
	if res.Header.Get(CacheHeader) != "miss" {
		t.Errorf("first %s = %q, want miss", CacheHeader, res.Header.Get(CacheHeader))
	}
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatal("no ETag on seeded composition")
	}

	res, again := get(t, url)
	if res.Header.Get(CacheHeader) != "hit" {
		t.Errorf("second %s = %q, want hit", CacheHeader, res.Header.Get(CacheHeader))
	}
	if !bytes.Equal(again, data) {
		t.Error("cached composition differs")
	}

	res, _ = do(t, http.MethodGet, url, nil, http.Header{"If-None-Match": {etag}})
	if res.StatusCode != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", res.StatusCode)
	}
}

func TestCompositionDefaultsAndRandom(t *testing.T) {
	ts := newTestServer(t, nil)

	_, data := get(t, ts.URL+"/v1/compositions?seed=test&pattern=circle&width=800&height=300")
	c, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if c.Pattern != shape.Circle || c.Canvas.Width != 800 || c.Canvas.Height != 300 {
		t.Errorf("composition = %+v", c)
	}
	if len(c.Shapes) != 4 {
		t.Errorf("derived shapes = %d, want 4", len(c.Shapes))
	}

	res, data := get(t, ts.URL+"/v1/compositions")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("random status = %d: %s", res.StatusCode, data)
	}
	if res.Header.Get("Cache-Control") != "no-store" || res.Header.Get(CacheHeader) != "bypass" {
		t.Errorf("random headers = %v", res.Header)
	}
	if res.Header.Get("ETag") != "" {
		t.Error("random composition has an ETag")
	}
}

func TestRenderLargeVectorCanvas(t *testing.T) {
	ts := newTestServer(t, nil)
	res, data := get(t, ts.URL+"/v1/render.svg?seed=x&width=8192&height=8192&scale=8")
	if res.StatusCode != http.StatusOK {
		t.Errorf("svg status = %d: %s", res.StatusCode, data)
	}
}

func TestCompositionExcludeColors(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defaults := testDefaults
	defaults.ExcludeColors = []string{"#000000"}
	s, err := New(Config{Runner: pipeline.NewRunner(fc, nil, nil), Defaults: defaults})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	q, err := s.composeOptions(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if len(q.ExcludeColors) != 1 || q.ExcludeColors[0] != "#000000" {
		t.Errorf("default ExcludeColors = %q", q.ExcludeColors)
	}
	q, err = s.composeOptions(url.Values{"exclude_colors": {"ffffff, #133317,"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(q.ExcludeColors) != 2 || q.ExcludeColors[0] != "ffffff" || q.ExcludeColors[1] != "#133317" {
		t.Errorf("ExcludeColors = %q", q.ExcludeColors)
	}

	res, data := get(t, ts.URL+"/v1/compositions?exclude_colors=ffffff,133317")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", res.StatusCode, data)
	}
	c, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	for _, sh := range c.Shapes {
		if sh.Color == "#ffffff" || sh.Color == "#133317" {
			t.Errorf("excluded colour drawn: %s", sh.Color)
		}
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"png", "image/png", "\x89PNG"},
		{"json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			res, data := get(t, ts.URL+"/v1/render."+tt.format+"?seed=Rothko&pattern=triangle&background=fafafa")
			if res.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", res.StatusCode, data)
			}
			if res.Header.Get("Content-Type") != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", res.Header.Get("Content-Type"), tt.contentType)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("body starts with %q, want %q", data[:min(len(data), 8)], tt.prefix)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/v1/render.gif?seed=x", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/v1/compositions?seed=x&pattern=hexagon", http.StatusBadRequest, "INVALID_PATTERN"},
		{"/v1/compositions?seed=x&count=many", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/compositions?seed=x&count=-1", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/compositions?seed=x&width=-5", http.StatusBadRequest, "INVALID_CANVAS"},
		{"/v1/compositions?seed=x&width=NaN", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/render.svg?seed=x&background=red", http.StatusBadRequest, "INVALID_COLOR"},
		{"/v1/render.png?seed=x&scale=100", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/render.png?seed=x&width=8192&height=8192&scale=8", http.StatusBadRequest, "INVALID_CANVAS"},
		{"/v1/render.png?seed=x&width=8192&height=8192", http.StatusBadRequest, "INVALID_CANVAS"},
		{"/v1/compositions?seed=a%00b", http.StatusBadRequest, "INVALID_SEED"},
		{"/v1/compositions?seed=" + strings.Repeat("x", errs.MaxSeedLength+1), http.StatusBadRequest, "INVALID_SEED"},
		{"/v1/compositions?exclude_colors=white", http.StatusBadRequest, "INVALID_COLOR"},
		{"/v1/render.svg?seed=x&no_stroke=maybe", http.StatusBadRequest, "INVALID_INPUT"},
		{"/nowhere", http.StatusNotFound, "NOT_FOUND"},
		{"/v1/gallery", http.StatusNotImplemented, "UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, data := get(t, ts.URL+tt.path)
			if res.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", res.StatusCode, tt.status, data)
			}
			if body := decodeError(t, data); body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)
	res, data := do(t, http.MethodPost, ts.URL+"/healthz", nil, nil)
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", res.StatusCode)
	}
	if body := decodeError(t, data); body.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestGallery(t *testing.T) {
	ts := newTestServer(t, gallery.NewMemoryStore())

	res, data := do(t, http.MethodPost, ts.URL+"/v1/gallery",
		strings.NewReader(`{"name":"No. 61","seed":"test","shape_count":3,"pattern":"circle"}`), nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("save status = %d: %s", res.StatusCode, data)
	}
	var saved gallery.Entry
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	if saved.Name != "No. 61" || saved.Pattern != "circle" || saved.Width != 400 {
		t.Errorf("saved = %+v", saved)
	}
	if loc := res.Header.Get("Location"); loc != "/v1/gallery/"+saved.ID {
		t.Errorf("Location = %q", loc)
	}

	_, data = get(t, ts.URL+"/v1/gallery")
	var list struct {
		Entries []gallery.Entry `json:"entries"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Entries) != 1 || list.Entries[0].ID != saved.ID {
		t.Errorf("list = %+v", list.Entries)
	}

	res, data = get(t, ts.URL+"/v1/gallery/"+saved.ID)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", res.StatusCode)
	}

	res, data = get(t, ts.URL+"/v1/gallery/"+saved.ID+"/render.json")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("render status = %d: %s", res.StatusCode, data)
	}
	c, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if c.Pattern != shape.Circle || len(c.Shapes) != 3 || c.Shapes[0].Diameter != 179.66666666666666 {
		t.Errorf("rendered = %+v", c)
	}

	res, _ = do(t, http.MethodDelete, ts.URL+"/v1/gallery/"+saved.ID, nil, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", res.StatusCode)
	}
	res, data = get(t, ts.URL+"/v1/gallery/"+saved.ID)
	if res.StatusCode != http.StatusNotFound || decodeError(t, data).Code != "NOT_FOUND" {
		t.Errorf("get after delete = %d %s", res.StatusCode, data)
	}
	res, _ = do(t, http.MethodDelete, ts.URL+"/v1/gallery/"+saved.ID, nil, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d", res.StatusCode)
	}
}

func TestGallerySaveErrors(t *testing.T) {
	ts := newTestServer(t, gallery.NewMemoryStore())
	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty", ``, "INVALID_INPUT"},
		{"random", `{"name":"x"}`, "INVALID_SEED"},
		{"unknown field", `{"seed":"x","colour":"red"}`, "INVALID_INPUT"},
		{"pattern", `{"seed":"x","pattern":"star"}`, "INVALID_PATTERN"},
		{"malformed", `{"seed":`, "INVALID_INPUT"},
		{"control characters", `{"seed":"a\u0000b"}`, "INVALID_SEED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, data := do(t, http.MethodPost, ts.URL+"/v1/gallery", strings.NewReader(tt.body), nil)
			if res.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", res.StatusCode)
			}
			if got := decodeError(t, data).Code; got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestHTTPHooksSeeRoutePattern(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, nil)
	get(t, ts.URL+"/v1/render.svg?seed=x")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || hooks.routes[0] != "GET /v1/render.{format}" {
		t.Errorf("routes = %v", hooks.routes)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, err := New(Config{Runner: pipeline.NewRunner(nil, nil, nil), Defaults: testDefaults})
	if err != nil {
		t.Fatal(err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln, Timeouts{Shutdown: time.Second})
	}()

	res, _ := get(t, "http://"+ln.Addr().String()+"/healthz")
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d", res.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
