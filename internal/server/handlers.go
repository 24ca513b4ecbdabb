package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rothko/pkg/buildinfo"
	"github.com/matzehuels/rothko/pkg/cache"
	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/gallery"
	"github.com/matzehuels/rothko/pkg/pipeline"
	"github.com/matzehuels/rothko/pkg/render/sink"
)

// Response headers describing an artifact.
const (
	CacheHeader = "X-Rothko-Cache" // "hit", "miss" or "bypass"
	RootHeader  = "X-Rothko-Root-Hash"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

type patternInfo struct {
	Name      string `json:"name"`
	Placement string `json:"placement"`
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	kinds := shape.Kinds()
	out := make([]patternInfo, len(kinds))
	for i, k := range kinds {
		placement := "half-canvas"
		if k.WholeCanvas() {
			placement = "whole-canvas"
		}
		out[i] = patternInfo{Name: k.String(), Placement: placement}
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": out})
}

func (s *Server) handleComposition(w http.ResponseWriter, r *http.Request) {
	opts, err := s.composeOptions(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveArtifact(w, r, opts, sink.FormatJSON)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := sink.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.composeOptions(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveArtifact(w, r, opts, format)
}

// serveArtifact runs the pipeline for one format and writes the bytes.
// Seeded artifacts get an ETag and may be answered with 304.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", requestIDFrom(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	data := result.Artifacts[format]

	h := w.Header()
	h.Set("Content-Type", sink.ContentType(format))
	h.Set(RootHeader, formatInt(result.Composition.RootHash))
	if !result.Composition.Seeded {
		h.Set("Cache-Control", "no-store")
		h.Set(CacheHeader, "bypass")
	} else {
		etag := `"` + cache.Hash(data)[:32] + `"`
		h.Set("ETag", etag)
		h.Set("Cache-Control", "public, max-age=86400")
		if result.CacheInfo.RenderHit {
			h.Set(CacheHeader, "hit")
		} else {
			h.Set(CacheHeader, "miss")
		}
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type saveRequest struct {
	Name       string  `json:"name"`
	Seed       string  `json:"seed"`
	ShapeCount int     `json:"shape_count"`
	Pattern    string  `json:"pattern"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

func (s *Server) handleGallerySave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errs.ValidateSeed(req.Seed); err != nil {
		writeError(w, err)
		return
	}
	if req.Pattern == "" {
		req.Pattern = s.defaults.Pattern
	}
	if req.Width == 0 {
		req.Width = s.defaults.Width
	}
	if req.Height == 0 {
		req.Height = s.defaults.Height
	}

	e, err := gallery.NewEntry(req.Name, req.Seed, req.ShapeCount, req.Pattern,
		geom.Canvas{Width: req.Width, Height: req.Height})
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.gallery.Save(r.Context(), e); err != nil {
		s.logger.Error("gallery save failed", "error", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/gallery/"+e.ID)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGalleryList(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", gallery.DefaultListLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := s.gallery.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("gallery list failed", "error", err)
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []gallery.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleGalleryGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.gallery.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleGalleryRender(w http.ResponseWriter, r *http.Request) {
	format, err := sink.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := s.gallery.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := pipeline.Options{
		Seed:       e.Seed,
		ShapeCount: e.ShapeCount,
		Pattern:    e.Pattern,
		Width:      e.Width,
		Height:     e.Height,
	}
	if err := s.applyRenderParams(&opts, r.URL.Query()); err != nil {
		writeError(w, err)
		return
	}
	s.serveArtifact(w, r, opts, format)
}

func (s *Server) handleGalleryDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.gallery.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
