package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/pipeline"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// composeOptions reads the composition parameters of a request.
func (s *Server) composeOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Seed:    q.Get("seed"),
		Pattern: q.Get("pattern"),
		Width:   s.defaults.Width,
		Height:  s.defaults.Height,
	}
	if opts.Pattern == "" {
		opts.Pattern = s.defaults.Pattern
	}
	if err := errs.ValidateSeed(opts.Seed); err != nil {
		return opts, err
	}
	if v := q.Get("exclude_colors"); v != "" {
		opts.ExcludeColors = splitList(v)
	} else {
		opts.ExcludeColors = s.defaults.ExcludeColors
	}

	var err error
	if opts.ShapeCount, err = intParam(q, "count", 0); err != nil {
		return opts, err
	}
	if opts.Width, err = floatParam(q, "width", opts.Width); err != nil {
		return opts, err
	}
	if opts.Height, err = floatParam(q, "height", opts.Height); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q, "refresh"); err != nil {
		return opts, err
	}
	return opts, s.applyRenderParams(&opts, q)
}

// applyRenderParams reads scale, background and no_stroke into opts.
func (s *Server) applyRenderParams(opts *pipeline.Options, q url.Values) error {
	var err error
	if opts.Scale, err = floatParam(q, "scale", s.defaults.Scale); err != nil {
		return err
	}
	if opts.NoStroke, err = boolParam(q, "no_stroke"); err != nil {
		return err
	}
	if bg := q.Get("background"); bg != "" {
		if !strings.HasPrefix(bg, "#") {
			bg = "#" + bg
		}
		opts.Background = bg
	}
	return nil
}

// splitList splits a comma-separated parameter and drops empty items.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer: %q", name, v)
	}
	return n, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errs.New(errs.ErrCodeInvalidInput, "%s must be a number: %q", name, v)
	}
	return f, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean: %q", name, v)
	}
	return b, nil
}

// decodeBody decodes a JSON body into v and rejects unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errs.New(errs.ErrCodeInvalidInput, "request body is empty")
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
