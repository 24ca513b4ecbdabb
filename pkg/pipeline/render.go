package pipeline

import (
	"fmt"

	"github.com/matzehuels/rothko/pkg/core/compose"
	"github.com/matzehuels/rothko/pkg/render/sink"
)

// RenderAll encodes c in every format of opts without touching a cache.
func RenderAll(c *compose.Composition, opts Options) (map[string][]byte, error) {
	sinkOpts := opts.SinkOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := sink.Render(c, format, sinkOpts...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
