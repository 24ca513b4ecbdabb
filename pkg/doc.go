// Package pkg provides the libraries behind Rothko, a generator of
// deterministic colour-field compositions.
//
// # Overview
//
// Rothko turns a seed string into a small composition of rectangles, circles
// or triangles. Every property of every shape is derived from rolling hashes
// of the seed, so the same seed always reproduces the same picture. An empty
// seed draws the root hash and colours at random.
//
// # Architecture
//
// The data flow through Rothko:
//
//	seed string
//	     ↓
//	[core/hashing] root hash, digit extraction, random draws
//	     ↓
//	[core/seed] sub-seeds, one per shape
//	     ↓
//	[core/quantize] + [core/color] + [core/shape] one shape per sub-seed
//	     ↓
//	[core/compose] Composition, painted on a [render/surface]
//	     ↓
//	[render/sink] SVG, PNG, JSON or terminal output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/rothko/pkg/core/compose"
//	    "github.com/matzehuels/rothko/pkg/core/geom"
//	    "github.com/matzehuels/rothko/pkg/core/shape"
//	    "github.com/matzehuels/rothko/pkg/render/sink"
//	)
//
//	cfg := compose.Config{Seed: "No. 61", Pattern: shape.Circle}
//	c, _ := compose.Generate(cfg, geom.Canvas{Width: 400, Height: 400}, nil)
//	svg, _ := sink.Render(c, sink.FormatSVG)
//
// # Main Packages
//
// ## Core
//
// [core/hashing] - The 32-bit rolling hash, number formatting and digit
// extraction every other stage builds on.
//
// [core/seed], [core/quantize], [core/color], [core/shape] - One stage each:
// splitting the root hash into sub-seeds, snapping hashes to canvas bands,
// deriving fill colours, and building shapes.
//
// [core/compose] - Generate runs one pass; Director owns a drawing surface
// and redraws it as the configuration changes.
//
// ## Output
//
// [render/surface] - The drawing interface compositions are painted on.
//
// [render/sink] - Surfaces and encoders for SVG, PNG, JSON and terminal grids.
//
// ## Infrastructure
//
// [pipeline] - Compose and render with caching, shared by the CLI and the
// HTTP service.
//
// [cache] - Null, file and Redis caches for compositions and artifacts.
//
// [gallery] - Named compositions in memory, on disk or in MongoDB.
//
// [config] - The TOML configuration file.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for pipeline and HTTP events.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/core/...        # The generator only
//	go test -run Example ./pkg/...
//
// [core/hashing]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/core/hashing
// [core/seed]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/core/seed
// [core/quantize]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/core/quantize
// [core/color]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/core/color
// [core/shape]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/core/shape
// [core/compose]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/core/compose
// [render/surface]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/render/surface
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/cache
// [gallery]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/gallery
// [config]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/rothko/pkg/observability
package pkg
