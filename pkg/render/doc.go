// Package render groups the output side of Rothko.
//
//   - [surface]: the drawing interface a composition is painted on, plus a
//     Recorder for tests
//   - [sink]: SVG, PNG, JSON and terminal output
//
// [surface]: github.com/matzehuels/rothko/pkg/render/surface
// [sink]: github.com/matzehuels/rothko/pkg/render/sink
package render
