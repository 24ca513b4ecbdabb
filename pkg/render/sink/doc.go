// Package sink turns compositions into output formats.
//
// Every raster or vector sink is a [surface.Surface]: the composition is
// painted on it with [compose.Render] and the sink serialises what it
// received.
//
//   - [SVG]: one element per shape, 1px black outline by default
//   - [PNG]: rasterised with github.com/fogleman/gg
//   - [Terminal]: a character grid painted with lipgloss background colours
//   - [RenderJSON]: the composition itself, for debugging and round trips
//
// [Render] dispatches on a format name:
//
//	data, err := sink.Render(c, sink.FormatPNG, sink.WithScale(2))
package sink
