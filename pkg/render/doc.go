// Package render groups the drawing packages.
//
// # Overview
//
// Every render goes through the same two steps. Layout turns the
// parameters into plain geometry (rectangles, colors, strings) without
// touching pixels, so it can be tested and cached on its own. Draw paints
// that geometry on a fresh canvas.
//
//   - [canvas]: immutable Config (A4 size per DPI, fonts, labels) and the
//     drawing Context
//   - [text]: font fitting and anchored text blitting
//   - [calendar]: the calendar grid
//   - [chart]: the weekly chart
//   - [sink]: PNG encoding and atomic file output
//
// A Config is safe to share between goroutines; a Context is not.
//
// [canvas]: github.com/matzehuels/calsheet/pkg/render/canvas
// [text]: github.com/matzehuels/calsheet/pkg/render/text
// [calendar]: github.com/matzehuels/calsheet/pkg/render/calendar
// [chart]: github.com/matzehuels/calsheet/pkg/render/chart
// [sink]: github.com/matzehuels/calsheet/pkg/render/sink
package render
