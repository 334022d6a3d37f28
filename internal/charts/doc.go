// Package charts renders the analyzer's PNG charts with gonum/plot.
//
// Every Renderer method builds a fresh plot.Plot, saves it and lets it go, so
// no figure state carries over from one chart to the next. The image format
// follows the file extension.
package charts
