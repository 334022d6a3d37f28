package charts

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"olistcli/internal/errors"
)

var (
	barColor  = color.RGBA{R: 68, G: 1, B: 84, A: 255}
	histColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	meanColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Renderer draws charts at a fixed page size
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer producing images of the given size in inches
func NewRenderer(widthInches, heightInches float64) *Renderer {
	return &Renderer{
		width:  vg.Length(widthInches) * vg.Inch,
		height: vg.Length(heightInches) * vg.Inch,
	}
}

// Labels holds the text around a chart
type Labels struct {
	Title string
	X     string
	Y     string
}

// BoxGroup is one box of a box plot
type BoxGroup struct {
	Name   string
	Values []float64
}

// HorizontalBars draws one bar per category with the value on the X axis.
// categories[0] is drawn at the top.
func (r *Renderer) HorizontalBars(path string, labels Labels, categories []string, values []float64) error {
	if len(categories) == 0 || len(categories) != len(values) {
		return errors.NewRenderError("bar chart needs one value per category", nil).WithContext("file", path)
	}

	// NominalY puts index 0 at the bottom
	n := len(values)
	reversed := make(plotter.Values, n)
	names := make([]string, n)
	for i := range values {
		reversed[n-1-i] = values[i]
		names[n-1-i] = categories[i]
	}

	p := newPlot(labels)
	bars, err := plotter.NewBarChart(reversed, vg.Points(14))
	if err != nil {
		return errors.NewRenderError("failed to build bar chart", err).WithContext("file", path)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalY(names...)
	p.X.Min = 0

	return r.save(p, path)
}

// Histogram draws the distribution of values in bins with a dashed vertical
// marker at markerX, named markerLabel in the legend
func (r *Renderer) Histogram(path string, labels Labels, values []float64, bins int, markerX float64, markerLabel string) error {
	if len(values) == 0 {
		return errors.NewRenderError("histogram needs at least one value", nil).WithContext("file", path)
	}
	if bins < 1 {
		bins = 1
	}

	p := newPlot(labels)
	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.NewRenderError("failed to build histogram", err).WithContext("file", path)
	}
	hist.FillColor = histColor
	hist.LineStyle.Color = color.White

	maxCount := 0.0
	for _, b := range hist.Bins {
		maxCount = math.Max(maxCount, b.Weight)
	}

	marker, err := plotter.NewLine(plotter.XYs{{X: markerX, Y: 0}, {X: markerX, Y: maxCount}})
	if err != nil {
		return errors.NewRenderError("failed to build marker line", err).WithContext("file", path)
	}
	marker.LineStyle.Color = meanColor
	marker.LineStyle.Width = vg.Points(2)
	marker.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(plotter.NewGrid(), hist, marker)
	p.Legend.Add(markerLabel, marker)
	p.Legend.Top = true
	p.Y.Min = 0

	return r.save(p, path)
}

// BoxPlots draws one box per group, left to right. Groups without values
// are skipped.
func (r *Renderer) BoxPlots(path string, labels Labels, groups []BoxGroup) error {
	p := newPlot(labels)

	var names []string
	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(60), float64(len(names)), plotter.Values(g.Values))
		if err != nil {
			return errors.NewRenderError("failed to build box plot", err).
				WithContext("file", path).
				WithContext("group", g.Name)
		}
		box.FillColor = plotutil.Color(len(names))
		p.Add(box)
		names = append(names, g.Name)
	}
	if len(names) == 0 {
		return errors.NewRenderError("box plot needs at least one non-empty group", nil).WithContext("file", path)
	}

	p.NominalX(names...)
	return r.save(p, path)
}

// VerticalBars draws one bar per category with the value on the Y axis.
// A nil yTicks keeps the default tick labels.
func (r *Renderer) VerticalBars(path string, labels Labels, categories []string, values []float64, yTicks plot.Ticker) error {
	if len(categories) == 0 || len(categories) != len(values) {
		return errors.NewRenderError("bar chart needs one value per category", nil).WithContext("file", path)
	}

	p := newPlot(labels)
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return errors.NewRenderError("failed to build bar chart", err).WithContext("file", path)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p.Add(plotter.NewGrid(), bars)
	p.NominalX(categories...)
	p.Y.Min = 0
	if yTicks != nil {
		p.Y.Tick.Marker = yTicks
	}

	return r.save(p, path)
}

func newPlot(labels Labels) *plot.Plot {
	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = labels.X
	p.Y.Label.Text = labels.Y
	return p
}

// save writes p to path, replacing any previous image
func (r *Renderer) save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create chart directory", err).WithContext("file", path)
	}
	if err := p.Save(r.width, r.height, path); err != nil {
		return errors.NewRenderError("failed to save chart", err).WithContext("file", path)
	}
	return nil
}
