// Package visualizer renders the publish-year distribution chart.
package visualizer

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/libdata/bookpipeline/internal/books"
)

// Visualizer writes count plots under a fixed output directory.
type Visualizer struct {
	outputDir string
	filename  string
	logger    *zap.Logger
}

// New returns a Visualizer targeting outputDir/filename.
func New(outputDir, filename string, logger *zap.Logger) *Visualizer {
	return &Visualizer{outputDir: outputDir, filename: filename, logger: logger}
}

// PlotYearCounts renders one bar per distinct first_publish_year value with
// height equal to that value's row count and writes the chart into the
// output directory, overwriting any previous file. The directory is created
// when missing. Returns the written path.
func (v *Visualizer) PlotYearCounts(t *books.Table) (string, error) {
	if t == nil || t.Len() == 0 {
		return "", fmt.Errorf("no rows to plot")
	}
	if err := os.MkdirAll(v.outputDir, 0o750); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", v.outputDir, err)
	}

	counts := t.CountByYear()
	values := make(plotter.Values, 0, len(counts))
	labels := make([]string, 0, len(counts))
	for _, yc := range counts {
		values = append(values, float64(yc.Count))
		labels = append(labels, yc.Label)
	}

	p := plot.New()
	p.Title.Text = "Number of Books by First Publish Year"
	p.X.Label.Text = "First Publish Year"
	p.Y.Label.Text = "Number of Books"

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return "", fmt.Errorf("build bar chart: %w", err)
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	// Rotate the year labels so dense axes stay readable.
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	// Horizontal gridlines only.
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(grid)

	path := filepath.Join(v.outputDir, v.filename)
	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save plot %s: %w", path, err)
	}
	v.logger.Info("Plot saved",
		zap.String("path", path), zap.Int("categories", len(counts)))
	return path, nil
}
