package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"mp3repair-backend/analysis"
)

// Default image size in inches.
const (
	DefaultWidth  = 75.0
	DefaultHeight = 37.5
)

// Render draws c and saves it to path; the format follows the extension.
func Render(c Chart, path string, widthIn, heightIn float64) error {
	if widthIn <= 0 {
		widthIn = DefaultWidth
	}
	if heightIn <= 0 {
		heightIn = DefaultHeight
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.X.Min, p.X.Max = 0, c.XMax
	p.Y.Min, p.Y.Max = 0, c.YMax

	for i, r := range c.Rects {
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: r.X0, Y: 0},
			{X: r.X1, Y: 0},
			{X: r.X1, Y: r.Height},
			{X: r.X0, Y: r.Height},
		})
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		poly.Color = r.Fill
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	if len(c.Line) > 0 {
		pts := make(plotter.XYs, len(c.Line))
		for i, pt := range c.Line {
			pts[i].X = pt.X
			pts[i].Y = pt.Y
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("entropy line: %w", err)
		}
		line.Color = c.LineColor
		p.Add(line)
		p.Legend.Add(c.LineLabel, line)
	}

	if err := p.Save(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// SaveInDir renders the chart for frames and runs as FileName under dir,
// creating dir as needed. It returns the written path, or "" when there are
// no frames to draw.
func SaveInDir(dir string, frames []analysis.FrameInfo, runs []analysis.FrameRun, widthIn, heightIn float64) (string, error) {
	c, ok := Build(frames, runs)
	if !ok {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := Render(c, path, widthIn, heightIn); err != nil {
		return "", err
	}
	return path, nil
}
