// Package chart turns frame runs into the contiguity/entropy chart.
package chart

import (
	"image/color"
	"math"

	"mp3repair-backend/analysis"
)

// FileName is the name of the rendered chart inside an output directory.
const FileName = "contiguity_entropy.png"

var (
	validFill   = color.NRGBA{G: 255, A: 77}
	invalidFill = color.NRGBA{R: 255, A: 77}
	lineColor   = color.NRGBA{B: 255, A: 255}
)

// Rect is one run drawn as [X0, X1] x [0, Height].
type Rect struct {
	X0, X1 float64
	Height float64
	Valid  bool
	Fill   color.NRGBA
}

// Point is one sample of the valid-frame entropy line.
type Point struct {
	X, Y float64
}

// Chart is the renderer-neutral description of the plot.
type Chart struct {
	Title     string
	XLabel    string
	YLabel    string
	XMax      float64
	YMax      float64
	Rects     []Rect
	Line      []Point
	LineLabel string
	LineColor color.NRGBA
}

// Build lays out one rectangle per run and one line point per valid frame.
// ok is false when there are no frames to draw.
func Build(frames []analysis.FrameInfo, runs []analysis.FrameRun) (c Chart, ok bool) {
	if len(frames) == 0 {
		return Chart{}, false
	}
	maxEntropy := 0.0
	for _, f := range frames {
		maxEntropy = math.Max(maxEntropy, f.Entropy)
	}
	c = Chart{
		Title:     "Frame Contiguity and Entropy by Bytes",
		XLabel:    "Byte Position",
		YLabel:    "Entropy (bits)",
		XMax:      float64(frames[len(frames)-1].End()),
		YMax:      math.Max(maxEntropy, 8),
		LineLabel: "Valid Frame Entropy",
		LineColor: lineColor,
	}
	for _, r := range runs {
		fill := invalidFill
		if r.IsValid {
			fill = validFill
		}
		c.Rects = append(c.Rects, Rect{
			X0:     float64(r.StartByte),
			X1:     float64(r.EndByte),
			Height: r.AvgEntropy,
			Valid:  r.IsValid,
			Fill:   fill,
		})
	}
	for _, f := range frames {
		if f.IsValid() {
			c.Line = append(c.Line, Point{X: float64(f.ByteOffset), Y: f.Entropy})
		}
	}
	return c, true
}
