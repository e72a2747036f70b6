package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"mp3repair-backend/analysis"
)

func testFrames() []analysis.FrameInfo {
	mk := func(valid bool, off int64, size int, e float64) analysis.FrameInfo {
		f := analysis.FrameInfo{ByteOffset: off, Size: size, Entropy: e, Outcome: analysis.DecodedOutcome(1)}
		if !valid {
			f.Outcome = analysis.RejectedOutcome(nil)
		}
		return f
	}
	return []analysis.FrameInfo{
		mk(true, 0, 100, 7.1),
		mk(true, 100, 100, 7.3),
		mk(false, 200, 50, 2.0),
		mk(false, 250, 60, 2.5),
		mk(true, 310, 100, 6.9),
	}
}

func TestBuild(t *testing.T) {
	frames := testFrames()
	c, ok := Build(frames, analysis.GroupRuns(frames))
	if !ok {
		t.Fatalf("Build returned !ok")
	}
	if c.XMax != 410 || c.YMax != 8 {
		t.Fatalf("ranges = %v x %v", c.XMax, c.YMax)
	}
	if len(c.Rects) != 3 {
		t.Fatalf("rects = %+v", c.Rects)
	}
	if c.Rects[0].Fill != validFill || c.Rects[1].Fill != invalidFill || c.Rects[2].Fill != validFill {
		t.Fatalf("fills = %+v", c.Rects)
	}
	if c.Rects[1].X0 != 200 || c.Rects[1].X1 != 310 || c.Rects[1].Height != 2.25 {
		t.Fatalf("invalid run rect = %+v", c.Rects[1])
	}
	if len(c.Line) != 3 {
		t.Fatalf("line points = %+v", c.Line)
	}
	for _, pt := range c.Line {
		if pt.X == 200 || pt.X == 250 {
			t.Fatalf("line includes invalid frame at %v", pt.X)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	if _, ok := Build(nil, nil); ok {
		t.Fatalf("Build(nil) returned ok")
	}
}

func TestRender(t *testing.T) {
	frames := testFrames()
	c, _ := Build(frames, analysis.GroupRuns(frames))
	path := filepath.Join(t.TempDir(), FileName)
	if err := Render(c, path, 6, 3); err != nil {
		t.Fatalf("Render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("chart is not a PNG")
	}
}

func TestSaveInDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	frames := testFrames()
	path, err := SaveInDir(dir, frames, analysis.GroupRuns(frames), 4, 2)
	if err != nil {
		t.Fatalf("SaveInDir: %v", err)
	}
	if path != filepath.Join(dir, FileName) {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("chart is not a PNG")
	}

	empty := filepath.Join(t.TempDir(), "empty")
	path, err = SaveInDir(empty, nil, nil, 4, 2)
	if err != nil || path != "" {
		t.Fatalf("SaveInDir without frames = %q, %v", path, err)
	}
	if _, err := os.Stat(empty); !os.IsNotExist(err) {
		t.Fatalf("directory created without a chart: %v", err)
	}
}
