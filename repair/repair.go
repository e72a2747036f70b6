package repair

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mp3repair-backend/analysis"
	"mp3repair-backend/audio"
	"mp3repair-backend/chart"
	"mp3repair-backend/report"
)

// Paths are the files a repair produces.
type Paths struct {
	Dir          string
	Output       string
	WAV          string
	Chart        string
	Report       string
	CorruptedDir string
}

// OutputPaths lays out the outputs for input under outDir. An empty outDir
// places them next to the input.
func OutputPaths(input, outDir string) Paths {
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "output"
	}
	return Paths{
		Dir:          outDir,
		Output:       filepath.Join(outDir, stem+"-repaired.mp3"),
		WAV:          filepath.Join(outDir, stem+"-repaired.wav"),
		Chart:        filepath.Join(outDir, chart.FileName),
		Report:       filepath.Join(outDir, report.FileName),
		CorruptedDir: filepath.Join(outDir, CorruptedDirName),
	}
}

// Result describes a finished repair.
type Result struct {
	Paths            Paths
	Scan             *analysis.ScanResult
	Runs             []analysis.FrameRun
	OriginalDuration analysis.DurationCheck
	// RepairedDuration is the reported duration of the rebuilt file, in seconds.
	RepairedDuration float64
	DecodedDuration  float64
	SHA256           string
	OutputSize       int64
	ForensicFiles    int
	ChartWritten     bool
	WAVWritten       bool
	ReportWritten    bool
	// Warnings lists secondary outputs that could not be produced.
	Warnings []string
}

// Repairer rebuilds damaged files.
type Repairer struct {
	Analyzer    *analysis.Analyzer
	ExportWAV   bool
	PDFReport   bool
	ChartWidth  float64
	ChartHeight float64
	Logger      *log.Logger
}

// New returns a Repairer using a.
func New(a *analysis.Analyzer, logger *log.Logger) *Repairer {
	return &Repairer{
		Analyzer:    a,
		ChartWidth:  chart.DefaultWidth,
		ChartHeight: chart.DefaultHeight,
		Logger:      logger,
	}
}

func (r *Repairer) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return r.Logger
}

func (r *Repairer) warn(res *Result, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.logger().Printf("warning: %s", msg)
	res.Warnings = append(res.Warnings, msg)
}

// Repair writes a copy of input holding only its decodable frames into
// outDir. Rejected frames are stored under the corrupted frames directory.
func (r *Repairer) Repair(input, outDir string) (*Result, error) {
	if r.Analyzer == nil {
		return nil, fmt.Errorf("repair: no analyzer")
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	paths := OutputPaths(input, outDir)
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	res := &Result{Paths: paths}
	res.OriginalDuration = r.Analyzer.CheckDuration(input, data)

	forensic := NewForensicWriter(paths.CorruptedDir)
	if err := forensic.Reset(); err != nil {
		return nil, err
	}
	scan, err := r.Analyzer.ScanFile(input, analysis.ScanOptions{
		KeepPayloads: true,
		CollectPCM:   r.ExportWAV,
		OnRejected:   forensic.Write,
		Logger:       r.Logger,
	})
	if err != nil {
		return nil, err
	}
	res.Scan = scan
	res.Runs = analysis.GroupRuns(scan.Frames)
	res.DecodedDuration = scan.DecodedDuration()
	res.ForensicFiles = forensic.Written

	if err := WriteFile(paths.Output, scan.Payloads); err != nil {
		return nil, err
	}
	r.logger().Printf("wrote %s: %d frames kept, %d dropped", paths.Output, scan.ValidFrames, scan.CorruptedFrames)
	if scan.ReservoirBreaks > 0 {
		r.warn(res, "%d kept frames borrow bit reservoir bytes from dropped frames and may play back with glitches", scan.ReservoirBreaks)
	}

	if res.SHA256, res.OutputSize, err = report.Sha256OfFile(paths.Output); err != nil {
		r.warn(res, "hash output: %v", err)
	}
	if r.Analyzer.ReportedDuration != nil {
		d, err := r.Analyzer.ReportedDuration(paths.Output)
		if err != nil {
			r.warn(res, "measure repaired duration: %v", err)
		} else {
			res.RepairedDuration = d.Seconds()
		}
	}

	if path, err := chart.SaveInDir(paths.Dir, scan.Frames, res.Runs, r.ChartWidth, r.ChartHeight); err != nil {
		r.warn(res, "render chart: %v", err)
	} else {
		res.ChartWritten = path != ""
	}

	if r.ExportWAV {
		switch {
		case len(scan.PCM) == 0:
			r.warn(res, "export wav: no decoded audio")
		default:
			if err := audio.WriteWAV(paths.WAV, scan.PCM, scan.Track.SampleRate, scan.Track.Channels); err != nil {
				r.warn(res, "export wav: %v", err)
			} else {
				res.WAVWritten = true
			}
		}
	}

	if r.PDFReport {
		if err := report.SavePDF(r.summary(input, res), paths.Report); err != nil {
			r.warn(res, "write report: %v", err)
		} else {
			res.ReportWritten = true
		}
	}
	return res, nil
}

func (r *Repairer) summary(input string, res *Result) report.Summary {
	sum := report.Summary{
		Input:            input,
		Output:           res.Paths.Output,
		SHA256:           res.SHA256,
		OutputSize:       res.OutputSize,
		TotalFrames:      res.Scan.TotalFrames(),
		ValidFrames:      res.Scan.ValidFrames,
		CorruptedFrames:  res.Scan.CorruptedFrames,
		SkippedPackets:   res.Scan.SkippedPackets,
		OriginalDuration: res.OriginalDuration.Reported,
		RepairedDuration: res.RepairedDuration,
		DecodedDuration:  res.DecodedDuration,
		Runs:             res.Runs,
		Generated:        time.Now().UTC(),
	}
	if !res.OriginalDuration.Available {
		sum.OriginalDuration = res.OriginalDuration.Naive
	}
	if res.ForensicFiles > 0 {
		sum.CorruptedDir = res.Paths.CorruptedDir
	}
	if res.ChartWritten {
		sum.ChartPath = res.Paths.Chart
	}
	return sum
}
