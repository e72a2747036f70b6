package analysis

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"mp3repair-backend/audio"
	"mp3repair-backend/mp3parser"
)

// DefaultTolerance is the largest difference, in seconds, between the
// reported and the frame-walked duration that still counts as a match.
const DefaultTolerance = 1.0

// Analyzer wires the collaborators used to analyze a file. The zero value is
// not usable; build one with NewAnalyzer and override fields as needed.
type Analyzer struct {
	NewDemuxer       func(r io.Reader) (audio.Demuxer, error)
	NewDecoder       DecoderFactory
	ReportedDuration func(path string) (time.Duration, error)
	ReadTags         func(path string) (*audio.TagInfo, error)
	Tolerance        float64
	Logger           *log.Logger
}

// NewAnalyzer returns an Analyzer backed by the MP3 demuxer and the minimp3
// decoder keeping window prior frames of context.
func NewAnalyzer(window int, logger *log.Logger) *Analyzer {
	return &Analyzer{
		NewDemuxer: func(r io.Reader) (audio.Demuxer, error) {
			d, err := audio.NewMP3Demuxer(r)
			if err != nil {
				return nil, err
			}
			return d, nil
		},
		NewDecoder: func(track audio.Track) (audio.FrameDecoder, error) {
			d, err := audio.NewMiniMP3Decoder(track, window)
			if err != nil {
				return nil, err
			}
			return d, nil
		},
		ReportedDuration: audio.ReportedDuration,
		ReadTags:         audio.ReadTags,
		Tolerance:        DefaultTolerance,
		Logger:           logger,
	}
}

// DurationCheck compares the container-reported duration with the naive
// frame-header estimate.
type DurationCheck struct {
	Reported   float64
	Naive      float64
	Difference float64
	// HeaderFrames is the number of frame headers the naive walk accepted.
	HeaderFrames int
	// Available is false when the container duration could not be read.
	Available bool
	Match     bool
}

// Report is the result of analyzing one file.
type Report struct {
	Path            string
	Duration        DurationCheck
	Scan            *ScanResult
	Runs            []FrameRun
	DecodedDuration float64
	Tags            *audio.TagInfo
	InfoHeader      *mp3parser.InfoHeader
}

func (a *Analyzer) logger() *log.Logger {
	if a.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return a.Logger
}

// Analyze cross-checks the duration of the file at path and classifies each
// of its frames.
func (a *Analyzer) Analyze(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	rep := &Report{Path: path}
	rep.Duration = a.CheckDuration(path, data)
	if info, err := mp3parser.FindInfoHeader(data); err == nil {
		rep.InfoHeader = info
	}
	if a.ReadTags != nil {
		tags, err := a.ReadTags(path)
		if err != nil {
			a.logger().Printf("read tags: %v", err)
		}
		rep.Tags = tags
	}

	scan, err := a.ScanFile(path, ScanOptions{})
	if err != nil {
		return nil, err
	}
	rep.Scan = scan
	rep.Runs = GroupRuns(scan.Frames)
	rep.DecodedDuration = scan.DecodedDuration()
	return rep, nil
}

// CheckDuration computes the naive duration of data and compares it with the
// duration reported for path.
func (a *Analyzer) CheckDuration(path string, data []byte) DurationCheck {
	if n := mp3parser.ID3v2TagSize(data); n > 0 {
		a.logger().Printf("skipped ID3v2 tag: %d bytes", n)
	}
	check := DurationCheck{
		Naive:        mp3parser.EstimateDuration(data),
		HeaderFrames: mp3parser.CountFrames(data),
	}
	if a.ReportedDuration == nil {
		return check
	}
	reported, err := a.ReportedDuration(path)
	if err != nil {
		a.logger().Printf("reported duration unavailable: %v", err)
		return check
	}
	tolerance := a.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	check.Available = true
	check.Reported = reported.Seconds()
	check.Difference = math.Abs(check.Reported - check.Naive)
	check.Match = check.Difference <= tolerance
	return check
}

// ScanFile opens path, demuxes it and runs Scan over its packets.
func (a *Analyzer) ScanFile(path string, opts ScanOptions) (*ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	demux, err := a.NewDemuxer(f)
	if err != nil {
		return nil, fmt.Errorf("demux input: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = a.Logger
	}
	return Scan(demux, a.NewDecoder, opts)
}
