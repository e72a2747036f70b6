// Command mp3c analyzes an MP3 file and optionally repairs it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"mp3repair-backend/analysis"
	"mp3repair-backend/chart"
	"mp3repair-backend/config"
	"mp3repair-backend/models"
	"mp3repair-backend/repair"
)

func main() {
	input := flag.String("i", "", "input MP3 file (required)")
	extract := flag.Bool("e", false, "repair: write the decodable frames to a new file")
	outDir := flag.String("o", "", "output directory; repair defaults to next to the input, analysis draws the chart only when set")
	configPath := flag.String("config", "", "optional YAML configuration file")
	verbose := flag.Bool("v", false, "log frame-level diagnostics")
	asJSON := flag.Bool("json", false, "print the result as JSON")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "mp3c: -i is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "mp3c: ", log.LstdFlags|log.Lmicroseconds)
	}
	analyzer := analysis.NewAnalyzer(cfg.Window(), logger)
	analyzer.Tolerance = cfg.DurationTolerance

	dir := *outDir
	if dir == "" {
		dir = cfg.OutputDir
	}

	if !*extract {
		chartOut := chartOptions{dir: dir, width: cfg.Chart.Width, height: cfg.Chart.Height}
		if err := runAnalyze(os.Stdout, analyzer, *input, chartOut, *asJSON); err != nil {
			log.Fatalf("analyze: %v", err)
		}
		return
	}

	repairer := repair.New(analyzer, logger)
	repairer.ExportWAV = cfg.ExportWAV
	repairer.PDFReport = cfg.PDFReport
	repairer.ChartWidth = cfg.Chart.Width
	repairer.ChartHeight = cfg.Chart.Height
	if err := runRepair(os.Stdout, repairer, *input, dir, *asJSON); err != nil {
		log.Fatalf("repair: %v", err)
	}
}

// chartOptions places the analysis chart. An empty dir skips it.
type chartOptions struct {
	dir           string
	width, height float64
}

func runAnalyze(w io.Writer, a *analysis.Analyzer, input string, co chartOptions, asJSON bool) error {
	rep, err := a.Analyze(input)
	if err != nil {
		return err
	}
	resp := models.NewAnalyzeResponse(input, rep)
	if co.dir != "" {
		path, err := chart.SaveInDir(co.dir, rep.Scan.Frames, rep.Runs, co.width, co.height)
		if err != nil {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("render chart: %v", err))
		}
		resp.ChartPath = path
	}
	if asJSON {
		return writeJSON(w, resp)
	}
	printDuration(w, rep.Duration, a.Tolerance)
	fmt.Fprintf(w, "Decoded duration:  %.3fs\n", rep.DecodedDuration)
	fmt.Fprintf(w, "Frames:            %d total, %d valid, %d corrupted\n",
		rep.Scan.TotalFrames(), rep.Scan.ValidFrames, rep.Scan.CorruptedFrames)
	if rep.Duration.HeaderFrames != rep.Scan.TotalFrames() {
		fmt.Fprintf(w, "Header walk:       %d frames\n", rep.Duration.HeaderFrames)
	}
	if rep.Scan.SkippedPackets > 0 {
		fmt.Fprintf(w, "Skipped packets:   %d\n", rep.Scan.SkippedPackets)
	}
	if rep.Scan.TagBytes > 0 || rep.Scan.JunkBytes > 0 {
		fmt.Fprintf(w, "Skipped bytes:     %d tag, %d junk\n", rep.Scan.TagBytes, rep.Scan.JunkBytes)
	}
	if rep.Scan.ReservoirBreaks > 0 {
		fmt.Fprintf(w, "Reservoir breaks:  %d\n", rep.Scan.ReservoirBreaks)
	}
	if rep.Tags != nil && rep.Tags.Title != "" {
		fmt.Fprintf(w, "Title:             %s\n", rep.Tags.Title)
	}
	for _, r := range rep.Runs {
		if r.IsValid {
			continue
		}
		fmt.Fprintf(w, "  corrupted bytes %d-%d (%d frames)\n", r.StartByte, r.EndByte, r.Frames)
	}
	if resp.ChartPath != "" {
		fmt.Fprintf(w, "Chart:             %s\n", resp.ChartPath)
	}
	for _, warning := range resp.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func runRepair(w io.Writer, r *repair.Repairer, input, outDir string, asJSON bool) error {
	res, err := r.Repair(input, outDir)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, models.NewRepairResponse(res))
	}
	printDuration(w, res.OriginalDuration, r.Analyzer.Tolerance)
	fmt.Fprintf(w, "Repaired file:     %s\n", res.Paths.Output)
	fmt.Fprintf(w, "Repaired duration: %.3fs\n", res.RepairedDuration)
	fmt.Fprintf(w, "SHA-256:           %s\n", res.SHA256)
	fmt.Fprintf(w, "Frames kept:       %d of %d\n", res.Scan.ValidFrames, res.Scan.TotalFrames())
	if res.Scan.CorruptedFrames > 0 {
		fmt.Fprintf(w, "Corrupted frames:  %d, saved to %s\n", res.Scan.CorruptedFrames, res.Paths.CorruptedDir)
	}
	if res.ChartWritten {
		fmt.Fprintf(w, "Chart:             %s\n", res.Paths.Chart)
	}
	if res.WAVWritten {
		fmt.Fprintf(w, "WAV:               %s\n", res.Paths.WAV)
	}
	if res.ReportWritten {
		fmt.Fprintf(w, "Report:            %s\n", res.Paths.Report)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func printDuration(w io.Writer, d analysis.DurationCheck, tolerance float64) {
	fmt.Fprintf(w, "Naive duration:    %.3fs\n", d.Naive)
	if !d.Available {
		fmt.Fprintln(w, "Reported duration: unavailable")
		return
	}
	fmt.Fprintf(w, "Reported duration: %.3fs\n", d.Reported)
	switch {
	case d.Difference == 0:
		fmt.Fprintln(w, "Duration check:    exact match")
	case d.Match:
		fmt.Fprintf(w, "Duration check:    match (difference %.3fs within %.1fs)\n", d.Difference, tolerance)
	default:
		fmt.Fprintf(w, "Duration check:    MISMATCH (difference %.3fs exceeds %.1fs)\n", d.Difference, tolerance)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
