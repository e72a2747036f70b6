// Package report renders repair results as a PDF document.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"mp3repair-backend/analysis"
)

// FileName is the name of the PDF inside an output directory.
const FileName = "report.pdf"

// maxRunRows bounds the runs table; heavily damaged files produce thousands.
const maxRunRows = 200

// Summary is the content of a repair report.
type Summary struct {
	Input            string
	Output           string
	SHA256           string
	OutputSize       int64
	TotalFrames      int
	ValidFrames      int
	CorruptedFrames  int
	SkippedPackets   int
	OriginalDuration float64
	RepairedDuration float64
	DecodedDuration  float64
	CorruptedDir     string
	Runs             []analysis.FrameRun
	ChartPath        string
	Generated        time.Time
}

// SavePDF renders sum into a PDF document at out.
func SavePDF(sum Summary, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("MP3 Repair Report", false)
	pdf.SetAuthor("mp3c", false)
	pdf.SetCreator("mp3c", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "MP3 Repair Report")
	pdf.Ln(12)

	addSummarySection(pdf, sum)
	addHashSection(pdf, Fingerprint{SHA256: sum.SHA256, Size: sum.OutputSize})
	addChart(pdf, sum.ChartPath)
	addRunsSection(pdf, sum.Runs)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addSummarySection(pdf *gofpdf.Fpdf, sum Summary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	generated := sum.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Input", value: emptyFallback(sum.Input, "-")},
		{label: "Repaired File", value: emptyFallback(sum.Output, "-")},
		{label: "Generated", value: generated.Format(time.RFC3339)},
		{label: "Total Frames", value: strconv.Itoa(sum.TotalFrames)},
		{label: "Valid Frames", value: strconv.Itoa(sum.ValidFrames)},
		{label: "Corrupted Frames", value: strconv.Itoa(sum.CorruptedFrames)},
		{label: "Skipped Packets", value: strconv.Itoa(sum.SkippedPackets)},
		{label: "Original Duration", value: seconds(sum.OriginalDuration)},
		{label: "Decoded Duration", value: seconds(sum.DecodedDuration)},
		{label: "Repaired Duration", value: seconds(sum.RepairedDuration)},
	}
	if sum.CorruptedFrames > 0 {
		items = append(items, struct {
			label string
			value string
		}{label: "Forensic Frames", value: emptyFallback(sum.CorruptedDir, "-")})
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, item.value, "", "L", false)
	}
	pdf.Ln(4)
}

func addHashSection(pdf *gofpdf.Fpdf, fp Fingerprint) {
	if fp.SHA256 == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Repaired File Fingerprint")
	pdf.Ln(8)
	pdf.SetFont("Courier", "", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("SHA-256 %s\n%d bytes", fp.SHA256, fp.Size), "", "L", false)

	png, err := fp.QR(256)
	if err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("sha256-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("sha256-qr", pdf.GetX(), pdf.GetY()+2, 30, 30, true, opts, 0, "")
	pdf.Ln(4)
}

func addChart(pdf *gofpdf.Fpdf, path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Frame Contiguity")
	pdf.Ln(9)
	pdf.ImageOptions(path, pdf.GetX(), pdf.GetY(), 180, 90, true, gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	pdf.Ln(4)
}

func addRunsSection(pdf *gofpdf.Fpdf, runs []analysis.FrameRun) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Frame Runs")
	pdf.Ln(9)

	if len(runs) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No frames recorded.", "", "L", false)
		return
	}

	headers := []string{"#", "Start", "End", "Frames", "State", "Avg Entropy"}
	widths := []float64{14, 36, 36, 24, 30, 40}
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range runs {
		if i == maxRunRows {
			pdf.MultiCell(0, 6, fmt.Sprintf("... %d more runs", len(runs)-maxRunRows), "", "L", false)
			break
		}
		values := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(r.StartByte, 10),
			strconv.FormatInt(r.EndByte, 10),
			strconv.Itoa(r.Frames),
			validityLabel(r.IsValid),
			strconv.FormatFloat(r.AvgEntropy, 'f', 3, 64),
		}
		for j, v := range values {
			pdf.CellFormat(widths[j], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func validityLabel(valid bool) string {
	if valid {
		return "VALID"
	}
	return "CORRUPTED"
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64) + "s"
}

func emptyFallback(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
