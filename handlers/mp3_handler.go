// Package handlers is made to handle requests
package handlers

import (
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"mp3repair-backend/analysis"
	"mp3repair-backend/chart"
	"mp3repair-backend/models"
	"mp3repair-backend/repair"
)

// DefaultUploadLimit is the multipart memory limit used when none is given.
const DefaultUploadLimit = 32 << 20

// FileAnalyzer analyzes a file on disk.
type FileAnalyzer interface {
	Analyze(path string) (*analysis.Report, error)
}

// FileRepairer repairs a file on disk into a directory.
type FileRepairer interface {
	Repair(input, outDir string) (*repair.Result, error)
}

type MP3Handler struct {
	analyzer    FileAnalyzer
	repairer    FileRepairer
	uploadLimit int64
	// outputDir keeps repair outputs and analysis charts; empty discards
	// repair outputs after the response and skips the analysis chart.
	outputDir   string
	chartWidth  float64
	chartHeight float64
	logger      *log.Logger
}

func NewMP3Handler(analyzer FileAnalyzer, repairer FileRepairer, uploadLimit int64, outputDir string, logger *log.Logger) *MP3Handler {
	if uploadLimit <= 0 {
		uploadLimit = DefaultUploadLimit
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &MP3Handler{
		analyzer:    analyzer,
		repairer:    repairer,
		uploadLimit: uploadLimit,
		outputDir:   outputDir,
		logger:      logger,
	}
}

// WithChartSize sets the analysis chart size in inches.
func (h *MP3Handler) WithChartSize(width, height float64) *MP3Handler {
	h.chartWidth = width
	h.chartHeight = height
	return h
}

func (h *MP3Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "MP3 repair API is running",
		"version": "1.0.0",
	})
}

func (h *MP3Handler) Analyze(c *gin.Context) {
	path, filename, cleanup, err := h.receiveUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.AnalyzeResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	defer cleanup()

	rep, err := h.analyzer.Analyze(path)
	if err != nil {
		h.logger.Printf("analyze %s: %v", filename, err)
		c.JSON(http.StatusUnprocessableEntity, models.AnalyzeResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to analyze MP3 file: %v", err),
		})
		return
	}
	resp := models.NewAnalyzeResponse(filename, rep)
	if h.outputDir != "" {
		chartPath, err := h.saveChart(rep)
		if err != nil {
			h.logger.Printf("analyze %s: render chart: %v", filename, err)
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("render chart: %v", err))
		}
		resp.ChartPath = chartPath
	}
	c.JSON(http.StatusOK, resp)
}

// saveChart draws the analysis chart into a fresh directory under outputDir.
func (h *MP3Handler) saveChart(rep *analysis.Report) (string, error) {
	if rep.Scan == nil || len(rep.Scan.Frames) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(h.outputDir, 0o755); err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp(h.outputDir, "analyze-")
	if err != nil {
		return "", err
	}
	return chart.SaveInDir(dir, rep.Scan.Frames, rep.Runs, h.chartWidth, h.chartHeight)
}

func (h *MP3Handler) Repair(c *gin.Context) {
	path, filename, cleanup, err := h.receiveUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.RepairResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	defer cleanup()

	outDir, err := h.repairDir()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.RepairResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to prepare output directory: %v", err),
		})
		return
	}
	if h.outputDir == "" {
		defer os.RemoveAll(outDir)
	}

	res, err := h.repairer.Repair(path, outDir)
	if err != nil {
		h.logger.Printf("repair %s: %v", filename, err)
		c.JSON(http.StatusUnprocessableEntity, models.RepairResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to repair MP3 file: %v", err),
		})
		return
	}
	repaired, err := os.ReadFile(res.Paths.Output)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.RepairResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to read repaired file: %v", err),
		})
		return
	}
	for _, w := range res.Warnings {
		h.logger.Printf("repair %s: %s", filename, w)
	}

	baseFilename := strings.TrimSuffix(filename, filepath.Ext(filename))
	outputFilename := fmt.Sprintf("%s-repaired.mp3", baseFilename)

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": outputFilename}))
	c.Header("Content-Length", fmt.Sprintf("%d", len(repaired)))

	c.Header("X-Repair-Valid-Frames", fmt.Sprintf("%d", res.Scan.ValidFrames))
	c.Header("X-Repair-Corrupted-Frames", fmt.Sprintf("%d", res.Scan.CorruptedFrames))
	c.Header("X-Repair-Original-Duration", fmt.Sprintf("%.3f", models.NewRepairResponse(res).OriginalDuration))
	c.Header("X-Repair-Repaired-Duration", fmt.Sprintf("%.3f", res.RepairedDuration))
	c.Header("X-Repair-SHA256", res.SHA256)
	if h.outputDir != "" {
		c.Header("X-Repair-Output-Dir", outDir)
	}

	c.Data(http.StatusOK, "audio/mpeg", repaired)
}

// receiveUpload stores the audio_file part in a temporary directory. The
// returned cleanup removes it.
func (h *MP3Handler) receiveUpload(c *gin.Context) (path, filename string, cleanup func(), err error) {
	if err := c.Request.ParseMultipartForm(h.uploadLimit); err != nil {
		return "", "", nil, fmt.Errorf("Failed to parse form: %v", err)
	}
	header, err := c.FormFile("audio_file")
	if err != nil {
		return "", "", nil, fmt.Errorf("Audio file is required")
	}
	if !isValidMP3File(header.Filename) {
		return "", "", nil, fmt.Errorf("Invalid audio file format. Only MP3 files are supported")
	}

	dir, err := os.MkdirTemp("", "mp3repair-upload-")
	if err != nil {
		return "", "", nil, fmt.Errorf("Failed to store upload: %v", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	filename = filepath.Base(header.Filename)
	path = filepath.Join(dir, filename)
	if err := c.SaveUploadedFile(header, path); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("Failed to store upload: %v", err)
	}
	return path, filename, cleanup, nil
}

func (h *MP3Handler) repairDir() (string, error) {
	if h.outputDir == "" {
		return os.MkdirTemp("", "mp3repair-out-")
	}
	if err := os.MkdirAll(h.outputDir, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(h.outputDir, "repair-")
}

func isValidMP3File(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".mp3"
}
