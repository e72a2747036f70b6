// Package models contain the request and response shapes of the API
package models

// RunSummary represents a run of frames sharing a validity
type RunSummary struct {
	StartByte  int64   `json:"start_byte"`
	EndByte    int64   `json:"end_byte"`
	Valid      bool    `json:"valid"`
	Frames     int     `json:"frames"`
	AvgEntropy float64 `json:"avg_entropy"`
}

// TagSummary represents the ID3v2 tag of an uploaded file
type TagSummary struct {
	Version int    `json:"version"`
	Size    int    `json:"size"`
	Title   string `json:"title,omitempty"`
	Artist  string `json:"artist,omitempty"`
	Album   string `json:"album,omitempty"`
	Year    string `json:"year,omitempty"`
	Genre   string `json:"genre,omitempty"`
}

// InfoSummary represents the Xing/Info frame found at the head of a file
type InfoSummary struct {
	Tag        string `json:"tag"`
	FrameCount uint32 `json:"frame_count"`
	ByteCount  uint32 `json:"byte_count"`
	VBRScale   uint32 `json:"vbr_scale,omitempty"`
}

// AnalyzeResponse represents the response after analyzing a file
type AnalyzeResponse struct {
	Success            bool         `json:"success"`
	Message            string       `json:"message"`
	Filename           string       `json:"filename,omitempty"`
	Codec              string       `json:"codec,omitempty"`
	SampleRate         int          `json:"sample_rate,omitempty"`
	Channels           int          `json:"channels,omitempty"`
	ReportedDuration   float64      `json:"reported_duration"`
	NaiveDuration      float64      `json:"naive_duration"`
	DurationDifference float64      `json:"duration_difference"`
	DurationAvailable  bool         `json:"duration_available"`
	DurationMatch      bool         `json:"duration_match"`
	HeaderFrames       int          `json:"header_frames"`
	DecodedDuration    float64      `json:"decoded_duration"`
	TotalFrames        int          `json:"total_frames"`
	ValidFrames        int          `json:"valid_frames"`
	CorruptedFrames    int          `json:"corrupted_frames"`
	SkippedPackets     int          `json:"skipped_packets"`
	ReservoirBreaks    int          `json:"reservoir_breaks"`
	TagBytes           int          `json:"tag_bytes"`
	JunkBytes          int          `json:"junk_bytes"`
	Runs               []RunSummary `json:"runs,omitempty"`
	Tags               *TagSummary  `json:"tags,omitempty"`
	InfoHeader         *InfoSummary `json:"info_header,omitempty"`
	ChartPath          string       `json:"chart_path,omitempty"`
	Warnings           []string     `json:"warnings,omitempty"`
}

// RepairResponse represents the response after repairing a file. The
// repaired MP3 itself is streamed; this shape is only used for failures and
// by the CLI.
type RepairResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	Output           string   `json:"output,omitempty"`
	SHA256           string   `json:"sha256,omitempty"`
	ValidFrames      int      `json:"valid_frames"`
	CorruptedFrames  int      `json:"corrupted_frames"`
	CorruptedDir     string   `json:"corrupted_dir,omitempty"`
	OriginalDuration float64  `json:"original_duration"`
	RepairedDuration float64  `json:"repaired_duration"`
	Warnings         []string `json:"warnings,omitempty"`
}
