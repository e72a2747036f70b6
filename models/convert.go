package models

import (
	"mp3repair-backend/analysis"
	"mp3repair-backend/repair"
)

// NewAnalyzeResponse builds the response for rep.
func NewAnalyzeResponse(filename string, rep *analysis.Report) AnalyzeResponse {
	resp := AnalyzeResponse{
		Success:            true,
		Message:            "Analysis complete",
		Filename:           filename,
		ReportedDuration:   rep.Duration.Reported,
		NaiveDuration:      rep.Duration.Naive,
		DurationDifference: rep.Duration.Difference,
		DurationAvailable:  rep.Duration.Available,
		DurationMatch:      rep.Duration.Match,
		HeaderFrames:       rep.Duration.HeaderFrames,
		DecodedDuration:    rep.DecodedDuration,
		Runs:               NewRunSummaries(rep.Runs),
	}
	if s := rep.Scan; s != nil {
		resp.Codec = string(s.Track.Codec)
		resp.SampleRate = s.Track.SampleRate
		resp.Channels = s.Track.Channels
		resp.TotalFrames = s.TotalFrames()
		resp.ValidFrames = s.ValidFrames
		resp.CorruptedFrames = s.CorruptedFrames
		resp.SkippedPackets = s.SkippedPackets
		resp.ReservoirBreaks = s.ReservoirBreaks
		resp.TagBytes = s.TagBytes
		resp.JunkBytes = s.JunkBytes
	}
	if t := rep.Tags; t != nil {
		resp.Tags = &TagSummary{
			Version: t.Version,
			Size:    t.Size,
			Title:   t.Title,
			Artist:  t.Artist,
			Album:   t.Album,
			Year:    t.Year,
			Genre:   t.Genre,
		}
	}
	if h := rep.InfoHeader; h != nil {
		tag := "Info"
		if h.IsXing {
			tag = "Xing"
		}
		resp.InfoHeader = &InfoSummary{Tag: tag, FrameCount: h.FrameCount, ByteCount: h.ByteCount, VBRScale: h.VBRScale}
	}
	return resp
}

// NewRepairResponse builds the response for res.
func NewRepairResponse(res *repair.Result) RepairResponse {
	resp := RepairResponse{
		Success:          true,
		Message:          "Repair complete",
		Output:           res.Paths.Output,
		SHA256:           res.SHA256,
		ValidFrames:      res.Scan.ValidFrames,
		CorruptedFrames:  res.Scan.CorruptedFrames,
		OriginalDuration: res.OriginalDuration.Reported,
		RepairedDuration: res.RepairedDuration,
		Warnings:         res.Warnings,
	}
	if !res.OriginalDuration.Available {
		resp.OriginalDuration = res.OriginalDuration.Naive
	}
	if res.ForensicFiles > 0 {
		resp.CorruptedDir = res.Paths.CorruptedDir
	}
	return resp
}

// NewRunSummaries converts runs for output.
func NewRunSummaries(runs []analysis.FrameRun) []RunSummary {
	if len(runs) == 0 {
		return nil
	}
	out := make([]RunSummary, len(runs))
	for i, r := range runs {
		out[i] = RunSummary{
			StartByte:  r.StartByte,
			EndByte:    r.EndByte,
			Valid:      r.IsValid,
			Frames:     r.Frames,
			AvgEntropy: r.AvgEntropy,
		}
	}
	return out
}
