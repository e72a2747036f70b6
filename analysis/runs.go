package analysis

// FrameInfo describes one demuxed frame.
type FrameInfo struct {
	Outcome    Outcome
	Entropy    float64
	Size       int
	ByteOffset int64 // offset of the payload within the demuxed byte stream
	// MainDataBegin is the Layer III bit reservoir back-pointer in bytes, or
	// -1 when the side information could not be read.
	MainDataBegin int
}

// IsValid reports whether the decoder accepted the frame.
func (f FrameInfo) IsValid() bool {
	return f.Outcome.Valid()
}

// End returns the offset just past the frame's payload.
func (f FrameInfo) End() int64 {
	return f.ByteOffset + int64(f.Size)
}

// FrameRun is a maximal sequence of consecutive frames sharing a validity.
type FrameRun struct {
	StartByte  int64
	EndByte    int64 // exclusive
	IsValid    bool
	AvgEntropy float64
	Frames     int
}

// GroupRuns collapses frames into runs of equal validity, in frame order.
func GroupRuns(frames []FrameInfo) []FrameRun {
	if len(frames) == 0 {
		return nil
	}

	var runs []FrameRun
	cur := FrameRun{
		StartByte: frames[0].ByteOffset,
		EndByte:   frames[0].End(),
		IsValid:   frames[0].IsValid(),
	}
	entropySum := frames[0].Entropy
	count := 1

	for _, f := range frames[1:] {
		if f.IsValid() == cur.IsValid {
			entropySum += f.Entropy
			count++
			cur.EndByte = f.End()
			continue
		}
		cur.AvgEntropy = entropySum / float64(count)
		cur.Frames = count
		runs = append(runs, cur)

		cur = FrameRun{StartByte: f.ByteOffset, EndByte: f.End(), IsValid: f.IsValid()}
		entropySum = f.Entropy
		count = 1
	}
	cur.AvgEntropy = entropySum / float64(count)
	cur.Frames = count
	return append(runs, cur)
}
