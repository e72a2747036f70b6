package mp3parser

// WalkFrames visits every frame header found in data, skipping a leading
// ID3v2 tag. Bytes that do not start a valid header are stepped over one at
// a time; an accepted header advances the cursor by its frame length, so a
// clean stream is walked in frame strides while a damaged one resynchronizes
// byte by byte.
func WalkFrames(data []byte, visit func(offset int, h *MP3FrameHeader)) {
	pos := ID3v2TagSize(data)
	for pos+frameHeaderSize <= len(data) {
		if !HasSync(data[pos:]) {
			pos++
			continue
		}
		h, err := ParseFrameHeader(data[pos : pos+frameHeaderSize])
		if err != nil {
			pos++
			continue
		}
		visit(pos, h)
		pos += h.FrameLength
	}
}

// EstimateDuration returns the playback time in seconds implied by the frame
// headers in data, without decoding any payload. It never fails: anything
// that is not a header is treated as noise.
func EstimateDuration(data []byte) float64 {
	var total float64
	WalkFrames(data, func(_ int, h *MP3FrameHeader) {
		total += h.Duration()
	})
	return total
}

// CountFrames returns the number of headers WalkFrames accepts in data.
func CountFrames(data []byte) int {
	n := 0
	WalkFrames(data, func(int, *MP3FrameHeader) { n++ })
	return n
}

// FirstFrame returns the offset and header of the first frame WalkFrames
// would visit. ok is false when data holds no frame.
func FirstFrame(data []byte) (offset int, h *MP3FrameHeader, ok bool) {
	pos := ID3v2TagSize(data)
	for ; pos+frameHeaderSize <= len(data); pos++ {
		if !HasSync(data[pos:]) {
			continue
		}
		if hdr, err := ParseFrameHeader(data[pos : pos+frameHeaderSize]); err == nil {
			return pos, hdr, true
		}
	}
	return 0, nil, false
}
