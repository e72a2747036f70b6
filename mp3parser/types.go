package mp3parser

// ID3v2Header represents ID3v2 tag header
type ID3v2Header struct {
	Version [2]byte
	Flags   byte
	Size    int
}

// TotalSize is the number of bytes the tag occupies, header included.
func (h *ID3v2Header) TotalSize() int {
	return id3v2HeaderSize + h.Size
}

// MPEG version field values.
const (
	VersionMPEG25   = 0
	VersionReserved = 1
	VersionMPEG2    = 2
	VersionMPEG1    = 3
)

// Layer field values.
const (
	LayerReserved = 0
	LayerIII      = 1
	LayerII       = 2
	LayerI        = 3
)

// ChannelModeMono is the channel-mode value of a single-channel frame.
const ChannelModeMono = 3

// MP3FrameHeader represents an MP3 frame header
type MP3FrameHeader struct {
	VersionID       int
	Layer           int
	ProtectionBit   bool // a CRC follows the header
	BitrateIndex    int
	Bitrate         int // bits per second
	SampleRateIndex int
	SampleRate      int
	Padding         bool
	ChannelMode     int
	SamplesPerFrame int
	FrameLength     int
}

// Channels returns 1 for mono frames and 2 otherwise.
func (h *MP3FrameHeader) Channels() int {
	if h.ChannelMode == ChannelModeMono {
		return 1
	}
	return 2
}

// Duration returns the playback time of the frame in seconds.
func (h *MP3FrameHeader) Duration() float64 {
	return float64(h.SamplesPerFrame) / float64(h.SampleRate)
}
