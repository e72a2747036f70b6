// Package mp3parser walks MPEG audio streams at the header level.
package mp3parser

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	id3v2HeaderSize = 10
	frameHeaderSize = 4
)

var (
	// ErrInvalidSync is returned when a header candidate lacks the 11-bit frame sync.
	ErrInvalidSync = errors.New("invalid frame sync")
	// ErrReservedField is returned when a header carries a reserved or unsupported field value.
	ErrReservedField = errors.New("reserved header field")
)

var sampleRateTables = [4][3]int{
	VersionMPEG25: {11025, 12000, 8000},
	VersionMPEG2:  {22050, 24000, 16000},
	VersionMPEG1:  {44100, 48000, 32000},
}

// kbps
var (
	bitrateTableMPEG1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitrateTableMPEG2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// read syncsafe int for ID3v2 size
func syncSafeToInt(b []byte) int {
	return int(b[0]&0x7F)<<21 |
		int(b[1]&0x7F)<<14 |
		int(b[2]&0x7F)<<7 |
		int(b[3]&0x7F)
}

// ParseID3v2Header decodes the 10-byte tag header at the start of data.
// It returns nil when data does not start with a tag.
func ParseID3v2Header(data []byte) *ID3v2Header {
	if len(data) <= id3v2HeaderSize || string(data[:3]) != "ID3" {
		return nil
	}
	return &ID3v2Header{
		Version: [2]byte{data[3], data[4]},
		Flags:   data[5],
		Size:    syncSafeToInt(data[6:10]),
	}
}

// ID3v2TagSize returns how many leading bytes of data belong to an ID3v2 tag.
func ID3v2TagSize(data []byte) int {
	h := ParseID3v2Header(data)
	if h == nil {
		return 0
	}
	return h.TotalSize()
}

// SkipID3v2 discards a leading ID3v2 tag from r and returns the number of
// bytes skipped.
func SkipID3v2(r *bufio.Reader) (int, error) {
	buf, err := r.Peek(id3v2HeaderSize + 1)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, bufio.ErrBufferFull) {
			return 0, nil
		}
		return 0, err
	}
	h := ParseID3v2Header(buf)
	if h == nil {
		return 0, nil
	}
	n, err := r.Discard(h.TotalSize())
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("discard id3v2 tag: %w", err)
	}
	return n, nil
}

// HasSync reports whether data starts with the 11-bit frame sync.
func HasSync(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

// ParseFrameHeader decodes the 4-byte frame header at the start of data.
func ParseFrameHeader(data []byte) (*MP3FrameHeader, error) {
	if len(data) < frameHeaderSize {
		return nil, fmt.Errorf("frame header too short: %d bytes", len(data))
	}
	header := binary.BigEndian.Uint32(data[:frameHeaderSize])

	// check sync
	if (header & 0xFFE00000) != 0xFFE00000 {
		return nil, fmt.Errorf("%w: 0x%08X", ErrInvalidSync, header)
	}

	versionID := int((header >> 19) & 0x3)
	layer := int((header >> 17) & 0x3)
	prot := ((header >> 16) & 0x1) == 0
	bitrateIdx := int((header >> 12) & 0xF)
	sampleRateIdx := int((header >> 10) & 0x3)
	padding := ((header >> 9) & 0x1) == 1
	channelMode := int((header >> 6) & 0x3)

	switch {
	case versionID == VersionReserved:
		return nil, fmt.Errorf("%w: version", ErrReservedField)
	case layer == LayerReserved:
		return nil, fmt.Errorf("%w: layer", ErrReservedField)
	case bitrateIdx == 0 || bitrateIdx == 15:
		return nil, fmt.Errorf("%w: bitrate index %d", ErrReservedField, bitrateIdx)
	case sampleRateIdx == 3:
		return nil, fmt.Errorf("%w: sample rate index", ErrReservedField)
	}

	bitrateTable := bitrateTableMPEG2
	samplesPerFrame := 576
	if versionID == VersionMPEG1 {
		bitrateTable = bitrateTableMPEG1
		samplesPerFrame = 1152
	}
	bitrate := bitrateTable[bitrateIdx] * 1000
	sampleRate := sampleRateTables[versionID][sampleRateIdx]
	if bitrate == 0 {
		return nil, fmt.Errorf("%w: zero bitrate", ErrReservedField)
	}

	frameLen := (samplesPerFrame/8*bitrate)/sampleRate + btoi(padding)

	return &MP3FrameHeader{
		VersionID:       versionID,
		Layer:           layer,
		ProtectionBit:   prot,
		BitrateIndex:    bitrateIdx,
		Bitrate:         bitrate,
		SampleRateIndex: sampleRateIdx,
		SampleRate:      sampleRate,
		Padding:         padding,
		ChannelMode:     channelMode,
		SamplesPerFrame: samplesPerFrame,
		FrameLength:     frameLen,
	}, nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
