package mp3parser

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// InfoHeaderSize is the length of the synthesized stream-info frame. It equals
// the frame length its header declares, so readers that do not understand the
// tag step over it like any other frame.
const InfoHeaderSize = 208

// Flag bits of the Xing/Info flags field.
const (
	FlagFrameCount = 0x0001
	FlagByteCount  = 0x0002
	FlagTOC        = 0x0004
	FlagVBRScale   = 0x0008
)

// ErrNoInfoHeader is returned when a frame carries no Xing/Info tag.
var ErrNoInfoHeader = errors.New("no Xing/Info header")

// MPEG-1 Layer III, no CRC, 64 kbps, 44.1 kHz, stereo.
var infoFrameHeader = [frameHeaderSize]byte{0xFF, 0xFB, 0x50, 0x00}

const infoTagOffset = frameHeaderSize + 32

// InfoHeader holds the fields of a Xing/Info stream-info frame.
type InfoHeader struct {
	IsXing     bool
	Flags      uint32
	FrameCount uint32
	ByteCount  uint32
	// VBRScale is the encoder quality indicator, 0-100, when present.
	VBRScale uint32
}

const tocSize = 100

// BuildInfoHeader returns a Xing frame announcing frameCount audio frames
// totalling byteCount bytes.
//
// Layout: 4-byte frame header, 32 zero bytes of side information, "Xing",
// flags (frame count | byte count), frame count, byte count, zero padding.
func BuildInfoHeader(frameCount, byteCount uint32) []byte {
	buf := make([]byte, InfoHeaderSize)
	copy(buf, infoFrameHeader[:])
	copy(buf[infoTagOffset:], "Xing")
	binary.BigEndian.PutUint32(buf[infoTagOffset+4:], FlagFrameCount|FlagByteCount)
	binary.BigEndian.PutUint32(buf[infoTagOffset+8:], frameCount)
	binary.BigEndian.PutUint32(buf[infoTagOffset+12:], byteCount)
	return buf
}

func sideInfoSize(h *MP3FrameHeader) int {
	mono := h.ChannelMode == ChannelModeMono
	if h.VersionID == VersionMPEG1 {
		if mono {
			return 17
		}
		return 32
	}
	if mono {
		return 9
	}
	return 17
}

// ParseInfoHeader reads the Xing/Info tag from a complete frame.
func ParseInfoHeader(frame []byte) (*InfoHeader, error) {
	h, err := ParseFrameHeader(frame)
	if err != nil {
		return nil, err
	}
	off := frameHeaderSize + sideInfoSize(h)
	if h.ProtectionBit {
		off += 2
	}
	if len(frame) < off+8 {
		return nil, ErrNoInfoHeader
	}
	tag := string(frame[off : off+4])
	if tag != "Xing" && tag != "Info" {
		return nil, ErrNoInfoHeader
	}
	info := &InfoHeader{
		IsXing: tag == "Xing",
		Flags:  binary.BigEndian.Uint32(frame[off+4:]),
	}
	p := off + 8
	if info.Flags&FlagFrameCount != 0 {
		if len(frame) < p+4 {
			return nil, fmt.Errorf("info header truncated at frame count")
		}
		info.FrameCount = binary.BigEndian.Uint32(frame[p:])
		p += 4
	}
	if info.Flags&FlagByteCount != 0 {
		if len(frame) < p+4 {
			return nil, fmt.Errorf("info header truncated at byte count")
		}
		info.ByteCount = binary.BigEndian.Uint32(frame[p:])
		p += 4
	}
	if info.Flags&FlagTOC != 0 {
		p += tocSize
	}
	if info.Flags&FlagVBRScale != 0 {
		if len(frame) < p+4 {
			return nil, fmt.Errorf("info header truncated at vbr scale")
		}
		info.VBRScale = binary.BigEndian.Uint32(frame[p:])
	}
	return info, nil
}

// FindInfoHeader parses the Xing/Info tag of the first frame in data.
func FindInfoHeader(data []byte) (*InfoHeader, error) {
	off, h, ok := FirstFrame(data)
	if !ok {
		return nil, ErrNoInfoHeader
	}
	end := off + h.FrameLength
	if end > len(data) {
		end = len(data)
	}
	return ParseInfoHeader(data[off:end])
}
