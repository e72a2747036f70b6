package mp3parser

import (
	"fmt"
	"io"
)

// BitReader reads big-endian bit fields.
type BitReader struct {
	data []byte
	pos  int // bit position
}

func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

func (br *BitReader) ReadBits(n int) (uint32, error) {
	if n <= 0 || n > 32 {
		return 0, fmt.Errorf("invalid bit count %d", n)
	}
	var val uint32
	for range n {
		bytePos := br.pos / 8
		if bytePos >= len(br.data) {
			return 0, io.ErrUnexpectedEOF
		}
		bit := (br.data[bytePos] >> (7 - br.pos%8)) & 1
		val = val<<1 | uint32(bit)
		br.pos++
	}
	return val, nil
}

// Skip advances past n bits.
func (br *BitReader) Skip(n int) error {
	if br.pos+n > len(br.data)*8 {
		return io.ErrUnexpectedEOF
	}
	br.pos += n
	return nil
}

type GranuleChannelInfo struct {
	Part23Length uint32
	BigValues    uint32
	GlobalGain   uint32
	BlockType    uint32
}

// SideInfo is the Layer III side information of one frame.
type SideInfo struct {
	// MainDataBegin is the negative offset, in bytes, from the frame's main
	// data to where it actually starts inside earlier frames.
	MainDataBegin int
	Granules      [][]GranuleChannelInfo
}

// ParseSideInfo reads the side information of a complete Layer III frame.
func ParseSideInfo(frame []byte) (*SideInfo, error) {
	h, err := ParseFrameHeader(frame)
	if err != nil {
		return nil, err
	}
	if h.Layer != LayerIII {
		return nil, fmt.Errorf("side info: layer %d is not Layer III", h.Layer)
	}
	off := frameHeaderSize
	if h.ProtectionBit {
		off += 2
	}
	size := sideInfoSize(h)
	if len(frame) < off+size {
		return nil, fmt.Errorf("side info truncated: %d bytes", len(frame)-off)
	}
	return parseSideInfo(h, frame[off:off+size])
}

func parseSideInfo(h *MP3FrameHeader, data []byte) (*SideInfo, error) {
	br := NewBitReader(data)
	mpeg1 := h.VersionID == VersionMPEG1
	channels := h.Channels()

	granules := 1
	beginBits, privBits := 8, 2
	scfCompressBits := 9
	if mpeg1 {
		granules = 2
		beginBits, privBits = 9, 3
		scfCompressBits = 4
	}
	if channels == 1 {
		if mpeg1 {
			privBits = 5
		} else {
			privBits = 1
		}
	}

	begin, err := br.ReadBits(beginBits)
	if err != nil {
		return nil, err
	}
	if err := br.Skip(privBits); err != nil {
		return nil, err
	}
	if mpeg1 {
		// scfsi, 4 bits per channel
		if err := br.Skip(4 * channels); err != nil {
			return nil, err
		}
	}

	info := &SideInfo{MainDataBegin: int(begin), Granules: make([][]GranuleChannelInfo, granules)}
	for gr := range granules {
		info.Granules[gr] = make([]GranuleChannelInfo, channels)
		for ch := range channels {
			g := &info.Granules[gr][ch]
			var err error
			if g.Part23Length, err = br.ReadBits(12); err != nil {
				return nil, err
			}
			if g.BigValues, err = br.ReadBits(9); err != nil {
				return nil, err
			}
			if g.GlobalGain, err = br.ReadBits(8); err != nil {
				return nil, err
			}
			if err := br.Skip(scfCompressBits); err != nil {
				return nil, err
			}
			switching, err := br.ReadBits(1)
			if err != nil {
				return nil, err
			}
			if switching == 1 {
				if g.BlockType, err = br.ReadBits(2); err != nil {
					return nil, err
				}
				// mixed block flag, two table selects, three subblock gains
				if err := br.Skip(1 + 2*5 + 3*3); err != nil {
					return nil, err
				}
			} else {
				// three table selects, region0 and region1 counts
				if err := br.Skip(3*5 + 4 + 3); err != nil {
					return nil, err
				}
			}
			tail := 2 // scalefac_scale, count1table_select
			if mpeg1 {
				tail = 3 // preflag
			}
			if err := br.Skip(tail); err != nil {
				return nil, err
			}
		}
	}
	return info, nil
}
