package mp3parser

import (
	"bufio"
	"bytes"
	"errors"
	"testing"
)

var (
	hdrMPEG1    = [4]byte{0xFF, 0xFB, 0x90, 0x00} // 128 kbps, 44.1 kHz, 417 bytes
	hdrMPEG1Pad = [4]byte{0xFF, 0xFB, 0x92, 0x00} // same, padded, 418 bytes
	hdrMPEG2    = [4]byte{0xFF, 0xF3, 0x80, 0x00} // 64 kbps, 22.05 kHz, 208 bytes
	hdrMPEG25   = [4]byte{0xFF, 0xE3, 0x40, 0xC0} // 32 kbps, 11.025 kHz, mono, 208 bytes
)

func makeFrame(hdr [4]byte, length int) []byte {
	frame := make([]byte, length)
	copy(frame, hdr[:])
	return frame
}

func makeStream(hdr [4]byte, length, count int) []byte {
	var buf bytes.Buffer
	for i := 0; i < count; i++ {
		buf.Write(makeFrame(hdr, length))
	}
	return buf.Bytes()
}

func id3Tag(bodySize int) []byte {
	tag := []byte{'I', 'D', '3', 4, 0, 0,
		byte(bodySize>>21) & 0x7F, byte(bodySize>>14) & 0x7F, byte(bodySize>>7) & 0x7F, byte(bodySize) & 0x7F}
	return append(tag, make([]byte, bodySize)...)
}

func TestSyncSafeToInt(t *testing.T) {
	tests := []struct {
		in   []byte
		want int
	}{
		{in: []byte{0x00, 0x00, 0x00, 0x00}, want: 0},
		{in: []byte{0x00, 0x00, 0x02, 0x01}, want: 257},
		{in: []byte{0x7F, 0x7F, 0x7F, 0x7F}, want: 1<<28 - 1},
		{in: []byte{0x80, 0x80, 0x80, 0xFF}, want: 0x7F}, // top bits ignored
	}
	for _, tc := range tests {
		if got := syncSafeToInt(tc.in); got != tc.want {
			t.Fatalf("syncSafeToInt(% X) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseFrameHeader(t *testing.T) {
	tests := []struct {
		name       string
		hdr        [4]byte
		version    int
		sampleRate int
		bitrate    int
		spf        int
		length     int
		channels   int
	}{
		{name: "mpeg1", hdr: hdrMPEG1, version: VersionMPEG1, sampleRate: 44100, bitrate: 128000, spf: 1152, length: 417, channels: 2},
		{name: "mpeg1 padded", hdr: hdrMPEG1Pad, version: VersionMPEG1, sampleRate: 44100, bitrate: 128000, spf: 1152, length: 418, channels: 2},
		{name: "mpeg2", hdr: hdrMPEG2, version: VersionMPEG2, sampleRate: 22050, bitrate: 64000, spf: 576, length: 208, channels: 2},
		{name: "mpeg2.5 mono", hdr: hdrMPEG25, version: VersionMPEG25, sampleRate: 11025, bitrate: 32000, spf: 576, length: 208, channels: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := ParseFrameHeader(tc.hdr[:])
			if err != nil {
				t.Fatalf("ParseFrameHeader: %v", err)
			}
			if h.VersionID != tc.version || h.Layer != LayerIII {
				t.Fatalf("version/layer = %d/%d", h.VersionID, h.Layer)
			}
			if h.SampleRate != tc.sampleRate || h.Bitrate != tc.bitrate {
				t.Fatalf("rate = %d Hz %d bps, want %d Hz %d bps", h.SampleRate, h.Bitrate, tc.sampleRate, tc.bitrate)
			}
			if h.SamplesPerFrame != tc.spf || h.FrameLength != tc.length {
				t.Fatalf("spf/length = %d/%d, want %d/%d", h.SamplesPerFrame, h.FrameLength, tc.spf, tc.length)
			}
			if h.Channels() != tc.channels {
				t.Fatalf("channels = %d, want %d", h.Channels(), tc.channels)
			}
		})
	}
}

func TestParseFrameHeaderRejects(t *testing.T) {
	tests := []struct {
		name string
		hdr  []byte
		want error
	}{
		{name: "no sync", hdr: []byte{0xFF, 0x1B, 0x90, 0x00}, want: ErrInvalidSync},
		{name: "reserved version", hdr: []byte{0xFF, 0xEB, 0x90, 0x00}, want: ErrReservedField},
		{name: "reserved layer", hdr: []byte{0xFF, 0xF9, 0x90, 0x00}, want: ErrReservedField},
		{name: "free bitrate", hdr: []byte{0xFF, 0xFB, 0x00, 0x00}, want: ErrReservedField},
		{name: "bad bitrate", hdr: []byte{0xFF, 0xFB, 0xF0, 0x00}, want: ErrReservedField},
		{name: "reserved sample rate", hdr: []byte{0xFF, 0xFB, 0x9C, 0x00}, want: ErrReservedField},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFrameHeader(tc.hdr); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := ParseFrameHeader([]byte{0xFF, 0xFB}); err == nil {
		t.Fatalf("expected error for short header")
	}
}

func TestID3v2TagSize(t *testing.T) {
	tag := id3Tag(300)
	if got := ID3v2TagSize(append(tag, 0xFF)); got != 310 {
		t.Fatalf("ID3v2TagSize = %d, want 310", got)
	}
	if got := ID3v2TagSize(makeFrame(hdrMPEG1, 417)); got != 0 {
		t.Fatalf("ID3v2TagSize without tag = %d, want 0", got)
	}
	// exactly ten bytes is too short to be treated as a tag
	if got := ID3v2TagSize(tag[:10]); got != 0 {
		t.Fatalf("ID3v2TagSize of bare header = %d, want 0", got)
	}
}

func TestSkipID3v2(t *testing.T) {
	frame := makeFrame(hdrMPEG1, 417)
	data := append(id3Tag(5000), frame...)
	r := bufio.NewReader(bytes.NewReader(data))
	n, err := SkipID3v2(r)
	if err != nil {
		t.Fatalf("SkipID3v2: %v", err)
	}
	if n != 5010 {
		t.Fatalf("skipped %d bytes, want 5010", n)
	}
	head, err := r.Peek(4)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if !bytes.Equal(head, hdrMPEG1[:]) {
		t.Fatalf("reader not positioned at frame: % X", head)
	}

	short := bufio.NewReader(bytes.NewReader([]byte{1, 2, 3}))
	if n, err := SkipID3v2(short); err != nil || n != 0 {
		t.Fatalf("SkipID3v2 on short input = %d, %v", n, err)
	}
}
