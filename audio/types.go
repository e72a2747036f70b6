// Package audio adapts the demux, decode and tag libraries that serve as
// external collaborators of the analyzer.
package audio

import (
	"errors"
	"fmt"
)

// Codec identifies the coding of a track.
type Codec string

const (
	// CodecUnknown marks a track nothing can decode.
	CodecUnknown Codec = ""
	CodecMP1     Codec = "mp1"
	CodecMP2     Codec = "mp2"
	CodecMP3     Codec = "mp3"
)

// Track describes one elementary stream exposed by a Demuxer.
type Track struct {
	ID         int
	Codec      Codec
	SampleRate int
	Channels   int
}

// Packet is one encoded frame as delivered by a Demuxer.
type Packet struct {
	TrackID int
	Data    []byte
}

// Buffer describes the audio decoded from one packet.
type Buffer struct {
	Frames   int // samples per channel
	Channels int
	PCM      []byte // interleaved signed 16-bit little-endian
}

// Samples returns the interleaved sample count of the buffer.
func (b Buffer) Samples() int {
	return b.Frames * b.Channels
}

// Demuxer yields the encoded packets of a stream in order.
//
// NextPacket signals the end of the usable stream with ErrResetRequired or an
// *IOError. Any other error concerns a single packet and the caller may keep
// reading.
type Demuxer interface {
	Tracks() []Track
	NextPacket() (Packet, error)
}

// FrameDecoder decodes packets of a single track.
type FrameDecoder interface {
	Decode(p Packet) (Buffer, error)
}

var (
	// ErrResetRequired is returned by a Demuxer whose stream can no longer be followed.
	ErrResetRequired = errors.New("stream reset required")
	// ErrMalformedPacket is returned for a packet the demuxer could not describe.
	ErrMalformedPacket = errors.New("malformed packet")
	// ErrNoSamples is the rejection reason for a packet that decoded to nothing.
	ErrNoSamples = errors.New("packet decoded to no samples")
)

// IOError wraps a low-level read failure of the underlying stream.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("stream read: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DecodeError reports why a packet was rejected by the decoder.
type DecodeError struct {
	Size   int
	Reason error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %d-byte packet: %v", e.Size, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Reason
}

// IsEndOfStream reports whether err returned by a Demuxer ends the stream.
func IsEndOfStream(err error) bool {
	if errors.Is(err, ErrResetRequired) {
		return true
	}
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
