package audio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/tcolgate/mp3"

	"mp3repair-backend/mp3parser"
)

// MP3Demuxer splits an MPEG audio elementary stream into frame packets.
//
// A leading ID3v2 tag is skipped and a leading Xing/Info frame is dropped, so
// the packets are exactly the audio frames of the stream.
type MP3Demuxer struct {
	dec     *mp3.Decoder
	track   Track
	info    *mp3parser.InfoHeader
	pending [][]byte
	skipped int
	tagSize int
}

// NewMP3Demuxer seeks r to its first audio frame. An input without any frame
// still yields a demuxer, one that produces no packets.
func NewMP3Demuxer(r io.Reader) (*MP3Demuxer, error) {
	br := bufio.NewReader(r)
	tagSize, err := mp3parser.SkipID3v2(br)
	if err != nil {
		return nil, err
	}
	d := &MP3Demuxer{
		dec:     mp3.NewDecoder(br),
		track:   Track{ID: 0, Codec: CodecMP3},
		tagSize: tagSize,
	}

	// read failures here surface again from NextPacket as end of stream
	first, err := d.readFrame()
	if err != nil {
		return d, nil
	}
	if info, err := mp3parser.ParseInfoHeader(first); err == nil {
		d.info = info
		first, err = d.readFrame()
		if err != nil {
			return d, nil
		}
	}
	d.pending = append(d.pending, first)
	if h, err := mp3parser.ParseFrameHeader(first); err == nil {
		d.track.Codec = codecForLayer(h.Layer)
		d.track.SampleRate = h.SampleRate
		d.track.Channels = h.Channels()
	}
	return d, nil
}

func codecForLayer(layer int) Codec {
	switch layer {
	case mp3parser.LayerI:
		return CodecMP1
	case mp3parser.LayerII:
		return CodecMP2
	case mp3parser.LayerIII:
		return CodecMP3
	}
	return CodecUnknown
}

func (d *MP3Demuxer) readFrame() ([]byte, error) {
	var (
		frame   mp3.Frame
		skipped int
	)
	if err := d.dec.Decode(&frame, &skipped); err != nil {
		return nil, &IOError{Err: err}
	}
	d.skipped += skipped
	data, err := io.ReadAll(frame.Reader())
	if err != nil {
		return nil, &IOError{Err: err}
	}
	return data, nil
}

// Tracks returns the single audio track of the stream.
func (d *MP3Demuxer) Tracks() []Track {
	return []Track{d.track}
}

// NextPacket returns the next frame of the stream.
func (d *MP3Demuxer) NextPacket() (Packet, error) {
	var data []byte
	if len(d.pending) > 0 {
		data = d.pending[0]
		d.pending = d.pending[1:]
	} else {
		var err error
		data, err = d.readFrame()
		if err != nil {
			return Packet{}, err
		}
	}
	pkt := Packet{TrackID: d.track.ID, Data: data}
	if _, err := mp3parser.ParseFrameHeader(data); err != nil {
		return pkt, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return pkt, nil
}

// InfoHeader returns the Xing/Info frame dropped from the head of the stream,
// or nil.
func (d *MP3Demuxer) InfoHeader() *mp3parser.InfoHeader {
	return d.info
}

// SkippedBytes returns the count of non-frame bytes stepped over so far, not
// including the ID3v2 tag.
func (d *MP3Demuxer) SkippedBytes() int {
	return d.skipped
}

// TagSize returns the size of the skipped ID3v2 tag.
func (d *MP3Demuxer) TagSize() int {
	return d.tagSize
}

// IsEOF reports whether err is a clean end of input.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
