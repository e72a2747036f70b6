package analysis

import (
	"bytes"

	"mp3repair-backend/audio"
)

type fakeStep struct {
	pkt audio.Packet
	err error
}

type fakeDemuxer struct {
	tracks []audio.Track
	steps  []fakeStep
	pos    int
}

func (d *fakeDemuxer) Tracks() []audio.Track { return d.tracks }

func (d *fakeDemuxer) NextPacket() (audio.Packet, error) {
	if d.pos >= len(d.steps) {
		return audio.Packet{}, audio.ErrResetRequired
	}
	s := d.steps[d.pos]
	d.pos++
	return s.pkt, s.err
}

// fakeDecoder rejects packets whose first byte is 'X'.
type fakeDecoder struct{}

func (fakeDecoder) Decode(p audio.Packet) (audio.Buffer, error) {
	if len(p.Data) == 0 || p.Data[0] == 'X' {
		return audio.Buffer{}, &audio.DecodeError{Size: len(p.Data), Reason: audio.ErrNoSamples}
	}
	return audio.Buffer{Frames: 1152, Channels: 2, PCM: p.Data[:4]}, nil
}

func fakeFactory(audio.Track) (audio.FrameDecoder, error) { return fakeDecoder{}, nil }

var mp3Track = audio.Track{ID: 1, Codec: audio.CodecMP3, SampleRate: 44100, Channels: 2}

func goodPacket(size int) audio.Packet {
	return audio.Packet{TrackID: 1, Data: bytes.Repeat([]byte{'G'}, size)}
}

func badPacket(size int) audio.Packet {
	return audio.Packet{TrackID: 1, Data: bytes.Repeat([]byte{'X'}, size)}
}

func demuxOf(pkts ...audio.Packet) *fakeDemuxer {
	d := &fakeDemuxer{tracks: []audio.Track{mp3Track}}
	for _, p := range pkts {
		d.steps = append(d.steps, fakeStep{pkt: p})
	}
	return d
}

func frame(valid bool, offset int64, size int, entropy float64) FrameInfo {
	f := FrameInfo{ByteOffset: offset, Size: size, Entropy: entropy, Outcome: DecodedOutcome(1)}
	if !valid {
		f.Outcome = RejectedOutcome(audio.ErrNoSamples)
	}
	return f
}
