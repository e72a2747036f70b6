package audio

import (
	"fmt"

	"github.com/tosone/minimp3"
)

const (
	bytesPerSample = 2

	// DefaultDecoderWindow is the number of prior valid frames kept as decoder
	// context. Layer III main data may start up to 511 bytes back, which spans
	// at most a few frames.
	DefaultDecoderWindow = 3
)

// MiniMP3Decoder classifies MP3 frames with minimp3.
//
// minimp3 has no per-packet API, so each packet is decoded behind the last
// few valid packets and judged by the PCM it adds to that context.
type MiniMP3Decoder struct {
	window   [][]byte
	depth    int
	channels int
}

// NewMiniMP3Decoder returns a decoder for track that keeps depth prior valid
// frames as context.
func NewMiniMP3Decoder(track Track, depth int) (*MiniMP3Decoder, error) {
	if track.Codec == CodecUnknown {
		return nil, fmt.Errorf("no decoder for codec %q", track.Codec)
	}
	if depth < 0 {
		depth = DefaultDecoderWindow
	}
	return &MiniMP3Decoder{depth: depth, channels: track.Channels}, nil
}

// Decode decodes one frame packet.
func (d *MiniMP3Decoder) Decode(p Packet) (Buffer, error) {
	if len(p.Data) == 0 {
		return Buffer{}, &DecodeError{Size: 0, Reason: ErrNoSamples}
	}

	var context []byte
	for _, w := range d.window {
		context = append(context, w...)
	}
	base := 0
	if len(context) > 0 {
		_, pcm, _, err := decodeFull(context)
		if err == nil {
			base = len(pcm)
		}
	}

	joined := make([]byte, 0, len(context)+len(p.Data))
	joined = append(joined, context...)
	joined = append(joined, p.Data...)
	channels, pcm, _, err := decodeFull(joined)
	if err != nil {
		return Buffer{}, &DecodeError{Size: len(p.Data), Reason: err}
	}
	if len(pcm) <= base {
		return Buffer{}, &DecodeError{Size: len(p.Data), Reason: ErrNoSamples}
	}
	if channels <= 0 {
		channels = d.channels
	}
	if channels <= 0 {
		channels = 2
	}

	d.remember(p.Data)
	added := pcm[base:]
	return Buffer{
		Frames:   len(added) / bytesPerSample / channels,
		Channels: channels,
		PCM:      added,
	}, nil
}

func (d *MiniMP3Decoder) remember(frame []byte) {
	if d.depth == 0 {
		return
	}
	if len(d.window) == d.depth {
		d.window = d.window[1:]
	}
	d.window = append(d.window, frame)
}

func decodeFull(data []byte) (channels int, pcm []byte, sampleRate int, err error) {
	decoder, pcm, err := minimp3.DecodeFull(data)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("minimp3: %w", err)
	}
	if decoder == nil {
		return 0, pcm, 0, nil
	}
	defer decoder.Close()
	return decoder.Channels, pcm, decoder.SampleRate, nil
}
