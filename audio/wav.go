package audio

import (
	"encoding/binary"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitDepth = 16

// WriteWAV stores interleaved 16-bit little-endian PCM as a WAV file at path.
func WriteWAV(path string, pcm []byte, sampleRate, channels int) error {
	if len(pcm)%bytesPerSample != 0 {
		return fmt.Errorf("PCM data length must be even for 16-bit samples")
	}
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid PCM format: %d Hz, %d channels", sampleRate, channels)
	}

	samples := make([]int, len(pcm)/bytesPerSample)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*bytesPerSample:])))
	}
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create WAV file: %w", err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close WAV encoder: %w", err)
	}
	return f.Close()
}
