package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/go-audio/wav"

	"mp3repair-backend/mp3parser"
)

// 128 kbps, 44.1 kHz, stereo MPEG-1 Layer III frames of 417 bytes.
func testStream(count int) []byte {
	var buf bytes.Buffer
	for i := 0; i < count; i++ {
		frame := make([]byte, 417)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
		buf.Write(frame)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestIsEndOfStream(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "reset", err: ErrResetRequired, want: true},
		{name: "wrapped reset", err: errors.Join(errors.New("ctx"), ErrResetRequired), want: true},
		{name: "io", err: &IOError{Err: io.EOF}, want: true},
		{name: "malformed", err: ErrMalformedPacket, want: false},
		{name: "bare eof", err: io.EOF, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEndOfStream(tc.err); got != tc.want {
				t.Fatalf("IsEndOfStream(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestMP3DemuxerPackets(t *testing.T) {
	data := append(mp3parser.BuildInfoHeader(12, 12*417), testStream(12)...)
	d, err := NewMP3Demuxer(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewMP3Demuxer: %v", err)
	}
	tracks := d.Tracks()
	if len(tracks) != 1 || tracks[0].Codec != CodecMP3 {
		t.Fatalf("tracks = %+v", tracks)
	}
	if tracks[0].SampleRate != 44100 || tracks[0].Channels != 2 {
		t.Fatalf("track params = %+v", tracks[0])
	}
	if info := d.InfoHeader(); info == nil || info.FrameCount != 12 {
		t.Fatalf("info header = %+v", info)
	}

	count := 0
	for {
		pkt, err := d.NextPacket()
		if err != nil {
			if !IsEndOfStream(err) {
				t.Fatalf("NextPacket: %v", err)
			}
			break
		}
		if len(pkt.Data) != 417 {
			t.Fatalf("packet %d size = %d", count, len(pkt.Data))
		}
		count++
	}
	if count != 12 {
		t.Fatalf("packets = %d, want 12", count)
	}
}

func TestMP3DemuxerEmptyInput(t *testing.T) {
	d, err := NewMP3Demuxer(bytes.NewReader(make([]byte, 10)))
	if err != nil {
		t.Fatalf("NewMP3Demuxer: %v", err)
	}
	if _, err := d.NextPacket(); !IsEndOfStream(err) {
		t.Fatalf("expected end of stream, got %v", err)
	}
}

func TestReportedDuration(t *testing.T) {
	path := writeFile(t, "clean.mp3", testStream(200))
	got, err := ReportedDuration(path)
	if err != nil {
		t.Fatalf("ReportedDuration: %v", err)
	}
	naive := mp3parser.EstimateDuration(testStream(200))
	if math.Abs(got.Seconds()-naive) > 1.0 {
		t.Fatalf("reported %.3fs, naive %.3fs", got.Seconds(), naive)
	}
	if _, err := ReportedDuration(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReportedDurationIgnoresInfoFrame(t *testing.T) {
	plain, err := ReportedDuration(writeFile(t, "plain.mp3", testStream(50)))
	if err != nil {
		t.Fatalf("ReportedDuration plain: %v", err)
	}
	withInfo := append(mp3parser.BuildInfoHeader(50, 50*417), testStream(50)...)
	got, err := ReportedDuration(writeFile(t, "xing.mp3", withInfo))
	if err != nil {
		t.Fatalf("ReportedDuration xing: %v", err)
	}
	if got != plain {
		t.Fatalf("duration with info frame = %v, want %v", got, plain)
	}
}

func TestMiniMP3DecoderRejectsEmptyPacket(t *testing.T) {
	dec, err := NewMiniMP3Decoder(Track{Codec: CodecMP3, Channels: 2}, DefaultDecoderWindow)
	if err != nil {
		t.Fatalf("NewMiniMP3Decoder: %v", err)
	}
	_, err = dec.Decode(Packet{})
	var decErr *DecodeError
	if !errors.As(err, &decErr) || !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected DecodeError(ErrNoSamples), got %v", err)
	}
	if _, err := NewMiniMP3Decoder(Track{Codec: CodecUnknown}, 1); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}

// damagedStream returns count clean frames, except that the frames at the
// corrupt indices carry an all-ones body. Their side information declares
// big_values past the Layer III limit, so no decoder accepts them.
func damagedStream(count int, corrupt ...int) []byte {
	data := testStream(count)
	for _, i := range corrupt {
		body := data[i*417+4 : (i+1)*417]
		for j := range body {
			body[j] = 0xFF
		}
	}
	return data
}

func TestMiniMP3DecoderVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		depth   int
		corrupt []int
	}{
		{name: "clean without context", depth: 0},
		{name: "clean with context", depth: DefaultDecoderWindow},
		{name: "damaged without context", depth: 0, corrupt: []int{5, 6, 12}},
		{name: "damaged with context", depth: DefaultDecoderWindow, corrupt: []int{5, 6, 12}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			demux, err := NewMP3Demuxer(bytes.NewReader(damagedStream(20, tc.corrupt...)))
			if err != nil {
				t.Fatalf("NewMP3Demuxer: %v", err)
			}
			dec, err := NewMiniMP3Decoder(demux.Tracks()[0], tc.depth)
			if err != nil {
				t.Fatalf("NewMiniMP3Decoder: %v", err)
			}
			want := make([]bool, 20)
			for i := range want {
				want[i] = true
			}
			for _, i := range tc.corrupt {
				want[i] = false
			}

			var got []bool
			for {
				pkt, err := demux.NextPacket()
				if IsEndOfStream(err) {
					break
				}
				if err != nil {
					t.Fatalf("NextPacket: %v", err)
				}
				buf, err := dec.Decode(pkt)
				if err == nil && buf.Frames != 1152 {
					t.Fatalf("frame %d decoded %d samples per channel, want 1152", len(got), buf.Frames)
				}
				got = append(got, err == nil)
			}
			if len(got) != len(want) {
				t.Fatalf("decoded %d packets, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("verdicts = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestWriteWAV(t *testing.T) {
	pcm := make([]byte, 0, 8*2)
	for _, s := range []int16{0, 1000, -1000, 32767, -32768, 5, -5, 0} {
		pcm = binary.LittleEndian.AppendUint16(pcm, uint16(s))
	}
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := WriteWAV(path, pcm, 22050, 2); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatalf("written file is not a valid WAV")
	}
	if d.SampleRate != 22050 || d.NumChans != 2 {
		t.Fatalf("format = %d Hz, %d channels", d.SampleRate, d.NumChans)
	}

	if err := WriteWAV(path, []byte{1, 2, 3}, 22050, 2); err == nil {
		t.Fatalf("expected error for odd PCM length")
	}
}

func TestReadTags(t *testing.T) {
	path := writeFile(t, "tagged.mp3", testStream(4))
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag: %v", err)
	}
	tag.SetTitle("Broken Song")
	tag.SetArtist("Nobody")
	if err := tag.Save(); err != nil {
		t.Fatalf("save tag: %v", err)
	}
	tag.Close()

	info, err := ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if info == nil || info.Title != "Broken Song" || info.Artist != "Nobody" {
		t.Fatalf("tags = %+v", info)
	}

	untagged := writeFile(t, "plain.mp3", testStream(4))
	info, err = ReadTags(untagged)
	if err != nil {
		t.Fatalf("ReadTags untagged: %v", err)
	}
	if info != nil {
		t.Fatalf("expected no tag, got %+v", info)
	}
}
