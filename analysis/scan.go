package analysis

import (
	"errors"
	"fmt"
	"io"
	"log"

	"mp3repair-backend/audio"
	"mp3repair-backend/mp3parser"
)

// ErrNoAudioTrack is returned when a stream exposes no decodable track.
var ErrNoAudioTrack = errors.New("no audio track found")

// DecoderFactory builds the decoder for the selected track.
type DecoderFactory func(track audio.Track) (audio.FrameDecoder, error)

// ScanOptions tunes what Scan retains besides the frame sequence.
type ScanOptions struct {
	// KeepPayloads retains the raw bytes of every valid frame, in order.
	KeepPayloads bool
	// CollectPCM retains the decoded PCM of every valid frame.
	CollectPCM bool
	// OnRejected is called with the sequence index and raw bytes of each
	// rejected frame. An error aborts the scan.
	OnRejected func(index int, payload []byte) error
	Logger     *log.Logger
}

// ScanResult is the outcome of one pass over a stream.
type ScanResult struct {
	Track           audio.Track
	Frames          []FrameInfo
	Payloads        [][]byte
	PCM             []byte
	ValidFrames     int
	CorruptedFrames int
	SkippedPackets  int
	DecodedSamples  uint64
	PayloadBytes    int64 // total size of valid frames
	// ReservoirBreaks counts valid frames that borrow bit reservoir bytes
	// while directly following a rejected frame. Their main data no longer
	// lines up once the rejected frame is dropped.
	ReservoirBreaks int
	// TagBytes and JunkBytes are the ID3v2 tag and the non-frame bytes the
	// demuxer stepped over, when it reports them.
	TagBytes  int
	JunkBytes int
}

// ByteCounter is implemented by demuxers that report what they skipped.
type ByteCounter interface {
	TagSize() int
	SkippedBytes() int
}

// TotalFrames returns the number of classified frames.
func (r *ScanResult) TotalFrames() int {
	return len(r.Frames)
}

// DecodedDuration converts the decoded sample total to seconds. Channel count
// falls back to stereo when the track does not declare it.
func (r *ScanResult) DecodedDuration() float64 {
	if r.Track.SampleRate <= 0 {
		return 0
	}
	channels := r.Track.Channels
	if channels <= 0 {
		channels = 2
	}
	return float64(r.DecodedSamples) / (float64(r.Track.SampleRate) * float64(channels))
}

// SelectTrack returns the first track with a known codec.
func SelectTrack(tracks []audio.Track) (audio.Track, error) {
	for _, t := range tracks {
		if t.Codec != audio.CodecUnknown {
			return t, nil
		}
	}
	return audio.Track{}, ErrNoAudioTrack
}

// Scan reads every packet of the primary track from demux, asks the decoder
// whether it decodes, and records one FrameInfo per packet.
//
// A reset or I/O error from the demuxer ends the stream normally. Other
// demux errors skip the packet. Decode failures are recorded as corrupted
// frames, never returned.
func Scan(demux audio.Demuxer, newDecoder DecoderFactory, opts ScanOptions) (*ScanResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	track, err := SelectTrack(demux.Tracks())
	if err != nil {
		return nil, err
	}
	decoder, err := newDecoder(track)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	res := &ScanResult{Track: track}
	var offset int64
	for {
		pkt, err := demux.NextPacket()
		if err != nil {
			if audio.IsEndOfStream(err) {
				logger.Printf("end of stream after %d frames: %v", len(res.Frames), err)
				break
			}
			logger.Printf("error reading packet: %v", err)
			res.SkippedPackets++
			continue
		}
		if pkt.TrackID != track.ID {
			continue
		}

		index := len(res.Frames)
		info := FrameInfo{
			Entropy:       Entropy(pkt.Data),
			Size:          len(pkt.Data),
			ByteOffset:    offset,
			MainDataBegin: -1,
		}
		if si, err := mp3parser.ParseSideInfo(pkt.Data); err == nil {
			info.MainDataBegin = si.MainDataBegin
		}

		buf, err := decoder.Decode(pkt)
		if err != nil {
			logger.Printf("failed to decode frame %d: %v", index, err)
			info.Outcome = RejectedOutcome(err)
			res.CorruptedFrames++
			if opts.OnRejected != nil {
				if err := opts.OnRejected(index, pkt.Data); err != nil {
					return nil, fmt.Errorf("frame %d: %w", index, err)
				}
			}
		} else {
			info.Outcome = DecodedOutcome(buf.Samples())
			res.ValidFrames++
			if info.MainDataBegin > 0 && index > 0 && !res.Frames[index-1].IsValid() {
				res.ReservoirBreaks++
			}
			res.PayloadBytes += int64(len(pkt.Data))
			res.DecodedSamples += uint64(buf.Samples())
			if opts.KeepPayloads {
				res.Payloads = append(res.Payloads, pkt.Data)
			}
			if opts.CollectPCM {
				res.PCM = append(res.PCM, buf.PCM...)
			}
		}
		res.Frames = append(res.Frames, info)
		offset += int64(len(pkt.Data))
	}
	if bc, ok := demux.(ByteCounter); ok {
		res.TagBytes = bc.TagSize()
		res.JunkBytes = bc.SkippedBytes()
	}
	return res, nil
}
