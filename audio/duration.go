package audio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tcolgate/mp3"

	"mp3repair-backend/mp3parser"
)

// ReportedDuration returns the duration of the file at path as the MP3
// container reports it, by summing the durations of the frames the mp3
// decoder walks. A leading Xing/Info frame carries no audio and is not
// counted.
func ReportedDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if _, err := mp3parser.SkipID3v2(br); err != nil {
		return 0, err
	}
	d := mp3.NewDecoder(br)
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
	)
	for first := true; ; first = false {
		if err := d.Decode(&frame, &skipped); err != nil {
			if IsEOF(err) {
				break
			}
			return 0, fmt.Errorf("walk frames: %w", err)
		}
		if first {
			data, err := io.ReadAll(frame.Reader())
			if err == nil {
				if _, err := mp3parser.ParseInfoHeader(data); err == nil {
					continue
				}
			}
		}
		total += frame.Duration()
	}
	return total, nil
}
