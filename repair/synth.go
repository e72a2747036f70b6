// Package repair rebuilds an MP3 from the frames that decode and keeps the
// rest for inspection.
package repair

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mp3repair-backend/mp3parser"
)

// WriteStream writes a stream-info frame announcing payloads to w, followed
// by every payload in order.
func WriteStream(w io.Writer, payloads [][]byte) error {
	total := 0
	for _, p := range payloads {
		total += len(p)
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(mp3parser.BuildInfoHeader(uint32(len(payloads)), uint32(total))); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, p := range payloads {
		if _, err := bw.Write(p); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteFile creates path, and its parent directories, holding the synthesized
// stream for payloads.
func WriteFile(path string, payloads [][]byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return WriteStream(f, payloads)
}
