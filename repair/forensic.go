package repair

import (
	"fmt"
	"os"
	"path/filepath"
)

// CorruptedDirName is the directory, under the output directory, holding the
// raw bytes of rejected frames.
const CorruptedDirName = "corrupted_frames"

// ForensicWriter persists rejected frames, one file per frame.
type ForensicWriter struct {
	Dir     string
	Written int
}

// NewForensicWriter returns a writer storing frames under dir. The directory
// is created on the first write.
func NewForensicWriter(dir string) *ForensicWriter {
	return &ForensicWriter{Dir: dir}
}

// FramePath returns the file name used for the frame at index.
func (w *ForensicWriter) FramePath(index int) string {
	return filepath.Join(w.Dir, fmt.Sprintf("frame_%06d.bin", index))
}

// Reset removes frame files left in Dir by an earlier run so the directory
// holds only the frames of the next one.
func (w *ForensicWriter) Reset() error {
	stale, err := filepath.Glob(filepath.Join(w.Dir, "frame_*.bin"))
	if err != nil {
		return fmt.Errorf("list forensic frames: %w", err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale forensic frame: %w", err)
		}
	}
	w.Written = 0
	return nil
}

// Write stores payload as the frame at index.
func (w *ForensicWriter) Write(index int, payload []byte) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create forensic dir: %w", err)
	}
	if err := os.WriteFile(w.FramePath(index), payload, 0o644); err != nil {
		return fmt.Errorf("write forensic frame: %w", err)
	}
	w.Written++
	return nil
}
