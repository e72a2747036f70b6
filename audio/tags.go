package audio

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2"
)

// TagInfo summarizes the ID3v2 tag of a file.
type TagInfo struct {
	Version int
	Size    int
	Title   string
	Artist  string
	Album   string
	Year    string
	Genre   string
}

// ReadTags returns the ID3v2 tag of the file at path, or nil when the file
// has none.
func ReadTags(path string) (*TagInfo, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("open id3v2 tag: %w", err)
	}
	defer tag.Close()

	if !tag.HasFrames() {
		return nil, nil
	}
	return &TagInfo{
		Version: int(tag.Version()),
		Size:    tag.Size(),
		Title:   clean(tag.Title()),
		Artist:  clean(tag.Artist()),
		Album:   clean(tag.Album()),
		Year:    clean(tag.Year()),
		Genre:   clean(tag.Genre()),
	}, nil
}

func clean(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
