package report

import (
	"encoding/hex"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Fingerprint identifies a repaired file by digest and length.
type Fingerprint struct {
	SHA256 string
	Size   int64
}

// Payload is the text stored in the QR code, "sha256:<hex> size:<bytes>".
// The digest must be 64 hex digits; case is folded to lower.
func (f Fingerprint) Payload() (string, error) {
	sum := strings.ToLower(strings.TrimSpace(f.SHA256))
	if len(sum) != 64 {
		return "", fmt.Errorf("sha256 digest has %d hex digits, want 64", len(sum))
	}
	if _, err := hex.DecodeString(sum); err != nil {
		return "", fmt.Errorf("sha256 digest: %w", err)
	}
	if f.Size < 0 {
		return "", fmt.Errorf("negative file size %d", f.Size)
	}
	return fmt.Sprintf("sha256:%s size:%d", sum, f.Size), nil
}

// QR renders the payload as a px by px PNG at high error correction.
func (f Fingerprint) QR(px int) ([]byte, error) {
	payload, err := f.Payload()
	if err != nil {
		return nil, err
	}
	if px <= 0 {
		px = 256
	}
	return qrcode.Encode(payload, qrcode.High, px)
}
