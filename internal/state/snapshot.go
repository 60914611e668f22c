package state

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "golang.org/x/image/webp" // peers may send WebP snapshots
)

// ErrBadSnapshot is returned when a snapshot cannot be decoded.
var ErrBadSnapshot = errors.New("bad snapshot")

const pngDataURLPrefix = "data:image/png;base64,"

// Snapshot is an encoded full-surface image in data URL form.
type Snapshot string

// EncodeSnapshot encodes img as a PNG data URL.
func EncodeSnapshot(img image.Image) (Snapshot, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return Snapshot(pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

// Decode returns the image held by the snapshot. Any image data URL whose
// format is registered with the image package is accepted, as is a bare
// base64 body.
func (s Snapshot) Decode() (image.Image, error) {
	body := string(s)
	if strings.HasPrefix(body, "data:") {
		i := strings.Index(body, ",")
		if i < 0 || !strings.HasSuffix(body[:i], ";base64") {
			return nil, fmt.Errorf("%w: not a base64 data url", ErrBadSnapshot)
		}
		body = body[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	return img, nil
}

// Empty reports whether the snapshot carries no data.
func (s Snapshot) Empty() bool { return s == "" }
