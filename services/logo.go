package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// Logo bounds in pixels; larger images are scaled down to fit.
const (
	logoMaxWidth  = 600
	logoMaxHeight = 240

	// Source images above this many pixels are refused before decoding.
	logoMaxSourcePixels = 2048 * 2048
)

var (
	errLogoNotInline = errors.New("logo is not an inline data URI")
	errLogoTooLarge  = errors.New("logo image is too large")
)

// Logo is a cover logo re-encoded as PNG.
type Logo struct {
	PNG    []byte
	Width  int
	Height int
}

// DataURI returns the logo as a base64 PNG data URI.
func (l *Logo) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(l.PNG)
}

// prepareLogo decodes an inline "data:image/...;base64," logo reference,
// fits it into the logo bounds and re-encodes it as PNG. Remote references
// are not fetched.
func prepareLogo(ref string) (*Logo, error) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "data:") {
		return nil, errLogoNotInline
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("logo data URI must be base64 encoded")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}

	mt := mimetype.Detect(raw)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("logo is %s, not an image", mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode logo header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > logoMaxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d", errLogoTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode logo image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > logoMaxWidth || b.Dy() > logoMaxHeight {
		img = imaging.Fit(img, logoMaxWidth, logoMaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	b = img.Bounds()
	return &Logo{PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}
