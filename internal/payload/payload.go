// Package payload converts raster images to and from the transportable
// string form stored in record fields: a base64 PNG body without its
// data-URI prefix.
package payload

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
)

// Prefix is the data-URI header stripped before storage and re-attached
// before decoding.
const Prefix = "data:image/png;base64,"

var ErrDecode = errors.New("failed to load signature image")

var encoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// DataURL renders img as a full PNG data URI.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding png: %w", err)
	}
	return Prefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Encode renders img and returns the part of its data URI after the comma.
func Encode(img image.Image) (string, error) {
	dataURL, err := DataURL(img)
	if err != nil {
		return "", err
	}
	_, body, ok := strings.Cut(dataURL, ",")
	if !ok || body == "" {
		return "", fmt.Errorf("malformed data url")
	}
	return body, nil
}

// PNG returns the raw PNG bytes held by a stored payload.
func PNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return raw, nil
}

// Decode turns a stored payload back into an image.
func Decode(payload string) (image.Image, error) {
	raw, err := PNG(payload)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Fit shrinks the payload's image to fit inside maxWidth x maxHeight,
// keeping its aspect ratio. Payloads that already fit are returned as is.
func Fit(payload string, maxWidth, maxHeight uint) (string, error) {
	img, err := Decode(payload)
	if err != nil {
		return "", err
	}
	b := img.Bounds()
	if uint(b.Dx()) <= maxWidth && uint(b.Dy()) <= maxHeight {
		return payload, nil
	}
	return Encode(resize.Thumbnail(maxWidth, maxHeight, img, resize.Bilinear))
}
