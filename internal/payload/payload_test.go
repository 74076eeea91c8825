package payload

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	return img
}

func TestEncode_StripsPrefix(t *testing.T) {
	body, err := Encode(testImage(4, 3))
	require.NoError(t, err)

	assert.False(t, strings.HasPrefix(body, "data:"))
	assert.NotContains(t, body, ",")

	full, err := DataURL(testImage(4, 3))
	require.NoError(t, err)
	assert.Equal(t, Prefix+body, full)

	raw, err := base64.StdEncoding.DecodeString(body)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(raw[:4]))
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := Encode(testImage(16, 8))
	require.NoError(t, err)
	b, err := Encode(testImage(16, 8))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecode_RoundTrip(t *testing.T) {
	src := testImage(5, 5)
	body, err := Encode(src)
	require.NoError(t, err)

	img, err := Decode(body)
	require.NoError(t, err)
	n, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, src.Pix, n.Pix)

	again, err := Encode(img)
	require.NoError(t, err)
	assert.Equal(t, body, again)
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not base64", "%%%"},
		{"not png", base64.StdEncoding.EncodeToString([]byte("hello world"))},
		{"full data url", Prefix + "AAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode))
		})
	}
}

func TestFit(t *testing.T) {
	small, err := Encode(testImage(20, 10))
	require.NoError(t, err)
	out, err := Fit(small, 64, 64)
	require.NoError(t, err)
	assert.Equal(t, small, out)

	large, err := Encode(testImage(200, 50))
	require.NoError(t, err)
	out, err = Fit(large, 100, 100)
	require.NoError(t, err)
	img, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())

	_, err = Fit("nope", 10, 10)
	assert.True(t, errors.Is(err, ErrDecode))
}
