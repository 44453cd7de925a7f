package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 200, A: 255})
		}
	}
	return img
}

func TestNormaliseImageShrinksLargePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(1024, 512)))

	out, err := NormaliseImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, "png", out.Ext)

	decoded, err := png.Decode(bytes.NewReader(out.Bytes))
	require.NoError(t, err)
	assert.Equal(t, 512, decoded.Bounds().Dx())
	assert.Equal(t, 256, decoded.Bounds().Dy())
}

func TestNormaliseImageKeepsSmallJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(100, 80), nil))

	out, err := NormaliseImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.Equal(t, "jpg", out.Ext)

	decoded, err := jpeg.Decode(bytes.NewReader(out.Bytes))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 80, decoded.Bounds().Dy())
}

func TestNormaliseImageRejectsOtherTypes(t *testing.T) {
	_, err := NormaliseImage([]byte("GIF89a......"))
	assert.Equal(t, ErrUnsupportedType, errors.Cause(err))

	_, err = NormaliseImage([]byte("%PDF-1.4 not an image"))
	assert.Equal(t, ErrUnsupportedType, errors.Cause(err))
}

func TestDocumentContentType(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		ext     string
		want    string
		wantErr bool
	}{
		{"pdf", []byte("%PDF-1.7\n..."), "pdf", "application/pdf", false},
		{"upper case extension", []byte("%PDF-1.7\n..."), ".PDF", "application/pdf", false},
		{"doc", append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, 0, 0), "doc", "application/msword", false},
		{"docx", []byte("PK\x03\x04rest"), "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
		{"renamed text file", []byte("hello"), "pdf", "", true},
		{"image", []byte("\x89PNG\r\n\x1a\n"), "png", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DocumentContentType(tt.content, tt.ext)
			if tt.wantErr {
				assert.Equal(t, ErrUnsupportedType, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
