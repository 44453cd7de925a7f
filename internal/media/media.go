package media

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// MaxUploadBytes caps every multipart upload.
const MaxUploadBytes = 5 * 1024 * 1024

const (
	MaxImageWidth  = 512
	MaxImageHeight = 512
)

var ErrUnsupportedType = errors.New("unsupported file type")

var allowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
}

var allowedDocumentTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Image is an upload ready to be stored.
type Image struct {
	Bytes       []byte
	ContentType string
	Ext         string
}

// NormaliseImage accepts png and jpeg uploads and shrinks them to fit
// inside MaxImageWidth x MaxImageHeight, keeping the aspect ratio. Images
// that already fit are re-encoded at their original size.
func NormaliseImage(fileBytes []byte) (Image, error) {
	contentType := http.DetectContentType(fileBytes)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return Image{}, errors.Wrapf(ErrUnsupportedType, "image %s", contentType)
	}
	decImage, _, err := image.Decode(bytes.NewReader(fileBytes))
	if err != nil {
		return Image{}, errors.Wrap(err, "unable to decode image from bytes")
	}
	m := resize.Thumbnail(MaxImageWidth, MaxImageHeight, decImage, resize.Lanczos3)
	buf := new(bytes.Buffer)
	switch contentType {
	case "image/jpeg":
		if err := jpeg.Encode(buf, m, &jpeg.Options{Quality: 90}); err != nil {
			return Image{}, errors.Wrap(err, "unable to encode image into jpeg")
		}
	case "image/png":
		if err := png.Encode(buf, m); err != nil {
			return Image{}, errors.Wrap(err, "unable to encode image into png")
		}
	}
	return Image{Bytes: buf.Bytes(), ContentType: contentType, Ext: ext}, nil
}

var (
	pdfMagic = []byte("%PDF-")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic = []byte("PK\x03\x04")
)

// DocumentContentType checks a resume upload against its extension and
// returns the content type to store it with. Word files sniff as generic
// octet-stream or zip so their magic numbers are checked directly.
func DocumentContentType(fileBytes []byte, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	contentType, ok := allowedDocumentTypes[ext]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedType, "extension %q", ext)
	}
	var magic []byte
	switch ext {
	case "pdf":
		magic = pdfMagic
	case "doc":
		magic = oleMagic
	case "docx":
		magic = zipMagic
	}
	if !bytes.HasPrefix(fileBytes, magic) {
		return "", errors.Wrapf(ErrUnsupportedType, "content does not look like %s", ext)
	}
	return contentType, nil
}
