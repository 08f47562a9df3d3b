// Package capture reads local image and audio files into the encodings the
// provider clients expect.
package capture

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxFileSize bounds captured input so request bodies stay manageable.
const maxFileSize = 5 * 1024 * 1024

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var audioEncodings = map[string]string{
	".webm": "WEBM_OPUS",
	".ogg":  "OGG_OPUS",
	".wav":  "LINEAR16",
	".mp3":  "MP3",
}

// Image is a captured picture ready for a vision request.
type Image struct {
	Base64   string
	MIMEType string
}

// DataURL renders the image the way a browser capture would.
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIMEType, i.Base64)
}

// Audio is a captured clip ready for a transcription request.
type Audio struct {
	Data     []byte
	Encoding string
}

// ReadImage loads an image file, enforcing the size ceiling and an
// image-only allow-list. The MIME type comes from sniffing the content, not
// from the file extension.
func ReadImage(path string) (Image, error) {
	data, err := readBounded(path)
	if err != nil {
		return Image{}, err
	}

	mimeType := http.DetectContentType(data)
	if !allowedImageMIMEs[mimeType] {
		return Image{}, fmt.Errorf("unsupported image type %q (want jpeg, png, gif or webp)", mimeType)
	}
	return Image{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
	}, nil
}

// ReadAudio loads an audio file and maps its extension to the transcription
// encoding name.
func ReadAudio(path string) (Audio, error) {
	encoding, ok := audioEncodings[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Audio{}, fmt.Errorf("unsupported audio type %q (want webm, ogg, wav or mp3)", filepath.Ext(path))
	}

	data, err := readBounded(path)
	if err != nil {
		return Audio{}, err
	}
	return Audio{Data: data, Encoding: encoding}, nil
}

func readBounded(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d", path, info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
