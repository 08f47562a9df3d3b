package capture

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// pngHeader is the PNG magic number the sniffer keys on.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestReadImage(t *testing.T) {
	data := append(append([]byte(nil), pngHeader...), []byte("payload")...)
	path := writeFile(t, "fotka.png", data)

	img, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), img.Base64)
	assert.True(t, strings.HasPrefix(img.DataURL(), "data:image/png;base64,"))
}

func TestReadImageRejectsNonImage(t *testing.T) {
	path := writeFile(t, "dokument.pdf", []byte("%PDF-1.4 obsah dokumentu"))

	_, err := ReadImage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")
}

func TestReadImageRejectsOversized(t *testing.T) {
	big := append(append([]byte(nil), pngHeader...), bytes.Repeat([]byte{0x00}, maxFileSize)...)
	path := writeFile(t, "velka.png", big)

	_, err := ReadImage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestReadAudioEncodings(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
	}{
		{"zaznam.webm", "WEBM_OPUS"},
		{"zaznam.ogg", "OGG_OPUS"},
		{"zaznam.wav", "LINEAR16"},
		{"zaznam.mp3", "MP3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.name, []byte("audio"))
			audio, err := ReadAudio(path)
			require.NoError(t, err)
			assert.Equal(t, tt.encoding, audio.Encoding)
			assert.Equal(t, []byte("audio"), audio.Data)
		})
	}
}

func TestReadAudioRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "zaznam.flac", []byte("audio"))

	_, err := ReadAudio(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported audio type")
}
