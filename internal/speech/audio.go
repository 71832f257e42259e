package speech

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"nova/pkg/audioconv"
)

var ErrNotAudio = errors.New("provided file is not a supported audio file")

// DataURL embeds MP3 bytes for an HTML audio element.
func DataURL(mp3 []byte) string {
	return "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(mp3)
}

// NormalizeUpload decodes whatever the client recorded and re-encodes it
// as 16 kHz mono 16-bit WAV. Scratch files go to tmpDir, or the system
// temp directory when it is empty.
func NormalizeUpload(r io.ReadSeeker, name, tmpDir string) ([]byte, error) {
	pcm, err := audioconv.Decode(r, name, audioconv.Options{})
	if err != nil {
		if errors.Is(err, audioconv.ErrUnsupported) {
			return nil, ErrNotAudio
		}
		return nil, fmt.Errorf("decode upload: %w", err)
	}
	if len(pcm) == 0 {
		return nil, ErrNotAudio
	}

	// The wav encoder needs to seek back and patch the header.
	tmp, err := os.CreateTemp(tmpDir, "nova-upload-*.wav")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := audioconv.EncodeWAV(tmp, pcm); err != nil {
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if _, err := io.Copy(&out, tmp); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
