package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova/pkg/audioconv"
)

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:audio/mp3;base64,AQID", DataURL([]byte{1, 2, 3}))
}

func TestPrimaryTag(t *testing.T) {
	assert.Equal(t, "en", primaryTag("en-US"))
	assert.Equal(t, "fr", primaryTag("FR"))
	assert.Equal(t, "", primaryTag("auto"))
	assert.Equal(t, "", primaryTag(" "))
}

func newFake(t *testing.T, h http.HandlerFunc) *OpenAI {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewOpenAI("sk-test", srv.Client(), option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
}

type speechBody struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

func TestSynthesize(t *testing.T) {
	var got speechBody
	o := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3fake"))
	})

	mp3, err := o.Synthesize(context.Background(), "", "en")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3fake"), mp3)
	assert.Equal(t, speechBody{Model: DefaultTTSModel, Input: "I'm here.", Voice: DefaultVoice, ResponseFormat: "mp3"}, got)
}

func TestTranscribe(t *testing.T) {
	o := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"  open notepad  "}`))
	})

	text, err := o.Transcribe(context.Background(), strings.NewReader("RIFF"), "clip.wav", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "open notepad", text)
}

func TestNormalizeUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, audioconv.EncodeWAV(f, make([]float32, 1600)))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := NormalizeUpload(bytes.NewReader(raw), "in.wav", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(out[:4]))

	_, err = NormalizeUpload(bytes.NewReader([]byte("plain text")), "x.txt", "")
	assert.ErrorIs(t, err, ErrNotAudio)
}
