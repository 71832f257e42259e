package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova/internal/nlu"
)

type execCall struct {
	intent   nlu.Intent
	entities map[string]string
}

type fakeExec struct {
	calls []execCall
	reply string
	err   error
}

func (f *fakeExec) Execute(_ context.Context, intent nlu.Intent, entities map[string]string) (string, error) {
	f.calls = append(f.calls, execCall{intent, entities})
	return f.reply, f.err
}

type fakeTTS struct {
	langs []string
	err   error
}

func (f *fakeTTS) Synthesize(_ context.Context, text, lang string) ([]byte, error) {
	f.langs = append(f.langs, lang)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(text), nil
}

func TestHandle(t *testing.T) {
	exec := &fakeExec{reply: "Opening notepad."}
	tts := &fakeTTS{}
	a := New(exec, tts)

	r, err := a.Handle(context.Background(), "  open note pad ", "en")
	require.NoError(t, err)

	assert.Equal(t, "open note pad", r.Transcription)
	assert.Equal(t, nlu.OpenApp, r.Intent)
	assert.Equal(t, map[string]string{"app": "notepad"}, r.Entities)
	assert.Equal(t, "Opening notepad.", r.ResponseText)
	assert.Equal(t, "data:audio/mp3;base64,T3BlbmluZyBub3RlcGFkLg==", r.AudioDataURL)
	assert.Equal(t, []string{"en"}, tts.langs)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, nlu.OpenApp, exec.calls[0].intent)
}

func TestHandleSetLanguageSpeaksNewLanguage(t *testing.T) {
	tts := &fakeTTS{}
	a := New(&fakeExec{reply: "Language set to fr."}, tts)

	r, err := a.Handle(context.Background(), "set language to fr", "en")
	require.NoError(t, err)

	lang, ok := r.Language()
	assert.True(t, ok)
	assert.Equal(t, "fr", lang)
	assert.Equal(t, []string{"fr"}, tts.langs)
}

func TestHandleWithoutTTS(t *testing.T) {
	a := New(&fakeExec{reply: "I didn't understand that. Please try again."}, nil)

	r, err := a.Handle(context.Background(), "blah", "en")
	require.NoError(t, err)
	assert.Equal(t, nlu.None, r.Intent)
	assert.NotNil(t, r.Entities)
	assert.Empty(t, r.AudioDataURL)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"audio_data_url":""`)

	_, ok := r.Language()
	assert.False(t, ok)
}

func TestHandleErrors(t *testing.T) {
	boom := errors.New("db locked")
	_, err := New(&fakeExec{err: boom}, &fakeTTS{}).Handle(context.Background(), "remind me to stretch in 5 minutes", "en")
	assert.ErrorIs(t, err, boom)

	r, err := New(&fakeExec{reply: "Goodbye!"}, &fakeTTS{err: errors.New("quota")}).Handle(context.Background(), "bye", "en")
	require.NoError(t, err)
	assert.Equal(t, "Goodbye!", r.ResponseText)
	assert.Empty(t, r.AudioDataURL)
}
