// Package speech wraps the hosted speech-to-text and text-to-speech
// services.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultVoice    = "alloy"
	DefaultTTSModel = "tts-1"

	emptyReply = "I'm here."
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, lang string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

type OpenAI struct {
	client openai.Client
	Voice  string
	Model  string
}

func NewOpenAI(apiKey string, httpClient *http.Client, extra ...option.RequestOption) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)
	return &OpenAI{
		client: openai.NewClient(opts...),
		Voice:  DefaultVoice,
		Model:  DefaultTTSModel,
	}
}

// Transcribe sends a WAV upload to whisper-1. lang is a BCP-47 tag;
// whisper only wants the primary subtag.
func (o *OpenAI) Transcribe(ctx context.Context, audio io.Reader, filename, lang string) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(audio, filename, "audio/wav"),
		Model: openai.AudioModelWhisper1,
	}
	if l := primaryTag(lang); l != "" {
		params.Language = openai.String(l)
	}

	res, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(res.Text), nil
}

// Synthesize returns MP3 bytes. The speech model picks the language from
// the text itself, lang is only logged.
func (o *OpenAI) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		text = emptyReply
	}
	log.Debug("Synthesizing", "chars", len(text), "lang", lang, "voice", o.Voice)

	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(o.Model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(o.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech: %w", err)
	}
	if resp == nil {
		return nil, errors.New("speech: empty response")
	}
	defer resp.Body.Close()

	mp3, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech: %w", err)
	}
	return mp3, nil
}

func primaryTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.EqualFold(tag, "auto") {
		return ""
	}
	primary, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(primary)
}
