// Package stt transcribes short spoken commands with a local whisper.cpp
// model.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// CommandPrompt nudges the decoder towards the assistant's vocabulary.
const CommandPrompt = "Open notepad. Close the browser. Remind me to call mom in 5 minutes. " +
	"What's the weather in Paris? Set language to fr. Save as notes."

type Options struct {
	// Language is a BCP-47 tag or "auto"; only the primary subtag reaches
	// whisper.
	Language      string
	TranslateToEn bool
	// Threads <= 0 uses every CPU.
	Threads       int
	InitialPrompt string
}

type Result struct {
	Text     string
	Language string
}

type Transcriber struct {
	mu    sync.Mutex
	model whisper.Model
}

func NewTranscriber(modelPath string) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Transcriber{model: m}, nil
}

func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// WhisperLanguage reduces "en-US" to "en".
func WhisperLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "auto"
	}
	primary, _, _ := strings.Cut(tag, "-")
	primary, _, _ = strings.Cut(primary, "_")
	return strings.ToLower(primary)
}

// TranscribePCM decodes pcm16k (mono, 16 kHz, [-1, 1]). Calls are
// serialized; a whisper context is not safe for concurrent use.
func (t *Transcriber) TranscribePCM(ctx context.Context, pcm16k []float32, opt Options) (Result, error) {
	if t.model == nil {
		return Result{}, errors.New("nil model")
	}
	if len(pcm16k) == 0 {
		return Result{}, errors.New("no audio samples provided")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	wctx, err := t.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("new context: %w", err)
	}

	if err := wctx.SetLanguage(WhisperLanguage(opt.Language)); err != nil {
		return Result{}, fmt.Errorf("set language: %w", err)
	}
	wctx.SetTranslate(opt.TranslateToEn)

	threads := opt.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))

	prompt := opt.InitialPrompt
	if prompt == "" {
		prompt = CommandPrompt
	}
	wctx.SetInitialPrompt(prompt)

	if err := wctx.Process(pcm16k, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("next segment: %w", err)
		}
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}

	lang := wctx.DetectedLanguage()
	if lang == "" {
		lang = wctx.Language()
	}
	return Result{Text: strings.Join(parts, " "), Language: lang}, nil
}
