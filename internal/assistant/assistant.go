// Package assistant runs one utterance through interpretation, execution
// and optional speech synthesis.
package assistant

import (
	"context"
	log "log/slog"
	"strings"

	"nova/internal/nlu"
	"nova/internal/speech"
)

type Executor interface {
	Execute(ctx context.Context, intent nlu.Intent, entities map[string]string) (string, error)
}

type Reply struct {
	Transcription string            `json:"transcription"`
	Intent        nlu.Intent        `json:"intent"`
	Entities      map[string]string `json:"entities"`
	ResponseText  string            `json:"response_text"`
	AudioDataURL  string            `json:"audio_data_url"`
}

// Language returns the tag a set_language reply switched to.
func (r Reply) Language() (string, bool) {
	if r.Intent != nlu.SetLanguage {
		return "", false
	}
	lang, ok := r.Entities["lang"]
	return lang, ok && lang != ""
}

// Assistant is safe for concurrent use as long as Exec and TTS are.
// A nil TTS skips synthesis.
type Assistant struct {
	Exec Executor
	TTS  speech.Synthesizer
}

func New(exec Executor, tts speech.Synthesizer) *Assistant {
	return &Assistant{Exec: exec, TTS: tts}
}

// Handle interprets text and executes it. Only executor errors are
// returned; a synthesis failure leaves AudioDataURL empty.
func (a *Assistant) Handle(ctx context.Context, text, ttsLang string) (Reply, error) {
	text = strings.TrimSpace(text)
	res := nlu.Interpret(text)

	answer, err := a.Exec.Execute(ctx, res.Intent, res.Entities)
	if err != nil {
		return Reply{}, err
	}

	reply := Reply{
		Transcription: text,
		Intent:        res.Intent,
		Entities:      res.Entities,
		ResponseText:  answer,
	}
	log.Info("Handled", "intent", reply.Intent, "response", answer)

	if a.TTS == nil {
		return reply, nil
	}
	// A set_language reply is already spoken in the new language.
	if lang, ok := reply.Language(); ok {
		ttsLang = lang
	}
	mp3, err := a.TTS.Synthesize(ctx, answer, ttsLang)
	if err != nil {
		log.Warn("Failed to synthesize reply", "lang", ttsLang, "err", err)
		return reply, nil
	}
	reply.AudioDataURL = speech.DataURL(mp3)
	return reply, nil
}
