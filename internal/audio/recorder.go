// Package audio captures microphone input for the voice daemon.
package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const SampleRate = 16000

// VAD controls end-pointing of RecordAuto: capture starts with the first
// loud frame and stops after Silence of quiet frames, or at MaxLength.
type VAD struct {
	FrameSize int
	Threshold float64
	Silence   time.Duration
	MaxLength time.Duration
	// LeadIn bounds waiting for speech to start; zero waits up to MaxLength.
	LeadIn time.Duration
}

func DefaultVAD() VAD {
	return VAD{
		FrameSize: 320, // 20ms
		Threshold: 0.015,
		Silence:   600 * time.Millisecond,
		MaxLength: 10 * time.Second,
		LeadIn:    4 * time.Second,
	}
}

var ErrNoSpeech = errors.New("no speech detected")

type Recorder struct {
	VAD VAD
}

func NewRecorder() *Recorder { return &Recorder{VAD: DefaultVAD()} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordAuto captures one utterance as 16 kHz mono samples.
func (r *Recorder) RecordAuto() ([]float32, error) {
	vad := r.VAD
	if vad.FrameSize <= 0 {
		vad = DefaultVAD()
	}

	buf := make([]float32, vad.FrameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	e := newEndpointer(vad)
	for !e.done() {
		if err := stream.Read(); err != nil {
			return nil, err
		}
		if e.push(buf) {
			out = append(out, buf...)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoSpeech
	}
	return out, nil
}

// endpointer is the frame-by-frame state of RecordAuto, split out so it
// can run without a device.
type endpointer struct {
	vad      VAD
	frameDur time.Duration
	elapsed  time.Duration
	speaking bool
	silent   time.Duration
	finished bool
}

func newEndpointer(vad VAD) *endpointer {
	return &endpointer{
		vad:      vad,
		frameDur: time.Duration(vad.FrameSize) * time.Second / SampleRate,
	}
}

// push consumes one frame and reports whether it belongs to the utterance.
func (e *endpointer) push(frame []float32) bool {
	e.elapsed += e.frameDur
	if e.elapsed >= e.vad.MaxLength {
		e.finished = true
	}

	if frameRMS(frame) > e.vad.Threshold {
		e.speaking = true
		e.silent = 0
		return true
	}
	if !e.speaking {
		if e.vad.LeadIn > 0 && e.elapsed >= e.vad.LeadIn {
			e.finished = true
		}
		return false
	}
	e.silent += e.frameDur
	if e.silent >= e.vad.Silence {
		e.finished = true
	}
	return true
}

func (e *endpointer) done() bool { return e.finished }

// RecordUntil captures until stop is closed or maxDur elapses.
func (r *Recorder) RecordUntil(stop <-chan struct{}, maxDur time.Duration) ([]float32, error) {
	if maxDur <= 0 {
		maxDur = 15 * time.Second
	}

	buf := make([]float32, 1024)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(SampleRate), len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	deadline := time.Now().Add(maxDur)
	out := make([]float32, 0, int(float64(SampleRate)*maxDur.Seconds()))

	for time.Now().Before(deadline) {
		select {
		case <-stop:
			return out, nil
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}

	if len(out) == 0 {
		return nil, errors.New("no audio recorded")
	}
	return out, nil
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
