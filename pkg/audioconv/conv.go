// Package audioconv decodes uploaded or recorded audio into 16 kHz mono
// float PCM and writes that back out as 16-bit WAV.
package audioconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

const SampleRate = 16000

var ErrUnsupported = errors.New("unsupported audio format")

type Format int

const (
	Unknown Format = iota
	WAV
	MP3
	Ogg
)

func (f Format) String() string {
	switch f {
	case WAV:
		return "wav"
	case MP3:
		return "mp3"
	case Ogg:
		return "ogg"
	}
	return "unknown"
}

type Options struct {
	// MaxSamples truncates the output; 0 keeps everything.
	MaxSamples int
}

// Sniff looks at the first bytes of r and falls back to the file name.
// r is rewound before returning.
func Sniff(r io.ReadSeeker, name string) Format {
	var magic [4]byte
	n, _ := io.ReadFull(r, magic[:])
	_, _ = r.Seek(0, io.SeekStart)

	switch {
	case n == 4 && string(magic[:]) == "RIFF":
		return WAV
	case n == 4 && string(magic[:]) == "OggS":
		return Ogg
	case n >= 3 && string(magic[:3]) == "ID3":
		return MP3
	case n >= 2 && magic[0] == 0xFF && magic[1]&0xE0 == 0xE0:
		return MP3
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return WAV
	case ".mp3":
		return MP3
	case ".ogg", ".oga", ".opus":
		return Ogg
	}
	return Unknown
}

func DecodeFile(path string, opt Options) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, filepath.Base(path), opt)
}

// Decode reads a whole wav, mp3, ogg-vorbis or ogg-opus stream.
func Decode(r io.ReadSeeker, name string, opt Options) ([]float32, error) {
	var (
		pcm []float32
		err error
	)
	switch format := Sniff(r, name); format {
	case WAV:
		pcm, err = decodeWAV(r)
	case MP3:
		pcm, err = decodeMP3(r)
	case Ogg:
		pcm, err = decodeOgg(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	if err != nil {
		return nil, err
	}

	if opt.MaxSamples > 0 && len(pcm) > opt.MaxSamples {
		pcm = pcm[:opt.MaxSamples]
	}
	return pcm, nil
}

func decodeWAV(r io.ReadSeeker) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav", ErrUnsupported)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	channels, rate := 1, 44100
	if buf.Format != nil {
		if buf.Format.NumChannels > 0 {
			channels = buf.Format.NumChannels
		}
		if buf.Format.SampleRate > 0 {
			rate = buf.Format.SampleRate
		}
	}

	return toMono16k(intsToFloat(buf.Data, depth), channels, rate), nil
}

func decodeMP3(r io.Reader) ([]float32, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3 decoder: %w", err)
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return nil, fmt.Errorf("read mp3: %w", err)
	}
	samples := make([]int16, raw.Len()/2)
	if err := binary.Read(&raw, binary.LittleEndian, samples); err != nil {
		return nil, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// go-mp3 always emits interleaved stereo.
	return toMono16k(int16sToFloat(samples), 2, rate), nil
}

// decodeOgg tries Vorbis first and then Opus, both of which browsers use
// inside Ogg.
func decodeOgg(r io.ReadSeeker) ([]float32, error) {
	pcm, format, verr := oggvorbis.ReadAll(r)
	if verr == nil && format != nil && format.Channels > 0 && format.SampleRate > 0 {
		return toMono16k(pcm, format.Channels, format.SampleRate), nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	pcm, oerr := decodeOpus(r)
	if oerr != nil {
		return nil, fmt.Errorf("%w: ogg is neither vorbis (%v) nor opus (%v)", ErrUnsupported, verr, oerr)
	}
	return pcm, nil
}

func decodeOpus(r io.ReadSeeker) ([]float32, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	defer dec.Destroy()

	channels := dec.ChannelCount()
	if channels <= 0 {
		channels = 1
	}

	// Opus always decodes at 48 kHz; read half a second at a time.
	var (
		pcm48 []float32
		chunk = make([]int16, 24000*channels)
	)
	for {
		n, err := dec.Read(chunk)
		if n > 0 {
			pcm48 = append(pcm48, int16sToFloat(chunk[:n*channels])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if len(pcm48) == 0 {
		return nil, errors.New("empty opus stream")
	}
	return toMono16k(pcm48, channels, 48000), nil
}

// EncodeWAV writes pcm (mono, 16 kHz, [-1, 1]) as a 16-bit PCM WAV file.
func EncodeWAV(w io.WriteSeeker, pcm []float32) error {
	enc := wav.NewEncoder(w, SampleRate, 16, 1, 1)

	data := make([]int, len(pcm))
	for i, s := range pcm {
		data[i] = int(clamp(float64(s), -1, 1) * 32767)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return enc.Close()
}

func toMono16k(x []float32, channels, rate int) []float32 {
	if channels > 1 {
		x = downmix(x, channels)
	}
	return resample(x, rate, SampleRate)
}
