// Package audio plays the looping alarm tone through oto.
package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	"tiltclock/internal/core/alarm"
	"tiltclock/internal/logger"
)

// player is the subset of *oto.Player the alert drives.
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// opener creates players reading PCM from a stream.
type opener func(src io.Reader) player

// Alert loops a WAV tone until stopped.
type Alert struct {
	log *logger.Logger
	pcm []byte

	initOnce sync.Once
	initErr  error
	open     opener
	setup    func() (opener, error)

	mu     sync.Mutex
	active player
}

var _ alarm.Sound = (*Alert)(nil)

// NewAlert prepares an alert for wav, which must be 16-bit PCM at
// sampleRate with channels channels. The audio device is opened on the
// first Start.
func NewAlert(wav []byte, sampleRate, channels int, log *logger.Logger) (*Alert, error) {
	pcm, err := extractPCM(wav)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, errors.New("wav has no samples")
	}
	return &Alert{
		log:   log,
		pcm:   pcm,
		setup: func() (opener, error) {
			return openDevice(sampleRate, channels, log)
		},
	}, nil
}

func openDevice(sampleRate, channels int, log *logger.Logger) (opener, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("audio: device ready (rate=%d, channels=%d)", sampleRate, channels)
	return func(src io.Reader) player {
		return ctx.NewPlayer(src)
	}, nil
}

// Start begins looping the tone. Starting an alert that is already playing
// is a no-op.
func (a *Alert) Start() error {
	a.initOnce.Do(func() {
		a.open, a.initErr = a.setup()
	})
	if a.initErr != nil {
		return a.initErr
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active != nil {
		return nil
	}
	p := a.open(&loopReader{data: a.pcm})
	p.Play()
	a.active = p
	a.log.Debug("audio: looping %d bytes of PCM", len(a.pcm))
	return nil
}

// Stop silences the tone. Safe to call when nothing is playing.
func (a *Alert) Stop() error {
	a.mu.Lock()
	active := a.active
	a.active = nil
	a.mu.Unlock()

	if active == nil {
		return nil
	}
	active.Pause()
	a.log.Debug("audio: stopped")
	return active.Close()
}

// Playing reports whether the tone is looping.
func (a *Alert) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active != nil && a.active.IsPlaying()
}

// loopReader repeats data forever.
type loopReader struct {
	data []byte
	pos  int
}

func (r *loopReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		copied := copy(p[n:], r.data[r.pos:])
		n += copied
		r.pos = (r.pos + copied) % len(r.data)
	}
	return n, nil
}

// extractPCM strips the WAV/RIFF header and returns raw PCM data.
func extractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("wav data too short")
	}

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	pos := 12
	for pos < len(wav)-8 {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))

		if chunkID == "data" {
			start := pos + 8
			end := start + chunkSize
			if end > len(wav) {
				end = len(wav)
			}
			// Keep whole 16-bit samples so the loop stays aligned.
			end -= (end - start) % 2
			return wav[start:end], nil
		}

		pos += 8 + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}

	return nil, errors.New("data chunk not found in WAV")
}
