// Package resources provides the widget's bundled media. Nothing is read
// from disk: the alert tone is synthesized once and cached.
package resources

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	// AlertToneName is the resource name of the looping alarm tone.
	AlertToneName = "alert.wav"

	// SampleRate and ChannelCount describe the PCM inside the alert tone.
	SampleRate   = 44100
	ChannelCount = 1

	bitsPerSample = 16
)

// tone is one segment of the alert pattern. A zero frequency is silence.
type tone struct {
	frequency float64
	seconds   float64
}

// Two short beeps then a pause; the player loops the whole pattern.
var alertPattern = []tone{
	{frequency: 880, seconds: 0.18},
	{seconds: 0.08},
	{frequency: 880, seconds: 0.18},
	{seconds: 0.56},
}

var generators = map[string]func() []byte{
	AlertToneName: func() []byte { return synthesizeWAV(alertPattern) },
}

var cache sync.Map

// Media returns a named bundled resource.
func Media(name string) (fyne.Resource, error) {
	return loadResource(name, &cache)
}

// MustMedia returns a bundled resource or panics on error.
func MustMedia(name string) fyne.Resource {
	resource, err := Media(name)
	if err != nil {
		panic(err)
	}
	return resource
}

// AlertTone returns the WAV bytes of the alarm tone.
func AlertTone() []byte {
	return MustMedia(AlertToneName).Content()
}

// AppIcon is the window and tray icon.
func AppIcon() fyne.Resource {
	return theme.HistoryIcon()
}

func loadResource(name string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	generate, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("load resource %s: not bundled", name)
	}

	resource := fyne.NewStaticResource(name, generate())
	actual, _ := cache.LoadOrStore(name, resource)
	return actual.(fyne.Resource), nil
}

// synthesizeWAV renders the pattern as 16-bit mono PCM in a RIFF container.
// Each beep gets a short linear fade so the loop does not click.
func synthesizeWAV(pattern []tone) []byte {
	const fadeSamples = SampleRate / 200

	var pcm bytes.Buffer
	for _, segment := range pattern {
		samples := int(segment.seconds * SampleRate)
		for i := 0; i < samples; i++ {
			var value float64
			if segment.frequency > 0 {
				envelope := 1.0
				if i < fadeSamples {
					envelope = float64(i) / fadeSamples
				} else if samples-i < fadeSamples {
					envelope = float64(samples-i) / fadeSamples
				}
				value = 0.6 * envelope * math.Sin(2*math.Pi*segment.frequency*float64(i)/SampleRate)
			}
			_ = binary.Write(&pcm, binary.LittleEndian, int16(value*math.MaxInt16))
		}
	}

	data := pcm.Bytes()
	blockAlign := ChannelCount * bitsPerSample / 8

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(36+len(data)))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	_ = binary.Write(&out, binary.LittleEndian, uint32(16))
	_ = binary.Write(&out, binary.LittleEndian, uint16(1))
	_ = binary.Write(&out, binary.LittleEndian, uint16(ChannelCount))
	_ = binary.Write(&out, binary.LittleEndian, uint32(SampleRate))
	_ = binary.Write(&out, binary.LittleEndian, uint32(SampleRate*blockAlign))
	_ = binary.Write(&out, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&out, binary.LittleEndian, uint16(bitsPerSample))
	out.WriteString("data")
	_ = binary.Write(&out, binary.LittleEndian, uint32(len(data)))
	out.Write(data)
	return out.Bytes()
}
