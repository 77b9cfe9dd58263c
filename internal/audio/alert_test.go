package audio

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiltclock/internal/logger"
	"tiltclock/resources"
)

type fakePlayer struct {
	src     io.Reader
	playing bool
	closed  bool
}

func (p *fakePlayer) Play()           { p.playing = true }
func (p *fakePlayer) Pause()          { p.playing = false }
func (p *fakePlayer) IsPlaying() bool { return p.playing }
func (p *fakePlayer) Close() error {
	p.closed = true
	return nil
}

func newTestAlert(t *testing.T, setupErr error) (*Alert, *[]*fakePlayer) {
	t.Helper()
	alert, err := NewAlert(resources.AlertTone(), resources.SampleRate, resources.ChannelCount, logger.Discard())
	require.NoError(t, err)

	var players []*fakePlayer
	alert.setup = func() (opener, error) {
		if setupErr != nil {
			return nil, setupErr
		}
		return func(src io.Reader) player {
			p := &fakePlayer{src: src}
			players = append(players, p)
			return p
		}, nil
	}
	return alert, &players
}

func TestAlertStartStop(t *testing.T) {
	alert, players := newTestAlert(t, nil)

	require.NoError(t, alert.Start())
	require.NoError(t, alert.Start())
	require.Len(t, *players, 1)
	assert.True(t, alert.Playing())

	require.NoError(t, alert.Stop())
	assert.False(t, alert.Playing())
	assert.True(t, (*players)[0].closed)
	require.NoError(t, alert.Stop())

	require.NoError(t, alert.Start())
	assert.Len(t, *players, 2)
}

func TestAlertDeviceFailure(t *testing.T) {
	alert, players := newTestAlert(t, errors.New("no audio device"))
	assert.Error(t, alert.Start())
	assert.Error(t, alert.Start())
	assert.Empty(t, *players)
	assert.NoError(t, alert.Stop())
}

func TestLoopReaderWraps(t *testing.T) {
	r := &loopReader{data: []byte{1, 2, 3}}
	buf := make([]byte, 7)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []byte{1, 2, 3, 1, 2, 3, 1}, buf)

	n, err = r.Read(buf[:2])
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{2, 3}, buf[:2])
}

func TestExtractPCM(t *testing.T) {
	wav := resources.AlertTone()
	pcm, err := extractPCM(wav)
	require.NoError(t, err)
	assert.Equal(t, len(wav)-44, len(pcm))

	_, err = extractPCM([]byte("short"))
	assert.Error(t, err)

	bogus := make([]byte, 64)
	copy(bogus, "RIFX")
	_, err = extractPCM(bogus)
	assert.Error(t, err)
}
