package audio

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alert.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	err = RenderWAV(f, 16000, 250*time.Millisecond, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = in.Close() }()

	streamer, format, err := wav.Decode(in)
	require.NoError(t, err)
	defer func() { _ = streamer.Close() }()

	assert.Equal(t, beep.SampleRate(16000), format.SampleRate)
	assert.Equal(t, 2, format.NumChannels)
	assert.Equal(t, 4000, streamer.Len())

	buf := make([][2]float64, streamer.Len())
	n, _ := streamer.Stream(buf)
	require.Equal(t, 4000, n)

	loudest := 0.0
	for _, s := range buf {
		loudest = max(loudest, s[0], -s[0])
	}
	assert.Greater(t, loudest, 0.05)
}

func TestRenderWAV_InvalidSampleRate(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "alert.wav"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	// 2 kHz cannot be represented at 3 kHz.
	err = RenderWAV(f, 3000, 100*time.Millisecond, nil)
	assert.ErrorContains(t, err, "failed to build tone")
}

func TestRenderWAV_DurationTooLong(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "alert.wav"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	err = RenderWAV(f, 8000, MaxDuration+time.Millisecond, nil)
	assert.ErrorContains(t, err, "exceeds maximum")

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
