package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	name      string
	available bool
	err       error
	captured  int
}

func (f *fakeBackend) Name() string    { return f.name }
func (f *fakeBackend) Available() bool { return f.available }

func (f *fakeBackend) Capture(_ context.Context, _ Config) error {
	f.captured++
	return f.err
}
func (f *fakeBackend) ListDevices(_ context.Context) (string, error) { return "", nil }

func TestCaptureWithFallbackUsesFirstAvailableBackend(t *testing.T) {
	t.Parallel()

	first := &fakeBackend{name: "first", available: false}
	second := &fakeBackend{name: "second", available: true}

	name, err := captureWithFallback(context.Background(), []Backend{first, second}, "auto", Config{OutputPath: t.TempDir() + "/c.wav"})
	require.NoError(t, err)
	require.Equal(t, "second", name)
	require.Zero(t, first.captured)
	require.Equal(t, 1, second.captured)
}

func TestCaptureWithFallbackFallsThroughOnFailure(t *testing.T) {
	t.Parallel()

	first := &fakeBackend{name: "first", available: true, err: errors.New("device busy")}
	second := &fakeBackend{name: "second", available: true}

	name, err := captureWithFallback(context.Background(), []Backend{first, second}, "auto", Config{OutputPath: t.TempDir() + "/c.wav"})
	require.NoError(t, err)
	require.Equal(t, "second", name)
	require.Equal(t, 1, first.captured)
}

func TestCaptureWithFallbackPrefersRequestedBackend(t *testing.T) {
	t.Parallel()

	first := &fakeBackend{name: "first", available: true}
	second := &fakeBackend{name: "second", available: true}

	name, err := captureWithFallback(context.Background(), []Backend{first, second}, "second", Config{OutputPath: t.TempDir() + "/c.wav"})
	require.NoError(t, err)
	require.Equal(t, "second", name)
	require.Zero(t, first.captured)
}

func TestCaptureWithFallbackUnknownBackend(t *testing.T) {
	t.Parallel()

	first := &fakeBackend{name: "first", available: true}

	_, err := captureWithFallback(context.Background(), []Backend{first}, "bogus", Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown backend")
}

func TestCaptureWithFallbackStopsOnContextCancellation(t *testing.T) {
	t.Parallel()

	first := &fakeBackend{name: "first", available: true, err: context.Canceled}
	second := &fakeBackend{name: "second", available: true}

	_, err := captureWithFallback(context.Background(), []Backend{first, second}, "auto", Config{OutputPath: t.TempDir() + "/c.wav"})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, second.captured)
}

func TestCaptureWithFallbackAllUnavailable(t *testing.T) {
	t.Parallel()

	first := &fakeBackend{name: "first"}
	second := &fakeBackend{name: "second"}

	_, err := captureWithFallback(context.Background(), []Backend{first, second}, "auto", Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not available")
}

func TestDefaultBackendsPerOS(t *testing.T) {
	t.Parallel()

	linux := DefaultBackends("linux")
	require.Len(t, linux, 3)
	require.Equal(t, "pw-record", linux[0].Name())
	require.Equal(t, "arecord", linux[1].Name())
	require.Equal(t, "ffmpeg", linux[2].Name())

	darwin := DefaultBackends("darwin")
	require.Len(t, darwin, 1)
	require.Equal(t, "ffmpeg", darwin[0].Name())

	require.Empty(t, DefaultBackends("windows"))
}

func TestALSAArgsIncludePhraseLimitAndDevice(t *testing.T) {
	t.Parallel()

	args := alsaArgs(Config{
		OutputPath:  "/tmp/utterance.wav",
		PhraseLimit: 10 * time.Second,
		Input:       "hw:1,0",
	})

	require.Contains(t, args, "-d")
	require.Contains(t, args, "10")
	require.Contains(t, args, "-D")
	require.Contains(t, args, "hw:1,0")
	require.Equal(t, "/tmp/utterance.wav", args[len(args)-1])
}

func TestFFMPEGSourcesUseSelectedInput(t *testing.T) {
	t.Parallel()

	defaults := ffmpegSources(Config{})
	require.Equal(t, []ffmpegSource{
		{format: "pulse", input: "default"},
		{format: "alsa", input: "default"},
	}, defaults)

	named := ffmpegSources(Config{Input: "hw:1,0"})
	require.Len(t, named, 2)
	require.Equal(t, "hw:1,0", named[0].input)
	require.Equal(t, "hw:1,0", named[1].input)

	pinned := ffmpegSources(Config{Format: "alsa", Input: "hw:1,0"})
	require.Equal(t, []ffmpegSource{{format: "alsa", input: "hw:1,0"}}, pinned)
}

func TestFFMPEGArgsBoundCapture(t *testing.T) {
	t.Parallel()

	args := ffmpegArgs(Config{OutputPath: "/tmp/u.wav", PhraseLimit: 8 * time.Second}, "pulse", "default")
	require.Contains(t, args, "-t")
	require.Contains(t, args, "8")
	require.Contains(t, args, "pulse")
	require.Contains(t, args, "pcm_s16le")
	require.Equal(t, "/tmp/u.wav", args[len(args)-1])
}
